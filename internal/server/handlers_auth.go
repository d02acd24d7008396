package server

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.InternalUser, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"iss":   "folio-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// hashPassword bcrypt-hashes a password. bcrypt only reads the first 72
// bytes, so longer inputs are truncated explicitly.
func hashPassword(password string) (string, error) {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(b, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), b) == nil
}

// userResponse builds the public profile shape returned by auth endpoints.
func userResponse(user *models.InternalUser) map[string]interface{} {
	return map[string]interface{}{
		"user_id": user.UserID,
		"email":   user.Email,
		"name":    user.Name,
	}
}

// handleAuthRegister handles POST /api/auth/register.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(req.Email) {
		WriteErrorWithCode(w, http.StatusBadRequest, "invalid email address", "invalid_email")
		return
	}
	if len(req.Password) < 6 {
		WriteErrorWithCode(w, http.StatusBadRequest, "password must be at least 6 characters", "weak_password")
		return
	}
	if req.Name == "" {
		req.Name = strings.SplitN(req.Email, "@", 2)[0]
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()

	if _, err := store.GetUserByEmail(ctx, req.Email); err == nil {
		WriteErrorWithCode(w, http.StatusConflict, "an account with this email already exists", "email_taken")
		return
	} else if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error().Err(err).Msg("User lookup failed during registration")
		WriteError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Password hashing failed")
		WriteError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user := &models.InternalUser{
		UserID:       userIDFromEmail(req.Email),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		WriteError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	if err := s.app.Portfolio.CreateStarter(ctx, user.UserID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.UserID).Msg("Starter portfolio creation failed")
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("User registered")
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  userResponse(user),
	})
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.app.Storage.InternalStore().GetUserByEmail(r.Context(), req.Email)
	if err != nil || !checkPassword(user.PasswordHash, req.Password) {
		WriteErrorWithCode(w, http.StatusUnauthorized, "invalid email or password", "invalid_credentials")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  userResponse(user),
	})
}

// handleAuthLogout handles POST /api/auth/logout. Tokens are stateless, so
// this only acknowledges; clients drop the token.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAuthValidate handles POST /api/auth/validate.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		WriteError(w, http.StatusUnauthorized, "missing or invalid Authorization header")
		return
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := validateJWT(tokenString, []byte(s.app.Config.Auth.JWTSecret))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		WriteError(w, http.StatusUnauthorized, "invalid token claims")
		return
	}

	user, err := s.app.Storage.InternalStore().GetUser(r.Context(), sub)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": userResponse(user),
	})
}

var userIDSanitizer = regexp.MustCompile(`[^a-z0-9_]+`)

// userIDFromEmail derives a record-safe user id from an email address.
func userIDFromEmail(email string) string {
	id := strings.ReplaceAll(strings.ToLower(email), "@", "_")
	id = strings.ReplaceAll(id, ".", "_")
	return userIDSanitizer.ReplaceAllString(id, "_")
}
