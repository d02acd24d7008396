package server

import (
	"net/http"
	"time"
)

// handleUserMe handles GET and PUT /api/users/me.
func (s *Server) handleUserMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleUserMeGet(w, r, userID)
	case http.MethodPut:
		s.handleUserMePut(w, r, userID)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

func (s *Server) handleUserMeGet(w http.ResponseWriter, r *http.Request, userID string) {
	store := s.app.Storage.InternalStore()
	user, err := store.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	prefs := map[string]string{}
	if kvs, err := store.ListUserKV(r.Context(), userID); err == nil {
		for _, kv := range kvs {
			prefs[kv.Key] = kv.Value
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":        userResponse(user),
		"preferences": prefs,
	})
}

func (s *Server) handleUserMePut(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		Name        string            `json:"name"`
		Preferences map[string]string `json:"preferences"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	store := s.app.Storage.InternalStore()
	user, err := store.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if req.Name != "" && req.Name != user.Name {
		user.Name = req.Name
		user.ModifiedAt = time.Now().UTC()
		if err := store.SaveUser(ctx, user); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update user")
			WriteError(w, http.StatusInternalServerError, "failed to update profile")
			return
		}
	}

	for key, value := range req.Preferences {
		if value == "" {
			if err := store.DeleteUserKV(ctx, userID, key); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("Failed to delete preference")
			}
			continue
		}
		if err := store.SetUserKV(ctx, userID, key, value); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to save preference")
		}
	}

	s.handleUserMeGet(w, r, userID)
}
