package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userMeBody struct {
	User struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
	} `json:"user"`
	Preferences map[string]string `json:"preferences"`
}

func TestUserMe_RequiresAuth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserMe_Get(t *testing.T) {
	s, _ := newTestServer(t)
	token, userID := registerUser(t, s, "alice@example.com")

	rec := doRequest(t, s, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body userMeBody
	decodeBody(t, rec, &body)
	assert.Equal(t, userID, body.User.UserID)
	assert.Equal(t, "alice@example.com", body.User.Email)
	assert.Equal(t, "Test User", body.User.Name)
	assert.Empty(t, body.Preferences)
}

func TestUserMe_UpdateNameAndPreferences(t *testing.T) {
	s, _ := newTestServer(t)
	token, _ := registerUser(t, s, "bob@example.com")

	rec := doRequest(t, s, http.MethodPut, "/api/users/me", token, map[string]interface{}{
		"name": "Bob Updated",
		"preferences": map[string]string{
			"theme":    "dark",
			"currency": "USD",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body userMeBody
	decodeBody(t, rec, &body)
	assert.Equal(t, "Bob Updated", body.User.Name)
	assert.Equal(t, "dark", body.Preferences["theme"])
	assert.Equal(t, "USD", body.Preferences["currency"])

	// Empty value removes a preference
	rec = doRequest(t, s, http.MethodPut, "/api/users/me", token, map[string]interface{}{
		"preferences": map[string]string{"theme": ""},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = userMeBody{}
	decodeBody(t, rec, &body)
	_, ok := body.Preferences["theme"]
	assert.False(t, ok)
	assert.Equal(t, "USD", body.Preferences["currency"])
}
