// Package models defines the document shapes stored in SurrealDB and the
// wire types served by the REST API.
package models

import "time"

// InternalUser represents a registered account stored in the user table.
type InternalUser struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at,omitempty"`
}

// UserKeyValue is a per-user preference entry in the user_kv table.
type UserKeyValue struct {
	UserID string `json:"user_id"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}
