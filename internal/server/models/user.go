// Package models defines server-side data models persisted in the database.
package models

import (
	"maps"
	"time"
)

// User is an account of the auth backend. Metadata holds the profile bag
// (name, role, phone, avatar, ...) stored as jsonb.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Salt         []byte
	Metadata     map[string]any
	CreatedAt    time.Time
}

// Clone returns a copy whose Metadata map is not shared with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Metadata = maps.Clone(u.Metadata)
	return &c
}
