// Package models defines the client-side records of Bike & Bed.
package models

import (
	"maps"

	"github.com/dmitrijs2005/bikebed/internal/common"
)

// Metadata is the free-form profile bag carried by a session. It holds at
// least "role" and usually name, avatar, phone, bio and address.
type Metadata map[string]any

// Session is the authenticated actor on this device. It is persisted as JSON
// under a single storage key so it survives restarts.
type Session struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Metadata Metadata `json:"user_metadata"`

	// Tokens issued by a remote backend; empty for the mock gateway.
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Role returns the session role, defaulting to guest-user.
func (s *Session) Role() string {
	if s == nil {
		return ""
	}
	if r, ok := s.Metadata[common.RoleMetadataKey].(string); ok && r != "" {
		return r
	}
	return common.RoleGuestUser
}

func (s *Session) IsHost() bool {
	return s.Role() == common.RoleHost
}

// String reads a string field from the metadata bag.
func (s *Session) String(key string) string {
	if s == nil {
		return ""
	}
	v, _ := s.Metadata[key].(string)
	return v
}

// Clone returns a copy whose metadata bag can be mutated independently.
// Nested values are shared.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Metadata = maps.Clone(s.Metadata)
	if c.Metadata == nil {
		c.Metadata = Metadata{}
	}
	return &c
}

// MergeMetadata returns a clone of s with fields merged into the top level
// of its metadata bag. Keys in fields overwrite existing keys.
func (s *Session) MergeMetadata(fields map[string]any) *Session {
	c := s.Clone()
	maps.Copy(c.Metadata, fields)
	return c
}
