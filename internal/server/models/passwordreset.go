package models

import "time"

// PasswordReset is an issued reset token. Delivery to the user happens
// outside the backend.
type PasswordReset struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
