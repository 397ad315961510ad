package models

import "time"

// RefreshToken is a server-stored, single-use token that can be exchanged
// for a new access token until Expires.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
