package models

import "time"

// RefreshToken is a long-lived session credential owned by one user.
// UserEmail is filled on lookup and is not stored in the token row.
type RefreshToken struct {
	ID        int64
	UserID    int64
	UserEmail string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
