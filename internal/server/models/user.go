// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered identity. Email is unique and doubles as the
// subject of access tokens.
type User struct {
	ID           int64     `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
