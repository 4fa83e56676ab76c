// Package models defines server-side records persisted in the database.
package models

import "time"

// User is a registered reporter. PasswordHash holds a bcrypt hash and is
// never serialised.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
