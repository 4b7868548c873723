package models

import (
	"time"
)

// User is a registered account. PasswordHash holds a bcrypt hash; the
// plaintext password never touches storage.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
