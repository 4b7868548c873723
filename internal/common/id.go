package common

import (
	"github.com/google/uuid"
)

// NewUserID generates a unique user ID with the "usr_" prefix
func NewUserID() string {
	return "usr_" + uuid.New().String()
}
