package users

import (
	"golang.org/x/crypto/bcrypt"
)

// Role represents a user's authorization level
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a recognised role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string   `json:"id,omitempty"`       // Unique identifier for the user
	Username     string   `json:"username,omitempty"` // Unique username
	Email        string   `json:"email,omitempty"`    // User's email address
	PasswordHash string   `json:"-"`                  // Hashed version of the user's password - never serialize
	Role         Role     `json:"role,omitempty"`     // Authorization role (user or admin)
	Tokens       []string `json:"-"`                  // Currently valid opaque bearer tokens, one per login/device
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
