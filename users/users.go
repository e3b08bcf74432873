package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Lookup fields supported by the user directory. The field logins key on is
// configurable (AUTH_USERNAME_FIELD); anything outside this set is rejected
// by the repositories.
const (
	FieldEmail    = "email"
	FieldUsername = "username"
)

// User is a record in the user directory. This backend reads users during
// login and creates them during registration; it never mutates them
// otherwise.
type User struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"-"` // never serialize
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// HashPassword hashes a plaintext password with bcrypt at the given cost.
// A cost of 0 uses bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash verifies a plaintext password against a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidLookupField reports whether field can be used to key a directory
// lookup.
func ValidLookupField(field string) bool {
	return field == FieldEmail || field == FieldUsername
}
