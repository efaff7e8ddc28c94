package identity

import (
	"errors"
	"strings"

	"github.com/imamecatronica/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// User is an operator allowed to sign in
type User struct {
	Username     string
	DisplayName  string
	Role         Role
	PasswordHash string
}

// NewUser creates a user, hashing the plain-text password
func NewUser(username, displayName string, role Role, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &User{
		Username:     username,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: string(hash),
	}, nil
}

// VerifyPassword checks password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// ErrInvalidCredentials is returned when a username/password pair does not match
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// IsInvalidCredentials reports whether err is ErrInvalidCredentials
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
