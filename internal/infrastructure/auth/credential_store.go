package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/imamecatronica/backend/internal/domain/identity"
	"github.com/imamecatronica/backend/internal/infrastructure/config"
)

// CredentialStore looks up operators and checks their passwords.
// The store is built once at startup and shared by the login handler.
type CredentialStore interface {
	Authenticate(ctx context.Context, username, password string) (*identity.User, error)
}

// StaticCredentialStore holds a fixed set of users keyed by lower-cased username
type StaticCredentialStore struct {
	mu    sync.RWMutex
	users map[string]*identity.User
}

var _ CredentialStore = (*StaticCredentialStore)(nil)

// NewStaticCredentialStore creates a store with the given users
func NewStaticCredentialStore(users ...*identity.User) *StaticCredentialStore {
	s := &StaticCredentialStore{users: make(map[string]*identity.User, len(users))}
	for _, u := range users {
		s.users[strings.ToLower(u.Username)] = u
	}
	return s
}

// NewCredentialStoreFromConfig builds a store from configured users.
// Password hashes are taken as-is; roles must be valid.
func NewCredentialStoreFromConfig(cfg config.AuthConfig) (*StaticCredentialStore, error) {
	users := make([]*identity.User, 0, len(cfg.Users))
	for _, uc := range cfg.Users {
		role, err := identity.ParseRole(uc.Role)
		if err != nil {
			return nil, fmt.Errorf("auth user %q: %w", uc.Username, err)
		}
		users = append(users, &identity.User{
			Username:     strings.TrimSpace(uc.Username),
			DisplayName:  uc.DisplayName,
			Role:         role,
			PasswordHash: uc.PasswordHash,
		})
	}
	return NewStaticCredentialStore(users...), nil
}

// Authenticate implements CredentialStore. Unknown users and wrong
// passwords both return identity.ErrInvalidCredentials.
func (s *StaticCredentialStore) Authenticate(_ context.Context, username, password string) (*identity.User, error) {
	s.mu.RLock()
	user, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	s.mu.RUnlock()

	if !ok || !user.VerifyPassword(password) {
		return nil, identity.ErrInvalidCredentials
	}
	return user, nil
}

// Len returns the number of users in the store
func (s *StaticCredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
