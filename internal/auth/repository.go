package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
// Used in tests and local development without a database.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by user ID
}

// NewMemoryUserRepository creates a new in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*User)}
}

// FindByEmail finds a user by their email address.
func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

// Create creates a new user.
func (r *MemoryUserRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

// FindByID finds a user by their internal ID.
func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// FindByVerificationToken finds a user by their pending verification token.
func (r *MemoryUserRepository) FindByVerificationToken(_ context.Context, token string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.VerificationToken != "" && u.VerificationToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

// Update persists changes to an existing user.
func (r *MemoryUserRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

// MemoryRefreshTokenRepository is an in-memory implementation of
// RefreshTokenRepository.
type MemoryRefreshTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]*RefreshToken // keyed by token value
}

// NewMemoryRefreshTokenRepository creates a new in-memory refresh token repository.
func NewMemoryRefreshTokenRepository() *MemoryRefreshTokenRepository {
	return &MemoryRefreshTokenRepository{tokens: make(map[string]*RefreshToken)}
}

// Create stores a new refresh token.
func (r *MemoryRefreshTokenRepository) Create(_ context.Context, token *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

// FindByToken finds a refresh token by its value.
func (r *MemoryRefreshTokenRepository) FindByToken(_ context.Context, tokenValue string) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[tokenValue]
	if !ok {
		return nil, ErrInvalidRefreshToken
	}
	copied := *t
	return &copied, nil
}

// Revoke marks a refresh token as revoked.
func (r *MemoryRefreshTokenRepository) Revoke(_ context.Context, tokenValue string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenValue]
	if !ok {
		return nil
	}
	if t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

// RevokeAllForUser revokes all refresh tokens for a user.
func (r *MemoryRefreshTokenRepository) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}
