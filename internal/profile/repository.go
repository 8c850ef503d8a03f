package profile

import (
	"context"
	"sync"
)

// Repository defines the interface for profile data persistence.
type Repository interface {
	// Get retrieves a profile by user ID.
	// Returns ErrProfileNotFound if no row exists for the user.
	Get(ctx context.Context, userID string) (*Profile, error)

	// Create creates a new profile row.
	Create(ctx context.Context, p *Profile) error

	// Update updates an existing profile row.
	Update(ctx context.Context, p *Profile) error

	// ListSetupUserIDs returns the user IDs of all completed profiles.
	// Used by the bulk recompute worker.
	ListSetupUserIDs(ctx context.Context) ([]string, error)
}

// MemoryRepository is an in-memory implementation of Repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewMemoryRepository creates a new in-memory profile repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[string]*Profile)}
}

// Get retrieves a profile by user ID.
func (r *MemoryRepository) Get(_ context.Context, userID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

// Create creates a new profile row.
func (r *MemoryRepository) Create(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *p
	r.profiles[p.UserID] = &copied
	return nil
}

// Update updates an existing profile row.
func (r *MemoryRepository) Update(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.UserID]; !ok {
		return ErrProfileNotFound
	}
	copied := *p
	r.profiles[p.UserID] = &copied
	return nil
}

// ListSetupUserIDs returns the user IDs of all completed profiles.
func (r *MemoryRepository) ListSetupUserIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, p := range r.profiles {
		if p.IsSetup {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
