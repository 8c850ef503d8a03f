package nutrition

import (
	"context"
	"sync"
)

// Repository defines the interface for insights persistence.
type Repository interface {
	// Get retrieves the stored insights for a user.
	// Returns ErrInsightsNotFound if the user has none yet.
	Get(ctx context.Context, userID string) (*Insights, error)

	// Upsert stores the insights, replacing any previous record.
	Upsert(ctx context.Context, insights *Insights) error
}

// MemoryRepository is an in-memory implementation of Repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	insights map[string]*Insights
}

// NewMemoryRepository creates a new in-memory insights repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{insights: make(map[string]*Insights)}
}

// Get retrieves the stored insights for a user.
func (r *MemoryRepository) Get(_ context.Context, userID string) (*Insights, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.insights[userID]
	if !ok {
		return nil, ErrInsightsNotFound
	}
	copied := *i
	return &copied, nil
}

// Upsert stores the insights, replacing any previous record.
func (r *MemoryRepository) Upsert(_ context.Context, insights *Insights) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *insights
	r.insights[insights.UserID] = &copied
	return nil
}
