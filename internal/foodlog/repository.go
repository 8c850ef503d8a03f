package foodlog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mealmeter/mealmeter/internal/api/models"
)

// Repository defines the interface for food log persistence.
type Repository interface {
	// AppendEntry atomically appends an entry to the given slot of the
	// user's log for the date, creating the log if needed. Totals and the
	// stored target are updated in the same operation. Returns the log
	// after the append.
	AppendEntry(ctx context.Context, userID string, date time.Time, slot models.MealSlot, entry Entry, targetCalories int) (*DailyLog, error)

	// GetDaily retrieves the log for one day.
	// Returns ErrLogNotFound if the user has no entries for that day.
	GetDaily(ctx context.Context, userID string, date time.Time) (*DailyLog, error)

	// ListAll retrieves every log for a user, newest date first.
	ListAll(ctx context.Context, userID string) ([]*DailyLog, error)
}

type memoryKey struct {
	userID string
	date   string
}

// MemoryRepository is an in-memory implementation of Repository.
// A single mutex serializes appends, mirroring the atomicity of the
// single-statement Postgres upsert.
type MemoryRepository struct {
	mu   sync.Mutex
	logs map[memoryKey]*DailyLog
}

// NewMemoryRepository creates a new in-memory food log repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{logs: make(map[memoryKey]*DailyLog)}
}

// AppendEntry atomically appends an entry to a day's log.
func (r *MemoryRepository) AppendEntry(_ context.Context, userID string, date time.Time, slot models.MealSlot, entry Entry, targetCalories int) (*DailyLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	date = DateKey(date)
	key := memoryKey{userID: userID, date: date.Format("2006-01-02")}

	log, ok := r.logs[key]
	if !ok {
		now := time.Now()
		log = NewEmptyLog(userID, date, targetCalories)
		log.CreatedAt = now
		r.logs[key] = log
	}

	log.Meals[slot] = append(log.Meals[slot], entry)
	log.TotalCalories += entry.Calories
	log.TargetCalories = targetCalories
	log.RemainingCalories = float64(targetCalories) - log.TotalCalories
	log.UpdatedAt = time.Now()

	return copyLog(log), nil
}

// GetDaily retrieves the log for one day.
func (r *MemoryRepository) GetDaily(_ context.Context, userID string, date time.Time) (*DailyLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memoryKey{userID: userID, date: DateKey(date).Format("2006-01-02")}
	log, ok := r.logs[key]
	if !ok {
		return nil, ErrLogNotFound
	}
	return copyLog(log), nil
}

// ListAll retrieves every log for a user, newest date first.
func (r *MemoryRepository) ListAll(_ context.Context, userID string) ([]*DailyLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var logs []*DailyLog
	for _, log := range r.logs {
		if log.UserID == userID {
			logs = append(logs, copyLog(log))
		}
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Date.After(logs[j].Date)
	})

	return logs, nil
}

func copyLog(log *DailyLog) *DailyLog {
	copied := *log
	copied.Meals = make(map[models.MealSlot][]Entry, len(log.Meals))
	for slot, entries := range log.Meals {
		copied.Meals[slot] = append([]Entry(nil), entries...)
	}
	return &copied
}
