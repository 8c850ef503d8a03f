package nutrition

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrInsightsNotFound = errors.New("nutrition insights not found")
)

// Insights holds a user's derived daily targets. Each recompute replaces
// the whole record.
type Insights struct {
	UserID       string
	TDEE         float64
	ProteinGrams int
	CarbsGrams   int
	FatsGrams    int
	UpdatedAt    time.Time
}
