package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// UserSource lists the users whose insights can be recomputed.
type UserSource interface {
	// ListSetupUserIDs returns the IDs of all users with a completed profile.
	ListSetupUserIDs(ctx context.Context) ([]string, error)
}

// InsightsRecomputer recomputes the stored insights for one user.
type InsightsRecomputer interface {
	Recompute(ctx context.Context, userID string) error
}

// RecomputeJob recomputes nutrition insights for every set-up user.
// It runs after formula or ratio changes ship, so stored insights catch
// up without waiting for each user's next profile update.
type RecomputeJob struct {
	config   RecomputeConfig
	logger   zerolog.Logger
	users    UserSource
	insights InsightsRecomputer

	metrics *RecomputeMetrics
}

// RecomputeMetrics tracks recompute job statistics.
type RecomputeMetrics struct {
	mu sync.RWMutex

	TotalRuns       int64
	SuccessfulUsers int64
	FailedUsers     int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// RecomputeJobConfig holds configuration for creating a RecomputeJob.
type RecomputeJobConfig struct {
	Config   RecomputeConfig
	Logger   zerolog.Logger
	Users    UserSource
	Insights InsightsRecomputer
}

// NewRecomputeJob creates a new recompute job processor.
func NewRecomputeJob(cfg RecomputeJobConfig) *RecomputeJob {
	return &RecomputeJob{
		config:   cfg.Config.withDefaults(),
		logger:   cfg.Logger,
		users:    cfg.Users,
		insights: cfg.Insights,
		metrics:  &RecomputeMetrics{},
	}
}

// RecomputeResult contains the result of one recompute run.
type RecomputeResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalUsers int
	Successful int
	Failed     int
	Errors     []RecomputeError
}

// RecomputeError records one user whose recompute failed.
type RecomputeError struct {
	UserID string
	Error  string
}

// Run recomputes insights for all set-up users. A failure for one user
// never stops the run; it is recorded and the run continues.
func (j *RecomputeJob) Run(ctx context.Context) (*RecomputeResult, error) {
	startTime := time.Now()

	userIDs, err := j.users.ListSetupUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &RecomputeResult{
		StartTime:  startTime,
		TotalUsers: len(userIDs),
	}

	j.logger.Info().
		Int("total_users", result.TotalUsers).
		Int("concurrency", j.config.Concurrency).
		Msg("starting insights recompute job")

	usersChan := make(chan string, len(userIDs))
	resultsChan := make(chan userResult, len(userIDs))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.recomputeWorker(ctx, usersChan, resultsChan)
		}()
	}

	for _, id := range userIDs {
		usersChan <- id
	}
	close(usersChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for ur := range resultsChan {
		if ur.err == nil {
			result.Successful++
			continue
		}
		result.Failed++
		result.Errors = append(result.Errors, RecomputeError{
			UserID: ur.userID,
			Error:  ur.err.Error(),
		})
		j.logger.Warn().
			Str("user_id", ur.userID).
			Str("error", ur.err.Error()).
			Msg("insights recompute failed for user")
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("insights recompute job completed")

	return result, nil
}

// Failed reports whether too many users failed for the run to count as
// successful.
func (j *RecomputeJob) Failed(result *RecomputeResult) bool {
	if result.TotalUsers == 0 {
		return false
	}
	ratio := float64(result.Failed) / float64(result.TotalUsers)
	return ratio > j.config.MaxFailureRatio
}

type userResult struct {
	userID string
	err    error
}

func (j *RecomputeJob) recomputeWorker(ctx context.Context, users <-chan string, results chan<- userResult) {
	for userID := range users {
		select {
		case <-ctx.Done():
			return
		default:
			userCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
			err := j.insights.Recompute(userCtx, userID)
			cancel()
			results <- userResult{userID: userID, err: err}
		}
	}
}

func (j *RecomputeJob) updateMetrics(result *RecomputeResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulUsers += int64(result.Successful)
	j.metrics.FailedUsers += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RecomputeJob) GetMetrics() RecomputeMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RecomputeMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		SuccessfulUsers: j.metrics.SuccessfulUsers,
		FailedUsers:     j.metrics.FailedUsers,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}
