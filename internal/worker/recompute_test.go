package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmeter/mealmeter/internal/worker"
)

// stubUsers returns a fixed slice of user IDs.
type stubUsers struct {
	ids     []string
	listErr error
}

func (s *stubUsers) ListSetupUserIDs(_ context.Context) ([]string, error) {
	return s.ids, s.listErr
}

// stubRecomputer records which users were recomputed and fails for a
// configured set of IDs.
type stubRecomputer struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]bool
}

func (s *stubRecomputer) Recompute(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, userID)
	if s.failFor[userID] {
		return errors.New("recompute blew up")
	}
	return nil
}

func (s *stubRecomputer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestJob(users *stubUsers, recomputer *stubRecomputer, cfg worker.RecomputeConfig) *worker.RecomputeJob {
	return worker.NewRecomputeJob(worker.RecomputeJobConfig{
		Config:   cfg,
		Logger:   zerolog.Nop(),
		Users:    users,
		Insights: recomputer,
	})
}

func TestDefaultRecomputeConfig(t *testing.T) {
	cfg := worker.DefaultRecomputeConfig()

	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 0.5, cfg.MaxFailureRatio)
}

func TestRecomputeJob_Run(t *testing.T) {
	users := &stubUsers{ids: []string{"usr_a", "usr_b", "usr_c"}}
	recomputer := &stubRecomputer{}
	job := newTestJob(users, recomputer, worker.RecomputeConfig{})

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalUsers)
	assert.Equal(t, 3, result.Successful)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, recomputer.callCount())
	assert.False(t, job.Failed(result))
}

func TestRecomputeJob_Run_PartialFailure(t *testing.T) {
	users := &stubUsers{ids: []string{"usr_a", "usr_b", "usr_c", "usr_d"}}
	recomputer := &stubRecomputer{failFor: map[string]bool{"usr_b": true}}
	job := newTestJob(users, recomputer, worker.RecomputeConfig{})

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "usr_b", result.Errors[0].UserID)
	assert.Equal(t, "recompute blew up", result.Errors[0].Error)

	// One failure out of four stays under the failure ratio.
	assert.False(t, job.Failed(result))
}

func TestRecomputeJob_Failed_OverRatio(t *testing.T) {
	users := &stubUsers{ids: []string{"usr_a", "usr_b", "usr_c"}}
	recomputer := &stubRecomputer{failFor: map[string]bool{
		"usr_a": true, "usr_b": true,
	}}
	job := newTestJob(users, recomputer, worker.RecomputeConfig{})

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Failed)
	assert.True(t, job.Failed(result))
}

func TestRecomputeJob_Run_ListError(t *testing.T) {
	users := &stubUsers{listErr: errors.New("db down")}
	job := newTestJob(users, &stubRecomputer{}, worker.RecomputeConfig{})

	result, err := job.Run(context.Background())

	assert.Nil(t, result)
	assert.EqualError(t, err, "db down")
}

func TestRecomputeJob_Run_NoUsers(t *testing.T) {
	users := &stubUsers{}
	job := newTestJob(users, &stubRecomputer{}, worker.RecomputeConfig{})

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalUsers)
	assert.False(t, job.Failed(result))
}

func TestRecomputeJob_Run_WithConcurrency(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = "usr_" + string(rune('a'+i%26)) + string(rune('0'+i/26))
	}
	users := &stubUsers{ids: ids}
	recomputer := &stubRecomputer{}
	job := newTestJob(users, recomputer, worker.RecomputeConfig{Concurrency: 8})

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50, result.Successful)
	assert.Equal(t, 50, recomputer.callCount())
}

func TestRecomputeJob_Run_ContextCancellation(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = "usr_x"
	}
	users := &stubUsers{ids: ids}
	job := newTestJob(users, &stubRecomputer{}, worker.RecomputeConfig{Concurrency: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := job.Run(ctx)

	// The run completes even when cancelled mid-way.
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestRecomputeJob_GetMetrics(t *testing.T) {
	users := &stubUsers{ids: []string{"usr_a", "usr_b"}}
	recomputer := &stubRecomputer{failFor: map[string]bool{"usr_b": true}}
	job := newTestJob(users, recomputer, worker.RecomputeConfig{})

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.SuccessfulUsers)
	assert.Equal(t, int64(1), metrics.FailedUsers)
	assert.NotZero(t, metrics.LastRunAt)
}

func TestRecomputeConfig_Defaults(t *testing.T) {
	job := worker.NewRecomputeJob(worker.RecomputeJobConfig{
		Logger:   zerolog.Nop(),
		Users:    &stubUsers{},
		Insights: &stubRecomputer{},
	})

	// Zero config runs fine with defaults filled in.
	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalUsers)
}
