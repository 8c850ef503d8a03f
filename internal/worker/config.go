// Package worker provides background job processing for MealMeter.
package worker

import (
	"time"
)

// RecomputeConfig holds configuration for the bulk insights recompute job.
type RecomputeConfig struct {
	// Concurrency is the number of users recomputed in parallel.
	// Default: 4
	Concurrency int

	// Timeout bounds the recompute of a single user.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxFailureRatio is the fraction of failed users above which the
	// whole run is reported as failed. Default: 0.5
	MaxFailureRatio float64
}

// DefaultRecomputeConfig returns the default recompute configuration.
func DefaultRecomputeConfig() RecomputeConfig {
	return RecomputeConfig{
		Concurrency:     4,
		Timeout:         10 * time.Second,
		MaxFailureRatio: 0.5,
	}
}

// withDefaults fills in zero-valued fields.
func (c RecomputeConfig) withDefaults() RecomputeConfig {
	d := DefaultRecomputeConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxFailureRatio <= 0 {
		c.MaxFailureRatio = d.MaxFailureRatio
	}
	return c
}
