package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler/fsrs"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Scheduler.validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	return nil
}

func (s *SchedulerConfig) validate() error {
	if s.SelectLimit <= 0 {
		return fmt.Errorf("select_limit must be > 0 (got %d)", s.SelectLimit)
	}
	if s.MaxIntervalDays <= 0 {
		return fmt.Errorf("max_interval_days must be > 0 (got %d)", s.MaxIntervalDays)
	}

	steps, err := ParseSteps(s.LearningStepsRaw)
	if err != nil {
		return fmt.Errorf("learning_steps: %w", err)
	}
	if len(steps) == 0 {
		return fmt.Errorf("learning_steps must contain at least one step")
	}
	s.LearningSteps = steps

	relearn, err := ParseSteps(s.RelearningStepsRaw)
	if err != nil {
		return fmt.Errorf("relearning_steps: %w", err)
	}
	if len(relearn) == 0 {
		return fmt.Errorf("relearning_steps must contain at least one step")
	}
	s.RelearningSteps = relearn

	weights, err := ParseWeights(s.WeightsRaw)
	if err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	s.Weights = weights

	return nil
}

// ParseSteps parses a comma-separated string of durations (e.g. "1m,10m")
// into a slice of time.Duration. An empty string returns a nil slice.
func ParseSteps(raw string) ([]time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	steps := make([]time.Duration, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := time.ParseDuration(p)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", p, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("step %q must be positive", p)
		}
		steps = append(steps, d)
	}

	return steps, nil
}

// ParseWeights parses a comma-separated string of 19 FSRS weights. An empty
// string returns the published defaults.
func ParseWeights(raw string) (fsrs.Weights, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fsrs.DefaultWeights, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != len(fsrs.Weights{}) {
		return fsrs.Weights{}, fmt.Errorf("expected %d weights, got %d", len(fsrs.Weights{}), len(parts))
	}

	var w fsrs.Weights
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fsrs.Weights{}, fmt.Errorf("invalid weight at position %d: %w", i, err)
		}
		w[i] = v
	}

	if err := w.Validate(); err != nil {
		return fsrs.Weights{}, err
	}
	return w, nil
}
