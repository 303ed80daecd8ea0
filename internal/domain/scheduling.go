package domain

import "time"

// SchedulingPrefs holds per-(user, language) scheduling preferences.
// Absent rows resolve to DefaultSchedulingPrefs; callers always receive a
// fully-populated struct, never a fallback chain of optional fields.
type SchedulingPrefs struct {
	ReviewsRequiredForGraduation int
	PriorityCoeffReviewCount     float64
	PriorityCoeffMinutes         float64
	DesiredRetention             float64
	MaxIntervalDays              int
}

// Default preference values, applied when a user has no stored row.
const (
	DefaultReviewsRequiredForGraduation = 4
	DefaultPriorityCoeffReviewCount     = 1.0
	DefaultPriorityCoeffMinutes         = 0.1
	DefaultDesiredRetention             = 0.9
	DefaultMaxIntervalDays              = 365
)

// DefaultSchedulingPrefs returns the documented preference defaults.
func DefaultSchedulingPrefs() SchedulingPrefs {
	return SchedulingPrefs{
		ReviewsRequiredForGraduation: DefaultReviewsRequiredForGraduation,
		PriorityCoeffReviewCount:     DefaultPriorityCoeffReviewCount,
		PriorityCoeffMinutes:         DefaultPriorityCoeffMinutes,
		DesiredRetention:             DefaultDesiredRetention,
		MaxIntervalDays:              DefaultMaxIntervalDays,
	}
}

// Validate checks all preference fields and collects all errors.
func (p SchedulingPrefs) Validate() error {
	var errs []FieldError

	if p.ReviewsRequiredForGraduation <= 0 {
		errs = append(errs, FieldError{Field: "reviews_required_for_graduation", Message: "must be > 0"})
	}
	if p.PriorityCoeffReviewCount < 0 {
		errs = append(errs, FieldError{Field: "priority_coeff_review_count", Message: "must be >= 0"})
	}
	if p.PriorityCoeffMinutes < 0 {
		errs = append(errs, FieldError{Field: "priority_coeff_minutes", Message: "must be >= 0"})
	}
	if p.DesiredRetention <= 0 || p.DesiredRetention >= 1 {
		errs = append(errs, FieldError{Field: "desired_retention", Message: "must be in (0, 1)"})
	}
	if p.MaxIntervalDays < 1 {
		errs = append(errs, FieldError{Field: "max_interval_days", Message: "must be >= 1"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// SchedulerConfig holds global scheduling parameters shared by all users.
// Per-user SchedulingPrefs narrow these where both exist (e.g. max interval).
type SchedulerConfig struct {
	SelectLimit     int
	MaxIntervalDays int
	EnableFuzz      bool
	LearningSteps   []time.Duration
	RelearningSteps []time.Duration
}
