package scheduler

import (
	"time"

	"github.com/google/uuid"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

// SelectDueInput holds the parameters for selecting the next batch of due cards.
type SelectDueInput struct {
	Language string
	Limit    int
	Now      time.Time
}

// Validate checks all fields and collects all errors.
func (i *SelectDueInput) Validate() error {
	var errs []domain.FieldError

	if i.Language == "" {
		errs = append(errs, domain.FieldError{Field: "language", Message: "required"})
	}
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Now.IsZero() {
		errs = append(errs, domain.FieldError{Field: "now", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SubmitRatingInput holds the parameters for rating a card. Rating is
// optional: it is ignored for initial-learning cards and required for cards
// in the FSRS review phase.
type SubmitRatingInput struct {
	CardID         uuid.UUID
	Rating         *domain.Rating
	ElapsedSeconds int
	Now            time.Time
}

// Validate checks all fields and collects all errors.
func (i *SubmitRatingInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Rating != nil && !i.Rating.IsValid() {
		errs = append(errs, domain.FieldError{Field: "rating", Message: "must be AGAIN, HARD, GOOD, or EASY"})
	}
	if i.ElapsedSeconds < 0 {
		errs = append(errs, domain.FieldError{Field: "elapsed_seconds", Message: "must be non-negative"})
	}
	if i.ElapsedSeconds > 3600 {
		errs = append(errs, domain.FieldError{Field: "elapsed_seconds", Message: "max 1 hour"})
	}
	if i.Now.IsZero() {
		errs = append(errs, domain.FieldError{Field: "now", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SkipAheadInput holds the parameters for bulk-graduating a language's
// initial-learning cards.
type SkipAheadInput struct {
	Language string
	Now      time.Time
}

// Validate checks all fields and collects all errors.
func (i *SkipAheadInput) Validate() error {
	var errs []domain.FieldError

	if i.Language == "" {
		errs = append(errs, domain.FieldError{Field: "language", Message: "required"})
	}
	if i.Now.IsZero() {
		errs = append(errs, domain.FieldError{Field: "now", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// PreviewInput holds the parameters for projecting rating outcomes of a card.
type PreviewInput struct {
	CardID uuid.UUID
	Now    time.Time
}

// Validate checks all fields and collects all errors.
func (i *PreviewInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Now.IsZero() {
		errs = append(errs, domain.FieldError{Field: "now", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// QueueStatsInput holds the parameters for fetching queue statistics.
type QueueStatsInput struct {
	Language string
	Now      time.Time
}

// Validate checks all fields and collects all errors.
func (i *QueueStatsInput) Validate() error {
	var errs []domain.FieldError

	if i.Language == "" {
		errs = append(errs, domain.FieldError{Field: "language", Message: "required"})
	}
	if i.Now.IsZero() {
		errs = append(errs, domain.FieldError{Field: "now", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CardHistoryInput holds the parameters for fetching a card's review history.
type CardHistoryInput struct {
	CardID uuid.UUID
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i *CardHistoryInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
