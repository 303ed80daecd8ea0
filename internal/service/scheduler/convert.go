package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler/fsrs"
	"github.com/tkovalenko/sentencely-backend/pkg/ctxutil"
)

// memoryFromCard converts a graduated card's FSRS field group to an
// fsrs.Memory for scheduling calculations.
func memoryFromCard(card domain.Card) fsrs.Memory {
	return fsrs.Memory{
		State:         card.State,
		Step:          card.Step,
		Stability:     card.Stability,
		Difficulty:    card.Difficulty,
		Due:           card.DueAt,
		LastReview:    card.LastReview,
		Reps:          card.Reps,
		Lapses:        card.Lapses,
		ScheduledDays: card.ScheduledDays,
		ElapsedDays:   card.ElapsedDays,
	}
}

// updateFromMemory builds the scheduling tuple to persist after a memory
// model advance. The initial-learning counters stay frozen at their
// graduation values.
func updateFromMemory(card domain.Card, result fsrs.Memory) domain.SchedulingUpdate {
	var lastReview *time.Time
	if result.LastReview != nil {
		t := *result.LastReview
		lastReview = &t
	}

	return domain.SchedulingUpdate{
		Phase:              domain.PhaseFsrsReview,
		InitialReviewCount: card.InitialReviewCount,
		LastInitialReview:  card.LastInitialReview,
		State:              result.State,
		Step:               result.Step,
		Stability:          result.Stability,
		Difficulty:         result.Difficulty,
		ElapsedDays:        result.ElapsedDays,
		ScheduledDays:      result.ScheduledDays,
		Reps:               result.Reps,
		Lapses:             result.Lapses,
		LastReview:         lastReview,
		DueAt:              result.Due,
	}
}

// ratingToFsrs maps a domain rating to the memory model's numeric rating.
// Unknown values map to zero, which the model rejects.
func ratingToFsrs(rating domain.Rating) fsrs.Rating {
	switch rating {
	case domain.RatingAgain:
		return fsrs.Again
	case domain.RatingHard:
		return fsrs.Hard
	case domain.RatingGood:
		return fsrs.Good
	case domain.RatingEasy:
		return fsrs.Easy
	default:
		return 0
	}
}

// snapshotFromCard captures the scheduling state of a card before mutation.
func snapshotFromCard(card domain.Card) *domain.CardSnapshot {
	return &domain.CardSnapshot{
		Phase:              card.Phase,
		InitialReviewCount: card.InitialReviewCount,
		State:              card.State,
		Step:               card.Step,
		Stability:          card.Stability,
		Difficulty:         card.Difficulty,
		ScheduledDays:      card.ScheduledDays,
		ElapsedDays:        card.ElapsedDays,
		Reps:               card.Reps,
		Lapses:             card.Lapses,
		DueAt:              card.DueAt,
		LastReview:         card.LastReview,
	}
}

// userID extracts the authenticated user's ID from context.
func (s *Service) userID(ctx context.Context) (uuid.UUID, error) {
	uid, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return uid, nil
}
