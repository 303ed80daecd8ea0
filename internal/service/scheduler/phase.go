package scheduler

import (
	"time"

	"github.com/tkovalenko/sentencely-backend/internal/domain"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler/fsrs"
)

// markSeen applies one initial-learning exposure to a card. Pure function,
// no DB, no context, no logger.
//
// The normal path increments the review counter and graduates the card once
// the counter reaches the required threshold. A card that already meets the
// threshold (the requirement was lowered after it accrued reviews) graduates
// immediately without a further increment.
//
// Returns the full scheduling tuple to persist and whether graduation
// occurred. Calling it on a graduated card is caller misuse.
func markSeen(card domain.Card, prefs domain.SchedulingPrefs, now time.Time) (domain.SchedulingUpdate, bool, error) {
	if card.Phase != domain.PhaseInitialLearning {
		return domain.SchedulingUpdate{}, false, domain.ErrInvalidPhase
	}

	count := card.InitialReviewCount
	lastReview := card.LastInitialReview

	if count < prefs.ReviewsRequiredForGraduation {
		count++
		lastReview = &now
	}

	if count >= prefs.ReviewsRequiredForGraduation {
		return graduateUpdate(count, lastReview, now), true, nil
	}

	return domain.SchedulingUpdate{
		Phase:              domain.PhaseInitialLearning,
		InitialReviewCount: count,
		LastInitialReview:  lastReview,
		DueAt:              now,
	}, false, nil
}

// graduateUpdate builds the scheduling tuple for a card entering the FSRS
// phase: counters frozen, memory state reset to NEW, due immediately.
func graduateUpdate(reviewCount int, lastInitialReview *time.Time, now time.Time) domain.SchedulingUpdate {
	return domain.SchedulingUpdate{
		Phase:              domain.PhaseFsrsReview,
		InitialReviewCount: reviewCount,
		LastInitialReview:  lastInitialReview,
		State:              domain.MemoryStateNew,
		DueAt:              now,
	}
}

// rateFsrs applies one recall rating to a graduated card through the memory
// model. Pure function. Calling it on an initial-learning card is caller
// misuse.
func rateFsrs(card domain.Card, rating domain.Rating, params fsrs.Params, now time.Time) (domain.SchedulingUpdate, error) {
	if card.Phase != domain.PhaseFsrsReview {
		return domain.SchedulingUpdate{}, domain.ErrInvalidPhase
	}

	result, err := fsrs.Advance(params, memoryFromCard(card), ratingToFsrs(rating), now)
	if err != nil {
		return domain.SchedulingUpdate{}, err
	}

	return updateFromMemory(card, result), nil
}
