package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/tkovalenko/sentencely-backend/internal/domain"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler/fsrs"
)

// PreviewAll projects the outcome of every possible rating of a card without
// persisting anything. Given the same now, the projections match exactly
// what SubmitRating would commit; the memory model is deterministic by
// construction, so this holds even with interval fuzzing enabled.
func (s *Service) PreviewAll(ctx context.Context, input PreviewInput) ([]domain.DuePreview, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	card, err := s.cards.GetByID(ctx, userID, input.CardID)
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}

	prefs, err := s.resolvePrefs(ctx, userID, card.Language)
	if err != nil {
		return nil, err
	}

	return previewCard(*card, prefs, s.fsrsParams(prefs), input.Now)
}

// previewCard computes the rating projections for one card. Pure, no DB.
//
// An initial-learning card has a single synthetic outcome: the recall grades
// carry no meaning before graduation, so the preview only says whether the
// next exposure graduates the card. A graduated card gets one projection per
// recall grade, computed by the same functions SubmitRating uses.
func previewCard(card domain.Card, prefs domain.SchedulingPrefs, params fsrs.Params, now time.Time) ([]domain.DuePreview, error) {
	switch card.Phase {
	case domain.PhaseInitialLearning:
		update, graduated, err := markSeen(card, prefs, now)
		if err != nil {
			return nil, err
		}
		return []domain.DuePreview{{
			Rating:        domain.RatingSeen,
			DueAt:         update.DueAt,
			Interval:      formatInterval(update.DueAt.Sub(now)),
			WouldGraduate: graduated,
		}}, nil

	case domain.PhaseFsrsReview:
		previews := make([]domain.DuePreview, 0, 4)
		for _, rating := range domain.AllRatings() {
			update, err := rateFsrs(card, rating, params, now)
			if err != nil {
				return nil, err
			}
			previews = append(previews, domain.DuePreview{
				Rating:   rating,
				DueAt:    update.DueAt,
				Interval: formatInterval(update.DueAt.Sub(now)),
			})
		}
		return previews, nil

	default:
		return nil, fmt.Errorf("card %s: unknown phase %q", card.ID, card.Phase)
	}
}
