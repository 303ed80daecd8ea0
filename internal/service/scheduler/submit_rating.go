package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

// SubmitRating records one review of a card and applies its scheduling
// consequences. The card's phase decides the path: an initial-learning card
// is marked seen (any supplied rating is ignored), a graduated card is
// advanced through the memory model (a rating is then required).
//
// The updated card and its review event commit in a single transaction, with
// the card row locked so two near-simultaneous submissions cannot both read
// the same base state.
func (s *Service) SubmitRating(ctx context.Context, input SubmitRatingInput) (*domain.Card, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := input.Now

	var updated *domain.Card
	var eventRating domain.Rating

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		card, err := s.cards.GetByIDForUpdate(txCtx, userID, input.CardID)
		if err != nil {
			return fmt.Errorf("get card: %w", err)
		}

		prefs, err := s.resolvePrefs(txCtx, userID, card.Language)
		if err != nil {
			return err
		}

		snapshot := snapshotFromCard(*card)

		var update domain.SchedulingUpdate
		switch card.Phase {
		case domain.PhaseInitialLearning:
			eventRating = domain.RatingSeen
			update, _, err = markSeen(*card, prefs, now)
			if err != nil {
				return err
			}

		case domain.PhaseFsrsReview:
			if input.Rating == nil {
				return domain.ErrMissingRating
			}
			eventRating = *input.Rating
			update, err = rateFsrs(*card, *input.Rating, s.fsrsParams(prefs), now)
			if err != nil {
				return err
			}

		default:
			return fmt.Errorf("card %s: unknown phase %q", card.ID, card.Phase)
		}

		updated, err = s.cards.UpdateScheduling(txCtx, userID, card.ID, update)
		if err != nil {
			return fmt.Errorf("update card: %w", err)
		}

		_, err = s.events.Create(txCtx, &domain.ReviewEvent{
			ID:             uuid.New(),
			CardID:         card.ID,
			UserID:         userID,
			Rating:         eventRating,
			ElapsedSeconds: input.ElapsedSeconds,
			PrevPhase:      card.Phase,
			PrevState:      snapshot,
			ReviewedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("create review event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "rating submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", input.CardID.String()),
		slog.String("rating", eventRating.String()),
		slog.String("phase", updated.Phase.String()),
		slog.Time("due_at", updated.DueAt),
	)

	return updated, nil
}
