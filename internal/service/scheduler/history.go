package scheduler

import (
	"context"
	"fmt"

	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

// CardHistory returns the card's review events, newest first, with the total
// count for pagination. The card is loaded first so a foreign card surfaces
// as not found rather than leaking another user's history.
func (s *Service) CardHistory(ctx context.Context, input CardHistoryInput) ([]domain.ReviewEvent, int, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, 0, err
	}

	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = 50
	}

	if _, err := s.cards.GetByID(ctx, userID, input.CardID); err != nil {
		return nil, 0, fmt.Errorf("get card: %w", err)
	}

	events, total, err := s.events.ListByCardID(ctx, input.CardID, limit, input.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list review events: %w", err)
	}

	return events, total, nil
}
