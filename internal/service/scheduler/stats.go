package scheduler

import (
	"context"
	"fmt"

	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

// QueueStats returns aggregated scheduling counters for the language.
// DueCount reflects what SelectDue would actually serve: while ungraduated
// cards remain, they are the whole queue and graduated due cards do not
// count.
func (s *Service) QueueStats(ctx context.Context, input QueueStatsInput) (domain.QueueStats, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return domain.QueueStats{}, err
	}

	if err := input.Validate(); err != nil {
		return domain.QueueStats{}, err
	}

	prefs, err := s.resolvePrefs(ctx, userID, input.Language)
	if err != nil {
		return domain.QueueStats{}, err
	}

	ungraduated, err := s.cards.CountInitialLearning(ctx, userID, input.Language, prefs.ReviewsRequiredForGraduation)
	if err != nil {
		return domain.QueueStats{}, fmt.Errorf("count initial-learning cards: %w", err)
	}

	counts, err := s.cards.CountByPhaseState(ctx, userID, input.Language)
	if err != nil {
		return domain.QueueStats{}, fmt.Errorf("count by phase: %w", err)
	}

	dueCount := ungraduated
	if ungraduated == 0 {
		dueCount, err = s.cards.CountFsrsDue(ctx, userID, input.Language, input.Now)
		if err != nil {
			return domain.QueueStats{}, fmt.Errorf("count due cards: %w", err)
		}
	}

	return domain.QueueStats{
		DueCount:        dueCount,
		UngraduatedLeft: ungraduated,
		PhaseCounts:     counts,
	}, nil
}
