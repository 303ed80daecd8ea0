package scheduler

import (
	"context"
	"fmt"
	"log/slog"
)

// SkipAheadResult reports the outcome of a bulk graduation.
type SkipAheadResult struct {
	GraduatedCount int
}

// SkipAllToFsrs force-graduates every initial-learning card in the language,
// regardless of review counts. Memory state resets to NEW and the cards
// become due immediately; no review events are recorded since no reviews
// happened.
func (s *Service) SkipAllToFsrs(ctx context.Context, input SkipAheadInput) (SkipAheadResult, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return SkipAheadResult{}, err
	}

	if err := input.Validate(); err != nil {
		return SkipAheadResult{}, err
	}

	count, err := s.cards.GraduateAllInitial(ctx, userID, input.Language, input.Now)
	if err != nil {
		return SkipAheadResult{}, fmt.Errorf("graduate all: %w", err)
	}

	s.log.InfoContext(ctx, "initial learning skipped",
		slog.String("user_id", userID.String()),
		slog.String("language", input.Language),
		slog.Int("graduated", count),
	)

	return SkipAheadResult{GraduatedCount: count}, nil
}
