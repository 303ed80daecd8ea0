package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

const defaultSelectLimit = 20

// SelectDue returns the next batch of cards to present, at most input.Limit.
//
// Initial-learning cards take absolute precedence: while any card in the
// language still needs initial reviews, graduated cards are not consulted at
// all, so the returned batch never mixes phases. Ungraduated cards are
// ordered by priority score descending; graduated cards by due time
// ascending. An empty result means nothing is due and is not an error.
func (s *Service) SelectDue(ctx context.Context, input SelectDueInput) ([]domain.Card, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.SelectLimit
	}
	if limit == 0 {
		limit = defaultSelectLimit
	}

	prefs, err := s.resolvePrefs(ctx, userID, input.Language)
	if err != nil {
		return nil, err
	}

	initial, err := s.cards.ListInitialLearning(ctx, userID, input.Language, prefs.ReviewsRequiredForGraduation)
	if err != nil {
		return nil, fmt.Errorf("list initial-learning cards: %w", err)
	}

	if len(initial) > 0 {
		sortByPriority(initial, prefs, input.Now)
		if len(initial) > limit {
			initial = initial[:limit]
		}

		s.log.InfoContext(ctx, "due cards selected",
			slog.String("user_id", userID.String()),
			slog.String("language", input.Language),
			slog.String("phase", domain.PhaseInitialLearning.String()),
			slog.Int("count", len(initial)),
		)
		return initial, nil
	}

	due, err := s.cards.ListFsrsDue(ctx, userID, input.Language, input.Now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due cards: %w", err)
	}

	s.log.InfoContext(ctx, "due cards selected",
		slog.String("user_id", userID.String()),
		slog.String("language", input.Language),
		slog.String("phase", domain.PhaseFsrsReview.String()),
		slog.Int("count", len(due)),
	)
	return due, nil
}

// sortByPriority orders initial-learning cards by score descending, breaking
// ties by card ID ascending so repeated calls with the same inputs agree.
func sortByPriority(cards []domain.Card, prefs domain.SchedulingPrefs, now time.Time) {
	scores := make(map[uuid.UUID]float64, len(cards))
	for _, c := range cards {
		scores[c.ID] = Score(c, prefs, now)
	}

	sort.SliceStable(cards, func(i, j int) bool {
		si, sj := scores[cards[i].ID], scores[cards[j].ID]
		if si != sj {
			return si > sj
		}
		return bytes.Compare(cards[i].ID[:], cards[j].ID[:]) < 0
	})
}
