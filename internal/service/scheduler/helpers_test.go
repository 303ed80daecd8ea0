package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler/fsrs"
	"github.com/tkovalenko/sentencely-backend/pkg/ctxutil"
)

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func authedCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), userID)
}

// testConfig disables fuzz so expected due times are exact.
func testConfig() domain.SchedulerConfig {
	return domain.SchedulerConfig{
		MaxIntervalDays: 365,
		EnableFuzz:      false,
		LearningSteps:   []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps: []time.Duration{10 * time.Minute},
	}
}

func newTestService(cards *cardRepoMock, events *reviewEventRepoMock, prefs *prefsRepoMock) *Service {
	if prefs == nil {
		prefs = &prefsRepoMock{
			GetByUserAndLanguageFunc: func(ctx context.Context, userID uuid.UUID, language string) (*domain.SchedulingPrefs, error) {
				return nil, domain.ErrNotFound
			},
		}
	}
	return &Service{
		cards:   cards,
		events:  events,
		prefs:   prefs,
		tx:      &txManagerMock{},
		log:     slog.Default(),
		cfg:     testConfig(),
		weights: fsrs.DefaultWeights,
	}
}

func initialCard(userID uuid.UUID, count int, lastReview *time.Time) domain.Card {
	return domain.Card{
		ID:                 uuid.New(),
		UserID:             userID,
		SentenceID:         uuid.New(),
		Language:           "de",
		Phase:              domain.PhaseInitialLearning,
		InitialReviewCount: count,
		LastInitialReview:  lastReview,
		DueAt:              testNow,
	}
}

func fsrsCard(userID uuid.UUID, state domain.MemoryState) domain.Card {
	last := testNow.Add(-48 * time.Hour)
	return domain.Card{
		ID:                 uuid.New(),
		UserID:             userID,
		SentenceID:         uuid.New(),
		Language:           "de",
		Phase:              domain.PhaseFsrsReview,
		InitialReviewCount: 4,
		State:              state,
		Stability:          5.0,
		Difficulty:         5.0,
		Reps:               3,
		LastReview:         &last,
		DueAt:              testNow.Add(-time.Hour),
	}
}
