package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

// SeedInitialCard inserts an initial-learning card for the given user and
// language with the given review count. Returns the filled domain.Card.
func SeedInitialCard(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, language string, reviewCount int) domain.Card {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	card := domain.Card{
		ID:                 uuid.New(),
		UserID:             userID,
		SentenceID:         uuid.New(),
		Language:           language,
		Phase:              domain.PhaseInitialLearning,
		InitialReviewCount: reviewCount,
		State:              domain.MemoryStateNew,
		DueAt:              now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if reviewCount > 0 {
		last := now.Add(-5 * time.Minute)
		card.LastInitialReview = &last
	}

	insertCard(t, pool, ctx, card)
	return card
}

// SeedFsrsCard inserts a graduated card in the REVIEW state due at dueAt.
func SeedFsrsCard(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, language string, dueAt time.Time) domain.Card {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	lastReview := dueAt.Add(-72 * time.Hour)
	card := domain.Card{
		ID:                 uuid.New(),
		UserID:             userID,
		SentenceID:         uuid.New(),
		Language:           language,
		Phase:              domain.PhaseFsrsReview,
		InitialReviewCount: domain.DefaultReviewsRequiredForGraduation,
		State:              domain.MemoryStateReview,
		Stability:          5.0,
		Difficulty:         5.0,
		ScheduledDays:      3,
		Reps:               4,
		LastReview:         &lastReview,
		DueAt:              dueAt.UTC().Truncate(time.Microsecond),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	insertCard(t, pool, ctx, card)
	return card
}

func insertCard(t *testing.T, pool *pgxpool.Pool, ctx context.Context, card domain.Card) {
	t.Helper()

	_, err := pool.Exec(ctx,
		`INSERT INTO cards (id, user_id, sentence_id, language, phase, initial_review_count, last_initial_review,
		                    memory_state, step, stability, difficulty, elapsed_days, scheduled_days, reps, lapses,
		                    last_review, due_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		card.ID, card.UserID, card.SentenceID, card.Language, string(card.Phase),
		card.InitialReviewCount, card.LastInitialReview,
		string(card.State), card.Step, card.Stability, card.Difficulty,
		card.ElapsedDays, card.ScheduledDays, card.Reps, card.Lapses,
		card.LastReview, card.DueAt, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: insert card: %v", err)
	}
}

// SeedPrefs inserts a scheduling_prefs row for the given user and language.
func SeedPrefs(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, language string, prefs domain.SchedulingPrefs) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO scheduling_prefs (user_id, language, reviews_required_for_graduation,
		                               priority_coeff_review_count, priority_coeff_minutes,
		                               desired_retention, max_interval_days)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, language, prefs.ReviewsRequiredForGraduation,
		prefs.PriorityCoeffReviewCount, prefs.PriorityCoeffMinutes,
		prefs.DesiredRetention, prefs.MaxIntervalDays,
	)
	if err != nil {
		t.Fatalf("testhelper: insert scheduling_prefs: %v", err)
	}
}
