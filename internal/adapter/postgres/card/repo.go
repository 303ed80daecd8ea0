// Package card implements the Card repository using PostgreSQL.
// Queries are built with squirrel and scanned by hand.
package card

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tkovalenko/sentencely-backend/internal/adapter/postgres"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var cardColumns = []string{
	"id", "user_id", "sentence_id", "language", "phase",
	"initial_review_count", "last_initial_review",
	"memory_state", "step", "stability", "difficulty",
	"elapsed_days", "scheduled_days", "reps", "lapses", "last_review",
	"due_at", "created_at", "updated_at",
}

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a card by primary key filtered by user_id, so a foreign
// card is indistinguishable from a missing one.
func (r *Repo) GetByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return r.getByID(ctx, userID, cardID, false)
}

// GetByIDForUpdate is GetByID with a row lock, for use inside a transaction
// around a read-modify-write.
func (r *Repo) GetByIDForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return r.getByID(ctx, userID, cardID, true)
}

func (r *Repo) getByID(ctx context.Context, userID, cardID uuid.UUID, forUpdate bool) (*domain.Card, error) {
	q := builder.Select(cardColumns...).
		From("cards").
		Where(sq.Eq{"id": cardID, "user_id": userID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build card query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	card, err := scanCard(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, cardID)
	}
	return card, nil
}

// ListInitialLearning returns the user's initial-learning cards for the
// language whose review count is still below the graduation threshold.
// Ordering is left to the caller; priority scores depend on the request time.
func (r *Repo) ListInitialLearning(ctx context.Context, userID uuid.UUID, language string, belowReviewCount int) ([]domain.Card, error) {
	sql, args, err := builder.Select(cardColumns...).
		From("cards").
		Where(sq.Eq{
			"user_id":  userID,
			"language": language,
			"phase":    domain.PhaseInitialLearning,
		}).
		Where(sq.Lt{"initial_review_count": belowReviewCount}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build initial-learning query: %w", err)
	}

	return r.list(ctx, sql, args)
}

// ListFsrsDue returns the user's graduated cards due at or before now,
// ordered by due time ascending with the card ID as a deterministic
// tie-break.
func (r *Repo) ListFsrsDue(ctx context.Context, userID uuid.UUID, language string, now time.Time, limit int) ([]domain.Card, error) {
	sql, args, err := builder.Select(cardColumns...).
		From("cards").
		Where(sq.Eq{
			"user_id":  userID,
			"language": language,
			"phase":    domain.PhaseFsrsReview,
		}).
		Where(sq.LtOrEq{"due_at": now}).
		OrderBy("due_at ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due query: %w", err)
	}

	return r.list(ctx, sql, args)
}

func (r *Repo) list(ctx context.Context, sql string, args []any) ([]domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cards, nil
}

// CountInitialLearning counts ungraduated initial-learning cards below the
// threshold.
func (r *Repo) CountInitialLearning(ctx context.Context, userID uuid.UUID, language string, belowReviewCount int) (int, error) {
	sql, args, err := builder.Select("count(*)").
		From("cards").
		Where(sq.Eq{
			"user_id":  userID,
			"language": language,
			"phase":    domain.PhaseInitialLearning,
		}).
		Where(sq.Lt{"initial_review_count": belowReviewCount}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	return r.count(ctx, sql, args)
}

// CountFsrsDue counts graduated cards due at or before now.
func (r *Repo) CountFsrsDue(ctx context.Context, userID uuid.UUID, language string, now time.Time) (int, error) {
	sql, args, err := builder.Select("count(*)").
		From("cards").
		Where(sq.Eq{
			"user_id":  userID,
			"language": language,
			"phase":    domain.PhaseFsrsReview,
		}).
		Where(sq.LtOrEq{"due_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	return r.count(ctx, sql, args)
}

func (r *Repo) count(ctx context.Context, sql string, args []any) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// CountByPhaseState returns per-phase and per-memory-state card counts.
func (r *Repo) CountByPhaseState(ctx context.Context, userID uuid.UUID, language string) (domain.CardPhaseCounts, error) {
	sql, args, err := builder.Select("phase", "memory_state", "count(*)").
		From("cards").
		Where(sq.Eq{"user_id": userID, "language": language}).
		GroupBy("phase", "memory_state").
		ToSql()
	if err != nil {
		return domain.CardPhaseCounts{}, fmt.Errorf("build count query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return domain.CardPhaseCounts{}, fmt.Errorf("count cards by phase: %w", err)
	}
	defer rows.Close()

	var counts domain.CardPhaseCounts
	for rows.Next() {
		var phase, state string
		var n int
		if err := rows.Scan(&phase, &state, &n); err != nil {
			return domain.CardPhaseCounts{}, fmt.Errorf("scan phase count: %w", err)
		}

		counts.Total += n
		if domain.Phase(phase) == domain.PhaseInitialLearning {
			counts.InitialLearning += n
			continue
		}
		switch domain.MemoryState(state) {
		case domain.MemoryStateNew:
			counts.New += n
		case domain.MemoryStateLearning:
			counts.Learning += n
		case domain.MemoryStateReview:
			counts.Review += n
		case domain.MemoryStateRelearning:
			counts.Relearning += n
		}
	}
	if err := rows.Err(); err != nil {
		return domain.CardPhaseCounts{}, fmt.Errorf("iterate phase counts: %w", err)
	}

	return counts, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new card in the initial-learning phase.
func (r *Repo) Create(ctx context.Context, userID, sentenceID uuid.UUID, language string) (*domain.Card, error) {
	id := uuid.New()

	sql, args, err := builder.Insert("cards").
		Columns("id", "user_id", "sentence_id", "language").
		Values(id, userID, sentenceID, language).
		Suffix("RETURNING " + joinColumns(cardColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	card, err := scanCard(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, id)
	}
	return card, nil
}

// UpdateScheduling persists the full scheduling tuple for a card, filtered by
// user_id. Returns the updated card.
func (r *Repo) UpdateScheduling(ctx context.Context, userID, cardID uuid.UUID, update domain.SchedulingUpdate) (*domain.Card, error) {
	sql, args, err := builder.Update("cards").
		Set("phase", update.Phase).
		Set("initial_review_count", update.InitialReviewCount).
		Set("last_initial_review", update.LastInitialReview).
		Set("memory_state", update.State).
		Set("step", update.Step).
		Set("stability", update.Stability).
		Set("difficulty", update.Difficulty).
		Set("elapsed_days", update.ElapsedDays).
		Set("scheduled_days", update.ScheduledDays).
		Set("reps", update.Reps).
		Set("lapses", update.Lapses).
		Set("last_review", update.LastReview).
		Set("due_at", update.DueAt).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": cardID, "user_id": userID}).
		Suffix("RETURNING " + joinColumns(cardColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	card, err := scanCard(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, cardID)
	}
	return card, nil
}

// GraduateAllInitial force-graduates every initial-learning card of the user
// and language: phase flips, memory state resets to NEW, due immediately.
// Returns the number of cards graduated.
func (r *Repo) GraduateAllInitial(ctx context.Context, userID uuid.UUID, language string, now time.Time) (int, error) {
	sql, args, err := builder.Update("cards").
		Set("phase", domain.PhaseFsrsReview).
		Set("memory_state", domain.MemoryStateNew).
		Set("step", 0).
		Set("stability", 0).
		Set("difficulty", 0).
		Set("elapsed_days", 0).
		Set("scheduled_days", 0).
		Set("reps", 0).
		Set("lapses", 0).
		Set("last_review", nil).
		Set("due_at", now).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{
			"user_id":  userID,
			"language": language,
			"phase":    domain.PhaseInitialLearning,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build graduate query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("graduate cards: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanCard(row pgx.Row) (*domain.Card, error) {
	var c domain.Card
	var phase, state string

	err := row.Scan(
		&c.ID, &c.UserID, &c.SentenceID, &c.Language, &phase,
		&c.InitialReviewCount, &c.LastInitialReview,
		&state, &c.Step, &c.Stability, &c.Difficulty,
		&c.ElapsedDays, &c.ScheduledDays, &c.Reps, &c.Lapses, &c.LastReview,
		&c.DueAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if c.Phase, err = domain.ParsePhase(phase); err != nil {
		return nil, err
	}
	if c.State, err = domain.ParseMemoryState(state); err != nil {
		return nil, err
	}

	return &c, nil
}

func joinColumns(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("card %s: %w", id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("card %s: %w", id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("card %s: %w", id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("card %s: %w", id, err)
}
