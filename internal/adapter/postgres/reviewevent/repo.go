// Package reviewevent implements the append-only ReviewEvent repository
// using PostgreSQL. Events are inserted and read, never updated or deleted.
package reviewevent

import (
	"context"
	"encoding/json"
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

var eventColumns = []string{
	"id", "card_id", "user_id", "rating", "elapsed_seconds",
	"prev_phase", "prev_state", "reviewed_at",
}

// Repo provides review event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts one review event.
func (r *Repo) Create(ctx context.Context, event *domain.ReviewEvent) (*domain.ReviewEvent, error) {
	prevState, err := marshalPrevState(event.PrevState)
	if err != nil {
		return nil, fmt.Errorf("review_event %s: %w", event.ID, err)
	}

	sql, args, err := builder.Insert("review_events").
		Columns(eventColumns...).
		Values(
			event.ID, event.CardID, event.UserID, event.Rating, event.ElapsedSeconds,
			event.PrevPhase, prevState, event.ReviewedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return nil, mapError(err, event.ID)
	}

	return event, nil
}

// ListByCardID returns events for a card, newest first, with limit/offset
// pagination and the total count.
func (r *Repo) ListByCardID(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]domain.ReviewEvent, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := builder.Select("count(*)").
		From("review_events").
		Where(sq.Eq{"card_id": cardID}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count review_events: %w", err)
	}

	q := builder.Select(eventColumns...).
		From("review_events").
		Where(sq.Eq{"card_id": cardID}).
		OrderBy("reviewed_at DESC", "id DESC").
		Offset(uint64(offset))
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list review_events: %w", err)
	}
	defer rows.Close()

	var events []domain.ReviewEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review_event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review_events: %w", err)
	}

	return events, total, nil
}

func scanEvent(row pgx.Row) (*domain.ReviewEvent, error) {
	var e domain.ReviewEvent
	var rating, prevPhase string
	var prevState []byte

	err := row.Scan(
		&e.ID, &e.CardID, &e.UserID, &rating, &e.ElapsedSeconds,
		&prevPhase, &prevState, &e.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Rating = domain.Rating(rating)
	if e.PrevPhase, err = domain.ParsePhase(prevPhase); err != nil {
		return nil, err
	}
	if e.PrevState, err = unmarshalPrevState(prevState); err != nil {
		return nil, err
	}

	return &e, nil
}

// ---------------------------------------------------------------------------
// Snapshot serialization
// ---------------------------------------------------------------------------

// cardSnapshotJSON is an intermediate struct for JSON marshaling of
// domain.CardSnapshot. The domain type has no json tags; serialization is the
// repo layer's concern.
type cardSnapshotJSON struct {
	Phase              string  `json:"phase"`
	InitialReviewCount int     `json:"initial_review_count"`
	State              string  `json:"state"`
	Step               int     `json:"step"`
	Stability          float64 `json:"stability"`
	Difficulty         float64 `json:"difficulty"`
	ScheduledDays      int     `json:"scheduled_days"`
	ElapsedDays        int     `json:"elapsed_days"`
	Reps               int     `json:"reps"`
	Lapses             int     `json:"lapses"`
	DueAt              string  `json:"due_at"`
	LastReview         *string `json:"last_review,omitempty"`
}

// marshalPrevState converts a snapshot to JSON bytes for JSONB storage.
// Nil input is stored as NULL.
func marshalPrevState(cs *domain.CardSnapshot) ([]byte, error) {
	if cs == nil {
		return nil, nil
	}

	j := cardSnapshotJSON{
		Phase:              string(cs.Phase),
		InitialReviewCount: cs.InitialReviewCount,
		State:              string(cs.State),
		Step:               cs.Step,
		Stability:          cs.Stability,
		Difficulty:         cs.Difficulty,
		ScheduledDays:      cs.ScheduledDays,
		ElapsedDays:        cs.ElapsedDays,
		Reps:               cs.Reps,
		Lapses:             cs.Lapses,
		DueAt:              cs.DueAt.UTC().Format(time.RFC3339Nano),
	}

	if cs.LastReview != nil {
		s := cs.LastReview.UTC().Format(time.RFC3339Nano)
		j.LastReview = &s
	}

	return json.Marshal(j)
}

// unmarshalPrevState converts JSONB bytes back to a snapshot. NULL yields nil.
func unmarshalPrevState(data []byte) (*domain.CardSnapshot, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var j cardSnapshotJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal prev_state: %w", err)
	}

	dueAt, err := time.Parse(time.RFC3339Nano, j.DueAt)
	if err != nil {
		return nil, fmt.Errorf("parse due_at: %w", err)
	}

	cs := &domain.CardSnapshot{
		Phase:              domain.Phase(j.Phase),
		InitialReviewCount: j.InitialReviewCount,
		State:              domain.MemoryState(j.State),
		Step:               j.Step,
		Stability:          j.Stability,
		Difficulty:         j.Difficulty,
		ScheduledDays:      j.ScheduledDays,
		ElapsedDays:        j.ElapsedDays,
		Reps:               j.Reps,
		Lapses:             j.Lapses,
		DueAt:              dueAt,
	}

	if j.LastReview != nil {
		t, err := time.Parse(time.RFC3339Nano, *j.LastReview)
		if err != nil {
			return nil, fmt.Errorf("parse last_review: %w", err)
		}
		cs.LastReview = &t
	}

	return cs, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("review_event %s: %w", id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("review_event %s: %w", id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("review_event %s: %w", id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("review_event %s: %w", id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("review_event %s: %w", id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("review_event %s: %w", id, err)
}
