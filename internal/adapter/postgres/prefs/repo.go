// Package prefs implements the SchedulingPrefs repository using PostgreSQL.
package prefs

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tkovalenko/sentencely-backend/internal/adapter/postgres"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var prefsColumns = []string{
	"reviews_required_for_graduation", "priority_coeff_review_count",
	"priority_coeff_minutes", "desired_retention", "max_interval_days",
}

// Repo provides scheduling preference persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new preferences repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByUserAndLanguage returns the stored preferences for one (user,
// language) pair. Returns domain.ErrNotFound when no row exists; the caller
// applies defaults.
func (r *Repo) GetByUserAndLanguage(ctx context.Context, userID uuid.UUID, language string) (*domain.SchedulingPrefs, error) {
	sql, args, err := builder.Select(prefsColumns...).
		From("scheduling_prefs").
		Where(sq.Eq{"user_id": userID, "language": language}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build prefs query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var p domain.SchedulingPrefs
	err = querier.QueryRow(ctx, sql, args...).Scan(
		&p.ReviewsRequiredForGraduation,
		&p.PriorityCoeffReviewCount,
		&p.PriorityCoeffMinutes,
		&p.DesiredRetention,
		&p.MaxIntervalDays,
	)
	if err != nil {
		return nil, mapError(err, userID)
	}

	return &p, nil
}

// Upsert stores the preferences for one (user, language) pair, replacing any
// existing row. Values are validated before they reach the database.
func (r *Repo) Upsert(ctx context.Context, userID uuid.UUID, language string, p domain.SchedulingPrefs) (*domain.SchedulingPrefs, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	sql, args, err := builder.Insert("scheduling_prefs").
		Columns(
			"user_id", "language",
			"reviews_required_for_graduation", "priority_coeff_review_count",
			"priority_coeff_minutes", "desired_retention", "max_interval_days",
		).
		Values(
			userID, language,
			p.ReviewsRequiredForGraduation, p.PriorityCoeffReviewCount,
			p.PriorityCoeffMinutes, p.DesiredRetention, p.MaxIntervalDays,
		).
		Suffix(`ON CONFLICT (user_id, language) DO UPDATE SET
			reviews_required_for_graduation = EXCLUDED.reviews_required_for_graduation,
			priority_coeff_review_count = EXCLUDED.priority_coeff_review_count,
			priority_coeff_minutes = EXCLUDED.priority_coeff_minutes,
			desired_retention = EXCLUDED.desired_retention,
			max_interval_days = EXCLUDED.max_interval_days,
			updated_at = now()`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return nil, mapError(err, userID)
	}

	return &p, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, userID uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduling_prefs %s: %w", userID, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("scheduling_prefs %s: %w", userID, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("scheduling_prefs %s: %w", userID, domain.ErrAlreadyExists)
		case "23514": // check_violation
			return fmt.Errorf("scheduling_prefs %s: %w", userID, domain.ErrValidation)
		}
	}

	return fmt.Errorf("scheduling_prefs %s: %w", userID, err)
}
