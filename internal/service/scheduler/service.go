package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler/fsrs"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type cardRepo interface {
	GetByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	GetByIDForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	ListInitialLearning(ctx context.Context, userID uuid.UUID, language string, belowReviewCount int) ([]domain.Card, error)
	ListFsrsDue(ctx context.Context, userID uuid.UUID, language string, now time.Time, limit int) ([]domain.Card, error)
	UpdateScheduling(ctx context.Context, userID, cardID uuid.UUID, update domain.SchedulingUpdate) (*domain.Card, error)
	GraduateAllInitial(ctx context.Context, userID uuid.UUID, language string, now time.Time) (int, error)
	CountInitialLearning(ctx context.Context, userID uuid.UUID, language string, belowReviewCount int) (int, error)
	CountFsrsDue(ctx context.Context, userID uuid.UUID, language string, now time.Time) (int, error)
	CountByPhaseState(ctx context.Context, userID uuid.UUID, language string) (domain.CardPhaseCounts, error)
}

type reviewEventRepo interface {
	Create(ctx context.Context, event *domain.ReviewEvent) (*domain.ReviewEvent, error)
	ListByCardID(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]domain.ReviewEvent, int, error)
}

type prefsRepo interface {
	GetByUserAndLanguage(ctx context.Context, userID uuid.UUID, language string) (*domain.SchedulingPrefs, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the card scheduling business logic: due selection,
// rating processing, graduation, and rating previews.
type Service struct {
	cards   cardRepo
	events  reviewEventRepo
	prefs   prefsRepo
	tx      txManager
	log     *slog.Logger
	cfg     domain.SchedulerConfig
	weights fsrs.Weights
}

// NewService creates a new scheduling service.
func NewService(
	log *slog.Logger,
	cards cardRepo,
	events reviewEventRepo,
	prefs prefsRepo,
	tx txManager,
	cfg domain.SchedulerConfig,
	weights fsrs.Weights,
) (*Service, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid FSRS weights: %w", err)
	}
	if cfg.MaxIntervalDays < 1 {
		return nil, fmt.Errorf("invalid scheduler config: max interval days must be >= 1")
	}

	return &Service{
		cards:   cards,
		events:  events,
		prefs:   prefs,
		tx:      tx,
		log:     log.With("service", "scheduler"),
		cfg:     cfg,
		weights: weights,
	}, nil
}

// resolvePrefs loads the user's per-language preferences, falling back to the
// documented defaults when no row exists. Callers always get a complete struct.
func (s *Service) resolvePrefs(ctx context.Context, userID uuid.UUID, language string) (domain.SchedulingPrefs, error) {
	p, err := s.prefs.GetByUserAndLanguage(ctx, userID, language)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultSchedulingPrefs(), nil
		}
		return domain.SchedulingPrefs{}, fmt.Errorf("load scheduling prefs: %w", err)
	}
	return *p, nil
}

// fsrsParams combines global scheduler config with per-user preferences.
func (s *Service) fsrsParams(prefs domain.SchedulingPrefs) fsrs.Params {
	return fsrs.Params{
		W:                s.weights,
		DesiredRetention: prefs.DesiredRetention,
		MaxIntervalDays:  min(s.cfg.MaxIntervalDays, prefs.MaxIntervalDays),
		EnableFuzz:       s.cfg.EnableFuzz,
		LearningSteps:    s.cfg.LearningSteps,
		RelearningSteps:  s.cfg.RelearningSteps,
	}
}
