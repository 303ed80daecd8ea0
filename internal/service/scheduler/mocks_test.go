package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

var _ cardRepo = &cardRepoMock{}

type cardRepoMock struct {
	GetByIDFunc              func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	GetByIDForUpdateFunc     func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	ListInitialLearningFunc  func(ctx context.Context, userID uuid.UUID, language string, belowReviewCount int) ([]domain.Card, error)
	ListFsrsDueFunc          func(ctx context.Context, userID uuid.UUID, language string, now time.Time, limit int) ([]domain.Card, error)
	UpdateSchedulingFunc     func(ctx context.Context, userID, cardID uuid.UUID, update domain.SchedulingUpdate) (*domain.Card, error)
	GraduateAllInitialFunc   func(ctx context.Context, userID uuid.UUID, language string, now time.Time) (int, error)
	CountInitialLearningFunc func(ctx context.Context, userID uuid.UUID, language string, belowReviewCount int) (int, error)
	CountFsrsDueFunc         func(ctx context.Context, userID uuid.UUID, language string, now time.Time) (int, error)
	CountByPhaseStateFunc    func(ctx context.Context, userID uuid.UUID, language string) (domain.CardPhaseCounts, error)
}

func (m *cardRepoMock) GetByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetByIDFunc == nil {
		panic("cardRepoMock.GetByIDFunc: method is nil but cardRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, userID, cardID)
}

func (m *cardRepoMock) GetByIDForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetByIDForUpdateFunc == nil {
		panic("cardRepoMock.GetByIDForUpdateFunc: method is nil but cardRepo.GetByIDForUpdate was just called")
	}
	return m.GetByIDForUpdateFunc(ctx, userID, cardID)
}

func (m *cardRepoMock) ListInitialLearning(ctx context.Context, userID uuid.UUID, language string, belowReviewCount int) ([]domain.Card, error) {
	if m.ListInitialLearningFunc == nil {
		panic("cardRepoMock.ListInitialLearningFunc: method is nil but cardRepo.ListInitialLearning was just called")
	}
	return m.ListInitialLearningFunc(ctx, userID, language, belowReviewCount)
}

func (m *cardRepoMock) ListFsrsDue(ctx context.Context, userID uuid.UUID, language string, now time.Time, limit int) ([]domain.Card, error) {
	if m.ListFsrsDueFunc == nil {
		panic("cardRepoMock.ListFsrsDueFunc: method is nil but cardRepo.ListFsrsDue was just called")
	}
	return m.ListFsrsDueFunc(ctx, userID, language, now, limit)
}

func (m *cardRepoMock) UpdateScheduling(ctx context.Context, userID, cardID uuid.UUID, update domain.SchedulingUpdate) (*domain.Card, error) {
	if m.UpdateSchedulingFunc == nil {
		panic("cardRepoMock.UpdateSchedulingFunc: method is nil but cardRepo.UpdateScheduling was just called")
	}
	return m.UpdateSchedulingFunc(ctx, userID, cardID, update)
}

func (m *cardRepoMock) GraduateAllInitial(ctx context.Context, userID uuid.UUID, language string, now time.Time) (int, error) {
	if m.GraduateAllInitialFunc == nil {
		panic("cardRepoMock.GraduateAllInitialFunc: method is nil but cardRepo.GraduateAllInitial was just called")
	}
	return m.GraduateAllInitialFunc(ctx, userID, language, now)
}

func (m *cardRepoMock) CountInitialLearning(ctx context.Context, userID uuid.UUID, language string, belowReviewCount int) (int, error) {
	if m.CountInitialLearningFunc == nil {
		panic("cardRepoMock.CountInitialLearningFunc: method is nil but cardRepo.CountInitialLearning was just called")
	}
	return m.CountInitialLearningFunc(ctx, userID, language, belowReviewCount)
}

func (m *cardRepoMock) CountFsrsDue(ctx context.Context, userID uuid.UUID, language string, now time.Time) (int, error) {
	if m.CountFsrsDueFunc == nil {
		panic("cardRepoMock.CountFsrsDueFunc: method is nil but cardRepo.CountFsrsDue was just called")
	}
	return m.CountFsrsDueFunc(ctx, userID, language, now)
}

func (m *cardRepoMock) CountByPhaseState(ctx context.Context, userID uuid.UUID, language string) (domain.CardPhaseCounts, error) {
	if m.CountByPhaseStateFunc == nil {
		panic("cardRepoMock.CountByPhaseStateFunc: method is nil but cardRepo.CountByPhaseState was just called")
	}
	return m.CountByPhaseStateFunc(ctx, userID, language)
}

var _ reviewEventRepo = &reviewEventRepoMock{}

type reviewEventRepoMock struct {
	CreateFunc       func(ctx context.Context, event *domain.ReviewEvent) (*domain.ReviewEvent, error)
	ListByCardIDFunc func(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]domain.ReviewEvent, int, error)
}

func (m *reviewEventRepoMock) Create(ctx context.Context, event *domain.ReviewEvent) (*domain.ReviewEvent, error) {
	if m.CreateFunc == nil {
		panic("reviewEventRepoMock.CreateFunc: method is nil but reviewEventRepo.Create was just called")
	}
	return m.CreateFunc(ctx, event)
}

func (m *reviewEventRepoMock) ListByCardID(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]domain.ReviewEvent, int, error) {
	if m.ListByCardIDFunc == nil {
		panic("reviewEventRepoMock.ListByCardIDFunc: method is nil but reviewEventRepo.ListByCardID was just called")
	}
	return m.ListByCardIDFunc(ctx, cardID, limit, offset)
}

var _ prefsRepo = &prefsRepoMock{}

type prefsRepoMock struct {
	GetByUserAndLanguageFunc func(ctx context.Context, userID uuid.UUID, language string) (*domain.SchedulingPrefs, error)
}

func (m *prefsRepoMock) GetByUserAndLanguage(ctx context.Context, userID uuid.UUID, language string) (*domain.SchedulingPrefs, error) {
	if m.GetByUserAndLanguageFunc == nil {
		panic("prefsRepoMock.GetByUserAndLanguageFunc: method is nil but prefsRepo.GetByUserAndLanguage was just called")
	}
	return m.GetByUserAndLanguageFunc(ctx, userID, language)
}

var _ txManager = &txManagerMock{}

// txManagerMock runs the callback inline; service tests do not exercise
// transaction semantics.
type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
