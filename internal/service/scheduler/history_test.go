package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

func TestService_CardHistory(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := fsrsCard(userID, domain.MemoryStateReview)

	events := []domain.ReviewEvent{
		{ID: uuid.New(), CardID: card.ID, UserID: userID, Rating: domain.RatingGood, ReviewedAt: testNow},
		{ID: uuid.New(), CardID: card.ID, UserID: userID, Rating: domain.RatingSeen, ReviewedAt: testNow.Add(-time.Hour)},
	}

	cards := &cardRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, cid uuid.UUID) (*domain.Card, error) {
			c := card
			return &c, nil
		},
	}
	eventRepo := &reviewEventRepoMock{
		ListByCardIDFunc: func(ctx context.Context, cid uuid.UUID, limit, offset int) ([]domain.ReviewEvent, int, error) {
			if cid != card.ID {
				t.Errorf("unexpected cardID: got %v, want %v", cid, card.ID)
			}
			if limit != 50 {
				t.Errorf("default limit = %d, want 50", limit)
			}
			return events, 2, nil
		},
	}

	svc := newTestService(cards, eventRepo, nil)

	got, total, err := svc.CardHistory(authedCtx(userID), CardHistoryInput{CardID: card.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Errorf("got %d/%d events, want 2/2", len(got), total)
	}
}

func TestService_CardHistory_ForeignCardIsNotFound(t *testing.T) {
	t.Parallel()

	cards := &cardRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, cid uuid.UUID) (*domain.Card, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(cards, &reviewEventRepoMock{}, nil)

	_, _, err := svc.CardHistory(authedCtx(uuid.New()), CardHistoryInput{CardID: uuid.New()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
