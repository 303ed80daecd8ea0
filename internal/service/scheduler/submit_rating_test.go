package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

func TestService_SubmitRating_InitialLearningIgnoresRating(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := initialCard(userID, 1, ptr(testNow.Add(-time.Hour)))

	var createdEvent *domain.ReviewEvent

	cards := &cardRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, uid, cid uuid.UUID) (*domain.Card, error) {
			if cid != card.ID {
				t.Errorf("unexpected cardID: got %v, want %v", cid, card.ID)
			}
			c := card
			return &c, nil
		},
		UpdateSchedulingFunc: func(ctx context.Context, uid, cid uuid.UUID, update domain.SchedulingUpdate) (*domain.Card, error) {
			if update.Phase != domain.PhaseInitialLearning {
				t.Errorf("phase = %s, want INITIAL_LEARNING", update.Phase)
			}
			if update.InitialReviewCount != 2 {
				t.Errorf("review count = %d, want 2", update.InitialReviewCount)
			}
			c := card
			applyUpdate(&c, update)
			return &c, nil
		},
	}
	events := &reviewEventRepoMock{
		CreateFunc: func(ctx context.Context, event *domain.ReviewEvent) (*domain.ReviewEvent, error) {
			createdEvent = event
			return event, nil
		},
	}

	svc := newTestService(cards, events, nil)

	// A rating is supplied but the card is pre-graduation: it must be
	// recorded as a plain exposure.
	got, err := svc.SubmitRating(authedCtx(userID), SubmitRatingInput{
		CardID:         card.ID,
		Rating:         ptr(domain.RatingEasy),
		ElapsedSeconds: 12,
		Now:            testNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.InitialReviewCount != 2 {
		t.Errorf("review count = %d, want 2", got.InitialReviewCount)
	}

	if createdEvent == nil {
		t.Fatal("expected a review event")
	}
	if createdEvent.Rating != domain.RatingSeen {
		t.Errorf("event rating = %s, want SEEN", createdEvent.Rating)
	}
	if createdEvent.PrevPhase != domain.PhaseInitialLearning {
		t.Errorf("event prev phase = %s, want INITIAL_LEARNING", createdEvent.PrevPhase)
	}
	if createdEvent.ElapsedSeconds != 12 {
		t.Errorf("event elapsed = %d, want 12", createdEvent.ElapsedSeconds)
	}
	if createdEvent.PrevState == nil || createdEvent.PrevState.InitialReviewCount != 1 {
		t.Error("event snapshot should carry the pre-rating state")
	}
}

func TestService_SubmitRating_FsrsRequiresRating(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := fsrsCard(userID, domain.MemoryStateReview)

	cards := &cardRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, uid, cid uuid.UUID) (*domain.Card, error) {
			c := card
			return &c, nil
		},
	}

	svc := newTestService(cards, &reviewEventRepoMock{}, nil)

	_, err := svc.SubmitRating(authedCtx(userID), SubmitRatingInput{
		CardID: card.ID,
		Now:    testNow,
	})
	if !errors.Is(err, domain.ErrMissingRating) {
		t.Errorf("err = %v, want ErrMissingRating", err)
	}
}

func TestService_SubmitRating_FsrsUpdatesMemoryState(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := fsrsCard(userID, domain.MemoryStateReview)

	var createdEvent *domain.ReviewEvent

	cards := &cardRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, uid, cid uuid.UUID) (*domain.Card, error) {
			c := card
			return &c, nil
		},
		UpdateSchedulingFunc: func(ctx context.Context, uid, cid uuid.UUID, update domain.SchedulingUpdate) (*domain.Card, error) {
			if update.Reps != card.Reps+1 {
				t.Errorf("reps = %d, want %d", update.Reps, card.Reps+1)
			}
			if update.DueAt.Before(testNow) {
				t.Errorf("due at %v before now %v", update.DueAt, testNow)
			}
			c := card
			applyUpdate(&c, update)
			return &c, nil
		},
	}
	events := &reviewEventRepoMock{
		CreateFunc: func(ctx context.Context, event *domain.ReviewEvent) (*domain.ReviewEvent, error) {
			createdEvent = event
			return event, nil
		},
	}

	svc := newTestService(cards, events, nil)

	got, err := svc.SubmitRating(authedCtx(userID), SubmitRatingInput{
		CardID: card.ID,
		Rating: ptr(domain.RatingGood),
		Now:    testNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.State != domain.MemoryStateReview {
		t.Errorf("state = %s, want REVIEW", got.State)
	}

	if createdEvent == nil {
		t.Fatal("expected a review event")
	}
	if createdEvent.Rating != domain.RatingGood {
		t.Errorf("event rating = %s, want GOOD", createdEvent.Rating)
	}
	if createdEvent.PrevState == nil || createdEvent.PrevState.Reps != card.Reps {
		t.Error("event snapshot should carry the pre-rating reps")
	}
}

func TestService_SubmitRating_AgainStaysWithinTheDay(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := fsrsCard(userID, domain.MemoryStateReview)

	var persisted domain.Card

	cards := &cardRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, uid, cid uuid.UUID) (*domain.Card, error) {
			c := persisted
			return &c, nil
		},
		UpdateSchedulingFunc: func(ctx context.Context, uid, cid uuid.UUID, update domain.SchedulingUpdate) (*domain.Card, error) {
			applyUpdate(&persisted, update)
			c := persisted
			return &c, nil
		},
	}
	events := &reviewEventRepoMock{
		CreateFunc: func(ctx context.Context, event *domain.ReviewEvent) (*domain.ReviewEvent, error) {
			return event, nil
		},
	}

	svc := newTestService(cards, events, nil)

	// Three AGAIN ratings in a row, no recovery between them: lapses
	// strictly increase on every one (the second and third land on a
	// RELEARNING card), and each AGAIN keeps the card due within the
	// same day.
	persisted = card
	now := testNow
	prevLapses := card.Lapses
	for i := 0; i < 3; i++ {
		got, err := svc.SubmitRating(authedCtx(userID), SubmitRatingInput{
			CardID: card.ID,
			Rating: ptr(domain.RatingAgain),
			Now:    now,
		})
		if err != nil {
			t.Fatalf("again %d: unexpected error: %v", i+1, err)
		}
		if got.Lapses != prevLapses+1 {
			t.Fatalf("again %d: lapses = %d, want %d", i+1, got.Lapses, prevLapses+1)
		}
		if got.DueAt.Sub(now) > 24*time.Hour {
			t.Fatalf("again %d: due %v is not same-day", i+1, got.DueAt)
		}
		if got.State != domain.MemoryStateRelearning {
			t.Fatalf("again %d: state = %s, want RELEARNING", i+1, got.State)
		}
		prevLapses = got.Lapses
		now = got.DueAt.Add(time.Minute)
	}
}

func TestService_SubmitRating_CardNotFound(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	cards := &cardRepoMock{
		GetByIDForUpdateFunc: func(ctx context.Context, uid, cid uuid.UUID) (*domain.Card, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(cards, &reviewEventRepoMock{}, nil)

	_, err := svc.SubmitRating(authedCtx(userID), SubmitRatingInput{
		CardID: uuid.New(),
		Rating: ptr(domain.RatingGood),
		Now:    testNow,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestService_SubmitRating_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(&cardRepoMock{}, nil, nil)

	bad := domain.Rating("PERFECT")
	_, err := svc.SubmitRating(authedCtx(uuid.New()), SubmitRatingInput{
		CardID:         uuid.New(),
		Rating:         &bad,
		ElapsedSeconds: -1,
		Now:            testNow,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}
