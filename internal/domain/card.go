package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is one flashcard instance owned by a user for a target language.
// The Phase field determines which field group carries meaning:
//
//   - INITIAL_LEARNING: InitialReviewCount, LastInitialReview. The FSRS
//     group is zero-valued and unused.
//   - FSRS_REVIEW: the FSRS group (State..LastReview). The initial-learning
//     counters are frozen at their graduation values.
//
// DueAt is meaningful in both phases. In INITIAL_LEARNING it is effectively
// "due now"; after graduation it carries the FSRS schedule.
type Card struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	SentenceID uuid.UUID
	Language   string

	Phase Phase

	// Initial-learning group.
	InitialReviewCount int
	LastInitialReview  *time.Time

	// FSRS group, initialized at graduation.
	State         MemoryState
	Step          int
	Stability     float64
	Difficulty    float64
	ElapsedDays   int
	ScheduledDays int
	Reps          int
	Lapses        int
	LastReview    *time.Time

	DueAt     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDue reports whether the card is eligible for presentation at now.
// Initial-learning cards are always due; graduated cards are due when
// DueAt <= now.
func (c *Card) IsDue(now time.Time) bool {
	if c.Phase == PhaseInitialLearning {
		return true
	}
	return !c.DueAt.After(now)
}

// Graduated reports whether the card has left the initial-learning phase.
func (c *Card) Graduated() bool {
	return c.Phase == PhaseFsrsReview
}

// SchedulingUpdate holds the full scheduling tuple written after a rating.
// The whole tuple is persisted atomically with its ReviewEvent; partial
// updates are not representable.
type SchedulingUpdate struct {
	Phase              Phase
	InitialReviewCount int
	LastInitialReview  *time.Time
	State              MemoryState
	Step               int
	Stability          float64
	Difficulty         float64
	ElapsedDays        int
	ScheduledDays      int
	Reps               int
	Lapses             int
	LastReview         *time.Time
	DueAt              time.Time
}

// ReviewEvent is one append-only entry in the review log. Events are never
// mutated or deleted; the scheduler itself does not read them back.
type ReviewEvent struct {
	ID             uuid.UUID
	CardID         uuid.UUID
	UserID         uuid.UUID
	Rating         Rating
	ElapsedSeconds int
	PrevPhase      Phase
	PrevState      *CardSnapshot
	ReviewedAt     time.Time
}

// CardSnapshot captures a card's scheduling state before a rating was applied.
type CardSnapshot struct {
	Phase              Phase
	InitialReviewCount int
	State              MemoryState
	Step               int
	Stability          float64
	Difficulty         float64
	ScheduledDays      int
	ElapsedDays        int
	Reps               int
	Lapses             int
	DueAt              time.Time
	LastReview         *time.Time
}

// DuePreview is the projected outcome of a single rating, computed without
// mutating the card. Ephemeral, never persisted.
type DuePreview struct {
	Rating        Rating
	DueAt         time.Time
	Interval      string
	WouldGraduate bool
}

// CardPhaseCounts holds the count of cards per phase and memory state.
type CardPhaseCounts struct {
	InitialLearning int
	New             int
	Learning        int
	Review          int
	Relearning      int
	Total           int
}

// QueueStats holds aggregated scheduling statistics for one (user, language)
// context.
type QueueStats struct {
	DueCount        int
	UngraduatedLeft int
	PhaseCounts     CardPhaseCounts
}
