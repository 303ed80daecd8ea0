package domain

import "fmt"

// Phase represents the two-phase lifecycle position of a card.
// A card starts in INITIAL_LEARNING and moves to FSRS_REVIEW exactly once
// (graduation); the transition never reverses.
type Phase string

const (
	PhaseInitialLearning Phase = "INITIAL_LEARNING"
	PhaseFsrsReview      Phase = "FSRS_REVIEW"
)

func (p Phase) String() string { return string(p) }

func (p Phase) IsValid() bool {
	switch p {
	case PhaseInitialLearning, PhaseFsrsReview:
		return true
	}
	return false
}

// ParsePhase converts a stored string into a Phase.
// Unknown values are an error, never coerced to a default.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown card phase: %q", s)
	}
	return p, nil
}

// MemoryState represents the FSRS memory-model state of a graduated card.
type MemoryState string

const (
	MemoryStateNew        MemoryState = "NEW"
	MemoryStateLearning   MemoryState = "LEARNING"
	MemoryStateReview     MemoryState = "REVIEW"
	MemoryStateRelearning MemoryState = "RELEARNING"
)

func (s MemoryState) String() string { return string(s) }

func (s MemoryState) IsValid() bool {
	switch s {
	case MemoryStateNew, MemoryStateLearning, MemoryStateReview, MemoryStateRelearning:
		return true
	}
	return false
}

// ParseMemoryState converts a stored string into a MemoryState.
// An out-of-range or corrupted value is an error; silently degrading a
// reviewed card back to NEW would reset its schedule.
func ParseMemoryState(s string) (MemoryState, error) {
	ms := MemoryState(s)
	if !ms.IsValid() {
		return "", fmt.Errorf("unknown memory state: %q", s)
	}
	return ms, nil
}

// Rating represents the user's self-assessed recall quality.
// RatingSeen is the sentinel recorded for initial-learning exposures,
// where the four recall grades are not meaningful yet.
type Rating string

const (
	RatingAgain Rating = "AGAIN"
	RatingHard  Rating = "HARD"
	RatingGood  Rating = "GOOD"
	RatingEasy  Rating = "EASY"
	RatingSeen  Rating = "SEEN"
)

func (r Rating) String() string { return string(r) }

// IsValid reports whether r is one of the four recall grades.
// RatingSeen is excluded: it is an event-log marker, not a grade a
// caller may submit.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	}
	return false
}

// ParseRating converts a submitted string into a Rating.
// Only the four recall grades are accepted; SEEN is never submitted.
func ParseRating(s string) (Rating, error) {
	r := Rating(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown rating: %q", s)
	}
	return r, nil
}

// AllRatings lists the four recall grades in ascending recall quality.
func AllRatings() []Rating {
	return []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}
}
