package fsrs

import (
	"fmt"
	"time"

	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

// Memory is the complete FSRS state of one card. The zero value (state NEW,
// everything else zero) is exactly the state a card receives at graduation.
type Memory struct {
	State         domain.MemoryState
	Step          int
	Stability     float64
	Difficulty    float64
	Due           time.Time
	LastReview    *time.Time
	Reps          int
	Lapses        int
	ScheduledDays int
	ElapsedDays   int
}

// Params holds the model configuration for one Advance call.
type Params struct {
	W                Weights
	DesiredRetention float64
	MaxIntervalDays  int
	EnableFuzz       bool
	LearningSteps    []time.Duration
	RelearningSteps  []time.Duration
}

// DefaultParams returns the configuration used when nothing narrows it.
func DefaultParams() Params {
	return Params{
		W:                DefaultWeights,
		DesiredRetention: 0.9,
		MaxIntervalDays:  365,
		EnableFuzz:       true,
		LearningSteps:    []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:  []time.Duration{10 * time.Minute},
	}
}

// Advance applies one rating to a memory state and returns the updated state.
// It is pure and deterministic: identical inputs always produce identical
// outputs (the interval fuzz is seeded from the inputs), which is what makes
// rating previews trustworthy.
//
// Elapsed days are derived from now - LastReview; the stored ElapsedDays
// field is reset after every review and cannot be used directly. The
// returned Due is never before now.
func Advance(p Params, m Memory, rating Rating, now time.Time) (Memory, error) {
	if rating < Again || rating > Easy {
		return Memory{}, fmt.Errorf("invalid rating: %d", rating)
	}

	m.ElapsedDays = elapsedDays(m.LastReview, now)

	var out Memory
	switch m.State {
	case domain.MemoryStateNew:
		out = advanceNew(p, m, rating, now)
	case domain.MemoryStateLearning:
		out = advanceLearning(p, m, rating, now, false)
	case domain.MemoryStateRelearning:
		out = advanceLearning(p, m, rating, now, true)
	case domain.MemoryStateReview:
		out = advanceReview(p, m, rating, now)
	default:
		return Memory{}, fmt.Errorf("unknown memory state: %q", m.State)
	}

	// A rating can never push a card due into the past.
	if out.Due.Before(now) {
		out.Due = now
	}

	return out, nil
}

// elapsedDays returns whole days since the last review, or 0 for the first one.
func elapsedDays(lastReview *time.Time, now time.Time) int {
	if lastReview == nil {
		return 0
	}
	return max(0, int(now.Sub(*lastReview).Hours()/24))
}

// advanceNew handles the first review of a freshly graduated card.
func advanceNew(p Params, m Memory, rating Rating, now time.Time) Memory {
	m.Reps++
	m.LastReview = &now

	s := initialStability(p.W, rating)
	d := initialDifficulty(p.W, rating)
	m.Stability = s
	m.Difficulty = d

	steps := p.LearningSteps
	if len(steps) == 0 {
		steps = []time.Duration{time.Minute}
	}

	switch rating {
	case Again:
		m.Lapses++
		m.State = domain.MemoryStateLearning
		m.Step = 0
		m.ScheduledDays = 0
		m.ElapsedDays = 0
		m.Due = now.Add(steps[0])

	case Hard:
		m.State = domain.MemoryStateLearning
		m.Step = 0
		m.ScheduledDays = 0
		m.ElapsedDays = 0
		// Hard sits between Again and Good: average of the first two steps.
		delay := steps[0]
		if len(steps) > 1 {
			delay = (steps[0] + steps[1]) / 2
		}
		m.Due = now.Add(delay)

	case Good:
		if len(steps) > 1 {
			m.State = domain.MemoryStateLearning
			m.Step = 1
			m.ScheduledDays = 0
			m.ElapsedDays = 0
			m.Due = now.Add(steps[1])
		} else {
			m = graduateToReview(p, m, s, d, now)
		}

	case Easy:
		m = graduateToReview(p, m, s, d, now)
		// Easy must beat what Good would have produced.
		goodS := initialStability(p.W, Good)
		goodIvl := clampIntervalDays(nextInterval(goodS, p.DesiredRetention), p.MaxIntervalDays)
		if m.ScheduledDays <= goodIvl {
			m.ScheduledDays = clampIntervalDays(goodIvl+1, p.MaxIntervalDays)
			m.Due = now.Add(time.Duration(m.ScheduledDays) * 24 * time.Hour)
		}
	}

	return m
}

// advanceLearning handles LEARNING and RELEARNING cards (minutes-scale steps).
func advanceLearning(p Params, m Memory, rating Rating, now time.Time, relearning bool) Memory {
	m.Reps++
	m.LastReview = &now

	steps := p.LearningSteps
	if relearning {
		steps = p.RelearningSteps
	}
	if len(steps) == 0 {
		steps = []time.Duration{time.Minute}
	}

	// Pre-update stability feeds the Easy-vs-Good ordering check below.
	preS := m.Stability

	// FSRS-5 applies short-term stability to every rating in this state.
	m.Stability = shortTermStability(p.W, m.Stability, rating)
	m.Difficulty = nextDifficulty(p.W, m.Difficulty, rating)

	switch rating {
	case Again:
		// Every Again counts as a lapse, in-step repeats included.
		m.Lapses++
		m.Step = 0
		m.ElapsedDays = 0
		m.ScheduledDays = 0
		m.Due = now.Add(steps[0])

	case Hard:
		// Repeat the current step.
		step := m.Step
		if step >= len(steps) {
			step = len(steps) - 1
		}
		m.ElapsedDays = 0
		m.ScheduledDays = 0
		m.Due = now.Add(steps[step])

	case Good:
		nextStep := m.Step + 1
		if nextStep >= len(steps) {
			m = graduateToReview(p, m, m.Stability, m.Difficulty, now)
		} else {
			m.Step = nextStep
			m.ElapsedDays = 0
			m.ScheduledDays = 0
			m.Due = now.Add(steps[nextStep])
		}

	case Easy:
		m = graduateToReview(p, m, m.Stability, m.Difficulty, now)
		// Ensure the Easy interval exceeds what Good would have produced,
		// computed from the pre-update stability.
		goodS := shortTermStability(p.W, preS, Good)
		goodIvl := clampIntervalDays(nextInterval(goodS, p.DesiredRetention), p.MaxIntervalDays)
		if m.ScheduledDays <= goodIvl {
			m.ScheduledDays = clampIntervalDays(goodIvl+1, p.MaxIntervalDays)
			m.Due = now.Add(time.Duration(m.ScheduledDays) * 24 * time.Hour)
		}
	}

	return m
}

// advanceReview handles REVIEW cards: computes all four outcomes and enforces
// the Hard <= Good < Easy interval ordering before selecting the chosen one.
func advanceReview(p Params, m Memory, rating Rating, now time.Time) Memory {
	m.Reps++
	m.LastReview = &now

	elapsed := m.ElapsedDays
	if elapsed < 1 {
		elapsed = 1
	}

	r := retrievability(elapsed, m.Stability)

	// All stability formulas use the pre-update difficulty.
	preD := m.Difficulty
	d := nextDifficulty(p.W, m.Difficulty, rating)

	if rating == Again {
		m.Lapses++
		m.State = domain.MemoryStateRelearning
		m.Step = 0
		m.Difficulty = d
		m.Stability = stabilityAfterLapse(p.W, m.Stability, preD, r)

		steps := p.RelearningSteps
		if len(steps) == 0 {
			steps = []time.Duration{10 * time.Minute}
		}

		m.ElapsedDays = 0
		m.ScheduledDays = 0
		m.Due = now.Add(steps[0])
		return m
	}

	hardS := stabilityAfterRecall(p.W, m.Stability, preD, r, Hard)
	goodS := stabilityAfterRecall(p.W, m.Stability, preD, r, Good)
	easyS := stabilityAfterRecall(p.W, m.Stability, preD, r, Easy)

	hardIvl := clampIntervalDays(nextInterval(hardS, p.DesiredRetention), p.MaxIntervalDays)
	goodIvl := clampIntervalDays(nextInterval(goodS, p.DesiredRetention), p.MaxIntervalDays)
	easyIvl := clampIntervalDays(nextInterval(easyS, p.DesiredRetention), p.MaxIntervalDays)

	hardIvl, goodIvl, easyIvl = orderIntervals(hardIvl, goodIvl, easyIvl)

	hardIvl = clampIntervalDays(hardIvl, p.MaxIntervalDays)
	goodIvl = clampIntervalDays(goodIvl, p.MaxIntervalDays)
	easyIvl = clampIntervalDays(easyIvl, p.MaxIntervalDays)

	if p.EnableFuzz {
		maxIvl := float64(p.MaxIntervalDays)
		ed := float64(elapsed)
		seed := fuzzSeed(now, m.Reps, m.Difficulty, m.Stability)

		hardIvl = int(applyFuzz(float64(hardIvl), ed, maxIvl, seed))
		goodIvl = int(applyFuzz(float64(goodIvl), ed, maxIvl, seed+1))
		easyIvl = int(applyFuzz(float64(easyIvl), ed, maxIvl, seed+2))

		hardIvl, goodIvl, easyIvl = orderIntervals(hardIvl, goodIvl, easyIvl)
	}

	m.Difficulty = d

	var chosenIvl int
	var chosenS float64
	switch rating {
	case Hard:
		chosenIvl, chosenS = hardIvl, hardS
	case Good:
		chosenIvl, chosenS = goodIvl, goodS
	case Easy:
		chosenIvl, chosenS = easyIvl, easyS
	}

	chosenIvl = clampIntervalDays(chosenIvl, p.MaxIntervalDays)

	m.Stability = chosenS
	m.State = domain.MemoryStateReview
	m.ScheduledDays = chosenIvl
	m.ElapsedDays = 0
	m.Due = now.Add(time.Duration(chosenIvl) * 24 * time.Hour)

	return m
}

// orderIntervals bumps ties upward so Hard < Good < Easy. Callers clamp the
// result, so at MaxIntervalDays the intervals may collapse back to equal;
// only Hard <= Good <= Easy survives the cap.
func orderIntervals(hard, good, easy int) (int, int, int) {
	if hard > good {
		hard = good
	}
	if good <= hard {
		good = hard + 1
	}
	if easy <= good {
		easy = good + 1
	}
	return hard, good, easy
}

// graduateToReview moves a card into the REVIEW state with a day-scale interval.
func graduateToReview(p Params, m Memory, stability, difficulty float64, now time.Time) Memory {
	m.State = domain.MemoryStateReview
	m.Step = 0
	m.Stability = stability
	m.Difficulty = difficulty

	ivl := clampIntervalDays(nextInterval(stability, p.DesiredRetention), p.MaxIntervalDays)

	m.ScheduledDays = ivl
	m.ElapsedDays = 0
	m.Due = now.Add(time.Duration(ivl) * 24 * time.Hour)

	return m
}
