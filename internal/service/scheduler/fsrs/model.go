package fsrs

import "math"

// Rating is the numeric recall grade used by the model formulas.
type Rating int

const (
	Again Rating = 1
	Hard  Rating = 2
	Good  Rating = 3
	Easy  Rating = 4
)

// retrievability is the probability of recall after elapsedDays.
//
//	R(t, S) = (1 + t/(9*S))^(-1)
func retrievability(elapsedDays int, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+float64(elapsedDays)/(9*stability), -1)
}

// nextInterval converts stability and desired retention to days.
//
//	I(S, r) = round(9 * S * (1/r - 1)), floored at 1
func nextInterval(stability, desiredRetention float64) int {
	if desiredRetention <= 0 || desiredRetention >= 1 {
		return 1
	}
	ivl := 9 * stability * (1/desiredRetention - 1)
	return max(1, int(math.Round(ivl)))
}

// initialStability returns the starting stability for a first rating.
//
//	S0(G) = w[G-1], clamped to minStability
func initialStability(w Weights, rating Rating) float64 {
	idx := int(rating) - 1
	if idx < 0 || idx > 3 {
		idx = 2
	}
	return math.Max(minStability, w[idx])
}

// initialDifficulty returns the starting difficulty for a first rating.
//
//	D0(G) = w4 - exp(w5 * (G - 1)) + 1, clamped to [1, 10]
func initialDifficulty(w Weights, rating Rating) float64 {
	d := w[4] - math.Exp(w[5]*float64(rating-1)) + 1
	return clampDifficulty(d)
}

// nextDifficulty updates difficulty after a review, with mean reversion
// toward D0(Easy) to prevent drift.
//
//	D'(D, G) = w7 * D0(4) + (1 - w7) * (D - w6 * (G - 3)), clamped to [1, 10]
func nextDifficulty(w Weights, d float64, rating Rating) float64 {
	d0Easy := initialDifficulty(w, Easy)
	newD := w[7]*d0Easy + (1-w[7])*(d-w[6]*(float64(rating)-3))
	return clampDifficulty(newD)
}

// stabilityAfterRecall is the post-recall stability (rating >= Hard).
//
//	S'r(S, D, R, G) = S * (e^(w8) * (11-D) * S^(-w9) * (e^(w10*(1-R)) - 1)
//	                       * hardPenalty * easyBonus + 1)
func stabilityAfterRecall(w Weights, s, d, r float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == Hard {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if rating == Easy {
		easyBonus = w[16]
	}

	newS := s * (math.Exp(w[8])*
		(11-d)*
		math.Pow(s, -w[9])*
		(math.Exp(w[10]*(1-r))-1)*
		hardPenalty*
		easyBonus +
		1)

	return math.Max(minStability, newS)
}

// stabilityAfterForgetting is the raw post-lapse stability (rating == Again).
//
//	S'f(S, D, R) = w11 * D^(-w12) * ((S+1)^w13 - 1) * e^(w14*(1-R))
func stabilityAfterForgetting(w Weights, s, d, r float64) float64 {
	newS := w[11] *
		math.Pow(d, -w[12]) *
		(math.Pow(s+1, w[13]) - 1) *
		math.Exp(w[14]*(1-r))
	return math.Max(minStability, newS)
}

// stabilityAfterLapse caps the forget stability so a lapse never leaves the
// card with more stability than S/exp(w17*w18).
func stabilityAfterLapse(w Weights, s, d, r float64) float64 {
	sMax := s / math.Exp(w[17]*w[18])
	sf := stabilityAfterForgetting(w, s, d, r)
	return math.Max(minStability, math.Min(sMax, sf))
}

// shortTermStability updates stability for same-day (learning/relearning)
// reviews.
//
//	S'st(S, G) = S * e^(w17 * (G - 3 + w18))
func shortTermStability(w Weights, s float64, rating Rating) float64 {
	newS := s * math.Exp(w[17]*(float64(rating)-3+w[18]))
	return math.Max(minStability, newS)
}

// clampDifficulty constrains difficulty to [1, 10].
func clampDifficulty(d float64) float64 {
	return math.Max(1, math.Min(10, d))
}

// clampIntervalDays constrains an interval to [1, maxDays].
func clampIntervalDays(ivl, maxDays int) int {
	if ivl < 1 {
		return 1
	}
	if ivl > maxDays {
		return maxDays
	}
	return ivl
}
