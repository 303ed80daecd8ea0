// Package fsrs is the memory-model adapter: it wraps the FSRS-5
// forgetting-curve algorithm behind a single pure entry point, Advance.
// Core formulas match the go-fsrs reference.
package fsrs

import (
	"fmt"
	"math"
)

// minStability is the floor for stability values (reference: max(w[r-1], 0.1)).
const minStability = 0.1

// Weights holds the 19 FSRS-5 model weights w[0]..w[18].
type Weights [19]float64

// DefaultWeights are the published FSRS-5 defaults.
var DefaultWeights = Weights{
	0.4072,  // w0  - initial stability for Again
	1.1829,  // w1  - initial stability for Hard
	3.1262,  // w2  - initial stability for Good
	15.4722, // w3  - initial stability for Easy
	7.2102,  // w4  - initial difficulty mean reversion
	0.5316,  // w5  - initial difficulty slope
	1.0651,  // w6  - difficulty update: D - w6*(G-3)
	0.0046,  // w7  - difficulty mean reversion weight
	1.5418,  // w8  - recall stability: exp(w8)
	0.1594,  // w9  - recall stability: S^(-w9)
	1.01,    // w10 - recall stability: exp(w10*(1-R)) - 1
	2.1791,  // w11 - forget stability: multiplier
	0.0292,  // w12 - forget stability: D^(-w12)
	0.2788,  // w13 - forget stability: (S+1)^w13 - 1
	0.2229,  // w14 - forget stability: exp(w14*(1-R))
	0.2604,  // w15 - recall stability: hard penalty
	3.3928,  // w16 - recall stability: easy bonus
	0.2223,  // w17 - short-term stability / post-lapse cap
	0.6744,  // w18 - short-term stability / post-lapse cap
}

// Validate checks that all 19 weights are finite and the initial-stability
// weights are positive.
func (w Weights) Validate() error {
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight w[%d] is invalid: %v", i, v)
		}
	}
	if w[0] <= 0 || w[1] <= 0 || w[2] <= 0 || w[3] <= 0 {
		return fmt.Errorf("initial stability weights w[0]-w[3] must be positive")
	}
	return nil
}
