package fsrs

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// fuzzTier is one band of the 3-tier interval fuzz from the go-fsrs reference.
type fuzzTier struct {
	start  float64
	end    float64
	factor float64
}

var fuzzTiers = []fuzzTier{
	{start: 2.5, end: 7.0, factor: 0.15},
	{start: 7.0, end: 20.0, factor: 0.10},
	{start: 20.0, end: math.MaxFloat64, factor: 0.05},
}

// fuzzBounds returns the [min, max] interval bounds after fuzz.
func fuzzBounds(interval, elapsedDays, maxInterval float64) (minIvl, maxIvl int) {
	if interval < 2.5 {
		return int(math.Round(interval)), int(math.Round(interval))
	}

	delta := 1.0
	for _, tier := range fuzzTiers {
		delta += tier.factor * math.Max(math.Min(interval, tier.end)-tier.start, 0.0)
	}

	minIvl = int(math.Round(interval - delta))
	maxIvl = int(math.Round(interval + delta))

	// Never fuzz below 2 days.
	if minIvl < 2 {
		minIvl = 2
	}

	// A fuzzed interval must still exceed the days already elapsed.
	if interval > elapsedDays {
		ed := int(elapsedDays)
		if minIvl <= ed {
			minIvl = ed + 1
		}
	}

	if maxCap := int(maxInterval); maxIvl > maxCap {
		maxIvl = maxCap
	}
	if minIvl > maxIvl {
		minIvl = maxIvl
	}

	return minIvl, maxIvl
}

// applyFuzz jitters a day-scale interval inside its fuzz bounds using a
// deterministic seed, so the same inputs always fuzz the same way.
func applyFuzz(interval, elapsedDays, maxInterval float64, seed int64) float64 {
	if interval < 2.5 {
		return interval
	}

	minIvl, maxIvl := fuzzBounds(interval, elapsedDays, maxInterval)
	if minIvl == maxIvl {
		return float64(minIvl)
	}

	//nolint:gosec // deterministic fuzz, not cryptographic
	rng := rand.New(rand.NewSource(seed))
	return float64(minIvl + rng.Intn(maxIvl-minIvl+1))
}

// fuzzSeed derives a deterministic seed from the review inputs via FNV-1a.
func fuzzSeed(now time.Time, reps int, difficulty, stability float64) int64 {
	h := fnv.New64a()
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(now.Unix()))
	h.Write(b)
	binary.LittleEndian.PutUint64(b, uint64(reps))
	h.Write(b)
	binary.LittleEndian.PutUint64(b, math.Float64bits(difficulty))
	h.Write(b)
	binary.LittleEndian.PutUint64(b, math.Float64bits(stability))
	h.Write(b)
	return int64(h.Sum64())
}
