// Package bound computes the density-aware upper limit on how many
// documents the selector may keep for one request.
package bound

import (
	"math"

	"github.com/kaiyu-cloud/tripdex/internal/domain/need"
)

// divisor damps the trip-length and corpus-density contributions.
const divisor = 2

// UpperBound returns the document ceiling for a selection run, in
// [baseK, maxK]. Longer trips, more cities, a denser corpus slice, and a
// multi-month span each widen the window; the density term is log-damped so
// a rich slice never causes linear blow-up. Monotonic non-decreasing in
// both matchCount and the trip length.
func UpperBound(n need.Need, matchCount, baseK, maxK int) int {
	k := baseK

	k += n.Days() / divisor

	if cities := len(n.Cities()); cities > 1 {
		k += cities - 1
	}

	if matchCount > 0 {
		k += int(math.Log1p(float64(matchCount))) / divisor
	}

	if len(n.Seasons()) > 1 {
		k++
	}

	if k > maxK {
		k = maxK
	}
	if k < baseK {
		k = baseK
	}
	return k
}
