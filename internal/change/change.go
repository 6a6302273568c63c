// Package change compares two price snapshots.
package change

import "metalwatch/internal/metals"

// DefaultCrashThreshold is the drop, in percentage points, at which a commodity counts as crashed.
const DefaultCrashThreshold = 10.0

// Percent returns the signed percentage change from prev to cur.
// A zero prev price yields 0.
func Percent(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return ((cur - prev) / prev) * 100
}

// IsCrash reports whether pct is a drop of at least threshold percentage points.
// Rises never count.
func IsCrash(pct, threshold float64) bool {
	return pct <= -threshold
}

// Result is the change of one commodity between two snapshots.
type Result struct {
	Commodity metals.Commodity
	Previous  float64
	Current   float64
	Percent   float64
	Crashed   bool
}

// Evaluate compares every commodity of prev and cur, in metals.All order.
func Evaluate(prev, cur metals.Snapshot, threshold float64) []Result {
	results := make([]Result, 0, len(metals.All))
	for _, c := range metals.All {
		pct := Percent(prev.Price(c), cur.Price(c))
		results = append(results, Result{
			Commodity: c,
			Previous:  prev.Price(c),
			Current:   cur.Price(c),
			Percent:   pct,
			Crashed:   IsCrash(pct, threshold),
		})
	}
	return results
}
