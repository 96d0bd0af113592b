package movement

import (
	"math"

	"github.com/stockbridge/stockbridge/internal/mapping"
)

// AdjustQuantity maps a movement between two locations onto a signed stock
// delta. Stock leaving a tracked location is negative, stock entering one is
// positive, and a transfer touching no tracked location nets to zero; callers
// must treat a zero delta as "skip" and contact no external system.
//
// The source check deliberately takes precedence: a move between two tracked
// locations yields a negative delta.
func AdjustQuantity(source, dest string, raw float64, tracked mapping.Set) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		raw = 0
	}
	switch {
	case tracked.Has(source):
		return -math.Abs(raw)
	case tracked.Has(dest):
		return math.Abs(raw)
	default:
		return 0
	}
}
