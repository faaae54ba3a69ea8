package calculator

import (
	"errors"
	"math"
)

// CalculateRange returns the high and low of the given values.
func CalculateRange(values []float64) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low, nil
}

// PctChange returns (to-from)/from*100, or 0 when from is zero.
func PctChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}

// DistancePct is the distance of level below ref as a percentage of ref:
// (ref-level)/ref*100. It returns ok=false when ref is zero.
func DistancePct(ref, level float64) (float64, bool) {
	if ref == 0 {
		return 0, false
	}
	return (ref - level) / ref * 100, true
}
