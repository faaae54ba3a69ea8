package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// Mean is the SMA over every value.
func Mean(values []float64) (float64, error) {
	return CalculateSMA(values, len(values))
}

// SampleStdDev returns the standard deviation with n-1 degrees of freedom.
func SampleStdDev(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, errors.New("need at least two values for standard deviation")
	}
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1)), nil
}
