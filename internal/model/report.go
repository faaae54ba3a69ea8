package model

import (
	"math"
	"strconv"
)

// Report is one rendered result table of an analysis.
type Report struct {
	Title  string
	Prefix string
	Header []string
	Rows   [][]string
	// Preview is the number of rows shown on the console, 0 for none.
	Preview int
}

// FormatFloat renders a number the way the CSV consumers expect: shortest
// round-trip form, integers without a fraction.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatInt truncates toward zero, matching lot counts.
func FormatInt(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}

func FormatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
