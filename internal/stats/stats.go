// Package stats holds the order statistics the reports are built on.
//
// Quartiles follow the median-of-halves rule: Q1 is the median of the lower
// n/2 sorted values and Q3 the median of the upper n/2, so the middle value of
// an odd sample belongs to neither half.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	N      int     `json:"n"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Median returns the statistical median, averaging the two middle values of
// an even sample. It returns 0 for an empty sample.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return medianSorted(sorted)
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MedianIQR returns median, Q1 and Q3. Fewer than two values collapse the
// quartiles onto the median; an empty sample yields zeros.
func MedianIQR(values []float64) (median, q1, q3 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	median = medianSorted(sorted)
	if len(sorted) < 2 {
		return median, median, median
	}
	half := len(sorted) / 2
	q1 = medianSorted(sorted[:half])
	q3 = medianSorted(sorted[len(sorted)-half:])
	return median, q1, q3
}

func Summarize(values []float64) Summary {
	median, q1, q3 := MedianIQR(values)
	s := Summary{
		N:      len(values),
		Median: median,
		Q1:     q1,
		Q3:     q3,
	}
	switch len(values) {
	case 0:
	case 1:
		s.Mean = values[0]
	default:
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	}
	return s
}

// ErrorBounds converts a summary into whisker lengths below and above the median.
func (s Summary) ErrorBounds() (low, high float64) {
	return s.Median - s.Q1, s.Q3 - s.Median
}

// OverheadPercent is the relative slowdown of value against baseline. ok is
// false when there is no usable baseline.
func OverheadPercent(value, baseline float64) (pct float64, ok bool) {
	if baseline == 0 || math.IsNaN(baseline) {
		return 0, false
	}
	return (value - baseline) / baseline * 100, true
}
