package statistics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Estimates accumulates repeated equity estimates (percentages) for one
// quantity, typically the same request evaluated under different seeds or
// iteration budgets, and summarizes their spread.
type Estimates struct {
	values []float64
}

// Add records one estimate.
func (e *Estimates) Add(v float64) {
	e.values = append(e.values, v)
}

// Count returns the number of recorded estimates.
func (e *Estimates) Count() int {
	return len(e.values)
}

// Mean returns the arithmetic mean of the estimates.
func (e *Estimates) Mean() float64 {
	if len(e.values) == 0 {
		return 0
	}
	return stat.Mean(e.values, nil)
}

// Variance returns the sample variance.
func (e *Estimates) Variance() float64 {
	if len(e.values) < 2 {
		return 0
	}
	return stat.Variance(e.values, nil)
}

// StdDev returns the sample standard deviation.
func (e *Estimates) StdDev() float64 {
	return math.Sqrt(e.Variance())
}

// StdError returns the standard error of the mean.
func (e *Estimates) StdError() float64 {
	if len(e.values) == 0 {
		return 0
	}
	return e.StdDev() / math.Sqrt(float64(len(e.values)))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (e *Estimates) ConfidenceInterval95() (float64, float64) {
	mean := e.Mean()
	margin := 1.96 * e.StdError()
	return mean - margin, mean + margin
}

// Quantile returns the value at quantile p (0.0 to 1.0).
func (e *Estimates) Quantile(p float64) float64 {
	if len(e.values) == 0 {
		return 0
	}
	sorted := make([]float64, len(e.values))
	copy(sorted, e.values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// MaxAbsDeviation returns the largest absolute deviation from a reference
// value, the regression runner's pass/fail measure.
func (e *Estimates) MaxAbsDeviation(reference float64) float64 {
	worst := 0.0
	for _, v := range e.values {
		if d := math.Abs(v - reference); d > worst {
			worst = d
		}
	}
	return worst
}
