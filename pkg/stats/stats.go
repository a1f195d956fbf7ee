// pkg/stats/stats.go
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics for a numeric column,
// computed over non-missing values only
type Summary struct {
	Count    int
	Mean     float64
	Median   float64
	Std      float64
	Min      float64
	Q1       float64
	Q3       float64
	Max      float64
	Skew     float64
	Kurtosis float64
}

// Describe computes summary statistics over values, ignoring NaN cells.
// An input without finite values yields a zero-count summary with NaN fields.
func Describe(values []float64) Summary {
	xs := dropNaN(values)
	if len(xs) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Median: nan, Std: nan, Min: nan, Q1: nan, Q3: nan, Max: nan, Skew: nan, Kurtosis: nan}
	}

	sort.Float64s(xs)
	return Summary{
		Count:    len(xs),
		Mean:     stat.Mean(xs, nil),
		Median:   stat.Quantile(0.5, stat.LinInterp, xs, nil),
		Std:      math.Sqrt(stat.Variance(xs, nil)),
		Min:      xs[0],
		Q1:       stat.Quantile(0.25, stat.LinInterp, xs, nil),
		Q3:       stat.Quantile(0.75, stat.LinInterp, xs, nil),
		Max:      xs[len(xs)-1],
		Skew:     stat.Skew(xs, nil),
		Kurtosis: stat.ExKurtosis(xs, nil),
	}
}

// Mean returns the mean of the non-missing values; NaN when there are none
func Mean(values []float64) float64 {
	xs := dropNaN(values)
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Median returns the median of the non-missing values; NaN when there are none
func Median(values []float64) float64 {
	xs := dropNaN(values)
	if len(xs) == 0 {
		return math.NaN()
	}
	sort.Float64s(xs)
	return stat.Quantile(0.5, stat.LinInterp, xs, nil)
}

// IQRBounds returns the Tukey fences [q1 - 1.5*iqr, q3 + 1.5*iqr]
// over the non-missing values
func IQRBounds(values []float64) (lo, hi float64) {
	xs := dropNaN(values)
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	sort.Float64s(xs)
	q1 := stat.Quantile(0.25, stat.LinInterp, xs, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, xs, nil)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// OutlierCount returns the number of non-missing values outside the Tukey fences
func OutlierCount(values []float64) int {
	lo, hi := IQRBounds(values)
	if math.IsNaN(lo) {
		return 0
	}
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < lo || v > hi {
			n++
		}
	}
	return n
}

// SilvermanBandwidth returns the rule-of-thumb Gaussian kernel bandwidth
// 0.9 * min(std, IQR/1.34) * n^(-1/5) over the non-missing values.
// NaN when there are fewer than two values or no spread.
func SilvermanBandwidth(values []float64) float64 {
	xs := dropNaN(values)
	if len(xs) < 2 {
		return math.NaN()
	}
	sort.Float64s(xs)

	spread := math.Sqrt(stat.Variance(xs, nil))
	iqr := stat.Quantile(0.75, stat.LinInterp, xs, nil) - stat.Quantile(0.25, stat.LinInterp, xs, nil)
	if iqr > 0 && iqr/1.34 < spread {
		spread = iqr / 1.34
	}
	if spread == 0 {
		return math.NaN()
	}
	return 0.9 * spread * math.Pow(float64(len(xs)), -0.2)
}

// GaussianKDE evaluates a Gaussian kernel density estimate of the
// non-missing values at each grid point, using the Silverman bandwidth.
// The result is all NaN when no bandwidth can be derived.
func GaussianKDE(values, grid []float64) []float64 {
	out := make([]float64, len(grid))
	xs := dropNaN(values)
	h := SilvermanBandwidth(values)
	if math.IsNaN(h) {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	norm := 1.0 / (float64(len(xs)) * h * math.Sqrt(2*math.Pi))
	for i, g := range grid {
		sum := 0.0
		for _, x := range xs {
			z := (g - x) / h
			sum += math.Exp(-0.5 * z * z)
		}
		out[i] = norm * sum
	}
	return out
}

func dropNaN(values []float64) []float64 {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	return xs
}
