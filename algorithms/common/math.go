package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistical helpers shared across the analysis algorithms, backed by gonum

// Mean calculates the arithmetic mean of a slice
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Variance calculates the sample variance of a slice
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.Variance(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return math.Sqrt(Variance(data))
}

// CoefficientOfVariation returns std/mean, the scale-free spread measure the
// detection heuristics are built on. Zero-mean data yields 0.
func CoefficientOfVariation(data []float64) float64 {
	mean := Mean(data)
	if math.Abs(mean) < 1e-12 {
		return 0.0
	}
	return StandardDeviation(data) / math.Abs(mean)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, val := range data {
		sumSquares += val * val
	}

	return math.Sqrt(sumSquares / float64(len(data)))
}

// Percentile calculates the p-th percentile (p between 0 and 1)
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return 0.0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// MinMaxNormalize normalizes data to [0, 1] range; constant data maps to zeros
func MinMaxNormalize(data []float64) []float64 {
	if len(data) == 0 {
		return data
	}

	minVal := floats.Min(data)
	maxVal := floats.Max(data)

	normalized := make([]float64, len(data))
	if math.Abs(maxVal-minVal) < 1e-10 {
		return normalized
	}

	for i, val := range data {
		normalized[i] = (val - minVal) / (maxVal - minVal)
	}

	return normalized
}

// AbsDeltas returns the absolute first differences of a series. The
// perturbation (jitter/shimmer style) measures are averages of these.
func AbsDeltas(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}

	deltas := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		deltas[i-1] = math.Abs(data[i] - data[i-1])
	}

	return deltas
}

// RelativePerturbation returns the mean absolute consecutive difference of a
// series divided by the series mean, as a fraction. Used for jitter (pitch
// periods) and shimmer (amplitudes).
func RelativePerturbation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}

	mean := Mean(data)
	if math.Abs(mean) < 1e-12 {
		return 0.0
	}

	return Mean(AbsDeltas(data)) / math.Abs(mean)
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// AllFinite reports whether every value is a real number (no NaN/Inf)
func AllFinite(data []float64) bool {
	for _, val := range data {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return false
		}
	}
	return true
}
