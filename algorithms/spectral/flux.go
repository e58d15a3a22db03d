package spectral

import (
	"math"
)

// SpectralFlux measures frame-to-frame change of the spectral envelope.
// Low flux means the timbre barely evolves over time.
type SpectralFlux struct{}

// NewSpectralFlux creates a new spectral flux calculator
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Compute calculates positive spectral flux for a spectrogram. Only energy
// increases count, which makes the measure insensitive to simple decay tails.
func (sf *SpectralFlux) Compute(spectrogram [][]float64) []float64 {
	if len(spectrogram) < 2 {
		return []float64{}
	}

	flux := make([]float64, len(spectrogram)-1)

	for t := 1; t < len(spectrogram); t++ {
		sum := 0.0
		for f := 0; f < len(spectrogram[t]); f++ {
			diff := spectrogram[t][f] - spectrogram[t-1][f]
			if diff > 0 {
				sum += diff * diff
			}
		}
		flux[t-1] = math.Sqrt(sum)
	}

	return flux
}

// ComputeNormalized calculates positive flux with each frame pair scaled by
// the magnitude of the earlier frame, so the result is comparable across
// recordings with different levels
func (sf *SpectralFlux) ComputeNormalized(spectrogram [][]float64) []float64 {
	if len(spectrogram) < 2 {
		return []float64{}
	}

	flux := make([]float64, len(spectrogram)-1)

	for t := 1; t < len(spectrogram); t++ {
		sum := 0.0
		norm := 0.0
		for f := 0; f < len(spectrogram[t]); f++ {
			diff := spectrogram[t][f] - spectrogram[t-1][f]
			if diff > 0 {
				sum += diff * diff
			}
			norm += spectrogram[t-1][f] * spectrogram[t-1][f]
		}

		if norm > 1e-20 {
			flux[t-1] = math.Sqrt(sum) / math.Sqrt(norm)
		}
	}

	return flux
}
