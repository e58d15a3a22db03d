package tonal

import (
	"math"
)

// HarmonicityAnalyzer measures how much of a frame's energy is explained by
// a periodic (harmonic) component versus residual noise, in the
// harmonic-to-noise ratio family
type HarmonicityAnalyzer struct {
	sampleRate int
	minFreq    float64
	maxFreq    float64
}

// HarmonicityResult holds the harmonic analysis of one frame
type HarmonicityResult struct {
	HarmonicRatio float64 `json:"harmonic_ratio"` // Fraction of energy in the periodic component [0, 1]
	HNR           float64 `json:"hnr"`            // Harmonic-to-noise ratio in dB
	F0            float64 `json:"f0"`             // Fundamental of the periodic component, 0 if none
}

// NewHarmonicityAnalyzer creates an analyzer over the speech F0 range
func NewHarmonicityAnalyzer(sampleRate int) *HarmonicityAnalyzer {
	return &HarmonicityAnalyzer{
		sampleRate: sampleRate,
		minFreq:    50.0,
		maxFreq:    500.0,
	}
}

// AnalyzeFrame computes the harmonic ratio of a single frame from the
// normalized autocorrelation peak at the fundamental period
func (ha *HarmonicityAnalyzer) AnalyzeFrame(frame []float64) HarmonicityResult {
	halfN := len(frame) / 2

	minLag := int(float64(ha.sampleRate) / ha.maxFreq)
	maxLag := int(float64(ha.sampleRate) / ha.minFreq)
	if maxLag >= halfN {
		maxLag = halfN - 1
	}
	if minLag < 2 || minLag >= maxLag {
		return HarmonicityResult{}
	}

	energy := 0.0
	for j := 0; j < halfN; j++ {
		energy += frame[j] * frame[j]
	}
	if energy < 1e-20 {
		return HarmonicityResult{}
	}

	// Normalized autocorrelation over the candidate period range
	bestLag := -1
	bestCorr := 0.0

	for tau := minLag; tau <= maxLag; tau++ {
		acf := 0.0
		lagEnergy := 0.0

		for j := 0; j < halfN; j++ {
			acf += frame[j] * frame[j+tau]
			lagEnergy += frame[j+tau] * frame[j+tau]
		}

		if lagEnergy < 1e-20 {
			continue
		}

		corr := acf / math.Sqrt(energy*lagEnergy)
		if corr > bestCorr {
			bestCorr = corr
			bestLag = tau
		}
	}

	if bestLag < 0 || bestCorr <= 0 {
		return HarmonicityResult{}
	}

	ratio := bestCorr
	if ratio > 0.9999 {
		ratio = 0.9999
	}

	return HarmonicityResult{
		HarmonicRatio: ratio,
		HNR:           10.0 * math.Log10(ratio/(1.0-ratio)),
		F0:            float64(ha.sampleRate) / float64(bestLag),
	}
}

// AnalyzeFrames computes the harmonic ratio for every frame on the grid
func (ha *HarmonicityAnalyzer) AnalyzeFrames(signal []float64, frameSize, hopSize int) []HarmonicityResult {
	if frameSize <= 0 || hopSize <= 0 || len(signal) < frameSize {
		return nil
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	results := make([]HarmonicityResult, numFrames)

	for i := 0; i < numFrames; i++ {
		startIdx := i * hopSize
		results[i] = ha.AnalyzeFrame(signal[startIdx : startIdx+frameSize])
	}

	return results
}
