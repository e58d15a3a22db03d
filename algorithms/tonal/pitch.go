package tonal

import (
	"fmt"
)

// PitchTracker estimates the fundamental frequency of short audio frames
// using the normalized square difference function (autocorrelation family).
// Stateless across frames, so contours are deterministic.
type PitchTracker struct {
	sampleRate       int
	minFreq          float64
	maxFreq          float64
	clarityThreshold float64
}

// PitchFrame is the pitch estimate for one analysis frame
type PitchFrame struct {
	Frequency float64 `json:"frequency"` // Estimated F0 in Hz, 0 when unvoiced
	Clarity   float64 `json:"clarity"`   // Peak strength of the NSDF in [0, 1]
	Voiced    bool    `json:"voiced"`    // Whether the frame carries a reliable pitch
}

// NewPitchTracker creates a tracker over the speech F0 range (50-500 Hz)
func NewPitchTracker(sampleRate int) *PitchTracker {
	return &PitchTracker{
		sampleRate:       sampleRate,
		minFreq:          50.0,
		maxFreq:          500.0,
		clarityThreshold: 0.5,
	}
}

// Track estimates the pitch of a single frame
func (pt *PitchTracker) Track(frame []float64) PitchFrame {
	halfN := len(frame) / 2

	minLag := int(float64(pt.sampleRate) / pt.maxFreq)
	maxLag := int(float64(pt.sampleRate) / pt.minFreq)
	if maxLag >= halfN {
		maxLag = halfN - 1
	}
	if minLag < 2 || minLag >= maxLag {
		return PitchFrame{}
	}

	// NSDF = 2*ACF(tau) / (m0 + m_tau)
	nsdf := make([]float64, maxLag+1)
	for tau := minLag; tau <= maxLag; tau++ {
		acf := 0.0
		m1 := 0.0
		m2 := 0.0

		for j := 0; j < halfN; j++ {
			x1 := frame[j]
			x2 := frame[j+tau]

			acf += x1 * x2
			m1 += x1 * x1
			m2 += x2 * x2
		}

		if m1+m2 > 0 {
			nsdf[tau] = 2.0 * acf / (m1 + m2)
		}
	}

	// Strongest local maximum above the clarity threshold
	bestLag := -1
	bestClarity := pt.clarityThreshold

	for tau := minLag + 1; tau < maxLag; tau++ {
		if nsdf[tau] > nsdf[tau-1] && nsdf[tau] >= nsdf[tau+1] && nsdf[tau] > bestClarity {
			bestLag = tau
			bestClarity = nsdf[tau]
		}
	}

	if bestLag < 0 {
		return PitchFrame{}
	}

	period := parabolicInterpolation(nsdf, bestLag)
	if period <= 0 {
		return PitchFrame{}
	}

	frequency := float64(pt.sampleRate) / period
	if frequency < pt.minFreq || frequency > pt.maxFreq {
		return PitchFrame{}
	}

	clarity := bestClarity
	if clarity > 1.0 {
		clarity = 1.0
	}

	return PitchFrame{
		Frequency: frequency,
		Clarity:   clarity,
		Voiced:    true,
	}
}

// TrackContour estimates the pitch for every frame on the given grid
func (pt *PitchTracker) TrackContour(signal []float64, frameSize, hopSize int) ([]PitchFrame, error) {
	if frameSize <= 0 || hopSize <= 0 {
		return nil, fmt.Errorf("frame size and hop size must be positive")
	}
	if len(signal) < frameSize {
		return nil, fmt.Errorf("signal shorter than one frame (%d < %d)", len(signal), frameSize)
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	contour := make([]PitchFrame, numFrames)

	for i := 0; i < numFrames; i++ {
		startIdx := i * hopSize
		contour[i] = pt.Track(signal[startIdx : startIdx+frameSize])
	}

	return contour, nil
}

// parabolicInterpolation refines a peak position using its neighbors
func parabolicInterpolation(data []float64, peakIdx int) float64 {
	if peakIdx <= 0 || peakIdx >= len(data)-1 {
		return float64(peakIdx)
	}

	y1 := data[peakIdx-1]
	y2 := data[peakIdx]
	y3 := data[peakIdx+1]

	denominator := y1 - 2*y2 + y3
	if denominator == 0 {
		return float64(peakIdx)
	}

	offset := 0.5 * (y1 - y3) / denominator
	return float64(peakIdx) + offset
}
