package temporal

import (
	"math"
)

// Envelope computes frame-level energy and articulation measures over a
// signal using a fixed frame/hop grid
type Envelope struct {
	frameSize int
	hopSize   int
}

// NewEnvelope creates an envelope extractor for the given frame grid
func NewEnvelope(frameSize, hopSize int) *Envelope {
	return &Envelope{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// NumFrames returns how many full frames fit in a signal of the given length
func (e *Envelope) NumFrames(signalLen int) int {
	if signalLen < e.frameSize {
		return 0
	}
	return (signalLen-e.frameSize)/e.hopSize + 1
}

// ComputeRMS calculates per-frame root mean square energy
func (e *Envelope) ComputeRMS(signal []float64) []float64 {
	numFrames := e.NumFrames(len(signal))
	if numFrames == 0 {
		return []float64{}
	}

	energies := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		startIdx := i * e.hopSize
		endIdx := startIdx + e.frameSize

		sum := 0.0
		for j := startIdx; j < endIdx; j++ {
			sum += signal[j] * signal[j]
		}
		energies[i] = math.Sqrt(sum / float64(e.frameSize))
	}

	return energies
}

// ComputeZCR calculates per-frame zero crossing rate, normalized by the
// maximum possible crossings per frame
func (e *Envelope) ComputeZCR(signal []float64) []float64 {
	numFrames := e.NumFrames(len(signal))
	if numFrames == 0 {
		return []float64{}
	}

	zcrValues := make([]float64, numFrames)
	maxCrossings := float64(e.frameSize - 1)

	for i := 0; i < numFrames; i++ {
		startIdx := i * e.hopSize
		endIdx := startIdx + e.frameSize

		crossings := 0
		for j := startIdx + 1; j < endIdx; j++ {
			if (signal[j-1] >= 0 && signal[j] < 0) || (signal[j-1] < 0 && signal[j] >= 0) {
				crossings++
			}
		}

		zcrValues[i] = float64(crossings) / maxCrossings
	}

	return zcrValues
}
