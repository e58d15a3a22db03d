package detect

import (
	"fmt"

	"github.com/sonavero/voicecheck/algorithms/common"
)

const (
	// SampleRate is the only sample rate the engine accepts. The decoded
	// audio provider resamples to this rate.
	SampleRate = 22050

	// MinDuration is the shortest clip the heuristics can say anything
	// meaningful about, in seconds. The boundary is inclusive.
	MinDuration = 0.5
)

// AudioBuffer is one request's decoded mono PCM. It is owned by the request
// pipeline, never mutated after construction, and discarded after scoring.
type AudioBuffer struct {
	samples    []float64
	sampleRate int
}

// NewAudioBuffer validates decoded samples and wraps them for analysis. The
// caller hands over ownership of the slice. Fails with
// InsufficientAudioError when the clip is shorter than MinDuration, before
// any feature work happens.
func NewAudioBuffer(samples []float64, sampleRate int) (*AudioBuffer, error) {
	if sampleRate != SampleRate {
		return nil, fmt.Errorf("unsupported sample rate %d, engine requires %d", sampleRate, SampleRate)
	}

	duration := float64(len(samples)) / float64(sampleRate)
	if duration < MinDuration {
		return nil, &InsufficientAudioError{
			Duration:    duration,
			MinDuration: MinDuration,
		}
	}

	// A decode failure must surface here, never as NaN in a feature vector
	if !common.AllFinite(samples) {
		return nil, fmt.Errorf("decoded samples contain non-finite values")
	}

	return &AudioBuffer{
		samples:    samples,
		sampleRate: sampleRate,
	}, nil
}

// Samples returns the underlying PCM. Callers must not modify it.
func (b *AudioBuffer) Samples() []float64 {
	return b.samples
}

// SampleRate returns the sample rate in Hz
func (b *AudioBuffer) SampleRate() int {
	return b.sampleRate
}

// NumSamples returns the number of samples
func (b *AudioBuffer) NumSamples() int {
	return len(b.samples)
}

// Duration returns the clip length in seconds
func (b *AudioBuffer) Duration() float64 {
	return float64(len(b.samples)) / float64(b.sampleRate)
}
