package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeNumFrames(t *testing.T) {
	envelope := NewEnvelope(1024, 256)

	assert.Equal(t, 0, envelope.NumFrames(512))
	assert.Equal(t, 1, envelope.NumFrames(1024))
	assert.Equal(t, 2, envelope.NumFrames(1280))
	assert.Equal(t, (22050-1024)/256+1, envelope.NumFrames(22050))
}

func TestEnvelopeComputeRMS(t *testing.T) {
	envelope := NewEnvelope(1024, 256)

	// Constant signal: every frame's RMS equals the level
	signal := make([]float64, 4096)
	for i := range signal {
		signal[i] = 0.5
	}

	energies := envelope.ComputeRMS(signal)
	require.Len(t, energies, envelope.NumFrames(len(signal)))
	for _, energy := range energies {
		assert.InDelta(t, 0.5, energy, 1e-12)
	}

	// Sine of amplitude a has RMS a/sqrt(2)
	for i := range signal {
		signal[i] = 0.8 * math.Sin(2*math.Pi*220*float64(i)/22050)
	}
	for _, energy := range envelope.ComputeRMS(signal) {
		assert.InDelta(t, 0.8/math.Sqrt2, energy, 0.02)
	}

	assert.Empty(t, envelope.ComputeRMS(make([]float64, 100)))
}

func TestEnvelopeComputeZCR(t *testing.T) {
	envelope := NewEnvelope(1024, 256)

	// 220 Hz sine crosses zero about 2*220 times per second
	signal := make([]float64, 4096)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 220 * float64(i) / 22050)
	}

	expected := 2.0 * 220.0 * (1024.0 / 22050.0) / 1023.0
	for _, zcr := range envelope.ComputeZCR(signal) {
		assert.InDelta(t, expected, zcr, 0.005)
	}

	// DC signal never crosses
	for i := range signal {
		signal[i] = 0.3
	}
	for _, zcr := range envelope.ComputeZCR(signal) {
		assert.Equal(t, 0.0, zcr)
	}
}
