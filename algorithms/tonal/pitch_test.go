package tonal

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 22050

func sineFrame(freq float64, numSamples int) []float64 {
	frame := make([]float64, numSamples)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(testSampleRate))
	}
	return frame
}

func noiseFrame(numSamples int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	frame := make([]float64, numSamples)
	for i := range frame {
		frame[i] = rng.Float64()*2 - 1
	}
	return frame
}

func TestPitchTrackerSine(t *testing.T) {
	tracker := NewPitchTracker(testSampleRate)

	for _, freq := range []float64{110, 220, 330} {
		result := tracker.Track(sineFrame(freq, 1024))

		require.True(t, result.Voiced, "expected %v Hz frame to be voiced", freq)
		assert.InDelta(t, freq, result.Frequency, 5.0)
		assert.Greater(t, result.Clarity, 0.8)
		assert.LessOrEqual(t, result.Clarity, 1.0)
	}
}

func TestPitchTrackerNoiseUnvoiced(t *testing.T) {
	tracker := NewPitchTracker(testSampleRate)

	result := tracker.Track(noiseFrame(1024, 5))
	assert.False(t, result.Voiced)
	assert.Equal(t, 0.0, result.Frequency)
}

func TestPitchTrackerSilenceUnvoiced(t *testing.T) {
	tracker := NewPitchTracker(testSampleRate)

	result := tracker.Track(make([]float64, 1024))
	assert.False(t, result.Voiced)
}

func TestTrackContour(t *testing.T) {
	tracker := NewPitchTracker(testSampleRate)

	signal := sineFrame(220, testSampleRate)

	contour, err := tracker.TrackContour(signal, 1024, 256)
	require.NoError(t, err)
	require.Len(t, contour, (len(signal)-1024)/256+1)

	voiced := 0
	for _, frame := range contour {
		if frame.Voiced {
			voiced++
			assert.InDelta(t, 220.0, frame.Frequency, 5.0)
		}
	}
	assert.Greater(t, voiced, len(contour)*9/10)
}

func TestTrackContourInvalidInput(t *testing.T) {
	tracker := NewPitchTracker(testSampleRate)

	_, err := tracker.TrackContour(sineFrame(220, 512), 1024, 256)
	assert.Error(t, err)

	_, err = tracker.TrackContour(sineFrame(220, 2048), 0, 256)
	assert.Error(t, err)

	_, err = tracker.TrackContour(sineFrame(220, 2048), 1024, 0)
	assert.Error(t, err)
}
