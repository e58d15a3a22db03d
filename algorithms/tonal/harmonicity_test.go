package tonal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarmonicityAnalyzerSine(t *testing.T) {
	analyzer := NewHarmonicityAnalyzer(testSampleRate)

	result := analyzer.AnalyzeFrame(sineFrame(220, 1024))

	assert.Greater(t, result.HarmonicRatio, 0.9)
	assert.LessOrEqual(t, result.HarmonicRatio, 1.0)
	assert.Greater(t, result.HNR, 9.0)
	assert.InDelta(t, 220.0, result.F0, 25.0)
}

func TestHarmonicityAnalyzerNoise(t *testing.T) {
	analyzer := NewHarmonicityAnalyzer(testSampleRate)

	result := analyzer.AnalyzeFrame(noiseFrame(1024, 11))

	assert.Less(t, result.HarmonicRatio, 0.5)
}

func TestHarmonicityAnalyzerSilence(t *testing.T) {
	analyzer := NewHarmonicityAnalyzer(testSampleRate)

	result := analyzer.AnalyzeFrame(make([]float64, 1024))

	assert.Equal(t, 0.0, result.HarmonicRatio)
	assert.Equal(t, 0.0, result.F0)
}

func TestHarmonicityMixOrdering(t *testing.T) {
	analyzer := NewHarmonicityAnalyzer(testSampleRate)

	clean := sineFrame(180, 1024)

	noisy := make([]float64, 1024)
	noise := noiseFrame(1024, 23)
	for i := range noisy {
		noisy[i] = clean[i] + 0.5*noise[i]
	}

	cleanRatio := analyzer.AnalyzeFrame(clean).HarmonicRatio
	noisyRatio := analyzer.AnalyzeFrame(noisy).HarmonicRatio

	// Added noise must lower the harmonic ratio
	assert.Greater(t, cleanRatio, noisyRatio)
	assert.Greater(t, noisyRatio, 0.3)
}

func TestHarmonicityAnalyzeFrames(t *testing.T) {
	analyzer := NewHarmonicityAnalyzer(testSampleRate)

	signal := sineFrame(220, testSampleRate/2)

	results := analyzer.AnalyzeFrames(signal, 1024, 256)
	require.Len(t, results, (len(signal)-1024)/256+1)

	for _, result := range results {
		assert.Greater(t, result.HarmonicRatio, 0.9)
	}

	assert.Nil(t, analyzer.AnalyzeFrames(make([]float64, 512), 1024, 256))
}
