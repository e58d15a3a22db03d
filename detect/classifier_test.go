package detect

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassifier(t *testing.T) {
	classifier, err := NewClassifier(nil)
	require.NoError(t, err)
	assert.NotNil(t, classifier)

	bad := DefaultConfig()
	bad.Threshold = 1.5
	_, err = NewClassifier(bad)
	assert.Error(t, err)
}

func TestClassifyToneAsAIGenerated(t *testing.T) {
	classifier, err := NewClassifier(nil)
	require.NoError(t, err)

	buf := mustBuffer(t, synthTone(220, 2.0))

	result, err := classifier.Classify(context.Background(), buf, LanguageEnglish)
	require.NoError(t, err)

	assert.Equal(t, ClassificationAIGenerated, result.Classification)
	assert.GreaterOrEqual(t, result.Score, 0.9)
	assert.GreaterOrEqual(t, result.Confidence, 0.8)
	assert.Equal(t, 0.5, result.Threshold)
	assert.Equal(t, LanguageEnglish, result.Language)
	assert.True(t, strings.HasPrefix(result.Explanation, "Detected "))
}

func TestClassifySpeechLikeAsHuman(t *testing.T) {
	classifier, err := NewClassifier(nil)
	require.NoError(t, err)

	buf := mustBuffer(t, synthSpeechLike(3.0, 7))

	result, err := classifier.Classify(context.Background(), buf, LanguageEnglish)
	require.NoError(t, err)

	assert.Equal(t, ClassificationHuman, result.Classification)
	assert.Less(t, result.Score, 0.5)
	assert.GreaterOrEqual(t, result.Confidence, 0.5)

	// Pitch movement is the dominant human indicator for this signal
	assert.Contains(t, result.Explanation, humanPhrases[DimPitchConsistency])
}

func TestClassifyNoiseStaysNearBoundary(t *testing.T) {
	classifier, err := NewClassifier(nil)
	require.NoError(t, err)

	buf := mustBuffer(t, synthNoise(2.0, 42))

	first, err := classifier.Classify(context.Background(), buf, LanguageEnglish)
	require.NoError(t, err)

	// Noise is ambiguous: whatever the label, the engine must not be
	// confident about it, and must say the same thing every time
	assert.LessOrEqual(t, first.Confidence, 0.2)

	second, err := classifier.Classify(context.Background(), buf, LanguageEnglish)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestClassifyDeterministic(t *testing.T) {
	classifier, err := NewClassifier(nil)
	require.NoError(t, err)

	buf := mustBuffer(t, synthSpeechLike(3.0, 21))

	first, err := classifier.Classify(context.Background(), buf, LanguageTamil)
	require.NoError(t, err)

	for n := 0; n < 3; n++ {
		repeat, err := classifier.Classify(context.Background(), buf, LanguageTamil)
		require.NoError(t, err)
		require.Equal(t, first, repeat)
	}
}

func TestClassifyRejectsUnknownLanguage(t *testing.T) {
	classifier, err := NewClassifier(nil)
	require.NoError(t, err)

	buf := mustBuffer(t, synthTone(220, 1.0))

	_, err = classifier.Classify(context.Background(), buf, Language("Esperanto"))
	assert.Error(t, err)

	_, err = classifier.Classify(context.Background(), buf, Language(""))
	assert.Error(t, err)
}

func TestClassifyExpiredContext(t *testing.T) {
	classifier, err := NewClassifier(nil)
	require.NoError(t, err)

	buf := mustBuffer(t, synthTone(220, 1.0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = classifier.Classify(ctx, buf, LanguageEnglish)
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotEmpty(t, timeoutErr.Stage)
	assert.Contains(t, err.Error(), "canceled")
}

func TestClassifyExpiredDeadline(t *testing.T) {
	classifier, err := NewClassifier(nil)
	require.NoError(t, err)

	buf := mustBuffer(t, synthTone(220, 1.0))

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err = classifier.Classify(ctx, buf, LanguageEnglish)
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "timed out")
}

func TestClassifyFeaturesLanguageFlip(t *testing.T) {
	cfg := DefaultConfig()
	classifier, err := NewClassifier(cfg)
	require.NoError(t, err)

	// 0.52 clears the English boundary but not the Tamil one
	fv := uniformVector(cfg, 0.52)

	english, err := classifier.ClassifyFeatures(fv, LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, ClassificationAIGenerated, english.Classification)

	tamil, err := classifier.ClassifyFeatures(fv, LanguageTamil)
	require.NoError(t, err)
	assert.Equal(t, ClassificationHuman, tamil.Classification)

	// Nothing crossed a trigger in either direction
	assert.Equal(t, inconclusiveExplanation, english.Explanation)
	assert.Equal(t, inconclusiveExplanation, tamil.Explanation)
}

func TestClassifyFeaturesRejectsUnknownLanguage(t *testing.T) {
	cfg := DefaultConfig()
	classifier, err := NewClassifier(cfg)
	require.NoError(t, err)

	_, err = classifier.ClassifyFeatures(uniformVector(cfg, 0.5), Language("Klingon"))
	assert.Error(t, err)
}
