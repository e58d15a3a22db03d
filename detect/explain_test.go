package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplanationSingleTriggeredDimension(t *testing.T) {
	cfg := DefaultConfig()
	fv := vectorWith(cfg, map[Dimension]float64{DimPitchConsistency: 0.9})

	explanation := buildExplanation(fv, cfg.WeightsFor(LanguageEnglish), cfg, ClassificationAIGenerated)

	assert.Equal(t, "Detected unnaturally stable pitch.", explanation)
}

func TestExplanationRanksByContribution(t *testing.T) {
	cfg := DefaultConfig()
	fv := vectorWith(cfg, map[Dimension]float64{
		DimPitchConsistency:  0.90, // 0.20 * 0.90 = 0.180
		DimHarmonicStructure: 0.85, // 0.10 * 0.85 = 0.085
		DimMFCCPatterns:      0.95, // 0.15 * 0.95 = 0.1425
		DimProsodicFeatures:  0.80, // 0.16 * 0.80 = 0.128
	})

	explanation := buildExplanation(fv, cfg.WeightsFor(LanguageEnglish), cfg, ClassificationAIGenerated)

	// Four dimensions triggered, only the top three named; harmonic
	// structure has the smallest contribution and drops out
	assert.True(t, strings.HasPrefix(explanation, "Detected "))
	assert.Contains(t, explanation, aiPhrases[DimPitchConsistency])
	assert.Contains(t, explanation, aiPhrases[DimMFCCPatterns])
	assert.Contains(t, explanation, aiPhrases[DimProsodicFeatures])
	assert.NotContains(t, explanation, aiPhrases[DimHarmonicStructure])

	// Ordered by contribution, pitch first
	assert.Less(t,
		strings.Index(explanation, aiPhrases[DimPitchConsistency]),
		strings.Index(explanation, aiPhrases[DimMFCCPatterns]))
	assert.Less(t,
		strings.Index(explanation, aiPhrases[DimMFCCPatterns]),
		strings.Index(explanation, aiPhrases[DimProsodicFeatures]))
}

func TestExplanationHumanDirection(t *testing.T) {
	cfg := DefaultConfig()
	fv := vectorWith(cfg, map[Dimension]float64{
		DimBreathPatterns:  0.10,
		DimMicroVariations: 0.20,
	})

	explanation := buildExplanation(fv, cfg.WeightsFor(LanguageEnglish), cfg, ClassificationHuman)

	assert.Contains(t, explanation, humanPhrases[DimBreathPatterns])
	assert.Contains(t, explanation, humanPhrases[DimMicroVariations])

	// Neutral 0.5 values sit above the human trigger and stay out
	assert.NotContains(t, explanation, humanPhrases[DimPitchConsistency])
}

func TestExplanationDirectionMatchesLabel(t *testing.T) {
	cfg := DefaultConfig()
	fv := vectorWith(cfg, map[Dimension]float64{
		DimPitchConsistency: 0.9, // AI side
		DimBreathPatterns:   0.1, // human side
	})

	aiExplanation := buildExplanation(fv, cfg.WeightsFor(LanguageEnglish), cfg, ClassificationAIGenerated)
	assert.Contains(t, aiExplanation, aiPhrases[DimPitchConsistency])
	assert.NotContains(t, aiExplanation, humanPhrases[DimBreathPatterns])

	humanExplanation := buildExplanation(fv, cfg.WeightsFor(LanguageEnglish), cfg, ClassificationHuman)
	assert.Contains(t, humanExplanation, humanPhrases[DimBreathPatterns])
	assert.NotContains(t, humanExplanation, aiPhrases[DimPitchConsistency])
}

func TestExplanationInconclusive(t *testing.T) {
	cfg := DefaultConfig()

	// Everything in the dead zone between the triggers
	fv := uniformVector(cfg, 0.45)

	explanation := buildExplanation(fv, cfg.WeightsFor(LanguageEnglish), cfg, ClassificationHuman)
	assert.Equal(t, inconclusiveExplanation, explanation)

	explanation = buildExplanation(fv, cfg.WeightsFor(LanguageEnglish), cfg, ClassificationAIGenerated)
	assert.Equal(t, inconclusiveExplanation, explanation)
}

func TestExplanationDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	fv := vectorWith(cfg, map[Dimension]float64{
		DimPitchConsistency: 0.9,
		DimMFCCPatterns:     0.9,
		DimSpectralDynamics: 0.7,
	})

	weights := cfg.WeightsFor(LanguageEnglish)
	first := buildExplanation(fv, weights, cfg, ClassificationAIGenerated)
	for n := 0; n < 10; n++ {
		require.Equal(t, first, buildExplanation(fv, weights, cfg, ClassificationAIGenerated))
	}
}

func TestExplanationEqualContributionTieBreak(t *testing.T) {
	cfg := DefaultConfig()
	for _, dim := range Dimensions() {
		cfg.Weights[dim] = 0.125
	}

	// Identical weights and values: canonical dimension order decides
	fv := vectorWith(cfg, map[Dimension]float64{
		DimSpectralDynamics: 0.9,
		DimPitchConsistency: 0.9,
	})

	explanation := buildExplanation(fv, cfg.WeightsFor(LanguageEnglish), cfg, ClassificationAIGenerated)
	assert.Less(t,
		strings.Index(explanation, aiPhrases[DimPitchConsistency]),
		strings.Index(explanation, aiPhrases[DimSpectralDynamics]))
}

func TestJoinPhrases(t *testing.T) {
	assert.Equal(t, "a", joinPhrases([]string{"a"}))
	assert.Equal(t, "a and b", joinPhrases([]string{"a", "b"}))
	assert.Equal(t, "a, b, and c", joinPhrases([]string{"a", "b", "c"}))
}
