package detect

import (
	"fmt"
	"math"
)

// Config is the immutable parameter set for one engine instance: analysis
// grid, dimension weights, trigger thresholds, and per-language overrides.
// It is constructed once and injected, never mutated, so concurrent
// classifications need no synchronization.
type Config struct {
	// Analysis grid
	WindowSize int `json:"window_size"` // STFT / pitch frame length in samples
	HopSize    int `json:"hop_size"`    // Hop between frames in samples

	MFCCCoefficients int     `json:"mfcc_coefficients"`
	MinPauseDuration float64 `json:"min_pause_duration"` // Seconds; shorter gaps are not breath pauses

	// Weights over the eight dimensions; must sum to 1
	Weights map[Dimension]float64 `json:"weights"`

	// Trigger thresholds for the per-dimension flags. A value at or above
	// AITrigger pushed toward AI_GENERATED; at or below HumanTrigger it
	// pushed toward HUMAN.
	AITrigger    float64 `json:"ai_trigger"`
	HumanTrigger float64 `json:"human_trigger"`

	// Threshold is the default decision boundary on the combined score
	Threshold float64 `json:"threshold"`

	// Overrides adjusts threshold/weights per declared language
	Overrides map[Language]LanguageOverride `json:"overrides,omitempty"`
}

// DefaultConfig returns the calibrated defaults. The weights follow the
// empirically tuned distribution: pitch stability carries the most signal
// for current TTS systems, spectral flatness the least (clean tonal audio
// is legitimately non-flat, so flatness alone must not dominate).
func DefaultConfig() *Config {
	tamilThreshold := 0.55
	teluguThreshold := 0.54
	malayalamThreshold := 0.54
	hindiThreshold := 0.52
	bengaliThreshold := 0.52

	return &Config{
		WindowSize:       1024,
		HopSize:          256,
		MFCCCoefficients: 13,
		MinPauseDuration: 0.15,
		Weights: map[Dimension]float64{
			DimPitchConsistency:  0.20,
			DimSpectralFlatness:  0.04,
			DimHarmonicStructure: 0.10,
			DimBreathPatterns:    0.12,
			DimMicroVariations:   0.14,
			DimMFCCPatterns:      0.15,
			DimProsodicFeatures:  0.16,
			DimSpectralDynamics:  0.09,
		},
		AITrigger:    0.65,
		HumanTrigger: 0.35,
		Threshold:    0.5,
		Overrides: map[Language]LanguageOverride{
			// Dravidian languages carry denser syllable rhythm; raise the
			// boundary so their natural regularity is not read as synthetic
			LanguageTamil:     {Threshold: &tamilThreshold},
			LanguageTelugu:    {Threshold: &teluguThreshold},
			LanguageMalayalam: {Threshold: &malayalamThreshold},
			LanguageHindi: {
				Threshold: &hindiThreshold,
				Weights: map[Dimension]float64{
					DimProsodicFeatures: 0.14,
					DimBreathPatterns:   0.14,
				},
			},
			LanguageBengali: {Threshold: &bengaliThreshold},
		},
	}
}

// Validate checks the structural invariants the scorer depends on
func (c *Config) Validate() error {
	if c.WindowSize <= 0 || c.HopSize <= 0 {
		return fmt.Errorf("window size and hop size must be positive")
	}

	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("threshold must be in (0, 1), got %v", c.Threshold)
	}

	if c.HumanTrigger >= c.AITrigger {
		return fmt.Errorf("human trigger (%v) must be below AI trigger (%v)", c.HumanTrigger, c.AITrigger)
	}

	sum := 0.0
	for _, dim := range Dimensions() {
		weight, ok := c.Weights[dim]
		if !ok {
			return fmt.Errorf("missing weight for dimension %s", dim)
		}
		if weight < 0 {
			return fmt.Errorf("negative weight for dimension %s", dim)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}

	for lang, override := range c.Overrides {
		if !lang.Valid() {
			return fmt.Errorf("override for unsupported language %q", lang)
		}
		if override.Threshold != nil && (*override.Threshold <= 0 || *override.Threshold >= 1) {
			return fmt.Errorf("override threshold for %s must be in (0, 1)", lang)
		}
		for dim := range override.Weights {
			if _, ok := c.Weights[dim]; !ok {
				return fmt.Errorf("override for %s names unknown dimension %s", lang, dim)
			}
		}
	}

	return nil
}

// ThresholdFor returns the decision threshold effective for a language
func (c *Config) ThresholdFor(lang Language) float64 {
	if override, ok := c.Overrides[lang]; ok && override.Threshold != nil {
		return *override.Threshold
	}
	return c.Threshold
}

// WeightsFor returns the effective weight set for a language: defaults with
// the language's overrides applied, renormalized to sum to 1
func (c *Config) WeightsFor(lang Language) map[Dimension]float64 {
	merged := make(map[Dimension]float64, len(c.Weights))
	for dim, weight := range c.Weights {
		merged[dim] = weight
	}

	override, ok := c.Overrides[lang]
	if !ok || len(override.Weights) == 0 {
		return merged
	}

	for dim, weight := range override.Weights {
		merged[dim] = weight
	}

	// Summation and division follow the canonical dimension order; map
	// iteration order must not leak into the renormalized weights, or
	// repeated scoring of the same input stops being bit-identical
	sum := 0.0
	for _, dim := range Dimensions() {
		sum += merged[dim]
	}
	if sum > 0 {
		for _, dim := range Dimensions() {
			merged[dim] /= sum
		}
	}

	return merged
}
