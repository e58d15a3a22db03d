package detect

import (
	"sort"
	"strings"
)

// Phrase tables for the explanation builder, one entry per dimension and
// label direction. Fixed text keeps explanations deterministic.
var aiPhrases = map[Dimension]string{
	DimPitchConsistency:  "unnaturally stable pitch",
	DimSpectralFlatness:  "a flat, noise-like spectral floor",
	DimHarmonicStructure: "unnaturally clean harmonic layering",
	DimBreathPatterns:    "absent or mechanically regular breathing pauses",
	DimMicroVariations:   "missing vocal micro-variations",
	DimMFCCPatterns:      "unusually smooth timbral trajectories",
	DimProsodicFeatures:  "flat, monotonous prosody",
	DimSpectralDynamics:  "static spectral dynamics",
}

var humanPhrases = map[Dimension]string{
	DimPitchConsistency:  "natural pitch movement",
	DimSpectralFlatness:  "a tonal, voice-like spectrum",
	DimHarmonicStructure: "a natural harmonic-noise balance",
	DimBreathPatterns:    "organically placed breathing pauses",
	DimMicroVariations:   "natural vocal micro-variations",
	DimMFCCPatterns:      "rich timbral variation",
	DimProsodicFeatures:  "lively rhythm and stress variation",
	DimSpectralDynamics:  "dynamic spectral evolution",
}

const (
	maxExplainedDimensions = 3

	// Rendered when no dimension crossed its trigger in the direction of
	// the final label; specifics would be fabricated
	inconclusiveExplanation = "No single characteristic stands out; the signal sits close to the decision boundary."
)

// buildExplanation renders a short justification naming only dimensions
// whose trigger direction agrees with the final label, ranked by their
// weighted contribution toward it. Deterministic for a given vector, weight
// set, and label.
func buildExplanation(fv *FeatureVector, weights map[Dimension]float64, cfg *Config, label Classification) string {
	type contribution struct {
		dim    Dimension
		amount float64
		order  int
	}

	var selected []contribution

	for order, dim := range Dimensions() {
		entry := fv.Scores[dim]

		switch label {
		case ClassificationAIGenerated:
			if entry.Triggered {
				selected = append(selected, contribution{
					dim:    dim,
					amount: weights[dim] * entry.Value,
					order:  order,
				})
			}
		case ClassificationHuman:
			if entry.Value <= cfg.HumanTrigger {
				selected = append(selected, contribution{
					dim:    dim,
					amount: weights[dim] * (1.0 - entry.Value),
					order:  order,
				})
			}
		}
	}

	if len(selected) == 0 {
		return inconclusiveExplanation
	}

	sort.Slice(selected, func(i, j int) bool {
		if selected[i].amount != selected[j].amount {
			return selected[i].amount > selected[j].amount
		}
		return selected[i].order < selected[j].order
	})

	if len(selected) > maxExplainedDimensions {
		selected = selected[:maxExplainedDimensions]
	}

	phrases := aiPhrases
	if label == ClassificationHuman {
		phrases = humanPhrases
	}

	parts := make([]string, len(selected))
	for i, contribution := range selected {
		parts[i] = phrases[contribution.dim]
	}

	return "Detected " + joinPhrases(parts) + "."
}

// joinPhrases renders a natural-language list: "a", "a and b",
// "a, b, and c"
func joinPhrases(parts []string) string {
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}
