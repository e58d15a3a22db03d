package detect

import (
	"math"

	"github.com/sonavero/voicecheck/algorithms/common"
)

// Classification is the binary label the engine produces
type Classification string

const (
	ClassificationAIGenerated Classification = "AI_GENERATED"
	ClassificationHuman       Classification = "HUMAN"
)

// ScoringResult is the terminal artifact of one classification
type ScoringResult struct {
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence_score"` // Normalized distance from the decision boundary, [0, 1]
	Score          float64        `json:"score"`            // Combined AI-likeness score, [0, 1]
	Threshold      float64        `json:"threshold"`        // Decision boundary effective for the language
	Language       Language       `json:"language"`
	Explanation    string         `json:"explanation"`
}

// Scorer combines the eight dimension values into a score and label using
// the injected configuration. Stateless and safe for concurrent use.
type Scorer struct {
	cfg *Config
}

// NewScorer creates a scorer over the given configuration
func NewScorer(cfg *Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the weighted combination and the decision for one feature
// vector under one language profile. A tie at the threshold resolves to
// AI_GENERATED; arbitrary, but deterministic and documented.
func (s *Scorer) Score(fv *FeatureVector, lang Language) (*ScoringResult, error) {
	if fv == nil || len(fv.Scores) == 0 {
		return nil, &ScoringError{Reason: "empty feature vector"}
	}

	weights := s.cfg.WeightsFor(lang)
	threshold := s.cfg.ThresholdFor(lang)

	score := 0.0
	for _, dim := range Dimensions() {
		entry, ok := fv.Scores[dim]
		if !ok {
			return nil, &ScoringError{Reason: "feature vector missing dimension " + string(dim)}
		}
		score += weights[dim] * entry.Value
	}

	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, &ScoringError{Reason: "combined score is not finite"}
	}
	score = common.Clamp(score, 0, 1)

	classification := ClassificationHuman
	if score >= threshold {
		classification = ClassificationAIGenerated
	}

	// Confidence is the distance from the boundary normalized by the larger
	// side of it, so a score at either extreme maps to 1 regardless of
	// where the threshold sits
	denominator := math.Max(threshold, 1.0-threshold)
	confidence := common.Clamp(math.Abs(score-threshold)/denominator, 0, 1)

	return &ScoringResult{
		Classification: classification,
		Confidence:     confidence,
		Score:          score,
		Threshold:      threshold,
		Language:       lang,
	}, nil
}
