package detect

import (
	"context"
	"fmt"

	"github.com/sonavero/voicecheck/logging"
)

// Classifier is the engine's single entry point: decoded buffer in,
// scoring result out. One instance is safe for concurrent use; the only
// shared data is the read-only configuration.
type Classifier struct {
	cfg       *Config
	extractor *Extractor
	scorer    *Scorer
	logger    logging.Logger
}

// NewClassifier builds a classifier over the given configuration. A nil
// config selects the calibrated defaults.
func NewClassifier(cfg *Config) (*Classifier, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier config: %w", err)
	}

	return &Classifier{
		cfg:       cfg,
		extractor: NewExtractor(cfg),
		scorer:    NewScorer(cfg),
		logger: logging.WithFields(logging.Fields{
			"component": "classifier",
		}),
	}, nil
}

// Classify runs the full pipeline for one request: extract the eight
// dimensions, score them under the declared language, and attach the
// explanation. The context's deadline is honored at stage boundaries; the
// pipeline has no internal suspension points and is never retried (the same
// input deterministically reproduces the same outcome).
func (c *Classifier) Classify(ctx context.Context, buf *AudioBuffer, lang Language) (*ScoringResult, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	if err := checkDeadline(ctx, "feature extraction"); err != nil {
		return nil, err
	}

	fv, err := c.extractor.Extract(buf)
	if err != nil {
		return nil, err
	}

	if err := checkDeadline(ctx, "scoring"); err != nil {
		return nil, err
	}

	result, err := c.scorer.Score(fv, lang)
	if err != nil {
		return nil, err
	}

	result.Explanation = buildExplanation(fv, c.cfg.WeightsFor(lang), c.cfg, result.Classification)

	c.logger.Debug("classification complete", logging.Fields{
		"language":       lang,
		"classification": result.Classification,
		"score":          result.Score,
		"confidence":     result.Confidence,
	})

	return result, nil
}

// ClassifyFeatures scores an already extracted feature vector. Exposed for
// calibration tooling that sweeps weight sets over stored vectors.
func (c *Classifier) ClassifyFeatures(fv *FeatureVector, lang Language) (*ScoringResult, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	result, err := c.scorer.Score(fv, lang)
	if err != nil {
		return nil, err
	}

	result.Explanation = buildExplanation(fv, c.cfg.WeightsFor(lang), c.cfg, result.Classification)
	return result, nil
}

func checkDeadline(ctx context.Context, stage string) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &TimeoutError{
			Stage: stage,
			Err:   err,
		}
	}
	return nil
}
