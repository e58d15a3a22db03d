package detect

import (
	"context"
	"errors"
	"fmt"
)

// The error taxonomy surfaced by the engine. All four are typed so callers
// can map them to structured responses with errors.As; none of them is ever
// downgraded to a guessed classification.

// InsufficientAudioError reports a buffer shorter than the minimum
// analyzable duration. Not retryable.
type InsufficientAudioError struct {
	Duration    float64 // Seconds of audio supplied
	MinDuration float64 // Seconds required
}

func (e *InsufficientAudioError) Error() string {
	return fmt.Sprintf("insufficient audio: %.3fs supplied, %.2fs required", e.Duration, e.MinDuration)
}

// FeatureExtractionError reports that one acoustic dimension could not be
// computed. The failing dimension is named for diagnosability. Not
// retryable with the same input.
type FeatureExtractionError struct {
	Dimension Dimension
	Reason    string
	Err       error
}

func (e *FeatureExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feature extraction failed for %s: %s: %v", e.Dimension, e.Reason, e.Err)
	}
	return fmt.Sprintf("feature extraction failed for %s: %s", e.Dimension, e.Reason)
}

func (e *FeatureExtractionError) Unwrap() error {
	return e.Err
}

// ScoringError reports an internal invariant violation in the scorer.
// Unreachable given a valid feature vector; treated as fatal by callers.
type ScoringError struct {
	Reason string
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed: %s", e.Reason)
}

// TimeoutError reports that the caller's context ended before the pipeline
// finished, whether by deadline or by cancellation. The stage that observed
// the expiry is recorded; the underlying context error is wrapped so callers
// can still distinguish the two with errors.Is.
type TimeoutError struct {
	Stage string
	Err   error
}

func (e *TimeoutError) Error() string {
	if errors.Is(e.Err, context.Canceled) {
		return fmt.Sprintf("classification canceled during %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("classification timed out during %s: %v", e.Stage, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
