package detect

// Dimension names one of the eight acoustic descriptors the engine computes
type Dimension string

const (
	DimPitchConsistency  Dimension = "pitch_consistency"
	DimSpectralFlatness  Dimension = "spectral_flatness"
	DimHarmonicStructure Dimension = "harmonic_structure"
	DimBreathPatterns    Dimension = "breath_patterns"
	DimMicroVariations   Dimension = "micro_variations"
	DimMFCCPatterns      Dimension = "mfcc_patterns"
	DimProsodicFeatures  Dimension = "prosodic_features"
	DimSpectralDynamics  Dimension = "spectral_dynamics"
)

// Dimensions returns all eight dimensions in their canonical order. The
// order matters: explanation ranking uses it as a deterministic tie-break.
func Dimensions() []Dimension {
	return []Dimension{
		DimPitchConsistency,
		DimSpectralFlatness,
		DimHarmonicStructure,
		DimBreathPatterns,
		DimMicroVariations,
		DimMFCCPatterns,
		DimProsodicFeatures,
		DimSpectralDynamics,
	}
}

// DimensionScore is one dimension's normalized result. Value is in [0, 1]
// and oriented so that larger means more AI-like. Triggered records whether
// the value crossed the fixed AI-side trigger threshold.
type DimensionScore struct {
	Value     float64 `json:"value"`
	Triggered bool    `json:"triggered"`
}

// RawStats keeps the intermediate statistics behind the normalized values,
// for diagnostics and explanation detail
type RawStats struct {
	PitchMeanHz       float64 `json:"pitch_mean_hz"`
	PitchCV           float64 `json:"pitch_cv"`
	VoicedRatio       float64 `json:"voiced_ratio"`
	MeanFlatness      float64 `json:"mean_flatness"`
	HarmonicRatio     float64 `json:"harmonic_ratio"`
	PauseCount        int     `json:"pause_count"`
	PauseRate         float64 `json:"pause_rate"`   // Pauses per second
	PauseGapCV        float64 `json:"pause_gap_cv"` // Regularity of pause spacing
	Jitter            float64 `json:"jitter"`       // Relative F0 perturbation
	Shimmer           float64 `json:"shimmer"`      // Relative amplitude perturbation
	MFCCVariability   float64 `json:"mfcc_variability"`
	MFCCDeltaActivity float64 `json:"mfcc_delta_activity"`
	EnergyCV          float64 `json:"energy_cv"`
	ZCRCV             float64 `json:"zcr_cv"`
	MeanFlux          float64 `json:"mean_flux"`
}

// FeatureVector is the complete, immutable descriptor set for one buffer.
// Every one of the eight dimension keys is always present and finite; an
// extraction failure surfaces as an error before a vector exists.
type FeatureVector struct {
	Scores map[Dimension]DimensionScore `json:"scores"`
	Stats  RawStats                     `json:"stats"`
}

// Score returns the entry for a dimension
func (fv *FeatureVector) Score(dim Dimension) DimensionScore {
	return fv.Scores[dim]
}
