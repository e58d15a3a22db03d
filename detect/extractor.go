package detect

import (
	"math"

	"github.com/sonavero/voicecheck/algorithms/common"
	"github.com/sonavero/voicecheck/algorithms/spectral"
	"github.com/sonavero/voicecheck/algorithms/temporal"
	"github.com/sonavero/voicecheck/algorithms/tonal"
	"github.com/sonavero/voicecheck/algorithms/windowing"
	"github.com/sonavero/voicecheck/logging"
)

// Normalization references mapping raw statistics onto the [0, 1] AI-like
// scale. Calibration constants, not correctness contracts: each one is the
// raw value at which a dimension saturates toward fully human-like.
const (
	pitchCVRef    = 0.40 // F0 coefficient of variation of expressive speech
	flatnessRef   = 0.50 // Mean flatness of a noise-dominated spectrum
	harmonicFloor = 0.55 // Harmonic ratio at the top of the natural breathy range
	harmonicCeil  = 0.95 // Harmonic ratio of a fully clean periodic signal
	pauseRateRef  = 0.80 // Breath pauses per second in relaxed speech
	pauseGapCVRef = 0.60 // Spacing irregularity of organic pauses
	jitterRef     = 0.02 // Relative F0 perturbation of a natural voice
	shimmerRef    = 0.10 // Relative amplitude perturbation of a natural voice
	mfccVarRef    = 1.50 // Per-coefficient trajectory deviation of lively timbre
	mfccDeltaRef  = 0.50 // Frame-to-frame MFCC movement of lively timbre
	energyCVRef   = 0.60 // Energy envelope variation of dynamic delivery
	zcrCVRef      = 0.60 // Articulation variation of dynamic delivery
	fluxRef       = 0.60 // Mean normalized flux of an evolving spectrum
)

// minVoicedFrames is the least voiced-frame count from which pitch variance
// and perturbation statistics are meaningful. Below it those dimensions
// report a neutral value instead of failing: a mostly unvoiced buffer
// (noise, whisper) is a legitimate input.
const minVoicedFrames = 3

// activeFrameFloor gates envelope statistics to frames carrying signal, as
// a fraction of the peak frame RMS
const activeFrameFloor = 0.02

// Extractor turns an AudioBuffer into the eight-dimension FeatureVector.
// Pure: no state survives between calls, so one instance serves concurrent
// requests.
type Extractor struct {
	cfg *Config

	stft        *spectral.STFT
	window      *windowing.Hann
	flatness    *spectral.SpectralFlatness
	flux        *spectral.SpectralFlux
	pitch       *tonal.PitchTracker
	harmonicity *tonal.HarmonicityAnalyzer
	pauses      *temporal.PauseDetection
	envelope    *temporal.Envelope

	logger logging.Logger
}

// NewExtractor creates an extractor for the given configuration
func NewExtractor(cfg *Config) *Extractor {
	return &Extractor{
		cfg:         cfg,
		stft:        spectral.NewSTFT(),
		window:      windowing.NewHann(cfg.WindowSize, false),
		flatness:    spectral.NewSpectralFlatness(),
		flux:        spectral.NewSpectralFlux(),
		pitch:       tonal.NewPitchTracker(SampleRate),
		harmonicity: tonal.NewHarmonicityAnalyzer(SampleRate),
		pauses:      temporal.NewPauseDetection(SampleRate),
		envelope:    temporal.NewEnvelope(cfg.WindowSize, cfg.HopSize),
		logger: logging.WithFields(logging.Fields{
			"component": "extractor",
		}),
	}
}

// intermediates are the shared per-request products every dimension
// analyzer reads from. Computed once per buffer.
type intermediates struct {
	magnitude   [][]float64
	contour     []tonal.PitchFrame
	voicedFreqs []float64
	voicedRatio float64
	rms         []float64
	activeRMS   []float64
	activeZCR   []float64
	pauses      []temporal.Pause
	duration    float64
}

// Extract computes the full feature vector for one buffer
func (e *Extractor) Extract(buf *AudioBuffer) (*FeatureVector, error) {
	if buf == nil || buf.Duration() < MinDuration {
		duration := 0.0
		if buf != nil {
			duration = buf.Duration()
		}
		return nil, &InsufficientAudioError{
			Duration:    duration,
			MinDuration: MinDuration,
		}
	}

	inter, err := e.computeIntermediates(buf)
	if err != nil {
		return nil, err
	}

	fv := &FeatureVector{
		Scores: make(map[Dimension]DimensionScore, 8),
	}

	fv.Scores[DimPitchConsistency] = e.analyzePitchConsistency(inter, &fv.Stats)
	fv.Scores[DimSpectralFlatness] = e.analyzeSpectralFlatness(inter, &fv.Stats)
	fv.Scores[DimHarmonicStructure] = e.analyzeHarmonicStructure(buf, &fv.Stats)
	fv.Scores[DimBreathPatterns] = e.analyzeBreathPatterns(inter, &fv.Stats)
	fv.Scores[DimMicroVariations] = e.analyzeMicroVariations(inter, &fv.Stats)

	mfccScore, err := e.analyzeMFCCPatterns(inter, &fv.Stats)
	if err != nil {
		return nil, err
	}
	fv.Scores[DimMFCCPatterns] = mfccScore

	fv.Scores[DimProsodicFeatures] = e.analyzeProsodicFeatures(inter, &fv.Stats)
	fv.Scores[DimSpectralDynamics] = e.analyzeSpectralDynamics(inter, &fv.Stats)

	for _, dim := range Dimensions() {
		value := fv.Scores[dim].Value
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &FeatureExtractionError{
				Dimension: dim,
				Reason:    "computed value is not finite",
			}
		}
	}

	e.logger.Debug("feature vector extracted", logging.Fields{
		"duration":     inter.duration,
		"voiced_ratio": inter.voicedRatio,
		"pause_count":  len(inter.pauses),
	})

	return fv, nil
}

func (e *Extractor) computeIntermediates(buf *AudioBuffer) (*intermediates, error) {
	samples := buf.Samples()

	stftResult, err := e.stft.ComputeWithWindow(samples, e.cfg.WindowSize, e.cfg.HopSize, SampleRate, e.window)
	if err != nil {
		return nil, &FeatureExtractionError{
			Dimension: DimSpectralFlatness,
			Reason:    "short-time spectrum could not be computed",
			Err:       err,
		}
	}

	// Spectral dynamics and MFCC texture need at least one frame transition
	if stftResult.TimeFrames < 2 {
		return nil, &FeatureExtractionError{
			Dimension: DimSpectralDynamics,
			Reason:    "buffer yields fewer than two analysis frames",
		}
	}

	contour, err := e.pitch.TrackContour(samples, e.cfg.WindowSize, e.cfg.HopSize)
	if err != nil {
		return nil, &FeatureExtractionError{
			Dimension: DimPitchConsistency,
			Reason:    "pitch contour could not be computed",
			Err:       err,
		}
	}

	voicedFreqs := make([]float64, 0, len(contour))
	for _, frame := range contour {
		if frame.Voiced {
			voicedFreqs = append(voicedFreqs, frame.Frequency)
		}
	}

	rms := e.envelope.ComputeRMS(samples)
	zcr := e.envelope.ComputeZCR(samples)

	// Gate envelope statistics to frames that carry signal; silence frames
	// belong to the pause analysis instead
	peak := 0.0
	for _, energy := range rms {
		if energy > peak {
			peak = energy
		}
	}
	floor := peak * activeFrameFloor

	activeRMS := make([]float64, 0, len(rms))
	activeZCR := make([]float64, 0, len(zcr))
	for i, energy := range rms {
		if energy > floor {
			activeRMS = append(activeRMS, energy)
			if i < len(zcr) {
				activeZCR = append(activeZCR, zcr[i])
			}
		}
	}

	return &intermediates{
		magnitude:   stftResult.Magnitude,
		contour:     contour,
		voicedFreqs: voicedFreqs,
		voicedRatio: float64(len(voicedFreqs)) / float64(len(contour)),
		rms:         rms,
		activeRMS:   activeRMS,
		activeZCR:   activeZCR,
		pauses:      e.pauses.DetectPauses(samples, SampleRate, e.cfg.MinPauseDuration),
		duration:    buf.Duration(),
	}, nil
}

// score wraps a normalized value with its trigger flag
func (e *Extractor) score(value float64) DimensionScore {
	return DimensionScore{
		Value:     value,
		Triggered: value >= e.cfg.AITrigger,
	}
}

// neutralScore is used when a dimension's statistic is undefined for the
// input (e.g. no voiced frames); it pushes toward neither label
func neutralScore() DimensionScore {
	return DimensionScore{Value: 0.5, Triggered: false}
}

// analyzePitchConsistency scores the variance of the voiced F0 contour.
// Synthetic speech tends toward unnaturally stable pitch, so a low
// coefficient of variation reads AI-like.
func (e *Extractor) analyzePitchConsistency(inter *intermediates, stats *RawStats) DimensionScore {
	stats.VoicedRatio = inter.voicedRatio

	if len(inter.voicedFreqs) < minVoicedFrames {
		return neutralScore()
	}

	cv := common.CoefficientOfVariation(inter.voicedFreqs)
	stats.PitchMeanHz = common.Mean(inter.voicedFreqs)
	stats.PitchCV = cv

	return e.score(1.0 - common.Clamp(cv/pitchCVRef, 0, 1))
}

// analyzeSpectralFlatness scores the mean noise-likeness of the spectrum.
// A persistent flat floor reads robotic.
func (e *Extractor) analyzeSpectralFlatness(inter *intermediates, stats *RawStats) DimensionScore {
	frames := e.flatness.ComputeFrames(inter.magnitude)
	mean := common.Mean(frames)
	stats.MeanFlatness = mean

	return e.score(common.Clamp(mean/flatnessRef, 0, 1))
}

// analyzeHarmonicStructure scores how cleanly the signal's energy stacks
// into a periodic component. Unnaturally clean harmonic layering reads
// AI-like; a harmonic-noise mix reads natural.
func (e *Extractor) analyzeHarmonicStructure(buf *AudioBuffer, stats *RawStats) DimensionScore {
	results := e.harmonicity.AnalyzeFrames(buf.Samples(), e.cfg.WindowSize, e.cfg.HopSize)

	ratios := make([]float64, 0, len(results))
	for _, result := range results {
		if result.F0 > 0 {
			ratios = append(ratios, result.HarmonicRatio)
		}
	}

	if len(ratios) == 0 {
		stats.HarmonicRatio = 0
		return e.score(0.0)
	}

	ratio := common.Mean(ratios)
	stats.HarmonicRatio = ratio

	return e.score(common.Clamp((ratio-harmonicFloor)/(harmonicCeil-harmonicFloor), 0, 1))
}

// analyzeBreathPatterns scores the count and regularity of low-energy gaps.
// Natural speech pauses to breathe, irregularly; absent or mechanically
// spaced pauses read AI-like.
func (e *Extractor) analyzeBreathPatterns(inter *intermediates, stats *RawStats) DimensionScore {
	stats.PauseCount = len(inter.pauses)

	// Breath placement is only defined for speech-like input; a mostly
	// unvoiced buffer with no pauses is not "speaking without breathing"
	if len(inter.voicedFreqs) < minVoicedFrames {
		return neutralScore()
	}

	if len(inter.pauses) == 0 {
		return e.score(1.0)
	}

	rate := float64(len(inter.pauses)) / inter.duration
	stats.PauseRate = rate
	rateComponent := 1.0 - common.Clamp(rate/pauseRateRef, 0, 1)

	if len(inter.pauses) < 3 {
		// Too few gaps to judge spacing regularity
		return e.score(0.5*rateComponent + 0.25)
	}

	gaps := make([]float64, 0, len(inter.pauses)-1)
	for i := 1; i < len(inter.pauses); i++ {
		gaps = append(gaps, float64(inter.pauses[i].Center()-inter.pauses[i-1].Center())/float64(SampleRate))
	}
	gapCV := common.CoefficientOfVariation(gaps)
	stats.PauseGapCV = gapCV

	regularityComponent := 1.0 - common.Clamp(gapCV/pauseGapCVRef, 0, 1)

	return e.score(0.5*rateComponent + 0.5*regularityComponent)
}

// analyzeMicroVariations scores jitter (cycle-scale pitch perturbation) and
// shimmer (amplitude perturbation). A natural larynx never repeats itself
// exactly; low perturbation reads AI-like.
func (e *Extractor) analyzeMicroVariations(inter *intermediates, stats *RawStats) DimensionScore {
	if len(inter.voicedFreqs) < minVoicedFrames {
		return neutralScore()
	}

	jitter := common.RelativePerturbation(inter.voicedFreqs)
	shimmer := common.RelativePerturbation(inter.activeRMS)
	stats.Jitter = jitter
	stats.Shimmer = shimmer

	perturbation := 0.5*common.Clamp(jitter/jitterRef, 0, 1) + 0.5*common.Clamp(shimmer/shimmerRef, 0, 1)

	return e.score(1.0 - perturbation)
}

// analyzeMFCCPatterns scores the texture of the timbral trajectories.
// Unusually smooth coefficient movement over time reads AI-like.
func (e *Extractor) analyzeMFCCPatterns(inter *intermediates, stats *RawStats) (DimensionScore, error) {
	mfcc := spectral.NewMFCC(SampleRate, e.cfg.MFCCCoefficients)

	frames, err := mfcc.ComputeFrames(inter.magnitude)
	if err != nil {
		return DimensionScore{}, &FeatureExtractionError{
			Dimension: DimMFCCPatterns,
			Reason:    "cepstral coefficients could not be computed",
			Err:       err,
		}
	}
	if len(frames) < 2 {
		return DimensionScore{}, &FeatureExtractionError{
			Dimension: DimMFCCPatterns,
			Reason:    "buffer yields fewer than two cepstral frames",
		}
	}

	numCoeffs := mfcc.NumCoefficients()

	// Per-coefficient trajectory deviation and frame-to-frame movement,
	// skipping C0 which tracks loudness rather than timbre
	variabilitySum := 0.0
	deltaSum := 0.0
	deltaCount := 0

	for c := 1; c < numCoeffs; c++ {
		trajectory := make([]float64, len(frames))
		for t, frame := range frames {
			trajectory[t] = frame[c]
		}

		variabilitySum += common.StandardDeviation(trajectory)

		for _, delta := range common.AbsDeltas(trajectory) {
			deltaSum += delta
			deltaCount++
		}
	}

	variability := variabilitySum / float64(numCoeffs-1)
	deltaActivity := 0.0
	if deltaCount > 0 {
		deltaActivity = deltaSum / float64(deltaCount)
	}

	stats.MFCCVariability = variability
	stats.MFCCDeltaActivity = deltaActivity

	smoothness := 1.0 - common.Clamp(
		0.6*variability/mfccVarRef+0.4*deltaActivity/mfccDeltaRef, 0, 1)

	return e.score(smoothness), nil
}

// analyzeProsodicFeatures scores rhythm and stress variability from the
// energy envelope and articulation rate. Flat delivery reads AI-like.
func (e *Extractor) analyzeProsodicFeatures(inter *intermediates, stats *RawStats) DimensionScore {
	// Rhythm and stress presuppose speech; steady non-speech energy must
	// not read as flat delivery
	if len(inter.voicedFreqs) < minVoicedFrames || len(inter.activeRMS) < 2 {
		return neutralScore()
	}

	energyCV := common.CoefficientOfVariation(inter.activeRMS)
	zcrCV := common.CoefficientOfVariation(inter.activeZCR)
	stats.EnergyCV = energyCV
	stats.ZCRCV = zcrCV

	flatDelivery := 1.0 - common.Clamp(
		0.7*energyCV/energyCVRef+0.3*zcrCV/zcrCVRef, 0, 1)

	return e.score(flatDelivery)
}

// analyzeSpectralDynamics scores how much the spectral envelope evolves
// between frames. Insufficient movement reads AI-like.
func (e *Extractor) analyzeSpectralDynamics(inter *intermediates, stats *RawStats) DimensionScore {
	fluxValues := e.flux.ComputeNormalized(inter.magnitude)
	mean := common.Mean(fluxValues)
	stats.MeanFlux = mean

	return e.score(1.0 - common.Clamp(mean/fluxRef, 0, 1))
}
