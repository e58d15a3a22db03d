package temporal

import (
	"math"
)

// PauseDetection finds low-energy gaps between voiced stretches of a signal.
// Breath pauses in natural speech show up as such gaps; their count and
// placement regularity are what the caller analyzes.
type PauseDetection struct {
	envelope *Envelope
	hopSize  int
}

// Pause describes one low-energy run, in samples
type Pause struct {
	StartSample int
	EndSample   int
}

// Duration returns the pause length in seconds
func (p Pause) Duration(sampleRate int) float64 {
	return float64(p.EndSample-p.StartSample) / float64(sampleRate)
}

// Center returns the midpoint of the pause in samples
func (p Pause) Center() int {
	return (p.StartSample + p.EndSample) / 2
}

// NewPauseDetection creates a pause detector on the standard 25 ms / 50%
// overlap analysis grid
func NewPauseDetection(sampleRate int) *PauseDetection {
	frameSize := int(0.025 * float64(sampleRate))
	hopSize := frameSize / 2

	return &PauseDetection{
		envelope: NewEnvelope(frameSize, hopSize),
		hopSize:  hopSize,
	}
}

// DetectPauses returns low-energy runs of at least minPauseDuration seconds.
// The energy threshold adapts to the recording level.
func (pd *PauseDetection) DetectPauses(signal []float64, sampleRate int, minPauseDuration float64) []Pause {
	if len(signal) == 0 {
		return nil
	}

	energies := pd.envelope.ComputeRMS(signal)
	if len(energies) == 0 {
		return nil
	}

	threshold := pd.AdaptiveThreshold(energies)
	minPauseFrames := int(minPauseDuration * float64(sampleRate) / float64(pd.hopSize))
	if minPauseFrames < 1 {
		minPauseFrames = 1
	}

	var pauses []Pause
	currentStart := -1

	for i, energy := range energies {
		silent := energy < threshold
		if silent && currentStart == -1 {
			currentStart = i
		} else if !silent && currentStart != -1 {
			if i-currentStart >= minPauseFrames {
				pauses = append(pauses, Pause{
					StartSample: currentStart * pd.hopSize,
					EndSample:   i * pd.hopSize,
				})
			}
			currentStart = -1
		}
	}

	// Run extending to the end of the signal
	if currentStart != -1 && len(energies)-currentStart >= minPauseFrames {
		pauses = append(pauses, Pause{
			StartSample: currentStart * pd.hopSize,
			EndSample:   len(signal),
		})
	}

	return pauses
}

// SilenceRatio returns the fraction of frames below the adaptive threshold
func (pd *PauseDetection) SilenceRatio(signal []float64) float64 {
	energies := pd.envelope.ComputeRMS(signal)
	if len(energies) == 0 {
		return 0.0
	}

	threshold := pd.AdaptiveThreshold(energies)

	silentFrames := 0
	for _, energy := range energies {
		if energy < threshold {
			silentFrames++
		}
	}

	return float64(silentFrames) / float64(len(energies))
}

// AdaptiveThreshold derives an energy threshold from the frame energies
// themselves so quiet recordings are not treated as all-silence
func (pd *PauseDetection) AdaptiveThreshold(energies []float64) float64 {
	if len(energies) == 0 {
		return 0.0
	}

	mean := 0.0
	peak := 0.0
	for _, energy := range energies {
		mean += energy
		if energy > peak {
			peak = energy
		}
	}
	mean /= float64(len(energies))

	// A tenth of the mean, floored against numerical silence. Recordings
	// with a hard noise floor still need the peak term to find gaps.
	threshold := mean * 0.1
	if floor := peak * 0.02; threshold < floor {
		threshold = floor
	}

	return math.Max(threshold, 1e-6)
}
