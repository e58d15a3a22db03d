package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMFCCCoefficientCount(t *testing.T) {
	mfcc := NewMFCC(22050, 13)
	assert.Equal(t, 13, mfcc.NumCoefficients())

	// Non-positive count falls back to the standard 13
	assert.Equal(t, 13, NewMFCC(22050, 0).NumCoefficients())
	assert.Equal(t, 13, NewMFCC(22050, -5).NumCoefficients())

	spectrum := make([]float64, 513)
	for i := range spectrum {
		spectrum[i] = math.Exp(-float64(i) / 50.0)
	}

	coeffs, err := mfcc.Compute(spectrum)
	require.NoError(t, err)
	assert.Len(t, coeffs, 13)
}

func TestMFCCEmptySpectrum(t *testing.T) {
	mfcc := NewMFCC(22050, 13)

	_, err := mfcc.Compute(nil)
	assert.Error(t, err)
}

func TestMFCCDistinguishesSpectra(t *testing.T) {
	mfcc := NewMFCC(22050, 13)

	tonal := make([]float64, 513)
	flat := make([]float64, 513)
	for i := range tonal {
		tonal[i] = math.Exp(-float64(i) / 20.0)
		flat[i] = 1.0
	}

	tonalCoeffs, err := mfcc.Compute(tonal)
	require.NoError(t, err)
	flatCoeffs, err := mfcc.Compute(flat)
	require.NoError(t, err)

	// Shapes this different must not collapse to the same cepstrum
	different := false
	for i := range tonalCoeffs {
		if math.Abs(tonalCoeffs[i]-flatCoeffs[i]) > 1e-6 {
			different = true
			break
		}
	}
	assert.True(t, different)
}

func TestMFCCFloorsNegligibleBands(t *testing.T) {
	mfcc := NewMFCC(22050, 13)

	// Two spectra identical except for residue far below the dynamic-range
	// floor. The residue must not reach the cepstrum: without the relative
	// floor its log-domain wobble dominates quiet bands and fakes timbral
	// movement on clean tonal signals.
	a := make([]float64, 513)
	b := make([]float64, 513)
	for i := range a {
		a[i] = 1e-7
		b[i] = 3e-7
	}
	a[10] = 100.0
	b[10] = 100.0

	coeffsA, err := mfcc.Compute(a)
	require.NoError(t, err)
	coeffsB, err := mfcc.Compute(b)
	require.NoError(t, err)

	for i := range coeffsA {
		assert.InDelta(t, coeffsA[i], coeffsB[i], 1e-9, "coefficient %d", i)
	}
}

func TestMFCCComputeFrames(t *testing.T) {
	mfcc := NewMFCC(22050, 13)

	spectrogram := make([][]float64, 5)
	for ti := range spectrogram {
		spectrogram[ti] = make([]float64, 513)
		for f := range spectrogram[ti] {
			spectrogram[ti][f] = 1.0 / (1.0 + float64(f+ti))
		}
	}

	frames, err := mfcc.ComputeFrames(spectrogram)
	require.NoError(t, err)
	require.Len(t, frames, 5)
	for _, frame := range frames {
		assert.Len(t, frame, 13)
	}

	empty, err := mfcc.ComputeFrames(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMFCCInitializeInvalidSize(t *testing.T) {
	mfcc := NewMFCC(22050, 13)
	assert.Error(t, mfcc.Initialize(0))
	assert.NoError(t, mfcc.Initialize(1024))
}
