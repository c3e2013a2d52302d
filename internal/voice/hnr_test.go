package voice

import "testing"

func TestEstimateHNRUnvoicedIsZero(t *testing.T) {
	mags := make([]float64, 257)
	if hnr := EstimateHNR(mags, 93.75, 0, 24000); hnr != 0 {
		t.Fatalf("HNR for unvoiced frame = %v, want 0", hnr)
	}
}

// TestEstimateHNRHarmonicSpectrum builds a spectrum with sharp bin-aligned
// peaks at multiples of 1500 Hz (16 bins apart, so the peak and noise
// windows of neighbouring harmonics never overlap) over a faint noise
// floor, and expects a high ratio.
func TestEstimateHNRHarmonicSpectrum(t *testing.T) {
	const binWidth = 93.75
	mags := make([]float64, 257)
	for i := range mags {
		mags[i] = 0.001
	}
	for h := 1; h <= 10; h++ {
		mags[16*h] = 1.0
	}

	hnr := EstimateHNR(mags, binWidth, 1500, 24000)
	if hnr < 30 {
		t.Fatalf("HNR for a clean harmonic spectrum = %v dB, want >= 30", hnr)
	}
	if hnr > 40 {
		t.Fatalf("HNR = %v dB exceeds the 40 dB clamp", hnr)
	}
}

// TestEstimateHNRNoisySpectrum: flat noise with no harmonic structure
// should score low.
func TestEstimateHNRNoisySpectrum(t *testing.T) {
	mags := make([]float64, 257)
	for i := range mags {
		mags[i] = 0.5
	}
	hnr := EstimateHNR(mags, 93.75, 200, 24000)
	if hnr > 5 {
		t.Fatalf("HNR for flat noise = %v dB, want near 0", hnr)
	}
}

func TestEstimateHNRClampedRange(t *testing.T) {
	mags := make([]float64, 257)
	mags[2] = 1e6 // enormous single harmonic, near-zero noise
	for i := range mags {
		if i != 2 {
			mags[i] = 1e-9
		}
	}
	hnr := EstimateHNR(mags, 93.75, 187.5, 24000)
	if hnr < 0 || hnr > 40 {
		t.Fatalf("HNR = %v, want clamped to [0, 40]", hnr)
	}
}
