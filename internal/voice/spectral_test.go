package voice

import (
	"math"
	"testing"
)

func TestSpectralFeaturesSilence(t *testing.T) {
	frame := make([]float64, 512)
	mags := make([]float64, 257)

	f := ExtractSpectralFeatures(frame, mags, 93.75)
	if f.Centroid != 0 {
		t.Errorf("centroid of silence = %v, want 0", f.Centroid)
	}
	if f.Rolloff != 0 {
		t.Errorf("rolloff of silence = %v, want 0", f.Rolloff)
	}
	if f.ZCR != 0 {
		t.Errorf("zcr of silence = %v, want 0", f.ZCR)
	}
	if f.LowEnergy != 0 || f.MidEnergy != 0 || f.HighEnergy != 0 {
		t.Errorf("band energies of silence = %v/%v/%v, want all 0",
			f.LowEnergy, f.MidEnergy, f.HighEnergy)
	}
}

// TestSpectralFeaturesSinglePeak: all energy in one bin pins the centroid
// and rolloff to that bin's frequency and routes the energy to one band.
func TestSpectralFeaturesSinglePeak(t *testing.T) {
	const binWidth = 93.75
	mags := make([]float64, 257)
	mags[10] = 2.0 // 937.5 Hz, mid band

	f := ExtractSpectralFeatures(make([]float64, 512), mags, binWidth)
	want := 10 * binWidth
	if math.Abs(f.Centroid-want) > 1e-9 {
		t.Errorf("centroid = %v, want %v", f.Centroid, want)
	}
	if math.Abs(f.Rolloff-want) > 1e-9 {
		t.Errorf("rolloff = %v, want %v", f.Rolloff, want)
	}
	if math.Abs(f.MidEnergy-4.0) > 1e-9 {
		t.Errorf("mid energy = %v, want 4.0", f.MidEnergy)
	}
	if f.LowEnergy != 0 || f.HighEnergy != 0 {
		t.Errorf("low/high energy = %v/%v, want 0", f.LowEnergy, f.HighEnergy)
	}
	if f.Flatness > 0.1 {
		t.Errorf("flatness of single-peak spectrum = %v, want near 0", f.Flatness)
	}
}

func TestSpectralFeaturesZCR(t *testing.T) {
	// A +1/-1 square alternation changes sign every sample: len-1 changes
	// over 2*len gives just under one half.
	frame := make([]float64, 512)
	for i := range frame {
		if i%2 == 0 {
			frame[i] = 1
		} else {
			frame[i] = -1
		}
	}
	f := ExtractSpectralFeatures(frame, make([]float64, 257), 93.75)
	want := float64(len(frame)-1) / (2 * float64(len(frame)))
	if math.Abs(f.ZCR-want) > 1e-9 {
		t.Errorf("zcr = %v, want %v", f.ZCR, want)
	}
}

func TestSpectralFeaturesFlatnessUniform(t *testing.T) {
	mags := make([]float64, 257)
	for i := range mags {
		mags[i] = 0.7
	}
	f := ExtractSpectralFeatures(make([]float64, 512), mags, 93.75)
	if math.Abs(f.Flatness-1) > 1e-6 {
		t.Errorf("flatness of uniform spectrum = %v, want ~1", f.Flatness)
	}
}
