package dsp

import "testing"

// TestBandMapper_EveryBarHasAtLeastOneBin verifies the BarBinning invariant
// that every bar maps to at least one FFT bin, including bars in sparse
// high-frequency regions where the nearest-bin fallback kicks in.
func TestBandMapper_EveryBarHasAtLeastOneBin(t *testing.T) {
	const (
		sampleRate = 48000
		fftSize    = 2048
		bars       = 64
	)
	proc := NewProcessor(fftSize)
	freqs := proc.Freqs(sampleRate)

	mapper := NewBandMapper(bars, freqs, 20000)
	binning := mapper.Binning()

	if binning.Bars() != bars {
		t.Fatalf("Bars() = %d, want %d", binning.Bars(), bars)
	}
	for i := 0; i < bars; i++ {
		if len(binning.BinsFor(i)) == 0 {
			t.Errorf("bar %d has no bins", i)
		}
	}
}

// TestBandMapper_Apply_AveragesAssignedBins verifies Apply averages the
// magnitudes assigned to each bar rather than, say, summing them.
func TestBandMapper_Apply_AveragesAssignedBins(t *testing.T) {
	const (
		sampleRate = 48000
		fftSize    = 2048
		bars       = 16
	)
	proc := NewProcessor(fftSize)
	freqs := proc.Freqs(sampleRate)
	mapper := NewBandMapper(bars, freqs, 20000)

	mags := make([]float64, len(freqs))
	for i := range mags {
		mags[i] = 1.0
	}

	out := make([]float64, bars)
	mapper.Apply(mags, out)
	for i, v := range out {
		if v != 1.0 {
			t.Errorf("bar %d = %g, want 1.0 for uniform input", i, v)
		}
	}
}

// TestBandMapper_LargeBarCount verifies the piecewise allocation still
// yields the requested bar count with non-decreasing bar centres at the
// maximum bar count (1024), a scale the component design explicitly allows.
func TestBandMapper_LargeBarCount(t *testing.T) {
	const (
		sampleRate = 48000
		fftSize    = 2048
		bars       = 1024
	)
	proc := NewProcessor(fftSize)
	freqs := proc.Freqs(sampleRate)
	mapper := NewBandMapper(bars, freqs, 20000)
	binning := mapper.Binning()

	if binning.Bars() != bars {
		t.Fatalf("Bars() = %d, want %d", binning.Bars(), bars)
	}
	centres := mapper.Centres()
	for i := 1; i < len(centres); i++ {
		if centres[i] < centres[i-1] {
			t.Fatalf("centres not monotone at %d: %g then %g", i, centres[i-1], centres[i])
		}
	}
}
