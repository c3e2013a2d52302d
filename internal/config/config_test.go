package config

import "testing"

// TestNew_Defaults verifies the zero-option construction matches the
// documented defaults.
func TestNew_Defaults(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if c.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %d, want %d", c.SampleRate, DefaultSampleRate)
	}
	if c.ChunkSize != DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", c.ChunkSize, DefaultChunkSize)
	}
	if c.FFTSize != DefaultFFTSize {
		t.Errorf("FFTSize = %d, want %d", c.FFTSize, DefaultFFTSize)
	}
	if c.Bars != DefaultBars {
		t.Errorf("Bars = %d, want %d", c.Bars, DefaultBars)
	}
	if c.MaxFreq != DefaultMaxFreq {
		t.Errorf("MaxFreq = %g, want %g", c.MaxFreq, DefaultMaxFreq)
	}
}

// TestNew_MaxFreqClampedToNyquist verifies that max_freq is clamped to
// min(20000, Nyquist) as required by the Config data model.
func TestNew_MaxFreqClampedToNyquist(t *testing.T) {
	c, err := New(WithSampleRate(8000))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if c.MaxFreq != 4000 {
		t.Errorf("MaxFreq = %g, want 4000 (Nyquist of 8000 Hz)", c.MaxFreq)
	}
}

// TestNew_InvalidInputs verifies constructor-time rejection of malformed
// configuration, never a panic or silent clamp outside the documented
// max_freq clamp.
func TestNew_InvalidInputs(t *testing.T) {
	testCases := []struct {
		name string
		opts []Option
	}{
		{"zero sample rate", []Option{WithSampleRate(0)}},
		{"negative chunk size", []Option{WithChunkSize(-1)}},
		{"fft smaller than chunk", []Option{WithChunkSize(4096), WithFFTSize(2048)}},
		{"fft not power of two", []Option{WithFFTSize(3000)}},
		{"zero bars", []Option{WithBars(0)}},
		{"too many bars", []Option{WithBars(MaxBars + 1)}},
		{"zero sensitivity", []Option{WithDrumSensitivity(0)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opts...); err == nil {
				t.Errorf("New(%s) expected error, got nil", tc.name)
			}
		})
	}
}

// TestNew_BarsAtMax verifies the documented maximum bar count is accepted.
func TestNew_BarsAtMax(t *testing.T) {
	c, err := New(WithBars(MaxBars))
	if err != nil {
		t.Fatalf("New(WithBars(MaxBars)) returned error: %v", err)
	}
	if c.Bars != MaxBars {
		t.Errorf("Bars = %d, want %d", c.Bars, MaxBars)
	}
}

// TestConfig_Nyquist verifies the Nyquist helper.
func TestConfig_Nyquist(t *testing.T) {
	c, err := New(WithSampleRate(48000))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if c.Nyquist() != 24000 {
		t.Errorf("Nyquist() = %g, want 24000", c.Nyquist())
	}
}
