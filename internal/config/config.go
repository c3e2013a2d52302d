// Package config defines the analyzer's tunable parameters and validates
// them at construction time.
package config

import "fmt"

// Fixed pipeline constants. Only SampleRate of 48000 Hz is fully validated
// against the detector thresholds and window sizes used throughout the
// analyzer; other sample rates are accepted but not guaranteed to produce
// musically sensible detections.
const (
	DefaultSampleRate = 48000
	DefaultChunkSize  = 512
	DefaultFFTSize    = 2048
	DefaultBars       = 512
	MaxBars           = 1024
	DefaultMaxFreq    = 20000.0
	MinFreq           = 20.0

	DefaultDrumSensitivity = 1.0
)

// Config holds the validated parameters for one AnalyzerCore instance.
type Config struct {
	SampleRate      int
	ChunkSize       int
	FFTSize         int
	Bars            int
	MaxFreq         float64
	DrumSensitivity float64
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithSampleRate overrides the sample rate (default 48000 Hz).
func WithSampleRate(hz int) Option {
	return func(c *Config) { c.SampleRate = hz }
}

// WithChunkSize overrides the per-update chunk length (default 512).
func WithChunkSize(n int) Option {
	return func(c *Config) { c.ChunkSize = n }
}

// WithFFTSize overrides the analysis window length (default 2048).
func WithFFTSize(n int) Option {
	return func(c *Config) { c.FFTSize = n }
}

// WithBars overrides the number of display bars (default 512, max 1024).
func WithBars(n int) Option {
	return func(c *Config) { c.Bars = n }
}

// WithMaxFreq overrides the maximum displayed frequency (default 20000 Hz,
// clamped to Nyquist).
func WithMaxFreq(hz float64) Option {
	return func(c *Config) { c.MaxFreq = hz }
}

// WithDrumSensitivity overrides the onset-detector sensitivity multiplier
// (default 1.0; the UI may toggle to 2.0).
func WithDrumSensitivity(s float64) Option {
	return func(c *Config) { c.DrumSensitivity = s }
}

// New builds a Config from the defaults plus any options, then validates it.
// It never panics: malformed input is reported as an error, since the
// analyzer must refuse bad configuration at the caller boundary rather
// than silently misbehaving downstream.
func New(opts ...Option) (Config, error) {
	c := Config{
		SampleRate:      DefaultSampleRate,
		ChunkSize:       DefaultChunkSize,
		FFTSize:         DefaultFFTSize,
		Bars:            DefaultBars,
		MaxFreq:         DefaultMaxFreq,
		DrumSensitivity: DefaultDrumSensitivity,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if c.SampleRate > 0 {
		nyquist := float64(c.SampleRate) / 2
		if c.MaxFreq > nyquist {
			c.MaxFreq = nyquist
		}
	}
	if c.MaxFreq > DefaultMaxFreq {
		c.MaxFreq = DefaultMaxFreq
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("config: sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.FFTSize < c.ChunkSize {
		return fmt.Errorf("config: fft_size (%d) must be >= chunk_size (%d)", c.FFTSize, c.ChunkSize)
	}
	if c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("config: fft_size (%d) must be a power of two", c.FFTSize)
	}
	if c.Bars <= 0 || c.Bars > MaxBars {
		return fmt.Errorf("config: bars must be in (0, %d], got %d", MaxBars, c.Bars)
	}
	if c.MaxFreq <= MinFreq {
		return fmt.Errorf("config: max_freq must exceed %g Hz, got %g", MinFreq, c.MaxFreq)
	}
	if c.DrumSensitivity <= 0 {
		return fmt.Errorf("config: drum_sensitivity must be positive, got %g", c.DrumSensitivity)
	}
	return nil
}

// Nyquist returns half the configured sample rate.
func (c Config) Nyquist() float64 {
	return float64(c.SampleRate) / 2
}
