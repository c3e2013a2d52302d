// Package dsp implements the windowing, frequency-band mapping, and
// temporal smoothing stages that turn a raw PCM chunk stream into a
// smoothed, bar-binned magnitude spectrum.
package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Hann returns a Hann window of the given length.
func Hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// ApplyWindow multiplies samples by window in place into dst (which may
// alias samples) and returns dst.
func ApplyWindow(samples, window, dst []float64) []float64 {
	for i := range samples {
		dst[i] = samples[i] * window[i]
	}
	return dst
}

// Processor wraps a real-to-complex FFT of a fixed size, used both for the
// forward magnitude spectrum (FrameWindower, VoiceActivity, SpectralFeatures)
// and for YinPitchDetector's preprocessing round-trip.
type Processor struct {
	size   int
	fft    *fourier.FFT
	window []float64
}

// NewProcessor creates a Processor for the given FFT size.
func NewProcessor(size int) *Processor {
	return &Processor{
		size:   size,
		fft:    fourier.NewFFT(size),
		window: Hann(size),
	}
}

// Size returns the configured FFT length.
func (p *Processor) Size() int { return p.size }

// Window returns the Processor's Hann window (read-only; callers must not
// mutate it).
func (p *Processor) Window() []float64 { return p.window }

// Magnitude computes the Hann-windowed magnitude spectrum of samples
// (length must equal Size()). Returns a slice of length Size()/2+1.
func (p *Processor) Magnitude(samples []float64) []float64 {
	windowed := make([]float64, p.size)
	ApplyWindow(samples, p.window, windowed)
	coeffs := p.fft.Coefficients(nil, windowed)
	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = cmplxAbs(c)
	}
	return mags
}

// Coefficients computes the raw (unwindowed) complex FFT of samples.
func (p *Processor) Coefficients(samples []float64) []complex128 {
	return p.fft.Coefficients(nil, samples)
}

// Sequence performs the inverse real FFT, reconstructing a time-domain
// signal of length Size() from Size()/2+1 complex coefficients. The
// underlying transform is unnormalized (Coefficients then Sequence scales
// by the sequence length), so the result is divided by Size() here to make
// the round trip exact.
func (p *Processor) Sequence(coeffs []complex128) []float64 {
	out := p.fft.Sequence(nil, coeffs)
	scale := 1 / float64(p.size)
	for i := range out {
		out[i] *= scale
	}
	return out
}

func cmplxAbs(c complex128) float64 {
	re, im := real(c), imag(c)
	return math.Sqrt(re*re + im*im)
}

// Freqs returns the centre frequency (Hz) of each bin in a Size()/2+1
// magnitude spectrum for the given sample rate.
func (p *Processor) Freqs(sampleRate int) []float64 {
	n := p.size/2 + 1
	freqs := make([]float64, n)
	binWidth := float64(sampleRate) / float64(p.size)
	for i := range freqs {
		freqs[i] = float64(i) * binWidth
	}
	return freqs
}
