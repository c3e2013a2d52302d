package voice

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// VibratoDetector looks for quasi-periodic 4-8 Hz modulation in the recent
// pitch track, the signature of sustained singing. The pitch series is
// assumed to be sampled at the analysis frame rate (~30 FPS).
type VibratoDetector struct {
	minHistory  int
	framePeriod float64
}

// NewVibratoDetector creates a detector with the standard 4-8 Hz search
// band and a 20-entry minimum history requirement.
func NewVibratoDetector() *VibratoDetector {
	return &VibratoDetector{minHistory: 20, framePeriod: 0.033}
}

const (
	vibratoLoHz = 4.0
	vibratoHiHz = 8.0
)

// Detect analyses pitchHistory (oldest to newest, zero entries meaning
// unvoiced) and returns the vibrato estimate, or nil when the voiced
// history is too short to analyse.
func (d *VibratoDetector) Detect(pitchHistory []float64) *Vibrato {
	var pitches []float64
	for _, p := range pitchHistory {
		if p > 0 {
			pitches = append(pitches, p)
		}
	}
	if len(pitches) < d.minHistory {
		return nil
	}

	detrended := detrend(pitches)
	window := hannWindow(len(detrended))
	for i := range detrended {
		detrended[i] *= window[i]
	}

	fft := fourier.NewFFT(len(detrended))
	coeffs := fft.Coefficients(nil, detrended)

	binWidth := 1 / (d.framePeriod * float64(len(detrended)))

	var totalEnergy float64
	for _, c := range coeffs {
		m := cmplx.Abs(c)
		totalEnergy += m * m
	}

	peakStrength, peakFreq := 0.0, 0.0
	inBand := false
	for k, c := range coeffs {
		f := float64(k) * binWidth
		if f < vibratoLoHz || f > vibratoHiHz {
			continue
		}
		inBand = true
		if m := cmplx.Abs(c); m > peakStrength {
			peakStrength = m
			peakFreq = f
		}
	}
	if !inBand {
		return &Vibrato{}
	}

	normalized := peakStrength * peakStrength / (totalEnergy + 1e-10)

	return &Vibrato{
		Detected: normalized > 0.01 && peakStrength > 0.1,
		RateHz:   peakFreq,
		Strength: normalized,
	}
}

// detrend removes the least-squares linear trend from vals, so slow pitch
// glides do not masquerade as modulation energy.
func detrend(vals []float64) []float64 {
	n := float64(len(vals))
	out := make([]float64, len(vals))
	if len(vals) < 2 {
		copy(out, vals)
		return out
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range vals {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		copy(out, vals)
		return out
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	for i, v := range vals {
		out[i] = v - (intercept + slope*float64(i))
	}
	return out
}
