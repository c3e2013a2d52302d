package voice

import "math"

// EstimateHNR computes the harmonic-to-noise ratio in dB from a magnitude
// spectrum and a known fundamental. For each of the first ten harmonics
// below Nyquist, the peak magnitude in a small window around the harmonic
// bin counts as harmonic energy and the mean squared magnitude of the
// surrounding off-peak bins as noise. The result is clamped to [0, 40] dB;
// an unvoiced frame (f0 <= 0) or a noiseless spectrum reports 0.
func EstimateHNR(magnitude []float64, binWidth, f0, nyquist float64) float64 {
	if f0 <= 0 || len(magnitude) == 0 || binWidth <= 0 {
		return 0
	}

	const peakWindow = 3

	var harmonicEnergy, noiseEnergy float64
	for harmonic := 1; harmonic <= 10; harmonic++ {
		target := f0 * float64(harmonic)
		if target > nyquist {
			break
		}

		idx := int(math.Round(target / binWidth))
		if idx >= len(magnitude) {
			idx = len(magnitude) - 1
		}

		start := idx - peakWindow
		if start < 0 {
			start = 0
		}
		end := idx + peakWindow + 1
		if end > len(magnitude) {
			end = len(magnitude)
		}

		peak := 0.0
		for _, m := range magnitude[start:end] {
			if m > peak {
				peak = m
			}
		}
		harmonicEnergy += peak * peak

		noiseStart := idx - peakWindow*3
		if noiseStart < 0 {
			noiseStart = 0
		}
		noiseEnd := idx + peakWindow*3 + 1
		if noiseEnd > len(magnitude) {
			noiseEnd = len(magnitude)
		}

		var noiseSum float64
		noiseCount := 0
		for _, m := range magnitude[noiseStart:start] {
			noiseSum += m * m
			noiseCount++
		}
		for _, m := range magnitude[end:noiseEnd] {
			noiseSum += m * m
			noiseCount++
		}
		if noiseCount > 0 {
			noiseEnergy += noiseSum / float64(noiseCount)
		}
	}

	if noiseEnergy <= 0 {
		return 0
	}
	hnr := 10 * math.Log10((harmonicEnergy+1e-10)/(noiseEnergy+1e-10))
	return clamp(hnr, 0, 40)
}
