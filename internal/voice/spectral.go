package voice

import "math"

// ExtractSpectralFeatures computes the per-frame spectral feature set from
// a magnitude spectrum (with uniform bin spacing binWidth) plus the
// time-domain frame for the zero-crossing rate.
func ExtractSpectralFeatures(frame, magnitude []float64, binWidth float64) SpectralFeatures {
	var features SpectralFeatures

	var magSum, weightedSum float64
	for k, m := range magnitude {
		magSum += m
		weightedSum += float64(k) * binWidth * m
	}
	if magSum > 0 {
		features.Centroid = weightedSum / magSum
	}

	var totalEnergy float64
	for _, m := range magnitude {
		totalEnergy += m * m
	}
	if totalEnergy > 0 {
		cumulative := 0.0
		for k, m := range magnitude {
			cumulative += m * m
			if cumulative >= 0.85*totalEnergy {
				features.Rolloff = float64(k) * binWidth
				break
			}
		}
	}

	if len(magnitude) > 0 {
		var logSum, linSum float64
		for _, m := range magnitude {
			logSum += math.Log(m + 1e-10)
			linSum += m
		}
		n := float64(len(magnitude))
		geometricMean := math.Exp(logSum / n)
		arithmeticMean := linSum / n
		features.Flatness = geometricMean / (arithmeticMean + 1e-10)
	}

	if len(frame) > 0 {
		crossings := 0
		for i := 1; i < len(frame); i++ {
			if sign(frame[i]) != sign(frame[i-1]) {
				crossings++
			}
		}
		features.ZCR = float64(crossings) / (2 * float64(len(frame)))
	}

	features.LowEnergy = bandEnergy(magnitude, binWidth, 80, 500)
	features.MidEnergy = bandEnergy(magnitude, binWidth, 500, 2000)
	features.HighEnergy = bandEnergy(magnitude, binWidth, 2000, 8000)

	return features
}

// bandEnergy sums squared magnitude over bins whose centre frequency lies
// in [loHz, hiHz].
func bandEnergy(magnitude []float64, binWidth, loHz, hiHz float64) float64 {
	var sum float64
	for k, m := range magnitude {
		f := float64(k) * binWidth
		if f >= loHz && f <= hiHz {
			sum += m * m
		}
	}
	return sum
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
