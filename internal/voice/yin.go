package voice

import (
	"math"

	"github.com/linuxmatters/sonicpulse/internal/dsp"
)

// Pitch is the output of one YinPitchDetector pass: the estimated
// fundamental frequency, a confidence score, the nearest musical note
// name, and the autocorrelation clarity of the chosen period.
type Pitch struct {
	Frequency  float64
	Confidence float64
	Note       string
	Clarity    float64
}

// YinPitchDetector estimates the fundamental frequency of one audio chunk
// using a cumulative-mean normalised difference function over the
// autocorrelation, searched across a primary and an extended vocal range.
// The chunk is spectrally reshaped first to suppress drums and boost the
// vocal bands, so the detector keeps tracking a voice inside a full mix.
type YinPitchDetector struct {
	sampleRate int
	proc       *dsp.Processor

	// Primary range favours sung melody lines; the extended range is the
	// fallback for lower voices.
	primaryLo, primaryHi   float64
	extendedLo, extendedHi float64
}

// NewYinPitchDetector creates a detector for chunks of chunkSize samples
// at the given sample rate.
func NewYinPitchDetector(sampleRate, chunkSize int) *YinPitchDetector {
	return &YinPitchDetector{
		sampleRate: sampleRate,
		proc:       dsp.NewProcessor(chunkSize),
		primaryLo:  150, primaryHi: 500,
		extendedLo: 75, extendedHi: 600,
	}
}

const (
	yinPrimaryThreshold  = 0.5
	yinExtendedThreshold = 0.6
)

// Detect estimates the pitch of frame (length must equal the configured
// chunk size). history supplies recent voiced pitches for the consistency
// check; it is read, never written.
func (y *YinPitchDetector) Detect(frame []float64, history *PitchHistory) Pitch {
	processed := y.preprocess(frame)
	n := len(processed)

	autocorr := autocorrelate(processed)
	cmnd := cumulativeMeanDifference(autocorr, n/2)

	pf, pc, pcl := y.findPitchInRange(cmnd, autocorr, y.primaryLo, y.primaryHi, yinPrimaryThreshold)
	ef, ec, ecl := y.findPitchInRange(cmnd, autocorr, y.extendedLo, y.extendedHi, yinExtendedThreshold)

	var f0, confidence, clarity float64
	if pc > ec && pf > 0 {
		f0, confidence, clarity = pf, pc, pcl
	} else if ef > 0 {
		f0, confidence, clarity = ef, ec, ecl
	}

	// Penalise estimates that jump far away from the recent track.
	if f0 > 0 && history.Len() > 3 {
		recent := lastNonZero(history, 3)
		if len(recent) > 0 {
			if m := median(recent); math.Abs(f0-m) > 100 {
				confidence *= 0.5
			}
		}
	}

	note := ""
	if f0 > 0 {
		note = FrequencyToNote(f0)
	}

	if f0 > 0 && confidence < 0.2 {
		if f0 >= 80 && f0 <= 800 {
			confidence = 0.4
		} else {
			confidence = 0.2
		}
	}

	return Pitch{Frequency: f0, Confidence: confidence, Note: note, Clarity: clarity}
}

// preprocess reshapes the chunk's spectrum to favour vocal content: bass
// and kick-body bands are nearly removed, the core vocal band is boosted
// hard, harmonics and sibilance more gently. The reshaped spectrum is
// transformed back to the time domain for autocorrelation.
func (y *YinPitchDetector) preprocess(frame []float64) []float64 {
	if len(frame) <= 10 || len(frame) != y.proc.Size() {
		return frame
	}

	coeffs := y.proc.Coefficients(frame)
	binWidth := float64(y.sampleRate) / float64(len(frame))
	for k := range coeffs {
		f := float64(k) * binWidth
		var gain float64
		switch {
		case f < 150:
			gain = 0.05
		case f < 200:
			gain = 0.3
		case f <= 1000:
			gain = 3.0
		case f <= 3500:
			gain = 2.0
		case f <= 8000:
			gain = 1.5
		default:
			gain = 1.0
		}
		coeffs[k] *= complex(gain, 0)
	}
	return y.proc.Sequence(coeffs)
}

// autocorrelate returns r[tau] for tau in [0, len(x)), the second half of
// the full-mode correlation of x with itself.
func autocorrelate(x []float64) []float64 {
	n := len(x)
	r := make([]float64, n)
	for tau := 0; tau < n; tau++ {
		var sum float64
		for i := 0; i+tau < n; i++ {
			sum += x[i] * x[i+tau]
		}
		r[tau] = sum
	}
	return r
}

// cumulativeMeanDifference computes the CMND function over lags [0, half):
// d[tau] = 1 - r[tau]/(r[0]+eps), normalised by the running mean of d.
func cumulativeMeanDifference(autocorr []float64, half int) []float64 {
	cmnd := make([]float64, half)
	if half == 0 {
		return cmnd
	}
	cmnd[0] = 1

	cumulative := 0.0
	for tau := 1; tau < half && tau < len(autocorr); tau++ {
		d := 1 - autocorr[tau]/(autocorr[0]+1e-10)
		cumulative += d
		if cumulative > 0 {
			cmnd[tau] = d / (cumulative / float64(tau))
		} else {
			cmnd[tau] = d
		}
	}
	return cmnd
}

// findPitchInRange scans lags corresponding to [loHz, hiHz] for the first
// CMND dip under threshold, refines the lag with parabolic interpolation,
// and scores the hit.
func (y *YinPitchDetector) findPitchInRange(cmnd, autocorr []float64, loHz, hiHz, threshold float64) (f0, confidence, clarity float64) {
	minPeriod := int(float64(y.sampleRate) / hiHz)
	maxPeriod := int(float64(y.sampleRate) / loHz)
	if maxPeriod > len(cmnd) {
		maxPeriod = len(cmnd)
	}

	for tau := minPeriod; tau < maxPeriod; tau++ {
		if cmnd[tau] >= threshold {
			continue
		}
		if tau <= 0 || tau >= len(cmnd)-1 {
			continue
		}
		y1, y2, y3 := cmnd[tau-1], cmnd[tau], cmnd[tau+1]
		denom := 2 * (2*y2 - y1 - y3)
		if math.Abs(denom) <= 1e-10 {
			continue
		}
		x0 := float64(tau) + (y3-y1)/denom
		f0 = float64(y.sampleRate) / x0

		rawConfidence := math.Max(0, 1-math.Min(1, cmnd[tau]))
		if tau < len(autocorr) {
			clarity = math.Abs(autocorr[tau]) / (autocorr[0] + 1e-10)
		}

		confidence = math.Max(0.4, rawConfidence)
		if f0 > 0 {
			confidence = math.Max(confidence, 0.5)
		}
		if clarity > 0.6 {
			confidence *= 1.4
		} else if clarity > 0.4 {
			confidence *= 1.2
		}
		if f0 >= 150 && f0 <= 400 {
			confidence *= 1.3
		} else if f0 >= 100 && f0 <= 300 {
			confidence *= 1.1
		}
		break
	}

	return f0, math.Min(1, confidence), clarity
}

// lastNonZero returns up to n trailing entries of history that are voiced.
func lastNonZero(history *PitchHistory, n int) []float64 {
	vals := history.Values()
	if len(vals) > n {
		vals = vals[len(vals)-n:]
	}
	var out []float64
	for _, v := range vals {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}
