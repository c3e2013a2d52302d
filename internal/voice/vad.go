package voice

import (
	"math"

	"github.com/linuxmatters/sonicpulse/internal/dsp"
)

// Activity is the outcome of one VoiceActivity check. The diagnostic
// fields expose why the gate fired (or did not) so higher layers can
// render or log them.
type Activity struct {
	Active      bool
	Probability float64 // vocal_score scaled by the drum-suppression factor
	Flatness    float64 // spectral flatness over the vocal core band
	EnergyTrend bool    // vocal-core energy above 1.5x its recent median
}

// vadEnergyRing is the bounded history of vocal-core band energies used
// for the adaptive energy trend.
type vadEnergyRing struct {
	buf [10]float64
	len int
	pos int
}

func (r *vadEnergyRing) push(v float64) {
	r.buf[r.pos] = v
	r.pos = (r.pos + 1) % len(r.buf)
	if r.len < len(r.buf) {
		r.len++
	}
}

func (r *vadEnergyRing) values() []float64 {
	out := make([]float64, r.len)
	start := (r.pos - r.len + len(r.buf)) % len(r.buf)
	for i := 0; i < r.len; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// VoiceActivity is an energy and spectral-shape voice gate tuned for
// vocals inside a full mix: it scores energy in the vocal core band,
// suppresses the score when drum/bass energy dominates, requires a tonal
// (non-flat) core spectrum, and holds its decision through a hangover
// counter so sustained vocals are not chopped up frame to frame.
type VoiceActivity struct {
	sampleRate int
	proc       *dsp.Processor

	energyHistory vadEnergyRing
	hangover      int
}

// NewVoiceActivity creates a detector for chunks of chunkSize samples.
func NewVoiceActivity(sampleRate, chunkSize int) *VoiceActivity {
	return &VoiceActivity{
		sampleRate: sampleRate,
		proc:       dsp.NewProcessor(chunkSize),
	}
}

const (
	vadRMSThreshold = 0.005
	vadHangover     = 12

	vocalCoreLo, vocalCoreHi = 200.0, 3500.0
	drumBassLo, drumBassHi   = 20.0, 150.0
	vadHighLo, vadHighHi     = 3500.0, 8000.0
)

// Check runs the gate over one chunk and returns the activity decision
// including the hangover hold.
func (v *VoiceActivity) Check(frame []float64) Activity {
	rmsEnergy := rms(frame)

	coeffs := v.proc.Coefficients(frame)
	magnitude := make([]float64, len(coeffs))
	for i, c := range coeffs {
		re, im := real(c), imag(c)
		magnitude[i] = math.Sqrt(re*re + im*im)
	}
	binWidth := float64(v.sampleRate) / float64(len(frame))

	var vocalCore, drumBass, high, total float64
	coreLoBin, coreHiBin := -1, -1
	for k, m := range magnitude {
		f := float64(k) * binWidth
		e := m * m
		total += e
		if f >= vocalCoreLo && f <= vocalCoreHi {
			vocalCore += e
			if coreLoBin < 0 {
				coreLoBin = k
			}
			coreHiBin = k
		}
		if f >= drumBassLo && f <= drumBassHi {
			drumBass += e
		}
		if f >= vadHighLo && f <= vadHighHi {
			high += e
		}
	}

	var vocalProbability, vocalCoreRatio float64
	if total > 1e-10 {
		vocalCoreRatio = vocalCore / total
		drumBassRatio := drumBass / total
		highRatio := high / total

		vocalScore := vocalCoreRatio + highRatio*0.5
		drumSuppression := math.Max(0.1, 1-drumBassRatio*2)
		vocalProbability = vocalScore * drumSuppression
	}

	v.energyHistory.push(vocalCore)
	energyTrend := true
	if v.energyHistory.len >= 5 {
		energyTrend = vocalCore > 1.5*median(v.energyHistory.values())
	}

	flatness := 1.0
	if coreLoBin >= 0 {
		flatness = sliceFlatness(magnitude[coreLoBin : coreHiBin+1])
	}
	tonal := flatness < 0.8

	active := (rmsEnergy > vadRMSThreshold && vocalProbability > 0.05 && tonal) ||
		vocalCore > 0.02*total ||
		vocalCoreRatio > 0.08

	if active {
		v.hangover = vadHangover
	} else if v.hangover > 0 {
		v.hangover--
		active = true
	}

	return Activity{
		Active:      active,
		Probability: vocalProbability,
		Flatness:    flatness,
		EnergyTrend: energyTrend,
	}
}

// Relax decrements the hangover counter without running the gate. The
// pipeline calls it on frames rejected by the quick RMS guard so silence
// eventually drains the hangover to zero.
func (v *VoiceActivity) Relax() {
	if v.hangover > 0 {
		v.hangover--
	}
}

// sliceFlatness computes geometric-over-arithmetic-mean flatness of a
// magnitude slice.
func sliceFlatness(mags []float64) float64 {
	if len(mags) == 0 {
		return 1
	}
	var logSum, linSum float64
	for _, m := range mags {
		logSum += math.Log(m + 1e-10)
		linSum += m + 1e-10
	}
	n := float64(len(mags))
	geometric := math.Exp(logSum / n)
	arithmetic := linSum / n
	return geometric / (arithmetic + 1e-10)
}
