package voice

import (
	"math"

	"github.com/linuxmatters/sonicpulse/internal/dsp"
)

// Pipeline composes the voice stack into one per-frame update: a quick
// RMS guard, the activity gate, then (on alternating frames) the full
// pitch/formant/HNR/spectral/vibrato analysis. Skipped frames reuse the
// most recent pitch so downstream consumers always see a populated result.
type Pipeline struct {
	sampleRate int
	chunkSize  int

	proc       *dsp.Processor
	yin        *YinPitchDetector
	lpc        *LpcFormantAnalyzer
	vad        *VoiceActivity
	vibrato    *VibratoDetector
	history    PitchHistory
	frameCount int
}

// NewPipeline creates a voice pipeline for chunks of chunkSize samples at
// the given sample rate.
func NewPipeline(sampleRate, chunkSize int) *Pipeline {
	return &Pipeline{
		sampleRate: sampleRate,
		chunkSize:  chunkSize,
		proc:       dsp.NewProcessor(chunkSize),
		yin:        NewYinPitchDetector(sampleRate, chunkSize),
		lpc:        NewLpcFormantAnalyzer(sampleRate, chunkSize),
		vad:        NewVoiceActivity(sampleRate, chunkSize),
		vibrato:    NewVibratoDetector(),
	}
}

const quickRMSGuard = 0.001

// Update analyses one chunk and returns the per-frame voice result. A
// malformed chunk (wrong length) or a too-quiet frame yields an inactive
// result; the pipeline never fails a frame.
func (p *Pipeline) Update(frame []float64) FrameResult {
	result := inactiveResult()
	if len(frame) != p.chunkSize {
		return result
	}

	p.frameCount++

	energy := rms(frame)
	result.VocalEnergy = energy
	if energy < quickRMSGuard {
		p.vad.Relax()
		return result
	}

	activity := p.vad.Check(frame)
	if !activity.Active {
		return result
	}

	if p.frameCount%2 == 0 {
		return p.detailedAnalysis(frame, energy)
	}

	// Skipped frame: hold the detection with the last known pitch and a
	// confidence that grows with how much track history exists.
	result.HasVoice = true
	if p.history.Len() > 0 {
		result.Pitch = p.history.Last()
		result.VoiceConfidence = clamp(float64(p.history.Len())/30, 0.3, 0.7)
		result.VoiceType = ClassifyVoiceType(result.Pitch, nil)
	}
	return result
}

func (p *Pipeline) detailedAnalysis(frame []float64, energy float64) FrameResult {
	result := inactiveResult()
	result.HasVoice = true
	result.VocalEnergy = energy

	pitch := p.yin.Detect(frame, &p.history)
	result.Pitch = pitch.Frequency
	result.PitchConfidence = pitch.Confidence
	result.PitchNote = pitch.Note
	result.FundamentalClarity = pitch.Clarity
	if pitch.Frequency > 0 {
		p.history.Push(pitch.Frequency)
	}

	result.Formants = p.lpc.Formants(frame)

	coeffs := p.proc.Coefficients(frame)
	magnitude := make([]float64, len(coeffs))
	for i, c := range coeffs {
		re, im := real(c), imag(c)
		magnitude[i] = math.Sqrt(re*re + im*im)
	}
	binWidth := float64(p.sampleRate) / float64(len(frame))
	nyquist := float64(p.sampleRate) / 2

	result.HNR = EstimateHNR(magnitude, binWidth, pitch.Frequency, nyquist)
	result.Features = ExtractSpectralFeatures(frame, magnitude, binWidth)
	result.VoiceType = ClassifyVoiceType(pitch.Frequency, result.Formants)

	if p.history.Len() >= 15 {
		result.Vibrato = p.vibrato.Detect(p.history.Values())
		result.IsSinging = singingScore(result) >= 4
	}

	result.VoiceConfidence = overallConfidence(result)
	if result.Pitch > 0 && result.VoiceConfidence < 0.3 {
		result.VoiceConfidence = 0.5
	}

	return result
}

// History exposes the pitch track for callers that render it.
func (p *Pipeline) History() *PitchHistory { return &p.history }

func inactiveResult() FrameResult {
	return FrameResult{VoiceType: "unknown"}
}

// singingScore combines the singing indicators: sustained confident pitch,
// a high tessitura, vibrato, a clean harmonic tone, and a bright tonal
// spectrum. Four points or more reads as singing rather than speech.
func singingScore(r FrameResult) int {
	score := 0
	if r.PitchConfidence > 0.8 {
		score += 2
	}
	if r.Pitch > 200 {
		score++
	}
	if r.Vibrato != nil && r.Vibrato.Detected {
		score += 3
	}
	if r.HNR > 15 {
		score += 2
	}
	if r.Features.Centroid > 1000 {
		score++
	}
	if r.Features.Flatness < 0.5 {
		score++
	}
	return score
}

// overallConfidence fuses the per-component evidence into one weighted
// confidence score.
func overallConfidence(r FrameResult) float64 {
	var factors, weights []float64

	if r.Pitch > 0 {
		factors = append(factors, math.Max(0.5, r.PitchConfidence))
		weights = append(weights, 3.0)
	} else if r.PitchConfidence > 0 {
		factors = append(factors, r.PitchConfidence*0.7)
		weights = append(weights, 2.0)
	}

	if r.HNR > 0 {
		factors = append(factors, math.Min(1, r.HNR/15))
		weights = append(weights, 2.0)
	}

	if len(r.Formants) > 0 {
		factors = append(factors, math.Min(1, float64(len(r.Formants))/2.5))
		weights = append(weights, 2.5)
	}

	if spectralScore := math.Max(0, 1-r.Features.Flatness); spectralScore > 0.1 {
		factors = append(factors, spectralScore)
		weights = append(weights, 1.5)
	}

	voiceEnergy := r.Features.MidEnergy + r.Features.HighEnergy
	if total := voiceEnergy + r.Features.LowEnergy; total > 0 {
		if ratio := voiceEnergy / total; ratio > 0.3 {
			factors = append(factors, ratio)
			weights = append(weights, 1.0)
		}
	}

	if r.VocalEnergy > 0.002 {
		factors = append(factors, math.Min(1, r.VocalEnergy/0.01))
		weights = append(weights, 1.0)
	}

	if len(factors) == 0 {
		if r.Pitch > 0 {
			return 0.5
		}
		return 0
	}

	var weightedSum, totalWeight float64
	for i, f := range factors {
		weightedSum += f * weights[i]
		totalWeight += weights[i]
	}
	confidence := weightedSum / totalWeight

	if len(factors) >= 3 {
		confidence *= 1.2
	}
	if r.Pitch > 0 && len(r.Formants) >= 2 {
		confidence = math.Max(confidence, 0.4)
	}
	if r.Pitch > 0 {
		confidence = math.Max(confidence, 0.3)
	}
	return math.Min(1, confidence)
}
