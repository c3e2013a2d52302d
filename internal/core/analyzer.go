// Package core orchestrates the analysis pipeline: windowing, band
// mapping, drum onset detection, voice analysis, and bar smoothing run in
// a fixed order over each incoming chunk, producing one immutable frame
// result per update.
package core

import (
	"time"

	"github.com/linuxmatters/sonicpulse/internal/config"
	"github.com/linuxmatters/sonicpulse/internal/drums"
	"github.com/linuxmatters/sonicpulse/internal/dsp"
	"github.com/linuxmatters/sonicpulse/internal/voice"
)

// FrameResult is the per-frame output record. Every field is populated on
// every frame; a rejected or degenerate frame carries the inactive
// defaults rather than an error.
type FrameResult struct {
	// Spectrum holds the smoothed display bars, each in [0, 1].
	Spectrum []float64

	Kick   drums.KickResult
	Snare  drums.SnareResult
	Groove drums.GrooveResult
	Voice  voice.FrameResult

	// BPM is the larger of the legacy kick-interval estimate and the
	// groove tracker's stable BPM.
	BPM             float64
	BeatDetected    bool
	SimultaneousHit bool
}

// Analyzer runs the full analysis stack over a mono 48 kHz chunk stream.
// It owns all pipeline state; callers feed one chunk per update from a
// single goroutine and read the returned result.
type Analyzer struct {
	cfg config.Config

	windower *dsp.FrameWindower
	mapper   *dsp.BandMapper
	smoother *dsp.BarSmoother
	drums    *drums.DrumPipeline
	voice    *voice.Pipeline

	bars []float64 // scratch bar bank, reused between frames
}

// New creates an Analyzer for the given validated configuration.
func New(cfg config.Config) *Analyzer {
	windower := dsp.NewFrameWindower(cfg.ChunkSize, cfg.FFTSize)
	binFreqs := windower.Processor().Freqs(cfg.SampleRate)
	mapper := dsp.NewBandMapper(cfg.Bars, binFreqs, cfg.MaxFreq)

	return &Analyzer{
		cfg:      cfg,
		windower: windower,
		mapper:   mapper,
		smoother: dsp.NewBarSmoother(mapper.Centres()),
		drums:    drums.NewDrumPipeline(cfg.SampleRate, cfg.DrumSensitivity),
		voice:    voice.NewPipeline(cfg.SampleRate, cfg.ChunkSize),
		bars:     make([]float64, cfg.Bars),
	}
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() config.Config { return a.cfg }

// Update processes one chunk at the given monotonic time and returns the
// frame result. now is sampled once by the caller at frame entry and is
// the single clock reading every detector compares against. A chunk of
// the wrong length is refused: no state advances and an inactive result
// (with the current smoothed spectrum) is returned.
func (a *Analyzer) Update(chunk []float64, now time.Time) FrameResult {
	if len(chunk) != a.cfg.ChunkSize {
		return FrameResult{
			Spectrum: snapshot(a.smoother.Current()),
			Voice:    voice.FrameResult{VoiceType: "unknown"},
			Groove:   drums.GrooveResult{Pattern: "insufficient_data"},
		}
	}

	magnitude := a.windower.Push(chunk)
	a.mapper.Apply(magnitude, a.bars)

	drumResult := a.drums.Update(magnitude, now)
	voiceResult := a.voice.Update(chunk)

	smoothed := a.smoother.Update(a.bars, dsp.Detections{
		KickActive:  drumResult.Kick.Detected,
		SnareActive: drumResult.Snare.Detected,
		VoiceActive: voiceResult.HasVoice,
		IsSinging:   voiceResult.IsSinging,
	})

	return FrameResult{
		Spectrum:        snapshot(smoothed),
		Kick:            drumResult.Kick,
		Snare:           drumResult.Snare,
		Groove:          drumResult.Groove,
		Voice:           voiceResult,
		BPM:             drumResult.BPM,
		BeatDetected:    drumResult.BeatDetected,
		SimultaneousHit: drumResult.SimultaneousHit,
	}
}

// snapshot copies a bar bank so emitted results never alias mutable
// smoother state.
func snapshot(bars []float64) []float64 {
	out := make([]float64, len(bars))
	copy(out, bars)
	return out
}
