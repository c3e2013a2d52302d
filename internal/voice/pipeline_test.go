package voice

import (
	"math"
	"testing"
)

func TestPipelineRejectsWrongChunkLength(t *testing.T) {
	p := NewPipeline(48000, 512)
	res := p.Update(make([]float64, 100))
	if res.HasVoice {
		t.Fatal("expected an inactive result for a malformed chunk")
	}
	if res.VoiceType != "unknown" {
		t.Errorf("voice type = %q, want unknown", res.VoiceType)
	}
}

func TestPipelineSilenceIsInactive(t *testing.T) {
	p := NewPipeline(48000, 512)
	for i := 0; i < 20; i++ {
		res := p.Update(make([]float64, 512))
		if res.HasVoice {
			t.Fatalf("frame %d: silence reported as voiced", i)
		}
		if res.VocalEnergy != 0 {
			t.Fatalf("frame %d: vocal energy = %v, want 0", i, res.VocalEnergy)
		}
	}
}

// TestPipelineTracksSungTone feeds a sustained 220 Hz tone and checks the
// detailed-analysis frames report the right pitch, note and a clean
// harmonic tone, with every confidence inside its contract range.
func TestPipelineTracksSungTone(t *testing.T) {
	p := NewPipeline(48000, 512)

	var sawPitch bool
	var last FrameResult
	for i := 0; i < 60; i++ {
		frame := sineChunk(220, 0.5, 48000, i*512, 512)
		last = p.Update(frame)

		if last.VoiceConfidence < 0 || last.VoiceConfidence > 1 {
			t.Fatalf("frame %d: voice confidence %v outside [0,1]", i, last.VoiceConfidence)
		}
		if last.PitchConfidence < 0 || last.PitchConfidence > 1 {
			t.Fatalf("frame %d: pitch confidence %v outside [0,1]", i, last.PitchConfidence)
		}
		if last.HNR < 0 || last.HNR > 40 {
			t.Fatalf("frame %d: hnr %v outside [0,40]", i, last.HNR)
		}
		if len(last.Formants) > 4 {
			t.Fatalf("frame %d: %d formants", i, len(last.Formants))
		}

		if last.HasVoice && last.Pitch > 0 && last.PitchNote != "" {
			sawPitch = true
			if math.Abs(last.Pitch-220) > 2 {
				t.Fatalf("frame %d: pitch %v, want 220 +/- 2", i, last.Pitch)
			}
			if last.PitchNote != "A3" {
				t.Fatalf("frame %d: note %q, want A3", i, last.PitchNote)
			}
		}
	}

	if !sawPitch {
		t.Fatal("no frame reported a voiced pitch for a sustained tone")
	}
	if !last.HasVoice {
		t.Fatal("expected the final frame to be voiced")
	}
}

// TestPipelineSkippedFramesReusePitch: odd frames skip the full stack but
// must still report voice with the cached pitch once history exists.
func TestPipelineSkippedFramesReusePitch(t *testing.T) {
	p := NewPipeline(48000, 512)

	var sawCached bool
	for i := 0; i < 40; i++ {
		frame := sineChunk(220, 0.5, 48000, i*512, 512)
		res := p.Update(frame)

		// Cached frames carry a pitch but no note (the note is only
		// computed by the full analysis).
		if res.HasVoice && res.Pitch > 0 && res.PitchNote == "" {
			sawCached = true
			if res.VoiceConfidence < 0.3 || res.VoiceConfidence > 0.7 {
				t.Fatalf("frame %d: cached confidence %v outside [0.3, 0.7]", i, res.VoiceConfidence)
			}
			if res.VoiceType == "unknown" {
				t.Fatalf("frame %d: cached frame left voice type unclassified", i)
			}
		}
	}
	if !sawCached {
		t.Fatal("no skipped frame reused the pitch history")
	}
}

// TestPipelineReturnsToSilence: after voiced frames, zero chunks must
// eventually drain the hangover and report inactive (idempotence toward
// the quiescent state).
func TestPipelineReturnsToSilence(t *testing.T) {
	p := NewPipeline(48000, 512)

	for i := 0; i < 30; i++ {
		p.Update(sineChunk(220, 0.5, 48000, i*512, 512))
	}

	silent := make([]float64, 512)
	stillVoiced := true
	for i := 0; i < 30; i++ {
		if !p.Update(silent).HasVoice {
			stillVoiced = false
			break
		}
	}
	if stillVoiced {
		t.Fatal("voice still asserted after 30 silent chunks")
	}
}
