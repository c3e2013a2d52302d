package drums

import "time"

// DrumResult is the unified per-frame output of DrumPipeline: the kick,
// snare and groove results plus the derived BPM and beat flags.
type DrumResult struct {
	Kick            KickResult
	Snare           SnareResult
	Groove          GrooveResult
	BPM             float64
	BeatDetected    bool
	SimultaneousHit bool
}

// legacyKickRing is a fixed-capacity 8-entry ring of kick timestamps
// used only for DrumPipeline's kick-interval BPM estimate, kept
// alongside the groove tracker's stable BPM for backwards
// compatibility.
type legacyKickRing struct {
	buf [8]time.Time
	len int
	pos int
}

func (r *legacyKickRing) push(t time.Time) {
	r.buf[r.pos] = t
	r.pos = (r.pos + 1) % len(r.buf)
	if r.len < len(r.buf) {
		r.len++
	}
}

func (r *legacyKickRing) all() []time.Time {
	out := make([]time.Time, r.len)
	start := (r.pos - r.len + len(r.buf)) % len(r.buf)
	for i := 0; i < r.len; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// DrumPipeline composes KickDetector, SnareDetector and GrooveAnalyzer
// into one per-frame update.
type DrumPipeline struct {
	kick   *KickDetector
	snare  *SnareDetector
	groove *GrooveAnalyzer

	kickTimes legacyKickRing
	legacyBPM float64
}

// NewDrumPipeline creates a pipeline for the given sample rate and
// sensitivity.
func NewDrumPipeline(sampleRate int, sensitivity float64) *DrumPipeline {
	return &DrumPipeline{
		kick:   NewKickDetector(sampleRate, sensitivity),
		snare:  NewSnareDetector(sampleRate, sensitivity),
		groove: NewGrooveAnalyzer(),
	}
}

// Update processes one frame's magnitude spectrum at the given monotonic
// time and returns the unified drum result.
func (p *DrumPipeline) Update(magnitude []float64, now time.Time) DrumResult {
	kick := p.kick.Update(magnitude, now)
	snare := p.snare.Update(magnitude, now)
	groove := p.groove.Update(kick.Detected, snare.Detected, kick.Strength, snare.Strength, now)

	if kick.Detected {
		times := p.kickTimes.all()
		p.kickTimes.push(now)
		if len(times) >= 1 {
			var intervals []float64
			all := append(times, now)
			for i := 1; i < len(all); i++ {
				d := all[i].Sub(all[i-1]).Seconds()
				if d > 0.3 && d < 2.0 {
					intervals = append(intervals, d)
				}
			}
			if len(intervals) > 0 {
				sum := 0.0
				for _, v := range intervals {
					sum += v
				}
				avg := sum / float64(len(intervals))
				p.legacyBPM = 60.0 / avg
			}
		}
	}

	return DrumResult{
		Kick:            kick,
		Snare:           snare,
		Groove:          groove,
		BPM:             max(p.legacyBPM, groove.StableBPM),
		BeatDetected:    kick.Detected || snare.Detected,
		SimultaneousHit: kick.Detected && snare.Detected,
	}
}
