package drums

import (
	"math"
	"time"
)

// hit is one recorded onset in GrooveAnalyzer's beat grid.
type hit struct {
	t        time.Time
	kind     HitKind
	strength float64
}

// hitRing is a fixed-capacity 64-entry circular sequence of recent
// onsets.
type hitRing struct {
	buf [64]hit
	len int
	pos int
}

func (r *hitRing) push(h hit) {
	r.buf[r.pos] = h
	r.pos = (r.pos + 1) % len(r.buf)
	if r.len < len(r.buf) {
		r.len++
	}
}

func (r *hitRing) all() []hit {
	out := make([]hit, r.len)
	start := (r.pos - r.len + len(r.buf)) % len(r.buf)
	for i := 0; i < r.len; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

func (r *hitRing) last(n int) []hit {
	all := r.all()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// intervalRing is a fixed-capacity 8-entry ring of inter-onset
// intervals, one per onset kind.
type intervalRing struct {
	buf [8]time.Duration
	len int
	pos int
}

func (r *intervalRing) push(d time.Duration) {
	r.buf[r.pos] = d
	r.pos = (r.pos + 1) % len(r.buf)
	if r.len < len(r.buf) {
		r.len++
	}
}

func (r *intervalRing) all() []time.Duration {
	out := make([]time.Duration, r.len)
	start := (r.pos - r.len + len(r.buf)) % len(r.buf)
	for i := 0; i < r.len; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// tempoRing is a fixed-capacity 16-entry ring of candidate BPM
// estimates.
type tempoRing struct {
	buf [16]float64
	len int
	pos int
}

func (r *tempoRing) push(v float64) {
	r.buf[r.pos] = v
	r.pos = (r.pos + 1) % len(r.buf)
	if r.len < len(r.buf) {
		r.len++
	}
}

func (r *tempoRing) all() []float64 {
	out := make([]float64, r.len)
	start := (r.pos - r.len + len(r.buf)) % len(r.buf)
	for i := 0; i < r.len; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

var commonBPMs = []float64{60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160, 170, 180}

// GrooveAnalyzer integrates kick/snare onset timestamps into a tempo
// estimate and matches a quantised 16-step beat grid against
// PatternLibrary.
type GrooveAnalyzer struct {
	hits hitRing

	kickIntervals  intervalRing
	snareIntervals intervalRing
	lastKickTime   time.Time
	haveLastKick   bool
	lastSnareTime  time.Time
	haveLastSnare  bool

	tempoCandidates tempoRing
	stableBPM       float64
	groovStability  float64

	patternName     string
	patternConf     float64
	patternLockAt   time.Time
	havePatternLock bool
}

// NewGrooveAnalyzer creates an empty groove tracker.
func NewGrooveAnalyzer() *GrooveAnalyzer {
	return &GrooveAnalyzer{patternName: "insufficient_data"}
}

const patternLockDuration = 8 * time.Second

// Update records this frame's kick/snare detections and returns the
// current groove estimate.
func (g *GrooveAnalyzer) Update(kickDetected, snareDetected bool, kickStrength, snareStrength float64, now time.Time) GrooveResult {
	if kickDetected {
		if g.haveLastKick {
			g.kickIntervals.push(now.Sub(g.lastKickTime))
		}
		g.lastKickTime = now
		g.haveLastKick = true
		g.hits.push(hit{t: now, kind: HitKick, strength: kickStrength})
	}
	if snareDetected {
		if g.haveLastSnare {
			g.snareIntervals.push(now.Sub(g.lastSnareTime))
		}
		g.lastSnareTime = now
		g.haveLastSnare = true
		g.hits.push(hit{t: now, kind: HitSnare, strength: snareStrength})
	}

	allIntervals := append(append([]time.Duration(nil), g.kickIntervals.all()...), g.snareIntervals.all()...)
	if len(allIntervals) >= 3 {
		if bpm := estimateTempo(allIntervals); bpm > 0 {
			g.tempoCandidates.push(bpm)
		}
		if cands := g.tempoCandidates.all(); len(cands) >= 4 {
			g.stableBPM = weightedAverage(cands)
			std := stdDev(cands)
			g.groovStability = math.Max(0, 1-std/20)
		}
	}

	patternName, patternScore := g.matchPattern(now)

	tempoStd := 0.0
	if cands := g.tempoCandidates.all(); len(cands) > 1 {
		tempoStd = stdDev(cands)
	}
	beatConfidence := g.groovStability*0.6 + patternScore*0.4

	return GrooveResult{
		StableBPM:      roundTo(g.stableBPM, 1),
		Stability:      g.groovStability,
		Pattern:        patternName,
		PatternScore:   patternScore,
		PatternLocked:  g.havePatternLock && now.Sub(g.patternLockAt) < patternLockDuration,
		BeatConfidence: beatConfidence,
		TempoStd:       tempoStd,
		ActiveBeats:    g.hits.len,
	}
}

// matchPattern quantises the recent hits onto a 16-step grid and scores
// it against the pattern library, gated on stable BPM, a lock window,
// and a minimum hit count.
func (g *GrooveAnalyzer) matchPattern(now time.Time) (string, float64) {
	recent := g.hits.last(16)
	if len(recent) < 8 {
		return "insufficient_data", g.patternConf
	}
	if g.havePatternLock && now.Sub(g.patternLockAt) < patternLockDuration {
		return g.patternName, g.patternConf
	}
	if g.stableBPM <= 60 {
		return "no_tempo", g.patternConf
	}

	beatInterval := 60.0 / g.stableBPM
	t0 := recent[0].t

	var grid [16]int
	for _, h := range recent {
		rel := h.t.Sub(t0).Seconds()
		slot := int(math.Mod(math.Floor(rel/beatInterval), 16))
		if slot < 0 {
			slot += 16
		}
		grid[slot] = 1
	}

	best := "unknown"
	bestScore := 0.0
	for _, name := range patternNames {
		pattern := PatternLibrary[name]
		matches := 0
		for i := 0; i < 16; i++ {
			if grid[i] == pattern[i] {
				matches++
			}
		}
		score := float64(matches) / 16.0
		if score > bestScore && score > 0.6 {
			bestScore = score
			best = name
		}
	}

	g.patternConf = bestScore
	if bestScore >= 0.8 {
		g.patternName = best
		g.patternLockAt = now
		g.havePatternLock = true
	}
	return best, bestScore
}

// estimateTempo filters intervals to [0.2, 2.0]s, takes the median,
// converts to BPM, and snaps to the nearest common BPM when within
// 8 BPM of it.
func estimateTempo(intervals []time.Duration) float64 {
	var valid []float64
	for _, d := range intervals {
		s := d.Seconds()
		if s >= 0.2 && s <= 2.0 {
			valid = append(valid, s)
		}
	}
	if len(valid) < 2 {
		return 0
	}
	med := median(valid)
	bpm := 60.0 / med

	closest := commonBPMs[0]
	bestDist := math.Abs(bpm - closest)
	for _, c := range commonBPMs[1:] {
		d := math.Abs(bpm - c)
		if d < bestDist {
			bestDist = d
			closest = c
		}
	}
	if bestDist < 8 {
		return closest
	}
	return bpm
}

// weightedAverage computes the exponentially-weighted average of the
// tempo-candidate ring, weights exp(linspace(-1, 0, len)).
func weightedAverage(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	var sumW, sumWV float64
	for i, v := range vals {
		x := -1.0 + float64(i)/float64(n-1)
		if n == 1 {
			x = 0
		}
		w := math.Exp(x)
		sumW += w
		sumWV += w * v
	}
	if sumW == 0 {
		return 0
	}
	return sumWV / sumW
}

func stdDev(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(n)
	var sumSq float64
	for _, v := range vals {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n))
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
