// Package drums implements multi-band spectral-flux onset detection for
// kick and snare hits, plus tempo and groove-pattern tracking fed by
// those onsets.
package drums

// HitKind distinguishes the two onset types the groove tracker correlates
// against pattern templates.
type HitKind int

const (
	HitKick HitKind = iota
	HitSnare
)

// KickResult is the per-frame output of KickDetector. Diagnostic fields
// (the flux/threshold values) are exposed on the result so higher layers
// can render or log them; nothing downstream depends on them for
// correctness.
type KickResult struct {
	Detected        bool
	Strength        float64 // instantaneous strength, clamped to [0, 1]
	Velocity        int     // instantaneous velocity, [0, 127]
	DisplayStrength float64 // persisted/decayed for UI consumption
	DisplayVelocity float64

	SubFlux       float64
	BodyFlux      float64
	ClickFlux     float64
	SubThreshold  float64
	BodyThreshold float64
}

// SnareResult is the per-frame output of SnareDetector.
type SnareResult struct {
	Detected        bool
	Strength        float64
	Velocity        int
	DisplayStrength float64
	DisplayVelocity float64

	FundamentalFlux  float64
	BodyFlux         float64
	SnapFlux         float64
	RattleFlux       float64
	SpectralCentroid float64
}

// GrooveResult is the per-frame output of GrooveAnalyzer.
type GrooveResult struct {
	StableBPM      float64
	Stability      float64 // 0-1, higher means steadier tempo candidates
	Pattern        string  // name of the matched pattern, or "unknown"/"no_tempo"/"insufficient_data"
	PatternScore   float64
	PatternLocked  bool
	BeatConfidence float64
	TempoStd       float64
	ActiveBeats    int
}
