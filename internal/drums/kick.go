package drums

import (
	"math"
	"time"
)

// KickDetector is a three-band (sub/body/click) spectral-flux onset
// detector for kick drum hits. The monotonic clock is an explicit
// parameter rather than time.Now() so the state machine stays
// reproducible in tests.
type KickDetector struct {
	sampleRate  int
	sensitivity float64

	prevMagnitude []float64
	subHist       fluxHistory
	bodyHist      fluxHistory
	clickHist     fluxHistory

	lastKickTime    time.Time
	haveLastKick    bool
	lastDetection   time.Time
	haveLastDisplay bool

	displayStrength float64
	displayVelocity float64
}

// NewKickDetector creates a detector for the given sample rate and
// sensitivity multiplier (default 1.0; it scales the MAD term of the
// adaptive thresholds, so higher values raise them).
func NewKickDetector(sampleRate int, sensitivity float64) *KickDetector {
	return &KickDetector{sampleRate: sampleRate, sensitivity: sensitivity}
}

const (
	kickSubLo, kickSubHi     = 20.0, 60.0
	kickBodyLo, kickBodyHi   = 60.0, 120.0
	kickClickLo, kickClickHi = 2000.0, 5000.0

	kickSubCoeff   = 2.8
	kickBodyCoeff  = 2.8
	kickClickCoeff = 2.8

	kickMinInterval = 100 * time.Millisecond
	kickHoldTime    = 200 * time.Millisecond
	kickDecayRate   = 0.92
	kickZeroFloor   = 0.05
)

// Update processes one frame's magnitude spectrum at time now, the
// caller's single per-frame monotonic-clock reading.
func (k *KickDetector) Update(magnitude []float64, now time.Time) KickResult {
	nyquist := float64(k.sampleRate) / 2
	n := len(magnitude)

	subLo, subHi := binRange(kickSubLo, kickSubHi, n, nyquist)
	bodyLo, bodyHi := binRange(kickBodyLo, kickBodyHi, n, nyquist)
	clickLo, clickHi := binRange(kickClickLo, kickClickHi, n, nyquist)

	var subFlux, bodyFlux, clickFlux float64
	if k.prevMagnitude != nil {
		subFlux = bandFlux(magnitude, k.prevMagnitude, subLo, subHi)
		bodyFlux = bandFlux(magnitude, k.prevMagnitude, bodyLo, bodyHi)
		clickFlux = bandFlux(magnitude, k.prevMagnitude, clickLo, clickHi)
	}
	k.prevMagnitude = append(k.prevMagnitude[:0], magnitude...)

	k.subHist.push(subFlux)
	k.bodyHist.push(bodyFlux)
	k.clickHist.push(clickFlux)

	subThreshold := k.subHist.threshold(k.sensitivity, kickSubCoeff)
	bodyThreshold := k.bodyHist.threshold(k.sensitivity, kickBodyCoeff)
	clickThreshold := k.clickHist.threshold(k.sensitivity, kickClickCoeff)

	timeSinceLast := time.Duration(math.MaxInt64)
	if k.haveLastKick {
		timeSinceLast = now.Sub(k.lastKickTime)
	}

	detected := false
	strength := 0.0
	velocity := 0

	readyHistory := k.subHist.len >= 10 && k.bodyHist.len >= 10
	if readyHistory && timeSinceLast > kickMinInterval &&
		subFlux > subThreshold && bodyFlux > bodyThreshold {
		detected = true
		subTerm := subFlux / (subThreshold + 1e-6)
		bodyTerm := bodyFlux / (bodyThreshold + 1e-6)
		clickTerm := 0.0
		if clickThreshold > 0 {
			clickTerm = clickFlux / (clickThreshold + 1e-6)
		}
		strength = clamp01(0.4*subTerm + 0.5*bodyTerm + 0.1*clickTerm)
		velocity = int(math.Round(strength * 127))
		if velocity > 127 {
			velocity = 127
		}
		k.lastKickTime = now
		k.haveLastKick = true
		k.lastDetection = now
		k.haveLastDisplay = true
	}

	if detected && strength > 0 {
		k.displayStrength = strength
		k.displayVelocity = float64(velocity)
	} else if k.haveLastDisplay && now.Sub(k.lastDetection) > kickHoldTime {
		k.displayStrength *= kickDecayRate
		k.displayVelocity *= kickDecayRate
	}
	if k.displayStrength < kickZeroFloor {
		k.displayStrength = 0
		k.displayVelocity = 0
	}

	return KickResult{
		Detected:        detected,
		Strength:        strength,
		Velocity:        velocity,
		DisplayStrength: k.displayStrength,
		DisplayVelocity: k.displayVelocity,
		SubFlux:         subFlux,
		BodyFlux:        bodyFlux,
		ClickFlux:       clickFlux,
		SubThreshold:    subThreshold,
		BodyThreshold:   bodyThreshold,
	}
}
