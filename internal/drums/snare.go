package drums

import (
	"math"
	"time"
)

// SnareDetector is a four-band spectral-flux onset detector for snare
// drum hits with spectral-centroid gating.
type SnareDetector struct {
	sampleRate  int
	sensitivity float64

	prevMagnitude []float64
	fundHist      fluxHistory
	bodyHist      fluxHistory
	snapHist      fluxHistory
	rattleHist    fluxHistory

	lastSnareTime time.Time
	haveLastSnare bool
	lastDetection time.Time
	haveDisplay   bool

	displayStrength float64
	displayVelocity float64
}

// NewSnareDetector creates a detector for the given sample rate and
// sensitivity multiplier.
func NewSnareDetector(sampleRate int, sensitivity float64) *SnareDetector {
	return &SnareDetector{sampleRate: sampleRate, sensitivity: sensitivity}
}

const (
	snareFundLo, snareFundHi     = 150.0, 400.0
	snareBodyLo, snareBodyHi     = 400.0, 1000.0
	snareSnapLo, snareSnapHi     = 2000.0, 8000.0
	snareRattleLo, snareRattleHi = 8000.0, 15000.0

	snareFundCoeff = 2.5
	snareBodyCoeff = 2.3
	snareSnapCoeff = 2.0

	snareCentroidLo = 800.0
	snareCentroidHi = 6000.0

	snareMinInterval = 80 * time.Millisecond
	snareHoldTime    = 150 * time.Millisecond
	snareDecayRate   = 0.90
	snareZeroFloor   = 0.05
)

// Update processes one frame's magnitude spectrum at time now.
func (s *SnareDetector) Update(magnitude []float64, now time.Time) SnareResult {
	nyquist := float64(s.sampleRate) / 2
	n := len(magnitude)

	fundLo, fundHi := binRange(snareFundLo, snareFundHi, n, nyquist)
	bodyLo, bodyHi := binRange(snareBodyLo, snareBodyHi, n, nyquist)
	snapLo, snapHi := binRange(snareSnapLo, snareSnapHi, n, nyquist)
	rattleLo, rattleHi := binRange(snareRattleLo, snareRattleHi, n, nyquist)

	var fundFlux, bodyFlux, snapFlux, rattleFlux float64
	if s.prevMagnitude != nil {
		fundFlux = bandFlux(magnitude, s.prevMagnitude, fundLo, fundHi)
		bodyFlux = bandFlux(magnitude, s.prevMagnitude, bodyLo, bodyHi)
		snapFlux = bandFlux(magnitude, s.prevMagnitude, snapLo, snapHi)
		rattleFlux = bandFlux(magnitude, s.prevMagnitude, rattleLo, rattleHi)
	}
	s.prevMagnitude = append(s.prevMagnitude[:0], magnitude...)

	s.fundHist.push(fundFlux)
	s.bodyHist.push(bodyFlux)
	s.snapHist.push(snapFlux)
	s.rattleHist.push(rattleFlux)

	centroid := spectralCentroidRange(magnitude, n, nyquist, snareFundLo, snareRattleHi)

	fundThreshold := s.fundHist.threshold(s.sensitivity, snareFundCoeff)
	bodyThreshold := s.bodyHist.threshold(s.sensitivity, snareBodyCoeff)
	snapThreshold := s.snapHist.threshold(s.sensitivity, snareSnapCoeff)

	timeSinceLast := time.Duration(math.MaxInt64)
	if s.haveLastSnare {
		timeSinceLast = now.Sub(s.lastSnareTime)
	}

	detected := false
	strength := 0.0
	velocity := 0

	if s.fundHist.len >= 10 && timeSinceLast > snareMinInterval &&
		centroid >= snareCentroidLo && centroid <= snareCentroidHi &&
		fundFlux > fundThreshold && bodyFlux > bodyThreshold && snapFlux > snapThreshold {
		detected = true
		fundTerm := fundFlux / (fundThreshold + 1e-6)
		bodyTerm := bodyFlux / (bodyThreshold + 1e-6)
		snapTerm := snapFlux / (snapThreshold + 1e-6)
		strength = clamp01(0.2*fundTerm + 0.3*bodyTerm + 0.5*snapTerm)
		velocity = int(math.Round(strength * 127))
		if velocity > 127 {
			velocity = 127
		}
		s.lastSnareTime = now
		s.haveLastSnare = true
		s.lastDetection = now
		s.haveDisplay = true
	}

	if detected && strength > 0 {
		s.displayStrength = strength
		s.displayVelocity = float64(velocity)
	} else if s.haveDisplay && now.Sub(s.lastDetection) > snareHoldTime {
		s.displayStrength *= snareDecayRate
		s.displayVelocity *= snareDecayRate
	}
	if s.displayStrength < snareZeroFloor {
		s.displayStrength = 0
		s.displayVelocity = 0
	}

	return SnareResult{
		Detected:         detected,
		Strength:         strength,
		Velocity:         velocity,
		DisplayStrength:  s.displayStrength,
		DisplayVelocity:  s.displayVelocity,
		FundamentalFlux:  fundFlux,
		BodyFlux:         bodyFlux,
		SnapFlux:         snapFlux,
		RattleFlux:       rattleFlux,
		SpectralCentroid: centroid,
	}
}

// spectralCentroidRange computes the magnitude-weighted mean frequency
// over [loHz, hiHz), the gating feature that distinguishes snare hits
// from kicks and cymbal wash.
func spectralCentroidRange(magnitude []float64, numBins int, nyquist, loHz, hiHz float64) float64 {
	lo, hi := binRange(loHz, hiHz, numBins, nyquist)
	if hi > len(magnitude) {
		hi = len(magnitude)
	}
	binWidth := nyquist / float64(numBins)
	var weighted, total float64
	for k := lo; k < hi; k++ {
		f := float64(k) * binWidth
		weighted += f * magnitude[k]
		total += magnitude[k]
	}
	if total <= 0 {
		return 0
	}
	return weighted / total
}
