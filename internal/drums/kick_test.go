package drums

import (
	"math"
	"testing"
	"time"
)

// syntheticKickMagnitude returns a magnitude spectrum with energy
// concentrated in the kick sub/body bands when active is true, else a
// quiet noise floor.
func syntheticKickMagnitude(n int, active bool, nyquist float64) []float64 {
	mag := make([]float64, n)
	binWidth := nyquist / float64(n)
	for k := range mag {
		f := float64(k) * binWidth
		mag[k] = 0.001
		if active && f >= kickSubLo && f < kickBodyHi {
			mag[k] = 1.0
		}
	}
	return mag
}

func TestKickDetectorRequiresHistoryWarmup(t *testing.T) {
	det := NewKickDetector(48000, 1.0)
	n := 1025
	now := time.Now()
	for i := 0; i < 9; i++ {
		res := det.Update(syntheticKickMagnitude(n, i%2 == 0, 24000), now)
		if res.Detected {
			t.Fatalf("frame %d: detected before history warmup (need >=10 values)", i)
		}
		now = now.Add(time.Second) // avoid refractory interference during warmup
	}
}

// TestKickDetectorRefractoryGate warms the flux histories on a quiet
// floor (so the adaptive thresholds sit at the floor level), fires one
// burst, then checks the 100ms refractory gate suppresses a second burst
// that arrives too soon.
func TestKickDetectorRefractoryGate(t *testing.T) {
	det := NewKickDetector(48000, 1.0)
	n := 1025
	now := time.Now()

	// Quiet-floor warmup: spikes must stay sparse in the 21-frame history
	// or the median/MAD threshold rises above the burst flux itself.
	for i := 0; i < 12; i++ {
		det.Update(syntheticKickMagnitude(n, false, 24000), now)
		now = now.Add(200 * time.Millisecond)
	}

	now = now.Add(200 * time.Millisecond)
	first := det.Update(syntheticKickMagnitude(n, true, 24000), now) // quiet->loud burst
	if !first.Detected {
		t.Fatalf("expected a quiet->loud transition to be detected as a kick")
	}

	// A second burst 40ms later must be suppressed by the refractory gate.
	now = now.Add(40 * time.Millisecond)
	det.Update(syntheticKickMagnitude(n, false, 24000), now) // quiet
	now = now.Add(40 * time.Millisecond)
	second := det.Update(syntheticKickMagnitude(n, true, 24000), now) // loud again, 80ms after first
	if second.Detected {
		t.Fatalf("expected refractory gate to suppress detection within 100ms of the first")
	}

	// Well past the refractory window, a fresh burst should be allowed.
	now = now.Add(200 * time.Millisecond)
	det.Update(syntheticKickMagnitude(n, false, 24000), now)
	now = now.Add(200 * time.Millisecond)
	third := det.Update(syntheticKickMagnitude(n, true, 24000), now)
	if !third.Detected {
		t.Fatalf("expected detection to resume after the refractory window")
	}
}

func TestKickDisplayPersistenceDecaysAndZeros(t *testing.T) {
	det := NewKickDetector(48000, 1.0)
	n := 1025
	now := time.Now()

	for i := 0; i < 12; i++ {
		det.Update(syntheticKickMagnitude(n, false, 24000), now)
		now = now.Add(10 * time.Millisecond)
	}
	res := det.Update(syntheticKickMagnitude(n, true, 24000), now)
	if res.DisplayStrength <= 0 {
		t.Fatalf("expected positive display strength right after detection")
	}

	prev := res.DisplayStrength
	now = now.Add(250 * time.Millisecond) // past the 200ms hold period
	for i := 0; i < 100; i++ {
		res = det.Update(syntheticKickMagnitude(n, false, 24000), now)
		if res.DisplayStrength > 0 {
			if res.DisplayStrength > prev+1e-9 {
				t.Fatalf("display strength increased during decay: %v -> %v", prev, res.DisplayStrength)
			}
			prev = res.DisplayStrength
		}
		now = now.Add(10 * time.Millisecond)
	}
	if res.DisplayStrength != 0 || res.DisplayVelocity != 0 {
		t.Fatalf("expected display strength/velocity to reach exactly zero, got %v/%v", res.DisplayStrength, res.DisplayVelocity)
	}
}

func TestKickStrengthClampedToUnitInterval(t *testing.T) {
	det := NewKickDetector(48000, 1.0)
	n := 1025
	now := time.Now()
	for i := 0; i < 12; i++ {
		det.Update(syntheticKickMagnitude(n, false, 24000), now)
		now = now.Add(10 * time.Millisecond)
	}
	now = now.Add(200 * time.Millisecond)
	res := det.Update(syntheticKickMagnitude(n, true, 24000), now)
	if res.Strength < 0 || res.Strength > 1 {
		t.Fatalf("strength %v out of [0,1]", res.Strength)
	}
	if res.Velocity < 0 || res.Velocity > 127 {
		t.Fatalf("velocity %v out of [0,127]", res.Velocity)
	}
	if math.IsNaN(res.Strength) {
		t.Fatalf("strength is NaN")
	}
}
