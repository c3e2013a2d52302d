package dsp

import "testing"

// TestBarSmoother_NormalisesPeakToOne verifies the bar bank is scaled so
// the tallest bar's target is 1 before smoothing is applied.
func TestBarSmoother_NormalisesPeakToOne(t *testing.T) {
	centres := []float64{100, 1000, 10000}
	s := NewBarSmoother(centres)

	// Repeated identical input converges each bar toward its normalised
	// target; the peak bar must approach exactly 1.
	target := []float64{2, 4, 1}
	var out []float64
	for i := 0; i < 200; i++ {
		out = s.Update(target, Detections{})
	}

	if diff := out[1] - 1; diff < -1e-6 || diff > 0 {
		t.Fatalf("peak bar = %v, want ~1", out[1])
	}
	if diff := out[0] - 0.5; diff < -1e-6 || diff > 1e-6 {
		t.Fatalf("half-peak bar = %v, want ~0.5", out[0])
	}
}

func TestBarSmoother_AllZeroInputStaysZero(t *testing.T) {
	s := NewBarSmoother([]float64{100, 1000})
	out := s.Update([]float64{0, 0}, Detections{})
	for i, v := range out {
		if v != 0 {
			t.Fatalf("bar %d = %v for zero input, want 0", i, v)
		}
	}
}

// TestBarSmoother_AttackFasterOnKick: an active kick raises the low-band
// attack rate, so a low bar rises further in one frame than without it.
func TestBarSmoother_AttackFasterOnKick(t *testing.T) {
	centres := []float64{100}

	plain := NewBarSmoother(centres)
	kicked := NewBarSmoother(centres)

	target := []float64{1}
	a := plain.Update(target, Detections{})[0]
	b := kicked.Update(target, Detections{KickActive: true})[0]

	if b <= a {
		t.Fatalf("kick-boosted attack %v not above plain attack %v", b, a)
	}
}

// TestBarSmoother_ReleaseSlowerThanAttack: after a full-scale frame, one
// zero frame must leave a residual (release < attack) and never go
// negative.
func TestBarSmoother_ReleaseSlowerThanAttack(t *testing.T) {
	s := NewBarSmoother([]float64{100})

	s.Update([]float64{1}, Detections{})
	high := s.Current()[0]
	after := s.Update([]float64{0}, Detections{})[0]

	if after <= 0 || after >= high {
		t.Fatalf("release step went from %v to %v, want a partial decay", high, after)
	}
}

func TestBarSmoother_ClampsToUnitInterval(t *testing.T) {
	s := NewBarSmoother([]float64{100, 600, 3000, 8000})
	target := []float64{5, 50, 500, 5000}
	for i := 0; i < 50; i++ {
		for b, v := range s.Update(target, Detections{VoiceActive: true, IsSinging: true}) {
			if v < 0 || v > 1 {
				t.Fatalf("bar %d = %v outside [0,1]", b, v)
			}
		}
	}
}
