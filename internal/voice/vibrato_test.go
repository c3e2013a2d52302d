package voice

import (
	"math"
	"testing"
)

// modulatedPitchSeries synthesises a pitch track around centre Hz with
// the given modulation depth and rate, sampled at the ~30 FPS analysis
// frame rate.
func modulatedPitchSeries(centre, depth, rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) * 0.033
		out[i] = centre + depth*math.Sin(2*math.Pi*rate*t)
	}
	return out
}

func TestVibratoDetectedAtSixHertz(t *testing.T) {
	det := NewVibratoDetector()

	series := modulatedPitchSeries(300, 6, 6, 30)
	v := det.Detect(series)
	if v == nil {
		t.Fatal("expected a vibrato result for a full history")
	}
	if !v.Detected {
		t.Fatalf("expected vibrato detected, strength %v rate %v", v.Strength, v.RateHz)
	}
	if v.RateHz < 5.5 || v.RateHz > 6.5 {
		t.Errorf("rate = %v Hz, want in [5.5, 6.5]", v.RateHz)
	}
}

func TestVibratoRequiresHistory(t *testing.T) {
	det := NewVibratoDetector()
	if v := det.Detect(modulatedPitchSeries(300, 6, 6, 10)); v != nil {
		t.Fatalf("expected nil for a short history, got %+v", v)
	}
}

func TestVibratoIgnoresUnvoicedEntries(t *testing.T) {
	det := NewVibratoDetector()

	series := modulatedPitchSeries(300, 6, 6, 15)
	for i := 0; i < 10; i++ {
		series = append(series, 0)
	}
	if v := det.Detect(series); v != nil {
		t.Fatalf("expected nil when voiced entries fall short of the minimum, got %+v", v)
	}
}

func TestVibratoSteadyPitchNotDetected(t *testing.T) {
	det := NewVibratoDetector()

	v := det.Detect(modulatedPitchSeries(300, 0, 0, 30))
	if v == nil {
		t.Fatal("expected a result for a full steady history")
	}
	if v.Detected {
		t.Fatalf("steady pitch flagged as vibrato, strength %v", v.Strength)
	}
}

func TestDetrendRemovesLinearRamp(t *testing.T) {
	ramp := make([]float64, 20)
	for i := range ramp {
		ramp[i] = 100 + 3*float64(i)
	}
	for i, v := range detrend(ramp) {
		if math.Abs(v) > 1e-6 {
			t.Fatalf("detrended[%d] = %v, want ~0", i, v)
		}
	}
}
