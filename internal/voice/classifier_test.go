package voice

import "testing"

func TestClassifyVoiceTypeByPitchRange(t *testing.T) {
	cases := []struct {
		pitch float64
		want  string
	}{
		{0, "unknown"},
		{-10, "unknown"},
		{80, "bass"},
		{100, "bass"},     // overlaps baritone; first range wins
		{170, "baritone"}, // above bass, inside baritone
		{200, "tenor"},
		{250, "alto"},
		{340, "mezzo-soprano"},
		{380, "soprano"},
		{450, "child"},
	}
	for _, c := range cases {
		if got := ClassifyVoiceType(c.pitch, nil); got != c.want {
			t.Errorf("ClassifyVoiceType(%v, nil) = %q, want %q", c.pitch, got, c.want)
		}
	}
}

func TestClassifyVoiceTypeFormantRefinement(t *testing.T) {
	// 650 Hz is outside every pitch range, so classification falls to the
	// formant path: low F1/F2 reads as male, high as female.
	if got := ClassifyVoiceType(650, []float64{400, 1200}); got != "tenor" {
		t.Errorf("male formants at 650 Hz = %q, want tenor", got)
	}
	if got := ClassifyVoiceType(650, []float64{900, 2400}); got != "soprano" {
		t.Errorf("female formants at 650 Hz = %q, want soprano", got)
	}
}

func TestClassifyVoiceTypePitchFallback(t *testing.T) {
	// Out-of-range pitch with ambiguous (or missing) formants lands in
	// the coarse pitch-band fallback.
	cases := []struct {
		pitch    float64
		formants []float64
		want     string
	}{
		{650, nil, "child"},
		{650, []float64{700, 1900}, "child"}, // ambiguous gender
		{70, nil, "bass"},
	}
	for _, c := range cases {
		if got := ClassifyVoiceType(c.pitch, c.formants); got != c.want {
			t.Errorf("ClassifyVoiceType(%v, %v) = %q, want %q", c.pitch, c.formants, got, c.want)
		}
	}
}
