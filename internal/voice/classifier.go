package voice

// voiceRange is one entry of the ordered pitch-range classification table.
type voiceRange struct {
	name   string
	lo, hi float64 // Hz, inclusive
}

// voiceRanges is ordered low voice to high; the first matching range wins,
// so overlapping ranges resolve toward the lower voice type.
var voiceRanges = []voiceRange{
	{"bass", 75, 165},
	{"baritone", 96, 192},
	{"tenor", 123, 246},
	{"alto", 155, 330},
	{"mezzo-soprano", 185, 370},
	{"soprano", 220, 440},
	{"child", 300, 600},
}

// ClassifyVoiceType maps a fundamental frequency and formant list to a
// voice-type label. Pitch-range lookup is primary; formant-based gender
// refinement covers pitches outside every range; a coarse pitch-band
// fallback guarantees a label for any voiced frame.
func ClassifyVoiceType(pitch float64, formants []float64) string {
	if pitch <= 0 {
		return "unknown"
	}

	for _, r := range voiceRanges {
		if pitch >= r.lo && pitch <= r.hi {
			return r.name
		}
	}

	if len(formants) >= 2 {
		f1, f2 := formants[0], formants[1]

		gender := "unknown"
		if f1 < 600 && f2 < 1800 {
			gender = "male"
		} else if f1 > 800 || f2 > 2000 {
			gender = "female"
		}

		switch gender {
		case "male":
			if pitch < 130 {
				return "bass"
			}
			if pitch < 200 {
				return "baritone"
			}
			return "tenor"
		case "female":
			if pitch < 250 {
				return "alto"
			}
			if pitch < 350 {
				return "mezzo-soprano"
			}
			return "soprano"
		}
	}

	switch {
	case pitch > 400:
		return "child"
	case pitch > 250:
		return "soprano"
	case pitch > 180:
		return "alto"
	case pitch > 140:
		return "tenor"
	case pitch > 110:
		return "baritone"
	default:
		return "bass"
	}
}
