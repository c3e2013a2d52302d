package voice

import (
	"fmt"
	"math"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FrequencyToNote converts a frequency to its nearest 12-TET note name
// with octave, referenced to A4 = 440 Hz. Returns "" for non-positive
// frequencies.
func FrequencyToNote(frequency float64) string {
	if frequency <= 0 {
		return ""
	}
	semitonesFromA4 := 12 * math.Log2(frequency/440.0)
	noteNumber := int(math.Round(semitonesFromA4)) + 9 // A4 is note 9 in octave 4
	octave := 4 + floorDiv(noteNumber, 12)
	name := noteNames[mod(noteNumber, 12)]
	return fmt.Sprintf("%s%d", name, octave)
}

// floorDiv is integer division rounding toward negative infinity, so
// sub-C4 notes land in the right octave.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
