package dsp

import "math"

// BarBinning is the immutable mapping from bar index to the set of FFT bin
// indices whose magnitudes average into that bar. Every bar holds at least
// one bin.
type BarBinning struct {
	bins [][]int
}

// Bars returns the number of bars in the binning.
func (b BarBinning) Bars() int { return len(b.bins) }

// BinsFor returns the bin indices feeding bar i.
func (b BarBinning) BinsFor(i int) []int { return b.bins[i] }

// BandMapper projects an FFT magnitude spectrum onto N display bars using
// the piecewise frequency allocation described in the component design:
// 60% of bars span 20-500 Hz (40% of those linear 20-80 Hz, the rest
// linear 80-500 Hz), 30% span 500-5000 Hz log-spaced, and the remaining
// 10% span 5000 Hz to max_freq log-spaced.
type BandMapper struct {
	binning BarBinning
	centres []float64
}

// NewBandMapper builds the bar binning for the given bar count, FFT bin
// frequencies (as returned by Processor.Freqs), and maximum displayed
// frequency.
func NewBandMapper(bars int, binFreqs []float64, maxFreq float64) *BandMapper {
	edges := bandEdges(bars, maxFreq)

	bins := make([][]int, bars)
	centres := make([]float64, bars)
	for i := 0; i < bars; i++ {
		lo, hi := edges[i], edges[i+1]
		centres[i] = (lo + hi) / 2
		var members []int
		for k, f := range binFreqs {
			if f >= lo && f < hi {
				members = append(members, k)
			}
		}
		if len(members) == 0 {
			mid := (lo + hi) / 2
			members = []int{nearestBin(binFreqs, mid)}
		}
		bins[i] = members
	}

	return &BandMapper{binning: BarBinning{bins: bins}, centres: centres}
}

// Binning returns the computed bar binning.
func (m *BandMapper) Binning() BarBinning { return m.binning }

// Centres returns each bar's centre frequency (Hz), the midpoint of its
// [lo, hi) band, used by BarSmoother to pick attack/release rates.
func (m *BandMapper) Centres() []float64 { return m.centres }

// Apply averages magnitude into m.Binning()'s bars, writing into out (which
// must have length Binning().Bars()).
func (m *BandMapper) Apply(magnitude []float64, out []float64) {
	for i, members := range m.binning.bins {
		var sum float64
		for _, k := range members {
			if k < len(magnitude) {
				sum += magnitude[k]
			}
		}
		out[i] = sum / float64(len(members))
	}
}

// bandEdges computes the bars+1 frequency boundaries for the piecewise
// allocation: 60% low (20-500 Hz, split 40/60 into 20-80 and 80-500
// linear sub-bands), 30% mid (500-5000 Hz log), 10% high (5000-max log).
func bandEdges(bars int, maxFreq float64) []float64 {
	const (
		lowFreq  = 20.0
		lowSplit = 80.0
		midFreq  = 500.0
		highFreq = 5000.0
	)

	numLow := int(math.Round(0.6 * float64(bars)))
	numMid := int(math.Round(0.3 * float64(bars)))
	numHigh := bars - numLow - numMid
	if numHigh < 0 {
		numHigh = 0
	}

	numLowA := int(math.Round(0.4 * float64(numLow)))
	numLowB := numLow - numLowA

	top := maxFreq
	if top <= highFreq {
		top = highFreq + 1
	}

	type segment struct {
		n   int
		hi  float64
		log bool
	}
	segments := []segment{
		{numLowA, lowSplit, false},
		{numLowB, midFreq, false},
		{numMid, highFreq, true},
		{numHigh, top, true},
	}

	edges := []float64{lowFreq}
	cursor := lowFreq
	for _, seg := range segments {
		if seg.n <= 0 {
			cursor = seg.hi
			continue
		}
		var pts []float64
		if seg.log {
			pts = logspace(cursor, seg.hi, seg.n)
		} else {
			pts = linspace(cursor, seg.hi, seg.n)
		}
		edges = append(edges, pts[1:]...)
		cursor = seg.hi
	}

	// Degenerate bar counts (e.g. bars < 5) can leave edges short of
	// bars+1 when an early segment absorbed a rounding remainder; pad
	// with tiny increments so every bar still gets a non-empty,
	// strictly increasing [lo, hi) range.
	for len(edges) < bars+1 {
		edges = append(edges, edges[len(edges)-1]+1e-6)
	}
	if len(edges) > bars+1 {
		edges = edges[:bars+1]
	}
	return edges
}

// linspace returns n+1 linearly spaced points from lo to hi inclusive (n
// sub-bars). For n==0 it returns just [lo].
func linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{lo}
	}
	pts := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = lo + (hi-lo)*float64(i)/float64(n)
	}
	return pts
}

// logspace returns n+1 logarithmically spaced points from lo to hi
// inclusive (n sub-bars). For n==0 it returns just [lo].
func logspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{lo}
	}
	logLo, logHi := math.Log10(lo), math.Log10(hi)
	pts := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = math.Pow(10, logLo+(logHi-logLo)*float64(i)/float64(n))
	}
	return pts
}

func nearestBin(freqs []float64, target float64) int {
	best, bestDist := 0, math.Inf(1)
	for k, f := range freqs {
		d := math.Abs(f - target)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}
	return best
}
