package dsp

// FrameWindower maintains a rolling window of the most recent samples and
// produces the Hann-windowed FFT magnitude spectrum over the newest
// fftSize samples each time a chunk is appended.
type FrameWindower struct {
	fftSize   int
	chunkSize int
	ring      []float64 // length 2*fftSize
	writePos  int
	filled    int
	proc      *Processor
}

// NewFrameWindower creates a windower for the given chunk and FFT sizes.
func NewFrameWindower(chunkSize, fftSize int) *FrameWindower {
	return &FrameWindower{
		fftSize:   fftSize,
		chunkSize: chunkSize,
		ring:      make([]float64, 2*fftSize),
		proc:      NewProcessor(fftSize),
	}
}

// Push appends one chunk of samples (length chunkSize) and returns the
// Hann-windowed magnitude spectrum of the newest fftSize samples in
// natural (oldest-to-newest) order. Before the ring has been filled once,
// missing history is treated as silence.
func (w *FrameWindower) Push(chunk []float64) []float64 {
	for _, s := range chunk {
		w.ring[w.writePos] = s
		w.writePos = (w.writePos + 1) % len(w.ring)
	}
	w.filled += len(chunk)
	if w.filled > len(w.ring) {
		w.filled = len(w.ring)
	}

	window := make([]float64, w.fftSize)
	start := (w.writePos - w.fftSize + len(w.ring)) % len(w.ring)
	for i := 0; i < w.fftSize; i++ {
		window[i] = w.ring[(start+i)%len(w.ring)]
	}

	return w.proc.Magnitude(window)
}

// Raw returns the newest fftSize raw (unwindowed) samples in natural order,
// for callers that need time-domain data over the analysis window.
func (w *FrameWindower) Raw() []float64 {
	window := make([]float64, w.fftSize)
	start := (w.writePos - w.fftSize + len(w.ring)) % len(w.ring)
	for i := 0; i < w.fftSize; i++ {
		window[i] = w.ring[(start+i)%len(w.ring)]
	}
	return window
}

// Processor exposes the underlying FFT processor for callers that need
// its FFT-size properties (e.g. core.New reads its bin frequencies).
func (w *FrameWindower) Processor() *Processor { return w.proc }
