// Package decoders supplies file-based PCM sources for the demo harness
// and for tests that need real-file fixtures. None of this package is
// imported by the analysis core; the core only ever consumes raw sample
// chunks handed to it by a caller.
package decoders

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedRate is returned by Open when a file's native sample rate
// does not match the rate the caller asked to analyze at. The analyzer is
// only validated at 48 kHz; rather than silently resampling or
// mis-analyzing, callers are expected to refuse the file.
var ErrUnsupportedRate = errors.New("decoders: file sample rate does not match requested analysis rate")

// EOF is returned by a Source's ReadChunk once the file is exhausted.
var EOF = io.EOF

// Source decodes a single-channel float64 PCM stream from a file, one
// arbitrarily sized chunk at a time.
type Source interface {
	// ReadChunk returns up to numSamples mono samples, scaled to roughly
	// [-1, 1]. It returns io.EOF once no further samples are available.
	ReadChunk(numSamples int) ([]float64, error)

	// SampleRate returns the file's native sample rate in Hz.
	SampleRate() int

	// NumChannels returns the channel count of the decoded stream before
	// the mono downmix: the file's own count for WAV and FLAC, always 2
	// for MP3 (the MP3 decoder outputs stereo).
	NumChannels() int

	// Close releases the underlying file handle.
	Close() error
}

// Open opens filename, dispatching on its extension to the matching
// decoder, and verifies its sample rate matches wantSampleRate.
func Open(filename string, wantSampleRate int) (Source, error) {
	src, err := openByExtension(filename)
	if err != nil {
		return nil, err
	}
	if wantSampleRate > 0 && src.SampleRate() != wantSampleRate {
		src.Close()
		return nil, fmt.Errorf("%w: file is %d Hz, want %d Hz", ErrUnsupportedRate, src.SampleRate(), wantSampleRate)
	}
	return src, nil
}

// ChunkReader re-slices a Source's variable-sized reads into the
// fixed-size chunks the analyzer's Update expects.
type ChunkReader struct {
	src       Source
	chunkSize int
	pending   []float64
	err       error
}

// NewChunkReader wraps src to emit exactly chunkSize samples per Next call.
func NewChunkReader(src Source, chunkSize int) *ChunkReader {
	return &ChunkReader{src: src, chunkSize: chunkSize}
}

// Next returns the next full chunk of chunkSize samples. The final partial
// chunk, if any, is zero-padded so callers never see a short read; io.EOF
// is returned once no samples (partial or otherwise) remain.
func (c *ChunkReader) Next() ([]float64, error) {
	for len(c.pending) < c.chunkSize && c.err == nil {
		more, err := c.src.ReadChunk(c.chunkSize)
		c.pending = append(c.pending, more...)
		if err != nil {
			c.err = err
		}
	}

	if len(c.pending) == 0 {
		if c.err != nil {
			return nil, c.err
		}
		return nil, io.EOF
	}

	n := c.chunkSize
	if n > len(c.pending) {
		n = len(c.pending)
	}
	chunk := make([]float64, c.chunkSize)
	copy(chunk, c.pending[:n])
	c.pending = c.pending[n:]
	return chunk, nil
}
