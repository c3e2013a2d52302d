package decoders

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavSource decodes PCM WAV files via go-audio/wav, downmixing to mono
// by averaging interleaved channels.
type wavSource struct {
	decoder    *wav.Decoder
	file       *os.File
	sampleRate int
	bitDepth   int
	numChans   int
}

func newWAVSource(filename string) (Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("decoders: open %s: %w", filename, err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("decoders: %s is not a valid WAV file", filename)
	}
	if err := dec.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("decoders: seek to PCM data in %s: %w", filename, err)
	}

	return &wavSource{
		decoder:    dec,
		file:       f,
		sampleRate: int(dec.SampleRate),
		bitDepth:   int(dec.BitDepth),
		numChans:   int(dec.NumChans),
	}, nil
}

func (s *wavSource) ReadChunk(numSamples int) ([]float64, error) {
	intBuf := &audio.IntBuffer{
		Data: make([]int, numSamples*s.numChans),
		Format: &audio.Format{
			NumChannels: s.numChans,
			SampleRate:  s.sampleRate,
		},
	}

	n, err := s.decoder.PCMBuffer(intBuf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoders: read PCM buffer: %w", err)
	}
	if n == 0 {
		return nil, io.EOF
	}

	maxVal := float64(audio.IntMaxSignedValue(s.bitDepth))
	frames := n / s.numChans
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < s.numChans; c++ {
			sum += float64(intBuf.Data[i*s.numChans+c])
		}
		samples[i] = (sum / float64(s.numChans)) / maxVal
	}
	return samples, nil
}

func (s *wavSource) SampleRate() int  { return s.sampleRate }
func (s *wavSource) NumChannels() int { return s.numChans }

func (s *wavSource) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// openByExtension dispatches to the decoder matching filename's extension.
func openByExtension(filename string) (Source, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		return newWAVSource(filename)
	case ".flac":
		return newFLACSource(filename)
	case ".mp3":
		return newMP3Source(filename)
	default:
		return nil, fmt.Errorf("decoders: unsupported file extension %q", filepath.Ext(filename))
	}
}
