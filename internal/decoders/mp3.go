package decoders

import (
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// mp3Source decodes MP3 files via hajimehoshi/go-mp3, which always
// outputs interleaved 16-bit stereo regardless of the source file's
// channel count; this downmixes to mono by averaging.
type mp3Source struct {
	decoder    *mp3.Decoder
	file       *os.File
	sampleRate int
}

func newMP3Source(filename string) (Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("decoders: open %s: %w", filename, err)
	}
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoders: create MP3 decoder for %s: %w", filename, err)
	}
	return &mp3Source{
		decoder:    dec,
		file:       f,
		sampleRate: dec.SampleRate(),
	}, nil
}

func (s *mp3Source) ReadChunk(numSamples int) ([]float64, error) {
	// go-mp3 emits interleaved 16-bit stereo: L0 R0 L1 R1 ...; 4 bytes per
	// stereo frame, one frame per mono output sample.
	buf := make([]byte, numSamples*4)
	n, err := io.ReadFull(s.decoder, buf)
	if n == 0 {
		if err != nil {
			return nil, io.EOF
		}
	}
	frames := n / 4
	if frames == 0 {
		return nil, io.EOF
	}

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		left := int16(buf[i*4]) | int16(buf[i*4+1])<<8
		right := int16(buf[i*4+2]) | int16(buf[i*4+3])<<8
		samples[i] = (float64(left) + float64(right)) / 2.0 / 32768.0
	}

	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if err == io.EOF {
		return samples, io.EOF
	}
	return samples, nil
}

func (s *mp3Source) SampleRate() int  { return s.sampleRate }
func (s *mp3Source) NumChannels() int { return 2 }

func (s *mp3Source) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
