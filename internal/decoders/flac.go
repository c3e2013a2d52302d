package decoders

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// flacSource decodes FLAC files via mewkiz/flac, downmixing multi-channel
// audio to mono by averaging and normalising each sample by its bit
// depth. Leftover samples are buffered across FLAC frame boundaries.
type flacSource struct {
	stream     *flac.Stream
	file       *os.File
	sampleRate int
	numChans   int
	buffer     []float64
}

func newFLACSource(filename string) (Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("decoders: open %s: %w", filename, err)
	}
	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoders: parse FLAC %s: %w", filename, err)
	}
	info := stream.Info
	return &flacSource{
		stream:     stream,
		file:       f,
		sampleRate: int(info.SampleRate),
		numChans:   int(info.NChannels),
	}, nil
}

func (s *flacSource) ReadChunk(numSamples int) ([]float64, error) {
	samples := make([]float64, 0, numSamples)

	if len(s.buffer) > 0 {
		take := numSamples
		if take > len(s.buffer) {
			take = len(s.buffer)
		}
		samples = append(samples, s.buffer[:take]...)
		s.buffer = s.buffer[take:]
	}

	for len(samples) < numSamples {
		fr, err := s.stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				if len(samples) == 0 {
					return nil, io.EOF
				}
				return samples, nil
			}
			return nil, fmt.Errorf("decoders: parse FLAC frame: %w", err)
		}
		decodeFLACFrame(fr, &samples, &s.buffer, numSamples)
	}

	return samples, nil
}

// decodeFLACFrame downmixes a FLAC frame's subframes to mono float64,
// normalising by the frame's bit depth, appending to samples until
// numSamples is reached and spilling any remainder into buffer for the
// next ReadChunk call.
func decodeFLACFrame(fr *frame.Frame, samples, buffer *[]float64, numSamples int) {
	bitsPerSample := fr.BitsPerSample
	maxVal := float64(int64(1) << (bitsPerSample - 1))

	n := len(fr.Subframes[0].Samples)
	for i := 0; i < n; i++ {
		var sum float64
		for _, sf := range fr.Subframes {
			sum += float64(sf.Samples[i])
		}
		normalized := (sum / float64(len(fr.Subframes))) / maxVal

		if len(*samples) < numSamples {
			*samples = append(*samples, normalized)
		} else {
			*buffer = append(*buffer, normalized)
		}
	}
}

func (s *flacSource) SampleRate() int  { return s.sampleRate }
func (s *flacSource) NumChannels() int { return s.numChans }

func (s *flacSource) Close() error {
	if s.stream != nil {
		s.stream.Close()
	}
	return s.file.Close()
}
