// Package wav reads and writes whole wav files.
package wav

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmFormat is the wav audio format of integer PCM.
const pcmFormat = 1

var (
	// ErrInvalidFile is returned when file is not a valid wav.
	ErrInvalidFile = errors.New("wav is not valid")
	// ErrUnsupportedFormat is returned for non-PCM wav files.
	ErrUnsupportedFormat = errors.New("only integer PCM wav is supported")
	// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
	ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32 bit depth is supported")
)

// Asset is a fully decoded wav file.
type Asset struct {
	// Data holds samples, first dimension is channel.
	Data       [][]float64
	SampleRate int
	BitDepth   int
}

// NumChannels returns number of channels in asset.
func (a Asset) NumChannels() int {
	return len(a.Data)
}

// Size returns number of frames in asset.
func (a Asset) Size() int {
	if len(a.Data) == 0 {
		return 0
	}
	return len(a.Data[0])
}

// Read decodes the whole file into memory.
func Read(path string) (Asset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Asset{}, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return Asset{}, fmt.Errorf("%s: %w", path, ErrInvalidFile)
	}
	if decoder.WavAudioFormat != pcmFormat {
		return Asset{}, fmt.Errorf("%s: format %d: %w", path, decoder.WavAudioFormat, ErrUnsupportedFormat)
	}
	bitDepth := int(decoder.BitDepth)
	if !supported(bitDepth) {
		return Asset{}, fmt.Errorf("%s: %d bit: %w", path, bitDepth, ErrUnsupportedBitDepth)
	}

	ib, err := decoder.FullPCMBuffer()
	if err != nil {
		return Asset{}, fmt.Errorf("%s: %w", path, err)
	}
	numChannels := int(decoder.NumChans)
	return Asset{
		Data:       deinterleave(ib.Data, numChannels, bitDepth),
		SampleRate: int(decoder.SampleRate),
		BitDepth:   bitDepth,
	}, nil
}

// Write encodes asset into a new file. Existing file is truncated.
func Write(path string, a Asset) error {
	if !supported(a.BitDepth) {
		return fmt.Errorf("%d bit: %w", a.BitDepth, ErrUnsupportedBitDepth)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	numChannels := a.NumChannels()
	e := wav.NewEncoder(f, a.SampleRate, a.BitDepth, numChannels, pcmFormat)
	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  a.SampleRate,
		},
		Data:           interleave(a.Data, a.BitDepth),
		SourceBitDepth: a.BitDepth,
	}
	if err = e.Write(ib); err != nil {
		e.Close()
		f.Close()
		return err
	}
	if err = e.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func supported(bitDepth int) bool {
	return bitDepth == 16 || bitDepth == 24 || bitDepth == 32
}

// maxValue returns the scale of the signed integer with provided bit depth.
func maxValue(bitDepth int) float64 {
	return float64(int64(1) << uint(bitDepth-1))
}

// deinterleave converts PCM data into per-channel samples in [-1, 1).
func deinterleave(data []int, numChannels, bitDepth int) [][]float64 {
	if numChannels == 0 {
		return nil
	}
	scale := 1 / maxValue(bitDepth)
	frames := len(data) / numChannels
	out := make([][]float64, numChannels)
	for c := range out {
		out[c] = make([]float64, frames)
		for i := range out[c] {
			out[c][i] = float64(data[i*numChannels+c]) * scale
		}
	}
	return out
}

// interleave converts per-channel samples into PCM data. Values outside of
// [-1, 1] are clipped and NaN is written as silence.
func interleave(data [][]float64, bitDepth int) []int {
	numChannels := len(data)
	if numChannels == 0 {
		return nil
	}
	scale := maxValue(bitDepth)
	frames := len(data[0])
	out := make([]int, frames*numChannels)
	for c := range data {
		for i, v := range data[c] {
			if math.IsNaN(v) {
				v = 0
			}
			s := math.Round(v * scale)
			switch {
			case s > scale-1:
				s = scale - 1
			case s < -scale:
				s = -scale
			}
			out[i*numChannels+c] = int(s)
		}
	}
	return out
}
