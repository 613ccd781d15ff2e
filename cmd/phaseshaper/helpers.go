package main

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/cwbudde/algo-phaseshaper/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f64"
)

const (
	monoChannels   = 1
	stereoChannels = 2

	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavFormatPCM = 1
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

// openWAVInput opens and validates a PCM WAV file.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if _, err := maxValue(bitDepth); err != nil {
		_ = f.Close()
		return nil, err
	}

	if format.NumChannels < 1 {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s: no channels", path)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	return &wavInputInfo{
		file:     f,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: bitDepth,
		format:   format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates a PCM WAV file for writing.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    f,
		encoder: wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved samples.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	w.buf.Data = samples

	return w.encoder.Write(w.buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}

	return w.file.Close()
}

// processBuffers holds the preallocated buffers of the processing loop.
type processBuffers struct {
	intBuffer   *audio.IntBuffer
	channelBufs [][]float64
	scratch     []float64
	outputInt   []int
	invMaxVal   float64
	maxVal      float64
}

func newProcessBuffers(channels, bitDepth, frames int, format *audio.Format) *processBuffers {
	channelBufs := make([][]float64, channels)
	for ch := range channels {
		channelBufs[ch] = make([]float64, frames)
	}

	// Bit depth was validated when the input was opened.
	maxVal, _ := maxValue(bitDepth)

	return &processBuffers{
		intBuffer: &audio.IntBuffer{
			Data:           make([]int, frames*channels),
			Format:         format,
			SourceBitDepth: bitDepth,
		},
		channelBufs: channelBufs,
		scratch:     make([]float64, frames*channels),
		outputInt:   make([]int, frames*channels),
		invMaxVal:   1 / maxVal,
		maxVal:      maxVal,
	}
}

// maxValue returns the full-scale value for a PCM bit depth.
func maxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d (want 16, 24 or 32)", bitDepth)
	}
}

// deinterleaveInto splits interleaved PCM into per-channel buffers scaled
// to [-1, 1]. frames samples of every channel buffer are written.
func deinterleaveInto(data []int, channelBufs [][]float64, frames int, invMaxVal float64) {
	numChannels := len(channelBufs)

	switch numChannels {
	case monoChannels:
		buf := channelBufs[0][:frames]
		for i := range buf {
			buf[i] = float64(data[i])
		}
	case stereoChannels:
		left, right := channelBufs[0][:frames], channelBufs[1][:frames]
		for i := range frames {
			left[i] = float64(data[2*i])
			right[i] = float64(data[2*i+1])
		}
	default:
		for i := range frames {
			base := i * numChannels
			for ch := range numChannels {
				channelBufs[ch][i] = float64(data[base+ch])
			}
		}
	}

	for ch := range channelBufs {
		buf := channelBufs[ch][:frames]
		f64.Scale(buf, buf, invMaxVal)
	}
}

// interleaveInto merges frames samples of every channel into dst as PCM,
// clamping to full scale. scratch must hold frames*channels values.
// It returns the filled prefix of dst.
func interleaveInto(channelBufs [][]float64, frames int, dst []int, scratch []float64, maxVal float64) []int {
	numChannels := len(channelBufs)
	total := frames * numChannels
	mixed := scratch[:total]

	switch numChannels {
	case monoChannels:
		core.CopyInto(mixed, channelBufs[0][:frames])
	case stereoChannels:
		f64.Interleave2(mixed, channelBufs[0][:frames], channelBufs[1][:frames])
	default:
		for i := range frames {
			base := i * numChannels
			for ch := range numChannels {
				mixed[base+ch] = channelBufs[ch][i]
			}
		}
	}

	f64.Scale(mixed, mixed, maxVal)

	out := dst[:total]
	for i, v := range mixed {
		out[i] = int(math.Round(max(-maxVal, min(maxVal, v))))
	}

	return out
}
