package main

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// orbitWidth is the lateral extent of the -orbit sweep. With the
// implicit unit forward offset, ±2 spans roughly ±63 degrees.
const orbitWidth = 2.0

// sourceX returns the source X position for a block starting at the
// given progress through the file. Without orbit it is the static
// base position; with orbit the source sweeps sinusoidally across the
// stage, completing turns full cycles over the file.
func sourceX(base float64, orbit bool, turns, progress float64) float32 {
	if !orbit {
		return float32(base)
	}

	return float32(orbitWidth * math.Sin(2*math.Pi*turns*progress))
}

// loadMonoWAV reads a WAV file and returns its samples as normalized
// mono float32, downmixing multichannel input by averaging.
func loadMonoWAV(path string, verbose bool) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit",
			buf.Format.SampleRate, buf.Format.NumChannels, buf.SourceBitDepth)
	}

	return downmix(buf), buf.Format.SampleRate, nil
}

// downmix converts an integer PCM buffer to normalized mono float32,
// averaging across channels.
func downmix(buf *audio.IntBuffer) []float32 {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	scale := 1.0 / float64(int(1)<<(buf.SourceBitDepth-1))
	frames := len(buf.Data) / channels

	out := make([]float32, frames)
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += float64(buf.Data[i*channels+c])
		}

		out[i] = float32(sum * scale / float64(channels))
	}

	return out
}

// writeStereoWAV writes interleaved stereo 16-bit PCM to a WAV file.
func writeStereoWAV(path string, rate int, pcm []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	data := make([]int, len(pcm))
	for i, s := range pcm {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(f, rate, 16, 2, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return fmt.Errorf("write output: %w", err)
	}

	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("finalize output: %w", err)
	}

	return f.Close()
}
