package spatialize

import (
	"testing"
)

// BenchmarkProcess_DefaultEngine measures the full pipeline with the
// built-in renderer on one second of audio.
func BenchmarkProcess_DefaultEngine(b *testing.B) {
	s, err := NewInitialized(RateDAT, DefaultFrameSize)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	input := make([]float32, RateDAT)
	for i := range input {
		input[i] = float32(i%200)/200 - 0.5
	}

	b.ResetTimer()

	for b.Loop() {
		out, err := s.Process(input, 0.5, 0.1)
		if err != nil {
			b.Fatal(err)
		}
		out.Release()
	}
}

// BenchmarkProcess_PipelineOverhead isolates the segmentation and
// format conversion cost using a pass-through mock renderer.
func BenchmarkProcess_PipelineOverhead(b *testing.B) {
	s := NewSession(&mockEngine{})
	if err := s.Init(RateDAT, DefaultFrameSize); err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	input := make([]float32, RateDAT)

	b.ResetTimer()

	for b.Loop() {
		out, err := s.Process(input, 0.5, 0.1)
		if err != nil {
			b.Fatal(err)
		}
		out.Release()
	}
}
