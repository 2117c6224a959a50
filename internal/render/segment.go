package render

// Segmenter splits arbitrary-length sample slices into fixed-size
// frames. All frames except possibly the last are views directly into
// the input; the final partial frame is materialized into a private
// scratch buffer with zero padding, so the input is never mutated.
//
// The scratch buffer is reused by every call to Frame, so a returned
// tail frame is only valid until the next Frame call.
type Segmenter struct {
	frameSize int
	pad       []float32
}

// NewSegmenter creates a segmenter for the given frame size.
// frameSize must be positive.
func NewSegmenter(frameSize int) *Segmenter {
	if frameSize <= 0 {
		panic("render: frame size must be positive")
	}

	return &Segmenter{
		frameSize: frameSize,
		pad:       make([]float32, frameSize),
	}
}

// FrameSize returns the fixed frame size.
func (s *Segmenter) FrameSize() int { return s.frameSize }

// NumFrames returns ceil(n / frameSize), the number of frames a slice
// of n samples segments into. Zero input produces zero frames.
func (s *Segmenter) NumFrames(n int) int {
	return (n + s.frameSize - 1) / s.frameSize
}

// Frame returns frame i of input. i must be in [0, NumFrames(len(input))).
func (s *Segmenter) Frame(input []float32, i int) []float32 {
	start := i * s.frameSize

	if end := start + s.frameSize; end <= len(input) {
		return input[start:end]
	}

	// Tail frame: copy the remainder and zero-pad to a full frame.
	n := copy(s.pad, input[start:])
	tail := s.pad[n:]
	for j := range tail {
		tail[j] = 0
	}

	return s.pad
}
