package spatialize

import (
	"errors"
	"fmt"
)

// AudioSettings fixes the sample rate and frame size for a session.
// Both are chosen once at Init and never change for the session's lifetime.
type AudioSettings struct {
	// SampleRate is the sample rate of input and output audio in Hz.
	SampleRate int

	// FrameSize is the number of mono samples processed per frame.
	// Input supplied to Process is split into frames of this size,
	// with the final partial frame zero-padded.
	FrameSize int
}

// Settings limits. Frame sizes above maxFrameSize make per-frame latency
// useless for real-time playback; rates outside the range are not audio.
const (
	minSampleRate = 8000
	maxSampleRate = 384000
	maxFrameSize  = 1 << 16
)

// Common errors returned by the session and its effects.
var (
	// ErrInvalidSettings indicates invalid audio settings.
	ErrInvalidSettings = errors.New("invalid audio settings")

	// ErrNotInitialized indicates an operation on an uninitialized session.
	ErrNotInitialized = errors.New("session not initialized")

	// ErrNilInput indicates a required input buffer was nil.
	ErrNilInput = errors.New("nil input buffer")

	// ErrRenderFailed indicates a rendering effect failed to process a frame.
	ErrRenderFailed = errors.New("render failed")

	// ErrNotSupported indicates the requested effect mode is not supported.
	ErrNotSupported = errors.New("operation not supported")
)

// Validate checks if the audio settings are usable.
func (s AudioSettings) Validate() error {
	if s.SampleRate < minSampleRate || s.SampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate %d outside %d-%d Hz", ErrInvalidSettings, s.SampleRate, minSampleRate, maxSampleRate)
	}

	if s.FrameSize <= 0 {
		return fmt.Errorf("%w: frame size must be positive", ErrInvalidSettings)
	}

	if s.FrameSize > maxFrameSize {
		return fmt.Errorf("%w: frame size %d exceeds maximum %d", ErrInvalidSettings, s.FrameSize, maxFrameSize)
	}

	return nil
}
