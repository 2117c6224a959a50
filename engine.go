package spatialize

import "fmt"

// Direction is a unit vector in a right-handed coordinate system:
// +X right, +Y up, +Z forward (away from the listener's face).
type Direction struct {
	X, Y, Z float32
}

// Interpolation selects how the binaural renderer looks up HRTF filters
// between measured directions.
type Interpolation int

const (
	// InterpolationNearest uses the nearest measured direction.
	// This is the only mode the processing pipeline requests.
	InterpolationNearest Interpolation = iota

	// InterpolationBilinear blends the surrounding measured directions.
	InterpolationBilinear
)

// BinauralParams configures one binaural render of a mono frame.
type BinauralParams struct {
	// Direction is the normalized source direction for this frame.
	Direction Direction

	// Interpolation selects the HRTF lookup mode.
	Interpolation Interpolation

	// SpatialBlend mixes between unprocessed (0) and fully
	// spatialized (1) output.
	SpatialBlend float32
}

// ReflectionType selects how a reflection effect computes its response.
type ReflectionType int

const (
	// ReflectionParametric derives the response from decay times and
	// band gains. This is the only mode the pipeline uses.
	ReflectionParametric ReflectionType = iota

	// ReflectionConvolution convolves with a supplied impulse response.
	ReflectionConvolution
)

// ReflectionSettings configures creation of a reflection effect.
type ReflectionSettings struct {
	Type ReflectionType

	// IRSize is the impulse response length in samples.
	IRSize int

	// Channels is the number of output channels.
	Channels int
}

// reverbBands is the number of frequency bands in reflection parameters.
const reverbBands = 3

// ReflectionParams configures one reflection render of a stereo frame.
type ReflectionParams struct {
	// ReverbTimes holds the RT60 decay time in seconds per band
	// (low, mid, high).
	ReverbTimes [reverbBands]float32

	// EQ holds the linear gain per band.
	EQ [reverbBands]float32

	// Delay is an extra pre-delay in seconds before the response onset.
	Delay float32

	// IR is an optional impulse response. Nil selects parametric mode;
	// the pipeline always passes nil.
	IR []float32
}

// StereoBuffer holds one deinterleaved stereo frame.
type StereoBuffer struct {
	L []float32
	R []float32
}

// NewStereoBuffer allocates a stereo buffer with frameSize samples per channel.
func NewStereoBuffer(frameSize int) *StereoBuffer {
	return &StereoBuffer{
		L: make([]float32, frameSize),
		R: make([]float32, frameSize),
	}
}

// HRTF is an opaque handle to loaded head-related transfer function data.
type HRTF interface {
	Close()
}

// BinauralEffect renders mono frames to spatialized stereo.
type BinauralEffect interface {
	// Apply renders one mono frame into out. in has the session frame
	// size and out's channels are at least that long. Implementations
	// overwrite out completely.
	Apply(params *BinauralParams, in []float32, out *StereoBuffer) error

	Close()
}

// ReflectionEffect adds reverberant energy to stereo frames.
type ReflectionEffect interface {
	// Apply renders one stereo frame into out. in and out have the
	// session frame size per channel and must not alias.
	Apply(params *ReflectionParams, in, out *StereoBuffer) error

	Close()
}

// Engine creates the rendering effects a session depends on.
// The built-in engine (see DefaultEngine) is pure Go; alternative
// implementations can wrap a native spatial audio SDK.
type Engine interface {
	NewHRTF(settings AudioSettings) (HRTF, error)
	NewBinauralEffect(settings AudioSettings, hrtf HRTF) (BinauralEffect, error)
	NewReflectionEffect(settings AudioSettings, cfg ReflectionSettings) (ReflectionEffect, error)
}

// Validate checks reflection settings at effect creation time.
func (c ReflectionSettings) Validate() error {
	if c.IRSize <= 0 {
		return fmt.Errorf("%w: impulse response size must be positive", ErrInvalidSettings)
	}

	if c.Channels != stereoChannels {
		return fmt.Errorf("%w: reflection effect supports %d channels only", ErrNotSupported, stereoChannels)
	}

	return nil
}
