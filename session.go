package spatialize

import (
	"fmt"

	"github.com/tphakala/go-spatialize/internal/render"
)

const (
	// Output channel count. The pipeline always renders stereo.
	stereoChannels = 2

	// Reflection impulse response length, in frames.
	irSizeFrames = 4

	// The pipeline renders fully spatialized audio with no dry mix.
	fullSpatialBlend = 1.0

	// Reverb defaults restored by Close.
	defaultReverbLevel = 1.0
	defaultReverbTime  = 0.2

	// Maximum number of released output buffers kept for reuse.
	maxFreeBuffers = 4
)

// Session owns the rendering effects and scratch buffers for one audio
// stream. The zero value is not usable; create sessions with NewSession
// and bring them up with Init.
//
// A Session is not safe for concurrent use: Process overwrites shared
// scratch buffers in place every frame, so concurrent calls require
// external serialization.
type Session struct {
	engine   Engine
	settings AudioSettings

	hrtf       HRTF
	binaural   BinauralEffect
	reflection ReflectionEffect

	// Per-frame scratch, sized at Init and never resized.
	binauralOut   *StereoBuffer
	reflectionOut *StereoBuffer
	interleaved   []float32
	pcmFrame      []int16

	seg *render.Segmenter

	reverbEnabled bool
	reverbLevel   float32
	reverbTime    float32

	// Released output buffers kept for reuse across Process calls.
	freePCM [][]int16

	initialized bool
}

// NewSession creates an uninitialized session using the given engine.
// A nil engine selects the built-in pure Go engine.
func NewSession(engine Engine) *Session {
	if engine == nil {
		engine = DefaultEngine()
	}

	return &Session{
		engine:      engine,
		reverbLevel: defaultReverbLevel,
		reverbTime:  defaultReverbTime,
	}
}

// Init allocates the session's effects and scratch buffers for the given
// audio settings. Calling Init on an already initialized session is a
// no-op returning nil; the original settings stay in force.
//
// Effects are created in a fixed order; if any creation fails, the ones
// already created are closed in reverse order and the session remains
// uninitialized.
func (s *Session) Init(sampleRate, frameSize int) error {
	if s.initialized {
		return nil
	}

	settings := AudioSettings{SampleRate: sampleRate, FrameSize: frameSize}
	if err := settings.Validate(); err != nil {
		return err
	}

	hrtf, err := s.engine.NewHRTF(settings)
	if err != nil {
		return fmt.Errorf("create HRTF: %w", err)
	}

	binaural, err := s.engine.NewBinauralEffect(settings, hrtf)
	if err != nil {
		hrtf.Close()
		return fmt.Errorf("create binaural effect: %w", err)
	}

	binauralOut := NewStereoBuffer(frameSize)

	reflection, err := s.engine.NewReflectionEffect(settings, ReflectionSettings{
		Type:     ReflectionParametric,
		IRSize:   frameSize * irSizeFrames,
		Channels: stereoChannels,
	})
	if err != nil {
		binaural.Close()
		hrtf.Close()
		return fmt.Errorf("create reflection effect: %w", err)
	}

	s.settings = settings
	s.hrtf = hrtf
	s.binaural = binaural
	s.binauralOut = binauralOut
	s.reflection = reflection
	s.reflectionOut = NewStereoBuffer(frameSize)
	s.interleaved = make([]float32, stereoChannels*frameSize)
	s.pcmFrame = make([]int16, stereoChannels*frameSize)
	s.seg = render.NewSegmenter(frameSize)
	s.initialized = true

	return nil
}

// Close releases the session's effects and resets it to the
// uninitialized state with default reverb settings. Closing an
// uninitialized session is a no-op. Close is idempotent.
func (s *Session) Close() {
	if !s.initialized {
		return
	}

	// Reverse of creation order in Init.
	s.reflectionOut = nil
	s.reflection.Close()
	s.binauralOut = nil
	s.binaural.Close()
	s.hrtf.Close()

	*s = Session{
		engine:      s.engine,
		reverbLevel: defaultReverbLevel,
		reverbTime:  defaultReverbTime,
	}
}

// LoadSound validates an input buffer ahead of processing. The buffer is
// not retained; the real input is supplied directly to Process.
func (s *Session) LoadSound(buf []float32) error {
	if !s.initialized {
		return ErrNotInitialized
	}

	if buf == nil {
		return ErrNilInput
	}

	return nil
}

// SetReverb updates the session's reverb configuration. Level and time
// are stored as given; level acts as an output gain on every Process
// call whether or not reverb is engaged.
func (s *Session) SetReverb(enabled bool, level, time float32) error {
	if !s.initialized {
		return ErrNotInitialized
	}

	// Reverb is broken, disable it for now.
	enabled = false

	s.reverbEnabled = enabled
	s.reverbLevel = level
	s.reverbTime = time

	return nil
}

// Initialized reports whether Init has succeeded without a later Close.
func (s *Session) Initialized() bool { return s.initialized }

// Settings returns the audio settings fixed at Init.
func (s *Session) Settings() AudioSettings { return s.settings }

// ReverbEnabled reports whether the reflection stage runs per frame.
func (s *Session) ReverbEnabled() bool { return s.reverbEnabled }

// ReverbLevel returns the output gain applied by Process.
func (s *Session) ReverbLevel() float32 { return s.reverbLevel }

// ReverbTime returns the stored RT60 decay time in seconds.
func (s *Session) ReverbTime() float32 { return s.reverbTime }

// Process renders input through the binaural pipeline toward (x, y).
//
// The input is split into frames of the session's frame size, the final
// partial frame zero-padded. The direction is resolved once from (x, y)
// and reused for every frame. Each frame passes through the binaural
// effect and, when reverb is enabled, the reflection effect; a failing
// reflection frame falls back to the binaural output, while a failing
// binaural frame aborts the whole call with no buffer returned.
//
// The returned buffer holds interleaved stereo 16-bit PCM of exactly
// numFrames*frameSize*2 samples and is owned by the caller until
// Release. Empty input succeeds with an empty buffer.
func (s *Session) Process(input []float32, x, y float32) (*OutputBuffer, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	if input == nil {
		return nil, ErrNilInput
	}

	frameSize := s.settings.FrameSize

	numFrames := s.seg.NumFrames(len(input))
	if numFrames == 0 {
		return &OutputBuffer{}, nil
	}

	out := s.getPCM(numFrames * frameSize * stereoChannels)

	dx, dy, dz := render.ResolveDirection(x, y)
	params := BinauralParams{
		Direction:     Direction{X: dx, Y: dy, Z: dz},
		Interpolation: InterpolationNearest,
		SpatialBlend:  fullSpatialBlend,
	}

	for i := range numFrames {
		frame := s.seg.Frame(input, i)

		if err := s.binaural.Apply(&params, frame, s.binauralOut); err != nil {
			s.recycle(out)
			return nil, fmt.Errorf("%w: binaural stage, frame %d: %v", ErrRenderFailed, i, err)
		}

		final := s.binauralOut

		if s.reverbEnabled {
			reflectionParams := ReflectionParams{
				ReverbTimes: [reverbBands]float32{s.reverbTime, s.reverbTime, s.reverbTime},
				EQ:          [reverbBands]float32{1, 1, 1},
			}

			// Reflection failure is non-fatal: the frame falls back
			// to the plain binaural output.
			if err := s.reflection.Apply(&reflectionParams, s.binauralOut, s.reflectionOut); err == nil {
				final = s.reflectionOut
			}
		}

		render.ConvertFrame(s.pcmFrame, final.L, final.R, s.reverbLevel, s.interleaved)
		copy(out[i*frameSize*stereoChannels:], s.pcmFrame)
	}

	return &OutputBuffer{Data: out, sess: s}, nil
}

// getPCM returns an int16 buffer of exactly n samples, reusing a
// released buffer when one is large enough.
func (s *Session) getPCM(n int) []int16 {
	for i := len(s.freePCM) - 1; i >= 0; i-- {
		buf := s.freePCM[i]
		if cap(buf) >= n {
			s.freePCM = append(s.freePCM[:i], s.freePCM[i+1:]...)
			return buf[:n]
		}
	}

	return make([]int16, n)
}

// recycle returns a buffer to the free list for reuse.
func (s *Session) recycle(buf []int16) {
	if cap(buf) == 0 || len(s.freePCM) >= maxFreeBuffers {
		return
	}

	s.freePCM = append(s.freePCM, buf[:0])
}

// OutputBuffer owns one rendered block of interleaved stereo 16-bit PCM.
// The caller must call Release exactly once per successful non-empty
// Process result; using Data after Release is invalid.
type OutputBuffer struct {
	// Data holds interleaved stereo samples (L0, R0, L1, R1, ...).
	// Its length is always a multiple of frameSize*2.
	Data []int16

	sess *Session
}

// Len returns the number of int16 samples in the buffer.
func (b *OutputBuffer) Len() int {
	if b == nil {
		return 0
	}

	return len(b.Data)
}

// Release returns the buffer's storage to its session for reuse.
// Releasing a nil, empty, or already released buffer is a safe no-op.
func (b *OutputBuffer) Release() {
	if b == nil || len(b.Data) == 0 {
		return
	}

	if b.sess != nil {
		b.sess.recycle(b.Data)
	}

	b.Data = nil
	b.sess = nil
}
