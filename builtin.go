package spatialize

import (
	"fmt"

	"github.com/tphakala/go-spatialize/internal/hrtf"
	"github.com/tphakala/go-spatialize/internal/reverb"
)

// DefaultEngine returns the built-in pure Go engine: a spherical-head
// binaural renderer and a parametric FFT-convolution reverb. Sessions
// created with a nil engine use it automatically.
func DefaultEngine() Engine { return builtinEngine{} }

type builtinEngine struct{}

// builtinHRTF carries no data: the built-in renderer computes its
// response from geometry instead of measured filters.
type builtinHRTF struct {
	settings AudioSettings
}

func (builtinHRTF) Close() {}

func (builtinEngine) NewHRTF(settings AudioSettings) (HRTF, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return builtinHRTF{settings: settings}, nil
}

func (builtinEngine) NewBinauralEffect(settings AudioSettings, h HRTF) (BinauralEffect, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil HRTF", ErrInvalidSettings)
	}

	r, err := hrtf.New(settings.SampleRate, settings.FrameSize)
	if err != nil {
		return nil, err
	}

	return &builtinBinaural{renderer: r}, nil
}

func (builtinEngine) NewReflectionEffect(settings AudioSettings, cfg ReflectionSettings) (ReflectionEffect, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Type != ReflectionParametric {
		return nil, fmt.Errorf("%w: convolution reflection mode", ErrNotSupported)
	}

	p, err := reverb.New(settings.SampleRate, settings.FrameSize, cfg.IRSize)
	if err != nil {
		return nil, err
	}

	return &builtinReflection{processor: p}, nil
}

type builtinBinaural struct {
	renderer *hrtf.Renderer
}

func (b *builtinBinaural) Apply(params *BinauralParams, in []float32, out *StereoBuffer) error {
	if params == nil || out == nil {
		return ErrNilInput
	}

	nearest := params.Interpolation == InterpolationNearest
	d := params.Direction

	return b.renderer.Render(d.X, d.Y, d.Z, nearest, params.SpatialBlend, in, out.L, out.R)
}

func (b *builtinBinaural) Close() {
	b.renderer.Reset()
	b.renderer = nil
}

type builtinReflection struct {
	processor *reverb.Processor
}

func (r *builtinReflection) Apply(params *ReflectionParams, in, out *StereoBuffer) error {
	if params == nil || in == nil || out == nil {
		return ErrNilInput
	}

	if params.IR != nil {
		return fmt.Errorf("%w: explicit impulse response", ErrNotSupported)
	}

	return r.processor.Render(params.ReverbTimes, params.EQ, params.Delay, in.L, in.R, out.L, out.R)
}

func (r *builtinReflection) Close() {
	r.processor.Reset()
	r.processor = nil
}
