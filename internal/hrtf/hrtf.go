// Package hrtf implements a pure Go binaural renderer based on a
// spherical head model. It synthesizes the dominant localization cues
// directly from geometry: interaural time difference (Woodworth model),
// interaural level difference via constant-power panning, and a
// head-shadow lowpass on the contralateral ear. Elevation enters only
// through its reduction of the lateral component, as in a sphere with
// no pinna.
package hrtf

import (
	"errors"
	"fmt"
	"math"
)

// Spherical head model constants.
const (
	// headRadius is the Woodworth sphere radius in meters.
	headRadius = 0.0875

	// speedOfSound in air at room temperature, m/s.
	speedOfSound = 343.0

	// azimuthGrid is the nearest-mode quantization step in radians (5 degrees).
	azimuthGrid = 5.0 * math.Pi / 180.0

	// Head-shadow lowpass cutoff range. The contralateral ear sweeps
	// from shadowOpenCutoff (source centered) down to shadowFullCutoff
	// (source fully on the opposite side).
	shadowOpenCutoff = 16000.0
	shadowFullCutoff = 1200.0

	// centerDryGain keeps the dry path at equal power with the
	// panned wet path when SpatialBlend < 1.
	centerDryGain = 0.70710678
)

// maxITDSeconds is the largest possible interaural delay under the
// Woodworth model: (a/c)·(π/2 + 1).
const maxITDSeconds = headRadius / speedOfSound * (math.Pi/2 + 1)

// ErrFrameLength indicates a buffer whose length does not match the
// renderer's frame size.
var ErrFrameLength = errors.New("hrtf: frame length mismatch")

// Renderer renders mono frames to binaural stereo. It keeps input
// history and filter state between frames so block boundaries are
// seamless; it is not safe for concurrent use.
type Renderer struct {
	sampleRate int
	frameSize  int

	// hist holds the tail of previous input for cross-frame ITD taps.
	hist []float32

	// One-pole head-shadow filter state per ear.
	lpL, lpR float32
}

// New creates a renderer for the given sample rate and frame size.
func New(sampleRate, frameSize int) (*Renderer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("hrtf: sample rate must be positive, got %d", sampleRate)
	}

	if frameSize <= 0 {
		return nil, fmt.Errorf("hrtf: frame size must be positive, got %d", frameSize)
	}

	histLen := int(math.Ceil(maxITDSeconds*float64(sampleRate))) + 2

	return &Renderer{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		hist:       make([]float32, histLen),
	}, nil
}

// Reset clears input history and filter state.
func (r *Renderer) Reset() {
	for i := range r.hist {
		r.hist[i] = 0
	}

	r.lpL, r.lpR = 0, 0
}

// Render spatializes one mono frame toward the unit direction
// (dirX, dirY, dirZ) and writes the result into outL and outR.
// When nearest is true the azimuth is quantized to a 5 degree grid,
// mirroring nearest-direction HRTF lookup; otherwise the exact azimuth
// is used. blend mixes between the dry mono signal (0) and the fully
// spatialized signal (1).
func (r *Renderer) Render(dirX, dirY, dirZ float32, nearest bool, blend float32, in []float32, outL, outR []float32) error {
	if len(in) != r.frameSize {
		return fmt.Errorf("%w: input %d, want %d", ErrFrameLength, len(in), r.frameSize)
	}

	if len(outL) < r.frameSize || len(outR) < r.frameSize {
		return fmt.Errorf("%w: output %d/%d, want %d", ErrFrameLength, len(outL), len(outR), r.frameSize)
	}

	lateral := float64(dirX)
	if lateral > 1 {
		lateral = 1
	} else if lateral < -1 {
		lateral = -1
	}

	azimuth := math.Asin(lateral)
	if nearest {
		azimuth = math.Round(azimuth/azimuthGrid) * azimuthGrid
		lateral = math.Sin(azimuth)
	}

	absLat := math.Abs(lateral)

	// Woodworth path-length difference between the ears.
	itd := headRadius / speedOfSound * (math.Asin(absLat) + absLat)
	delaySamples := itd * float64(r.sampleRate)

	// The contralateral ear receives the delayed, shadowed signal.
	var delayL, delayR float64
	if lateral >= 0 {
		delayL = delaySamples
	} else {
		delayR = delaySamples
	}

	// Constant-power pan: center sits at -3 dB on both ears.
	pan := (lateral + 1) / 2 * (math.Pi / 2)
	gainL := float32(math.Cos(pan))
	gainR := float32(math.Sin(pan))

	coefL := r.shadowCoef(math.Max(0, lateral))
	coefR := r.shadowCoef(math.Max(0, -lateral))

	for i := range r.frameSize {
		sl := r.tap(in, i, delayL)
		sr := r.tap(in, i, delayR)

		r.lpL += coefL * (sl - r.lpL)
		r.lpR += coefR * (sr - r.lpR)

		wetL := gainL * r.lpL
		wetR := gainR * r.lpR

		dry := in[i] * centerDryGain
		outL[i] = blend*wetL + (1-blend)*dry
		outR[i] = blend*wetR + (1-blend)*dry
	}

	r.pushHistory(in)

	return nil
}

// shadowCoef returns the one-pole coefficient for an ear whose shadow
// amount is in [0, 1] (0 = unshadowed, 1 = fully contralateral).
func (r *Renderer) shadowCoef(shadow float64) float32 {
	cutoff := shadowOpenCutoff + shadow*(shadowFullCutoff-shadowOpenCutoff)
	return float32(1 - math.Exp(-2*math.Pi*cutoff/float64(r.sampleRate)))
}

// tap reads the input delayed by delay samples at position i, with
// linear interpolation, reaching into history across the frame boundary.
func (r *Renderer) tap(in []float32, i int, delay float64) float32 {
	pos := float64(i) - delay
	idx := int(math.Floor(pos))
	frac := float32(pos - float64(idx))

	return r.sampleAt(in, idx)*(1-frac) + r.sampleAt(in, idx+1)*frac
}

// sampleAt returns in[idx], falling back to history for negative
// indices and zero beyond the retained history.
func (r *Renderer) sampleAt(in []float32, idx int) float32 {
	if idx >= 0 {
		if idx < len(in) {
			return in[idx]
		}

		return 0
	}

	h := len(r.hist) + idx
	if h < 0 {
		return 0
	}

	return r.hist[h]
}

// pushHistory retains the tail of the current frame for the next call.
func (r *Renderer) pushHistory(in []float32) {
	n := len(r.hist)

	if len(in) >= n {
		copy(r.hist, in[len(in)-n:])
		return
	}

	copy(r.hist, r.hist[len(in):])
	copy(r.hist[n-len(in):], in)
}
