// Package reverb implements a parametric reverberation processor.
//
// The reverberant field is modeled as exponentially decaying
// decorrelated noise split into three frequency bands (low, mid, high),
// each band decaying according to its own RT60 time and weighted by a
// per-band gain. The synthesized stereo impulse response is applied by
// streaming overlap-save FFT convolution, so the tail carries across
// frame boundaries.
package reverb

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Band crossover frequencies in Hz: low < 800, 800 <= mid < 8000,
// high >= 8000.
const (
	lowCrossover  = 800.0
	highCrossover = 8000.0
)

// bands is the number of decay/gain bands.
const bands = 3

const (
	// wetGain normalizes the synthesized response energy so typical
	// program material does not clip after the dry signal is added.
	wetGain = 0.35

	// Deterministic noise seeds; distinct per channel for
	// interaural decorrelation.
	seedLeft  = 0x5eed_0001
	seedRight = 0x5eed_0002
)

// ErrFrameLength indicates a buffer whose length does not match the
// processor's frame size.
var ErrFrameLength = errors.New("reverb: frame length mismatch")

// ErrBadParams indicates non-finite or negative reverb parameters.
var ErrBadParams = errors.New("reverb: invalid parameters")

// Processor applies parametric reverb to stereo frames. It is not safe
// for concurrent use.
type Processor struct {
	sampleRate int
	frameSize  int
	irSize     int

	convL *convolver
	convR *convolver

	// Parameters the current impulse response was built from.
	haveIR bool
	times  [bands]float32
	eq     [bands]float32
	delay  float32
}

// New creates a parametric reverb processor. irSize bounds the length
// of the synthesized impulse response in samples.
func New(sampleRate, frameSize, irSize int) (*Processor, error) {
	if sampleRate <= 0 || frameSize <= 0 || irSize <= 0 {
		return nil, fmt.Errorf("%w: rate %d, frame %d, ir %d", ErrBadParams, sampleRate, frameSize, irSize)
	}

	return &Processor{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		irSize:     irSize,
	}, nil
}

// Render processes one stereo frame: out = in + reverb(in). times holds
// the RT60 decay per band in seconds (a band with time <= 0 is silent),
// eq the linear gain per band, delay an extra pre-delay in seconds.
// The impulse response is rebuilt only when the parameters change;
// rebuilding drops the running tail.
func (p *Processor) Render(times, eq [bands]float32, delay float32, inL, inR, outL, outR []float32) error {
	if len(inL) != p.frameSize || len(inR) != p.frameSize {
		return fmt.Errorf("%w: input %d/%d, want %d", ErrFrameLength, len(inL), len(inR), p.frameSize)
	}

	if len(outL) < p.frameSize || len(outR) < p.frameSize {
		return fmt.Errorf("%w: output %d/%d, want %d", ErrFrameLength, len(outL), len(outR), p.frameSize)
	}

	if err := validateParams(times, eq, delay); err != nil {
		return err
	}

	if !p.haveIR || times != p.times || eq != p.eq || delay != p.delay {
		p.rebuild(times, eq, delay)
	}

	p.apply(p.convL, inL, outL)
	p.apply(p.convR, inR, outR)

	return nil
}

// Reset drops the running reverb tail.
func (p *Processor) Reset() {
	if p.convL != nil {
		p.convL.reset()
	}

	if p.convR != nil {
		p.convR.reset()
	}
}

// apply runs the convolver and adds the wet signal to the dry input.
// A nil convolver (all bands silent) passes the input through.
func (p *Processor) apply(c *convolver, in, out []float32) {
	if c == nil {
		copy(out[:p.frameSize], in)
		return
	}

	c.process(in, out)
	for i := range p.frameSize {
		out[i] += in[i]
	}
}

func validateParams(times, eq [bands]float32, delay float32) error {
	for i := range bands {
		if isBad(times[i]) || isBad(eq[i]) || eq[i] < 0 {
			return fmt.Errorf("%w: band %d: time %v, eq %v", ErrBadParams, i, times[i], eq[i])
		}
	}

	if isBad(delay) || delay < 0 {
		return fmt.Errorf("%w: delay %v", ErrBadParams, delay)
	}

	return nil
}

func isBad(v float32) bool {
	f := float64(v)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// rebuild synthesizes the stereo impulse response for the given
// parameters and recreates the per-channel convolvers.
func (p *Processor) rebuild(times, eq [bands]float32, delay float32) {
	p.times = times
	p.eq = eq
	p.delay = delay
	p.haveIR = true

	p.convL = newConvolver(p.synthesizeIR(times, eq, delay, seedLeft), p.frameSize)
	p.convR = newConvolver(p.synthesizeIR(times, eq, delay, seedRight), p.frameSize)
}

// synthesizeIR builds one channel's impulse response: seeded noise,
// split into three bands by one-pole crossovers, each band shaped by
// its RT60 decay envelope and gain, then energy-normalized.
func (p *Processor) synthesizeIR(times, eq [bands]float32, delay float32, seed int64) []float64 {
	delaySamples := int(float64(delay) * float64(p.sampleRate))
	if delaySamples >= p.irSize {
		return nil
	}

	active := false
	for i := range bands {
		if times[i] > 0 && eq[i] > 0 {
			active = true
		}
	}
	if !active {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	ir := make([]float64, p.irSize)

	// One-pole crossover coefficients.
	kLow := onePoleCoef(lowCrossover, p.sampleRate)
	kHigh := onePoleCoef(highCrossover, p.sampleRate)

	// Per-band decay rates: RT60 is a 60 dB (factor 1e-3) decay.
	var rate [bands]float64
	for i := range bands {
		if times[i] > 0 {
			rate[i] = math.Log(1e-3) / (float64(times[i]) * float64(p.sampleRate))
		}
	}

	var lpLow, lpHigh float64
	for i := delaySamples; i < p.irSize; i++ {
		noise := 2*rng.Float64() - 1

		lpLow += kLow * (noise - lpLow)
		lpHigh += kHigh * (noise - lpHigh)

		band := [bands]float64{lpLow, lpHigh - lpLow, noise - lpHigh}

		t := i - delaySamples
		var sample float64
		for b := range bands {
			if times[b] <= 0 || eq[b] == 0 {
				continue
			}

			sample += band[b] * float64(eq[b]) * math.Exp(rate[b]*float64(t))
		}

		ir[i] = sample
	}

	normalizeEnergy(ir)

	return ir
}

// onePoleCoef returns the smoothing coefficient for a one-pole lowpass
// at the given cutoff.
func onePoleCoef(cutoff float64, sampleRate int) float64 {
	return 1 - math.Exp(-2*math.Pi*cutoff/float64(sampleRate))
}

// normalizeEnergy scales the response so its total energy is wetGain².
func normalizeEnergy(ir []float64) {
	var sum float64
	for _, v := range ir {
		sum += v * v
	}

	if sum == 0 {
		return
	}

	scale := wetGain / math.Sqrt(sum)
	for i := range ir {
		ir[i] *= scale
	}
}
