package reverb

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// convolver performs streaming overlap-save FFT convolution of
// fixed-size frames with a precomputed impulse response. This is
// O(N log N) per frame versus O(N×M) for direct convolution, which
// matters here because the impulse response is several frames long.
//
// Overlap-save method:
//  1. Keep a sliding window of the last fftSize input samples.
//  2. Multiply its spectrum with the precomputed kernel spectrum.
//  3. The last frameSize samples of the inverse transform are the
//     linear convolution for the current frame; earlier samples are
//     circularly wrapped and discarded.
type convolver struct {
	fft       *fourier.FFT
	fftSize   int
	frameSize int

	// Kernel spectrum, computed once.
	kernelFFT []complex128

	// Working state (pre-allocated, no allocation per frame).
	window    []float64 // sliding input window, newest sample last
	signalFFT []complex128
	product   []complex128
	inverse   []float64

	scale float64 // 1/fftSize, gonum's inverse transform is unnormalized
}

// newConvolver builds a convolver for the given kernel and frame size.
// Returns nil for an empty kernel.
func newConvolver(kernel []float64, frameSize int) *convolver {
	kernelLen := len(kernel)
	if kernelLen == 0 || frameSize <= 0 {
		return nil
	}

	// Smallest power of two holding one frame of valid output:
	// fftSize >= frameSize + kernelLen - 1.
	fftSize := 1
	for fftSize < frameSize+kernelLen-1 {
		fftSize *= 2
	}

	fft := fourier.NewFFT(fftSize)

	kernelPadded := make([]float64, fftSize)
	copy(kernelPadded, kernel)
	kernelFFT := fft.Coefficients(nil, kernelPadded)

	specLen := len(kernelFFT)

	return &convolver{
		fft:       fft,
		fftSize:   fftSize,
		frameSize: frameSize,
		kernelFFT: kernelFFT,
		window:    make([]float64, fftSize),
		signalFFT: make([]complex128, specLen),
		product:   make([]complex128, specLen),
		inverse:   make([]float64, fftSize),
		scale:     1.0 / float64(fftSize),
	}
}

// process convolves one frame. in and out must hold frameSize samples;
// they may alias.
func (c *convolver) process(in, out []float32) {
	// Slide the window and append the new frame.
	copy(c.window, c.window[c.frameSize:])
	base := c.fftSize - c.frameSize
	for i := range c.frameSize {
		c.window[base+i] = float64(in[i])
	}

	c.signalFFT = c.fft.Coefficients(c.signalFFT, c.window)

	c128.Mul(c.product, c.signalFFT, c.kernelFFT)

	c.inverse = c.fft.Sequence(c.inverse, c.product)

	// Scale by 1/N and keep only the last frameSize samples, which are
	// free of circular wrap.
	f64.Scale(c.inverse, c.inverse, c.scale)
	for i := range c.frameSize {
		out[i] = float32(c.inverse[base+i])
	}
}

// reset clears the input window, dropping the reverb tail.
func (c *convolver) reset() {
	for i := range c.window {
		c.window[i] = 0
	}
}
