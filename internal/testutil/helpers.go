// Package testutil provides reusable test helpers for the spatial
// audio pipeline tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	// UnitTolerance bounds the deviation of normalized vectors from
	// unit magnitude.
	UnitTolerance = 1e-6

	// SampleTolerance bounds float32 sample comparisons after DSP.
	SampleTolerance = 1e-4
)

// AssertNoNaNOrInf verifies that no samples are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float32, msgAndArgs ...any) bool {
	t.Helper()

	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}

		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}

	return true
}

// AssertAllInRange verifies that all samples lie within [lo, hi].
func AssertAllInRange(t *testing.T, s []float32, lo, hi float32) bool {
	t.Helper()

	for i, v := range s {
		if v < lo || v > hi {
			return assert.Fail(t, "sample out of range",
				"s[%d]=%v outside [%v, %v]", i, v, lo, hi)
		}
	}

	return true
}

// AssertAllZero verifies that every sample is exactly zero.
func AssertAllZero(t *testing.T, s []float32, msgAndArgs ...any) bool {
	t.Helper()

	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "nonzero sample", "s[%d]=%v, want 0", i, v)
		}
	}

	return true
}

// Energy returns the sum of squared samples.
func Energy(s []float32) float64 {
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}

	return sum
}

// Sine generates n samples of a sine wave at freq Hz and the given
// sample rate, with amplitude amp.
func Sine(n int, freq, amp float64, sampleRate int) []float32 {
	out := make([]float32, n)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*t))
	}

	return out
}

// Impulse generates n samples that are zero except for a unit impulse
// at position at.
func Impulse(n, at int) []float32 {
	out := make([]float32, n)
	if at >= 0 && at < n {
		out[at] = 1
	}

	return out
}

// Ramp generates n samples rising linearly from 0 toward amp.
func Ramp(n int, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * float64(i) / float64(n))
	}

	return out
}
