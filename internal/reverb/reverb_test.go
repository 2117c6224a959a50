package reverb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-spatialize/internal/testutil"
)

const (
	testRate   = 48000
	testFrame  = 256
	testIRSize = testFrame * 4
)

var (
	flatTimes = [bands]float32{0.3, 0.3, 0.3}
	unityEQ   = [bands]float32{1, 1, 1}
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()

	p, err := New(testRate, testFrame, testIRSize)
	require.NoError(t, err)

	return p
}

// renderFrames pushes n frames of input through the processor and
// concatenates both output channels.
func renderFrames(t *testing.T, p *Processor, in []float32, n int) (l, r []float32) {
	t.Helper()

	seg := make([]float32, testFrame)
	outL := make([]float32, testFrame)
	outR := make([]float32, testFrame)

	for i := range n {
		for j := range seg {
			idx := i*testFrame + j
			if idx < len(in) {
				seg[j] = in[idx]
			} else {
				seg[j] = 0
			}
		}

		require.NoError(t, p.Render(flatTimes, unityEQ, 0, seg, seg, outL, outR))
		l = append(l, outL...)
		r = append(r, outR...)
	}

	return l, r
}

// TestNew_InvalidSettings verifies constructor validation.
func TestNew_InvalidSettings(t *testing.T) {
	for _, args := range [][3]int{{0, 256, 1024}, {48000, 0, 1024}, {48000, 256, 0}} {
		_, err := New(args[0], args[1], args[2])
		assert.ErrorIs(t, err, ErrBadParams, "args %v", args)
	}
}

// TestProcessor_FrameLengthChecked verifies buffer length validation.
func TestProcessor_FrameLengthChecked(t *testing.T) {
	p := newTestProcessor(t)

	good := make([]float32, testFrame)
	bad := make([]float32, testFrame-1)

	err := p.Render(flatTimes, unityEQ, 0, bad, good, good, good)
	assert.ErrorIs(t, err, ErrFrameLength)

	err = p.Render(flatTimes, unityEQ, 0, good, good, bad, good)
	assert.ErrorIs(t, err, ErrFrameLength)
}

// TestProcessor_RejectsBadParams verifies NaN and negative parameters
// are rejected.
func TestProcessor_RejectsBadParams(t *testing.T) {
	p := newTestProcessor(t)
	buf := make([]float32, testFrame)

	nan := float32(0)
	nan = nan / nan

	err := p.Render([bands]float32{nan, 0.3, 0.3}, unityEQ, 0, buf, buf, buf, buf)
	assert.ErrorIs(t, err, ErrBadParams)

	err = p.Render(flatTimes, [bands]float32{-1, 1, 1}, 0, buf, buf, buf, buf)
	assert.ErrorIs(t, err, ErrBadParams)

	err = p.Render(flatTimes, unityEQ, -0.5, buf, buf, buf, buf)
	assert.ErrorIs(t, err, ErrBadParams)
}

// TestProcessor_ZeroInputZeroOutput verifies silence in, silence out.
func TestProcessor_ZeroInputZeroOutput(t *testing.T) {
	p := newTestProcessor(t)

	silence := make([]float32, testFrame*8)
	l, r := renderFrames(t, p, silence, 8)

	testutil.AssertAllZero(t, l)
	testutil.AssertAllZero(t, r)
}

// TestProcessor_AddsTail verifies an impulse leaves reverberant energy
// in subsequent frames (the wet tail outlives the dry signal).
func TestProcessor_AddsTail(t *testing.T) {
	p := newTestProcessor(t)

	in := testutil.Impulse(testFrame, 0)
	l, r := renderFrames(t, p, in, 4)

	// Frames after the first carry only the convolution tail.
	tailL := l[testFrame:]
	tailR := r[testFrame:]

	assert.Greater(t, testutil.Energy(tailL), 0.0, "left tail missing")
	assert.Greater(t, testutil.Energy(tailR), 0.0, "right tail missing")

	testutil.AssertNoNaNOrInf(t, l)
	testutil.AssertNoNaNOrInf(t, r)
}

// TestProcessor_TailDecays verifies the tail loses energy frame over
// frame, consistent with an exponential decay envelope.
func TestProcessor_TailDecays(t *testing.T) {
	p := newTestProcessor(t)

	in := testutil.Impulse(testFrame, 0)
	l, _ := renderFrames(t, p, in, 5)

	early := testutil.Energy(l[testFrame : 2*testFrame])
	late := testutil.Energy(l[3*testFrame : 4*testFrame])

	assert.Greater(t, early, late, "tail should decay over time")
}

// TestProcessor_ChannelsDecorrelated verifies the two channels use
// distinct impulse responses.
func TestProcessor_ChannelsDecorrelated(t *testing.T) {
	p := newTestProcessor(t)

	in := testutil.Impulse(testFrame, 0)
	l, r := renderFrames(t, p, in, 2)

	assert.NotEqual(t, l, r, "stereo reverb should be decorrelated")
}

// TestProcessor_SilentBandsPassThrough verifies all-zero decay times
// degrade to a dry pass-through.
func TestProcessor_SilentBandsPassThrough(t *testing.T) {
	p := newTestProcessor(t)

	in := testutil.Sine(testFrame, 440, 0.5, testRate)
	out := make([]float32, testFrame)

	require.NoError(t, p.Render([bands]float32{0, 0, 0}, unityEQ, 0, in, in, out, out))
	assert.Equal(t, in, out)
}

// TestProcessor_ParamChangeRebuildsResponse verifies a different decay
// time produces a different response for the same input.
func TestProcessor_ParamChangeRebuildsResponse(t *testing.T) {
	in := testutil.Impulse(testFrame, 0)
	outL := make([]float32, testFrame)
	outR := make([]float32, testFrame)

	p := newTestProcessor(t)
	require.NoError(t, p.Render([bands]float32{0.2, 0.2, 0.2}, unityEQ, 0, in, in, outL, outR))
	short := append([]float32(nil), outL...)

	p.Reset()
	require.NoError(t, p.Render([bands]float32{1.5, 1.5, 1.5}, unityEQ, 0, in, in, outL, outR))

	assert.NotEqual(t, short, outL)
}

// TestProcessor_Deterministic verifies identical processors produce
// identical output.
func TestProcessor_Deterministic(t *testing.T) {
	in := testutil.Sine(testFrame*3, 330, 0.4, testRate)

	p1 := newTestProcessor(t)
	l1, r1 := renderFrames(t, p1, in, 3)

	p2 := newTestProcessor(t)
	l2, r2 := renderFrames(t, p2, in, 3)

	assert.Equal(t, l1, l2)
	assert.Equal(t, r1, r2)
}
