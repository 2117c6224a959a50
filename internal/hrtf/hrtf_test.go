package hrtf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-spatialize/internal/testutil"
)

const (
	testRate  = 48000
	testFrame = 256
	fullBlend = 1.0
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()

	r, err := New(testRate, testFrame)
	require.NoError(t, err)

	return r
}

// render runs one frame toward (x, y, z) and returns both channels.
func renderFrame(t *testing.T, r *Renderer, x, y, z float32, in []float32) (l, r2 []float32) {
	t.Helper()

	l = make([]float32, testFrame)
	r2 = make([]float32, testFrame)
	require.NoError(t, r.Render(x, y, z, true, fullBlend, in, l, r2))

	return l, r2
}

// TestNew_InvalidSettings verifies constructor validation.
func TestNew_InvalidSettings(t *testing.T) {
	_, err := New(0, testFrame)
	assert.Error(t, err)

	_, err = New(testRate, 0)
	assert.Error(t, err)
}

// TestRenderer_FrameLengthChecked verifies mismatched buffers are
// rejected.
func TestRenderer_FrameLengthChecked(t *testing.T) {
	r := newTestRenderer(t)

	in := make([]float32, testFrame-1)
	out := make([]float32, testFrame)

	err := r.Render(0, 0, 1, true, fullBlend, in, out, out)
	assert.ErrorIs(t, err, ErrFrameLength)

	short := make([]float32, testFrame/2)
	err = r.Render(0, 0, 1, true, fullBlend, make([]float32, testFrame), short, out)
	assert.ErrorIs(t, err, ErrFrameLength)
}

// TestRenderer_CenterIsSymmetric verifies a frontal source produces
// identical channels.
func TestRenderer_CenterIsSymmetric(t *testing.T) {
	r := newTestRenderer(t)
	in := testutil.Sine(testFrame, 500, 0.5, testRate)

	l, rr := renderFrame(t, r, 0, 0, 1, in)

	assert.InDeltaSlice(t, l, rr, testutil.SampleTolerance)
	testutil.AssertNoNaNOrInf(t, l)
}

// TestRenderer_LateralAsymmetry verifies a source on the right is
// louder in the right ear, and mirrored for the left.
func TestRenderer_LateralAsymmetry(t *testing.T) {
	in := testutil.Sine(testFrame, 500, 0.5, testRate)

	r := newTestRenderer(t)
	l, rr := renderFrame(t, r, 0.8, 0, 0.6, in)
	assert.Greater(t, testutil.Energy(rr), testutil.Energy(l),
		"right-side source should favor the right ear")

	r = newTestRenderer(t)
	l, rr = renderFrame(t, r, -0.8, 0, 0.6, in)
	assert.Greater(t, testutil.Energy(l), testutil.Energy(rr),
		"left-side source should favor the left ear")
}

// TestRenderer_MirroredDirectionsSwapEars verifies left/right mirror
// symmetry of the head model.
func TestRenderer_MirroredDirectionsSwapEars(t *testing.T) {
	in := testutil.Sine(testFrame, 1000, 0.4, testRate)

	r1 := newTestRenderer(t)
	l1, r1out := renderFrame(t, r1, 0.6, 0.2, 0.777, in)

	r2 := newTestRenderer(t)
	l2, r2out := renderFrame(t, r2, -0.6, 0.2, 0.777, in)

	assert.InDeltaSlice(t, l1, r2out, testutil.SampleTolerance)
	assert.InDeltaSlice(t, r1out, l2, testutil.SampleTolerance)
}

// TestRenderer_ITDDelaysContralateralEar verifies the far ear's
// response onset lags the near ear's for a lateral impulse.
func TestRenderer_ITDDelaysContralateralEar(t *testing.T) {
	r := newTestRenderer(t)
	in := testutil.Impulse(testFrame, 0)

	l, rr := renderFrame(t, r, 1, 0, 0, in)

	onset := func(s []float32) int {
		for i, v := range s {
			if v > 1e-3 {
				return i
			}
		}
		return len(s)
	}

	assert.Greater(t, onset(l), onset(rr),
		"left-ear onset should lag for a hard-right source")
}

// TestRenderer_DryBlendPassesInput verifies blend 0 returns the dry
// signal at equal power on both ears.
func TestRenderer_DryBlendPassesInput(t *testing.T) {
	r := newTestRenderer(t)
	in := testutil.Sine(testFrame, 500, 0.5, testRate)

	l := make([]float32, testFrame)
	rr := make([]float32, testFrame)
	require.NoError(t, r.Render(1, 0, 0, true, 0, in, l, rr))

	for i := range in {
		assert.InDelta(t, in[i]*centerDryGain, l[i], testutil.SampleTolerance)
		assert.InDelta(t, in[i]*centerDryGain, rr[i], testutil.SampleTolerance)
	}
}

// TestRenderer_Deterministic verifies two fresh renderers produce
// identical output for identical input.
func TestRenderer_Deterministic(t *testing.T) {
	in := testutil.Sine(testFrame, 750, 0.6, testRate)

	r1 := newTestRenderer(t)
	l1, rr1 := renderFrame(t, r1, 0.3, -0.4, 0.866, in)

	r2 := newTestRenderer(t)
	l2, rr2 := renderFrame(t, r2, 0.3, -0.4, 0.866, in)

	assert.Equal(t, l1, l2)
	assert.Equal(t, rr1, rr2)
}

// TestRenderer_HistoryCarriesAcrossFrames verifies a lateral impulse at
// the end of one frame emerges in the delayed ear during the next.
func TestRenderer_HistoryCarriesAcrossFrames(t *testing.T) {
	r := newTestRenderer(t)

	first := testutil.Impulse(testFrame, testFrame-1)
	l1, _ := renderFrame(t, r, 0.6, 0, 0.8, first)

	silence := make([]float32, testFrame)
	l2, _ := renderFrame(t, r, 0.6, 0, 0.8, silence)

	// The delayed left-ear response cannot have fully sounded in the
	// first frame; the remainder must appear in the second.
	assert.Greater(t, testutil.Energy(l2), 0.0,
		"delayed response should spill into the next frame")
	assert.Greater(t, testutil.Energy(l1)+testutil.Energy(l2), 0.0)
}

// TestRenderer_Reset clears cross-frame state.
func TestRenderer_Reset(t *testing.T) {
	r := newTestRenderer(t)

	loud := testutil.Sine(testFrame, 500, 1.0, testRate)
	renderFrame(t, r, 1, 0, 0, loud)

	r.Reset()

	silence := make([]float32, testFrame)
	l, rr := renderFrame(t, r, 1, 0, 0, silence)

	testutil.AssertAllZero(t, l)
	testutil.AssertAllZero(t, rr)
}
