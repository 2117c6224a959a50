package render

import "github.com/tphakala/simd/f32"

// pcmScale converts normalized float samples to 16-bit PCM. The same
// factor is used for both polarities, so -1.0 maps to -32767 rather
// than -32768; the int16 range is reached only through clamping of
// over-range input. The cast truncates toward zero.
const pcmScale = 32767.0

// ConvertFrame interleaves one stereo frame sample-major (L0, R0, L1,
// R1, ...) into dst, applying the level gain and clamping each sample to
// [-1, 1] before scaling to int16.
//
// l and r must have equal length; dst and scratch must hold
// 2*len(l) samples. scratch is overwritten.
func ConvertFrame(dst []int16, l, r []float32, level float32, scratch []float32) {
	n := 2 * len(l)
	scratch = scratch[:n]
	dst = dst[:n]

	f32.Interleave2(scratch, l, r)
	f32.Scale(scratch, scratch, level)

	for i, sample := range scratch {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}

		dst[i] = int16(sample * pcmScale)
	}
}
