// Package render implements the frame-level mechanics of the binaural
// pipeline: direction resolution, frame segmentation, and conversion of
// rendered stereo frames to interleaved 16-bit PCM.
package render

import "math"

// ResolveDirection maps a 2D direction hint onto a normalized 3D unit
// vector in a right-handed coordinate system (+X right, +Y up, +Z
// forward). The candidate vector is (x, y, 1): a fixed unit forward
// offset is assumed along the Z axis, so (0, 0) resolves to straight
// ahead. The function is pure and deterministic.
func ResolveDirection(x, y float32) (dx, dy, dz float32) {
	dx, dy, dz = x, y, 1

	length := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
	if length > 0 {
		dx /= length
		dy /= length
		dz /= length
	} else {
		// Degenerate input: fall back to canonical forward.
		dx, dy, dz = 0, 0, 1
	}

	return dx, dy, dz
}
