// Package spatialize renders mono audio to binaural 16-bit stereo PCM
// in pure Go.
//
// A Session owns the rendering pipeline: input samples are split into
// fixed-size frames, each frame is spatialized toward a direction
// derived from a 2D hint, optionally sent through a parametric
// reflection stage, and converted to interleaved 16-bit PCM. The whole
// pipeline is synchronous and allocation occurs only for the returned
// output buffer, which is recycled on Release.
//
// # Features
//
//   - Binaural rendering from a spherical head model (interaural time
//     and level differences, head-shadow filtering)
//   - Parametric reverb with per-band decay times, applied by
//     overlap-save FFT convolution (gonum)
//   - Fixed-rate, fixed-frame-size streaming with zero-padded tail
//     frames
//   - Pluggable Engine interface for swapping in a native spatial
//     audio SDK
//   - SIMD-accelerated interleaving and scaling via github.com/tphakala/simd
//
// # Quick Start
//
//	session, err := spatialize.NewDefaultSession()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	// Render a block toward the front-right.
//	out, err := session.Process(samples, 0.5, 0.0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	play(out.Data)
//	out.Release()
//
// # Ownership and concurrency
//
// Process returns an OutputBuffer owned by the caller until Release is
// called, exactly once per non-empty buffer. A Session reuses internal
// scratch buffers every frame and is therefore not safe for concurrent
// use; serialize access externally or use one Session per stream.
package spatialize
