package spatialize

// Common sample rates for convenience constructors.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate, the usual rate for game audio.
	RateDAT = 48000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000
)

// Common frame sizes.
const (
	// DefaultFrameSize balances latency against per-frame overhead.
	DefaultFrameSize = 1024

	// LowLatencyFrameSize suits interactive sources (~5 ms at 48 kHz).
	LowLatencyFrameSize = 256
)

// NewInitialized creates a session with the built-in engine and brings
// it up at the given settings in one step.
func NewInitialized(sampleRate, frameSize int) (*Session, error) {
	s := NewSession(nil)
	if err := s.Init(sampleRate, frameSize); err != nil {
		return nil, err
	}

	return s, nil
}

// NewDefaultSession creates an initialized session at 48 kHz with the
// default frame size.
func NewDefaultSession() (*Session, error) {
	return NewInitialized(RateDAT, DefaultFrameSize)
}

// NewLowLatencySession creates an initialized session at 48 kHz with a
// small frame size for interactive use.
func NewLowLatencySession() (*Session, error) {
	return NewInitialized(RateDAT, LowLatencyFrameSize)
}
