// Package audio provides frequency-domain loudness extraction for the
// animation engine.
package audio

import (
	"errors"
)

// Common errors
var (
	ErrAnalyserUnavailable = errors.New("audio analyser unavailable")
	ErrAnalyserStopped     = errors.New("audio analyser stopped")
)

// BinCount is the number of frequency bins per analysis frame: the half
// spectrum of a 256-sample analysis window.
const BinCount = 128

// FrequencyFrame holds one byte magnitude per frequency bin. A frame is
// ephemeral: it is valid only for the analysis tick that produced it.
type FrequencyFrame [BinCount]byte

// Analyser is the collaborating audio-analysis source. Frame fills dst with a
// full, consistent snapshot of the current bin magnitudes; it never returns a
// partially written frame. Implementations backed by no usable audio context
// return ErrAnalyserUnavailable.
type Analyser interface {
	Frame(dst *FrequencyFrame) error
}

// UnavailableAnalyser always reports that no analysis backend exists. Hosts
// use it when audio context construction fails, forcing the lip-sync
// fallback path.
type UnavailableAnalyser struct{}

func (UnavailableAnalyser) Frame(*FrequencyFrame) error {
	return ErrAnalyserUnavailable
}
