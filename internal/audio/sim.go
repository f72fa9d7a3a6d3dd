package audio

import (
	"math"
	"math/rand"
	"sync"
)

// SimAnalyser synthesizes speech-shaped frequency frames so hosts without a
// real analysis backend can still drive the level meter. Frame timing is
// advanced internally by a fixed step per read, matching the per-tick read
// cadence of the meter.
type SimAnalyser struct {
	mu sync.Mutex

	rng  *rand.Rand
	step float64

	speaking bool
	t        float64
}

func NewSimAnalyser(rng *rand.Rand, step float64) *SimAnalyser {
	if step <= 0 {
		step = 1.0 / 60
	}
	return &SimAnalyser{
		rng:  rng,
		step: step,
	}
}

// SetSpeaking toggles between voiced and silent output.
func (s *SimAnalyser) SetSpeaking(speaking bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speaking = speaking
}

// Frame fills dst with one synthetic bin snapshot.
func (s *SimAnalyser) Frame(dst *FrequencyFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.t += s.step

	for i := range dst {
		dst[i] = 0
	}

	if !s.speaking {
		// Silence floor: faint broadband noise well under the level floor.
		for i := 0; i < 24; i++ {
			dst[i] = byte(s.rng.Intn(8))
		}
		return nil
	}

	// Syllable-rate envelope over a voice-band hump that rolls off with bin
	// index, plus per-bin jitter.
	envelope := 0.55 + 0.45*math.Abs(math.Sin(s.t*6))
	for i := 1; i < 40; i++ {
		rolloff := math.Exp(-float64(i) / 18)
		v := (60 + 180*envelope*rolloff) + float64(s.rng.Intn(20))
		if v > 255 {
			v = 255
		}
		dst[i] = byte(v)
	}
	return nil
}
