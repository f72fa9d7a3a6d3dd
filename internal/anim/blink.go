package anim

import (
	"math"
	"math/rand"
)

// BlinkConfig holds blink timing configuration.
type BlinkConfig struct {
	MinGap   float32 `mapstructure:"min_gap"`  // seconds, default 2
	MaxGap   float32 `mapstructure:"max_gap"`  // seconds, default 6
	Duration float32 `mapstructure:"duration"` // seconds, default 0.15
}

// DefaultBlinkConfig returns sensible defaults
func DefaultBlinkConfig() BlinkConfig {
	return BlinkConfig{
		MinGap:   2,
		MaxGap:   6,
		Duration: 0.15,
	}
}

// BlinkScheduler is an autonomous two-state timer producing an eyelid-closure
// weight. No external signal can cancel or force a blink.
type BlinkScheduler struct {
	cfg BlinkConfig
	rng *rand.Rand

	timeRemaining float32
	blinking      bool
	weight        float32
}

func NewBlinkScheduler(cfg BlinkConfig, rng *rand.Rand) *BlinkScheduler {
	b := &BlinkScheduler{
		cfg: cfg,
		rng: rng,
	}
	b.timeRemaining = b.nextGap()
	return b
}

// Update advances the blink state machine and returns the closure weight.
func (b *BlinkScheduler) Update(dt float32) float32 {
	b.timeRemaining -= dt

	if !b.blinking {
		if b.timeRemaining <= 0 {
			// Carry the overshoot so the cycle spans exactly Duration of
			// simulated time regardless of frame rate.
			b.blinking = true
			b.timeRemaining += b.cfg.Duration
		} else {
			b.weight = 0
			return 0
		}
	}

	progress := 1 - b.timeRemaining/b.cfg.Duration
	if progress >= 1 {
		// Blink complete: reopen and schedule the next one.
		b.blinking = false
		b.weight = 0
		b.timeRemaining = b.nextGap()
		return 0
	}

	// Bell curve: closes fully at the midpoint, reopens by the end.
	b.weight = float32(math.Sin(float64(progress) * math.Pi))
	return b.weight
}

// Apply writes the blink channel weight for the current tick.
func (b *BlinkScheduler) Apply(weights *ChannelWeights) {
	weights.Set(ChannelBlink, b.weight)
}

// IsBlinking reports whether a blink animation is in progress.
func (b *BlinkScheduler) IsBlinking() bool {
	return b.blinking
}

func (b *BlinkScheduler) nextGap() float32 {
	return b.cfg.MinGap + b.rng.Float32()*(b.cfg.MaxGap-b.cfg.MinGap)
}
