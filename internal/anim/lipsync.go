package anim

import (
	"math"
	"math/rand"
)

// LipSyncConfig holds lip-sync tuning values.
type LipSyncConfig struct {
	// Real-audio path
	LevelVariationFreq float32 `mapstructure:"level_variation_freq"` // rad/s, default 15
	LevelVariationAmp  float32 `mapstructure:"level_variation_amp"`  // default 0.1

	// Procedural fallback path
	SimFreqs    [3]float32 `mapstructure:"sim_freqs"`    // rad/s, default {12, 18, 25}
	SimBaseline float32    `mapstructure:"sim_baseline"` // default 0.3
	SimNoiseAmp float32    `mapstructure:"sim_noise_amp"` // default 0.1

	// Silence decay, applied per tick
	DecayFactor float32 `mapstructure:"decay_factor"` // default 0.85

	// Output channel scaling
	PrimaryScale float32 `mapstructure:"primary_scale"` // default 0.9
	RoundedScale float32 `mapstructure:"rounded_scale"` // default 0.4
}

// DefaultLipSyncConfig returns sensible defaults
func DefaultLipSyncConfig() LipSyncConfig {
	return LipSyncConfig{
		LevelVariationFreq: 15,
		LevelVariationAmp:  0.1,
		SimFreqs:           [3]float32{12, 18, 25},
		SimBaseline:        0.3,
		SimNoiseAmp:        0.1,
		DecayFactor:        0.85,
		PrimaryScale:       0.9,
		RoundedScale:       0.4,
	}
}

// LipSync converts a loudness scalar (or a synthetic waveform when no real
// audio analysis is available) into mouth-open viseme weights.
type LipSync struct {
	cfg  LipSyncConfig
	rng  *rand.Rand
	open float32
}

func NewLipSync(cfg LipSyncConfig, rng *rand.Rand) *LipSync {
	return &LipSync{
		cfg: cfg,
		rng: rng,
	}
}

// Update advances the mouth-open value for one tick. elapsed is
// session-elapsed time in seconds; level is the smoothed loudness in [0,1].
func (l *LipSync) Update(elapsed float64, speaking, audioAvailable bool, level float32) {
	switch {
	case speaking && audioAvailable:
		// Small high-frequency variation so sustained vowels don't hold flat.
		variation := float32(math.Sin(elapsed*float64(l.cfg.LevelVariationFreq))) * l.cfg.LevelVariationAmp
		l.open = clamp(level+variation, 0, 1)

	case speaking:
		// No analyzable audio: synthesize a speech-like waveform.
		open := l.cfg.SimBaseline
		amps := [3]float32{0.25, 0.15, 0.1}
		for i, freq := range l.cfg.SimFreqs {
			open += float32(math.Sin(elapsed*float64(freq))) * amps[i]
		}
		open += l.rng.Float32() * l.cfg.SimNoiseAmp
		l.open = clamp(open, 0, 1)

	default:
		// Decay rather than snap so the mouth never visibly pops shut.
		l.open *= l.cfg.DecayFactor
	}
}

// Apply writes the viseme channel weights for the current tick.
func (l *LipSync) Apply(weights *ChannelWeights) {
	weights.Set(ChannelPrimaryOpen, l.open*l.cfg.PrimaryScale)
	weights.Set(ChannelRoundedOpen, l.open*l.cfg.RoundedScale)
}

// Open returns the raw mouth-open value before channel scaling.
func (l *LipSync) Open() float32 {
	return l.open
}
