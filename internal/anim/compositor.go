package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BreathConfig holds breathing overlay tuning.
type BreathConfig struct {
	Rate           float32 `mapstructure:"rate"`            // phase advance, rad/s, default 0.8
	SpineAmplitude float32 `mapstructure:"spine_amplitude"` // default 0.01
	ChestAmplitude float32 `mapstructure:"chest_amplitude"` // default 0.008
	ChestScale     float32 `mapstructure:"chest_scale"`     // default 1.5
}

// DefaultBreathConfig returns sensible defaults
func DefaultBreathConfig() BreathConfig {
	return BreathConfig{
		Rate:           0.8,
		SpineAmplitude: 0.01,
		ChestAmplitude: 0.008,
		ChestScale:     1.5,
	}
}

// Compositor merges the breathing overlay and speaking head jitter into the
// Pose Director's output.
type Compositor struct {
	cfg BreathConfig

	// Breath phase grows without bound; sine wraps it naturally.
	phase float32
}

func NewCompositor(cfg BreathConfig) *Compositor {
	return &Compositor{cfg: cfg}
}

// Compose returns the final bone rotations for the tick. elapsed is
// session-elapsed time in seconds, used for the head jitter so it stays
// independent of the pose timer.
func (c *Compositor) Compose(dt float32, elapsed float64, speaking bool, pose BoneRotations) BoneRotations {
	c.phase += dt * c.cfg.Rate

	result := pose

	breath := float32(math.Sin(float64(c.phase)))
	spine := result.Get(BoneSpine)
	spine[0] += breath * c.cfg.SpineAmplitude
	result.Set(BoneSpine, spine)

	chest := result.Get(BoneChest)
	chest[0] += ((breath + 1) / 2) * c.cfg.ChestAmplitude * c.cfg.ChestScale
	result.Set(BoneChest, chest)

	if speaking {
		head := result.Get(BoneHead)
		head = head.Add(mgl32.Vec3{
			float32(math.Sin(elapsed*2.5)) * 0.03,
			float32(math.Sin(elapsed*1.8)) * 0.05,
			float32(math.Sin(elapsed*2.2)) * 0.025,
		})
		result.Set(BoneHead, head)
	}

	return result
}

// Phase returns the current breath phase in radians.
func (c *Compositor) Phase() float32 {
	return c.phase
}
