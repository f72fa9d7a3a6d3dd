package anim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// PoseIndex identifies an entry in the fixed pose catalog.
type PoseIndex int

const (
	PoseRelaxed PoseIndex = iota
	PoseArmsCrossed
	PoseWaving
	PoseShy
	PoseTouchingHead
	PoseCatalogSize
)

// PoseDefinition is an immutable named full-body pose.
type PoseDefinition struct {
	Name      string
	Rotations BoneRotations
}

const deg = math.Pi / 180

func rot(x, y, z float32) mgl32.Vec3 {
	return mgl32.Vec3{x * deg, y * deg, z * deg}
}

// poseCatalog is built once at initialization and never mutated.
func poseCatalog() [PoseCatalogSize]PoseDefinition {
	relaxed := PoseDefinition{Name: "relaxed"}
	relaxed.Rotations.Set(BoneSpine, rot(2, 0, 0))
	relaxed.Rotations.Set(BoneLeftShoulder, rot(0, 0, 4))
	relaxed.Rotations.Set(BoneRightShoulder, rot(0, 0, -4))
	relaxed.Rotations.Set(BoneLeftUpperArm, rot(4, 0, 70))
	relaxed.Rotations.Set(BoneRightUpperArm, rot(4, 0, -70))
	relaxed.Rotations.Set(BoneLeftLowerArm, rot(8, 0, 6))
	relaxed.Rotations.Set(BoneRightLowerArm, rot(8, 0, -6))
	relaxed.Rotations.Set(BoneLeftHand, rot(0, 0, 4))
	relaxed.Rotations.Set(BoneRightHand, rot(0, 0, -4))

	armsCrossed := PoseDefinition{Name: "armsCrossed"}
	armsCrossed.Rotations.Set(BoneSpine, rot(4, 0, 0))
	armsCrossed.Rotations.Set(BoneChest, rot(2, 0, 0))
	armsCrossed.Rotations.Set(BoneHead, rot(-3, 0, 0))
	armsCrossed.Rotations.Set(BoneLeftShoulder, rot(0, 12, 8))
	armsCrossed.Rotations.Set(BoneRightShoulder, rot(0, -12, -8))
	armsCrossed.Rotations.Set(BoneLeftUpperArm, rot(40, 20, 55))
	armsCrossed.Rotations.Set(BoneRightUpperArm, rot(40, -20, -55))
	armsCrossed.Rotations.Set(BoneLeftLowerArm, rot(0, 95, 35))
	armsCrossed.Rotations.Set(BoneRightLowerArm, rot(0, -95, -35))
	armsCrossed.Rotations.Set(BoneLeftHand, rot(0, 0, 10))
	armsCrossed.Rotations.Set(BoneRightHand, rot(0, 0, -10))

	waving := PoseDefinition{Name: "waving"}
	waving.Rotations.Set(BoneSpine, rot(2, 0, 2))
	waving.Rotations.Set(BoneHead, rot(0, 0, -5))
	waving.Rotations.Set(BoneLeftShoulder, rot(0, 0, 4))
	waving.Rotations.Set(BoneLeftUpperArm, rot(4, 0, 70))
	waving.Rotations.Set(BoneLeftLowerArm, rot(8, 0, 6))
	waving.Rotations.Set(BoneRightShoulder, rot(0, 0, -20))
	waving.Rotations.Set(BoneRightUpperArm, rot(0, 0, -140))
	waving.Rotations.Set(BoneRightLowerArm, rot(0, -25, -30))
	waving.Rotations.Set(BoneRightHand, rot(0, 0, -15))

	shy := PoseDefinition{Name: "shy"}
	shy.Rotations.Set(BoneSpine, rot(8, 0, 0))
	shy.Rotations.Set(BoneChest, rot(5, 0, 0))
	shy.Rotations.Set(BoneHead, rot(12, 8, 0))
	shy.Rotations.Set(BoneLeftShoulder, rot(0, 10, 10))
	shy.Rotations.Set(BoneRightShoulder, rot(0, -10, -10))
	shy.Rotations.Set(BoneLeftUpperArm, rot(15, 5, 75))
	shy.Rotations.Set(BoneRightUpperArm, rot(15, -5, -75))
	shy.Rotations.Set(BoneLeftLowerArm, rot(20, 30, 10))
	shy.Rotations.Set(BoneRightLowerArm, rot(20, -30, -10))
	shy.Rotations.Set(BoneLeftHand, rot(0, 0, 12))
	shy.Rotations.Set(BoneRightHand, rot(0, 0, -12))
	shy.Rotations.Set(BoneLeftUpperLeg, rot(0, 5, 2))
	shy.Rotations.Set(BoneRightUpperLeg, rot(0, -5, -2))

	touchingHead := PoseDefinition{Name: "touchingHead"}
	touchingHead.Rotations.Set(BoneSpine, rot(2, 0, 0))
	touchingHead.Rotations.Set(BoneHead, rot(0, -6, 6))
	touchingHead.Rotations.Set(BoneLeftShoulder, rot(0, 0, 4))
	touchingHead.Rotations.Set(BoneLeftUpperArm, rot(4, 0, 70))
	touchingHead.Rotations.Set(BoneLeftLowerArm, rot(8, 0, 6))
	touchingHead.Rotations.Set(BoneRightShoulder, rot(0, 0, -15))
	touchingHead.Rotations.Set(BoneRightUpperArm, rot(-30, 0, -110))
	touchingHead.Rotations.Set(BoneRightLowerArm, rot(0, -120, -20))
	touchingHead.Rotations.Set(BoneRightHand, rot(0, -20, -10))

	return [PoseCatalogSize]PoseDefinition{
		PoseRelaxed:      relaxed,
		PoseArmsCrossed:  armsCrossed,
		PoseWaving:       waving,
		PoseShy:          shy,
		PoseTouchingHead: touchingHead,
	}
}

// speakingPoses is the gesture-biased subset drawn from while speaking.
var speakingPoses = [3]PoseIndex{PoseWaving, PoseTouchingHead, PoseArmsCrossed}

// idlePoses is the idle draw pool; relaxed and touching-head are
// double-weighted.
var idlePoses = [5]PoseIndex{PoseRelaxed, PoseRelaxed, PoseTouchingHead, PoseTouchingHead, PoseArmsCrossed}

// PoseConfig holds pose decision timing.
type PoseConfig struct {
	SpeakingInterval float32 `mapstructure:"speaking_interval"` // seconds, default 2.5
	IdleInterval     float32 `mapstructure:"idle_interval"`     // seconds, default 5
	BlendDuration    float32 `mapstructure:"blend_duration"`    // seconds, default 1.5
}

// DefaultPoseConfig returns sensible defaults
func DefaultPoseConfig() PoseConfig {
	return PoseConfig{
		SpeakingInterval: 2.5,
		IdleInterval:     5,
		BlendDuration:    1.5,
	}
}

// PoseDirector selects discrete body poses probabilistically and blends
// between them continuously.
type PoseDirector struct {
	cfg     PoseConfig
	rng     *rand.Rand
	catalog [PoseCatalogSize]PoseDefinition

	current PoseIndex
	target  PoseIndex
	blend   float32
	timer   float32

	currentPose BoneRotations
}

func NewPoseDirector(cfg PoseConfig, rng *rand.Rand) *PoseDirector {
	d := &PoseDirector{
		cfg:     cfg,
		rng:     rng,
		catalog: poseCatalog(),
		current: PoseRelaxed,
		target:  PoseRelaxed,
		blend:   1,
	}
	d.currentPose = d.catalog[PoseRelaxed].Rotations
	return d
}

// Update advances the pose timer and blend for one tick. It reports whether a
// new pose decision was made this tick.
func (d *PoseDirector) Update(dt float32, speaking bool, emotion Emotion) bool {
	d.timer += dt

	interval := d.cfg.IdleInterval
	if speaking {
		interval = d.cfg.SpeakingInterval
	}

	changed := false
	if d.timer >= interval {
		next := d.selectPose(speaking, emotion)
		if next == d.target {
			// Never repeat the previous decision; advance with wrap.
			next = (next + 1) % PoseCatalogSize
		}
		d.current = d.target
		d.target = next
		d.blend = 0
		d.timer = 0
		changed = true
	}

	d.blend = clamp(d.blend+dt/d.cfg.BlendDuration, 0, 1)
	eased := easeInOutCubic(d.blend)

	base := d.catalog[d.current].Rotations
	d.currentPose = base.Lerp(&d.catalog[d.target].Rotations, eased)

	return changed
}

func (d *PoseDirector) selectPose(speaking bool, emotion Emotion) PoseIndex {
	if speaking {
		return speakingPoses[d.rng.Intn(len(speakingPoses))]
	}

	switch emotion {
	case EmotionShy, EmotionEmbarrassed:
		return PoseShy
	case EmotionAngry, EmotionAnnoyed, EmotionProud:
		return PoseArmsCrossed
	case EmotionExcited, EmotionHappy:
		return PoseWaving
	}

	return idlePoses[d.rng.Intn(len(idlePoses))]
}

// Pose returns the materialized interpolated pose for the current tick.
func (d *PoseDirector) Pose() BoneRotations {
	return d.currentPose
}

// Current and Target return the catalog indices of the blend endpoints.
func (d *PoseDirector) Current() PoseIndex { return d.current }
func (d *PoseDirector) Target() PoseIndex  { return d.target }

// BlendFactor returns the raw (un-eased) blend progress in [0,1].
func (d *PoseDirector) BlendFactor() float32 {
	return d.blend
}

// PoseName returns the catalog name for idx.
func (d *PoseDirector) PoseName(idx PoseIndex) string {
	return d.catalog[idx].Name
}

func easeInOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - float32(math.Pow(float64(-2*t+2), 3))/2
}
