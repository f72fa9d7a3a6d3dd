// Package anim implements the procedural animation engine: lip sync,
// blinking, emotion blending, body poses, and per-frame composition.
package anim

import (
	"github.com/go-gl/mathgl/mgl32"
)

type BoneIndex int

const (
	BoneSpine BoneIndex = iota
	BoneChest
	BoneHead
	BoneHips
	BoneLeftShoulder
	BoneRightShoulder
	BoneLeftUpperArm
	BoneRightUpperArm
	BoneLeftLowerArm
	BoneRightLowerArm
	BoneLeftHand
	BoneRightHand
	BoneLeftUpperLeg
	BoneRightUpperLeg
	BoneCount
)

var BoneNames = [BoneCount]string{
	"spine",
	"chest",
	"head",
	"hips",
	"leftShoulder",
	"rightShoulder",
	"leftUpperArm",
	"rightUpperArm",
	"leftLowerArm",
	"rightLowerArm",
	"leftHand",
	"rightHand",
	"leftUpperLeg",
	"rightUpperLeg",
}

// BoneRotations holds one XYZ euler rotation (radians) per rig bone.
type BoneRotations [BoneCount]mgl32.Vec3

func NewBoneRotations() BoneRotations {
	return BoneRotations{}
}

func (r *BoneRotations) Set(idx BoneIndex, rot mgl32.Vec3) {
	r[idx] = rot
}

func (r *BoneRotations) Get(idx BoneIndex) mgl32.Vec3 {
	return r[idx]
}

func (r *BoneRotations) Lerp(target *BoneRotations, t float32) BoneRotations {
	if t <= 0 {
		return *r
	}
	if t >= 1 {
		return *target
	}

	var result BoneRotations
	for i := range r {
		result[i] = mgl32.Vec3{
			lerp(r[i][0], target[i][0], t),
			lerp(r[i][1], target[i][1], t),
			lerp(r[i][2], target[i][2], t),
		}
	}
	return result
}

// ToMap returns the flat name->rotation mapping consumed by the host skeleton.
func (r *BoneRotations) ToMap() map[string]mgl32.Vec3 {
	result := make(map[string]mgl32.Vec3, BoneCount)
	for i := range r {
		result[BoneNames[i]] = r[i]
	}
	return result
}

type ChannelIndex int

const (
	ChannelPrimaryOpen ChannelIndex = iota
	ChannelRoundedOpen
	ChannelBlink
	ChannelHappy
	ChannelAngry
	ChannelSad
	ChannelSurprised
	ChannelRelaxed
	ChannelCount
)

var ChannelNames = [ChannelCount]string{
	"primaryOpen",
	"roundedOpen",
	"blink",
	"happy",
	"angry",
	"sad",
	"surprised",
	"relaxed",
}

// ChannelWeights holds one scalar weight per expression channel.
type ChannelWeights [ChannelCount]float32

func NewChannelWeights() ChannelWeights {
	return ChannelWeights{}
}

func (w *ChannelWeights) Set(idx ChannelIndex, value float32) {
	w[idx] = clamp(value, 0, 1)
}

func (w *ChannelWeights) Get(idx ChannelIndex) float32 {
	return w[idx]
}

func (w *ChannelWeights) Reset() {
	for i := range w {
		w[i] = 0
	}
}

func (w *ChannelWeights) ToMap() map[string]float32 {
	result := make(map[string]float32, ChannelCount)
	for i := range w {
		result[ChannelNames[i]] = w[i]
	}
	return result
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
