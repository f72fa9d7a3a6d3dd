package anim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestChannelWeightsClamp(t *testing.T) {
	w := NewChannelWeights()

	w.Set(ChannelHappy, 0.5)
	if w.Get(ChannelHappy) != 0.5 {
		t.Errorf("expected 0.5, got %f", w.Get(ChannelHappy))
	}

	w.Set(ChannelHappy, 1.5)
	if w.Get(ChannelHappy) != 1.0 {
		t.Error("weight should be clamped to 1.0")
	}

	w.Set(ChannelHappy, -0.5)
	if w.Get(ChannelHappy) != 0.0 {
		t.Error("weight should be clamped to 0.0")
	}
}

func TestChannelWeightsToMap(t *testing.T) {
	w := NewChannelWeights()
	w.Set(ChannelBlink, 0.8)

	m := w.ToMap()
	if len(m) != int(ChannelCount) {
		t.Fatalf("expected %d entries, got %d", ChannelCount, len(m))
	}
	if m["blink"] != 0.8 {
		t.Errorf("blink = %f, want 0.8", m["blink"])
	}
}

func TestBoneRotationsLerp(t *testing.T) {
	a := NewBoneRotations()
	b := NewBoneRotations()

	b.Set(BoneHead, mgl32.Vec3{1, 2, 3})

	mid := a.Lerp(&b, 0.5)
	if mid.Get(BoneHead) != (mgl32.Vec3{0.5, 1, 1.5}) {
		t.Errorf("lerp midpoint = %v", mid.Get(BoneHead))
	}

	if a.Lerp(&b, 0) != a {
		t.Error("t=0 should return the base")
	}
	if a.Lerp(&b, 1) != b {
		t.Error("t=1 should return the target")
	}
}

func TestBoneRotationsToMap(t *testing.T) {
	r := NewBoneRotations()
	r.Set(BoneSpine, mgl32.Vec3{0.1, 0, 0})

	m := r.ToMap()
	if len(m) != int(BoneCount) {
		t.Fatalf("expected %d entries, got %d", BoneCount, len(m))
	}
	if m["spine"] != (mgl32.Vec3{0.1, 0, 0}) {
		t.Errorf("spine = %v", m["spine"])
	}
}

func TestEaseInOutCubic(t *testing.T) {
	if easeInOutCubic(0) != 0 {
		t.Error("ease(0) should be 0")
	}
	if easeInOutCubic(1) != 1 {
		t.Error("ease(1) should be 1")
	}
	if easeInOutCubic(0.5) != 0.5 {
		t.Error("ease(0.5) should be 0.5")
	}
	if easeInOutCubic(0.25) >= 0.25 {
		t.Error("ease-in should lag below linear early on")
	}
	if easeInOutCubic(0.75) <= 0.75 {
		t.Error("ease-out should lead above linear late")
	}
}
