package anim

import (
	"math/rand"
	"testing"
)

func TestPoseNeverRepeatsConsecutively(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		d := NewPoseDirector(DefaultPoseConfig(), rand.New(rand.NewSource(seed)))
		dt := float32(0.1)
		speaking := false

		for elapsed := float32(0); elapsed < 120; elapsed += dt {
			// Alternate speaking every 10 seconds to exercise both policies.
			if int(elapsed)%20 >= 10 {
				speaking = true
			} else {
				speaking = false
			}

			prev := d.Target()
			if d.Update(dt, speaking, EmotionNeutral) {
				if d.Target() == prev {
					t.Fatalf("seed %d: pose %s repeated consecutively", seed, d.PoseName(prev))
				}
			}
		}
	}
}

func TestPoseDecisionCadenceSpeaking(t *testing.T) {
	d := NewPoseDirector(DefaultPoseConfig(), rand.New(rand.NewSource(5)))
	dt := float32(1.0 / 60)

	elapsed := float32(0)
	for {
		elapsed += dt
		if d.Update(dt, true, EmotionNeutral) {
			break
		}
		if elapsed > 3 {
			t.Fatal("no pose decision within 3s while speaking")
		}
	}

	if elapsed < 2.5-dt || elapsed > 2.5+dt {
		t.Errorf("speaking decision at %f s, want 2.5", elapsed)
	}
	if d.BlendFactor() > dt {
		t.Errorf("blend factor should reset on decision, got %f", d.BlendFactor())
	}

	// Blend rises to 1.0 after 1.5 more seconds.
	for i := 0; i < 90; i++ {
		d.Update(dt, false, EmotionNeutral)
	}
	if d.BlendFactor() != 1 {
		t.Errorf("blend factor should reach 1 after 1.5s, got %f", d.BlendFactor())
	}
}

func TestPoseDecisionCadenceIdle(t *testing.T) {
	d := NewPoseDirector(DefaultPoseConfig(), rand.New(rand.NewSource(5)))
	dt := float32(1.0 / 60)

	elapsed := float32(0)
	for {
		elapsed += dt
		if d.Update(dt, false, EmotionNeutral) {
			break
		}
		if elapsed > 6 {
			t.Fatal("no pose decision within 6s while idle")
		}
	}

	if elapsed < 5-dt || elapsed > 5+dt {
		t.Errorf("idle decision at %f s, want 5.0", elapsed)
	}
}

func TestPoseSpeakingSubset(t *testing.T) {
	allowed := map[PoseIndex]bool{
		PoseWaving:       true,
		PoseTouchingHead: true,
		PoseArmsCrossed:  true,
	}

	for seed := int64(0); seed < 20; seed++ {
		d := NewPoseDirector(DefaultPoseConfig(), rand.New(rand.NewSource(seed)))

		// First decision from the relaxed start cannot collide with the
		// subset, so no wrap-advance applies.
		for i := 0; i < 200; i++ {
			if d.Update(1.0/60, true, EmotionNeutral) {
				break
			}
		}
		if !allowed[d.Target()] {
			t.Errorf("seed %d: speaking pose %s outside gesture subset", seed, d.PoseName(d.Target()))
		}
	}
}

func TestPoseEmotionDeterministic(t *testing.T) {
	tests := []struct {
		emotion Emotion
		want    PoseIndex
	}{
		{EmotionShy, PoseShy},
		{EmotionEmbarrassed, PoseShy},
		{EmotionAngry, PoseArmsCrossed},
		{EmotionAnnoyed, PoseArmsCrossed},
		{EmotionProud, PoseArmsCrossed},
		{EmotionExcited, PoseWaving},
		{EmotionHappy, PoseWaving},
	}

	for _, tt := range tests {
		d := NewPoseDirector(DefaultPoseConfig(), rand.New(rand.NewSource(1)))
		for i := 0; i < 400; i++ {
			if d.Update(1.0/60, false, tt.emotion) {
				break
			}
		}
		if d.Target() != tt.want {
			t.Errorf("%s: target = %s, want %s", tt.emotion, d.PoseName(d.Target()), d.PoseName(tt.want))
		}
	}
}

func TestPoseBlendInterpolates(t *testing.T) {
	d := NewPoseDirector(DefaultPoseConfig(), rand.New(rand.NewSource(1)))
	dt := float32(1.0 / 60)

	for i := 0; i < 400; i++ {
		if d.Update(dt, false, EmotionShy) {
			break
		}
	}
	base := d.catalog[d.Current()].Rotations
	target := d.catalog[d.Target()].Rotations

	// Midway through the blend the pose must lie strictly between endpoints
	// on a bone the endpoints disagree about.
	for i := 0; i < 45; i++ {
		d.Update(dt, false, EmotionShy)
	}
	mid := d.Pose()
	spine := mid.Get(BoneSpine)[0]
	lo, hi := base.Get(BoneSpine)[0], target.Get(BoneSpine)[0]
	if lo > hi {
		lo, hi = hi, lo
	}
	if spine <= lo || spine >= hi {
		t.Errorf("mid-blend spine %f not strictly between %f and %f", spine, lo, hi)
	}

	// After the blend completes the pose equals the target exactly.
	for i := 0; i < 90; i++ {
		d.Update(dt, false, EmotionShy)
	}
	final := d.Pose()
	for b := BoneIndex(0); b < BoneCount; b++ {
		if final.Get(b) != target.Get(b) {
			t.Fatalf("bone %s: pose %v != target %v after blend", BoneNames[b], final.Get(b), target.Get(b))
		}
	}
}

func TestPoseCatalogNames(t *testing.T) {
	d := NewPoseDirector(DefaultPoseConfig(), rand.New(rand.NewSource(1)))

	want := map[PoseIndex]string{
		PoseRelaxed:      "relaxed",
		PoseArmsCrossed:  "armsCrossed",
		PoseWaving:       "waving",
		PoseShy:          "shy",
		PoseTouchingHead: "touchingHead",
	}
	for idx, name := range want {
		if d.PoseName(idx) != name {
			t.Errorf("pose %d name = %s, want %s", idx, d.PoseName(idx), name)
		}
	}
}
