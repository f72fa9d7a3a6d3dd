package anim

import (
	"math"
	"testing"
)

func TestEmotionBlendReachesPeak(t *testing.T) {
	e := NewEmotionBlender(DefaultEmotionConfig())
	e.SetEmotion(EmotionAngry)

	dt := float32(1.0 / 60)
	var w ChannelWeights

	// rate 3.0/s: the full transition takes 1/3 s = 20 ticks.
	for i := 0; i < 20; i++ {
		e.Update(dt)
	}
	e.Apply(&w)
	if math.Abs(float64(w.Get(ChannelAngry)-0.7)) > 1e-3 {
		t.Errorf("angry weight should reach 0.7 at t=1/3s, got %f", w.Get(ChannelAngry))
	}

	// Holds at the peak while the label is unchanged.
	for i := 0; i < 60; i++ {
		e.Update(dt)
	}
	e.Apply(&w)
	if math.Abs(float64(w.Get(ChannelAngry)-0.7)) > 1e-3 {
		t.Errorf("angry weight should stay at 0.7, got %f", w.Get(ChannelAngry))
	}
}

func TestEmotionProgressMonotonic(t *testing.T) {
	e := NewEmotionBlender(DefaultEmotionConfig())
	e.SetEmotion(EmotionHappy)

	prev := e.Progress()
	for i := 0; i < 40; i++ {
		e.Update(1.0 / 60)
		if e.Progress() < prev {
			t.Fatal("blend progress must be non-decreasing between label changes")
		}
		prev = e.Progress()
	}

	e.SetEmotion(EmotionSad)
	if e.Progress() != 0 {
		t.Errorf("progress should reset to 0 on label change, got %f", e.Progress())
	}
}

func TestEmotionOldChannelFadesOut(t *testing.T) {
	e := NewEmotionBlender(DefaultEmotionConfig())
	dt := float32(1.0 / 60)

	e.SetEmotion(EmotionHappy)
	for i := 0; i < 30; i++ {
		e.Update(dt)
	}

	e.SetEmotion(EmotionSad)

	var w ChannelWeights
	sawHappyFading := false
	for i := 0; i < 30; i++ {
		e.Update(dt)
		e.Apply(&w)
		if h := w.Get(ChannelHappy); h > 0 && h < 0.7 {
			sawHappyFading = true
		}
	}

	e.Apply(&w)
	if w.Get(ChannelHappy) != 0 {
		t.Errorf("happy channel should decay to 0, got %f", w.Get(ChannelHappy))
	}
	if math.Abs(float64(w.Get(ChannelSad)-0.7)) > 1e-3 {
		t.Errorf("sad channel should reach 0.7, got %f", w.Get(ChannelSad))
	}
	if !sawHappyFading {
		t.Error("old expression should fade rather than switch discretely")
	}
}

func TestEmotionNeutralDecaysAll(t *testing.T) {
	e := NewEmotionBlender(DefaultEmotionConfig())
	dt := float32(1.0 / 60)

	e.SetEmotion(EmotionSurprised)
	for i := 0; i < 30; i++ {
		e.Update(dt)
	}
	e.SetEmotion(EmotionNeutral)
	for i := 0; i < 30; i++ {
		e.Update(dt)
	}

	var w ChannelWeights
	e.Apply(&w)
	for c := ChannelHappy; c < ChannelCount; c++ {
		if w.Get(c) != 0 {
			t.Errorf("channel %s should be 0 under neutral, got %f", ChannelNames[c], w.Get(c))
		}
	}
}

func TestEmotionUnknownLabelTreatedAsNeutral(t *testing.T) {
	e := NewEmotionBlender(DefaultEmotionConfig())
	e.SetEmotion(Emotion("flabbergasted"))

	if e.Active() != EmotionNeutral {
		t.Errorf("unknown label should map to neutral, got %s", e.Active())
	}
}

func TestEmotionBlushSurrogate(t *testing.T) {
	for _, label := range []Emotion{EmotionEmbarrassed, EmotionShy} {
		e := NewEmotionBlender(DefaultEmotionConfig())
		e.SetEmotion(label)
		for i := 0; i < 30; i++ {
			e.Update(1.0 / 60)
		}

		var w ChannelWeights
		e.Apply(&w)
		if math.Abs(float64(w.Get(ChannelHappy)-0.3)) > 1e-3 {
			t.Errorf("%s: blush surrogate should peak at 0.3, got %f", label, w.Get(ChannelHappy))
		}
	}
}

func TestParseEmotionTag(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantTag  Emotion
		wantRest string
	}{
		{"simple tag", "[happy] Hello there!", EmotionHappy, "Hello there!"},
		{"uppercase tag", "[ANGRY] Go away.", EmotionAngry, "Go away."},
		{"no tag", "Just plain text", EmotionNeutral, "Just plain text"},
		{"unknown tag", "[bogus] Hmm", EmotionNeutral, "Hmm"},
		{"tag only", "[sad]", EmotionSad, ""},
		{"unclosed bracket", "[worried oh no", EmotionNeutral, "[worried oh no"},
		{"leading whitespace", "  [shy] hi", EmotionShy, "hi"},
		{"empty", "", EmotionNeutral, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, rest := ParseEmotionTag(tt.text)
			if tag != tt.wantTag {
				t.Errorf("tag = %s, want %s", tag, tt.wantTag)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}
