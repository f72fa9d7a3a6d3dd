package anim

import (
	"strings"
)

// Emotion is a discrete emotion label supplied by the host.
type Emotion string

const (
	EmotionNeutral     Emotion = "neutral"
	EmotionHappy       Emotion = "happy"
	EmotionAngry       Emotion = "angry"
	EmotionSad         Emotion = "sad"
	EmotionSurprised   Emotion = "surprised"
	EmotionEmbarrassed Emotion = "embarrassed"
	EmotionLoving      Emotion = "loving"
	EmotionWorried     Emotion = "worried"
	EmotionAnnoyed     Emotion = "annoyed"
	EmotionExcited     Emotion = "excited"
	EmotionShy         Emotion = "shy"
	EmotionProud       Emotion = "proud"
	EmotionConfused    Emotion = "confused"
)

type emotionTarget struct {
	channel ChannelIndex
	peak    float32
}

// emotionTargets maps each label to the expression channel it drives and the
// peak weight reached when the blend completes. Neutral is absent: all
// channels decay to zero. Embarrassed and shy reuse the happy channel at low
// intensity as a blush surrogate.
var emotionTargets = map[Emotion]emotionTarget{
	EmotionHappy:       {ChannelHappy, 0.7},
	EmotionExcited:     {ChannelHappy, 0.7},
	EmotionProud:       {ChannelHappy, 0.7},
	EmotionAngry:       {ChannelAngry, 0.7},
	EmotionAnnoyed:     {ChannelAngry, 0.7},
	EmotionSad:         {ChannelSad, 0.7},
	EmotionWorried:     {ChannelSad, 0.7},
	EmotionSurprised:   {ChannelSurprised, 0.7},
	EmotionConfused:    {ChannelSurprised, 0.7},
	EmotionLoving:      {ChannelRelaxed, 0.7},
	EmotionEmbarrassed: {ChannelHappy, 0.3},
	EmotionShy:         {ChannelHappy, 0.3},
}

// KnownEmotion reports whether label is part of the closed enumeration.
func KnownEmotion(label Emotion) bool {
	if label == EmotionNeutral {
		return true
	}
	_, ok := emotionTargets[label]
	return ok
}

// ParseEmotionTag extracts a leading bracketed emotion tag from reply text,
// e.g. "[happy] Hello!" -> (EmotionHappy, "Hello!"). Absent or unrecognized
// tags yield neutral.
func ParseEmotionTag(text string) (Emotion, string) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") {
		return EmotionNeutral, trimmed
	}
	end := strings.Index(trimmed, "]")
	if end < 0 {
		return EmotionNeutral, trimmed
	}

	label := Emotion(strings.ToLower(strings.TrimSpace(trimmed[1:end])))
	rest := strings.TrimSpace(trimmed[end+1:])
	if !KnownEmotion(label) {
		return EmotionNeutral, rest
	}
	return label, rest
}

// EmotionConfig holds emotion transition tuning.
type EmotionConfig struct {
	BlendRate float32 `mapstructure:"blend_rate"` // progress units/sec, default 3
}

// DefaultEmotionConfig returns sensible defaults
func DefaultEmotionConfig() EmotionConfig {
	return EmotionConfig{
		BlendRate: 3,
	}
}

// EmotionBlender cross-fades expression channel weights toward the currently
// requested emotion label.
type EmotionBlender struct {
	cfg EmotionConfig

	active   Emotion
	progress float32

	// Fade-out state for channels driven by a previous label.
	fadeProgress [ChannelCount]float32
	fadePeak     [ChannelCount]float32
}

func NewEmotionBlender(cfg EmotionConfig) *EmotionBlender {
	return &EmotionBlender{
		cfg:    cfg,
		active: EmotionNeutral,
	}
}

// SetEmotion requests a new target label. Unrecognized labels are treated as
// neutral. A label change resets blend progress to zero and starts fading the
// outgoing channel.
func (e *EmotionBlender) SetEmotion(label Emotion) {
	if !KnownEmotion(label) {
		label = EmotionNeutral
	}
	if label == e.active {
		return
	}

	if t, ok := emotionTargets[e.active]; ok {
		e.fadeProgress[t.channel] = e.progress
		e.fadePeak[t.channel] = t.peak
	}

	e.active = label
	e.progress = 0
}

// Update advances the blend by one tick.
func (e *EmotionBlender) Update(dt float32) {
	e.progress = clamp(e.progress+dt*e.cfg.BlendRate, 0, 1)

	for c := ChannelHappy; c < ChannelCount; c++ {
		e.fadeProgress[c] = clamp(e.fadeProgress[c]-dt*e.cfg.BlendRate, 0, 1)
	}
}

// Apply writes the emotion channel weights for the current tick.
func (e *EmotionBlender) Apply(weights *ChannelWeights) {
	for c := ChannelHappy; c < ChannelCount; c++ {
		weights.Set(c, e.fadeProgress[c]*e.fadePeak[c])
	}

	if t, ok := emotionTargets[e.active]; ok {
		incoming := e.progress * t.peak
		if incoming > weights.Get(t.channel) {
			weights.Set(t.channel, incoming)
		}
	}
}

// Active returns the label currently being blended toward.
func (e *EmotionBlender) Active() Emotion {
	return e.active
}

// Progress returns the blend progress in [0,1].
func (e *EmotionBlender) Progress() float32 {
	return e.progress
}
