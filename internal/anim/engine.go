package anim

import (
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// Config bundles the tuning of every animation channel.
type Config struct {
	LipSync LipSyncConfig `mapstructure:"lipsync"`
	Blink   BlinkConfig   `mapstructure:"blink"`
	Emotion EmotionConfig `mapstructure:"emotion"`
	Pose    PoseConfig    `mapstructure:"pose"`
	Breath  BreathConfig  `mapstructure:"breath"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		LipSync: DefaultLipSyncConfig(),
		Blink:   DefaultBlinkConfig(),
		Emotion: DefaultEmotionConfig(),
		Pose:    DefaultPoseConfig(),
		Breath:  DefaultBreathConfig(),
	}
}

// Inputs is the abstract signal set supplied by the host once per tick.
type Inputs struct {
	Loudness       float32 // smoothed loudness in [0,1]
	AudioAvailable bool    // true when a real analyser feeds Loudness
	Speaking       bool    // true while voice audio is actively rendering
	Emotion        Emotion // requested emotion label
}

// Outputs is the flat per-tick result applied by the host to its own
// skeleton and morph representation.
type Outputs struct {
	Bones       map[string]mgl32.Vec3 `json:"bones"`
	Expressions map[string]float32    `json:"expressions"`
}

// Engine is one live animation session. All channel state lives here and is
// advanced exactly once per call to Advance; the engine never self-schedules.
type Engine struct {
	mu sync.Mutex

	logger zerolog.Logger

	lipSync *LipSync
	blink   *BlinkScheduler
	emotion *EmotionBlender
	pose    *PoseDirector
	comp    *Compositor

	elapsed  float64
	blinking bool

	onPoseChange    func(from, to string)
	onEmotionChange func(label Emotion)
	onBlink         func()
}

// NewEngine creates an engine session. The random source is injected so pose
// and blink scheduling are deterministic under test.
func NewEngine(cfg Config, rng *rand.Rand, logger zerolog.Logger) *Engine {
	return &Engine{
		logger:  logger.With().Str("component", "engine").Logger(),
		lipSync: NewLipSync(cfg.LipSync, rng),
		blink:   NewBlinkScheduler(cfg.Blink, rng),
		emotion: NewEmotionBlender(cfg.Emotion),
		pose:    NewPoseDirector(cfg.Pose, rng),
		comp:    NewCompositor(cfg.Breath),
	}
}

// SetOnPoseChange sets the callback fired when a new pose decision is made.
func (e *Engine) SetOnPoseChange(fn func(from, to string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onPoseChange = fn
}

// SetOnEmotionChange sets the callback fired when the active label changes.
func (e *Engine) SetOnEmotionChange(fn func(label Emotion)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEmotionChange = fn
}

// SetOnBlink sets the callback fired when a blink starts.
func (e *Engine) SetOnBlink(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onBlink = fn
}

// Advance runs every channel once for one tick and returns the composited
// bone rotations and expression weights. dt is the elapsed time since the
// previous call, in seconds.
func (e *Engine) Advance(dt float32, in Inputs) Outputs {
	e.mu.Lock()
	defer e.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	in.Loudness = clamp(in.Loudness, 0, 1)

	e.elapsed += float64(dt)

	prevEmotion := e.emotion.Active()
	e.emotion.SetEmotion(in.Emotion)
	if cb := e.onEmotionChange; cb != nil && e.emotion.Active() != prevEmotion {
		cb(e.emotion.Active())
	}
	e.emotion.Update(dt)

	e.lipSync.Update(e.elapsed, in.Speaking, in.AudioAvailable, in.Loudness)

	e.blink.Update(dt)
	if e.blink.IsBlinking() && !e.blinking {
		if cb := e.onBlink; cb != nil {
			cb()
		}
	}
	e.blinking = e.blink.IsBlinking()

	prevTarget := e.pose.Target()
	if e.pose.Update(dt, in.Speaking, e.emotion.Active()) {
		e.logger.Debug().
			Str("from", e.pose.PoseName(prevTarget)).
			Str("to", e.pose.PoseName(e.pose.Target())).
			Bool("speaking", in.Speaking).
			Msg("pose decision")
		if cb := e.onPoseChange; cb != nil {
			cb(e.pose.PoseName(prevTarget), e.pose.PoseName(e.pose.Target()))
		}
	}

	bones := e.comp.Compose(dt, e.elapsed, in.Speaking, e.pose.Pose())

	weights := NewChannelWeights()
	e.emotion.Apply(&weights)
	e.lipSync.Apply(&weights)
	e.blink.Apply(&weights)

	return Outputs{
		Bones:       bones.ToMap(),
		Expressions: weights.ToMap(),
	}
}

// Elapsed returns session-elapsed time in seconds.
func (e *Engine) Elapsed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsed
}
