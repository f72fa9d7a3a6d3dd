package audio

// LevelConfig holds loudness extraction tuning. The band bounds and level
// mapping are empirical values tuned so typical speech peaks near 1.0 and
// silence floors at 0; they are kept configurable rather than derived.
type LevelConfig struct {
	BandLow  int     `mapstructure:"band_low"`  // first bin of the voice band, default 2
	BandHigh int     `mapstructure:"band_high"` // last bin (inclusive), default 20
	Floor    float32 `mapstructure:"floor"`     // raw-level offset, default 30
	Scale    float32 `mapstructure:"scale"`     // raw-level divisor, default 150
	Attack   float32 `mapstructure:"attack"`    // EMA weight of the new sample, default 0.7
}

// DefaultLevelConfig returns sensible defaults
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{
		BandLow:  2,
		BandHigh: 20,
		Floor:    30,
		Scale:    150,
		Attack:   0.7,
	}
}

// LevelMeter converts analyser frames into a smoothed, normalized loudness
// scalar in [0,1]. It is driven by the same per-frame scheduling as
// rendering and holds no timers of its own.
type LevelMeter struct {
	cfg    LevelConfig
	source Analyser

	level     float32
	available bool
	active    bool

	frame FrequencyFrame
}

// NewLevelMeter probes the analyser once; a source returning
// ErrAnalyserUnavailable marks the meter unavailable and the engine must use
// the simulated-waveform lip-sync path.
func NewLevelMeter(cfg LevelConfig, source Analyser) *LevelMeter {
	m := &LevelMeter{
		cfg:    cfg,
		source: source,
	}
	if source != nil {
		m.available = source.Frame(&m.frame) == nil
	}
	return m
}

// Available reports whether a real analysis backend exists.
func (m *LevelMeter) Available() bool {
	return m.available
}

// Start begins consuming frames on subsequent ticks.
func (m *LevelMeter) Start() {
	if m.available {
		m.active = true
	}
}

// Stop forces the level to zero; no further frames are read until Start.
func (m *LevelMeter) Stop() {
	m.active = false
	m.level = 0
}

// Tick reads the current frame and updates the smoothed level. Between Stop
// and Start the level stays at zero.
func (m *LevelMeter) Tick() float32 {
	if !m.active {
		return m.level
	}

	if err := m.source.Frame(&m.frame); err != nil {
		m.Stop()
		if err == ErrAnalyserUnavailable {
			m.available = false
		}
		return m.level
	}

	m.level = m.level*(1-m.cfg.Attack) + m.process(&m.frame)*m.cfg.Attack
	return m.level
}

// Level returns the current smoothed loudness in [0,1].
func (m *LevelMeter) Level() float32 {
	return m.level
}

// process maps the voice-band mean of one frame to a raw normalized level.
// Bins below BandLow carry DC and sub-audible energy and are excluded.
func (m *LevelMeter) process(frame *FrequencyFrame) float32 {
	var sum float32
	count := 0
	for i := m.cfg.BandLow; i <= m.cfg.BandHigh && i < BinCount; i++ {
		sum += float32(frame[i])
		count++
	}
	if count == 0 {
		return 0
	}

	mean := sum / float32(count)
	raw := (mean - m.cfg.Floor) / m.cfg.Scale
	if raw < 0 {
		return 0
	}
	if raw > 1 {
		return 1
	}
	return raw
}
