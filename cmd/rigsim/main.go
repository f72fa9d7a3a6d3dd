// rigsim drives the animation engine headlessly: a scripted conversation
// timeline feeds the engine at a fixed tick rate and composited frames are
// streamed to renderer clients over WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/motionrig/internal/anim"
	"github.com/normanking/motionrig/internal/audio"
	"github.com/normanking/motionrig/internal/bus"
	"github.com/normanking/motionrig/internal/config"
	"github.com/normanking/motionrig/internal/logging"
	"github.com/normanking/motionrig/internal/stream"
)

// scriptLine is one scripted utterance: the avatar "speaks" it for Speak
// seconds, then rests for Pause seconds before the next line.
type scriptLine struct {
	Text  string
	Speak float32
	Pause float32
}

var defaultScript = []scriptLine{
	{"[happy] Hey! Good to see you again.", 2.5, 1.5},
	{"[excited] I have so much to tell you about today.", 3.5, 1.0},
	{"[neutral] Well, mostly the usual, if I'm honest.", 3.0, 2.0},
	{"[worried] Although the weather report did not look great.", 3.0, 1.5},
	{"[surprised] Oh, did you see the news this morning?", 2.5, 1.0},
	{"[shy] Sorry, I talk too much sometimes.", 2.5, 3.0},
	{"[proud] Still, I never miss a beat, do I?", 3.0, 2.5},
}

func main() {
	var (
		addr     = flag.String("addr", "", "stream listen address (overrides config)")
		seed     = flag.Int64("seed", 0, "random seed (0 = time-based)")
		duration = flag.Duration("duration", 0, "exit after this long (0 = run until interrupted)")
		noAudio  = flag.Bool("no-audio", false, "pretend the audio analyser is unavailable")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Stream.Addr = *addr
	}

	logger, err := logging.New(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	log := logger.Component("rigsim")

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	log.Info().Int64("seed", *seed).Str("addr", cfg.Stream.Addr).Msg("Starting simulator")

	// Hot-reloadable engine config; the tick loop swaps the engine when the
	// file changes.
	var pendingCfg atomic.Pointer[anim.Config]
	config.Watch(func(next *config.Config) {
		pendingCfg.Store(&next.Engine)
		log.Info().Msg("Configuration reloaded")
	})

	eventBus := bus.NewEventBus()
	eventBus.Subscribe(bus.EventTypePoseChanged, func(e bus.Event) {
		log.Debug().Interface("data", e.Data).Msg("Pose changed")
	})
	eventBus.Subscribe(bus.EventTypeEmotionChanged, func(e bus.Event) {
		log.Debug().Interface("data", e.Data).Msg("Emotion changed")
	})

	server := stream.NewServer(cfg.Stream.SendQueue, logger.Zerolog())
	server.SetOnConnect(func(remote string) {
		eventBus.Publish(bus.Event{Type: bus.EventTypeClientConnected, Data: map[string]any{"remote": remote}})
	})
	server.SetOnDisconnect(func(remote string) {
		eventBus.Publish(bus.Event{Type: bus.EventTypeClientDisconnected, Data: map[string]any{"remote": remote}})
	})

	mux := http.NewServeMux()
	mux.Handle("/ws", server)
	httpServer := &http.Server{Addr: cfg.Stream.Addr, Handler: mux}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Stream server failed")
		}
	}()

	tickRate := cfg.Stream.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	dt := float32(1) / float32(tickRate)

	sim := audio.NewSimAnalyser(rng, float64(dt))
	var analyser audio.Analyser = sim
	if *noAudio {
		analyser = audio.UnavailableAnalyser{}
	}
	meter := audio.NewLevelMeter(cfg.Audio, analyser)
	if !meter.Available() {
		log.Warn().Msg("Audio analyser unavailable, lip sync falls back to simulated waveform")
		eventBus.Publish(bus.Event{Type: bus.EventTypeAudioUnavailable})
	}

	engine := anim.NewEngine(cfg.Engine, rng, logger.Zerolog())
	engine.SetOnPoseChange(func(from, to string) {
		eventBus.Publish(bus.Event{Type: bus.EventTypePoseChanged, Data: map[string]any{"from": from, "to": to}})
	})
	engine.SetOnEmotionChange(func(label anim.Emotion) {
		eventBus.Publish(bus.Event{Type: bus.EventTypeEmotionChanged, Data: map[string]any{"label": string(label)}})
	})
	engine.SetOnBlink(func() {
		eventBus.Publish(bus.Event{Type: bus.EventTypeBlink})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	loop := &simLoop{
		log:     log,
		engine:  engine,
		meter:   meter,
		sim:     sim,
		server:  server,
		bus:     eventBus,
		pending: &pendingCfg,
		rng:     rng,
		script:  defaultScript,
	}
	loop.run(ctx, dt)

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
	server.Close()
}

// simLoop owns the tick loop state. All animation state advances inside the
// tick, so cancelling the context leaves no pending work behind.
type simLoop struct {
	log     zerolog.Logger
	engine  *anim.Engine
	meter   *audio.LevelMeter
	sim     *audio.SimAnalyser
	server  *stream.Server
	bus     *bus.EventBus
	pending *atomic.Pointer[anim.Config]
	rng     *rand.Rand
	script  []scriptLine

	line      int
	lineTimer float32
	speaking  bool
}

func (s *simLoop) run(ctx context.Context, dt float32) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) * float64(dt)))
	defer ticker.Stop()

	s.startLine()

	for {
		select {
		case <-ctx.Done():
			s.meter.Stop()
			return
		case <-ticker.C:
			s.tick(dt)
		}
	}
}

func (s *simLoop) tick(dt float32) {
	if next := s.pending.Swap(nil); next != nil {
		s.engine = anim.NewEngine(*next, s.rng, s.log)
	}

	s.advanceScript(dt)

	emotion, _ := anim.ParseEmotionTag(s.script[s.line].Text)
	out := s.engine.Advance(dt, anim.Inputs{
		Loudness:       s.meter.Tick(),
		AudioAvailable: s.meter.Available(),
		Speaking:       s.speaking,
		Emotion:        emotion,
	})

	s.server.Broadcast(out)
}

// advanceScript moves through speak/pause phases and loops the script.
func (s *simLoop) advanceScript(dt float32) {
	s.lineTimer += dt
	line := s.script[s.line]

	if s.speaking && s.lineTimer >= line.Speak {
		s.setSpeaking(false)
	}
	if s.lineTimer >= line.Speak+line.Pause {
		s.line = (s.line + 1) % len(s.script)
		s.lineTimer = 0
		s.startLine()
	}
}

func (s *simLoop) startLine() {
	s.setSpeaking(true)
	_, text := anim.ParseEmotionTag(s.script[s.line].Text)
	s.log.Info().Str("text", text).Msg("Speaking")
}

func (s *simLoop) setSpeaking(speaking bool) {
	if s.speaking == speaking {
		return
	}
	s.speaking = speaking
	s.sim.SetSpeaking(speaking)
	if speaking {
		s.meter.Start()
		s.bus.Publish(bus.Event{Type: bus.EventTypeSpeakingStarted})
	} else {
		s.meter.Stop()
		s.bus.Publish(bus.Event{Type: bus.EventTypeSpeakingStopped})
	}
}
