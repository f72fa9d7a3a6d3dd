// Package config provides configuration management for motionrig
package config

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/normanking/motionrig/internal/anim"
	"github.com/normanking/motionrig/internal/audio"
	"github.com/normanking/motionrig/internal/logging"
)

// Config holds all application configuration. Every empirical tuning constant
// of the animation channels is exposed here as a configurable default.
type Config struct {
	Engine anim.Config       `mapstructure:"engine"`
	Audio  audio.LevelConfig `mapstructure:"audio"`
	Stream StreamConfig      `mapstructure:"stream"`
	Log    logging.Config    `mapstructure:"log"`
}

// StreamConfig configures the renderer-facing frame stream
type StreamConfig struct {
	Addr      string `mapstructure:"addr"`       // listen address, default :7473
	TickRate  int    `mapstructure:"tick_rate"`  // engine ticks per second, default 60
	SendQueue int    `mapstructure:"send_queue"` // per-client frame buffer, default 8
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: anim.DefaultConfig(),
		Audio:  audio.DefaultLevelConfig(),
		Stream: StreamConfig{
			Addr:      ":7473",
			TickRate:  60,
			SendQueue: 8,
		},
		Log: *logging.DefaultConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".motionrig"), nil
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configDir, err := GetConfigDir()
	if err != nil {
		return cfg, err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("MOTIONRIG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// Config file not found, use defaults and create one
		if err := Save(cfg); err != nil {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes the configuration to file
func Save(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	viper.Set("engine", cfg.Engine)
	viper.Set("audio", cfg.Audio)
	viper.Set("stream", cfg.Stream)
	viper.Set("log", cfg.Log)

	configPath := filepath.Join(configDir, "config.yaml")
	return viper.WriteConfigAs(configPath)
}

// Watch re-reads the config file on write and delivers the new tree to
// onChange. Unparseable edits are ignored; the last good config stands.
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg := DefaultConfig()
		if err := viper.Unmarshal(cfg); err != nil {
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}
