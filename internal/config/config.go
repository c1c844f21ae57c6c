// Package config loads the sonar application configuration from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-sonar/device"
	"github.com/cwbudde/algo-sonar/ranging"
)

// Config is the top-level application configuration: engine tuning, the
// sound card, the simulated room and logging.
type Config struct {
	Engine   ranging.Config      `yaml:"engine"`
	Device   device.DuplexConfig `yaml:"device"`
	Simulate device.RoomConfig   `yaml:"simulate"`
	Logging  LoggingConfig       `yaml:"logging"`
}

// LoggingConfig selects the logrus level and output format.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine:   ranging.DefaultConfig(),
		Device:   device.DefaultDuplexConfig(),
		Simulate: device.DefaultRoomConfig(),
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults, so fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the engine parameters and the logging level.
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if c.Device.SampleRate == 0 {
		return fmt.Errorf("device: sample_rate must be > 0")
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}

// NewLogger builds a logrus logger writing to stderr as configured.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if level, err := logrus.ParseLevel(c.Logging.Level); err == nil {
		log.SetLevel(level)
	}

	if c.Logging.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
