// Command sonar measures the distance to the nearest reflector with a
// speaker and a microphone.
//
// Usage:
//
//	sonar scan [--simulate 1.5] [--tui] [--count n]
//	sonar beep [--duration 1000] [--freq 440]
//	sonar chirp --out chirp.wav
//	sonar replay recording.wav [--dump]
//
// All commands accept --config pointing to a YAML file; see
// internal/config for its layout.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sonar/internal/config"
)

var (
	flagConfig   string
	flagLogLevel string
	flagJSON     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sonar",
		Short: "Acoustic rangefinder using a chirp, a microphone and a matched filter",
		Long: `sonar emits a short near-ultrasonic chirp through the speaker, records the
microphone and cross-correlates the recording with the chirp to find the echo
delay, reporting the distance to the nearest reflector several times a second.

Use --simulate to run against a simulated room when no audio hardware is
available.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Log as JSON")

	rootCmd.AddCommand(newScanCmd(), newBeepCmd(), newChirpCmd(), newReplayCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config (or the defaults) and applies the logging flags.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		if cfg, err = config.Load(flagConfig); err != nil {
			return nil, nil, err
		}
	}

	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagJSON {
		cfg.Logging.JSON = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, cfg.NewLogger(), nil
}
