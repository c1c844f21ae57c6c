package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sonar/device"
	"github.com/cwbudde/algo-sonar/ranging"
)

func newBeepCmd() *cobra.Command {
	var (
		durationMs float64
		freqHz     float64
	)

	cmd := &cobra.Command{
		Use:   "beep",
		Short: "Play a test tone through the speaker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			dev, err := device.OpenDuplex(cfg.Device, log)
			if err != nil {
				return err
			}

			e, err := ranging.New(cfg.Engine, dev, ranging.WithLogger(log))
			if err != nil {
				_ = dev.Close()
				return err
			}
			defer e.Stop()

			if err := e.Initialize(cmd.Context(), dev); err != nil {
				return err
			}

			if err := e.PlayTestBeep(cmd.Context(), durationMs, freqHz); err != nil {
				return err
			}

			// Let the tone drain before the device closes.
			return ranging.TimerWaiter{}.Wait(cmd.Context(), time.Duration(durationMs*float64(time.Millisecond))+100*time.Millisecond)
		},
	}

	cmd.Flags().Float64Var(&durationMs, "duration", 1000, "Tone duration in milliseconds")
	cmd.Flags().Float64Var(&freqHz, "freq", 440, "Tone frequency in Hz")

	return cmd
}
