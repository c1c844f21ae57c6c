package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sonar/device"
	"github.com/cwbudde/algo-sonar/measure/sweep"
	"github.com/cwbudde/algo-sonar/stats/frequency"
)

func newChirpCmd() *cobra.Command {
	var (
		out  string
		rate int
	)

	cmd := &cobra.Command{
		Use:   "chirp",
		Short: "Write the ranging chirp to a WAV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			c := cfg.Engine
			template := sweep.Chirp(float64(rate), c.PulseMs, c.StartFreq, c.EndFreq)
			if err := sweep.Taper(template, c.TaperFraction); err != nil {
				return err
			}

			if err := device.WriteWav(out, template, rate); err != nil {
				return err
			}

			info, err := os.Stat(out)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d samples at %s, %.0f-%.0f Hz (%s)\n",
				out, len(template), humanize.SIWithDigits(float64(rate), 1, "Hz"),
				c.StartFreq, c.EndFreq, humanize.Bytes(uint64(info.Size())))

			if st, err := frequency.Analyze(template, float64(rate)); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "spectrum: centroid %.0f Hz, 90%% of energy in %.0f-%.0f Hz\n",
					st.Centroid, st.LowHz, st.HighHz)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "chirp.wav", "Output WAV file")
	cmd.Flags().IntVar(&rate, "rate", 48000, "Sample rate in Hz")

	return cmd
}
