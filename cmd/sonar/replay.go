package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sonar/device"
	"github.com/cwbudde/algo-sonar/dsp/conv"
	"github.com/cwbudde/algo-sonar/measure/sweep"
	"github.com/cwbudde/algo-sonar/ranging"
	"github.com/cwbudde/algo-sonar/stats/frequency"
	stats "github.com/cwbudde/algo-sonar/stats/time"
)

func newReplayCmd() *cobra.Command {
	var (
		dump   bool
		dumpMs float64
		top    int
	)

	cmd := &cobra.Command{
		Use:   "replay <file.wav>",
		Short: "Run the ranging engine over a recording",
		Long: `replay feeds a WAV recording to the engine as if it came from the
microphone, one scan cycle after another, until the file ends. The recording
should start with a chirp emitted at the beginning of each cycle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			src, err := device.OpenWav(args[0], 512)
			if err != nil {
				return err
			}

			if dump {
				samples, _, err := device.ReadWav(args[0])
				if err != nil {
					return err
				}
				dumpRecording(cmd.OutOrStdout(), samples, src.SampleRate(), cfg.Engine, dumpMs, top)
			}

			e, err := ranging.New(cfg.Engine, &device.NullSink{}, ranging.WithLogger(log), ranging.WithWaiter(src))
			if err != nil {
				return err
			}
			defer e.Stop()

			if err := e.Initialize(cmd.Context(), src); err != nil {
				return err
			}

			err = e.Run(cmd.Context(), func(r ranging.RangeSample) {
				printSample(cmd, r)
			})
			if errors.Is(err, device.ErrEndOfStream) {
				return nil
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Print level statistics and the strongest correlation lags of the recording")
	cmd.Flags().Float64Var(&dumpMs, "dump-ms", 1000, "Length of the recording prefix analyzed by --dump")
	cmd.Flags().IntVar(&top, "top", 5, "Number of correlation peaks printed by --dump")

	return cmd
}

type lagScore struct {
	lag   int
	score float64
}

// dumpRecording prints a level summary and the strongest local maxima of the
// correlation curve over the first dumpMs of samples.
func dumpRecording(w io.Writer, samples []float64, sampleRate float64, cfg ranging.Config, dumpMs float64, top int) {
	s := stats.Summarize(samples)
	fmt.Fprintf(w, "samples %d  rms %.1f dBFS  peak %.1f dBFS  crest %.2f  dc %.4f\n",
		s.Length, s.RMSdB, s.PeakdB, s.CrestFactor, s.DC)

	n := min(len(samples), int(dumpMs/1000*sampleRate))

	if st, err := frequency.Analyze(samples[:n], sampleRate); err == nil {
		fmt.Fprintf(w, "spectrum peak %.0f Hz  centroid %.0f Hz  rolloff %.0f Hz\n",
			st.PeakHz, st.Centroid, st.Rolloff)
	}

	template := sweep.Chirp(sampleRate, cfg.PulseMs, cfg.StartFreq, cfg.EndFreq)
	if err := sweep.Taper(template, cfg.TaperFraction); err != nil {
		fmt.Fprintf(w, "taper: %v\n", err)
		return
	}

	scores := conv.Scores(template, samples[:n], cfg.BlindMs, sampleRate)

	var peaks []lagScore
	for i := 1; i+1 < len(scores); i++ {
		if scores[i] > 0 && scores[i] >= scores[i-1] && scores[i] > scores[i+1] {
			peaks = append(peaks, lagScore{lag: i, score: scores[i]})
		}
	}

	sort.Slice(peaks, func(a, b int) bool { return peaks[a].score > peaks[b].score })

	for _, p := range peaks[:min(top, len(peaks))] {
		fmt.Fprintf(w, "lag %6d  score %.3f  %s\n", p.lag, p.score, ranging.At(ranging.LagToDistance(p.lag, sampleRate)))
	}
}
