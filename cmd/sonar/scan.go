package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sonar/device"
	"github.com/cwbudde/algo-sonar/internal/config"
	"github.com/cwbudde/algo-sonar/internal/tui"
	"github.com/cwbudde/algo-sonar/ranging"
)

type scanFlags struct {
	simulate float64
	fast     bool
	useTUI   bool
	count    int
	method   string
}

func newScanCmd() *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Continuously measure distance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, f)
		},
	}

	cmd.Flags().Float64Var(&f.simulate, "simulate", 0, "Simulate a reflector at this distance in meters instead of using audio hardware")
	cmd.Flags().BoolVar(&f.fast, "fast", false, "Run the simulation as fast as possible instead of in real time")
	cmd.Flags().BoolVar(&f.useTUI, "tui", false, "Show a live dashboard")
	cmd.Flags().IntVar(&f.count, "count", 0, "Stop after this many cycles (0 runs until interrupted)")
	cmd.Flags().StringVar(&f.method, "method", "", "Correlation method override: direct or fft")

	return cmd
}

// session bundles an engine with its endpoints.
type session struct {
	engine *ranging.Engine
	source string
}

func openSession(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log *logrus.Logger, f scanFlags) (*session, error) {
	if f.method != "" {
		cfg.Engine.Method = f.method
	}

	if cmd.Flags().Changed("simulate") {
		room := cfg.Simulate
		room.DistanceM = f.simulate
		return openSimulated(ctx, cfg.Engine, room, log, !f.fast)
	}

	return openDevice(ctx, cfg.Engine, cfg.Device, log)
}

func openSimulated(ctx context.Context, engineCfg ranging.Config, roomCfg device.RoomConfig, log *logrus.Logger, realtime bool) (*session, error) {
	room, err := device.NewRoom(roomCfg)
	if err != nil {
		return nil, err
	}

	var waiter ranging.Waiter = room
	if realtime {
		waiter = pacedWaiter{room: room}
	}

	e, err := ranging.New(engineCfg, room, ranging.WithLogger(log), ranging.WithWaiter(waiter))
	if err != nil {
		return nil, err
	}

	if err := e.Initialize(ctx, room); err != nil {
		return nil, err
	}

	return &session{
		engine: e,
		source: fmt.Sprintf("simulated wall at %.2f m", roomCfg.DistanceM),
	}, nil
}

func openDevice(ctx context.Context, engineCfg ranging.Config, devCfg device.DuplexConfig, log *logrus.Logger) (*session, error) {
	dev, err := device.OpenDuplex(devCfg, log)
	if err != nil {
		return nil, err
	}

	e, err := ranging.New(engineCfg, dev, ranging.WithLogger(log))
	if err != nil {
		_ = dev.Close()
		return nil, err
	}

	if err := e.Initialize(ctx, dev); err != nil {
		_ = dev.Close()
		return nil, err
	}

	return &session{engine: e, source: "audio device"}, nil
}

// pacedWaiter advances the simulated room in step with the wall clock.
type pacedWaiter struct {
	room *device.Room
}

func (p pacedWaiter) Wait(ctx context.Context, d time.Duration) error {
	if err := (ranging.TimerWaiter{}).Wait(ctx, d); err != nil {
		return err
	}

	return p.room.Wait(ctx, d)
}

func runScan(cmd *cobra.Command, f scanFlags) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := openSession(ctx, cmd, cfg, log, f)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.engine.Stop(); err != nil {
			log.Warnf("stop: %v", err)
		}
	}()

	if f.useTUI {
		return runDashboard(ctx, s, log)
	}

	err = s.engine.Run(ctx, func(r ranging.RangeSample) {
		printSample(cmd, r)
		if f.count > 0 && r.Seq >= uint64(f.count) {
			cancel()
		}
	})

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func runDashboard(ctx context.Context, s *session, log *logrus.Logger) error {
	// Log lines would corrupt the dashboard.
	log.SetLevel(logrus.ErrorLevel)

	results, err := s.engine.Start(ctx)
	if err != nil {
		return err
	}

	model := tui.New(tui.Info{
		Source:     s.source,
		SessionID:  s.engine.SessionID(),
		SampleRate: s.engine.SampleRate(),
		Config:     s.engine.Config(),
	}, func() { _ = s.engine.Stop() })

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	go tui.Forward(p, results, s.engine.Err)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}

	return err
}

func printSample(cmd *cobra.Command, r ranging.RangeSample) {
	fmt.Fprintf(cmd.OutOrStdout(), "%5d  raw %-8s  smoothed %-8s  score %.2f  peak %.3f\n",
		r.Seq, r.Raw, r.Smoothed, r.Confidence, r.Peak)
}
