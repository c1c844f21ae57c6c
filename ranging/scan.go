package ranging

import (
	"context"
	"errors"
	"fmt"
)

// loop runs scan cycles until ctx ends or the capture stream fails.
func (e *Engine) loop(ctx context.Context, results chan<- RangeSample, done chan<- struct{}) {
	defer close(done)
	defer close(results)
	defer e.ended()

	smoother := NewSmoother(e.cfg.SmoothingAlpha, e.cfg.HoldMisses)
	record := e.cfg.RecordDuration()
	idle := max(0, e.cfg.Interval()-record)

	var seq uint64
	for {
		if ctx.Err() != nil {
			e.finish(ctx.Err())
			return
		}

		seq++

		sample, err := e.cycle(ctx, seq, smoother)
		if err != nil {
			e.finish(err)
			return
		}

		e.last.Store(&sample)

		select {
		case results <- sample:
		case <-ctx.Done():
			e.finish(ctx.Err())
			return
		}

		if err := e.waiter.Wait(ctx, idle); err != nil {
			e.finish(err)
			return
		}
	}
}

// cycle emits one chirp, waits for the capture window and analyzes it.
func (e *Engine) cycle(ctx context.Context, seq uint64, smoother *Smoother) (RangeSample, error) {
	micRMS, micDB, micPeak := e.meter.RMS(), e.meter.DB(), e.meter.Peak()

	if err := e.playback.Play(ctx, e.template, 1); err != nil {
		if ctx.Err() != nil {
			return RangeSample{}, ctx.Err()
		}

		e.log.Warnf("cycle %d: %v", seq, fmt.Errorf("%w: %w", ErrPlayback, err))
	}

	if err := e.waiter.Wait(ctx, e.cfg.RecordDuration()); err != nil {
		return RangeSample{}, err
	}

	snap := e.snapshots.Snapshot(e.ring)
	defer e.snapshots.Put(snap)

	sample := e.analyze(snap.Samples(), micRMS, smoother)
	sample.MicDB = micDB
	sample.MicPeak = micPeak
	sample.Seq = seq
	sample.Time = e.now()

	e.log.Debugf("cycle %d: raw=%v smoothed=%v score=%.3f peak=%.3f rms=%.4f",
		seq, sample.Raw, sample.Smoothed, sample.Confidence, sample.Peak, sample.MicRMS)

	return sample, nil
}

// analyze gates, correlates and smooths one capture window.
func (e *Engine) analyze(window []float64, micRMS float64, smoother *Smoother) RangeSample {
	sample := RangeSample{
		MicRMS: micRMS,
		Peak:   MaxAbs(window),
		Raw:    Absent,
	}

	if db, err := e.band.LevelDB(window); err == nil {
		sample.BandPowerDB = db
	}

	if e.prefilter != nil {
		e.prefilter.Reset()
		e.prefilter.ProcessBlock(window)
	}

	if sample.Peak >= e.cfg.NoiseGate {
		peak := e.filter.Find(window, e.blind)
		sample.Confidence = peak.Score

		if peak.Lag > 0 && peak.Score >= AcceptThreshold {
			sample.Raw = At(LagToDistance(peak.Lag, e.sampleRate))
		}
	}

	sample.Smoothed = smoother.Update(sample.Raw)

	return sample
}

// finish records why the loop ended. Ends caused by Stop are not errors.
func (e *Engine) finish(err error) {
	if e.stopping.Load() {
		return
	}

	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		e.log.Errorf("scan loop ended: %v", err)
	}

	e.mu.Lock()
	e.loopErr = err
	e.mu.Unlock()
}

// ended moves a loop that exits on its own into StateStopped. Resources stay
// attached until Stop.
func (e *Engine) ended() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateRunning {
		e.state = StateStopped
	}
}
