package device

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/cwbudde/algo-sonar/ranging"
)

const (
	// maxVoices bounds how many emissions can overlap.
	maxVoices = 4
	// scratchFrames is the largest block converted per sink call.
	scratchFrames = 4096
)

// DuplexConfig selects and configures the sound card.
type DuplexConfig struct {
	SampleRate   uint32 `yaml:"sample_rate"`
	PeriodFrames uint32 `yaml:"period_frames"`
	// CaptureName and PlaybackName pick devices by case-insensitive
	// substring; empty selects the system default.
	CaptureName  string `yaml:"capture"`
	PlaybackName string `yaml:"playback"`
}

// DefaultDuplexConfig returns 48 kHz with a 10 ms period.
func DefaultDuplexConfig() DuplexConfig {
	return DuplexConfig{
		SampleRate:   48000,
		PeriodFrames: 480,
	}
}

// Duplex is a mono float32 full-duplex sound card stream. It serves as both
// the engine's CaptureStream and PlaybackSink.
//
// The audio callback never locks or allocates: the capture sink and queued
// voices are exchanged through atomic pointers.
type Duplex struct {
	ctx        *malgo.AllocatedContext
	dev        *malgo.Device
	sampleRate float64
	log        ranging.Logger

	sink    atomic.Pointer[func([]float64)]
	voices  [maxVoices]atomic.Pointer[voice]
	scratch []float64

	closeOnce sync.Once
	closed    atomic.Bool
}

var (
	_ ranging.CaptureStream = (*Duplex)(nil)
	_ ranging.PlaybackSink  = (*Duplex)(nil)
)

// OpenDuplex opens and starts the sound card.
func OpenDuplex(cfg DuplexConfig, log ranging.Logger) (*Duplex, error) {
	if cfg.SampleRate == 0 {
		return nil, fmt.Errorf("%w: sample rate must be > 0", ErrInvalid)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("device: init audio context: %w", err)
	}

	d := &Duplex{
		ctx:     ctx,
		log:     log,
		scratch: make([]float64, scratchFrames),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = cfg.SampleRate
	deviceConfig.PeriodSizeInFrames = cfg.PeriodFrames
	deviceConfig.Alsa.NoMMap = 1

	if id := d.findDevice(malgo.Capture, cfg.CaptureName); id != nil {
		deviceConfig.Capture.DeviceID = id
	}

	if id := d.findDevice(malgo.Playback, cfg.PlaybackName); id != nil {
		deviceConfig.Playback.DeviceID = id
	}

	dev, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: d.onData,
	})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()

		return nil, fmt.Errorf("device: init duplex device: %w", err)
	}

	d.dev = dev
	d.sampleRate = float64(dev.SampleRate())

	if err := dev.Start(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("device: start duplex device: %w", err)
	}

	if log != nil {
		log.Infof("audio device started at %d Hz", dev.SampleRate())
	}

	return d, nil
}

func (d *Duplex) findDevice(kind malgo.DeviceType, name string) unsafe.Pointer {
	if name == "" {
		return nil
	}

	infos, err := d.ctx.Devices(kind)
	if err != nil {
		if d.log != nil {
			d.log.Warnf("list devices: %v", err)
		}

		return nil
	}

	for i := range infos {
		if strings.Contains(strings.ToLower(infos[i].Name()), strings.ToLower(name)) {
			if d.log != nil {
				d.log.Infof("selected audio device: %s", infos[i].Name())
			}

			return infos[i].ID.Pointer()
		}
	}

	if d.log != nil {
		d.log.Warnf("no audio device matches %q, using default", name)
	}

	return nil
}

// onData runs on the audio thread.
func (d *Duplex) onData(pOutput, pInput []byte, frameCount uint32) {
	n := int(frameCount)
	if n == 0 {
		return
	}

	if sink := d.sink.Load(); sink != nil && len(pInput) >= n*4 {
		in := unsafe.Slice((*float32)(unsafe.Pointer(&pInput[0])), n)
		for off := 0; off < n; off += len(d.scratch) {
			block := d.scratch[:min(len(d.scratch), n-off)]
			for i := range block {
				block[i] = float64(in[off+i])
			}
			(*sink)(block)
		}
	}

	if len(pOutput) < n*4 {
		return
	}

	out := unsafe.Slice((*float32)(unsafe.Pointer(&pOutput[0])), n)
	clear(out)

	for i := range d.voices {
		v := d.voices[i].Load()
		if v == nil {
			continue
		}

		k := min(n, len(v.samples)-v.pos)
		for j := 0; j < k; j++ {
			out[j] += float32(v.gain * v.samples[v.pos+j])
		}

		v.pos += k
		if v.pos >= len(v.samples) {
			d.voices[i].CompareAndSwap(v, nil)
		}
	}
}

// SampleRate returns the negotiated device rate.
func (d *Duplex) SampleRate() float64 {
	return d.sampleRate
}

// Attach routes captured audio to sink.
func (d *Duplex) Attach(sink func(chunk []float64)) error {
	if d.closed.Load() {
		return ErrClosed
	}

	d.sink.Store(&sink)

	return nil
}

// Detach stops routing captured audio.
func (d *Duplex) Detach() error {
	d.sink.Store(nil)
	return nil
}

// Play schedules samples on a free voice. It returns ErrBusy when every
// voice is still playing.
func (d *Duplex) Play(ctx context.Context, samples []float64, gain float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if d.closed.Load() {
		return ErrClosed
	}

	if len(samples) == 0 {
		return nil
	}

	v := &voice{samples: append([]float64(nil), samples...), gain: gain}
	for i := range d.voices {
		if d.voices[i].CompareAndSwap(nil, v) {
			return nil
		}
	}

	return ErrBusy
}

// Close stops the device and frees the audio context. It is idempotent.
func (d *Duplex) Close() error {
	var err error

	d.closeOnce.Do(func() {
		d.closed.Store(true)
		d.sink.Store(nil)

		if d.dev != nil {
			d.dev.Uninit()
		}

		if d.ctx != nil {
			err = d.ctx.Uninit()
			d.ctx.Free()
		}
	})

	return err
}
