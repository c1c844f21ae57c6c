package level

import "github.com/cwbudde/algo-sonar/dsp/core"

// MeterConfig defines configuration for the level meter.
type MeterConfig struct {
	core.ProcessorConfig
	// Window is the number of most recent samples the RMS covers.
	Window int
}

// MeterOption mutates a MeterConfig.
type MeterOption func(*MeterConfig)

// DefaultMeterConfig returns sensible defaults.
func DefaultMeterConfig() MeterConfig {
	cfg := core.DefaultProcessorConfig()

	return MeterConfig{
		ProcessorConfig: cfg,
		Window:          cfg.BlockSize,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) MeterOption {
	return func(cfg *MeterConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithWindow sets the RMS window length in samples.
func WithWindow(samples int) MeterOption {
	return func(cfg *MeterConfig) {
		if samples > 0 {
			cfg.Window = samples
		}
	}
}

// ApplyMeterOptions applies zero or more options to the default config.
func ApplyMeterOptions(opts ...MeterOption) MeterConfig {
	cfg := DefaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
