package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-sonar/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=44100 blockSize=256
}

func ExampleMsToSamples() {
	fmt.Println(core.MsToSamples(40, 48000))
	fmt.Printf("%.3f\n", core.SamplesToSeconds(480, 48000))

	// Output:
	// 1920
	// 0.010
}
