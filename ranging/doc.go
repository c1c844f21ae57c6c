// Package ranging estimates the distance to the nearest reflecting surface
// with a speaker and a microphone.
//
// An Engine repeatedly emits a short linear chirp, records the microphone
// for a fixed window, and locates the echo by normalized cross-correlation
// against the emitted chirp. The round-trip delay is converted to a one-way
// distance at the speed of sound and smoothed over time with an exponential
// moving average.
//
// # Lifecycle
//
//	Uninitialized --Initialize--> Armed --Start--> Running --Stop--> Stopped
//
// Stop is valid in any state and is terminal. PlayTestBeep is valid while
// Armed or Running.
//
// # Usage
//
//	eng, err := ranging.New(ranging.DefaultConfig(), speaker)
//	if err != nil { ... }
//	if err := eng.Initialize(ctx, mic); err != nil { ... }
//	results, err := eng.Start(ctx)
//	for r := range results {
//	    if r.Smoothed.Valid {
//	        fmt.Printf("%.2f m\n", r.Smoothed.Meters)
//	    }
//	}
//
// The engine never touches audio hardware directly. Capture and playback are
// supplied through the CaptureStream and PlaybackSink interfaces; package
// device provides implementations for a sound card, a simulated room and WAV
// replay.
package ranging
