// Package device provides capture and playback endpoints for the ranging
// engine: a sound card opened through miniaudio, a simulated room for
// hardware-free runs, and WAV file replay and export.
package device

import "errors"

// Errors returned by devices.
var (
	ErrClosed      = errors.New("device: closed")
	ErrBusy        = errors.New("device: all playback voices busy")
	ErrEndOfStream = errors.New("device: end of stream")
	ErrInvalid     = errors.New("device: invalid configuration")
)
