// Package sweep synthesizes linear frequency sweeps (chirps) used as the
// probe signal for echo ranging.
//
// A linear chirp moves its instantaneous frequency at a constant rate from
// StartFreq to EndFreq. Its autocorrelation has a narrow main lobe, which makes
// it a good matched-filter template: the echo delay can be located to within a
// sample even when the echo is weak relative to background noise.
//
// # Usage
//
//	template := sweep.Chirp(48000, 40, 15000, 17000)
//	_ = sweep.Taper(template, 0.1) // optional soft edges
//
// The Linear type offers the same synthesis with strict parameter
// validation, for callers that want errors instead of best-effort output.
package sweep
