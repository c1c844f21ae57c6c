// Package spectrum provides single-bin spectral measurements based on the
// Goertzel algorithm, for checking how much of a recording falls inside a
// known frequency band without running a full FFT.
package spectrum
