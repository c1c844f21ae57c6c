// Package biquad provides second-order IIR sections, cascades of them and
// the RBJ cookbook designs used to band-limit capture windows.
package biquad
