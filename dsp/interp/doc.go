// Package interp provides the 4-point cubic Hermite interpolator ([Hermite4])
// used for fractional delay reads.
package interp
