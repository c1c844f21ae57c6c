package ranging

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Distance is an optional distance in meters. The zero value is absent.
type Distance struct {
	Meters float64
	Valid  bool
}

// Absent is the "no distance" value.
var Absent = Distance{}

// At returns a present distance of m meters.
func At(m float64) Distance {
	return Distance{Meters: m, Valid: true}
}

// String formats the distance with centimeter precision, or "n/a" when absent.
func (d Distance) String() string {
	if !d.Valid {
		return "n/a"
	}

	return fmt.Sprintf("%.2f m", d.Meters)
}

// LagToDistance converts a round-trip lag in samples to a one-way distance.
func LagToDistance(lag int, sampleRate float64) float64 {
	return float64(lag) / sampleRate * SpeedOfSound / 2
}

// EMA blends cur into prev with weight alpha.
//
//	EMA(absent, cur)  = cur
//	EMA(prev, absent) = absent
//	EMA(prev, cur)    = alpha·cur + (1−alpha)·prev
func EMA(prev, cur Distance, alpha float64) Distance {
	if !prev.Valid {
		return cur
	}

	if !cur.Valid {
		return Absent
	}

	return At(alpha*cur.Meters + (1-alpha)*prev.Meters)
}

// MaxAbs returns the largest absolute value in samples, 0 for none.
func MaxAbs(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	return vecmath.MaxAbs(samples)
}

// Smoother applies EMA across cycles. With a positive hold it keeps the
// last smoothed value through up to hold consecutive misses instead of
// clearing it immediately.
type Smoother struct {
	alpha  float64
	hold   int
	misses int
	value  Distance
}

// NewSmoother returns a Smoother with an absent initial value.
func NewSmoother(alpha float64, hold int) *Smoother {
	return &Smoother{alpha: alpha, hold: hold}
}

// Update folds raw into the running value and returns the new value.
func (s *Smoother) Update(raw Distance) Distance {
	if !raw.Valid && s.value.Valid && s.misses < s.hold {
		s.misses++
		return s.value
	}

	if raw.Valid {
		s.misses = 0
	}

	s.value = EMA(s.value, raw, s.alpha)

	return s.value
}

// Value returns the current smoothed distance.
func (s *Smoother) Value() Distance {
	return s.value
}

// Reset clears the running value.
func (s *Smoother) Reset() {
	s.value = Absent
	s.misses = 0
}
