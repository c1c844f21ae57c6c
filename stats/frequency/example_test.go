package frequency_test

import (
	"fmt"

	"github.com/cwbudde/algo-sonar/stats/frequency"
)

func ExampleCalculate() {
	// Energy only in bin 2 of 5 bins at 8 kHz (bins are 1 kHz apart).
	s := frequency.Calculate([]float64{0, 0, 1, 0, 0}, 8000)
	fmt.Printf("peak %.0f Hz, centroid %.0f Hz\n", s.PeakHz, s.Centroid)

	// Output:
	// peak 2000 Hz, centroid 2000 Hz
}
