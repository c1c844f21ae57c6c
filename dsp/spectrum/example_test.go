package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sonar/dsp/spectrum"
)

func ExampleBand_LevelDB() {
	block := make([]float64, 960)
	for i := range block {
		block[i] = 0.1 * math.Sin(2*math.Pi*16000*float64(i)/48000)
	}

	band, err := spectrum.NewBand(16000, 16000, 48000, 1)
	if err != nil {
		panic(err)
	}

	db, _ := band.LevelDB(block)
	fmt.Printf("%.1f dB\n", db)
	// Output: -20.0 dB
}
