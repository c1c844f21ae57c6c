package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-sonar/dsp/buffer"
)

func ExampleRing() {
	r, err := buffer.NewRing(4)
	if err != nil {
		panic(err)
	}

	r.Write([]float64{1, 2, 3})
	r.Write([]float64{4, 5})

	fmt.Println(r.Snapshot(3))
	// Output: [3 4 5]
}
