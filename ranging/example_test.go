package ranging_test

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sonar/device"
	"github.com/cwbudde/algo-sonar/ranging"
)

func ExampleEngine() {
	roomCfg := device.DefaultRoomConfig()
	roomCfg.DistanceM = 1.715

	room, err := device.NewRoom(roomCfg)
	if err != nil {
		panic(err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	e, err := ranging.New(ranging.DefaultConfig(), room, ranging.WithWaiter(room), ranging.WithLogger(log))
	if err != nil {
		panic(err)
	}
	if err := e.Initialize(context.Background(), room); err != nil {
		panic(err)
	}

	results, err := e.Start(context.Background())
	if err != nil {
		panic(err)
	}

	for r := range results {
		fmt.Printf("cycle %d: %.3f m\n", r.Seq, r.Raw.Meters)
		if r.Seq == 3 {
			break
		}
	}
	_ = e.Stop()

	// Output:
	// cycle 1: 1.715 m
	// cycle 2: 1.715 m
	// cycle 3: 1.715 m
}

func ExampleEMA() {
	d := ranging.Absent
	for _, raw := range []float64{2, 2, 3} {
		d = ranging.EMA(d, ranging.At(raw), 0.5)
	}
	fmt.Println(d)

	// Output:
	// 2.50 m
}
