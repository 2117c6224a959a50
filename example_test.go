package spatialize_test

import (
	"fmt"
	"log"
	"math"

	spatialize "github.com/tphakala/go-spatialize"
)

// ExampleSession_Process renders a short tone toward the front-right
// and reports the output size.
func ExampleSession_Process() {
	session, err := spatialize.NewInitialized(spatialize.RateDAT, 256)
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	// 300 samples of a 1 kHz tone: two frames, the second zero-padded.
	input := make([]float32, 300)
	for i := range input {
		input[i] = float32(0.5 * math.Sin(2*math.Pi*1000*float64(i)/spatialize.RateDAT))
	}

	out, err := session.Process(input, 0.5, 0.0)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Release()

	fmt.Println(out.Len())
	// Output: 1024
}

// ExampleSession_SetReverb shows the reverb controls. Level and decay
// time are stored as given; engagement is currently forced off.
func ExampleSession_SetReverb() {
	session, err := spatialize.NewDefaultSession()
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	if err := session.SetReverb(true, 0.8, 0.4); err != nil {
		log.Fatal(err)
	}

	fmt.Println(session.ReverbEnabled(), session.ReverbLevel(), session.ReverbTime())
	// Output: false 0.8 0.4
}
