package audio

import (
	"math"
	"math/rand"

	"github.com/gopxl/beep"
)

// click is a decaying sine burst mixed with a little noise. Faster impacts
// ring at a higher pitch.
type click struct {
	freq     float64
	phase    float64
	position int
	total    int
	decay    float64
	rate     beep.SampleRate
	rng      *rand.Rand
}

func NewClick(speed float32, rate beep.SampleRate) beep.Streamer {
	freq := 180 + 12*math.Min(float64(speed), FullImpactSpeed)
	total := rate.N(clickDuration)
	return &click{
		freq:  freq,
		total: total,
		// amplitude falls to about 1% by the end
		decay: math.Log(100) / float64(total),
		rate:  rate,
		rng:   rand.New(rand.NewSource(int64(speed * 1000))),
	}
}

func (c *click) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.position >= c.total {
			return i, i > 0
		}
		amp := math.Exp(-c.decay * float64(c.position))
		val := amp * (0.8*math.Sin(2*math.Pi*c.phase) + 0.2*(c.rng.Float64()*2-1))

		samples[i][0] = val
		samples[i][1] = val

		c.phase += c.freq / float64(c.rate)
		c.phase -= math.Floor(c.phase)
		c.position++
	}
	return len(samples), true
}

func (c *click) Err() error { return nil }
