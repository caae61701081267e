package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// blipGenerator is a single decaying sine tone.
type blipGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newBlip(sr beep.SampleRate, freq float64) *blipGenerator {
	return &blipGenerator{sr: sr, freq: freq}
}

func (g *blipGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-t * 40)
		s := sineAt(g.freq, t, 0.25*env)
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *blipGenerator) Err() error { return nil }

// sweepGenerator rises linearly from one frequency to another over one
// second, with a soft attack so the crank doesn't click on.
type sweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	phase    float64
	pos      int
}

func newSweep(sr beep.SampleRate, from, to float64) *sweepGenerator {
	return &sweepGenerator{sr: sr, from: from, to: to}
}

func (g *sweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	// Total duration is bounded by the beep.Take wrapper.
	span := float64(g.sr)
	for i := range samples {
		progress := float64(g.pos) / span
		if progress > 1 {
			progress = 1
		}
		freq := g.from + (g.to-g.from)*progress
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		attack := math.Min(float64(g.pos)/(0.02*span), 1)
		s := 0.22 * attack * math.Sin(g.phase)
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *sweepGenerator) Err() error { return nil }

// popGenerator is a quick downward pitch drop with a sharp envelope, the
// classic capsule-drop pop.
type popGenerator struct {
	sr    beep.SampleRate
	phase float64
	pos   int
}

func newPop(sr beep.SampleRate) *popGenerator {
	return &popGenerator{sr: sr}
}

func (g *popGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		freq := 600 * math.Exp(-t*18)
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		env := math.Exp(-t * 22)
		s := 0.35 * env * math.Sin(g.phase)
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *popGenerator) Err() error { return nil }

// arpeggioGenerator steps through the given notes, one per 150 ms, each with
// its own decay envelope.
type arpeggioGenerator struct {
	sr    beep.SampleRate
	notes []float64
	pos   int
}

func newArpeggio(sr beep.SampleRate, notes ...float64) *arpeggioGenerator {
	return &arpeggioGenerator{sr: sr, notes: notes}
}

func (g *arpeggioGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	step := g.sr.N(150 * time.Millisecond) // samples per note
	if step <= 0 {
		step = 1
	}
	for i := range samples {
		idx := g.pos / step
		if idx >= len(g.notes) {
			idx = len(g.notes) - 1
		}
		within := float64(g.pos%step) / float64(g.sr)
		env := math.Exp(-within * 10)
		s := sineAt(g.notes[idx], float64(g.pos)/float64(g.sr), 0.22*env)
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *arpeggioGenerator) Err() error { return nil }
