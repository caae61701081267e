package game

import (
	"github.com/chewxy/math32"
	"github.com/google/uuid"

	"gachapon/internal/config"
	"gachapon/internal/physics"
)

// Ball dimensions and agitation tuning.
const (
	ballRadius = 0.16
	ballMass   = 1.0
)

// Ball is one drawable unit in the population. ID is stable for the ball's
// lifetime; Seed is the spawn position sampled once at creation; Color is the
// display attribute sampled once from the palette. Balls are never mutated
// after creation except by destruction.
type Ball struct {
	ID    string
	Seed  [3]float32
	Color config.Color
	Body  *physics.Body
}

// Population owns the live ball set and is the only writer of it. The
// renderer reads Balls() every frame; the Machine drives Reconcile with the
// per-mode target count.
type Population struct {
	world   *physics.World
	spawn   config.SpawnVolume
	palette []config.Color
	rng     RandomSource
	balls   []*Ball
}

// NewPopulation returns an empty population backed by world. palette must be
// non-empty (config normalization guarantees it); a nil rng panics on first
// spawn, so pass DefaultRNG outside tests.
func NewPopulation(world *physics.World, spawn config.SpawnVolume, palette []config.Color, rng RandomSource) *Population {
	return &Population{world: world, spawn: spawn, palette: palette, rng: rng}
}

// SetShape updates the spawn volume and palette for future spawns. Existing
// balls keep the attributes they were created with.
func (p *Population) SetShape(spawn config.SpawnVolume, palette []config.Color) {
	p.spawn = spawn
	if len(palette) > 0 {
		p.palette = palette
	}
}

// Balls returns the live list in creation order. Callers must not modify it.
func (p *Population) Balls() []*Ball {
	return p.balls
}

// Len returns the live ball count.
func (p *Population) Len() int {
	return len(p.balls)
}

// NextRemoval is the named removal contract: the ball that the next shrinking
// Reconcile will destroy first. It is always the tail of the creation order,
// nil when the population is empty.
func (p *Population) NextRemoval() *Ball {
	if len(p.balls) == 0 {
		return nil
	}
	return p.balls[len(p.balls)-1]
}

// Reconcile edits the live set to exactly target balls with the minimal edit:
// equal is a no-op, longer truncates from the tail (most recently added
// first), shorter appends freshly sampled balls. Untouched balls keep their
// identity and body. Negative targets clamp to zero.
func (p *Population) Reconcile(target int) {
	if target < 0 {
		target = 0
	}
	for len(p.balls) > target {
		p.removeTail()
	}
	for len(p.balls) < target {
		p.balls = append(p.balls, p.spawnBall())
	}
}

// Regenerate replaces the whole set with target fresh balls (new IDs, new
// positions). Only the explicit reset trigger uses this; ordinary
// target-count changes go through Reconcile to avoid visual discontinuity.
func (p *Population) Regenerate(target int) {
	for len(p.balls) > 0 {
		p.removeTail()
	}
	p.Reconcile(target)
}

// Agitate applies a randomized impulse to every ball (the machine shake when
// the crank turns). Impulses are biased upward so settled piles visibly jump.
func (p *Population) Agitate(strength float32) {
	for _, b := range p.balls {
		j := [3]float32{
			(p.rng.Float32()*2 - 1) * strength,
			(0.5 + p.rng.Float32()*0.5) * strength,
			(p.rng.Float32()*2 - 1) * strength,
		}
		b.Body.ApplyImpulse(j)
	}
}

// spawnBall creates a ball with a fresh ID, a position sampled uniformly from
// the spawn disc, and a color sampled uniformly from the palette.
func (p *Population) spawnBall() *Ball {
	pos := p.samplePosition()
	body := physics.NewSphere(pos, ballRadius, ballMass)
	p.world.AddBody(body)
	return &Ball{
		ID:    uuid.NewString(),
		Seed:  pos,
		Color: p.sampleColor(),
		Body:  body,
	}
}

// samplePosition draws uniformly from a horizontal disc: radius via sqrt so
// area is uniform, height uniform between the configured bounds.
func (p *Population) samplePosition() [3]float32 {
	r := p.spawn.Radius * math32.Sqrt(p.rng.Float32())
	theta := p.rng.Float32() * 2 * math32.Pi
	y := p.spawn.MinHeight + p.rng.Float32()*(p.spawn.MaxHeight-p.spawn.MinHeight)
	return [3]float32{r * math32.Cos(theta), y, r * math32.Sin(theta)}
}

func (p *Population) sampleColor() config.Color {
	if len(p.palette) == 0 {
		return config.Color{Name: "grey", Hex: "#808080"}
	}
	return p.palette[p.rng.IntN(len(p.palette))]
}

// removeTail destroys the most recently added ball and its physics body.
func (p *Population) removeTail() {
	last := len(p.balls) - 1
	p.world.RemoveBody(p.balls[last].Body)
	p.balls[last] = nil
	p.balls = p.balls[:last]
}
