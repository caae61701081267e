package physics

import (
	"github.com/chewxy/math32"
)

// Default simulation tuning. Restitution < 1 so balls settle instead of
// bouncing forever; damping bleeds a little velocity every second.
const (
	defaultRestitution = 0.45
	defaultDamping     = 0.6
	maxStepDt          = 1.0 / 30.0
	// bounceCutoff kills rebounds slower than this (units/s) so settled
	// bodies stop micro-bouncing against the wall or floor and can sleep.
	bounceCutoff = 0.12
)

// Bounds is a closed spherical container (the glass globe). Dynamic bodies
// placed inside stay inside under gravity; contacts reflect velocity with
// the world's restitution.
type Bounds struct {
	Center [3]float32
	Radius float32
}

// World holds a set of sphere bodies and runs a simple 3D step: gravity,
// damping, integration, sphere-sphere resolution, and containment against
// the globe bounds and an optional floor plane.
type World struct {
	Gravity     [3]float32
	Bodies      []*Body
	Restitution float32
	Damping     float32

	bounds *Bounds
	floorY float32
	floor  bool
}

// NewWorld returns a world with gravity (0, -9.8, 0), no bounds, no floor.
func NewWorld() *World {
	return &World{
		Gravity:     [3]float32{0, -9.8, 0},
		Restitution: defaultRestitution,
		Damping:     defaultDamping,
	}
}

// SetGravity sets the gravity vector (down is -Y).
func (w *World) SetGravity(g [3]float32) {
	w.Gravity = g
}

// SetBounds installs the spherical container. Bodies currently outside are
// pulled in on the next Step.
func (w *World) SetBounds(center [3]float32, radius float32) {
	w.bounds = &Bounds{Center: center, Radius: radius}
}

// Bounds returns the current container, or nil when unbounded.
func (w *World) BoundsSphere() *Bounds {
	return w.bounds
}

// SetFloor installs a horizontal plane at y; bodies never sink below it.
// Used as a fallback when the globe bounds are absent.
func (w *World) SetFloor(y float32) {
	w.floorY = y
	w.floor = true
}

// AddBody appends a body to the world. Order is preserved so callers can
// keep their own entity lists in sync by index.
func (w *World) AddBody(b *Body) {
	w.Bodies = append(w.Bodies, b)
}

// RemoveBody removes the body from the world. Removing a body that is not
// in the world is a no-op.
func (w *World) RemoveBody(b *Body) {
	for i, other := range w.Bodies {
		if other == b {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			return
		}
	}
}

// Step advances the simulation by dt seconds: gravity and damping on awake
// dynamic bodies, integration, then pairwise sphere resolution and
// containment. dt is clamped so a long frame cannot tunnel bodies through
// the globe wall.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	if dt > maxStepDt {
		dt = maxStepDt
	}

	damp := math32.Exp(-w.Damping * dt)
	for _, b := range w.Bodies {
		if b.Static || b.asleep {
			continue
		}
		b.Velocity[0] = (b.Velocity[0] + w.Gravity[0]*dt) * damp
		b.Velocity[1] = (b.Velocity[1] + w.Gravity[1]*dt) * damp
		b.Velocity[2] = (b.Velocity[2] + w.Gravity[2]*dt) * damp
		b.Position[0] += b.Velocity[0] * dt
		b.Position[1] += b.Velocity[1] * dt
		b.Position[2] += b.Velocity[2] * dt
	}

	for i := 0; i < len(w.Bodies); i++ {
		for j := i + 1; j < len(w.Bodies); j++ {
			w.resolvePair(w.Bodies[i], w.Bodies[j])
		}
	}

	for _, b := range w.Bodies {
		if b.Static {
			continue
		}
		w.contain(b)
		w.trySleep(b)
	}
}

// resolvePair pushes two overlapping spheres apart along the center line and
// exchanges the normal velocity component with restitution. Static bodies
// absorb the whole correction on the other side.
func (w *World) resolvePair(a, b *Body) {
	if a.Static && b.Static {
		return
	}
	dx := b.Position[0] - a.Position[0]
	dy := b.Position[1] - a.Position[1]
	dz := b.Position[2] - a.Position[2]
	distSq := dx*dx + dy*dy + dz*dz
	minDist := a.Radius + b.Radius
	if distSq >= minDist*minDist {
		return
	}
	dist := math32.Sqrt(distSq)
	var nx, ny, nz float32
	if dist > 1e-6 {
		nx, ny, nz = dx/dist, dy/dist, dz/dist
	} else {
		// Exactly coincident centers; separate along +Y.
		ny = 1
		dist = 0
	}
	depth := minDist - dist

	switch {
	case a.Static:
		b.Position[0] += nx * depth
		b.Position[1] += ny * depth
		b.Position[2] += nz * depth
	case b.Static:
		a.Position[0] -= nx * depth
		a.Position[1] -= ny * depth
		a.Position[2] -= nz * depth
	default:
		total := a.Mass + b.Mass
		sa := depth * (b.Mass / total)
		sb := depth * (a.Mass / total)
		a.Position[0] -= nx * sa
		a.Position[1] -= ny * sa
		a.Position[2] -= nz * sa
		b.Position[0] += nx * sb
		b.Position[1] += ny * sb
		b.Position[2] += nz * sb
	}

	// Relative velocity along the normal; only resolve if approaching.
	rvx := b.Velocity[0] - a.Velocity[0]
	rvy := b.Velocity[1] - a.Velocity[1]
	rvz := b.Velocity[2] - a.Velocity[2]
	vn := rvx*nx + rvy*ny + rvz*nz
	if vn >= 0 {
		return
	}
	e := w.Restitution
	var invA, invB float32
	if !a.Static {
		invA = 1 / a.Mass
	}
	if !b.Static {
		invB = 1 / b.Mass
	}
	jmag := -(1 + e) * vn / (invA + invB)
	if !a.Static {
		a.Velocity[0] -= jmag * invA * nx
		a.Velocity[1] -= jmag * invA * ny
		a.Velocity[2] -= jmag * invA * nz
		a.asleep = false
	}
	if !b.Static {
		b.Velocity[0] += jmag * invB * nx
		b.Velocity[1] += jmag * invB * ny
		b.Velocity[2] += jmag * invB * nz
		b.asleep = false
	}
}

// contain keeps a dynamic body inside the globe bounds (and above the floor
// plane when set), reflecting the outward velocity component.
func (w *World) contain(b *Body) {
	if w.bounds != nil {
		dx := b.Position[0] - w.bounds.Center[0]
		dy := b.Position[1] - w.bounds.Center[1]
		dz := b.Position[2] - w.bounds.Center[2]
		dist := math32.Sqrt(dx*dx + dy*dy + dz*dz)
		limit := w.bounds.Radius - b.Radius
		if limit < 0 {
			limit = 0
		}
		if dist > limit {
			var nx, ny, nz float32
			if dist > 1e-6 {
				nx, ny, nz = dx/dist, dy/dist, dz/dist
			} else {
				ny = 1
			}
			b.Position[0] = w.bounds.Center[0] + nx*limit
			b.Position[1] = w.bounds.Center[1] + ny*limit
			b.Position[2] = w.bounds.Center[2] + nz*limit
			vn := b.Velocity[0]*nx + b.Velocity[1]*ny + b.Velocity[2]*nz
			if vn > 0 {
				k := (1 + w.Restitution) * vn
				if vn*w.Restitution < bounceCutoff {
					k = vn // absorb the rebound entirely
				}
				b.Velocity[0] -= k * nx
				b.Velocity[1] -= k * ny
				b.Velocity[2] -= k * nz
				b.asleep = false
			}
		}
	}
	if w.floor {
		bottom := w.floorY + b.Radius
		if b.Position[1] < bottom {
			b.Position[1] = bottom
			if b.Velocity[1] < 0 {
				up := -b.Velocity[1] * w.Restitution
				if up < bounceCutoff {
					up = 0
				}
				b.Velocity[1] = up
			}
		}
	}
}

// trySleep puts a near-stationary body to sleep so settled piles stop
// jittering. Any impulse or contact wakes it again.
func (w *World) trySleep(b *Body) {
	if b.asleep {
		return
	}
	v := b.Velocity
	speedSq := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	if speedSq < sleepVelocity*sleepVelocity {
		b.Velocity = [3]float32{}
		b.asleep = true
	}
}
