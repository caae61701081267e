package physics

// sleepVelocity is the speed (units/s) below which a resting body is put to sleep.
// Sleeping bodies skip integration until something wakes them (impulse, collision).
const sleepVelocity = 0.02

// Body is a rigid sphere with position, velocity, and radius.
// Static bodies never move and are not affected by gravity; they only push
// dynamic bodies out of the way (e.g. the machine stand).
type Body struct {
	Position [3]float32
	Velocity [3]float32
	Radius   float32
	Mass     float32
	Static   bool
	asleep   bool
}

// NewSphere returns a dynamic sphere body at position. Velocity is zero.
// mass is used for collision response and impulse scaling; use 1 for default.
func NewSphere(position [3]float32, radius, mass float32) *Body {
	if mass <= 0 {
		mass = 1
	}
	if radius <= 0 {
		radius = 0.5
	}
	return &Body{
		Position: position,
		Radius:   radius,
		Mass:     mass,
	}
}

// NewStaticSphere returns a static sphere body (immovable collider).
func NewStaticSphere(position [3]float32, radius float32) *Body {
	b := NewSphere(position, radius, 1)
	b.Static = true
	return b
}

// ApplyImpulse adds impulse/mass to the body's velocity and wakes it.
// No-op on static bodies.
func (b *Body) ApplyImpulse(impulse [3]float32) {
	if b.Static {
		return
	}
	inv := 1 / b.Mass
	b.Velocity[0] += impulse[0] * inv
	b.Velocity[1] += impulse[1] * inv
	b.Velocity[2] += impulse[2] * inv
	b.asleep = false
}

// Wake clears the sleep flag so the body integrates again next Step.
func (b *Body) Wake() {
	b.asleep = false
}

// Asleep reports whether the body is currently sleeping.
func (b *Body) Asleep() bool {
	return b.asleep
}
