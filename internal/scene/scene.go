// Package scene renders the machine: glass globe, stand, dispense chute,
// the ball population and the revealed prize capsule. All GPU work happens
// on the frame thread; the decal texture is uploaded here once its image
// resolves.
package scene

import (
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"

	"gachapon/internal/game"
	"gachapon/internal/primitives"
	"gachapon/internal/texture"
)

// Machine geometry, shared with the physics setup in main.
const (
	GlobeCenterY = 1.5
	GlobeRadius  = 1.7
	FloorY       = 0.0

	standHeight = 0.9
	standRadius = 1.35

	capsuleRadius = 0.19
)

// PrizeCapsulePos is where the revealed capsule sits, at the chute mouth.
var PrizeCapsulePos = [3]float32{0, 0.5, 1.05}

const (
	gridExtent     = 12
	gridMinorStep  = 1
	gridMajorStep  = 5
	gridMinorAlpha = 45
	gridMajorAlpha = 110
)

// Scene holds the orbital camera and draws the 3D world each frame.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool

	reg   *primitives.Registry
	decal *texture.Loader

	decalTex      rl.Texture2D
	decalUploaded bool
}

// New returns a scene orbiting the machine. decal may be nil when no decal
// source is configured.
func New(decal *texture.Loader) *Scene {
	s := &Scene{reg: primitives.NewRegistry(), decal: decal}
	s.Camera.Position = rl.NewVector3(0, 2.4, 4.6)
	s.Camera.Target = rl.NewVector3(0, 1.1, 0)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 45
	s.Camera.Projection = rl.CameraPerspective
	s.GridVisible = true
	return s
}

// SetGridVisible sets whether the floor grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Update runs once per frame: orbital camera motion plus decal polling. The
// cursor stays enabled since claiming is a mouse click.
func (s *Scene) Update() {
	rl.UpdateCamera(&s.Camera, rl.CameraOrbital)
	s.ensureDecalTexture()
}

// ensureDecalTexture uploads the loader's current image the first time it is
// available, and again when the loader settles on a different image.
func (s *Scene) ensureDecalTexture() {
	if s.decal == nil {
		return
	}
	settled := s.decal.Poll()
	if s.decalUploaded && !settled {
		return
	}
	if rl.IsTextureValid(s.decalTex) {
		rl.UnloadTexture(s.decalTex)
	}
	s.decalTex = uploadImage(s.decal.Image())
	s.decalUploaded = true
}

func uploadImage(img image.Image) rl.Texture2D {
	rimg := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(rimg)
	rl.UnloadImage(rimg)
	return tex
}

// PrizeHit reports whether a ray through the given screen point hits the
// revealed capsule. Used to claim by clicking.
func (s *Scene) PrizeHit(screen rl.Vector2) bool {
	ray := rl.GetScreenToWorldRay(screen, s.Camera)
	center := rl.NewVector3(PrizeCapsulePos[0], PrizeCapsulePos[1], PrizeCapsulePos[2])
	hit := rl.GetRayCollisionSphere(ray, center, capsuleRadius*1.4)
	return hit.Hit
}

// Draw renders the full 3D scene for the machine state m. Call after
// ClearBackground and before any 2D overlay.
func (s *Scene) Draw(m *game.Machine) {
	rl.BeginMode3D(s.Camera)

	pos := s.Camera.Position
	s.reg.SetView([3]float32{pos.X, pos.Y, pos.Z}, [3]float32{0.4, 1, 0.35})

	if s.GridVisible {
		drawFloorGrid()
	}
	s.drawStand()
	s.drawBalls(m)
	s.drawPrize(m)
	// Glass last so the translucent shell blends over the balls behind it.
	s.drawGlobe()

	rl.EndMode3D()
}

func (s *Scene) drawStand() {
	// Pedestal under the globe.
	s.reg.Draw(primitives.Cylinder,
		[3]float32{0, standHeight / 2, 0},
		[3]float32{standRadius * 2, standHeight, standRadius * 2},
		rl.NewColor(200, 60, 70, 255))
	// Chute throat from the globe down to the mouth.
	s.reg.Draw(primitives.Cube,
		[3]float32{0, 0.65, 0.8},
		[3]float32{0.5, 0.5, 0.6},
		rl.NewColor(170, 48, 58, 255))
	// Mouth rim the capsule drops into.
	s.reg.Draw(primitives.Cube,
		[3]float32{0, 0.42, 1.05},
		[3]float32{0.46, 0.1, 0.34},
		rl.NewColor(60, 56, 58, 255))
	// Front decal panel.
	decalPos := [3]float32{0, standHeight / 2, standRadius + 0.02}
	decalScale := [3]float32{1.0, 0.7, 0.04}
	if s.decal != nil && rl.IsTextureValid(s.decalTex) {
		s.reg.DrawTextured(primitives.Cube, decalPos, decalScale, s.decalTex)
	} else {
		s.reg.Draw(primitives.Cube, decalPos, decalScale, rl.NewColor(228, 220, 205, 255))
	}
}

func (s *Scene) drawBalls(m *game.Machine) {
	for _, b := range m.Balls() {
		cr, cg, cb := b.Color.RGB()
		p := b.Body.Position
		d := b.Body.Radius * 2
		s.reg.Draw(primitives.Sphere,
			[3]float32{p[0], p[1], p[2]},
			[3]float32{d, d, d},
			rl.NewColor(cr, cg, cb, 255))
	}
}

func (s *Scene) drawPrize(m *game.Machine) {
	prize := m.Prize()
	if prize == nil || m.Phase() != game.PhaseRevealed {
		return
	}
	cr, cg, cb := prize.Color.RGB()
	if prize.Empty {
		cr, cg, cb = 120, 120, 120
	}
	d := float32(capsuleRadius * 2)
	s.reg.Draw(primitives.Capsule, PrizeCapsulePos,
		[3]float32{d, d * 1.25, d},
		rl.NewColor(cr, cg, cb, 255))
}

func (s *Scene) drawGlobe() {
	center := rl.NewVector3(0, GlobeCenterY, 0)
	rl.DrawSphereWires(center, GlobeRadius, 14, 14, rl.NewColor(210, 230, 245, 70))
	rl.DrawSphere(center, GlobeRadius, rl.NewColor(180, 215, 240, 38))
}

// drawFloorGrid draws a small grid on the XZ plane under the machine.
func drawFloorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for x := -gridExtent; x <= gridExtent; x += gridMinorStep {
		c := major
		if x%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(x), FloorY, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(x), FloorY, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
	}
	for z := -gridExtent; z <= gridExtent; z += gridMinorStep {
		c := major
		if z%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(-gridExtent), FloorY, float32(z)
		end.X, end.Y, end.Z = float32(gridExtent), FloorY, float32(z)
		rl.DrawLine3D(start, end, c)
	}
}

// Unload releases the decal texture. Call before closing the window.
func (s *Scene) Unload() {
	if rl.IsTextureValid(s.decalTex) {
		rl.UnloadTexture(s.decalTex)
	}
}
