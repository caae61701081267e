// Package primitives caches meshes and lit materials for the small set of
// shapes the machine scene is built from. Meshes are created lazily on first
// draw so GPU resources are allocated after the window exists.
package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Shape names the mesh variants the scene draws.
type Shape string

const (
	Cube     Shape = "cube"
	Sphere   Shape = "sphere"
	Cylinder Shape = "cylinder"
	Plane    Shape = "plane"
	Capsule  Shape = "capsule"
)

// cached holds mesh plus plain and textured materials for one shape.
type cached struct {
	mesh        rl.Mesh
	mtl         rl.Material
	texturedMtl rl.Material
}

const (
	sphereRings    = 18
	sphereSlices   = 18
	cylinderSlices = 20
)

// genMesh builds the unit mesh for a shape. Spheres use radius 0.5 and the
// cylinder height 1 so every shape spans one unit before scaling. The prize
// capsule is approximated by a squashed sphere; it reads fine at toy scale.
func genMesh(s Shape) (rl.Mesh, bool) {
	switch s {
	case Cube:
		return rl.GenMeshCube(1, 1, 1), true
	case Sphere:
		return rl.GenMeshSphere(0.5, sphereRings, sphereSlices), true
	case Cylinder:
		return rl.GenMeshCylinder(0.5, 1, cylinderSlices), true
	case Plane:
		return rl.GenMeshPlane(1, 1, 1, 1), true
	case Capsule:
		return rl.GenMeshSphere(0.5, sphereRings, sphereSlices), true
	}
	return rl.Mesh{}, false
}

// centerOffset shifts a mesh in model space so the scene position is the
// shape's center. Raylib's cylinder has its base at Y=0.
func centerOffset(s Shape) [3]float32 {
	if s == Cylinder {
		return [3]float32{0, -0.5, 0}
	}
	return [3]float32{}
}

// Registry maps shapes to cached mesh+material pairs and carries the
// per-frame lighting inputs.
type Registry struct {
	cache    map[Shape]cached
	viewPos  [3]float32
	lightDir [3]float32
}

// NewRegistry returns an empty registry. Shapes materialize on first draw.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[Shape]cached),
		lightDir: [3]float32{0.4, 1, 0.35},
	}
}

// SetView sets camera position and direction-to-light for this frame. Call
// once per frame before any Draw so lit shapes shade correctly.
func (r *Registry) SetView(viewPos, lightDir [3]float32) {
	r.viewPos = viewPos
	r.lightDir = lightDir
}

func (r *Registry) ensure(s Shape) (cached, bool) {
	if c, ok := r.cache[s]; ok {
		return c, true
	}
	mesh, ok := genMesh(s)
	if !ok {
		return cached{}, false
	}
	mtl := rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		mtl.Shader = shader
	}
	texturedMtl := rl.LoadMaterialDefault()
	if albedo := texturedMtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.White
	}
	if ts := rl.LoadShaderFromMemory(litVS, litTexturedFS); rl.IsShaderValid(ts) {
		texturedMtl.Shader = ts
	}
	c := cached{mesh: mesh, mtl: mtl, texturedMtl: texturedMtl}
	r.cache[s] = c
	return c, true
}

// Draw draws one tinted instance of the shape at position with scale
// (zero scale components default to 1). Must be called between BeginMode3D
// and EndMode3D.
func (r *Registry) Draw(s Shape, position, scale [3]float32, tint rl.Color) {
	c, ok := r.ensure(s)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	r.setLitUniforms(c.mtl.Shader)
	rl.DrawMesh(c.mesh, c.mtl, modelTransform(s, position, scale))
}

// DrawTextured draws the shape with tex as albedo. Falls back to a plain
// grey draw when the texture is not valid.
func (r *Registry) DrawTextured(s Shape, position, scale [3]float32, tex rl.Texture2D) {
	if !rl.IsTextureValid(tex) {
		r.Draw(s, position, scale, rl.Gray)
		return
	}
	c, ok := r.ensure(s)
	if !ok {
		return
	}
	rl.SetMaterialTexture(&c.texturedMtl, rl.MapAlbedo, tex)
	r.setLitUniforms(c.texturedMtl.Shader)
	rl.DrawMesh(c.mesh, c.texturedMtl, modelTransform(s, position, scale))
}

func modelTransform(s Shape, position, scale [3]float32) rl.Matrix {
	sx, sy, sz := scale[0], scale[1], scale[2]
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if sz == 0 {
		sz = 1
	}
	scaleM := rl.MatrixScale(sx, sy, sz)
	transM := rl.MatrixTranslate(position[0], position[1], position[2])
	off := centerOffset(s)
	if off != ([3]float32{}) {
		offsetM := rl.MatrixTranslate(off[0], off[1], off[2])
		// Offset centers the mesh, then scale, then translate to position.
		return rl.MatrixMultiply(rl.MatrixMultiply(transM, scaleM), offsetM)
	}
	return rl.MatrixMultiply(scaleM, transM)
}

var ambientTerm = [4]float32{0.24, 0.24, 0.28, 1.0}

var lightColor = [3]float32{1.0, 0.97, 0.92}

const (
	lightIntensity   = float32(0.8)
	specularPower    = float32(40.0)
	specularStrength = float32(0.4)
)

// setLitUniforms pushes viewPos, lightDir, ambient, light color/intensity and
// specular terms to the shader (cgo-safe: local arrays).
func (r *Registry) setLitUniforms(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := [3]float32{r.viewPos[0], r.viewPos[1], r.viewPos[2]}
	lightDir := [3]float32{r.lightDir[0], r.lightDir[1], r.lightDir[2]}
	amb := [4]float32{ambientTerm[0], ambientTerm[1], ambientTerm[2], ambientTerm[3]}
	lc := [3]float32{lightColor[0], lightColor[1], lightColor[2]}
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lc[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{lightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specularStrength}, rl.ShaderUniformFloat)
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
	// litTexturedFS tints from the albedo texture times colDiffuse.
	litTexturedFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
uniform sampler2D albedoMap;
out vec4 finalColor;
void main() {
  vec4 texColor = texture(albedoMap, fragTexCoord);
  vec4 tint = texColor * colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
)
