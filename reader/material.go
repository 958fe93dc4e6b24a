package reader

import "github.com/Mu-L/nanort/types"

// Material is a trimmed-down Wavefront material: just enough to shade a
// debug-normal/albedo preview. BXDF layering, transmission and specular
// expressions are out of scope (no shading model; see Non-goals).
type Material struct {
	Name    string
	Diffuse types.Vec3

	// Optional path to a diffuse texture, relative to the mtllib file.
	DiffuseTex string
}

func defaultMaterial() *Material {
	return &Material{Name: "default", Diffuse: types.XYZ(0.8, 0.8, 0.8)}
}
