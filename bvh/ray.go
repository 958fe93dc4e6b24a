package bvh

import (
	"math"

	"github.com/Mu-L/nanort/types"
)

// Ray is a parametric ray origin + direction constrained to [MinT, MaxT].
// Direction need not be unit length.
type Ray struct {
	Origin    types.Vec3
	Direction types.Vec3
	MinT      float32
	MaxT      float32
}

// NewRay builds a ray with the default parametric range: MinT 0 and MaxT
// the largest finite float32.
func NewRay(origin, direction types.Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		MinT:      0,
		MaxT:      math.MaxFloat32,
	}
}

// InvDirection returns the componentwise reciprocal of the ray direction.
// IEEE 754 division already maps an exact-zero component to a correctly
// signed infinity (1/+0 = +Inf, 1/-0 = -Inf), which is exactly what the
// slab test in AABB.Slab needs to treat a ray parallel to a face as
// clipped rather than producing a NaN.
func (r Ray) InvDirection() types.Vec3 {
	return types.XYZ(1/r.Direction[0], 1/r.Direction[1], 1/r.Direction[2])
}

// TraceOptions restricts a traversal to a primitive id range and exposes a
// back-face culling hint that TriangleIntersector consults; SphereIntersector
// ignores it. The traverser itself never inspects CullBackFace.
type TraceOptions struct {
	PrimitiveIDRange [2]uint32
	CullBackFace     bool
}

// DefaultTraceOptions returns the full-scene primitive range [0, n).
func DefaultTraceOptions(n uint32) TraceOptions {
	return TraceOptions{PrimitiveIDRange: [2]uint32{0, n}}
}

// Contains reports whether id falls within the primitive id range.
func (o TraceOptions) Contains(id uint32) bool {
	return id >= o.PrimitiveIDRange[0] && id < o.PrimitiveIDRange[1]
}
