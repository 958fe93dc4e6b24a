package bvh

import (
	"math"

	"github.com/Mu-L/nanort/types"
)

// Axis identifies one of the three coordinate axes a split or slab test
// operates along.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// AABB is an axis-aligned bounding box described by its min/max corners.
// An empty box has Min set to +inf and Max set to -inf on every component,
// so that unioning with it is the identity operation.
type AABB struct {
	Min types.Vec3
	Max types.Vec3
}

// EmptyAABB returns the sentinel empty box.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: types.Vec3{inf, inf, inf},
		Max: types.Vec3{-inf, -inf, -inf},
	}
}

// UnionPoint grows the box to contain p.
func (b AABB) UnionPoint(p types.Vec3) AABB {
	return AABB{Min: types.MinVec3(b.Min, p), Max: types.MaxVec3(b.Max, p)}
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: types.MinVec3(b.Min, o.Min), Max: types.MaxVec3(b.Max, o.Max)}
}

// Extent returns the per-axis side lengths of the box.
func (b AABB) Extent() types.Vec3 {
	return b.Max.Sub(b.Min)
}

// Centroid returns the geometric centre of the box.
func (b AABB) Centroid() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// SurfaceArea returns the total surface area of the box. A degenerate
// (empty or inverted) box yields a non-positive area.
func (b AABB) SurfaceArea() float32 {
	e := b.Extent()
	if e[0] < 0 || e[1] < 0 || e[2] < 0 {
		return 0
	}
	return 2 * (e[0]*e[1] + e[1]*e[2] + e[0]*e[2])
}

// IsFinite reports whether every component of the box is a finite number.
func (b AABB) IsFinite() bool {
	for axis := 0; axis < 3; axis++ {
		if math.IsNaN(float64(b.Min[axis])) || math.IsInf(float64(b.Min[axis]), 0) {
			return false
		}
		if math.IsNaN(float64(b.Max[axis])) || math.IsInf(float64(b.Max[axis]), 0) {
			return false
		}
	}
	return true
}

// Slab performs the standard slab ray/box intersection test and returns the
// entry/exit parametric distances. invDir must be the reciprocal of the
// ray's direction, as returned by Ray.InvDirection; passing it in lets
// callers compute it once per traversal instead of once per node.
func (b AABB) Slab(ray Ray, invDir types.Vec3) (tEnter, tExit float32, ok bool) {
	tEnter, tExit = ray.MinT, ray.MaxT

	for axis := 0; axis < 3; axis++ {
		t0 := (b.Min[axis] - ray.Origin[axis]) * invDir[axis]
		t1 := (b.Max[axis] - ray.Origin[axis]) * invDir[axis]
		if math.IsNaN(float64(t0)) || math.IsNaN(float64(t1)) {
			return 0, 0, false
		}
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
		if tEnter > tExit {
			return 0, 0, false
		}
	}

	return tEnter, tExit, true
}
