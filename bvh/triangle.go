package bvh

import (
	"math"

	"github.com/Mu-L/nanort/types"
)

// TriangleMesh is the built-in PrimitiveAdapter for triangle soup.
// Primitive id denotes the triangle formed by
// (Vertices[Indices[3i]], Vertices[Indices[3i+1]], Vertices[Indices[3i+2]]).
// When Indices is nil the mesh is treated as unindexed: triangle i is
// (Vertices[3i], Vertices[3i+1], Vertices[3i+2]).
type TriangleMesh struct {
	Vertices []types.Vec3
	Indices  []uint32

	predAxis Axis
	predPos  float32
}

func (m *TriangleMesh) triangleVertices(id uint32) (a, b, c types.Vec3) {
	base := 3 * id
	if m.Indices != nil {
		return m.Vertices[m.Indices[base]], m.Vertices[m.Indices[base+1]], m.Vertices[m.Indices[base+2]]
	}
	return m.Vertices[base], m.Vertices[base+1], m.Vertices[base+2]
}

// BoundingBox implements PrimitiveAdapter.
func (m *TriangleMesh) BoundingBox(id uint32) AABB {
	a, b, c := m.triangleVertices(id)
	box := EmptyAABB()
	box = box.UnionPoint(a)
	box = box.UnionPoint(b)
	box = box.UnionPoint(c)
	return box
}

// SetSAHPredicate implements PrimitiveAdapter.
func (m *TriangleMesh) SetSAHPredicate(axis Axis, position float32) {
	m.predAxis, m.predPos = axis, position
}

// SAHPredicateSide implements PrimitiveAdapter. The centroid used is the
// mean of the three vertices, computed directly from them; in general it
// differs from the centre of BoundingBox's box, which the Builder uses for
// binning.
func (m *TriangleMesh) SAHPredicateSide(id uint32) bool {
	a, b, c := m.triangleVertices(id)
	centroid := (a[m.predAxis] + b[m.predAxis] + c[m.predAxis]) / 3
	return centroid < m.predPos
}

// TriangleIntersector implements PrimitiveIntersector for a TriangleMesh
// using the Möller-Trumbore algorithm.
type TriangleIntersector struct {
	Mesh *TriangleMesh

	ray    Ray
	opts   TraceOptions
	hit    bool
	bestID uint32
	bestU  float32
	bestV  float32
	bestT  float32
}

// NewTriangleIntersector returns an Intersector bound to mesh. A fresh
// instance must be used per concurrently-running traversal.
func NewTriangleIntersector(mesh *TriangleMesh) *TriangleIntersector {
	return &TriangleIntersector{Mesh: mesh}
}

// Prepare implements PrimitiveIntersector.
func (t *TriangleIntersector) Prepare(ray Ray, opts TraceOptions) {
	t.ray = ray
	t.opts = opts
	t.hit = false
}

// Intersect implements PrimitiveIntersector.
func (t *TriangleIntersector) Intersect(tCurrent float32, id uint32) (bool, float32) {
	a, b, c := t.Mesh.triangleVertices(id)

	edge1 := b.Sub(a)
	edge2 := c.Sub(a)

	pvec := t.ray.Direction.Cross(edge2)
	det := edge1.Dot(pvec)

	if t.opts.CullBackFace && det < floatEpsilon {
		return false, tCurrent
	}
	if det > -floatEpsilon && det < floatEpsilon {
		return false, tCurrent
	}
	invDet := 1 / det

	tvec := t.ray.Origin.Sub(a)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return false, tCurrent
	}

	qvec := tvec.Cross(edge1)
	v := t.ray.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return false, tCurrent
	}

	dist := edge2.Dot(qvec) * invDet
	if math.IsNaN(float64(dist)) || dist < t.ray.MinT || dist > tCurrent {
		return false, tCurrent
	}

	t.hit = true
	t.bestID = id
	t.bestU, t.bestV = u, v
	t.bestT = dist
	return true, dist
}

// Finalize implements PrimitiveIntersector.
func (t *TriangleIntersector) Finalize(ray Ray, hit bool) HitRecord {
	if !hit || !t.hit {
		return HitRecord{Hit: false}
	}

	a, b, c := t.Mesh.triangleVertices(t.bestID)
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	normal := edge1.Cross(edge2).Normalize()

	return HitRecord{
		Hit:         true,
		T:           t.bestT,
		PrimitiveID: t.bestID,
		U:           t.bestU,
		V:           t.bestV,
		Normal:      normal,
	}
}

const floatEpsilon float32 = 1e-7
