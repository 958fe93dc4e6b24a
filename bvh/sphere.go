package bvh

import (
	"math"

	"github.com/Mu-L/nanort/types"
)

// SphereSet is the built-in PrimitiveAdapter for a point cloud of spheres,
// as used to render LAS/LiDAR point data. Primitive id denotes sphere
// (Centers[id], Radii[id]).
type SphereSet struct {
	Centers []types.Vec3
	Radii   []float32

	predAxis Axis
	predPos  float32
}

// BoundingBox implements PrimitiveAdapter.
func (s *SphereSet) BoundingBox(id uint32) AABB {
	c, r := s.Centers[id], s.Radii[id]
	rv := types.XYZ(r, r, r)
	return AABB{Min: c.Sub(rv), Max: c.Add(rv)}
}

// SetSAHPredicate implements PrimitiveAdapter.
func (s *SphereSet) SetSAHPredicate(axis Axis, position float32) {
	s.predAxis, s.predPos = axis, position
}

// SAHPredicateSide implements PrimitiveAdapter.
func (s *SphereSet) SAHPredicateSide(id uint32) bool {
	return s.Centers[id][s.predAxis] < s.predPos
}

// SphereIntersector implements PrimitiveIntersector for a SphereSet by
// solving the standard ray/sphere quadratic and keeping the nearer
// non-negative root.
type SphereIntersector struct {
	Spheres *SphereSet

	ray    Ray
	hit    bool
	bestID uint32
	bestT  float32
}

// NewSphereIntersector returns an Intersector bound to spheres. A fresh
// instance must be used per concurrently-running traversal.
func NewSphereIntersector(spheres *SphereSet) *SphereIntersector {
	return &SphereIntersector{Spheres: spheres}
}

// Prepare implements PrimitiveIntersector.
func (s *SphereIntersector) Prepare(ray Ray, opts TraceOptions) {
	s.ray = ray
	s.hit = false
}

// Intersect implements PrimitiveIntersector.
func (s *SphereIntersector) Intersect(tCurrent float32, id uint32) (bool, float32) {
	center, radius := s.Spheres.Centers[id], s.Spheres.Radii[id]

	oc := s.ray.Origin.Sub(center)
	a := s.ray.Direction.Dot(s.ray.Direction)
	b := 2 * oc.Dot(s.ray.Direction)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return false, tCurrent
	}

	sq := float32(math.Sqrt(float64(disc)))
	inv := 1 / (2 * a)
	t0 := (-b - sq) * inv
	t1 := (-b + sq) * inv
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	dist := t0
	if dist < s.ray.MinT {
		dist = t1
	}
	if dist < s.ray.MinT || dist > tCurrent || math.IsNaN(float64(dist)) {
		return false, tCurrent
	}

	s.hit = true
	s.bestID = id
	s.bestT = dist
	return true, dist
}

// Finalize implements PrimitiveIntersector. U/V are derived from the
// surface normal as u = (atan2(n.x, n.z) + pi) / (2*pi), v = acos(n.y)/pi.
func (s *SphereIntersector) Finalize(ray Ray, hit bool) HitRecord {
	if !hit || !s.hit {
		return HitRecord{Hit: false}
	}

	center := s.Spheres.Centers[s.bestID]
	radius := s.Spheres.Radii[s.bestID]
	point := s.ray.Origin.Add(s.ray.Direction.Mul(s.bestT))
	normal := point.Sub(center).Mul(1 / radius)

	u := (float32(math.Atan2(float64(normal[0]), float64(normal[2]))) + math.Pi) / (2 * math.Pi)
	v := float32(math.Acos(float64(normal[1]))) / math.Pi

	return HitRecord{
		Hit:         true,
		T:           s.bestT,
		PrimitiveID: s.bestID,
		U:           u,
		V:           v,
		Normal:      normal,
	}
}
