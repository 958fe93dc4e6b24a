package bvh

import (
	"math"
	"testing"

	"github.com/Mu-L/nanort/types"
)

func buildTriangleAccel(t *testing.T, mesh *TriangleMesh) *Accel {
	t.Helper()
	n := uint32(len(mesh.Vertices) / 3)
	if mesh.Indices != nil {
		n = uint32(len(mesh.Indices) / 3)
	}
	accel := NewAccel()
	if err := accel.Build(n, mesh, DefaultBuildOptions()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return accel
}

func TestSingleTriangleHit(t *testing.T) {
	mesh := &TriangleMesh{Vertices: []types.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	}}
	accel := buildTriangleAccel(t, mesh)

	ray := NewRay(types.XYZ(0.25, 0.25, 1), types.XYZ(0, 0, -1))
	rec, hit := accel.Traverse(ray, NewTriangleIntersector(mesh), DefaultTraceOptions(1))

	if !hit {
		t.Fatalf("expected hit")
	}
	if math.Abs(float64(rec.T-1.0)) > 1e-4 {
		t.Errorf("t = %v, want ~1.0", rec.T)
	}
	if math.Abs(float64(rec.U-0.25)) > 1e-4 || math.Abs(float64(rec.V-0.25)) > 1e-4 {
		t.Errorf("barycentrics = (%v, %v), want ~(0.25, 0.25)", rec.U, rec.V)
	}
}

func TestSingleTriangleMissAbove(t *testing.T) {
	mesh := &TriangleMesh{Vertices: []types.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	}}
	accel := buildTriangleAccel(t, mesh)

	ray := NewRay(types.XYZ(0.25, 0.25, 1), types.XYZ(0, 0, 1))
	_, hit := accel.Traverse(ray, NewTriangleIntersector(mesh), DefaultTraceOptions(1))
	if hit {
		t.Fatalf("expected no hit")
	}
}

func TestTwoTrianglesCloserWins(t *testing.T) {
	mesh := &TriangleMesh{Vertices: []types.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		{0, 0, -1}, {1, 0, -1}, {0, 1, -1},
	}}
	accel := buildTriangleAccel(t, mesh)

	ray := NewRay(types.XYZ(0.25, 0.25, 1), types.XYZ(0, 0, -1))
	rec, hit := accel.Traverse(ray, NewTriangleIntersector(mesh), DefaultTraceOptions(2))

	if !hit {
		t.Fatalf("expected hit")
	}
	if rec.PrimitiveID != 0 {
		t.Errorf("hit primitive %d, want 0 (the nearer triangle)", rec.PrimitiveID)
	}
	if math.Abs(float64(rec.T-1.0)) > 1e-4 {
		t.Errorf("t = %v, want ~1.0", rec.T)
	}
}

func TestSphereHit(t *testing.T) {
	spheres := &SphereSet{
		Centers: []types.Vec3{{0, 0, 0}},
		Radii:   []float32{1},
	}
	accel := NewAccel()
	if err := accel.Build(1, spheres, DefaultBuildOptions()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	ray := NewRay(types.XYZ(0, 0, 3), types.XYZ(0, 0, -1))
	rec, hit := accel.Traverse(ray, NewSphereIntersector(spheres), DefaultTraceOptions(1))

	if !hit {
		t.Fatalf("expected hit")
	}
	if math.Abs(float64(rec.T-2.0)) > 1e-4 {
		t.Errorf("t = %v, want ~2.0", rec.T)
	}
	if rec.Normal.Sub(types.XYZ(0, 0, 1)).Len() > 1e-3 {
		t.Errorf("normal = %v, want ~(0,0,1)", rec.Normal)
	}
}

func TestSphereGrazingMiss(t *testing.T) {
	spheres := &SphereSet{
		Centers: []types.Vec3{{0, 0, 0}},
		Radii:   []float32{1},
	}
	accel := NewAccel()
	if err := accel.Build(1, spheres, DefaultBuildOptions()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	ray := NewRay(types.XYZ(0, 1.0001, 3), types.XYZ(0, 0, -1))
	_, hit := accel.Traverse(ray, NewSphereIntersector(spheres), DefaultTraceOptions(1))
	if hit {
		t.Fatalf("expected no hit")
	}
}

func TestBuildEmptySceneFails(t *testing.T) {
	mesh := &TriangleMesh{}
	accel := NewAccel()
	err := accel.Build(0, mesh, DefaultBuildOptions())
	if err == nil {
		t.Fatalf("expected an error building 0 primitives")
	}

	// An uninitialised Accel must report no hit, not panic.
	ray := NewRay(types.XYZ(0, 0, 1), types.XYZ(0, 0, -1))
	_, hit := accel.Traverse(ray, NewTriangleIntersector(mesh), DefaultTraceOptions(0))
	if hit {
		t.Errorf("expected no hit on an unbuilt accel")
	}
	if accel.IsValid() {
		t.Errorf("expected IsValid() == false after a failed build")
	}
}

func TestRayOriginatingInsideAABB(t *testing.T) {
	mesh := &TriangleMesh{Vertices: []types.Vec3{
		{-10, -10, -1}, {10, -10, -1}, {0, 10, 1},
	}}
	accel := buildTriangleAccel(t, mesh)

	// The triangle's box spans z in [-1, 1]; the ray starts inside it and
	// meets the triangle's plane (z = y/10) at t = 0.5.
	ray := NewRay(types.XYZ(0, 0, 0.5), types.XYZ(0, 0, -1))
	_, hit := accel.Traverse(ray, NewTriangleIntersector(mesh), DefaultTraceOptions(1))
	if !hit {
		t.Fatalf("expected hit for a ray originating inside the triangle's bounding box")
	}
}

func TestManyTrianglesClosestHitEquivalence(t *testing.T) {
	const n = 500
	verts := make([]types.Vec3, 0, n*3)
	for i := 0; i < n; i++ {
		x := float32(i)
		verts = append(verts, types.XYZ(x, 0, 0), types.XYZ(x+1, 0, 0), types.XYZ(x, 1, 0))
	}
	mesh := &TriangleMesh{Vertices: verts}
	accel := buildTriangleAccel(t, mesh)

	stats := accel.Statistics()
	if stats.NumLeafNodes == 0 {
		t.Fatalf("expected at least one leaf node")
	}

	// Closest-hit equivalence: traversal must agree with a hand-rolled
	// linear scan over all primitives for a ray that hits one triangle
	// out of many.
	ray := NewRay(types.XYZ(10.4, 0.3, 5), types.XYZ(0, 0, -1))
	rec, hit := accel.Traverse(ray, NewTriangleIntersector(mesh), DefaultTraceOptions(n))

	linear := NewTriangleIntersector(mesh)
	linear.Prepare(ray, DefaultTraceOptions(n))
	best := ray.MaxT
	for id := uint32(0); id < n; id++ {
		if h, t := linear.Intersect(best, id); h {
			best = t
		}
	}
	linearRec := linear.Finalize(ray, best < ray.MaxT)

	if hit != linearRec.Hit {
		t.Fatalf("traverse hit=%v, linear scan hit=%v", hit, linearRec.Hit)
	}
	if hit && (math.Abs(float64(rec.T-linearRec.T)) > 1e-4 || rec.PrimitiveID != linearRec.PrimitiveID) {
		t.Errorf("traverse hit {t=%v, id=%v} != linear scan hit {t=%v, id=%v}", rec.T, rec.PrimitiveID, linearRec.T, linearRec.PrimitiveID)
	}
}
