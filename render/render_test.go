package render

import (
	"context"
	"testing"

	"github.com/Mu-L/nanort/bvh"
	"github.com/Mu-L/nanort/scene"
	"github.com/Mu-L/nanort/types"
)

func TestRenderProducesVisibleHits(t *testing.T) {
	mesh := &bvh.TriangleMesh{Vertices: []types.Vec3{
		{-10, -10, 0}, {10, -10, 0}, {0, 10, 0},
	}}
	accel := bvh.NewAccel()
	if err := accel.Build(1, mesh, bvh.DefaultBuildOptions()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	cam := scene.NewCamera(1.0)
	cam.Position = types.XYZ(0, 0, 5)
	cam.LookAt = types.XYZ(0, 0, 0)
	cam.SetupProjection(1.0)

	fb := NewFrameBuffer(16, 16)
	stats := Render(context.Background(), accel, cam, 1, func() bvh.PrimitiveIntersector {
		return bvh.NewTriangleIntersector(mesh)
	}, fb)

	if stats.RowsRendered != 16 {
		t.Fatalf("rendered %d rows, want 16", stats.RowsRendered)
	}

	center := fb.Pixels[(8*16+8)*4]
	if center == 0 {
		t.Errorf("expected a lit pixel near the center of the frame, background stayed black")
	}
}

func TestRenderCancellation(t *testing.T) {
	mesh := &bvh.TriangleMesh{Vertices: []types.Vec3{
		{-10, -10, 0}, {10, -10, 0}, {0, 10, 0},
	}}
	accel := bvh.NewAccel()
	if err := accel.Build(1, mesh, bvh.DefaultBuildOptions()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	cam := scene.NewCamera(1.0)
	cam.SetupProjection(1.0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fb := NewFrameBuffer(64, 64)
	stats := Render(ctx, accel, cam, 1, func() bvh.PrimitiveIntersector {
		return bvh.NewTriangleIntersector(mesh)
	}, fb)

	if stats.RowsRendered >= uint32(fb.Height) {
		t.Errorf("expected cancellation to short-circuit before all rows rendered, got %d/%d", stats.RowsRendered, fb.Height)
	}
}
