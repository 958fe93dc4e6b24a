package cmd

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/Mu-L/nanort/bvh"
	"github.com/Mu-L/nanort/lasreader"
	"github.com/Mu-L/nanort/meshcache"
	"github.com/Mu-L/nanort/render"
	"github.com/Mu-L/nanort/reader"
	"github.com/Mu-L/nanort/scene"
	"github.com/urfave/cli"
)

// sceneAccel loads either a mesh cache (.zip) or a LAS point cloud (.las)
// into a built bvh.Accel plus the intersector factory and primitive count
// needed to trace it, and a default camera.
func sceneAccel(path string) (*bvh.Accel, render.IntersectorFactory, uint32, *scene.Camera, error) {
	switch {
	case strings.HasSuffix(path, ".zip"):
		sc, err := meshcache.Read(path)
		if err != nil {
			return nil, nil, 0, nil, err
		}
		primCount := uint32(len(sc.Mesh.Vertices) / 3)
		accel := bvh.NewAccel()
		if err := accel.Build(primCount, sc.Mesh, bvh.DefaultBuildOptions()); err != nil {
			return nil, nil, 0, nil, err
		}
		mesh := sc.Mesh
		factory := func() bvh.PrimitiveIntersector { return bvh.NewTriangleIntersector(mesh) }
		return accel, factory, primCount, sc.Camera, nil

	case strings.HasSuffix(path, ".obj"):
		sc, err := reader.ReadOBJ(path)
		if err != nil {
			return nil, nil, 0, nil, err
		}
		primCount := uint32(len(sc.Mesh.Vertices) / 3)
		accel := bvh.NewAccel()
		if err := accel.Build(primCount, sc.Mesh, bvh.DefaultBuildOptions()); err != nil {
			return nil, nil, 0, nil, err
		}
		mesh := sc.Mesh
		factory := func() bvh.PrimitiveIntersector { return bvh.NewTriangleIntersector(mesh) }
		return accel, factory, primCount, sc.Camera, nil

	case strings.HasSuffix(path, ".las"):
		spheres, err := lasreader.Read(path, lasreader.DefaultPointRadius)
		if err != nil {
			return nil, nil, 0, nil, err
		}
		primCount := uint32(len(spheres.Centers))
		accel := bvh.NewAccel()
		if err := accel.Build(primCount, spheres, bvh.DefaultBuildOptions()); err != nil {
			return nil, nil, 0, nil, err
		}
		factory := func() bvh.PrimitiveIntersector { return bvh.NewSphereIntersector(spheres) }
		min, max := accel.BoundingBox()
		cam := scene.NewCamera(45 * 3.1415926535 / 180)
		cam.Position = min.Sub(max.Sub(min))
		cam.LookAt = min.Add(max).Mul(0.5)
		cam.Update()
		return accel, factory, primCount, cam, nil

	default:
		return nil, nil, 0, nil, errors.New("unsupported scene file; expected a .zip mesh cache, .obj or .las file")
	}
}

// RenderFrame renders a single frame of the given scene and writes it to a
// PNG file.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	width := ctx.Int("width")
	height := ctx.Int("height")

	accel, factory, primCount, cam, err := sceneAccel(ctx.Args().First())
	if err != nil {
		return err
	}
	cam.SetupProjection(float32(width) / float32(height))

	fb := render.NewFrameBuffer(width, height)

	start := time.Now()
	stats := render.Render(context.Background(), accel, cam, primCount, factory, fb)
	logger.Noticef("rendered %d rows in %s", stats.RowsRendered, time.Since(start))

	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	img := &image.RGBA{Pix: fb.Pixels, Stride: fb.Width * 4, Rect: image.Rect(0, 0, fb.Width, fb.Height)}
	if err := png.Encode(f, img); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", out)

	return nil
}

// RenderInteractive opens a live GLFW window and continuously re-renders the
// scene as the camera is moved, using render.View.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	width := ctx.Int("width")
	height := ctx.Int("height")

	accel, factory, primCount, cam, err := sceneAccel(ctx.Args().First())
	if err != nil {
		return err
	}
	cam.InvertY = true

	view, err := render.NewView("nanort", width, height, accel, cam, primCount, factory)
	if err != nil {
		return err
	}
	defer view.Close()

	for !view.ShouldClose() {
		view.RenderFrame(context.Background())
	}

	return nil
}
