// Package render drives the BVH core against a frame buffer: a
// goroutine-per-core worker pool claims scanlines from a shared atomic
// counter, generates a camera ray per pixel, calls bvh.Accel.Traverse
// with its own Intersector, and writes a debug-normal shaded color into
// the frame buffer. This mirrors nanort's own example renderer, which
// spawns one std::thread per hardware core against an atomic scanline
// index and polls a cancellation flag between batches of rows.
package render

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Mu-L/nanort/bvh"
	"github.com/Mu-L/nanort/log"
	"github.com/Mu-L/nanort/scene"
	"github.com/Mu-L/nanort/types"
)

var logger = log.New("render")

// FrameBuffer holds the RGBA8 output of a render in row-major order.
type FrameBuffer struct {
	Width, Height int
	Pixels        []byte // 4 bytes/pixel, RGBA
}

// NewFrameBuffer allocates a zeroed buffer of the given size.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{Width: width, Height: height, Pixels: make([]byte, width*height*4)}
}

func (fb *FrameBuffer) set(x, y int, c types.Vec3) {
	i := (y*fb.Width + x) * 4
	fb.Pixels[i+0] = toByte(c[0])
	fb.Pixels[i+1] = toByte(c[1])
	fb.Pixels[i+2] = toByte(c[2])
	fb.Pixels[i+3] = 0xff
}

func toByte(v float32) byte {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return byte(v*255 + 0.5)
}

// IntersectorFactory returns a fresh PrimitiveIntersector. Render calls it
// once per worker goroutine so each has its own scratch state, per the
// core's concurrency contract.
type IntersectorFactory func() bvh.PrimitiveIntersector

// Stats reports wall-clock timing for a completed Render call, in the
// shape of the teacher's tracer.Stats/renderer.FrameStats.
type Stats struct {
	RowsRendered uint32
	RenderTime   time.Duration
}

// Render traces accel against cam into fb, splitting rows across
// runtime.NumCPU() workers. It returns early if ctx is cancelled,
// polling ctx.Err() once per claimed scanline rather than per pixel.
func Render(ctx context.Context, accel *bvh.Accel, cam *scene.Camera, primitiveCount uint32, newIntersector IntersectorFactory, fb *FrameBuffer) Stats {
	start := time.Now()

	var nextRow int32 = -1
	var rowsDone uint32

	workers := runtime.NumCPU()
	done := make(chan struct{}, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			intersector := newIntersector()

			for {
				row := int(atomic.AddInt32(&nextRow, 1))
				if row >= fb.Height {
					return
				}
				if ctx.Err() != nil {
					return
				}
				renderRow(accel, cam, intersector, fb, row, primitiveCount)
				atomic.AddUint32(&rowsDone, 1)
			}
		}()
	}

	for w := 0; w < workers; w++ {
		<-done
	}

	stats := Stats{RowsRendered: rowsDone, RenderTime: time.Since(start)}
	logger.Debugf("rendered %d/%d rows in %s", stats.RowsRendered, fb.Height, stats.RenderTime)
	return stats
}

func renderRow(accel *bvh.Accel, cam *scene.Camera, intersector bvh.PrimitiveIntersector, fb *FrameBuffer, row int, primitiveCount uint32) {
	opts := bvh.DefaultTraceOptions(primitiveCount)
	for x := 0; x < fb.Width; x++ {
		u := (float32(x) + 0.5) / float32(fb.Width)
		v := (float32(row) + 0.5) / float32(fb.Height)

		dir := cam.GenerateRayDirection(u, v)
		ray := bvh.NewRay(cam.Position, dir)

		rec, hit := accel.Traverse(ray, intersector, opts)
		if !hit {
			fb.set(x, row, types.XYZ(0, 0, 0))
			continue
		}

		// Debug-normal visualisation: map [-1,1] normal components to
		// [0,1] color. There is no shading model in scope.
		color := rec.Normal.Mul(0.5).Add(types.XYZ(0.5, 0.5, 0.5))
		fb.set(x, row, color)
	}
}
