package render

import (
	"context"
	"fmt"

	"github.com/Mu-L/nanort/bvh"
	"github.com/Mu-L/nanort/scene"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.1/glfw"
)

const (
	mouseSensitivityX float32 = 0.005
	mouseSensitivityY float32 = 0.005
	cameraMoveSpeed   float32 = 0.05
)

// View is an interactive GLFW window that re-renders the scene on the CPU
// (via Render) every frame and blits the result to a texture-backed quad.
// Ray generation and BVH traversal stay entirely on the CPU; the window
// only ever displays an already-rendered RGBA8 buffer, honouring the
// core's GPU-offload Non-goal.
type View struct {
	window *glfw.Window
	fbTex  uint32

	accel          *bvh.Accel
	camera         *scene.Camera
	primitiveCount uint32
	newIntersector IntersectorFactory

	fb *FrameBuffer

	lastCursorX, lastCursorY float64
	dragging                 bool
}

// NewView opens a width x height window titled title.
func NewView(title string, width, height int, accel *bvh.Accel, camera *scene.Camera, primitiveCount uint32, newIntersector IntersectorFactory) (*View, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("render: initializing glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("render: initializing gl: %w", err)
	}

	v := &View{
		window:         window,
		accel:          accel,
		camera:         camera,
		primitiveCount: primitiveCount,
		newIntersector: newIntersector,
		fb:             NewFrameBuffer(width, height),
	}

	gl.GenTextures(1, &v.fbTex)
	gl.BindTexture(gl.TEXTURE_2D, v.fbTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	window.SetKeyCallback(v.onKey)
	window.SetMouseButtonCallback(v.onMouseButton)
	window.SetCursorPosCallback(v.onCursorPos)

	camera.SetupProjection(float32(width) / float32(height))

	return v, nil
}

// Close terminates the window and the glfw runtime.
func (v *View) Close() {
	if v.window != nil {
		v.window.Destroy()
	}
	glfw.Terminate()
}

// ShouldClose reports whether the user closed the window.
func (v *View) ShouldClose() bool {
	return v.window.ShouldClose()
}

// RenderFrame re-renders the scene against the current camera and blits it
// to the window.
func (v *View) RenderFrame(ctx context.Context) Stats {
	stats := Render(ctx, v.accel, v.camera, v.primitiveCount, v.newIntersector, v.fb)

	gl.BindTexture(gl.TEXTURE_2D, v.fbTex)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(v.fb.Width), int32(v.fb.Height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(v.fb.Pixels))

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Enable(gl.TEXTURE_2D)
	gl.Begin(gl.QUADS)
	gl.TexCoord2f(0, 1)
	gl.Vertex2f(-1, -1)
	gl.TexCoord2f(1, 1)
	gl.Vertex2f(1, -1)
	gl.TexCoord2f(1, 0)
	gl.Vertex2f(1, 1)
	gl.TexCoord2f(0, 0)
	gl.Vertex2f(-1, 1)
	gl.End()

	v.window.SwapBuffers()
	glfw.PollEvents()

	return stats
}

func (v *View) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyW, glfw.KeyUp:
		v.camera.Move(scene.Forward, cameraMoveSpeed)
	case glfw.KeyS, glfw.KeyDown:
		v.camera.Move(scene.Backward, cameraMoveSpeed)
	case glfw.KeyA, glfw.KeyLeft:
		v.camera.Move(scene.Left, cameraMoveSpeed)
	case glfw.KeyD, glfw.KeyRight:
		v.camera.Move(scene.Right, cameraMoveSpeed)
	}
	v.camera.Update()
}

func (v *View) onMouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	v.dragging = action == glfw.Press
	v.lastCursorX, v.lastCursorY = w.GetCursorPos()
}

func (v *View) onCursorPos(w *glfw.Window, x, y float64) {
	if !v.dragging {
		v.lastCursorX, v.lastCursorY = x, y
		return
	}

	dx := float32(x - v.lastCursorX)
	dy := float32(y - v.lastCursorY)
	v.lastCursorX, v.lastCursorY = x, y

	v.camera.Yaw -= dx * mouseSensitivityX
	v.camera.Pitch -= dy * mouseSensitivityY
	v.camera.Update()
}
