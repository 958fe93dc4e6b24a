package scene

import (
	"fmt"

	"github.com/Mu-L/nanort/types"
)

// Frustrum stores the ray directions at the four corners of the camera
// frustrum. It is used as a shortcut for generating per-pixel rays via
// bilinear interpolation of the corner rays.
type Frustrum [4]types.Vec4

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// CameraDirection enumerates the directions a trackball-driven camera can be
// nudged along via keyboard input.
type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
)

// Camera controls the scene camera used to generate primary rays. It keeps
// its own view/projection matrices and a cached frustrum of corner ray
// directions so that per-pixel ray generation is a cheap bilinear lerp.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3
	Pitch    float32
	Yaw      float32

	ViewMat  types.Mat4
	ProjMat  types.Mat4
	Frustrum Frustrum

	// Camera FOV, in radians.
	FOV float32

	// Adjust the frustrum so that Y is inverted; used when the driver
	// blits the rendered framebuffer through an OpenGL texture.
	InvertY bool
}

// NewCamera creates a camera looking down -Z with the given field of view.
func NewCamera(fov float32) *Camera {
	return &Camera{
		ViewMat:  types.Ident4(),
		ProjMat:  types.Ident4(),
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
}

// SetupProjection (re)builds the projection matrix for the given aspect ratio.
func (c *Camera) SetupProjection(aspect float32) {
	c.ProjMat = types.Perspective4(c.FOV, aspect, 1, 1000)
	c.Update()
}

// Move nudges the camera along dir by the given amount, keeping it looking in
// the same direction. Used by the interactive trackball viewer.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	forward := c.LookAt.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()

	switch dir {
	case Forward:
		c.Position = c.Position.Add(forward.Mul(amount))
	case Backward:
		c.Position = c.Position.Sub(forward.Mul(amount))
	case Left:
		c.Position = c.Position.Sub(right.Mul(amount))
	case Right:
		c.Position = c.Position.Add(right.Mul(amount))
	}
	c.LookAt = c.Position.Add(forward)
}

// Update recomputes the view matrix and cached frustrum after Position,
// Pitch or Yaw change.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	pitchAxis := dir.Cross(c.Up)
	pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
	yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()

	dir = orientQuat.Rotate(dir)
	c.LookAt = c.Position.Add(dir.Mul(1.0))

	c.ViewMat = types.LookAtV(c.Position, c.LookAt, c.Up)
	c.updateFrustrum()

	// Pitch/Yaw are deltas applied once per Update call.
	c.Pitch = 0
	c.Yaw = 0
}

// InvViewProjMat returns the inverse of the combined projection/view matrix.
func (c *Camera) InvViewProjMat() types.Mat4 {
	return types.Inv4(types.Mul4(c.ProjMat, c.ViewMat))
}

// updateFrustrum generates a ray vector for each corner of the camera
// frustrum by multiplying clip-space corners with the inverse proj/view
// matrix, applying perspective division and subtracting the eye position.
func (c *Camera) updateFrustrum() {
	invProjViewMat := c.InvViewProjMat()

	var yUp float32 = 1.0
	if c.InvertY {
		yUp = -1.0
	}

	corner := func(x, y float32) types.Vec4 {
		v := types.Mul4x1(invProjViewMat, types.XYZW(x, y, -1, 1))
		return v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)
	}

	c.Frustrum[0] = corner(-1, yUp)
	c.Frustrum[1] = corner(1, yUp)
	c.Frustrum[2] = corner(-1, -yUp)
	c.Frustrum[3] = corner(1, -yUp)
}

// GenerateRayDirection bilinearly interpolates the cached frustrum corner
// rays for the normalized image-plane coordinates u,v in [0,1].
func (c *Camera) GenerateRayDirection(u, v float32) types.Vec3 {
	top := lerpVec4(c.Frustrum[0], c.Frustrum[1], u)
	bottom := lerpVec4(c.Frustrum[2], c.Frustrum[3], u)
	return lerpVec4(top, bottom, v).Vec3()
}

func lerpVec4(a, b types.Vec4, t float32) types.Vec4 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
