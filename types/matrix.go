package types

import "github.com/go-gl/mathgl/mgl32"

// Mat3/Mat4 reuse mathgl's column-major layout so that camera and trackball
// code can lean on its projection/view helpers instead of reimplementing them.
// They are plain aliases of the mathgl types; Mul4/Mul4x1/Inv4 are free
// functions below because Go forbids attaching new methods to a type alias
// for a type defined in another package.
type Mat3 = mgl32.Mat3
type Mat4 = mgl32.Mat4

// Identity 4x4 matrix.
func Ident4() Mat4 {
	return mgl32.Ident4()
}

// Build a right-handed perspective projection matrix. fovy is in radians.
func Perspective4(fovy, aspect, near, far float32) Mat4 {
	return mgl32.Perspective(fovy, aspect, near, far)
}

// Build a view matrix that places the camera at eye, looking at center.
func LookAtV(eye, center, up Vec3) Mat4 {
	return mgl32.LookAtV(mgl32.Vec3(eye), mgl32.Vec3(center), mgl32.Vec3(up))
}

// Multiply two 4x4 matrices.
func Mul4(a, b Mat4) Mat4 {
	return a.Mul4(b)
}

// Multiply a 4x4 matrix with a column vector.
func Mul4x1(m Mat4, v Vec4) Vec4 {
	return Vec4(m.Mul4x1(mgl32.Vec4(v)))
}

// Invert a 4x4 matrix.
func Inv4(m Mat4) Mat4 {
	return m.Inv()
}

// Extract the top-left 3x3 matrix from a 4x4 matrix.
func Mat4to3(m Mat4) Mat3 {
	return m.Mat3()
}
