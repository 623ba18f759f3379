// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FromMat4 sets m to contain n.
// Both types are column-major, so this is a plain copy.
func (m *M4) FromMat4(n mgl32.Mat4) {
	for i := range m {
		copy(m[i][:], n[i*4:i*4+4])
	}
}

// Mat4 returns m as a mgl32.Mat4.
func (m *M4) Mat4() (n mgl32.Mat4) {
	for i := range m {
		copy(n[i*4:i*4+4], m[i][:])
	}
	return
}

// Translate sets m to contain a translation matrix.
func (m *M4) Translate(x, y, z float32) { m.FromMat4(mgl32.Translate3D(x, y, z)) }

// Scale sets m to contain a scaling matrix.
func (m *M4) Scale(x, y, z float32) { m.FromMat4(mgl32.Scale3D(x, y, z)) }

// RotateX sets m to contain a rotation of angle radians
// about the x axis.
func (m *M4) RotateX(angle float32) { m.FromMat4(mgl32.HomogRotate3DX(angle)) }

// RotateY sets m to contain a rotation of angle radians
// about the y axis.
func (m *M4) RotateY(angle float32) { m.FromMat4(mgl32.HomogRotate3DY(angle)) }

// RotateZ sets m to contain a rotation of angle radians
// about the z axis.
func (m *M4) RotateZ(angle float32) { m.FromMat4(mgl32.HomogRotate3DZ(angle)) }

// DH sets m to contain the Denavit-Hartenberg transform
// of a single joint:
//
//	Tz(displacement) ⋅ Rx(twist) ⋅ Rz(rotation)
//
// The link length is not part of m. It is applied to
// whatever hangs from the joint.
func (m *M4) DH(displacement, rotation, twist float32) {
	d := mgl32.Translate3D(0, 0, displacement)
	d = d.Mul4(mgl32.HomogRotate3DX(twist))
	d = d.Mul4(mgl32.HomogRotate3DZ(rotation))
	m.FromMat4(d)
}

// LookAt sets m to contain a left-handed view matrix.
// A degenerate configuration (eye equal to center, or up
// parallel to the view direction) produces a matrix with
// zeroed axes rather than NaNs.
func (m *M4) LookAt(eye, center, up *V3) {
	e := mgl32.Vec3(*eye)
	f := mgl32.Vec3(*center).Sub(e)
	if f.Len() != 0 {
		f = f.Normalize()
	}
	s := mgl32.Vec3(*up).Cross(f)
	if s.Len() != 0 {
		s = s.Normalize()
	}
	u := f.Cross(s)
	m.FromMat4(mgl32.Mat4FromRows(
		mgl32.Vec4{s[0], s[1], s[2], -s.Dot(e)},
		mgl32.Vec4{u[0], u[1], u[2], -u.Dot(e)},
		mgl32.Vec4{f[0], f[1], f[2], -f.Dot(e)},
		mgl32.Vec4{0, 0, 0, 1},
	))
}

// Perspective sets m to contain a left-handed perspective
// projection that maps depth to [0, 1].
// fovY is in radians.
func (m *M4) Perspective(fovY, aspect, zNear, zFar float32) {
	ys := 1 / math32.Tan(fovY/2)
	xs := ys / aspect
	q := zFar / (zFar - zNear)
	m.FromMat4(mgl32.Mat4FromRows(
		mgl32.Vec4{xs, 0, 0, 0},
		mgl32.Vec4{0, ys, 0, 0},
		mgl32.Vec4{0, 0, q, -zNear * q},
		mgl32.Vec4{0, 0, 1, 0},
	))
}
