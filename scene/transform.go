package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a local placement: T * R * S.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
}

func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

func (t Transform) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

func (t Transform) IsIdentity() bool {
	return MatNear(t.Mat4(), mgl64.Ident4(), 1e-9)
}

// MatNear compares matrices entry by entry with an absolute tolerance,
// so entries that should be zero are not held to a relative bound.
func MatNear(a, b mgl64.Mat4, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

func VecNear(a, b mgl64.Vec3, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

// TransformFromMat4 decomposes an affine matrix without shear.
// A negative determinant is folded into the X scale.
func TransformFromMat4(m mgl64.Mat4) Transform {
	x := m.Col(0).Vec3()
	y := m.Col(1).Vec3()
	z := m.Col(2).Vec3()

	t := Transform{
		Translation: m.Col(3).Vec3(),
		Rotation:    mgl64.QuatIdent(),
		Scale:       mgl64.Vec3{x.Len(), y.Len(), z.Len()},
	}
	if m.Det() < 0 {
		t.Scale[0] = -t.Scale[0]
	}

	if t.Scale[0] == 0 || t.Scale[1] == 0 || t.Scale[2] == 0 {
		return t
	}

	r := mgl64.Ident4()
	r.SetCol(0, x.Mul(1/t.Scale[0]).Vec4(0))
	r.SetCol(1, y.Mul(1/t.Scale[1]).Vec4(0))
	r.SetCol(2, z.Mul(1/t.Scale[2]).Vec4(0))
	t.Rotation = mgl64.Mat4ToQuat(r).Normalize()

	return t
}
