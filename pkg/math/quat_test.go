package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
	if q.ToMat4() != Identity() {
		t.Error("identity quaternion should produce identity matrix")
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()
	length := math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W))
	if math.Abs(length-1.0) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
	if (Quat{}).Normalize() != QuatIdentity() {
		t.Error("zero quaternion should normalize to identity")
	}
}

func TestQuatToMat4MatchesAxisRotation(t *testing.T) {
	axis := Vec3{0, 1, 0}
	angle := float32(math.Pi / 3)
	got := QuatFromAxisAngle(axis, angle).ToMat4()
	want := RotateAxis(axis, angle)
	if !got.ApproxEqual(want, 1e-6) {
		t.Errorf("ToMat4 = %v, want %v", got, want)
	}
}

func TestQuatFromScaledAxis(t *testing.T) {
	v := Vec3{0, 0, float32(math.Pi / 2)}
	got := QuatFromScaledAxis(v).ToMat4()
	if !got.ApproxEqual(FromScaledAxis(v), 1e-6) {
		t.Errorf("QuatFromScaledAxis disagrees with FromScaledAxis")
	}
}

func TestQuatMul(t *testing.T) {
	axis := Vec3{1, 0, 0}
	half := QuatFromAxisAngle(axis, float32(math.Pi/4))
	got := half.Mul(half).ToMat4()
	want := RotateAxis(axis, float32(math.Pi/2))
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("q*q = %v, want %v", got, want)
	}
}
