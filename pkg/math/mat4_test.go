package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v, want (5, 10, 15)", got)
	}
}

func TestTransformVec3(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"translate", Translate(Vec3{10, 20, 30}), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(Vec3{2, 2, 2}), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
		{"translate after scale", Translate(Vec3{1, 0, 0}).Mul(Scale(Vec3{2, 2, 2})), Vec3{1, 1, 1}, Vec3{3, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformVec3(tt.in); got != tt.want {
				t.Errorf("TransformVec3() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotateAxisY90(t *testing.T) {
	m := RotateAxis(Vec3{0, 1, 0}, float32(math.Pi/2))
	got := m.TransformVec3(Vec3{1, 0, 0})

	// +X rotates onto -Z around +Y
	if !got.ApproxEqual(Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("RotateAxis Y 90: got %v, want (0, 0, -1)", got)
	}
}

func TestFromScaledAxis(t *testing.T) {
	if FromScaledAxis(Vec3{}) != Identity() {
		t.Error("zero rotation vector should give identity")
	}

	got := FromScaledAxis(Vec3{0, 0, float32(math.Pi / 2)})
	want := RotateAxis(Vec3{0, 0, 1}, float32(math.Pi/2))
	if !got.ApproxEqual(want, 1e-6) {
		t.Errorf("FromScaledAxis = %v, want %v", got, want)
	}
}

func TestTryInverse(t *testing.T) {
	m := Translate(Vec3{1, 2, 3}).Mul(RotateAxis(Vec3{0, 1, 0}, 0.7)).Mul(Scale(Vec3{2, 3, 4}))
	inv, ok := m.TryInverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	if !m.Mul(inv).ApproxEqual(Identity(), 1e-5) {
		t.Errorf("M * M^-1 = %v, want identity", m.Mul(inv))
	}

	if _, ok := Scale(Vec3{1, 0, 1}).TryInverse(); ok {
		t.Error("singular matrix should not invert")
	}
}

func TestMustInversePanicsOnSingular(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Mat4{}.MustInverse()
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	// eye maps to the view-space origin
	if got := m.TransformVec3(eye); !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("LookAt(eye) = %v, want origin", got)
	}
	// the target lies on -Z in view space
	if got := m.TransformVec3(Vec3{}); !got.ApproxEqual(Vec3{0, 0, -5}, 1e-5) {
		t.Errorf("LookAt(center) = %v, want (0, 0, -5)", got)
	}
}

func TestColumn(t *testing.T) {
	m := Mat4{
		1, 2, 3, 0,
		4, 5, 6, 0,
		7, 8, 9, 0,
		10, 11, 12, 1,
	}
	if m.Column(0) != (Vec3{1, 2, 3}) || m.Column(2) != (Vec3{7, 8, 9}) {
		t.Errorf("Column() returned wrong values")
	}
}
