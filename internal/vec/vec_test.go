package vec

import (
	"math"
	"testing"
)

func TestArithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{-4, 5, 0.5}

	sum := a.Add(b)
	if sum != (Vec3{-3, 7, 3.5}) {
		t.Errorf("Add: got %v", sum)
	}

	diff := a.Sub(b)
	if diff != (Vec3{5, -3, 2.5}) {
		t.Errorf("Sub: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled != (Vec3{2, 4, 6}) {
		t.Errorf("Scale: got %v", scaled)
	}

	if dot := a.Dot(b); dot != -4+10+1.5 {
		t.Errorf("Dot: got %f", dot)
	}
}

func TestNorm(t *testing.T) {
	v := Vec3{3, 4, 0}
	if v.Norm() != 5 {
		t.Errorf("Norm: got %f, want 5", v.Norm())
	}
	if v.NormSq() != 25 {
		t.Errorf("NormSq: got %f, want 25", v.NormSq())
	}
}

func TestIsValid(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsValid() {
		t.Error("finite vector reported invalid")
	}
	if (Vec3{math.NaN(), 0, 0}).IsValid() {
		t.Error("NaN vector reported valid")
	}
	if (Vec3{0, math.Inf(1), 0}).IsValid() {
		t.Error("Inf vector reported valid")
	}
}
