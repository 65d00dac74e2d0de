package vision

import "testing"

func contourWithLids(upperY, lowerY float64) Contour {
	c := make(Contour, 6)
	c[UpperLidIndex] = Point{X: 10, Y: upperY}
	c[LowerLidIndex] = Point{X: 10, Y: lowerY}
	return c
}

func TestOpennessSignInvariant(t *testing.T) {
	// 上眼睑在上
	got, ok := Openness(contourWithLids(40, 52))
	if !ok {
		t.Fatal("contour should be evaluable")
	}
	if got != 12 {
		t.Fatalf("openness = %v, want 12", got)
	}

	// 点序颠倒，结果不变
	got, ok = Openness(contourWithLids(52, 40))
	if !ok {
		t.Fatal("contour should be evaluable")
	}
	if got != 12 {
		t.Fatalf("openness = %v, want 12", got)
	}
}

func TestOpennessShortContour(t *testing.T) {
	if _, ok := Openness(nil); ok {
		t.Fatal("nil contour must not be evaluable")
	}
	if _, ok := Openness(make(Contour, 5)); ok {
		t.Fatal("5-point contour must not be evaluable")
	}
}
