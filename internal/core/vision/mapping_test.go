package vision

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMapPoint(t *testing.T) {
	box := Rect{X: 0.1, Y: 0.2, Width: 0.5, Height: 0.5}
	vp := Viewport{Width: 100, Height: 200}

	got := MapPoint(Point{X: 0.5, Y: 0.5}, box, vp)
	if !almostEqual(got.X, 35) || !almostEqual(got.Y, 90) {
		t.Fatalf("got %+v, want (35, 90)", got)
	}
}

func TestMapPointViewportOffset(t *testing.T) {
	box := Rect{Width: 1, Height: 1}
	vp := Viewport{X: 10, Y: 20, Width: 100, Height: 100}

	got := MapPoint(Point{X: 0, Y: 0}, box, vp)
	if !almostEqual(got.X, 10) || !almostEqual(got.Y, 20) {
		t.Fatalf("got %+v, want (10, 20)", got)
	}
}

func TestMapContour(t *testing.T) {
	box := Rect{Width: 1, Height: 1}
	vp := Viewport{Width: 10, Height: 10}

	if MapContour(nil, box, vp) != nil {
		t.Fatal("nil contour must stay nil")
	}

	c := Contour{{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}}
	out := MapContour(c, box, vp)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if !almostEqual(out[1].X, 3) || !almostEqual(out[1].Y, 4) {
		t.Fatalf("out[1] = %+v, want (3, 4)", out[1])
	}
	// 原轮廓不被修改
	if !almostEqual(c[1].X, 0.3) {
		t.Fatal("source contour mutated")
	}
}
