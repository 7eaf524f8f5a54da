package vec2

import (
	"math"
	"testing"
)

func TestNormalizedUnitLength(t *testing.T) {
	v := Vec2{3, 4}
	n, ok := v.Normalized(1e-9)
	if !ok {
		t.Fatal("expected normalization to succeed")
	}
	if math.Abs(float64(n.Length())-1) > 1e-6 {
		t.Errorf("expected unit length, got %f", n.Length())
	}
}

func TestNormalizedZeroVector(t *testing.T) {
	_, ok := Vec2{0, 0}.Normalized(1e-9)
	if ok {
		t.Error("expected normalization of zero vector to fail")
	}
}

func TestRotatedQuarterTurnCounterClockwise(t *testing.T) {
	v := Vec2{1, 0}
	r := v.Rotated(float32(math.Pi / 2))
	if math.Abs(float64(r.X)) > 1e-5 || math.Abs(float64(r.Y)-1) > 1e-5 {
		t.Errorf("expected (0,1), got (%f,%f)", r.X, r.Y)
	}
}

func TestClosestPointOnSegmentClampsToEndpoints(t *testing.T) {
	a := Vec2{0, 0}
	b := Vec2{10, 0}

	p, tt := ClosestPointOnSegment(Vec2{-5, 3}, a, b)
	if p != a || tt != 0 {
		t.Errorf("expected clamp to start, got %v t=%f", p, tt)
	}

	p, tt = ClosestPointOnSegment(Vec2{15, -2}, a, b)
	if p != b || tt != 1 {
		t.Errorf("expected clamp to end, got %v t=%f", p, tt)
	}

	p, tt = ClosestPointOnSegment(Vec2{5, 3}, a, b)
	if p.X != 5 || p.Y != 0 || tt != 0.5 {
		t.Errorf("expected (5,0) t=0.5, got %v t=%f", p, tt)
	}
}

func TestClosestPointsSegmentSegmentParallel(t *testing.T) {
	// Two parallel horizontal segments, one above the other.
	p1, q1 := Vec2{0, 0}, Vec2{10, 0}
	p2, q2 := Vec2{0, 5}, Vec2{10, 5}

	c1, c2, _, _ := ClosestPointsSegmentSegment(p1, q1, p2, q2)
	if vDist := Distance(c1, c2); math.Abs(float64(vDist)-5) > 1e-4 {
		t.Errorf("expected distance 5, got %f", vDist)
	}
}

func TestClosestPointsSegmentSegmentCrossing(t *testing.T) {
	// Crossing segments: minimum distance should be ~0 at the intersection.
	p1, q1 := Vec2{-5, 0}, Vec2{5, 0}
	p2, q2 := Vec2{0, -5}, Vec2{0, 5}

	c1, c2, _, _ := ClosestPointsSegmentSegment(p1, q1, p2, q2)
	if d := Distance(c1, c2); d > 1e-4 {
		t.Errorf("expected ~0 distance at crossing, got %f", d)
	}
}
