package contact

import (
	"math"
	"testing"

	"github.com/pthm-cable/colonysim/vec2"
)

func rodShape(center vec2.Vec2, orientation vec2.Vec2, diameter, length float32) Shape {
	return Shape{Kind: Rod, Center: center, Orientation: orientation, Diameter: diameter, Length: length}
}

func sphereShape(center vec2.Vec2, diameter float32) Shape {
	return Shape{Kind: Sphere, Center: center, Diameter: diameter}
}

func TestSphereSphereBasic(t *testing.T) {
	a := sphereShape(vec2.Vec2{X: 0, Y: 0}, 2) // radius 1
	b := sphereShape(vec2.Vec2{X: 3, Y: 0}, 2) // radius 1

	d := MinDistance(a, b)
	if math.Abs(float64(d)-1) > 1e-5 {
		t.Errorf("expected distance 1, got %f", d)
	}
}

func TestSphereSphereCoincidentCenters(t *testing.T) {
	a := sphereShape(vec2.Vec2{X: 5, Y: 5}, 2)
	b := sphereShape(vec2.Vec2{X: 5, Y: 5}, 2)

	d := MinDistance(a, b)
	if d != 0 {
		t.Errorf("expected 0 distance at coincident centers, got %f", d)
	}
	p := ContactPoint(a, b, 1e-6)
	if p != a.Center {
		t.Errorf("expected contact point at shared center, got %v", p)
	}
}

// scenario 1 from spec §8: two touching cells, head-to-head.
func TestRodRodTouchingHeadToHead(t *testing.T) {
	a := rodShape(vec2.Vec2{X: 0, Y: 0}, vec2.Vec2{X: 1, Y: 0}, 1, 2)
	b := rodShape(vec2.Vec2{X: 1.5, Y: 0}, vec2.Vec2{X: 1, Y: 0}, 1, 2)

	d := MinDistance(a, b)
	if math.Abs(float64(d)-0.5) > 1e-4 {
		t.Errorf("expected overlap distance 0.5, got %f", d)
	}
}

// scenario 2 from spec §8: sphere-in-cylinder contact.
func TestSphereRodOverlap(t *testing.T) {
	eps := sphereShape(vec2.Vec2{X: 0, Y: 0.4}, 0.5) // radius 0.25
	cell := rodShape(vec2.Vec2{X: 0, Y: 0}, vec2.Vec2{X: 1, Y: 0}, 1, 3)

	d := MinDistance(eps, cell)
	// axis distance = 0.4, minus r_rod(0.5) minus r_sphere(0.25) = -0.35 -> clamped to 0
	if d != 0 {
		t.Errorf("expected overlap clamped to 0, got %f", d)
	}
}

func TestMinDistanceSymmetric(t *testing.T) {
	a := rodShape(vec2.Vec2{X: 0, Y: 0}, vec2.Vec2{X: 1, Y: 0}, 1, 3)
	b := sphereShape(vec2.Vec2{X: 2, Y: 1}, 1)

	d1 := MinDistance(a, b)
	d2 := MinDistance(b, a)
	if math.Abs(float64(d1-d2)) > 1e-6 {
		t.Errorf("expected symmetric distance, got %f vs %f", d1, d2)
	}
}

func TestMinDistanceNonNegative(t *testing.T) {
	a := rodShape(vec2.Vec2{X: 0, Y: 0}, vec2.Vec2{X: 1, Y: 0}, 1, 5)
	b := rodShape(vec2.Vec2{X: 0.2, Y: 0.1}, vec2.Vec2{X: 0, Y: 1}, 1, 5)

	d := MinDistance(a, b)
	if d < 0 {
		t.Errorf("expected non-negative distance, got %f", d)
	}
}
