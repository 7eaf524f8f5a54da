// Package contact computes per-pair minimum distance and a representative
// contact point between the three shape combinations the simulator needs:
// rod-rod (cell-cell), rod-sphere (cell-EPS), and sphere-sphere (EPS-EPS).
// This is the one place particle variant dispatch happens (spec §9); every
// caller above this package treats particles uniformly.
package contact

import "github.com/pthm-cable/colonysim/vec2"

// Kind discriminates the two shapes contact geometry dispatches on.
type Kind uint8

const (
	Rod Kind = iota
	Sphere
)

// Shape is a minimal geometric view of a particle sufficient for contact
// detection: a rod is a spherocylinder (cylindrical body + two hemispherical
// caps), a sphere is a disk in this 2D simulation.
type Shape struct {
	Kind        Kind
	Center      vec2.Vec2
	Orientation vec2.Vec2 // unit vector; meaningless for Sphere
	Diameter    float32   // rod body diameter, or sphere diameter
	Length      float32   // rod total length (tip to tip); unused for Sphere
}

// Radius returns the sphere radius (Diameter/2), valid for Kind == Sphere.
func (s Shape) Radius() float32 { return s.Diameter / 2 }

// axisEndpoints returns the two endpoints of the rod's cylindrical body
// segment (excluding the hemispherical caps), per spec §4.2's convention:
// body length = max(0, Length-Diameter), endpoints at Center +/- body/2 * Orientation.
func (s Shape) axisEndpoints() (a, b vec2.Vec2) {
	body := s.Length - s.Diameter
	if body < 0 {
		body = 0
	}
	half := s.Orientation.Scale(body / 2)
	return s.Center.Sub(half), s.Center.Add(half)
}

// capCenters returns the two hemisphere cap centres, offset by half the
// total rod length along orientation.
func (s Shape) capCenters() (left, right vec2.Vec2) {
	half := s.Orientation.Scale(s.Length / 2)
	return s.Center.Sub(half), s.Center.Add(half)
}

// MinDistance returns the shortest surface-to-surface distance between a
// and b, clamped to >= 0.
func MinDistance(a, b Shape) float32 {
	d, _ := dispatch(a, b)
	return d
}

// ContactPoint returns a representative point on the contact manifold
// between a and b. eps guards the degenerate coincident-centres case.
func ContactPoint(a, b Shape, eps float32) vec2.Vec2 {
	_, p := dispatchWithPoint(a, b, eps)
	return p
}

// dispatch computes the minimum distance and contact point with the
// default coincident-centres guard; MinDistance discards the point.
func dispatch(a, b Shape) (float32, vec2.Vec2) {
	return dispatchWithPoint(a, b, 1e-9)
}

func dispatchWithPoint(a, b Shape, eps float32) (float32, vec2.Vec2) {
	switch {
	case a.Kind == Sphere && b.Kind == Sphere:
		return sphereSphere(a, b, eps)
	case a.Kind == Sphere && b.Kind == Rod:
		d, p := sphereRod(a, b)
		return d, p
	case a.Kind == Rod && b.Kind == Sphere:
		d, p := sphereRod(b, a)
		return d, p
	default:
		return rodRod(a, b)
	}
}

func clampNonNeg(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}

// sphereSphere implements spec §4.2's sphere/sphere rule. Contact point
// sits on sphere a's surface along the line toward b.
func sphereSphere(a, b Shape, eps float32) (float32, vec2.Vec2) {
	delta := a.Center.Sub(b.Center)
	dist := delta.Length()

	if dist <= eps {
		return 0, a.Center
	}

	n := delta.Scale(1 / dist) // unit vector b -> a
	d := clampNonNeg(dist - (a.Radius() + b.Radius()))
	contactPt := a.Center.Sub(n.Scale(a.Radius()))
	return d, contactPt
}

// sphereRod implements spec §4.2's sphere/rod rule. s is the sphere, r the
// rod. Contact point sits on the sphere surface along the line to the
// closest rod feature.
func sphereRod(s, r Shape) (float32, vec2.Vec2) {
	axisA, axisB := r.axisEndpoints()
	q, _ := vec2.ClosestPointOnSegment(s.Center, axisA, axisB)
	leftCap, rightCap := r.capCenters()

	dAxis := vec2.Distance(s.Center, q)
	dLeft := vec2.Distance(s.Center, leftCap)
	dRight := vec2.Distance(s.Center, rightCap)

	closest := q
	minD := dAxis
	if dLeft < minD {
		minD = dLeft
		closest = leftCap
	}
	if dRight < minD {
		minD = dRight
		closest = rightCap
	}

	surfaceDist := clampNonNeg(minD - r.Radius() - s.Radius())

	n, ok := s.Center.Sub(closest).Normalized(1e-9)
	if !ok {
		n = vec2.Vec2{X: 1, Y: 0}
	}
	contactPt := s.Center.Sub(n.Scale(s.Radius()))
	return surfaceDist, contactPt
}

// rodRod implements spec §4.2's rod/rod rule: the minimum over (i)
// segment-segment between the two axis segments, (ii) all four
// segment-to-endpoint combinations, and (iii) all four
// endpoint-to-endpoint distances. The candidate points here are the body
// endpoints (centre +/- body/2*orientation), not the further-out
// length/2 hemisphere centres used by sphereRod: the body endpoints
// already exclude the hemisphere caps, so the segment-segment distance
// between them is a surface-to-surface distance directly and needs no
// further radii subtraction (see DESIGN.md: this diverges from a literal
// reading of the spec's "minus the radii sum" clause, which double
// counts the caps here and does not reproduce the spec's own worked
// example). The contact point is the midpoint of the closest-point pair
// from (i) — the canonical segment-segment routine, not the teacher's
// simplified shortcut (spec §9 flags the source's pairing as
// non-canonical; this repository always uses the true segment-segment
// closest points).
func rodRod(a, b Shape) (float32, vec2.Vec2) {
	aAxisA, aAxisB := a.axisEndpoints()
	bAxisA, bAxisB := b.axisEndpoints()

	// (i) segment-segment between the two axis segments.
	c1, c2, _, _ := vec2.ClosestPointsSegmentSegment(aAxisA, aAxisB, bAxisA, bAxisB)
	minDist := vec2.Distance(c1, c2)
	contactMid := c1.Add(c2).Scale(0.5)

	considerPoint := func(d float32, p vec2.Vec2) {
		if d < minDist {
			minDist = d
			contactMid = p
		}
	}

	// (ii) all four segment-to-endpoint combinations.
	for _, end := range []vec2.Vec2{bAxisA, bAxisB} {
		p, _ := vec2.ClosestPointOnSegment(end, aAxisA, aAxisB)
		considerPoint(vec2.Distance(p, end), p.Add(end).Scale(0.5))
	}
	for _, end := range []vec2.Vec2{aAxisA, aAxisB} {
		p, _ := vec2.ClosestPointOnSegment(end, bAxisA, bAxisB)
		considerPoint(vec2.Distance(p, end), p.Add(end).Scale(0.5))
	}

	// (iii) all four endpoint-to-endpoint distances.
	for _, ea := range []vec2.Vec2{aAxisA, aAxisB} {
		for _, eb := range []vec2.Vec2{bAxisA, bAxisB} {
			considerPoint(vec2.Distance(ea, eb), ea.Add(eb).Scale(0.5))
		}
	}

	return minDist, contactMid
}
