// Package vec2 provides 2D vector primitives and the closest-point
// geometry kernels shared by contact detection and the integrator.
package vec2

import "math"

// Vec2 is a 2D vector or point. Value type throughout.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the scalar dot product.
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Cross returns the 2D scalar cross product v.x*o.y - v.y*o.x.
func (v Vec2) Cross(o Vec2) float32 { return v.X*o.Y - v.Y*o.X }

// LengthSq returns |v|^2.
func (v Vec2) LengthSq() float32 { return v.X*v.X + v.Y*v.Y }

// Length returns |v|.
func (v Vec2) Length() float32 { return float32(math.Sqrt(float64(v.LengthSq()))) }

// Normalized returns v / |v|, or the zero vector if |v| is (near) zero.
// ok reports whether normalization succeeded.
func (v Vec2) Normalized(eps float32) (Vec2, bool) {
	l := v.Length()
	if l <= eps {
		return Vec2{}, false
	}
	return Vec2{v.X / l, v.Y / l}, true
}

// Rotated returns v rotated counter-clockwise by angle radians using the
// standard 2x2 rotation matrix.
func (v Vec2) Rotated(angle float32) Vec2 {
	s, c := math.Sincos(float64(angle))
	cs, sn := float32(c), float32(s)
	return Vec2{
		X: v.X*cs - v.Y*sn,
		Y: v.X*sn + v.Y*cs,
	}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float32 {
	return a.Sub(b).Length()
}

// DistanceSq returns the squared Euclidean distance between a and b.
func DistanceSq(a, b Vec2) float32 {
	return a.Sub(b).LengthSq()
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClosestPointOnSegment returns the closest point on segment [a,b] to p,
// together with the parameter t in [0,1] along the segment.
func ClosestPointOnSegment(p, a, b Vec2) (Vec2, float32) {
	ab := b.Sub(a)
	denom := ab.LengthSq()
	if denom <= 1e-12 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / denom
	t = Clamp01(t)
	return a.Add(ab.Scale(t)), t
}

// ClosestPointsSegmentSegment solves the canonical 2D closest-point problem
// between segments [p1,q1] and [p2,q2] by minimizing the squared distance
// over clamped parameters s,t in [0,1]. Returns the two closest points and
// their parameters. This is the "canonical" routine referenced by spec §9,
// used in place of any simplified pairing shortcut.
func ClosestPointsSegmentSegment(p1, q1, p2, q2 Vec2) (c1, c2 Vec2, s, t float32) {
	d1 := q1.Sub(p1) // direction of segment 1
	d2 := q2.Sub(p2) // direction of segment 2
	r := p1.Sub(p2)

	a := d1.Dot(d1) // squared length of segment 1
	e := d2.Dot(d2) // squared length of segment 2
	f := d2.Dot(r)

	const eps = 1e-12

	if a <= eps && e <= eps {
		// Both segments degenerate to points.
		return p1, p2, 0, 0
	}
	if a <= eps {
		// Segment 1 degenerates to a point.
		s = 0
		t = Clamp01(f / e)
	} else {
		c := d1.Dot(r)
		if e <= eps {
			// Segment 2 degenerates to a point.
			t = 0
			s = Clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = Clamp01((b*f - c*e) / denom)
			} else {
				s = 0
			}
			t = (b*s + f) / e

			if t < 0 {
				t = 0
				s = Clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = Clamp01((b - c) / a)
			}
		}
	}

	c1 = p1.Add(d1.Scale(s))
	c2 = p2.Add(d2.Scale(t))
	return c1, c2, s, t
}
