// Package forces computes the four independent per-particle force and
// torque contributions the integrator consumes each tick: Hertzian
// repulsion, constant-magnitude motility, thermal jitter, and repulsive
// torque. Grounded on the teacher's free-function-with-explicit-params
// update style (systems/energy.go's UpdateEnergy/UpdatePreyForage), not
// its ECS-system-struct style — these kernels are pure and side-effect
// free (spec §4.3), so they take values in and return values out rather
// than mutating a component in place.
package forces

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/colonysim/components"
	"github.com/pthm-cable/colonysim/contact"
	"github.com/pthm-cable/colonysim/rng"
	"github.com/pthm-cable/colonysim/vec2"
)

// Moduli holds the elastic moduli selected by pair type for Hertzian
// repulsion (spec §4.3), plus the reference contact diameter d0 and the
// epsilon guarding coincident centres.
type Moduli struct {
	CellCell float32 // E_cc
	EPSEPS   float32 // E_ee
	Mixed    float32 // E_ec
	Fallback float32 // E_r
	D0       float32 // reference contact diameter
	Epsilon  float32
}

func (m Moduli) select_(av, bv components.Variant) float32 {
	switch {
	case av == components.VariantCell && bv == components.VariantCell:
		return m.CellCell
	case av == components.VariantEPS && bv == components.VariantEPS:
		return m.EPSEPS
	case av != bv:
		return m.Mixed
	default:
		return m.Fallback
	}
}

// Repulsion computes the Hertzian soft-contact force on a due to
// neighbour b, along with the contact point and h (for reuse by
// RepulsiveTorque, which needs the same quantities). ok is false when
// h <= 0 (no contact), in which case force and point are zero-valued
// and must not be used.
func Repulsion(a, b contact.Shape, av, bv components.Variant, m Moduli) (force vec2.Vec2, point vec2.Vec2, h float32, ok bool) {
	d := contact.MinDistance(a, b)
	h = m.D0 - d
	if h <= 0 {
		return vec2.Vec2{}, vec2.Vec2{}, h, false
	}

	delta := a.Center.Sub(b.Center)
	n, normOK := delta.Normalized(m.Epsilon)
	if !normOK {
		n = vec2.Vec2{X: 1, Y: 0}
	}

	e := m.select_(av, bv)
	magnitude := e * float32(math.Sqrt(float64(m.D0))) * float32(math.Pow(float64(h), 1.5))

	force = n.Scale(magnitude)
	point = contact.ContactPoint(a, b, m.Epsilon)
	return force, point, h, true
}

// Motility returns the constant-magnitude self-propulsion force along a
// cell's orientation. Applies only to cells (spec §4.3); callers must
// not invoke this for EPS particles.
func Motility(orientation vec2.Vec2, mu float32) vec2.Vec2 {
	return orientation.Scale(mu)
}

// Random draws a thermal jitter force with each component independently
// uniform in [-0.001, 0.001], using the caller's worker-local source so
// reruns are deterministic given a fixed seed (spec §4.3, §5).
func Random(r *rand.Rand) vec2.Vec2 {
	const lo, hi = -0.001, 0.001
	return vec2.Vec2{X: rng.Uniform(r, lo, hi), Y: rng.Uniform(r, lo, hi)}
}

// RepulsiveTorque computes the scalar torque about centreA contributed
// by a repulsion force applied at contact point p: tau = lever x F,
// lever = p - centreA.
func RepulsiveTorque(centreA, p, force vec2.Vec2) float32 {
	lever := p.Sub(centreA)
	return lever.Cross(force)
}
