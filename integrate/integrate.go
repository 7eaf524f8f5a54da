// Package integrate advances a single particle's position and
// orientation by one timestep under overdamped dynamics (spec §4.4):
// velocity is proportional to force (no inertia), angular velocity to
// torque, both damped by friction and scaled by the particle's
// effective length.
package integrate

import "github.com/pthm-cable/colonysim/vec2"

// State is the minimal per-particle state the integrator reads and
// writes.
type State struct {
	Position    vec2.Vec2
	Orientation vec2.Vec2
}

// Params bundles the per-kind constants the integrator needs: friction
// coefficient eta and effective length L (= length for a cell, 2*radius
// for an EPS particle per spec §4.4).
type Params struct {
	Eta      float32
	Length   float32
	OmegaMax float32 // clamp bound, default 4*pi rad/unit-time
}

// LinearVelocity returns v = F / (eta * L), or zero if L <= 0 or eta <= 0.
func LinearVelocity(force vec2.Vec2, p Params) vec2.Vec2 {
	if p.Length <= 0 || p.Eta <= 0 {
		return vec2.Vec2{}
	}
	return force.Scale(1 / (p.Eta * p.Length))
}

// AngularVelocity returns omega = 12*tau / (eta * L^3), clamped to
// [-OmegaMax, +OmegaMax].
func AngularVelocity(torque float32, p Params) float32 {
	if p.Length <= 0 || p.Eta <= 0 {
		return 0
	}
	omega := 12 * torque / (p.Eta * p.Length * p.Length * p.Length)
	if p.OmegaMax > 0 {
		if omega > p.OmegaMax {
			omega = p.OmegaMax
		} else if omega < -p.OmegaMax {
			omega = -p.OmegaMax
		}
	}
	return omega
}

// Step advances s in place by dt given a linear velocity v and angular
// velocity omega: position += v*dt; orientation is rotated by omega*dt
// and renormalised. If the rotated vector has zero norm, orientation is
// left unchanged (spec §4.4).
func Step(s *State, v vec2.Vec2, omega, dt float32) {
	s.Position = s.Position.Add(v.Scale(dt))

	rotated := s.Orientation.Rotated(omega * dt)
	if n, ok := rotated.Normalized(1e-12); ok {
		s.Orientation = n
	}
}
