// Package components defines the ECS components shared by cells and EPS
// particles. A particle's variant is its archetype membership: every
// particle carries Geometry and Identity; CellState additionally marks a
// cell, EPSState additionally marks an EPS particle. Shape dispatch for
// contact geometry lives in package contact only (spec §9); the force
// kernels (modulus selection) and the driver (motility, torque, friction)
// also branch on Variant.
package components

import "github.com/pthm-cable/colonysim/vec2"

// Variant discriminates a particle during generic (mixed-population)
// iteration, where re-deriving it from archetype membership on every
// visit would cost an extra component lookup. CellState/EPSState presence
// remains the authoritative tag for cell-only or EPS-only queries.
type Variant uint8

const (
	VariantCell Variant = iota
	VariantEPS
)

// Geometry holds the attributes common to every particle: its centre,
// unit orientation, and reference diameter.
type Geometry struct {
	Position    vec2.Vec2
	Orientation vec2.Vec2 // unit vector; renormalised after every rotation
	Diameter    float32
	Variant     Variant
}

// Identity tags a particle with its globally unique id and its lineage
// (the founding cell's id, inherited by both daughters at division).
type Identity struct {
	ID      uint64
	Lineage uint64
}

// CellState marks an entity as a cell (spherocylinder) and carries its
// growth/division/secretion bookkeeping.
type CellState struct {
	Length float32
}

// EPSState marks an entity as a secreted EPS particle (disk). It carries
// no extra fields today; its presence alone distinguishes the archetype
// from a cell's. Radius is Geometry.Diameter/2.
type EPSState struct{}

// Kinematics holds the velocity and angular velocity computed by the most
// recent integration step, written once per tick in colony's
// force/integrate phase.
type Kinematics struct {
	Velocity        vec2.Vec2
	AngularVelocity float32
}
