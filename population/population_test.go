package population

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/colonysim/vec2"
)

func TestGrowZeroMonodFactorNoGrowth(t *testing.T) {
	c := Cell{Length: 2, Diameter: 1}
	Grow(&c, 0, GrowthParams{Phi: 3.5, DivisionLength: 5}, 1)
	if c.Length != 2 {
		t.Errorf("expected no growth with m=0, got length %f", c.Length)
	}
}

func TestGrowPositiveMonodFactorIncreasesLength(t *testing.T) {
	c := Cell{Length: 2, Diameter: 1}
	Grow(&c, 0.5, GrowthParams{Phi: 3.5, DivisionLength: 5}, 1)
	if c.Length <= 2 {
		t.Errorf("expected growth with m>0, got length %f", c.Length)
	}
}

func TestShouldDivideAtCriticalLength(t *testing.T) {
	if !ShouldDivide(Cell{Length: 5}, 5) {
		t.Error("expected division at length == l_c")
	}
	if ShouldDivide(Cell{Length: 4.9}, 5) {
		t.Error("expected no division below l_c")
	}
}

func TestDivideConservesLength(t *testing.T) {
	mother := Cell{ID: 1, Centre: vec2.Vec2{X: 5, Y: 5}, Orientation: vec2.Vec2{X: 1, Y: 0}, Length: 6, Diameter: 1}
	r := rand.New(rand.NewSource(1))
	var nextID uint64 = 100
	a, b := Divide(mother, func() uint64 { nextID++; return nextID }, r)

	if a.Length != 3 || b.Length != 3 {
		t.Errorf("expected daughters at half length, got %f and %f", a.Length, b.Length)
	}
	if a.Lineage != mother.ID || b.Lineage != mother.ID {
		t.Errorf("expected daughters to inherit mother's lineage, got %d and %d", a.Lineage, b.Lineage)
	}
	if a.ID == b.ID {
		t.Error("expected distinct daughter IDs")
	}
}

func TestDivideOrientationsStayUnitLength(t *testing.T) {
	mother := Cell{ID: 1, Centre: vec2.Vec2{}, Orientation: vec2.Vec2{X: 1, Y: 0}, Length: 4, Diameter: 1}
	r := rand.New(rand.NewSource(7))
	var nextID uint64
	a, b := Divide(mother, func() uint64 { nextID++; return nextID }, r)

	if math.Abs(float64(a.Orientation.Length())-1) > 1e-5 {
		t.Errorf("expected unit orientation for daughter a, got length %f", a.Orientation.Length())
	}
	if math.Abs(float64(b.Orientation.Length())-1) > 1e-5 {
		t.Errorf("expected unit orientation for daughter b, got length %f", b.Orientation.Length())
	}
}

func TestSecretionEligibilityGate(t *testing.T) {
	p := SecretionParams{CellDensityThreshold: 5, EPSDensityThreshold: 0.3}
	if !SecretionEligible(6, 0.1, p) {
		t.Error("expected eligible: dense cells, sparse EPS")
	}
	if SecretionEligible(4, 0.1, p) {
		t.Error("expected ineligible: cell density below threshold")
	}
	if SecretionEligible(6, 0.5, p) {
		t.Error("expected ineligible: EPS density at/above threshold")
	}
}

func TestSecretionProbabilityScalesWithRate(t *testing.T) {
	p1 := SecretionProbability(SecretionParams{EPSProductionRate: 1})
	p2 := SecretionProbability(SecretionParams{EPSProductionRate: 2})
	if p2 != 2*p1 {
		t.Errorf("expected probability linear in production rate, got %f vs %f", p1, p2)
	}
}

func TestSecreteOffsetMatchesEPSDiameter(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	centre := vec2.Vec2{X: 1, Y: 1}
	eps := Secrete(centre, SecretionParams{EPSDiameter: 0.5}, func() uint64 { return 9 }, r)

	dist := vec2.Distance(centre, eps.Centre)
	if math.Abs(float64(dist-0.5)) > 1e-5 {
		t.Errorf("expected offset distance 0.5, got %f", dist)
	}
	if math.Abs(float64(eps.Orientation.Length())-1) > 1e-5 {
		t.Errorf("expected unit orientation, got length %f", eps.Orientation.Length())
	}
}
