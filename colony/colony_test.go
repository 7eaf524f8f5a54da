package colony

import (
	"testing"

	"github.com/pthm-cable/colonysim/config"
)

func testParams() config.Params {
	p := config.Default()
	p.GridWidth, p.GridHeight, p.GridCellSize = 20, 20, 10
	p.InitialCount = 3
	return p
}

func TestNewSpawnsInitialPopulation(t *testing.T) {
	c := New(testParams(), 1)
	if len(c.particles) != 3 {
		t.Fatalf("expected 3 initial particles, got %d", len(c.particles))
	}
}

func TestStepAdvancesTickCounter(t *testing.T) {
	c := New(testParams(), 1)
	c.Step(0.1)
	c.Step(0.1)
	if c.Tick() != 2 {
		t.Errorf("expected tick counter 2, got %d", c.Tick())
	}
}

func TestStepReturnsOneFramePerParticle(t *testing.T) {
	c := New(testParams(), 1)
	frame := c.Step(0.1)
	if len(frame) != len(c.particles) {
		t.Errorf("expected frame length %d, got %d", len(c.particles), len(frame))
	}
}

func TestStepKeepsOrientationUnitLength(t *testing.T) {
	c := New(testParams(), 1)
	var frame []ParticleFrame
	for i := 0; i < 20; i++ {
		frame = c.Step(0.1)
	}
	for _, p := range frame {
		l := p.Orientation.Length()
		if l < 1-1e-3 || l > 1+1e-3 {
			t.Errorf("particle %d: expected unit orientation, got length %f", p.ID, l)
		}
	}
}

func TestGrowthEventuallyTriggersDivision(t *testing.T) {
	p := testParams()
	p.GrowthRate = 50 // accelerate so division happens within a small tick budget
	c := New(p, 1)
	initial := len(c.particles)

	grew := false
	for i := 0; i < 200; i++ {
		c.Step(0.1)
		if len(c.particles) > initial {
			grew = true
			break
		}
	}
	if !grew {
		t.Error("expected population to grow via division within 200 ticks at an accelerated growth rate")
	}
}

func TestStepNeverProducesCellShorterThanDiameter(t *testing.T) {
	c := New(testParams(), 1)
	for i := 0; i < 50; i++ {
		frame := c.Step(0.1)
		for _, p := range frame {
			if p.Length == 0 {
				continue // EPS particle
			}
			if p.Length < p.Diameter {
				t.Errorf("particle %d: length %f below diameter %f", p.ID, p.Length, p.Diameter)
			}
		}
	}
}
