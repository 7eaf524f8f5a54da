package spatial

import (
	"testing"

	"github.com/pthm-cable/colonysim/vec2"
)

func TestRebuildAndNeighborEnumeration(t *testing.T) {
	const s = 4.0
	g := NewGrid(s)

	positions := []vec2.Vec2{
		{X: 0, Y: 0},
		{X: 3, Y: 0},   // within s of index 0
		{X: 100, Y: 100}, // far away
	}
	g.Rebuild(positions)

	seen := map[int32]bool{}
	g.ForEachNeighborIndex(positions[0], func(j int32) { seen[j] = true })

	if !seen[0] {
		t.Error("expected self-inclusion for index 0")
	}
	if !seen[1] {
		t.Error("expected index 1 (within cutoff) to be visited from index 0's neighborhood")
	}
	if seen[2] {
		t.Error("did not expect the far-away index 2 in index 0's neighborhood")
	}
}

func TestMutualNeighborInvariant(t *testing.T) {
	const s = 4.0
	g := NewGrid(s)

	positions := []vec2.Vec2{
		{X: 10, Y: 10},
		{X: 12, Y: 11}, // distance < s from index 0
	}
	g.Rebuild(positions)

	aSeesB := false
	g.ForEachNeighborIndex(positions[0], func(j int32) {
		if j == 1 {
			aSeesB = true
		}
	})
	bSeesA := false
	g.ForEachNeighborIndex(positions[1], func(j int32) {
		if j == 0 {
			bSeesA = true
		}
	})

	if !aSeesB && !bSeesA {
		t.Error("expected at least one direction to enumerate the other index within cutoff s")
	}
}

func TestForEachIndexNearRadius(t *testing.T) {
	g := NewGrid(4.0)
	positions := []vec2.Vec2{
		{X: 0, Y: 0},
		{X: 20, Y: 0},
	}
	g.Rebuild(positions)

	var found []int32
	g.ForEachIndexNear(0, 0, 5, func(j int32) { found = append(found, j) })

	if len(found) != 1 || found[0] != 0 {
		t.Errorf("expected only index 0 within radius 5 of origin, got %v", found)
	}
}

func TestEmptyGrid(t *testing.T) {
	g := NewGrid(4.0)
	g.Rebuild(nil)

	count := 0
	g.ForEachNeighborIndex(vec2.Vec2{}, func(j int32) { count++ })
	if count != 0 {
		t.Errorf("expected no results on empty grid, got %d", count)
	}
}
