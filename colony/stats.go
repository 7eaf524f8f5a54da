package colony

import "log/slog"

// Stats is a rolling counter of population-level events, logged via slog
// at a fixed tick interval rather than written to its own CSV (spec §6.2
// fixes the one per-particle CSV schema; this is a supplementary
// operator-facing log). Adapted from the teacher's telemetry.Collector
// (windowed event counting flushed on a tick schedule), trimmed from
// predator/prey birth/death/bite counters to this domain's population
// size, division, and secretion counts.
type Stats struct {
	intervalTicks int
	ticksSinceLog int

	cellCount, epsCount   int
	divisions, secretions int
}

func newStats(intervalTicks int) *Stats {
	if intervalTicks < 1 {
		intervalTicks = 100
	}
	return &Stats{intervalTicks: intervalTicks}
}

func (s *Stats) recordTick(cellCount, epsCount, divisions, secretions int) {
	s.cellCount, s.epsCount = cellCount, epsCount
	s.divisions += divisions
	s.secretions += secretions
	s.ticksSinceLog++
}

func (s *Stats) shouldLog() bool { return s.ticksSinceLog >= s.intervalTicks }

// flush logs the window's totals and resets the accumulators.
func (s *Stats) flush(tick int) {
	slog.Info("colony stats",
		"tick", tick,
		"cells", s.cellCount,
		"eps", s.epsCount,
		"divisions", s.divisions,
		"secretions", s.secretions,
	)
	s.divisions, s.secretions, s.ticksSinceLog = 0, 0, 0
}
