package colony

import (
	"log/slog"
	"time"
)

// PerfCollector tracks rolling per-phase tick timing, surfaced via the
// -perf CLI flag. Adapted from the teacher's telemetry.PerfCollector
// (rolling-window StartTick/StartPhase/EndTick/Stats shape), trimmed to
// this domain's five tick phases and logged through slog instead of its
// own CSV schema (spec §6.2 fixes the one per-particle CSV; a second perf
// schema has no home there).
type PerfCollector struct {
	enabled bool

	windowSize  int
	tickDurs    []time.Duration
	writeIndex  int
	sampleCount int

	phaseTotals map[string]time.Duration
	ticksSinceLog int
	logInterval   int

	tickStart  time.Time
	phaseStart time.Time
	lastPhase  string
}

func newPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 64
	}
	return &PerfCollector{
		windowSize:  windowSize,
		tickDurs:    make([]time.Duration, windowSize),
		phaseTotals: make(map[string]time.Duration),
		logInterval: 100,
	}
}

func (p *PerfCollector) startTick() {
	p.tickStart = time.Now()
	p.phaseStart = p.tickStart
	p.lastPhase = ""
}

// startPhase closes out the previous phase's timer (if any) and starts
// the next one.
func (p *PerfCollector) startPhase(name string) {
	if !p.enabled {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.phaseTotals[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = name
}

func (p *PerfCollector) endTick() {
	if !p.enabled {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.phaseTotals[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.tickDurs[p.writeIndex] = now.Sub(p.tickStart)
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.ticksSinceLog++
}

func (p *PerfCollector) shouldLog() bool { return p.ticksSinceLog >= p.logInterval }

// flush logs the window's average tick duration and each phase's average
// duration per tick since the last flush, then resets the phase
// accumulators.
func (p *PerfCollector) flush(tick int) {
	var sum time.Duration
	for i := 0; i < p.sampleCount; i++ {
		sum += p.tickDurs[i]
	}
	avg := time.Duration(0)
	if p.sampleCount > 0 {
		avg = sum / time.Duration(p.sampleCount)
	}

	args := []any{"tick", tick, "avg_tick", avg}
	for phase, total := range p.phaseTotals {
		args = append(args, phase, total/time.Duration(max(p.ticksSinceLog, 1)))
	}
	slog.Info("colony perf", args...)

	p.phaseTotals = make(map[string]time.Duration)
	p.ticksSinceLog = 0
}
