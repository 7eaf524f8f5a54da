// Command colonysim runs the bacterial colony simulation for a fixed
// number of ticks, writing one CSV row per particle per tick. Grounded
// on the teacher's flag-based CLI (main.go, cmd/optimize/main.go):
// package-level flag.* declarations, flag.Parse() once, log.Fatalf for
// fatal start-up errors.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/pthm-cable/colonysim/colony"
	"github.com/pthm-cable/colonysim/config"
	"github.com/pthm-cable/colonysim/telemetry"
)

func main() {
	configPath := flag.String("config", "", "INI config file path (empty = defaults)")
	ticks := flag.Int("ticks", 0, "override num_ticks from config (0 = use config value)")
	perf := flag.Bool("perf", false, "log per-phase tick timing")
	output := flag.String("output", "./output", "directory for simulation_output_part_NNN.csv files")
	seed := flag.Int64("seed", 1, "root seed for the per-worker PRNG pool")
	flag.Parse()

	params, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("colonysim: %v", err)
	}

	numTicks := params.NumTicks
	if *ticks > 0 {
		numTicks = *ticks
	}

	sink, err := telemetry.NewSink(*output)
	if err != nil {
		log.Fatalf("colonysim: %v", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			slog.Error("colonysim: closing output", "error", cerr)
		}
	}()

	c := colony.New(params, *seed)
	c.EnablePerf(*perf)

	for tick := 0; tick < numTicks; tick++ {
		frame := c.Step(params.DeltaTime)
		if err := sink.WriteTick(tick, frame); err != nil {
			log.Fatalf("colonysim: %v", err)
		}
	}

	slog.Info("colonysim: run complete", "ticks", numTicks)
	os.Exit(0)
}
