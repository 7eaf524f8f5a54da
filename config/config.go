// Package config loads the simulation's parameter record from an
// INI-style file (spec §6.1) via gopkg.in/ini.v1. Grounded on the
// teacher's config/config.go for the loading shape (defaults merged
// with an optional user file, plus a Derived section of values computed
// once after loading) but dropping its YAML format and package-global
// singleton: Params is an immutable value returned by Load, passed
// explicitly through the driver the way the rest of this codebase
// threads state, rather than fetched from a global Cfg().
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/ini.v1"
)

// Params is the full parameter record recognised from the config file
// (spec §6.1), plus Derived, values computed once after loading.
type Params struct {
	Width, Height int
	InitialCount  int

	Length      float32
	Diameter    float32
	EPSDiameter float32

	GrowthRate     float32
	DivisionLength float32
	DivisionRate   float32
	EPSProduction  float32

	MotilityForce  float32
	RepulsionForce float32
	EMEPSEPS       float32
	EMEPSCell      float32
	EMCellCell     float32
	FrictionCell   float32
	FrictionEPS    float32

	NutrientConcentration float32
	NutrientConsumption   float32
	DiffusionRate         float32

	CellDensityThreshold float32
	EPSDensityThreshold  float32
	LocalSensingRadius   float32

	GridWidth    int
	GridHeight   int
	GridCellSize float32

	DeltaTime float32
	NumTicks  int

	Derived Derived
}

// Derived holds values computed once after loading, not read directly
// from the file.
type Derived struct {
	OmegaMax float32 // 4*pi rad/unit-time
}

// Default returns the parameter record populated from spec §6.1's
// defaults, with no file applied.
func Default() Params {
	p := Params{
		Width: 800, Height: 800,
		InitialCount: 1,

		Length: 5.0, Diameter: 1.0, EPSDiameter: 0.5,

		GrowthRate:     3.5,
		DivisionLength: 5.0,
		DivisionRate:   1.0,
		EPSProduction:  1.0,

		MotilityForce:  300.0,
		RepulsionForce: 100.0,
		EMEPSEPS:       200,
		EMEPSCell:      200,
		EMCellCell:     200,
		FrictionCell:   200,
		FrictionEPS:    200,

		NutrientConcentration: 3.0,
		NutrientConsumption:   1.0,
		DiffusionRate:         300.0,

		CellDensityThreshold: 5.0,
		EPSDensityThreshold:  0.3,
		LocalSensingRadius:   2.0,

		GridWidth: 50, GridHeight: 50, GridCellSize: 10.0,

		DeltaTime: 0.1,
		NumTicks:  1000,
	}
	p.computeDerived()
	return p
}

func (p *Params) computeDerived() {
	const pi = 3.14159265358979323846
	p.Derived.OmegaMax = 4 * pi
}

// ErrMissingFile wraps an unreadable config path (spec §7: ConfigMissing,
// fatal at start-up).
var ErrMissingFile = errors.New("config: file not found or unreadable")

// ParseError wraps a malformed numeric value (spec §7: ConfigParseError,
// fatal at start-up) with the offending key so main can report it.
type ParseError struct {
	Key   string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: malformed value for %q: %q: %v", e.Key, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads an INI file at path and overlays its recognised keys onto
// the defaults (spec §6.1); section headers and '#' comments are
// ignored by go-ini, missing keys keep their default with a logged
// warning, and a malformed number is a fatal ConfigParseError (spec §7) —
// not a silent fallback. An empty path returns the defaults untouched.
func Load(path string) (Params, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return Params{}, fmt.Errorf("%w: %s: %v", ErrMissingFile, path, err)
	}
	sec := cfg.Section("")
	// Section headers carry no meaning: fold every named section's keys
	// into the default section, later occurrences overriding earlier ones.
	for _, s := range cfg.Sections() {
		if s == sec {
			continue
		}
		for _, k := range s.Keys() {
			sec.Key(k.Name()).SetValue(k.Value())
		}
	}

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	record(keyInt(sec, "width", &p.Width))
	record(keyInt(sec, "height", &p.Height))
	record(keyInt(sec, "initial_count", &p.InitialCount))

	record(keyFloat(sec, "length", &p.Length))
	record(keyFloat(sec, "diameter", &p.Diameter))
	record(keyFloat(sec, "eps_diameter", &p.EPSDiameter))

	record(keyFloat(sec, "growth_rate", &p.GrowthRate))
	record(keyFloat(sec, "division_length", &p.DivisionLength))
	record(keyFloat(sec, "division_rate", &p.DivisionRate))
	record(keyFloat(sec, "eps_production_rate", &p.EPSProduction))

	record(keyFloat(sec, "motility_force", &p.MotilityForce))
	record(keyFloat(sec, "repulsion_force", &p.RepulsionForce))
	record(keyFloat(sec, "em_eps_eps", &p.EMEPSEPS))
	record(keyFloat(sec, "em_eps_cell", &p.EMEPSCell))
	record(keyFloat(sec, "em_cell_cell", &p.EMCellCell))
	record(keyFloat(sec, "friction_coefficient_cell", &p.FrictionCell))
	record(keyFloat(sec, "friction_coefficient_eps", &p.FrictionEPS))

	record(keyFloat(sec, "nutrient_concentration", &p.NutrientConcentration))
	record(keyFloat(sec, "nutrient_consumption_rate", &p.NutrientConsumption))
	record(keyFloat(sec, "diffusion_rate", &p.DiffusionRate))

	record(keyFloat(sec, "cell_density_threshold", &p.CellDensityThreshold))
	record(keyFloat(sec, "eps_density_threshold", &p.EPSDensityThreshold))
	record(keyFloat(sec, "local_sensing_radius", &p.LocalSensingRadius))

	record(keyInt(sec, "grid_width", &p.GridWidth))
	record(keyInt(sec, "grid_height", &p.GridHeight))
	record(keyFloat(sec, "grid_cell_size", &p.GridCellSize))

	record(keyFloat(sec, "delta_time", &p.DeltaTime))
	record(keyInt(sec, "num_ticks", &p.NumTicks))

	if firstErr != nil {
		return Params{}, firstErr
	}

	p.computeDerived()
	return p, nil
}

func keyInt(sec *ini.Section, name string, dst *int) error {
	k := sec.Key(name)
	if k.String() == "" {
		slog.Warn("config: key missing, using default", "key", name, "default", *dst)
		return nil
	}
	v, err := k.Int()
	if err != nil {
		return &ParseError{Key: name, Value: k.String(), Err: err}
	}
	*dst = v
	return nil
}

func keyFloat(sec *ini.Section, name string, dst *float32) error {
	k := sec.Key(name)
	if k.String() == "" {
		slog.Warn("config: key missing, using default", "key", name, "default", *dst)
		return nil
	}
	v, err := k.Float64()
	if err != nil {
		return &ParseError{Key: name, Value: k.String(), Err: err}
	}
	*dst = float32(v)
	return nil
}
