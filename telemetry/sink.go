package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/colonysim/colony"
	"github.com/pthm-cable/colonysim/components"
)

// separator is written after every tick's rows (spec §6.2).
const separator = "########################################" // 40 '#'

// rotateAt is the cumulative line count (rows + separators) at which the
// sink rotates to a new part file. Rotation only happens right after a
// separator has been written, never mid-tick (spec §6.2).
const rotateAt = 100_000

// Sink writes one CSV row per particle per tick, grouped under a
// separator line, rotating to simulation_output_part_NNN.csv once the
// current file's line count reaches rotateAt. Grounded on the teacher's
// OutputManager (os.Create-per-file, gocsv header-tracked writes);
// rotation itself is new, since the teacher's telemetry.csv was never
// bounded in size.
type Sink struct {
	dir           string
	partIndex     int
	file          *os.File
	headerWritten bool
	lineCount     int
}

// NewSink creates dir if needed and opens the first part file.
func NewSink(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output directory: %w", err)
	}
	s := &Sink{dir: dir}
	if err := s.openPart(1); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) openPart(index int) error {
	path := filepath.Join(s.dir, fmt.Sprintf("simulation_output_part_%03d.csv", index))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("telemetry: creating %s: %w", path, err)
	}
	s.file = f
	s.partIndex = index
	s.headerWritten = false
	s.lineCount = 0
	return nil
}

// WriteTick writes one row per particle in frame, tagged with tick, then
// a separator line, rotating to a new part file afterward if the line
// count threshold has been crossed. Any write failure is an IOError
// (spec §7): fatal, and the caller must stop the tick loop.
func (s *Sink) WriteTick(tick int, frame []colony.ParticleFrame) error {
	rows := make([]Row, len(frame))
	for i, p := range frame {
		// EPS particles carry no length; Diameter already stores the full
		// disk diameter (2*radius), so no conversion is needed there.
		length := p.Length
		if p.Variant == components.VariantEPS {
			length = 0
		}
		rows[i] = Row{
			AgentID: p.ID, TickNum: tick, AgentType: agentType(p.Variant),
			PosX: p.Position.X, PosY: p.Position.Y,
			Diameter: p.Diameter, Length: length,
			OrientX: p.Orientation.X, OrientY: p.Orientation.Y,
		}
	}

	if len(rows) > 0 {
		var err error
		if !s.headerWritten {
			err = gocsv.Marshal(rows, s.file)
			s.headerWritten = true
		} else {
			err = gocsv.MarshalWithoutHeaders(rows, s.file)
		}
		if err != nil {
			return fmt.Errorf("telemetry: writing tick %d: %w", tick, err)
		}
		s.lineCount += len(rows)
	}

	if _, err := fmt.Fprintln(s.file, separator); err != nil {
		return fmt.Errorf("telemetry: writing separator for tick %d: %w", tick, err)
	}
	s.lineCount++

	if s.lineCount >= rotateAt {
		if err := s.file.Close(); err != nil {
			return fmt.Errorf("telemetry: closing %s: %w", s.file.Name(), err)
		}
		if err := s.openPart(s.partIndex + 1); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the current part file.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
