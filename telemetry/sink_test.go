package telemetry

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/colonysim/colony"
	"github.com/pthm-cable/colonysim/components"
	"github.com/pthm-cable/colonysim/vec2"
)

func sampleFrame() []colony.ParticleFrame {
	return []colony.ParticleFrame{
		{ID: 1, Variant: components.VariantCell, Position: vec2.Vec2{X: 1, Y: 2}, Orientation: vec2.Vec2{X: 1, Y: 0}, Diameter: 1, Length: 5},
		{ID: 2, Variant: components.VariantEPS, Position: vec2.Vec2{X: 3, Y: 4}, Orientation: vec2.Vec2{X: 0, Y: 1}, Diameter: 0.5, Length: 0},
	}
}

func TestWriteTickWritesHeaderOnceAndSeparatorEachTick(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.WriteTick(0, sampleFrame()); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteTick(1, sampleFrame()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "simulation_output_part_001.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	if !strings.HasPrefix(lines[0], "agent_id") {
		t.Fatalf("expected header row first, got %q", lines[0])
	}
	headerCount := 0
	separatorCount := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "agent_id") {
			headerCount++
		}
		if l == separator {
			separatorCount++
		}
	}
	if headerCount != 1 {
		t.Errorf("expected exactly one header row across two ticks, got %d", headerCount)
	}
	if separatorCount != 2 {
		t.Errorf("expected one separator per tick (2 total), got %d", separatorCount)
	}
}

func TestWriteTickEPSRowHasZeroLength(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.WriteTick(0, sampleFrame()); err != nil {
		t.Fatal(err)
	}
	if err := s.file.Sync(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "simulation_output_part_001.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var epsLine string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "eps") {
			epsLine = line
			break
		}
	}
	if epsLine == "" {
		t.Fatal("expected an eps row in the output")
	}
	fields := strings.Split(epsLine, ",")
	if len(fields) != 9 {
		t.Fatalf("expected 9 CSV fields, got %d: %q", len(fields), epsLine)
	}
	if fields[6] != "0" {
		t.Errorf("expected eps length field to be 0, got %q", fields[6])
	}
}

func TestSeparatorIs40Hashes(t *testing.T) {
	if separator != strings.Repeat("#", 40) {
		t.Errorf("expected separator to be 40 '#' characters, got %q (%d chars)", separator, len(separator))
	}
}
