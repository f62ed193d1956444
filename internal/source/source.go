// Package source feeds readings into the hub from outside the process:
// an Arduino on a serial port, a simulated feed, or a GPIO probe.
package source

import (
	"strings"
	"time"

	"github.com/afroash/sensorhub/internal/models"
)

// LineSource yields the next line of text, or false when there is no more data
type LineSource interface {
	NextLine() (string, bool)
	Close() error
}

// DecodeLine parses a "KIND,ID,VALUE" line such as "T,T-001,25.5".
// Empty fields are skipped and extra fields ignored; anything that does
// not yield three fields with a known kind is dropped.
func DecodeLine(line string) (models.Frame, bool) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' })
	if len(fields) < 3 {
		return models.Frame{}, false
	}

	kind, err := models.ParseKind(fields[0])
	if err != nil {
		return models.Frame{}, false
	}
	id := strings.TrimSpace(fields[1])
	value := strings.TrimSpace(fields[2])
	if id == "" || value == "" {
		return models.Frame{}, false
	}

	return models.Frame{
		Kind:      kind,
		SensorID:  id,
		Value:     value,
		Timestamp: time.Now(),
	}, true
}

// DefaultSimulation is the demo feed replayed when no serial port is available
var DefaultSimulation = []string{
	"T,T-001,45.3",
	"T,T-001,42.1",
	"P,P-105,80",
	"P,P-105,85",
}

// SimulatedSource replays a fixed list of lines
type SimulatedSource struct {
	lines []string
	next  int
}

// NewSimulatedSource creates a source over lines; nil means DefaultSimulation
func NewSimulatedSource(lines []string) *SimulatedSource {
	if lines == nil {
		lines = DefaultSimulation
	}
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &SimulatedSource{lines: cp}
}

func (s *SimulatedSource) NextLine() (string, bool) {
	if s.next >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.next]
	s.next++
	return line, true
}

func (s *SimulatedSource) Close() error {
	s.next = len(s.lines)
	return nil
}
