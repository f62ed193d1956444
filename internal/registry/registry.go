// Package registry holds the owning collection of sensors and fans
// operations out across it in insertion order.
package registry

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/sensor"
)

// Registry owns every sensor handed to Insert. A caller must not release
// or re-insert a sensor after handing it over.
type Registry struct {
	sensors []sensor.Sensor
	logger  zerolog.Logger
	onFree  func(s sensor.Sensor, readings int)
}

// Option configures a Registry
type Option func(*Registry)

// WithReleaseHook registers fn to observe every sensor released by Close
func WithReleaseHook(fn func(s sensor.Sensor, readings int)) Option {
	return func(r *Registry) {
		r.onFree = fn
	}
}

// Teardown summarises what Close released
type Teardown struct {
	Sensors  int
	Readings int
}

// Entry is a read-only view of one registered sensor
type Entry struct {
	Position int
	ID       uuid.UUID
	Name     string
	Kind     string
	Label    string
	Count    int
	History  string
}

// New creates an empty registry
func New(logger zerolog.Logger, opts ...Option) *Registry {
	r := &Registry{logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	logger.Debug().Msg("sensor registry initialized")
	return r
}

// Insert appends s and takes ownership of it
func (r *Registry) Insert(s sensor.Sensor) uuid.UUID {
	r.sensors = append(r.sensors, s)
	r.logger.Info().
		Str("sensor", s.Name()).
		Str("kind", s.Kind().String()).
		Int("size", len(r.sensors)).
		Msg("sensor inserted")
	return s.ID()
}

// FindByName returns the first sensor whose name matches exactly once
// name is cut to the length sensors keep. The returned sensor stays
// owned by the registry.
func (r *Registry) FindByName(name string) (sensor.Sensor, bool) {
	name = sensor.TruncateName(name)
	for _, s := range r.sensors {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Get returns the sensor with the given handle
func (r *Registry) Get(id uuid.UUID) (sensor.Sensor, bool) {
	for _, s := range r.sensors {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// ProcessAll runs each sensor's own processing in insertion order
func (r *Registry) ProcessAll() []sensor.Report {
	r.logger.Info().Int("sensors", len(r.sensors)).Msg("processing all sensors")

	reports := make([]sensor.Report, 0, len(r.sensors))
	for _, s := range r.sensors {
		reports = append(reports, s.Process())
	}
	return reports
}

// Snapshot returns a read-only view of every sensor in insertion order
func (r *Registry) Snapshot() []Entry {
	entries := make([]Entry, 0, len(r.sensors))
	for i, s := range r.sensors {
		entries = append(entries, Entry{
			Position: i + 1,
			ID:       s.ID(),
			Name:     s.Name(),
			Kind:     s.Kind().String(),
			Label:    s.Kind().Label(),
			Count:    s.Len(),
			History:  s.Readings(),
		})
	}
	return entries
}

// PrintAll writes each sensor's info to w in insertion order
func (r *Registry) PrintAll(w io.Writer) error {
	for i, s := range r.sensors {
		if _, err := fmt.Fprintf(w, "Sensor #%d: %s\n", i+1, s.Info()); err != nil {
			return fmt.Errorf("failed to print sensor %q: %w", s.Name(), err)
		}
	}
	return nil
}

// Len returns the number of owned sensors
func (r *Registry) Len() int {
	return len(r.sensors)
}

// IsEmpty reports whether the registry owns no sensors
func (r *Registry) IsEmpty() bool {
	return len(r.sensors) == 0
}

// Close releases every sensor, and with it every reading, in insertion
// order. The registry is empty afterwards; a second Close releases nothing.
func (r *Registry) Close() Teardown {
	var td Teardown

	sensors := r.sensors
	r.sensors = nil

	for _, s := range sensors {
		n := s.Release()
		td.Sensors++
		td.Readings += n
		r.logger.Debug().Str("sensor", s.Name()).Int("readings", n).Msg("sensor released")
		if r.onFree != nil {
			r.onFree(s, n)
		}
	}

	r.logger.Info().
		Int("sensors", td.Sensors).
		Int("readings", td.Readings).
		Msg("registry released")
	return td
}
