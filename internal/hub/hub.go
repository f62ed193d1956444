// Package hub applies explicit commands to the sensor registry. It is
// the only surface the console and the feed sources talk to.
package hub

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/models"
	"github.com/afroash/sensorhub/internal/registry"
	"github.com/afroash/sensorhub/internal/sensor"
)

var (
	// ErrSensorNotFound is returned when no sensor has the requested name
	ErrSensorNotFound = errors.New("sensor not found")
	// ErrKindMismatch is returned when a reading's kind differs from the sensor's variant
	ErrKindMismatch = errors.New("sensor kind mismatch")
	// ErrInvalidValue is returned when a reading value cannot be parsed
	ErrInvalidValue = sensor.ErrInvalidValue
	// ErrInvalidName is returned for an empty sensor name
	ErrInvalidName = errors.New("invalid sensor name")
	// ErrUnknownCommand is returned for a command type the hub does not handle
	ErrUnknownCommand = errors.New("unknown command")
)

// Hub owns the registry and executes commands against it
type Hub struct {
	registry *registry.Registry
	logger   zerolog.Logger
}

// New creates a hub owning a fresh registry
func New(logger zerolog.Logger, opts ...registry.Option) *Hub {
	return &Hub{
		registry: registry.New(logger.With().Str("component", "registry").Logger(), opts...),
		logger:   logger,
	}
}

// Execute applies one command
func (h *Hub) Execute(cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case CreateTemperature:
		return h.create(models.KindTemperature, c.Name)
	case CreatePressure:
		return h.create(models.KindPressure, c.Name)
	case RegisterReading:
		return h.register(c)
	case Ingest:
		return h.ingest(c.Frame)
	case ProcessAll:
		return Result{Type: CommandProcessAll, Reports: h.registry.ProcessAll()}, nil
	case PrintAll:
		return Result{Type: CommandPrintAll, Entries: h.registry.Snapshot()}, nil
	}
	return Result{}, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
}

// Len returns the number of registered sensors
func (h *Hub) Len() int {
	return h.registry.Len()
}

// Registry exposes the owned registry for read-only callers
func (h *Hub) Registry() *registry.Registry {
	return h.registry
}

// Close releases every sensor the hub owns
func (h *Hub) Close() registry.Teardown {
	td := h.registry.Close()
	h.logger.Info().
		Int("sensors", td.Sensors).
		Int("readings", td.Readings).
		Msg("memory released, system closed")
	return td
}

func (h *Hub) create(kind models.Kind, name string) (Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{}, fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	s := newSensor(kind, name, h.logger)
	h.registry.Insert(s)

	typ := CommandCreateTemperature
	if kind == models.KindPressure {
		typ = CommandCreatePressure
	}
	return Result{Type: typ, Sensor: s.Name(), Created: true}, nil
}

func (h *Hub) register(c RegisterReading) (Result, error) {
	s, ok := h.registry.FindByName(c.Sensor)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrSensorNotFound, c.Sensor)
	}
	if err := record(s, c.Kind, c.Value); err != nil {
		return Result{}, err
	}
	return Result{Type: CommandRegisterReading, Sensor: s.Name()}, nil
}

func (h *Hub) ingest(f models.Frame) (Result, error) {
	if !f.IsValid() {
		return Result{}, fmt.Errorf("%w: incomplete frame %q", ErrInvalidValue, f.String())
	}

	// parse before creating so a bad value never leaves an empty sensor behind
	if _, err := sensor.ParseValue(f.Kind, f.Value); err != nil {
		return Result{}, err
	}

	res := Result{Type: CommandIngest}
	s, ok := h.registry.FindByName(f.SensorID)
	if !ok {
		s = newSensor(f.Kind, f.SensorID, h.logger)
		h.registry.Insert(s)
		res.Created = true
	}
	if err := record(s, f.Kind, f.Value); err != nil {
		return Result{}, err
	}
	res.Sensor = s.Name()

	h.logger.Info().
		Str("sensor", s.Name()).
		Str("value", f.Value).
		Str("unit", f.Kind.Unit()).
		Msg("feed reading recorded")
	return res, nil
}

func newSensor(kind models.Kind, name string, logger zerolog.Logger) sensor.Sensor {
	if kind == models.KindPressure {
		return sensor.NewPressure(name, logger)
	}
	return sensor.NewTemperature(name, logger)
}

// record checks the sensor's variant against kind before the variant
// parses and appends the value
func record(s sensor.Sensor, kind models.Kind, raw string) error {
	if s.Kind() != kind {
		return fmt.Errorf("%w: %q is %s, reading is %s",
			ErrKindMismatch, s.Name(), s.Kind().Label(), kind.Label())
	}
	return s.RecordValue(raw)
}
