// Package sensor implements the sensor variants the registry owns.
// Every variant keeps its own reading history and decides how a
// processing sweep reduces it.
package sensor

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/models"
)

// MaxNameLen is the longest name a sensor keeps; longer names are cut.
const MaxNameLen = 49

// Sensor is the capability set shared by every variant
type Sensor interface {
	// ID is the handle assigned at construction
	ID() uuid.UUID

	Name() string
	Kind() models.Kind

	// Len returns the number of readings currently held
	Len() int

	// RecordValue parses raw for this variant and appends it.
	// Parse failures wrap ErrInvalidValue.
	RecordValue(raw string) error

	// Process runs the variant-specific reduction over the history
	Process() Report

	// Readings renders the current history as "[ a b c ]"
	Readings() string

	// Info renders the name, variant tag and current history
	Info() string

	// Release drops the history and returns how many readings it held.
	// Called by the owner exactly once at end of life.
	Release() int
}

// Outcome describes what a Process call did
type Outcome int

const (
	// OutcomeNoReadings means the history was empty and left untouched
	OutcomeNoReadings Outcome = iota
	// OutcomeAveraged means a mean was computed over the history
	OutcomeAveraged
	// OutcomeExhausted means the lowest reading was removed and nothing was left to average
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoReadings:
		return "no_readings"
	case OutcomeAveraged:
		return "averaged"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Report is the result of one Process call
type Report struct {
	Name    string
	Kind    models.Kind
	Outcome Outcome

	// Removed is set when the variant discarded a reading
	Removed    float64
	HasRemoved bool

	// Mean is meaningful only when Outcome is OutcomeAveraged
	Mean      float64
	Remaining int
}

func (r Report) String() string {
	switch r.Outcome {
	case OutcomeNoReadings:
		return fmt.Sprintf("%s: no readings to process", r.Name)
	case OutcomeExhausted:
		return fmt.Sprintf("%s: lowest reading (%s) removed, no readings left",
			r.Name, FormatValue(r.Kind, r.Removed))
	}
	if r.HasRemoved {
		return fmt.Sprintf("%s: lowest reading (%s) removed, mean of %d remaining: %s",
			r.Name, FormatValue(r.Kind, r.Removed), r.Remaining, FormatValue(r.Kind, r.Mean))
	}
	return fmt.Sprintf("%s: mean of %d readings: %s", r.Name, r.Remaining, FormatValue(r.Kind, r.Mean))
}

// FormatValue prints v at the precision the variant stores it with
func FormatValue(kind models.Kind, v float64) string {
	if kind == models.KindTemperature {
		return strconv.FormatFloat(v, 'f', -1, 32)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// base holds what every variant shares
type base struct {
	id     uuid.UUID
	name   string
	logger zerolog.Logger
}

func newBase(name string, kind models.Kind, logger zerolog.Logger) base {
	name = TruncateName(name)
	id := uuid.New()
	return base{
		id:   id,
		name: name,
		logger: logger.With().
			Str("sensor", name).
			Str("kind", kind.String()).
			Logger(),
	}
}

func (b *base) ID() uuid.UUID { return b.id }

func (b *base) Name() string { return b.name }
