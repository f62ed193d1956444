package sensor

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/models"
	"github.com/afroash/sensorhub/internal/sequence"
)

// Temperature keeps floating point readings. Processing discards the
// lowest reading and averages the rest.
type Temperature struct {
	base
	history sequence.Sequence[float32]
}

var _ Sensor = (*Temperature)(nil)

// NewTemperature creates an empty temperature sensor
func NewTemperature(name string, logger zerolog.Logger) *Temperature {
	t := &Temperature{base: newBase(name, models.KindTemperature, logger)}
	t.logger.Debug().Str("id", t.id.String()).Msg("temperature sensor created")
	return t
}

func (t *Temperature) Kind() models.Kind { return models.KindTemperature }

func (t *Temperature) Len() int { return t.history.Len() }

// Record appends a reading to the history
func (t *Temperature) Record(v float32) {
	t.history.Append(v)
	t.logger.Debug().Float32("value", v).Int("count", t.history.Len()).Msg("reading recorded")
}

func (t *Temperature) RecordValue(raw string) error {
	v, err := ParseValue(models.KindTemperature, raw)
	if err != nil {
		return err
	}
	t.Record(float32(v))
	return nil
}

// History returns a copy of the current readings
func (t *Temperature) History() *sequence.Sequence[float32] {
	return t.history.Clone()
}

func (t *Temperature) Process() Report {
	r := Report{Name: t.name, Kind: models.KindTemperature}

	low, ok := t.history.RemoveMinimumOK()
	if !ok {
		r.Outcome = OutcomeNoReadings
		t.logger.Info().Msg("no readings to process")
		return r
	}
	r.Removed = float64(low)
	r.HasRemoved = true
	t.logger.Info().Float32("removed", low).Msg("lowest reading removed")

	if t.history.IsEmpty() {
		r.Outcome = OutcomeExhausted
		t.logger.Info().Msg("no readings left after removing the lowest")
		return r
	}

	mean := t.history.Mean()
	r.Outcome = OutcomeAveraged
	r.Mean = float64(mean)
	r.Remaining = t.history.Len()
	t.logger.Info().Float32("mean", mean).Int("remaining", r.Remaining).Msg("remaining readings averaged")
	return r
}

func (t *Temperature) Readings() string { return t.history.String() }

func (t *Temperature) Info() string {
	return fmt.Sprintf("[%s] (Temperature - FLOAT)\nReadings (%d): %s",
		t.name, t.history.Len(), t.history.String())
}

func (t *Temperature) Release() int {
	n := t.history.Release()
	t.logger.Debug().Int("released", n).Msg("history released")
	return n
}
