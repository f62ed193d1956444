package sensor

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/models"
	"github.com/afroash/sensorhub/internal/sequence"
)

// Pressure keeps integer readings. Processing reports the integer mean
// without removing anything.
type Pressure struct {
	base
	history sequence.Sequence[int]
}

var _ Sensor = (*Pressure)(nil)

// NewPressure creates an empty pressure sensor
func NewPressure(name string, logger zerolog.Logger) *Pressure {
	p := &Pressure{base: newBase(name, models.KindPressure, logger)}
	p.logger.Debug().Str("id", p.id.String()).Msg("pressure sensor created")
	return p
}

func (p *Pressure) Kind() models.Kind { return models.KindPressure }

func (p *Pressure) Len() int { return p.history.Len() }

// Record appends a reading to the history
func (p *Pressure) Record(v int) {
	p.history.Append(v)
	p.logger.Debug().Int("value", v).Int("count", p.history.Len()).Msg("reading recorded")
}

func (p *Pressure) RecordValue(raw string) error {
	v, err := ParseValue(models.KindPressure, raw)
	if err != nil {
		return err
	}
	p.Record(int(v))
	return nil
}

// History returns a copy of the current readings
func (p *Pressure) History() *sequence.Sequence[int] {
	return p.history.Clone()
}

func (p *Pressure) Process() Report {
	r := Report{Name: p.name, Kind: models.KindPressure}

	if p.history.IsEmpty() {
		r.Outcome = OutcomeNoReadings
		p.logger.Info().Msg("no readings to process")
		return r
	}

	mean := p.history.Mean()
	r.Outcome = OutcomeAveraged
	r.Mean = float64(mean)
	r.Remaining = p.history.Len()
	p.logger.Info().Int("mean", mean).Int("total", r.Remaining).Msg("readings averaged")
	return r
}

func (p *Pressure) Readings() string { return p.history.String() }

func (p *Pressure) Info() string {
	return fmt.Sprintf("[%s] (Pressure - INT)\nReadings (%d): %s",
		p.name, p.history.Len(), p.history.String())
}

func (p *Pressure) Release() int {
	n := p.history.Release()
	p.logger.Debug().Int("released", n).Msg("history released")
	return n
}
