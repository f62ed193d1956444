package source

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/hub"
	"github.com/afroash/sensorhub/internal/models"
)

// DefaultMaxReadings is how many readings one capture session accepts
const DefaultMaxReadings = 10

// Executor applies hub commands
type Executor interface {
	Execute(cmd hub.Command) (hub.Result, error)
}

// Summary counts what a capture session did
type Summary struct {
	Accepted int
	Created  int
	Dropped  int
	Rejected int
}

// Session pumps decoded lines from a source into the hub
type Session struct {
	exec        Executor
	maxReadings int
	logger      zerolog.Logger
}

// NewSession creates a capture session; maxReadings <= 0 means DefaultMaxReadings
func NewSession(exec Executor, maxReadings int, logger zerolog.Logger) *Session {
	if maxReadings <= 0 {
		maxReadings = DefaultMaxReadings
	}
	return &Session{
		exec:        exec,
		maxReadings: maxReadings,
		logger:      logger,
	}
}

// Run reads src until it runs dry, maxReadings are accepted, or ctx is
// done. Undecodable lines are dropped; frames the hub refuses are
// counted as rejected.
func (s *Session) Run(ctx context.Context, src LineSource) (Summary, error) {
	var sum Summary

	for sum.Accepted < s.maxReadings {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		line, ok := src.NextLine()
		if !ok {
			break
		}

		frame, ok := DecodeLine(line)
		if !ok {
			sum.Dropped++
			s.logger.Debug().Str("line", line).Msg("dropped malformed line")
			continue
		}

		s.Ingest(frame, &sum)
	}

	s.logger.Info().
		Int("accepted", sum.Accepted).
		Int("created", sum.Created).
		Int("dropped", sum.Dropped).
		Int("rejected", sum.Rejected).
		Msg("capture session finished")
	return sum, nil
}

// Ingest hands one frame to the hub and updates sum
func (s *Session) Ingest(frame models.Frame, sum *Summary) (hub.Result, error) {
	res, err := s.exec.Execute(hub.Ingest{Frame: frame})
	if err != nil {
		sum.Rejected++
		s.logger.Warn().Err(err).Str("frame", frame.String()).Msg("frame rejected")
		return res, err
	}
	sum.Accepted++
	if res.Created {
		sum.Created++
	}
	return res, nil
}
