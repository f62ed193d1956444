package source

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/models"
)

// ErrProbeUnsupported is returned where no GPIO probe can be opened
var ErrProbeUnsupported = errors.New("GPIO probe not supported on this platform")

// Probe defines the interface for a temperature/humidity probe
type Probe interface {
	// Read performs a single reading from the probe
	// Returns temperature (°C), humidity (%), and any error
	Read() (temperature float64, humidity float64, err error)

	// Close cleans up GPIO resources
	Close() error
}

var _ Probe = (*DHT11Probe)(nil)

// ProbeReader turns probe samples into temperature frames for one sensor
type ProbeReader struct {
	probe    Probe
	sensorID string
	interval time.Duration
	logger   zerolog.Logger
}

// NewProbeReader creates a new probe reader
func NewProbeReader(probe Probe, sensorID string, interval time.Duration, logger zerolog.Logger) *ProbeReader {
	return &ProbeReader{
		probe:    probe,
		sensorID: sensorID,
		interval: interval,
		logger:   logger,
	}
}

// ReadOnce performs a single reading. Humidity is logged but not kept:
// the registry only models temperature and pressure.
func (r *ProbeReader) ReadOnce() (*models.Frame, error) {
	temperature, humidity, err := r.probe.Read()
	if err != nil {
		return nil, err
	}
	frame := models.NewFrame(models.KindTemperature, r.sensorID,
		strconv.FormatFloat(temperature, 'f', -1, 32))
	r.logger.Debug().
		Float64("temperature", temperature).
		Float64("humidity", humidity).
		Msgf("read from probe: %s", frame.String())
	return frame, nil
}

// Collect takes n samples, one per interval, and stops early when ctx
// is cancelled. Failed reads are logged and skipped.
func (r *ProbeReader) Collect(ctx context.Context, n int) ([]*models.Frame, error) {
	frames := make([]*models.Frame, 0, n)
	if n <= 0 {
		return frames, nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for attempt := 0; attempt < n; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return frames, ctx.Err()
			case <-ticker.C:
			}
		}
		frame, err := r.ReadOnce()
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to read from probe")
			continue
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// Close stops the reader and cleans up resources
func (r *ProbeReader) Close() error {
	return r.probe.Close()
}
