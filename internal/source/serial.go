package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

// MaxLineLen caps a serial line; longer input is split
const MaxLineLen = 99

// SerialConfig holds the port settings for an Arduino link
type SerialConfig struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

// SerialSource reads newline-framed text from a serial port
type SerialSource struct {
	port    io.ReadCloser
	name    string
	logger  zerolog.Logger
	buf     []byte
	pending []byte
}

// OpenSerial opens cfg.Port at 8N1 and wraps it as a line source
func OpenSerial(cfg SerialConfig, logger zerolog.Logger) (*SerialSource, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", cfg.Port, err)
	}

	logger.Info().
		Str("port", cfg.Port).
		Int("baud_rate", cfg.BaudRate).
		Dur("read_timeout", cfg.ReadTimeout).
		Msg("serial port connected")

	return NewSerialSource(port, cfg.Port, logger), nil
}

// NewSerialSource wraps an already open port
func NewSerialSource(port io.ReadCloser, name string, logger zerolog.Logger) *SerialSource {
	return &SerialSource{
		port:   port,
		name:   name,
		logger: logger,
		buf:    make([]byte, 64),
	}
}

// ListPorts returns the serial ports present on this machine
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

// NextLine returns the next '\n'-terminated line with '\r' removed.
// A read that times out with no complete line means no more data.
func (s *SerialSource) NextLine() (string, bool) {
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 && i <= MaxLineLen {
			return s.take(i, i+1), true
		}
		if len(s.pending) >= MaxLineLen {
			return s.take(MaxLineLen, MaxLineLen), true
		}

		n, err := s.port.Read(s.buf)
		for _, c := range s.buf[:n] {
			if c != '\r' {
				s.pending = append(s.pending, c)
			}
		}
		if n > 0 {
			continue
		}

		if err != nil && !errors.Is(err, io.EOF) {
			s.logger.Error().Err(err).Str("port", s.name).Msg("serial read failed")
		}
		// the port closed mid-line: hand over what arrived
		if err != nil && len(s.pending) > 0 {
			return s.take(len(s.pending), len(s.pending)), true
		}
		return "", false
	}
}

// take returns pending[:end] and drops pending[:skip]
func (s *SerialSource) take(end, skip int) string {
	line := string(s.pending[:end])
	s.pending = s.pending[skip:]
	return line
}

// Close closes the underlying port
func (s *SerialSource) Close() error {
	s.pending = nil
	if err := s.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", s.name, err)
	}
	s.logger.Info().Str("port", s.name).Msg("serial connection closed")
	return nil
}
