package models

import (
	"fmt"
	"time"
)

// Frame is one decoded reading from an external feed (serial port,
// simulation or GPIO probe). Value is kept as text; the hub parses it
// according to Kind.
type Frame struct {
	Kind      Kind      `json:"kind"`
	SensorID  string    `json:"sensor_id"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFrame creates a new Frame with the current timestamp
func NewFrame(kind Kind, sensorID, value string) *Frame {
	return &Frame{
		Kind:      kind,
		SensorID:  sensorID,
		Value:     value,
		Timestamp: time.Now(),
	}
}

// IsValid checks the frame carries everything the hub needs
func (f *Frame) IsValid() bool {
	if f.SensorID == "" || f.Value == "" {
		return false
	}
	return f.Kind == KindTemperature || f.Kind == KindPressure
}

// get the frame as a string
func (f *Frame) String() string {
	return fmt.Sprintf("%s,%s,%s", f.Kind, f.SensorID, f.Value)
}

// Copy returns a copy of the Frame
func (f *Frame) Copy() *Frame {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
