//go:build linux

package source

import (
	"fmt"

	"github.com/afroash/dht"
)

// DHT11Probe reads a DHT11 wired to a GPIO pin
type DHT11Probe struct {
	pin        int
	maxRetries int
	sensor     *dht.Sensor
}

// NewDHT11Probe opens the GPIO line for a DHT11 on pin
func NewDHT11Probe(pin int) (*DHT11Probe, error) {
	sensor, err := dht.NewDHT11(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to open DHT11 on GPIO %d: %w", pin, err)
	}
	return &DHT11Probe{
		pin:        pin,
		maxRetries: 3,
		sensor:     sensor,
	}, nil
}

// Read performs a reading from the DHT11 with retry logic
func (d *DHT11Probe) Read() (float64, float64, error) {
	reading, err := d.sensor.ReadRetry(d.maxRetries)
	if err != nil {
		return 0, 0, fmt.Errorf("after %d retries, failed to read from GPIO %d: %w", d.maxRetries, d.pin, err)
	}
	return reading.Temperature, reading.Humidity, nil
}

// Close releases the GPIO line
func (d *DHT11Probe) Close() error {
	return d.sensor.Close()
}
