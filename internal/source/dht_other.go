//go:build !linux

package source

import "fmt"

// DHT11Probe is only available on linux, where the GPIO character device exists
type DHT11Probe struct{}

// NewDHT11Probe always fails off linux
func NewDHT11Probe(pin int) (*DHT11Probe, error) {
	return nil, fmt.Errorf("%w: DHT11 on GPIO %d", ErrProbeUnsupported, pin)
}

func (d *DHT11Probe) Read() (float64, float64, error) {
	return 0, 0, ErrProbeUnsupported
}

func (d *DHT11Probe) Close() error {
	return nil
}
