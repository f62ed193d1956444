package models

import (
	"fmt"
	"strings"
)

// Kind tags a sensor variant
type Kind string

const (
	KindTemperature Kind = "T"
	KindPressure    Kind = "P"
)

// ParseKind accepts the one-letter tags used by the menu and the serial
// feed, in either case. Only the first character is inspected.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty sensor kind")
	}
	switch s[0] {
	case 'T', 't':
		return KindTemperature, nil
	case 'P', 'p':
		return KindPressure, nil
	}
	return "", fmt.Errorf("unknown sensor kind %q", s)
}

// Label returns the human-readable variant name
func (k Kind) Label() string {
	switch k {
	case KindTemperature:
		return "Temperature"
	case KindPressure:
		return "Pressure"
	default:
		return "Unknown"
	}
}

// Unit returns the display unit of readings of this kind
func (k Kind) Unit() string {
	switch k {
	case KindTemperature:
		return "°C"
	case KindPressure:
		return "Pa"
	default:
		return ""
	}
}

func (k Kind) String() string {
	return string(k)
}
