package sensor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/afroash/sensorhub/internal/models"
)

// ErrInvalidValue is returned when reading text cannot be parsed for a kind
var ErrInvalidValue = errors.New("invalid reading value")

// ParseValue converts reading text for kind. Temperature readings are
// 32-bit floats. Pressure readings are int32; a decimal is truncated
// toward zero.
func ParseValue(kind models.Kind, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)

	if kind == models.KindPressure {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err == nil {
			return float64(n), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidValue, raw)
		}
	}

	bits := 64
	if kind == models.KindTemperature {
		bits = 32
	}
	v, err := strconv.ParseFloat(raw, bits)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	if kind == models.KindPressure {
		v = math.Trunc(v)
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidValue, raw)
		}
	}
	return v, nil
}

// TruncateName caps a name at MaxNameLen runes, the same way a sensor
// stores it
func TruncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxNameLen {
		return name
	}
	return string(runes[:MaxNameLen])
}
