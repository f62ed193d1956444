package hub

import (
	"github.com/afroash/sensorhub/internal/models"
	"github.com/afroash/sensorhub/internal/registry"
	"github.com/afroash/sensorhub/internal/sensor"
)

// CommandType identifies a request the hub understands
type CommandType string

const (
	CommandCreateTemperature CommandType = "create_temperature"
	CommandCreatePressure    CommandType = "create_pressure"
	CommandRegisterReading   CommandType = "register_reading"
	CommandIngest            CommandType = "ingest"
	CommandProcessAll        CommandType = "process_all"
	CommandPrintAll          CommandType = "print_all"
)

// Command is one request against the registry
type Command interface {
	Type() CommandType
}

// CreateTemperature adds a new temperature sensor
type CreateTemperature struct {
	Name string
}

// CreatePressure adds a new pressure sensor
type CreatePressure struct {
	Name string
}

// RegisterReading records a reading on an existing sensor. Value is
// the text the user typed; it is parsed according to Kind.
type RegisterReading struct {
	Sensor string
	Kind   models.Kind
	Value  string
}

// Ingest records a frame from an external feed, creating the sensor
// when its id is unknown
type Ingest struct {
	Frame models.Frame
}

// ProcessAll runs every sensor's processing
type ProcessAll struct{}

// PrintAll asks for a view of every sensor
type PrintAll struct{}

func (CreateTemperature) Type() CommandType { return CommandCreateTemperature }
func (CreatePressure) Type() CommandType    { return CommandCreatePressure }
func (RegisterReading) Type() CommandType   { return CommandRegisterReading }
func (Ingest) Type() CommandType            { return CommandIngest }
func (ProcessAll) Type() CommandType        { return CommandProcessAll }
func (PrintAll) Type() CommandType          { return CommandPrintAll }

// Result carries whatever a command produced
type Result struct {
	Type CommandType

	// Sensor is the name of the sensor created or written to
	Sensor string
	// Created is set when the command inserted a new sensor
	Created bool

	Reports []sensor.Report
	Entries []registry.Entry
}
