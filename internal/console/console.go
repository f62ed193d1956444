// Package console is the interactive, line-oriented front end of the
// sensor hub. Input is read as whitespace-separated tokens so a whole
// session can be scripted on stdin.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/config"
	"github.com/afroash/sensorhub/internal/hub"
	"github.com/afroash/sensorhub/internal/models"
	"github.com/afroash/sensorhub/internal/source"
)

// SerialOpener opens the live feed for a capture session
type SerialOpener func(cfg source.SerialConfig, logger zerolog.Logger) (source.LineSource, error)

// ProbeOpener opens a GPIO probe on pin
type ProbeOpener func(pin int) (source.Probe, error)

// Option configures a Console
type Option func(*Console)

// WithSerialOpener replaces the function used to open the serial port
func WithSerialOpener(fn SerialOpener) Option {
	return func(c *Console) { c.openSerial = fn }
}

// WithProbeOpener replaces the function used to open the DHT probe
func WithProbeOpener(fn ProbeOpener) Option {
	return func(c *Console) { c.openProbe = fn }
}

// Console runs the menu loop against a hub
type Console struct {
	hub    *hub.Hub
	cfg    *config.Config
	in     *bufio.Scanner
	out    io.Writer
	style  styles
	logger zerolog.Logger

	openSerial SerialOpener
	openProbe  ProbeOpener

	tokens chan string
	done   chan struct{}
}

// New creates a console reading tokens from in and writing to out
func New(h *hub.Hub, cfg *config.Config, in io.Reader, out io.Writer, logger zerolog.Logger, opts ...Option) *Console {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)

	c := &Console{
		hub:    h,
		cfg:    cfg,
		in:     scanner,
		out:    out,
		style:  newStyles(out),
		logger: logger,
		openSerial: func(sc source.SerialConfig, l zerolog.Logger) (source.LineSource, error) {
			return source.OpenSerial(sc, l)
		},
		openProbe: func(pin int) (source.Probe, error) {
			return source.NewDHT11Probe(pin)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the menu until the user exits, input ends, or ctx is
// cancelled. Every path out of the loop releases the hub's sensors,
// including a cancellation while a prompt is waiting for input.
func (c *Console) Run(ctx context.Context) error {
	defer c.shutdown()
	c.startInput()
	defer close(c.done)

	c.println(c.style.title.Render("=== Arduino Sensor Hub ==="))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.menu()
		choice, ok := c.next(ctx)
		if !ok {
			return ctx.Err()
		}

		switch choice {
		case "1":
			c.createSensor(ctx, models.KindTemperature)
		case "2":
			c.createSensor(ctx, models.KindPressure)
		case "3":
			c.manualReading(ctx)
		case "4":
			c.captureSerial(ctx)
		case "5":
			c.processAll()
		case "6":
			c.showAll()
		case "7":
			c.println("Exiting...")
			return nil
		case "8":
			if c.cfg.DHT.Enabled {
				c.sampleProbe(ctx)
				continue
			}
			c.fail("invalid option")
		default:
			c.fail("invalid option")
		}
	}
}

func (c *Console) menu() {
	c.println("")
	c.println("--- Menu ---")
	c.println("1. Create temperature sensor")
	c.println("2. Create pressure sensor")
	c.println("3. Register reading manually")
	c.println("4. Capture readings from the serial port")
	c.println("5. Process all sensors")
	c.println("6. Show all sensors")
	c.println("7. Exit")
	if c.cfg.DHT.Enabled {
		c.println("8. Sample the DHT11 probe")
	}
	c.print("Option: ")
}

func (c *Console) createSensor(ctx context.Context, kind models.Kind) {
	c.printf("%s sensor name (e.g. %s-001): ", kind.Label(), kind)
	name, ok := c.next(ctx)
	if !ok {
		return
	}

	var cmd hub.Command = hub.CreateTemperature{Name: name}
	if kind == models.KindPressure {
		cmd = hub.CreatePressure{Name: name}
	}
	res, err := c.hub.Execute(cmd)
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.printf("Sensor %s created.\n", res.Sensor)
}

// manualReading checks the sensor exists before asking for the reading
func (c *Console) manualReading(ctx context.Context) {
	c.print("Sensor id: ")
	name, ok := c.next(ctx)
	if !ok {
		return
	}
	if _, found := c.hub.Registry().FindByName(name); !found {
		c.fail("sensor not found")
		return
	}

	c.print("Reading kind (T = Temperature, P = Pressure): ")
	token, ok := c.next(ctx)
	if !ok {
		return
	}
	kind, err := models.ParseKind(token)
	if err != nil {
		c.fail(err.Error())
		return
	}

	c.print("Value: ")
	value, ok := c.next(ctx)
	if !ok {
		return
	}

	_, err = c.hub.Execute(hub.RegisterReading{Sensor: name, Kind: kind, Value: value})
	switch {
	case errors.Is(err, hub.ErrKindMismatch):
		c.fail(fmt.Sprintf("sensor %s does not take %s readings", name, strings.ToLower(kind.Label())))
	case err != nil:
		c.fail(err.Error())
	default:
		c.println("Reading registered.")
	}
}

func (c *Console) captureSerial(ctx context.Context) {
	scfg := source.SerialConfig{
		Port:        c.cfg.Serial.Port,
		BaudRate:    c.cfg.Serial.BaudRate,
		ReadTimeout: c.cfg.Serial.ReadTimeout,
	}
	c.printf("Serial port (\".\" for %s): ", scfg.Port)
	port, ok := c.next(ctx)
	if !ok {
		return
	}
	if port != "." {
		scfg.Port = port
	}

	src, err := c.openSerial(scfg, c.logger.With().Str("component", "serial").Logger())
	if err != nil {
		c.logger.Warn().Err(err).Str("port", scfg.Port).Msg("could not open serial port")
		if !c.cfg.Simulation.Enabled {
			c.fail(fmt.Sprintf("could not open %s", scfg.Port))
			return
		}
		c.println(c.style.warn.Render("Could not open " + scfg.Port + ", running in simulation mode."))
		src = source.NewSimulatedSource(c.cfg.Simulation.Lines)
	}
	defer src.Close()

	session := source.NewSession(c.hub, c.cfg.Serial.MaxReadings,
		c.logger.With().Str("component", "session").Logger())
	sum, err := session.Run(ctx, src)
	if err != nil {
		c.fail(fmt.Sprintf("capture interrupted: %v", err))
	}
	c.printf("Total readings captured: %d (new sensors: %d, dropped: %d, rejected: %d)\n",
		sum.Accepted, sum.Created, sum.Dropped, sum.Rejected)
}

func (c *Console) sampleProbe(ctx context.Context) {
	probe, err := c.openProbe(c.cfg.DHT.GPIOPin)
	if err != nil {
		c.fail(fmt.Sprintf("could not open DHT11 on GPIO %d: %v", c.cfg.DHT.GPIOPin, err))
		return
	}

	reader := source.NewProbeReader(probe, c.cfg.DHT.SensorID, c.cfg.DHT.Interval,
		c.logger.With().Str("component", "dht").Logger())
	defer reader.Close()

	c.printf("Sampling %d readings every %s...\n", c.cfg.DHT.Samples, c.cfg.DHT.Interval)
	frames, err := reader.Collect(ctx, c.cfg.DHT.Samples)
	if err != nil {
		c.fail(fmt.Sprintf("sampling interrupted: %v", err))
	}

	session := source.NewSession(c.hub, c.cfg.DHT.Samples, c.logger)
	var sum source.Summary
	for _, f := range frames {
		session.Ingest(*f, &sum)
	}
	c.printf("Probe readings recorded: %d of %d\n", sum.Accepted, c.cfg.DHT.Samples)
}

func (c *Console) processAll() {
	res, err := c.hub.Execute(hub.ProcessAll{})
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.println(c.style.renderReports(res.Reports))
}

func (c *Console) showAll() {
	res, err := c.hub.Execute(hub.PrintAll{})
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.println(c.style.renderEntries(res.Entries))
}

func (c *Console) shutdown() {
	td := c.hub.Close()
	c.printf("Memory released: %d sensors, %d readings. System closed.\n", td.Sensors, td.Readings)
}

// startInput scans tokens on a separate goroutine so a prompt can be
// abandoned when ctx is cancelled
func (c *Console) startInput() {
	c.tokens = make(chan string)
	c.done = make(chan struct{})

	go func() {
		defer close(c.tokens)
		for c.in.Scan() {
			select {
			case c.tokens <- c.in.Text():
			case <-c.done:
				return
			}
		}
		if err := c.in.Err(); err != nil {
			c.logger.Error().Err(err).Msg("failed to read input")
		}
	}()
}

// next returns the following input token; false means input is
// exhausted or ctx is done
func (c *Console) next(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case tok, ok := <-c.tokens:
		return tok, ok
	}
}

func (c *Console) fail(msg string) {
	c.println(c.style.errMsg.Render("Error: " + msg + "."))
}

func (c *Console) print(s string) {
	fmt.Fprint(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
