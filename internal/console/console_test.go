package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/config"
	"github.com/afroash/sensorhub/internal/hub"
	"github.com/afroash/sensorhub/internal/registry"
	"github.com/afroash/sensorhub/internal/sensor"
	"github.com/afroash/sensorhub/internal/source"
)

type fakeProbe struct {
	temperature float64
	closed      bool
}

func (p *fakeProbe) Read() (float64, float64, error) {
	return p.temperature, 40.0, nil
}

func (p *fakeProbe) Close() error {
	p.closed = true
	return nil
}

func failingSerial(source.SerialConfig, zerolog.Logger) (source.LineSource, error) {
	return nil, errors.New("no such device")
}

func testConfig() *config.Config {
	cfg := &config.Config{Simulation: config.SimulationConfig{Enabled: true}}
	cfg.ApplyDefaults()
	return cfg
}

func run(t *testing.T, h *hub.Hub, cfg *config.Config, input string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithSerialOpener(failingSerial)}, opts...)
	c := New(h, cfg, strings.NewReader(input), &out, zerolog.Nop(), opts...)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n%s", w, out)
		}
	}
}

func TestConsole_CreateAndShow(t *testing.T) {
	h := hub.New(zerolog.Nop())
	out := run(t, h, testConfig(), "1 T-001 2 P-105 6 7")

	assertContains(t, out,
		"Sensor T-001 created.",
		"Sensor P-105 created.",
		"Sensor #1  T-001  (Temperature - T)",
		"Sensor #2  P-105  (Pressure - P)",
		"Readings (0): [ ]",
		"Exiting...",
		"Memory released: 2 sensors, 0 readings.",
	)
}

func TestConsole_ShowEmpty(t *testing.T) {
	out := run(t, hub.New(zerolog.Nop()), testConfig(), "6 5 7")
	assertContains(t, out, "No sensors registered.", "No sensors to process.")
}

func TestConsole_ManualReadingAndProcess(t *testing.T) {
	h := hub.New(zerolog.Nop())
	input := "1 T-001 3 T-001 T 45.3 3 T-001 t 42.1 2 P-105 3 P-105 P 80 3 P-105 P 85 5 7"
	out := run(t, h, testConfig(), input)

	if got := strings.Count(out, "Reading registered."); got != 4 {
		t.Errorf("registered %d readings, want 4\n%s", got, out)
	}
	assertContains(t, out,
		"T-001: lowest reading (42.1) removed, mean of 1 remaining: 45.3",
		"P-105: mean of 2 readings: 82",
		"Memory released: 2 sensors, 3 readings.",
	)
}

func TestConsole_ManualReadingErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown sensor", "3 X-9 7", "Error: sensor not found."},
		{"kind mismatch", "2 P-105 3 P-105 T 25 7", "sensor P-105 does not take temperature readings"},
		{"bad kind", "1 T-001 3 T-001 H 7", "unknown sensor kind"},
		{"bad value", "1 T-001 3 T-001 T warm 7", "invalid reading value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, hub.New(zerolog.Nop()), testConfig(), tt.input)
			assertContains(t, out, tt.want, "Exiting...")
			if strings.Contains(out, "Reading registered.") {
				t.Errorf("no reading should be registered\n%s", out)
			}
		})
	}
}

func TestConsole_InvalidOption(t *testing.T) {
	out := run(t, hub.New(zerolog.Nop()), testConfig(), "9 abc 8 7")

	if got := strings.Count(out, "Error: invalid option."); got != 3 {
		t.Errorf("got %d invalid option messages, want 3\n%s", got, out)
	}
	if strings.Contains(out, "8. Sample the DHT11 probe") {
		t.Error("DHT option should be hidden when the probe is disabled")
	}
}

func TestConsole_EOFExits(t *testing.T) {
	h := hub.New(zerolog.Nop())
	out := run(t, h, testConfig(), "1 T-001")

	assertContains(t, out, "Memory released: 1 sensors, 0 readings.")
	if strings.Contains(out, "Exiting...") {
		t.Error("EOF should not print the exit message")
	}
	if h.Len() != 0 {
		t.Errorf("registry still holds %d sensors after EOF", h.Len())
	}
}

func TestConsole_SerialFallsBackToSimulation(t *testing.T) {
	out := run(t, hub.New(zerolog.Nop()), testConfig(), "4 . 5 7")

	assertContains(t, out,
		"running in simulation mode",
		"Total readings captured: 4 (new sensors: 2, dropped: 0, rejected: 0)",
		"T-001: lowest reading (42.1) removed, mean of 1 remaining: 45.3",
		"P-105: mean of 2 readings: 82",
	)
}

func TestConsole_SerialWithoutSimulation(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.Enabled = false
	h := hub.New(zerolog.Nop())

	out := run(t, h, cfg, "4 . 7")

	assertContains(t, out, "Error: could not open "+cfg.Serial.Port+".")
	if strings.Contains(out, "Total readings captured") {
		t.Errorf("no capture should run\n%s", out)
	}
}

func TestConsole_SerialPortOverride(t *testing.T) {
	var opened source.SerialConfig
	opener := func(cfg source.SerialConfig, _ zerolog.Logger) (source.LineSource, error) {
		opened = cfg
		return source.NewSimulatedSource([]string{"T,T-002,21.5", "garbage", "P,T-002,9"}), nil
	}

	cfg := testConfig()
	out := run(t, hub.New(zerolog.Nop()), cfg, "4 /dev/ttyUSB9 7", WithSerialOpener(opener))

	if opened.Port != "/dev/ttyUSB9" {
		t.Errorf("opened port %q, want /dev/ttyUSB9", opened.Port)
	}
	if opened.BaudRate != cfg.Serial.BaudRate {
		t.Errorf("opened baud %d, want %d", opened.BaudRate, cfg.Serial.BaudRate)
	}
	assertContains(t, out, "Total readings captured: 1 (new sensors: 1, dropped: 1, rejected: 1)")
}

func TestConsole_SampleProbe(t *testing.T) {
	cfg := testConfig()
	cfg.DHT.Enabled = true
	cfg.DHT.GPIOPin = 4
	cfg.DHT.Samples = 2
	cfg.DHT.Interval = time.Millisecond

	probe := &fakeProbe{temperature: 23.5}
	var pin int
	opener := func(p int) (source.Probe, error) {
		pin = p
		return probe, nil
	}

	var released []string
	h := hub.New(zerolog.Nop(), registry.WithReleaseHook(func(s sensor.Sensor, readings int) {
		released = append(released, s.Name())
	}))
	out := run(t, h, cfg, "8 6 7", WithProbeOpener(opener))

	if pin != 4 {
		t.Errorf("opened pin %d, want 4", pin)
	}
	if !probe.closed {
		t.Error("probe should be closed after sampling")
	}
	assertContains(t, out,
		"8. Sample the DHT11 probe",
		"Probe readings recorded: 2 of 2",
		"DHT-01  (Temperature - T)",
		"Readings (2): [ 23.5 23.5 ]",
		"Memory released: 1 sensors, 2 readings.",
	)
	if len(released) != 1 || released[0] != "DHT-01" {
		t.Errorf("released = %v, want [DHT-01]", released)
	}
}

func TestConsole_SampleProbeOpenError(t *testing.T) {
	cfg := testConfig()
	cfg.DHT.Enabled = true
	cfg.DHT.GPIOPin = 4

	opener := func(int) (source.Probe, error) {
		return nil, source.ErrProbeUnsupported
	}
	out := run(t, hub.New(zerolog.Nop()), cfg, "8 7", WithProbeOpener(opener))

	assertContains(t, out, "could not open DHT11 on GPIO 4")
}

func TestConsole_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	h := hub.New(zerolog.Nop())
	c := New(h, testConfig(), strings.NewReader("1 T-001 7"), &out, zerolog.Nop())

	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	assertContains(t, out.String(), "Memory released: 0 sensors, 0 readings.")
}

func TestConsole_CancelledAtPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	h := hub.New(zerolog.Nop())
	if _, err := h.Execute(hub.CreatePressure{Name: "P-105"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	c := New(h, testConfig(), pr, &out, zerolog.Nop())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	// choose "create temperature" and leave the name prompt waiting
	if _, err := io.WriteString(pw, "1\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	assertContains(t, out.String(),
		"Temperature sensor name",
		"Memory released: 1 sensors, 0 readings.",
	)
	if h.Len() != 0 {
		t.Errorf("Len = %d after cancellation, want 0", h.Len())
	}
}
