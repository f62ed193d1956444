package registry

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/afroash/sensorhub/internal/sensor"
)

// failingWriter rejects every write
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

// seed builds the demo registry: T-001 [45.3 42.1], P-105 [80 85]
func seed(t *testing.T, opts ...Option) *Registry {
	t.Helper()

	r := New(zerolog.Nop(), opts...)

	temp := sensor.NewTemperature("T-001", zerolog.Nop())
	temp.Record(45.3)
	temp.Record(42.1)
	r.Insert(temp)

	pres := sensor.NewPressure("P-105", zerolog.Nop())
	pres.Record(80)
	pres.Record(85)
	r.Insert(pres)

	return r
}

func TestNew(t *testing.T) {
	r := New(zerolog.Nop())

	if r == nil {
		t.Fatal("New returned nil")
	}
	if !r.IsEmpty() {
		t.Error("new registry should be empty")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegistry_InsertAndFind(t *testing.T) {
	r := New(zerolog.Nop())
	a := sensor.NewTemperature("T-001", zerolog.Nop())
	b := sensor.NewPressure("P-105", zerolog.Nop())

	idA := r.Insert(a)
	r.Insert(b)

	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
	if idA != a.ID() {
		t.Errorf("Insert returned %v, want %v", idA, a.ID())
	}

	got, ok := r.FindByName("P-105")
	if !ok {
		t.Fatal("FindByName(P-105) not found")
	}
	if got != sensor.Sensor(b) {
		t.Error("FindByName returned a different sensor")
	}

	if _, ok := r.FindByName("X-999"); ok {
		t.Error("FindByName should miss for a name never inserted")
	}
	if _, ok := r.FindByName("t-001"); ok {
		t.Error("FindByName must be case sensitive")
	}
}

func TestRegistry_FindByNameReturnsFirstDuplicate(t *testing.T) {
	r := New(zerolog.Nop())
	first := sensor.NewTemperature("dup", zerolog.Nop())
	second := sensor.NewPressure("dup", zerolog.Nop())
	r.Insert(first)
	r.Insert(second)

	got, ok := r.FindByName("dup")
	if !ok {
		t.Fatal("FindByName(dup) not found")
	}
	if got.ID() != first.ID() {
		t.Error("FindByName should return the first inserted match")
	}
	if r.Len() != 2 {
		t.Errorf("duplicates should both be kept, Len = %d", r.Len())
	}
}

func TestRegistry_FindByNameLongName(t *testing.T) {
	r := New(zerolog.Nop())
	long := strings.Repeat("n", sensor.MaxNameLen+11)
	s := sensor.NewPressure(long, zerolog.Nop())
	r.Insert(s)

	for _, key := range []string{long, s.Name()} {
		got, ok := r.FindByName(key)
		if !ok || got.ID() != s.ID() {
			t.Errorf("FindByName(%d runes) = %v, %v; want the inserted sensor", len(key), got, ok)
		}
	}
	if _, ok := r.FindByName(long[:sensor.MaxNameLen-1]); ok {
		t.Error("a shorter prefix should not match")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := seed(t)
	temp, _ := r.FindByName("T-001")

	got, ok := r.Get(temp.ID())
	if !ok || got.Name() != "T-001" {
		t.Errorf("Get(%v) = %v, %v", temp.ID(), got, ok)
	}
	if _, ok := r.Get(uuid.New()); ok {
		t.Error("Get should miss for an unknown handle")
	}
}

func TestRegistry_ProcessAll(t *testing.T) {
	r := seed(t)

	reports := r.ProcessAll()

	if len(reports) != 2 {
		t.Fatalf("len(reports) = %d, want 2", len(reports))
	}

	temp := reports[0]
	if temp.Name != "T-001" || temp.Outcome != sensor.OutcomeAveraged {
		t.Errorf("first report = %+v", temp)
	}
	if temp.Removed != float64(float32(42.1)) {
		t.Errorf("temperature removed %v, want 42.1", temp.Removed)
	}
	if temp.Mean != float64(float32(45.3)) {
		t.Errorf("temperature mean %v, want 45.3", temp.Mean)
	}

	pres := reports[1]
	if pres.Name != "P-105" || pres.Mean != 82 || pres.HasRemoved {
		t.Errorf("second report = %+v", pres)
	}

	s, _ := r.FindByName("T-001")
	if s.Len() != 1 {
		t.Errorf("T-001 Len = %d, want 1", s.Len())
	}
	s, _ = r.FindByName("P-105")
	if s.Len() != 2 {
		t.Errorf("P-105 Len = %d, want 2", s.Len())
	}
}

func TestRegistry_ProcessAllEmptySensor(t *testing.T) {
	r := New(zerolog.Nop())
	r.Insert(sensor.NewTemperature("T-empty", zerolog.Nop()))

	reports := r.ProcessAll()

	if len(reports) != 1 || reports[0].Outcome != sensor.OutcomeNoReadings {
		t.Errorf("reports = %+v, want one no_readings report", reports)
	}
}

func TestRegistry_Snapshot(t *testing.T) {
	r := seed(t)

	entries := r.Snapshot()

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Position != 1 || entries[0].Name != "T-001" || entries[0].Kind != "T" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[0].History != "[ 45.3 42.1 ]" {
		t.Errorf("entries[0].History = %q", entries[0].History)
	}
	if entries[1].Label != "Pressure" || entries[1].Count != 2 {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestRegistry_PrintAll(t *testing.T) {
	r := seed(t)
	var buf bytes.Buffer

	if err := r.PrintAll(&buf); err != nil {
		t.Fatalf("PrintAll failed: %v", err)
	}

	out := buf.String()
	first := strings.Index(out, "T-001")
	second := strings.Index(out, "P-105")
	if first < 0 || second < 0 || first > second {
		t.Errorf("PrintAll output not in insertion order:\n%s", out)
	}
	if !strings.Contains(out, "Sensor #2") {
		t.Errorf("PrintAll output missing position:\n%s", out)
	}

	if err := r.PrintAll(failingWriter{}); err == nil {
		t.Error("PrintAll should surface writer errors")
	}
}

func TestRegistry_CloseReleasesEverything(t *testing.T) {
	const sensors, readings = 4, 6

	var released []string
	freed := 0
	r := New(zerolog.Nop(), WithReleaseHook(func(s sensor.Sensor, n int) {
		released = append(released, s.Name())
		freed += n
	}))

	names := []string{"T-1", "P-1", "T-2", "P-2"}
	for i := 0; i < sensors; i++ {
		if i%2 == 0 {
			s := sensor.NewTemperature(names[i], zerolog.Nop())
			for j := 0; j < readings; j++ {
				s.Record(float32(j))
			}
			r.Insert(s)
		} else {
			s := sensor.NewPressure(names[i], zerolog.Nop())
			for j := 0; j < readings; j++ {
				s.Record(j)
			}
			r.Insert(s)
		}
	}

	td := r.Close()

	if td.Sensors != sensors {
		t.Errorf("Teardown.Sensors = %d, want %d", td.Sensors, sensors)
	}
	if td.Readings != sensors*readings || freed != sensors*readings {
		t.Errorf("released readings = %d (hook %d), want %d", td.Readings, freed, sensors*readings)
	}
	for i, name := range names {
		if released[i] != name {
			t.Errorf("release order[%d] = %s, want %s", i, released[i], name)
		}
	}
	if !r.IsEmpty() {
		t.Error("registry should be empty after Close")
	}

	// no double release
	again := r.Close()
	if again.Sensors != 0 || again.Readings != 0 {
		t.Errorf("second Close released %+v", again)
	}
	if len(released) != sensors {
		t.Errorf("hook called %d times, want %d", len(released), sensors)
	}
}
