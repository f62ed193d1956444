package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/afroash/sensorhub/internal/models"
	"github.com/afroash/sensorhub/internal/registry"
	"github.com/afroash/sensorhub/internal/sensor"
)

const (
	colorTitle  = lipgloss.Color("51")
	colorBorder = lipgloss.Color("62")
	colorTemp   = lipgloss.Color("214")
	colorPres   = lipgloss.Color("147")
	colorDim    = lipgloss.Color("240")
	colorWarn   = lipgloss.Color("220")
	colorErr    = lipgloss.Color("196")
)

// styles are bound to the renderer of the output writer so that colour
// is only emitted to terminals
type styles struct {
	title  lipgloss.Style
	panel  lipgloss.Style
	name   lipgloss.Style
	temp   lipgloss.Style
	pres   lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
	errMsg lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(colorTitle),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		name:   r.NewStyle().Bold(true),
		temp:   r.NewStyle().Foreground(colorTemp),
		pres:   r.NewStyle().Foreground(colorPres),
		dim:    r.NewStyle().Foreground(colorDim),
		warn:   r.NewStyle().Foreground(colorWarn),
		errMsg: r.NewStyle().Foreground(colorErr).Bold(true),
	}
}

func (s styles) kind(k string) lipgloss.Style {
	if k == string(models.KindPressure) {
		return s.pres
	}
	return s.temp
}

// renderEntries draws one panel per sensor, in registry order
func (s styles) renderEntries(entries []registry.Entry) string {
	if len(entries) == 0 {
		return s.dim.Render("No sensors registered.")
	}

	panels := make([]string, 0, len(entries)+1)
	panels = append(panels, s.title.Render("=== Current Sensor State ==="))
	for _, e := range entries {
		header := fmt.Sprintf("Sensor #%d  %s  %s",
			e.Position,
			s.name.Render(e.Name),
			s.kind(e.Kind).Render(fmt.Sprintf("(%s - %s)", e.Label, e.Kind)),
		)
		body := fmt.Sprintf("Readings (%d): %s", e.Count, e.History)
		panels = append(panels, s.panel.Render(lipgloss.JoinVertical(lipgloss.Left, header, body)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

// renderReports lists the outcome of a processing sweep
func (s styles) renderReports(reports []sensor.Report) string {
	if len(reports) == 0 {
		return s.dim.Render("No sensors to process.")
	}

	lines := make([]string, 0, len(reports)+1)
	lines = append(lines, s.title.Render("--- Processing all sensors ---"))
	for _, r := range reports {
		line := "-> " + r.String()
		if r.Outcome != sensor.OutcomeAveraged {
			line = s.warn.Render(line)
		} else {
			line = s.kind(string(r.Kind)).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
