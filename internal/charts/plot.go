package charts

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/i474232898/global-analytics-dashboard/internal/analytics"
)

// Style sizes the chart container relative to its parent.
type Style struct {
	Width      string `json:"width"`
	MarginLeft string `json:"margin-left"`
	Height     string `json:"height"`
	MarginTop  string `json:"margin-top"`
}

// Line is a trace's line styling.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Shape string  `json:"shape,omitempty"`
}

// Trace is one plot-ready series.
type Trace struct {
	X     []string `json:"x"`
	Y     []int64  `json:"y"`
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Mode  string   `json:"mode,omitempty"`
	Line  *Line    `json:"line,omitempty"`
	YAxis string   `json:"yaxis,omitempty"`
}

// AxisLayout is one axis entry of the plot layout.
type AxisLayout struct {
	NTicks     int       `json:"nticks,omitempty"`
	Anchor     string    `json:"anchor,omitempty"`
	Position   float64   `json:"position,omitempty"`
	Overlaying string    `json:"overlaying,omitempty"`
	Side       string    `json:"side,omitempty"`
	TickFont   *TickFont `json:"tickfont,omitempty"`
	ShowLine   bool      `json:"showline,omitempty"`
	Domain     []float64 `json:"domain,omitempty"`
}

// TickFont colors an axis' tick labels.
type TickFont struct {
	Color string `json:"color"`
}

// Layout is the plot layout. Axes are keyed by their layout name
// ("yaxis", "yaxis2", ...) when marshalled.
type Layout struct {
	Title string
	XAxis AxisLayout
	Axes  map[string]AxisLayout
}

func (l Layout) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"title":  l.Title,
		"xaxis":  l.XAxis,
		"legend": map[string]float64{"x": 0, "y": 100},
	}
	for k, v := range l.Axes {
		out[k] = v
	}
	return json.Marshal(out)
}

// Plot is the payload handed to the browser plotting library.
type Plot struct {
	ContainerID string  `json:"containerId"`
	Style       Style   `json:"style"`
	Layout      Layout  `json:"layout"`
	Traces      []Trace `json:"data"`
}

// SizeStyle centers a chart of the given size within its parent.
func SizeStyle(widthPercent, heightPercent float64) Style {
	return Style{
		Width:      formatUnit(widthPercent, "%"),
		MarginLeft: formatUnit((100-widthPercent)/2, "%"),
		Height:     formatUnit(heightPercent, "vh"),
		MarginTop:  formatUnit((35-heightPercent)/2, "vh"),
	}
}

func formatUnit(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if s == "-0" {
		s = "0"
	}
	return s + unit
}

// axisLayoutName maps "y" to "yaxis" and "y2" to "yaxis2".
func axisLayoutName(id string) string {
	return "yaxis" + strings.TrimPrefix(id, "y")
}

// BuildLayout turns the config's axes into the plot layout.
func BuildLayout(cfg Config) Layout {
	l := Layout{
		Title: cfg.Title,
		Axes:  make(map[string]AxisLayout, len(cfg.Axes)),
	}
	if len(cfg.Axes) > 1 {
		// leave room on the right for the overlaid axes
		l.XAxis.Domain = []float64{0, 0.95}
	}
	for _, a := range cfg.Axes {
		al := AxisLayout{
			NTicks:     a.NTicks,
			Anchor:     a.Anchor,
			Position:   a.Position,
			Overlaying: a.Overlaying,
			Side:       a.Side,
			ShowLine:   a.ShowLine,
		}
		if a.TickColor != "" {
			al.TickFont = &TickFont{Color: a.TickColor}
		}
		l.Axes[axisLayoutName(a.ID)] = al
	}
	return l
}

// BuildTraces pairs every series with its timeline values.
func BuildTraces(cfg Config, tl analytics.Timeline) []Trace {
	x := xValues(cfg.X, tl)
	traces := make([]Trace, 0, len(cfg.Series))
	for _, s := range cfg.Series {
		t := Trace{
			X:    x,
			Y:    yValues(s.Field, tl),
			Name: s.Name,
			Type: s.Type,
			Mode: s.Mode,
		}
		if s.Axis != "y" {
			t.YAxis = s.Axis
		}
		if s.Color != "" || s.Width > 0 || s.Shape != "" {
			t.Line = &Line{Color: s.Color, Width: s.Width, Shape: s.Shape}
		}
		traces = append(traces, t)
	}
	return traces
}

// BuildPlot validates cfg and assembles the full browser payload.
func BuildPlot(cfg Config, tl analytics.Timeline) (Plot, error) {
	if err := cfg.Validate(); err != nil {
		return Plot{}, err
	}
	return Plot{
		ContainerID: cfg.ContainerID,
		Style:       SizeStyle(cfg.WidthPercent, cfg.HeightPercent),
		Layout:      BuildLayout(cfg),
		Traces:      BuildTraces(cfg, tl),
	}, nil
}
