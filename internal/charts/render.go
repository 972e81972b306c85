package charts

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/global-analytics-dashboard/internal/analytics"
)

// ErrNotEnoughPoints is returned when there are fewer than two x values.
var ErrNotEnoughPoints = errors.New("charts: at least two points are required")

const (
	renderWidth  = 1024
	renderHeight = 480
)

// Render draws cfg as a PNG. The first declared axis is the primary axis;
// series on any other axis share the secondary axis.
func Render(cfg Config, tl analytics.Timeline, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	x := xValues(cfg.X, tl)
	if len(x) < 2 {
		return ErrNotEnoughPoints
	}
	layout := "2006-01-02"
	if cfg.X == XMonths {
		layout = "2006-01"
	}
	times := make([]time.Time, len(x))
	for i, s := range x {
		t, err := time.Parse(layout, s)
		if err != nil {
			return fmt.Errorf("parse x value %q: %w", s, err)
		}
		times[i] = t
	}

	primary := "y"
	if len(cfg.Axes) > 0 {
		primary = cfg.Axes[0].ID
	}

	var (
		series          []chart.Series
		primaryValues   []float64
		secondaryValues []float64
	)
	for _, s := range cfg.Series {
		raw := yValues(s.Field, tl)
		ys := make([]float64, len(times))
		for i := range ys {
			if i < len(raw) {
				ys[i] = float64(raw[i])
			}
		}

		ts := chart.TimeSeries{
			Name:    s.Name,
			XValues: times,
			YValues: ys,
			Style:   seriesStyle(s),
		}
		if s.Axis == primary {
			primaryValues = append(primaryValues, ys...)
		} else {
			ts.YAxis = chart.YAxisSecondary
			secondaryValues = append(secondaryValues, ys...)
		}
		series = append(series, ts)
	}

	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      renderWidth,
		Height:     renderHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:      chart.YAxis{Range: flatRange(primaryValues)},
		Series:     series,
	}
	if len(secondaryValues) > 0 {
		ch.YAxisSecondary = chart.YAxis{Range: flatRange(secondaryValues)}
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart %s: %w", cfg.ContainerID, err)
	}
	return nil
}

func seriesStyle(s Series) chart.Style {
	st := chart.Style{StrokeWidth: s.Width}
	if st.StrokeWidth == 0 {
		st.StrokeWidth = 2
	}
	if s.Color != "" {
		st.StrokeColor = drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#"))
	}
	return st
}

// flatRange pads a zero-height value range so the axis can be drawn;
// other ranges are left to go-chart.
func flatRange(values []float64) chart.Range {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}
