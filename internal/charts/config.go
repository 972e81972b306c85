// Package charts describes the dashboard's time-series charts once, as
// data: a Config names the container, its size relative to the parent and
// the series and axes to plot. The same Config produces the plot payload
// for the browser and a server-side PNG.
package charts

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/global-analytics-dashboard/internal/analytics"
)

var validate = validator.New()

// Field selects a Timeline sequence.
type Field string

const (
	FieldInstances             Field = "instances"
	FieldCourses               Field = "courses"
	FieldStudents              Field = "students"
	FieldRegisteredStudents    Field = "registeredStudents"
	FieldGeneratedCertificates Field = "generatedCertificates"
	FieldEnthusiasticStudents  Field = "enthusiasticStudents"
)

// XSource selects the x values of a chart.
type XSource string

const (
	XDates  XSource = "dates"
	XMonths XSource = "months"
)

// Series is one plotted line or bar group.
type Series struct {
	Name  string  `json:"name" validate:"required"`
	Field Field   `json:"field" validate:"oneof=instances courses students registeredStudents generatedCertificates enthusiasticStudents"`
	Type  string  `json:"type" validate:"oneof=scatter bar"`
	Mode  string  `json:"mode,omitempty"`
	Color string  `json:"color" validate:"omitempty,hexcolor"`
	Shape string  `json:"shape,omitempty" validate:"omitempty,oneof=linear hv spline"`
	Width float64 `json:"width,omitempty" validate:"gte=0"`
	// Axis is the plot axis id: "y", "y2", "y3", ...
	Axis string `json:"axis" validate:"required,startswith=y"`
}

// AxisOptions configures one y axis.
type AxisOptions struct {
	ID         string  `json:"id" validate:"required,startswith=y"`
	NTicks     int     `json:"nticks,omitempty" validate:"gte=0"`
	Side       string  `json:"side,omitempty" validate:"omitempty,oneof=left right"`
	Overlaying string  `json:"overlaying,omitempty"`
	Anchor     string  `json:"anchor,omitempty"`
	Position   float64 `json:"position,omitempty" validate:"gte=0,lte=1"`
	TickColor  string  `json:"tickColor,omitempty" validate:"omitempty,hexcolor"`
	ShowLine   bool    `json:"showLine,omitempty"`
}

// Config is the single parameterized chart description.
type Config struct {
	ContainerID   string        `json:"containerId" validate:"required"`
	Title         string        `json:"title"`
	WidthPercent  float64       `json:"widthPercent" validate:"gt=0,lte=100"`
	HeightPercent float64       `json:"heightPercent" validate:"gt=0,lte=100"`
	X             XSource       `json:"x" validate:"oneof=dates months"`
	Series        []Series      `json:"series" validate:"required,min=1,dive"`
	Axes          []AxisOptions `json:"axes" validate:"dive"`
}

// Validate checks the config and that every series uses a declared axis.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid chart config: %w", err)
	}
	declared := map[string]bool{}
	for _, a := range c.Axes {
		declared[a.ID] = true
	}
	for _, s := range c.Series {
		if s.Axis != "y" && !declared[s.Axis] {
			return fmt.Errorf("invalid chart config: series %q uses undeclared axis %q", s.Name, s.Axis)
		}
	}
	return nil
}

// ActivityConfig plots instances, courses and students per day on three
// overlaid axes.
func ActivityConfig() Config {
	return Config{
		ContainerID:   "activity",
		Title:         "Instances, courses and students",
		WidthPercent:  100,
		HeightPercent: 60,
		X:             XDates,
		Series: []Series{
			{Name: "Instance", Field: FieldInstances, Type: "scatter", Mode: "lines", Color: "#70A3FF", Width: 2.3, Shape: "spline", Axis: "y"},
			{Name: "Courses", Field: FieldCourses, Type: "scatter", Mode: "lines", Color: "#8BB22A", Shape: "hv", Axis: "y2"},
			{Name: "Students", Field: FieldStudents, Type: "scatter", Mode: "lines", Color: "#CC4630", Shape: "hv", Axis: "y4"},
		},
		Axes: []AxisOptions{
			{ID: "y", NTicks: 4, TickColor: "#70A3FF", ShowLine: true},
			{ID: "y2", NTicks: 3, Anchor: "free", Position: 0.99, Overlaying: "y", Side: "right", TickColor: "#8BB22A"},
			{ID: "y4", NTicks: 5, Anchor: "x", Overlaying: "y", Side: "right", TickColor: "#CC4630", ShowLine: true},
		},
	}
}

// MonthlyConfig plots the monthly registration counters as bars.
func MonthlyConfig() Config {
	return Config{
		ContainerID:   "monthly",
		Title:         "Monthly registrations",
		WidthPercent:  100,
		HeightPercent: 60,
		X:             XMonths,
		Series: []Series{
			{Name: "Registered students", Field: FieldRegisteredStudents, Type: "bar", Axis: "y"},
			{Name: "Generated certificates", Field: FieldGeneratedCertificates, Type: "bar", Axis: "y"},
			{Name: "Enthusiastic students", Field: FieldEnthusiasticStudents, Type: "bar", Axis: "y"},
		},
		Axes: []AxisOptions{{ID: "y"}},
	}
}

func xValues(src XSource, tl analytics.Timeline) []string {
	if src == XMonths {
		return tl.Months
	}
	return tl.Dates
}

func yValues(f Field, tl analytics.Timeline) []int64 {
	switch f {
	case FieldInstances:
		return tl.Instances
	case FieldCourses:
		return tl.Courses
	case FieldStudents:
		return tl.Students
	case FieldRegisteredStudents:
		return tl.RegisteredStudents
	case FieldGeneratedCertificates:
		return tl.GeneratedCertificates
	case FieldEnthusiasticStudents:
		return tl.EnthusiasticStudents
	}
	return nil
}
