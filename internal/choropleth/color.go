package choropleth

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultLow is the fill for the smallest value of a snapshot.
	DefaultLow = "#EFEFFF"
	// DefaultHigh is the fill for the largest value of a snapshot.
	DefaultHigh = "#02386F"
	// DefaultFill is what the map renderer paints regions absent from a dataset.
	DefaultFill = "#F5F5F5"
)

// ParseColor parses a #RRGGBB (or #RGB) string.
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// formatColor renders c as uppercase #RRGGBB.
func formatColor(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}
