// Package choropleth builds the per-region fill colors consumed by the
// world map. Every dataset is computed from scratch over one snapshot's
// region statistics; nothing is cached between snapshots.
package choropleth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrEmptyInput is returned when there is nothing to derive a value range from.
var ErrEmptyInput = errors.New("choropleth: no region statistics")

// RegionStat is one (region code, value) pair. It marshals as the
// two-element array the map widget expects: ["FR", 2351].
type RegionStat struct {
	Code  string
	Value int64
}

func (r RegionStat) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{r.Code, r.Value})
}

func (r *RegionStat) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("region statistic must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Code); err != nil {
		return fmt.Errorf("region code: %w", err)
	}
	if err := json.Unmarshal(pair[1], &r.Value); err != nil {
		return fmt.Errorf("region value: %w", err)
	}
	return nil
}

// Entry is the display record for one region.
type Entry struct {
	Value     int64  `json:"numberOfThings"`
	FillColor string `json:"fillColor"`
}

// Dataset maps region code to its display record.
type Dataset map[string]Entry

// Builder interpolates between two endpoint colors.
type Builder struct {
	low, high colorful.Color
}

// NewBuilder parses the endpoint colors.
func NewBuilder(low, high string) (*Builder, error) {
	lo, err := ParseColor(low)
	if err != nil {
		return nil, err
	}
	hi, err := ParseColor(high)
	if err != nil {
		return nil, err
	}
	return &Builder{low: lo, high: hi}, nil
}

// DefaultBuilder uses DefaultLow and DefaultHigh.
func DefaultBuilder() *Builder {
	b, err := NewBuilder(DefaultLow, DefaultHigh)
	if err != nil {
		panic(err)
	}
	return b
}

// Build maps every input pair to its value and interpolated color.
// Duplicate codes keep the last pair.
func (b *Builder) Build(stats []RegionStat) (Dataset, error) {
	if len(stats) == 0 {
		return nil, ErrEmptyInput
	}

	values := make([]int64, len(stats))
	for i, s := range stats {
		values[i] = s.Value
	}
	minValue, maxValue := values[0], values[0]
	for _, v := range values[1:] {
		if v < minValue {
			minValue = v
		}
		if v > maxValue {
			maxValue = v
		}
	}

	scale := b.scale(minValue, maxValue)
	result := make(Dataset, len(stats))
	for _, s := range stats {
		result[s.Code] = Entry{Value: s.Value, FillColor: scale(s.Value)}
	}
	return result, nil
}

// scale returns the linear value→color function for [minValue, maxValue].
// A zero-width range maps everything to the low endpoint.
func (b *Builder) scale(minValue, maxValue int64) func(int64) string {
	lowHex, highHex := formatColor(b.low), formatColor(b.high)
	if minValue == maxValue {
		return func(int64) string { return lowHex }
	}
	span := float64(maxValue - minValue)
	return func(v int64) string {
		t := float64(v-minValue) / span
		switch {
		case t <= 0:
			return lowHex
		case t >= 1:
			return highHex
		}
		return formatColor(b.low.BlendRgb(b.high, t))
	}
}

// Build uses the default endpoints.
func Build(stats []RegionStat) (Dataset, error) {
	return DefaultBuilder().Build(stats)
}
