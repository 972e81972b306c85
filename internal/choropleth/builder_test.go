package choropleth

import (
	"encoding/json"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgb(t *testing.T, hex string) (uint8, uint8, uint8) {
	t.Helper()
	c, err := colorful.Hex(hex)
	require.NoError(t, err)
	return c.RGB255()
}

func TestBuildEndpoints(t *testing.T) {
	ds, err := Build([]RegionStat{{"FR", 2351}, {"GR", 5321}})
	require.NoError(t, err)

	require.Len(t, ds, 2)
	assert.Equal(t, Entry{Value: 2351, FillColor: "#EFEFFF"}, ds["FR"])
	assert.Equal(t, Entry{Value: 5321, FillColor: "#02386F"}, ds["GR"])
}

func TestBuildMidpoint(t *testing.T) {
	ds, err := Build([]RegionStat{{"US", 10}, {"FR", 20}, {"GR", 30}})
	require.NoError(t, err)

	lr, lg, lb := rgb(t, DefaultLow)
	hr, hg, hb := rgb(t, DefaultHigh)
	r, g, b := rgb(t, ds["FR"].FillColor)

	assert.InDelta(t, (float64(lr)+float64(hr))/2, float64(r), 0.51)
	assert.InDelta(t, (float64(lg)+float64(hg))/2, float64(g), 0.51)
	assert.InDelta(t, (float64(lb)+float64(hb))/2, float64(b), 0.51)
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuildEqualValuesUseLowEndpoint(t *testing.T) {
	ds, err := Build([]RegionStat{{"UA", 7}, {"PL", 7}, {"DE", 7}})
	require.NoError(t, err)

	for code, e := range ds {
		assert.Equal(t, DefaultLow, e.FillColor, code)
		assert.EqualValues(t, 7, e.Value)
	}
}

func TestBuildMonotonic(t *testing.T) {
	stats := []RegionStat{{"A1", 3}, {"A2", 90}, {"A3", 17}, {"A4", 44}, {"A5", 1}, {"A6", 61}}
	ds, err := Build(stats)
	require.NoError(t, err)

	lr, lg, lb := rgb(t, DefaultLow)
	hr, hg, hb := rgb(t, DefaultHigh)
	// every channel of the default ramp decreases from low to high
	require.Greater(t, lr, hr)
	require.Greater(t, lg, hg)
	require.Greater(t, lb, hb)

	for _, a := range stats {
		for _, b := range stats {
			if a.Value >= b.Value {
				continue
			}
			ar, ag, ab := rgb(t, ds[a.Code].FillColor)
			br, bg, bb := rgb(t, ds[b.Code].FillColor)
			assert.GreaterOrEqual(t, ar, br)
			assert.GreaterOrEqual(t, ag, bg)
			assert.GreaterOrEqual(t, ab, bb)
		}
	}
}

func TestBuildDuplicateLastWins(t *testing.T) {
	ds, err := Build([]RegionStat{{"FR", 1}, {"GR", 9}, {"FR", 5}})
	require.NoError(t, err)

	require.Len(t, ds, 2)
	assert.EqualValues(t, 5, ds["FR"].Value)
}

func TestNewBuilderRejectsBadColor(t *testing.T) {
	_, err := NewBuilder("blue", DefaultHigh)
	assert.Error(t, err)
}

func TestCustomEndpoints(t *testing.T) {
	b, err := NewBuilder("#000000", "#ffffff")
	require.NoError(t, err)

	ds, err := b.Build([]RegionStat{{"X", 0}, {"Y", 100}})
	require.NoError(t, err)
	assert.Equal(t, "#000000", ds["X"].FillColor)
	assert.Equal(t, "#FFFFFF", ds["Y"].FillColor)
}

func TestRegionStatJSON(t *testing.T) {
	var stats []RegionStat
	require.NoError(t, json.Unmarshal([]byte(`[["FR", 2351], ["GR", 5321]]`), &stats))
	assert.Equal(t, []RegionStat{{"FR", 2351}, {"GR", 5321}}, stats)

	out, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `[["FR",2351],["GR",5321]]`, string(out))

	var bad RegionStat
	assert.Error(t, json.Unmarshal([]byte(`["FR"]`), &bad))
}
