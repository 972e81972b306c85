// Package dashboard holds the world-map page state: the ordered monthly
// snapshots and which one the slider currently points at.
package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/i474232898/global-analytics-dashboard/internal/analytics"
	"github.com/i474232898/global-analytics-dashboard/internal/choropleth"
)

// ErrUnknownSnapshot is returned when selecting a key or position that
// is not loaded.
var ErrUnknownSnapshot = errors.New("unknown snapshot")

// View is everything the map page needs to render the selected snapshot.
type View struct {
	Snapshot analytics.Snapshot `json:"snapshot"`
	Dataset  choropleth.Dataset `json:"dataset"`
	// Rendered is false when the snapshot has no countries to color.
	Rendered    bool   `json:"rendered"`
	DefaultFill string `json:"defaultFill"`
	Position    int    `json:"position"`
	MinPosition int    `json:"min"`
	MaxPosition int    `json:"max"`
}

// Controller owns the dashboard state. UI events (slider moves, auto-play
// ticks, refreshes) go through it instead of touching shared globals.
type Controller struct {
	mu        sync.RWMutex
	builder   *choropleth.Builder
	fill      string
	keys      []string
	snapshots map[string]analytics.Snapshot
	position  int
}

// NewController creates an empty controller. builder defaults to the
// standard blue ramp when nil.
func NewController(builder *choropleth.Builder, defaultFill string) *Controller {
	if builder == nil {
		builder = choropleth.DefaultBuilder()
	}
	if defaultFill == "" {
		defaultFill = choropleth.DefaultFill
	}
	return &Controller{
		builder:   builder,
		fill:      defaultFill,
		snapshots: make(map[string]analytics.Snapshot),
		position:  -1,
	}
}

// Load replaces the snapshot set. The selection stays on the same key when
// it survives the reload, otherwise it moves to the newest snapshot.
func (c *Controller) Load(snapshots []analytics.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var selected string
	if c.position >= 0 && c.position < len(c.keys) {
		selected = c.keys[c.position]
	}

	c.keys = make([]string, 0, len(snapshots))
	c.snapshots = make(map[string]analytics.Snapshot, len(snapshots))
	for _, s := range snapshots {
		if _, dup := c.snapshots[s.Key]; !dup {
			c.keys = append(c.keys, s.Key)
		}
		c.snapshots[s.Key] = s
	}

	c.position = len(c.keys) - 1
	for i, k := range c.keys {
		if k == selected {
			c.position = i
			break
		}
	}
}

// Keys returns the snapshot keys in slider order.
func (c *Controller) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.keys...)
}

// Snapshots returns every loaded snapshot in slider order.
func (c *Controller) Snapshots() []analytics.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]analytics.Snapshot, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.snapshots[k])
	}
	return out
}

// SelectSnapshot moves the slider to key.
func (c *Controller) SelectSnapshot(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, k := range c.keys {
		if k == key {
			c.position = i
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownSnapshot, key)
}

// SelectPosition moves the slider to index i.
func (c *Controller) SelectPosition(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.keys) {
		return fmt.Errorf("%w: position %d", ErrUnknownSnapshot, i)
	}
	c.position = i
	return nil
}

// CurrentSnapshot returns the selected snapshot.
func (c *Controller) CurrentSnapshot() (analytics.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.position < 0 {
		return analytics.Snapshot{}, false
	}
	return c.snapshots[c.keys[c.position]], true
}

// Advance moves to the next snapshot, wrapping from the last to the first.
// It reports the key now selected.
func (c *Controller) Advance() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.keys) == 0 {
		return "", false
	}
	if c.position >= len(c.keys)-1 {
		c.position = 0
	} else {
		c.position++
	}
	return c.keys[c.position], true
}

// CurrentView builds the view of the selected snapshot. The dataset is
// computed from scratch every call.
func (c *Controller) CurrentView() (View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.position < 0 {
		return View{}, false
	}
	v := c.view(c.snapshots[c.keys[c.position]])
	v.Position = c.position
	v.MaxPosition = len(c.keys) - 1
	return v, true
}

// SnapshotView builds the view of an arbitrary loaded snapshot without
// moving the slider.
func (c *Controller) SnapshotView(key string) (View, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i, k := range c.keys {
		if k != key {
			continue
		}
		v := c.view(c.snapshots[k])
		v.Position = i
		v.MaxPosition = len(c.keys) - 1
		return v, nil
	}
	return View{}, fmt.Errorf("%w: %q", ErrUnknownSnapshot, key)
}

func (c *Controller) view(s analytics.Snapshot) View {
	v := View{Snapshot: s, DefaultFill: c.fill, Dataset: choropleth.Dataset{}}
	ds, err := c.builder.Build(s.DatamapCountries)
	if err != nil {
		// An empty month leaves every region on the default fill.
		return v
	}
	v.Dataset = ds
	v.Rendered = true
	return v
}
