package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trading-dashboard/src/logger"
	"trading-dashboard/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Event Catalog
//
// Pre-authored market-event timelines, loaded wholesale at startup and never
// mutated afterwards. Built-in events are always present; additional events
// can be loaded from a directory of YAML files.
// -----------------------------------------------------------------------------

type Catalog struct {
	Logger *logger.Logger

	events map[string]*models.MMarketEvent
	order  []string
}

// -----------------------------------------------------------------------------

// NewCatalog creates a catalog pre-populated with the built-in events.
func NewCatalog(log *logger.Logger) *Catalog {
	c := &Catalog{
		Logger: log,
		events: make(map[string]*models.MMarketEvent),
	}
	for _, ev := range builtinEvents() {
		// Built-in data is authored by hand; validate it like any other input.
		if err := ValidateEvent(ev); err != nil {
			log.Critical("built-in event %s is invalid: %v", ev.ID, err)
		}
		c.add(ev)
	}
	return c
}

// -----------------------------------------------------------------------------

// LoadDir adds every *.yaml event found under dir. Files that fail to parse
// or validate are skipped with a warning so one bad file cannot take down
// the whole catalog.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read events dir '%s': %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			c.Logger.Warning("Skipping event file %s: %v", path, err)
			continue
		}

		var ev models.MMarketEvent
		if err := yaml.Unmarshal(data, &ev); err != nil {
			c.Logger.Warning("Skipping event file %s: %v", path, err)
			continue
		}
		if err := ValidateEvent(&ev); err != nil {
			c.Logger.Warning("Skipping event file %s: %v", path, err)
			continue
		}

		c.add(&ev)
		c.Logger.Info("Loaded event '%s' from %s", ev.ID, path)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (c *Catalog) add(ev *models.MMarketEvent) {
	if _, exists := c.events[ev.ID]; !exists {
		c.order = append(c.order, ev.ID)
	}
	c.events[ev.ID] = ev
}

// -----------------------------------------------------------------------------

// Get returns the event with the given id.
func (c *Catalog) Get(id string) (*models.MMarketEvent, bool) {
	ev, ok := c.events[id]
	return ev, ok
}

// -----------------------------------------------------------------------------

// List returns all events in load order.
func (c *Catalog) List() []*models.MMarketEvent {
	out := make([]*models.MMarketEvent, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.events[id])
	}
	return out
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

// ValidateEvent checks identity fields and the timestamp-range invariant:
// every timestamp of every sequence must fall within
// [StartTime, StartTime+Duration].
func ValidateEvent(ev *models.MMarketEvent) error {
	if ev.ID == "" {
		return fmt.Errorf("event id cannot be empty")
	}
	if ev.Name == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if ev.DurationMin <= 0 {
		return fmt.Errorf("event duration must be greater than 0")
	}

	start, end := ev.StartTime, ev.EndTime()

	check := func(seq string, ts int64) error {
		if ts < start || ts > end {
			return fmt.Errorf("%s timestamp %d outside event range [%d, %d]", seq, ts, start, end)
		}
		return nil
	}

	for _, t := range ev.MarketTicks {
		if err := check("market tick", t.Timestamp); err != nil {
			return err
		}
	}
	for _, n := range ev.NewsItems {
		if err := check("news item", n.Timestamp); err != nil {
			return err
		}
	}
	for _, d := range ev.AIDecisions {
		if err := check("ai decision", d.Timestamp); err != nil {
			return err
		}
	}
	for _, p := range ev.Performance {
		if err := check("performance snapshot", p.Timestamp); err != nil {
			return err
		}
	}
	for _, r := range ev.RiskStates {
		if err := check("risk state", r.Timestamp); err != nil {
			return err
		}
	}
	for _, a := range ev.AltData {
		if err := check("alt-data snapshot", a.Timestamp); err != nil {
			return err
		}
	}
	for _, k := range ev.KeyMoments {
		if err := check("key moment", k.Timestamp); err != nil {
			return err
		}
	}

	// Performance snapshots must be time-ordered for the baseline lookup.
	if !sort.SliceIsSorted(ev.Performance, func(i, j int) bool {
		return ev.Performance[i].Timestamp < ev.Performance[j].Timestamp
	}) {
		return fmt.Errorf("performance snapshots must be sorted by timestamp")
	}

	return nil
}
