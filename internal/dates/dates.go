// Package dates expands a configured date range into the concrete
// series of dates and intra-day instants the pipeline iterates over.
package dates

import (
	"time"

	"github.com/boreas-ocean/boreas/pkg/config"
)

// Generator walks the configured range at the configured cadence.
type Generator struct {
	cfg *config.Data
}

// NewGenerator wraps a validated configuration.
func NewGenerator(cfg *config.Data) *Generator {
	return &Generator{cfg: cfg}
}

// Dates returns every date from start to end inclusive, stepped by the
// configured frequency.
func (g *Generator) Dates() []time.Time {
	var out []time.Time
	for d := g.cfg.StartDate; !d.After(g.cfg.EndDate); d = g.cfg.Frequency.Advance(d) {
		out = append(out, d)
	}
	return out
}

// DateTimes returns the dates expanded by the hourly increment: for an
// increment of 6 each date contributes 00:00, 06:00, 12:00 and 18:00.
func (g *Generator) DateTimes() []time.Time {
	inc := g.cfg.HourlyIncrement
	if inc <= 0 {
		return nil
	}
	var out []time.Time
	for _, d := range g.Dates() {
		for hour := 0; hour < 24; hour += inc {
			out = append(out, d.Add(time.Duration(hour)*time.Hour))
		}
	}
	return out
}
