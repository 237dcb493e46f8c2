package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/boreas-ocean/boreas/internal/dates"
	"github.com/boreas-ocean/boreas/pkg/config"
)

// PeriodDataset names the raster files backing one date period.
type PeriodDataset struct {
	Date    time.Time
	Rasters map[string]string // template name -> resolved path
}

// DiscoverDatasets resolves the configured raster templates for every
// date in the configured range. All templates must resolve for every
// date; partially covered dates are collected into one error so the
// operator sees the full gap list at once.
func DiscoverDatasets(cfg *config.Data, logger *zap.SugaredLogger) ([]PeriodDataset, error) {
	series := dates.NewGenerator(cfg).Dates()

	var out []PeriodDataset
	var missingDates []string
	for _, date := range series {
		rasters := make(map[string]string, len(cfg.RasterTemplates))
		var missing []string
		for _, tmpl := range cfg.RasterTemplates {
			path, ok := findMatchingFile(tmpl, date)
			if !ok {
				missing = append(missing, tmpl.Name)
				continue
			}
			rasters[tmpl.Name] = path
		}
		if len(missing) > 0 {
			if logger != nil {
				logger.Warnw("missing raster files",
					"date", date.Format(config.DateLayout),
					"templates", missing)
			}
			missingDates = append(missingDates, date.Format(config.DateLayout))
			continue
		}
		out = append(out, PeriodDataset{Date: date, Rasters: rasters})
	}

	if len(missingDates) > 0 {
		return nil, fmt.Errorf("requested %d date periods but found complete data for %d; missing: %v",
			len(series), len(out), missingDates)
	}
	return out, nil
}

// findMatchingFile resolves a template for one date: first the direct
// path, then a recursive search of the base directory for the expected
// filename.
func findMatchingFile(tmpl config.RasterTemplate, date time.Time) (string, bool) {
	direct := tmpl.PathFor(date)
	if _, err := os.Stat(direct); err == nil {
		return direct, true
	}

	want := filepath.Base(direct)
	var found string
	err := filepath.WalkDir(tmpl.BaseDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking
		}
		if !d.IsDir() && d.Name() == want {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil || found == "" {
		return "", false
	}
	return found, true
}
