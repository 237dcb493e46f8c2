// Package config loads and validates run configuration for the model
// pipeline. Providers abstract the on-disk format so the rest of the
// code only sees validated Data.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/boreas-ocean/boreas/internal/geo"
)

// DateLayout is the wire format for configured dates.
const DateLayout = "2006-01-02"

var validHourlyIncrements = []int{1, 2, 3, 4, 6, 8, 12}

// Provider defines the interface for configuration sources.
type Provider interface {
	// LoadConfig loads and validates the complete configuration.
	LoadConfig() (*Data, error)
	Close() error
}

// Data is the validated run configuration.
type Data struct {
	ModelID         string
	StartDate       time.Time
	EndDate         time.Time
	Frequency       TimeStep
	HourlyIncrement int
	Bbox            geo.Bbox
	Sensor          string
	ConstantsTable  string // "nasa" or "laboratory"
	RasterTemplates []RasterTemplate
	OutputDirectory string
	Workers         int
	LUT             LUTData
}

// RasterTemplate locates one input raster series on disk. The filename
// pattern carries a "{}" placeholder replaced by the date formatted with
// DateFormat (a Go reference layout).
type RasterTemplate struct {
	Name            string
	BaseDirectory   string
	FilenamePattern string
	DateFormat      string
}

// PathFor resolves the template for one date.
func (rt RasterTemplate) PathFor(d time.Time) string {
	name := strings.Replace(rt.FilenamePattern, "{}", d.Format(rt.DateFormat), 1)
	return filepath.Join(rt.BaseDirectory, name)
}

// LUTData locates the irradiance lookup table.
type LUTData struct {
	TablePath string
	CachePath string
}

// Validate checks the cross-field constraints shared by all providers.
func (d *Data) Validate() error {
	if strings.TrimSpace(d.ModelID) == "" {
		return fmt.Errorf("model_id is required")
	}
	if d.StartDate.After(d.EndDate) {
		return fmt.Errorf("start_date must not be after end_date")
	}

	okIncrement := false
	for _, v := range validHourlyIncrements {
		if d.HourlyIncrement == v {
			okIncrement = true
			break
		}
	}
	if !okIncrement {
		return fmt.Errorf("hourly_increment %d not in %v", d.HourlyIncrement, validHourlyIncrements)
	}

	if err := d.Bbox.Validate(); err != nil {
		return fmt.Errorf("invalid bbox: %w", err)
	}

	if len(d.RasterTemplates) == 0 {
		return fmt.Errorf("raster_templates is required")
	}
	for i, rt := range d.RasterTemplates {
		switch {
		case strings.TrimSpace(rt.Name) == "":
			return fmt.Errorf("raster template %d: name cannot be empty", i)
		case strings.TrimSpace(rt.BaseDirectory) == "":
			return fmt.Errorf("raster template %q: base_directory cannot be empty", rt.Name)
		case strings.TrimSpace(rt.FilenamePattern) == "":
			return fmt.Errorf("raster template %q: filename_pattern cannot be empty", rt.Name)
		case strings.TrimSpace(rt.DateFormat) == "":
			return fmt.Errorf("raster template %q: date_format cannot be empty", rt.Name)
		case !strings.Contains(rt.FilenamePattern, "{}"):
			return fmt.Errorf("raster template %q: filename_pattern must contain '{}' placeholder", rt.Name)
		}
	}

	if d.OutputDirectory == "" {
		return fmt.Errorf("output_directory is required")
	}
	if fi, err := os.Stat(d.OutputDirectory); err != nil || !fi.IsDir() {
		return fmt.Errorf("output directory does not exist: %s", d.OutputDirectory)
	}

	switch d.ConstantsTable {
	case "", "nasa", "laboratory":
	default:
		return fmt.Errorf("constants_table %q (want nasa or laboratory)", d.ConstantsTable)
	}

	if d.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	return nil
}

// Template returns the raster template with the given name.
func (d *Data) Template(name string) (RasterTemplate, bool) {
	for _, rt := range d.RasterTemplates {
		if rt.Name == name {
			return rt, true
		}
	}
	return RasterTemplate{}, false
}
