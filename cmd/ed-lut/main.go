// Command ed-lut walks the configured datetime series, computes the sun
// position at the bounding-box center for each instant, and prints the
// tabulated downward irradiance at one wavelength. Useful for eyeballing
// a lookup table before committing to a long model run.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boreas-ocean/boreas/internal/dates"
	"github.com/boreas-ocean/boreas/internal/log"
	"github.com/boreas-ocean/boreas/pkg/config"
	"github.com/boreas-ocean/boreas/pkg/lut"
	"github.com/boreas-ocean/boreas/pkg/solar"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to the YAML run configuration")
	tablePath := flag.String("table", "", "Irradiance table path (overrides the configured one)")
	wavelength := flag.Float64("wavelength", 400, "Wavelength to report, nm (290-700)")
	ozone := flag.Float64("ozone", 300, "Ozone column, DU")
	taucl := flag.Float64("taucl", 0, "Cloud optical thickness")
	cloudFrac := flag.Float64("cf", 0, "Cloud fraction (0-1)")
	albedo := flag.Float64("albedo", 0.06, "Surface albedo")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	filename, _ := filepath.Abs(*cfgFile)
	cfg, err := config.NewYAMLProvider(filename).LoadConfig()
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	path := *tablePath
	if path == "" {
		path = cfg.LUT.TablePath
	}
	if path == "" {
		log.Error("no irradiance table configured; pass -table or set lut.table_path")
		os.Exit(1)
	}
	table, err := lut.Load(path, cfg.LUT.CachePath)
	if err != nil {
		log.Errorf("Failed to load irradiance table: %v", err)
		os.Exit(1)
	}

	wlIdx := closest(lut.Wavelengths(), *wavelength)
	lon, lat := cfg.Bbox.Center()
	log.Infof("reporting Ed0-(%.0f nm) at (%.4f, %.4f)", lut.Wavelengths()[wlIdx], lon, lat)

	lastDate := ""
	for _, dt := range dates.NewGenerator(cfg).DateTimes() {
		if date := dt.Format("2006-01-02"); date != lastDate {
			lastDate = date
			printDaylight(date, dt.YearDay(), lat, lon)
		}
		pos := solar.Calculate(dt.YearDay(), float64(dt.Hour()), lat, lon)
		ed := table.Ed0Minus(pos.ZenithDeg, *ozone, *taucl, *cloudFrac, *albedo)
		cs := solar.ClearSky(dt, lat, lon, 2.0)
		fmt.Printf("%s zenith=%6.2f azimuth=%7.2f ed=%10.4f clearsky=%8.2f\n",
			dt.Format("2006-01-02 15:04"), pos.ZenithDeg, pos.AzimuthDeg, ed[wlIdx], cs.WattsPerM2)
	}
}

func printDaylight(date string, dayOfYear int, lat, lon float64) {
	d := solar.DaylightHours(dayOfYear, lat, lon)
	switch {
	case d.PolarDay:
		fmt.Printf("%s polar day\n", date)
	case d.PolarNight:
		fmt.Printf("%s polar night\n", date)
	default:
		fmt.Printf("%s sunrise=%05.2f sunset=%05.2f UTC\n", date, d.Rise, d.Set)
	}
}

func closest(axis []float64, target float64) int {
	best := 0
	for i, v := range axis {
		if abs(v-target) < abs(axis[best]-target) {
			best = i
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
