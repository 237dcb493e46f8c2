// Package app wires configuration, dataset discovery and the batch
// processor into a runnable model pipeline.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/boreas-ocean/boreas/internal/batch"
	"github.com/boreas-ocean/boreas/internal/log"
	"github.com/boreas-ocean/boreas/pkg/config"
	"github.com/boreas-ocean/boreas/pkg/lut"
	"github.com/boreas-ocean/boreas/pkg/qaa"
	"github.com/boreas-ocean/boreas/pkg/satbands"
	"github.com/boreas-ocean/boreas/pkg/solar"
)

// SourceOpener turns a discovered period dataset into a pixel source.
type SourceOpener interface {
	Open(cfg *config.Data, ds batch.PeriodDataset) (batch.PixelSource, error)
}

// CSVOpener opens the "observations" raster of each period as a CSV
// extract.
type CSVOpener struct{}

// Open implements SourceOpener.
func (CSVOpener) Open(cfg *config.Data, ds batch.PeriodDataset) (batch.PixelSource, error) {
	path, ok := ds.Rasters["observations"]
	if !ok {
		return nil, fmt.Errorf("period %s has no observations raster", ds.Date.Format(config.DateLayout))
	}
	return batch.OpenCSVSource(path, cfg.Bbox)
}

// App represents the main application.
type App struct {
	configProvider config.Provider
	opener         SourceOpener
	logger         *zap.SugaredLogger
}

// New creates a new application instance.
func New(configProvider config.Provider, opener SourceOpener, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		opener:         opener,
		logger:         logger,
	}
}

// Run executes the configured date range and blocks until done or
// interrupted.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	engine, bands, err := buildRetrieval(cfg)
	if err != nil {
		return err
	}

	periods, err := batch.DiscoverDatasets(cfg, a.logger)
	if err != nil {
		return err
	}
	log.Infof("model %s: %d date periods over %s", cfg.ModelID, len(periods), cfg.Frequency)

	if cfg.LUT.TablePath != "" && len(periods) > 0 {
		table, err := lut.Load(cfg.LUT.TablePath, cfg.LUT.CachePath)
		if err != nil {
			return fmt.Errorf("loading irradiance table: %w", err)
		}
		log.Info(referenceIrradiance(table, cfg, periods[0].Date))
	}

	// Shut down cleanly on SIGINT/SIGTERM.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			log.Info("shutdown signal received, cancelling run...")
			cancel()
		case <-ctx.Done():
		}
	}()

	proc := batch.NewProcessor(engine, bands, cfg.Workers, a.logger)
	for _, period := range periods {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, err := a.opener.Open(cfg, period)
		if err != nil {
			return fmt.Errorf("period %s: %w", period.Date.Format(config.DateLayout), err)
		}
		res, err := proc.ProcessBbox(ctx, src, cfg.Bbox)
		if err != nil {
			return fmt.Errorf("period %s: %w", period.Date.Format(config.DateLayout), err)
		}
		if err := writeSummary(cfg, period, res); err != nil {
			return err
		}
	}

	log.Info("run complete")
	return nil
}

// buildRetrieval assembles the inversion engine and band table from the
// configured sensor and constants table.
func buildRetrieval(cfg *config.Data) (*qaa.Engine, *satbands.Bands, error) {
	ws := qaa.DefaultWavelengths()

	var consts *qaa.OpticalConstants
	var err error
	switch cfg.ConstantsTable {
	case "laboratory":
		consts, err = qaa.LaboratoryConstants(ws)
		if err != nil {
			return nil, nil, err
		}
	default:
		consts = qaa.NASAConstants()
	}

	engine, err := qaa.NewEngine(ws, consts)
	if err != nil {
		return nil, nil, err
	}

	sensorName := cfg.Sensor
	if sensorName == "" {
		sensorName = "modis"
	}
	sensor, err := satbands.ParseSensor(sensorName)
	if err != nil {
		return nil, nil, err
	}
	return engine, satbands.New(sensor), nil
}

// referenceIrradiance reports the irradiance at the box center at noon
// UTC on the first date, as a sanity check that the loaded table is
// plausible for the region. The tabulated spectral sum is paired with
// the Bras broadband estimate at the same geometry: the two share no
// data, so gross disagreement points at a bad table.
func referenceIrradiance(table *lut.Table, cfg *config.Data, date time.Time) string {
	lon, lat := cfg.Bbox.Center()
	pos := solar.Calculate(date.YearDay(), 12.0, lat, lon)
	ed := table.Ed0Minus(pos.ZenithDeg, 300, 0, 0, 0.06)

	var total float64
	for _, v := range ed {
		total += v
	}

	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC)
	cs := solar.ClearSky(noon, lat, lon, 2.0)
	return fmt.Sprintf("reference Ed0- at (%.2f, %.2f), zenith %.1f deg: %.2f (spectral sum over %d bands), Bras clear-sky %.1f W/m2",
		lon, lat, pos.ZenithDeg, total, len(ed), cs.WattsPerM2)
}

// writeSummary drops a per-period text summary into the output
// directory.
func writeSummary(cfg *config.Data, period batch.PeriodDataset, res *batch.RunResult) error {
	s := res.Summary
	body := fmt.Sprintf(
		"model: %s\nrun: %s\ndate: %s\nwindow: %dx%d+%d+%d\nvalid_pixels: %d/%d\n"+
			"mean_pp: %.6f\nstddev_pp: %.6f\nmin_pp: %.6f\nmax_pp: %.6f\n",
		cfg.ModelID, res.RunID, period.Date.Format(config.DateLayout),
		res.Window.Width, res.Window.Height, res.Window.X, res.Window.Y,
		s.ValidPixels, s.TotalPixels,
		s.MeanPP, s.StdDevPP, s.MinPP, s.MaxPP)

	name := fmt.Sprintf("pp_%s.txt", period.Date.Format("20060102"))
	path := filepath.Join(cfg.OutputDirectory, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	log.Infof("wrote %s (%d/%d valid pixels)", path, s.ValidPixels, s.TotalPixels)
	return nil
}
