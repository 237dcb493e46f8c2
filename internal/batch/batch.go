// Package batch runs the per-pixel retrieval chain over raster windows:
// native-band reflectances are mapped onto the canonical wavelengths,
// inverted to inherent optical properties, and the retrieved chlorophyll
// is fed to the production model.
package batch

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/boreas-ocean/boreas/internal/geo"
	"github.com/boreas-ocean/boreas/pkg/qaa"
	"github.com/boreas-ocean/boreas/pkg/satbands"
	"github.com/boreas-ocean/boreas/pkg/vgpm"
)

// Observation holds the per-pixel inputs. Rrs maps native band centers
// to remote-sensing reflectance; NaN marks a missing scalar.
type Observation struct {
	Rrs   map[float64]float64
	SST   float64
	Kd490 float64
}

// PixelSource supplies observations for a raster grid. Implementations
// wrap whatever storage holds the level-3 products.
type PixelSource interface {
	// Dims returns the grid size in pixels.
	Dims() (width, height int)
	// GeoTransform returns the affine transform of the grid.
	GeoTransform() (geo.GeoTransform, error)
	// Read returns the observation at pixel (x, y).
	Read(x, y int) (Observation, error)
}

// PixelResult is the outcome of the retrieval chain for one pixel.
type PixelResult struct {
	X, Y              int
	Chla              float64
	PrimaryProduction float64
	Flags             qaa.Flags
	Valid             bool
}

// Summary aggregates primary production over the valid pixels of a run.
type Summary struct {
	TotalPixels int
	ValidPixels int
	MeanPP      float64
	StdDevPP    float64
	MinPP       float64
	MaxPP       float64
}

// RunResult holds everything produced by one window run.
type RunResult struct {
	RunID   string
	Window  geo.Window
	Results []PixelResult
	Summary Summary
}

// Processor drives the retrieval chain. Safe for concurrent use.
type Processor struct {
	engine  *qaa.Engine
	bands   *satbands.Bands
	workers int
	logger  *zap.SugaredLogger
}

// NewProcessor builds a processor. workers <= 0 means one worker per
// CPU.
func NewProcessor(engine *qaa.Engine, bands *satbands.Bands, workers int, logger *zap.SugaredLogger) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Processor{engine: engine, bands: bands, workers: workers, logger: logger}
}

// processPixel runs the full chain for one observation. A pixel that
// cannot be retrieved yields an invalid result, not an error: holes in
// level-3 products are routine.
func (p *Processor) processPixel(x, y int, obs Observation) PixelResult {
	res := PixelResult{X: x, Y: y}

	spectrum, err := p.bands.MapSpectrum(p.engine.Wavelengths(), obs.Rrs)
	if err != nil {
		return res
	}
	ret, err := p.engine.Retrieve(spectrum)
	if err != nil {
		return res
	}
	res.Flags = ret.Flags
	if ret.Flags.Has(qaa.FlagChlorophyllUndefined) {
		return res
	}
	res.Chla = ret.Chla

	pp, ok := vgpm.PrimaryProduction(vgpm.Inputs{
		ChlorA: ret.Chla,
		SST:    obs.SST,
		Kd490:  obs.Kd490,
	})
	if !ok {
		return res
	}
	res.PrimaryProduction = pp
	res.Valid = true
	return res
}

// ProcessWindow runs the chain over every pixel of the window, rows
// fanned out across the worker pool. Results are ordered row-major
// regardless of worker count.
func (p *Processor) ProcessWindow(ctx context.Context, src PixelSource, win geo.Window) (*RunResult, error) {
	width, height := src.Dims()
	if win.X < 0 || win.Y < 0 || win.X+win.Width > width || win.Y+win.Height > height {
		return nil, fmt.Errorf("window %+v exceeds grid %dx%d", win, width, height)
	}

	runID := uuid.New().String()
	if p.logger != nil {
		p.logger.Infow("starting window run",
			"run_id", runID,
			"window", fmt.Sprintf("%dx%d+%d+%d", win.Width, win.Height, win.X, win.Y),
			"workers", p.workers)
	}

	results := make([]PixelResult, win.Width*win.Height)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for row := 0; row < win.Height; row++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			y := win.Y + row
			for col := 0; col < win.Width; col++ {
				x := win.X + col
				obs, err := src.Read(x, y)
				if err != nil {
					return fmt.Errorf("reading pixel (%d,%d): %w", x, y, err)
				}
				results[row*win.Width+col] = p.processPixel(x, y, obs)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := summarize(results)
	if p.logger != nil {
		p.logger.Infow("window run complete",
			"run_id", runID,
			"valid_pixels", summary.ValidPixels,
			"total_pixels", summary.TotalPixels,
			"mean_pp", summary.MeanPP)
	}

	return &RunResult{RunID: runID, Window: win, Results: results, Summary: summary}, nil
}

// ProcessBbox projects a geographic box onto the source grid and runs
// the window it covers.
func (p *Processor) ProcessBbox(ctx context.Context, src PixelSource, bbox geo.Bbox) (*RunResult, error) {
	gt, err := src.GeoTransform()
	if err != nil {
		return nil, err
	}
	width, height := src.Dims()
	win, err := bbox.PixelWindow(gt, width, height)
	if err != nil {
		return nil, err
	}
	if win.Empty() {
		return &RunResult{RunID: uuid.New().String(), Window: win}, nil
	}
	return p.ProcessWindow(ctx, src, win)
}

func summarize(results []PixelResult) Summary {
	s := Summary{TotalPixels: len(results)}

	pp := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Valid {
			pp = append(pp, r.PrimaryProduction)
		}
	}
	s.ValidPixels = len(pp)
	if len(pp) == 0 {
		s.MinPP = math.NaN()
		s.MaxPP = math.NaN()
		s.MeanPP = math.NaN()
		s.StdDevPP = math.NaN()
		return s
	}

	s.MeanPP, s.StdDevPP = stat.MeanStdDev(pp, nil)
	s.MinPP = pp[0]
	s.MaxPP = pp[0]
	for _, v := range pp[1:] {
		if v < s.MinPP {
			s.MinPP = v
		}
		if v > s.MaxPP {
			s.MaxPP = v
		}
	}
	return s
}
