package batch

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/boreas-ocean/boreas/internal/geo"
	"github.com/boreas-ocean/boreas/pkg/qaa"
	"github.com/boreas-ocean/boreas/pkg/satbands"
)

// gridSource is an in-memory PixelSource with one observation function
// for the whole grid.
type gridSource struct {
	width, height int
	gt            geo.GeoTransform
	obs           func(x, y int) (Observation, error)
}

func (g *gridSource) Dims() (int, int)                      { return g.width, g.height }
func (g *gridSource) GeoTransform() (geo.GeoTransform, error) { return g.gt, nil }
func (g *gridSource) Read(x, y int) (Observation, error)    { return g.obs(x, y) }

func clearWaterObs() Observation {
	return Observation{
		Rrs: map[float64]float64{
			412: 0.001974, 443: 0.002570, 488: 0.002974,
			531: 0.002100, 547: 0.001670, 667: 0.000324,
		},
		SST:   15.0,
		Kd490: 0.1,
	}
}

func testProcessor(t *testing.T, workers int) *Processor {
	t.Helper()
	engine, err := qaa.NewEngine(qaa.DefaultWavelengths(), qaa.NASAConstants())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return NewProcessor(engine, satbands.New(satbands.MODISAqua), workers, zap.NewNop().Sugar())
}

func uniformSource(width, height int) *gridSource {
	return &gridSource{
		width: width, height: height,
		gt:  geo.GeoTransform{-180, 1, 0, 90, 0, -1},
		obs: func(x, y int) (Observation, error) { return clearWaterObs(), nil },
	}
}

func TestProcessWindowUniformGrid(t *testing.T) {
	p := testProcessor(t, 4)
	src := uniformSource(8, 6)
	win := geo.Window{X: 0, Y: 0, Width: 8, Height: 6}

	res, err := p.ProcessWindow(context.Background(), src, win)
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}
	if res.RunID == "" {
		t.Error("empty run id")
	}
	if len(res.Results) != 48 {
		t.Fatalf("got %d results, want 48", len(res.Results))
	}
	for i, r := range res.Results {
		if !r.Valid {
			t.Fatalf("result %d invalid, flags %#x", i, r.Flags)
		}
		if r.Chla <= 0 {
			t.Fatalf("result %d: chla = %v", i, r.Chla)
		}
	}
	// Row-major ordering.
	if res.Results[0].X != 0 || res.Results[0].Y != 0 {
		t.Errorf("results[0] at (%d,%d)", res.Results[0].X, res.Results[0].Y)
	}
	if res.Results[9].X != 1 || res.Results[9].Y != 1 {
		t.Errorf("results[9] at (%d,%d), want (1,1)", res.Results[9].X, res.Results[9].Y)
	}

	s := res.Summary
	if s.TotalPixels != 48 || s.ValidPixels != 48 {
		t.Errorf("summary pixels = %d/%d", s.ValidPixels, s.TotalPixels)
	}
	// Identical observations everywhere.
	if s.MinPP != s.MaxPP || math.Abs(s.MeanPP-s.MinPP) > 1e-9 {
		t.Errorf("uniform grid summary: min %v max %v mean %v", s.MinPP, s.MaxPP, s.MeanPP)
	}
	if s.StdDevPP > 1e-9 {
		t.Errorf("uniform grid stddev = %v", s.StdDevPP)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	src := &gridSource{
		width: 16, height: 12,
		gt: geo.GeoTransform{-180, 1, 0, 90, 0, -1},
		obs: func(x, y int) (Observation, error) {
			o := clearWaterObs()
			// Vary the field so ordering bugs show up.
			o.SST = 5.0 + float64(x)*0.3 + float64(y)*0.1
			if (x+y)%7 == 0 {
				o.Kd490 = math.NaN()
			}
			return o, nil
		},
	}
	win := geo.Window{X: 2, Y: 1, Width: 13, Height: 10}

	seq, err := testProcessor(t, 1).ProcessWindow(context.Background(), src, win)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := testProcessor(t, 8).ProcessWindow(context.Background(), src, win)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !reflect.DeepEqual(seq.Results, par.Results) {
		t.Error("parallel results differ from sequential")
	}
	if seq.Summary != par.Summary {
		t.Errorf("summaries differ: %+v vs %+v", seq.Summary, par.Summary)
	}
}

func TestMissingObservationsAreInvalidNotErrors(t *testing.T) {
	src := &gridSource{
		width: 4, height: 1,
		gt: geo.GeoTransform{-180, 1, 0, 90, 0, -1},
		obs: func(x, y int) (Observation, error) {
			o := clearWaterObs()
			switch x {
			case 1:
				o.SST = math.NaN()
			case 2:
				delete(o.Rrs, 443)
			}
			return o, nil
		},
	}
	res, err := testProcessor(t, 2).ProcessWindow(context.Background(), src,
		geo.Window{Width: 4, Height: 1})
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}
	wantValid := []bool{true, false, false, true}
	for i, want := range wantValid {
		if res.Results[i].Valid != want {
			t.Errorf("pixel %d valid = %v, want %v", i, res.Results[i].Valid, want)
		}
	}
	if res.Summary.ValidPixels != 2 {
		t.Errorf("ValidPixels = %d, want 2", res.Summary.ValidPixels)
	}
}

func TestChlorophyllUndefinedPixelIsInvalid(t *testing.T) {
	// A zero specific absorption at the blue band makes chlorophyll
	// underivable for every pixel; the flag must survive onto the result
	// and mark it invalid rather than erroring the run.
	c, err := qaa.NewOpticalConstants(
		[]float64{0.00455, 0.00635, 0.0150, 0.0596, 0.439},
		[]float64{0.00144, 0.00105, 0.000619, 0.000275, 8.28e-05},
		[]float64{0.063, 0.0, 0.0495, 0.0267, 0.00532},
		0.089, 0.125,
		[3]float64{-1.146, -1.366, -0.469},
	)
	if err != nil {
		t.Fatal(err)
	}
	engine, err := qaa.NewEngine(qaa.DefaultWavelengths(), c)
	if err != nil {
		t.Fatal(err)
	}
	p := NewProcessor(engine, satbands.New(satbands.MODISAqua), 1, zap.NewNop().Sugar())

	res, err := p.ProcessWindow(context.Background(), uniformSource(2, 1),
		geo.Window{Width: 2, Height: 1})
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}
	for i, r := range res.Results {
		if !r.Flags.Has(qaa.FlagChlorophyllUndefined) {
			t.Errorf("pixel %d flags = %#x, want ChlorophyllUndefined set", i, r.Flags)
		}
		if r.Valid {
			t.Errorf("pixel %d valid despite undefined chlorophyll", i)
		}
		if r.Chla != 0 || r.PrimaryProduction != 0 {
			t.Errorf("pixel %d carried values: chla %v pp %v", i, r.Chla, r.PrimaryProduction)
		}
	}
	if res.Summary.ValidPixels != 0 {
		t.Errorf("ValidPixels = %d, want 0", res.Summary.ValidPixels)
	}
}

func TestReadErrorAbortsRun(t *testing.T) {
	readErr := errors.New("corrupt tile")
	src := &gridSource{
		width: 4, height: 4,
		gt: geo.GeoTransform{-180, 1, 0, 90, 0, -1},
		obs: func(x, y int) (Observation, error) {
			if x == 2 && y == 3 {
				return Observation{}, readErr
			}
			return clearWaterObs(), nil
		},
	}
	_, err := testProcessor(t, 2).ProcessWindow(context.Background(), src,
		geo.Window{Width: 4, Height: 4})
	if !errors.Is(err, readErr) {
		t.Errorf("err = %v, want wrapped read error", err)
	}
}

func TestWindowOutsideGrid(t *testing.T) {
	src := uniformSource(4, 4)
	_, err := testProcessor(t, 1).ProcessWindow(context.Background(), src,
		geo.Window{X: 2, Y: 0, Width: 4, Height: 4})
	if err == nil {
		t.Error("expected bounds error")
	}
}

func TestProcessBbox(t *testing.T) {
	src := uniformSource(360, 180)
	bbox, err := geo.NewBbox(-67.2, -58.7, 70.9, 73.3)
	if err != nil {
		t.Fatal(err)
	}
	res, err := testProcessor(t, 4).ProcessBbox(context.Background(), src, bbox)
	if err != nil {
		t.Fatalf("ProcessBbox: %v", err)
	}
	want := geo.Window{X: 112, Y: 16, Width: 10, Height: 4}
	if res.Window != want {
		t.Errorf("window = %+v, want %+v", res.Window, want)
	}
	if len(res.Results) != want.Width*want.Height {
		t.Errorf("got %d results", len(res.Results))
	}
}

func TestProcessBboxDisjoint(t *testing.T) {
	src := &gridSource{
		width: 180, height: 180,
		gt:  geo.GeoTransform{0, 1, 0, 90, 0, -1}, // eastern hemisphere only
		obs: func(x, y int) (Observation, error) { return clearWaterObs(), nil },
	}
	bbox, _ := geo.NewBbox(-60, -50, 10, 20)
	res, err := testProcessor(t, 1).ProcessBbox(context.Background(), src, bbox)
	if err != nil {
		t.Fatalf("ProcessBbox: %v", err)
	}
	if len(res.Results) != 0 {
		t.Errorf("disjoint bbox produced %d results", len(res.Results))
	}
	if res.Summary.ValidPixels != 0 {
		t.Errorf("ValidPixels = %d", res.Summary.ValidPixels)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := uniformSource(64, 64)
	_, err := testProcessor(t, 2).ProcessWindow(ctx, src, geo.Window{Width: 64, Height: 64})
	if err == nil {
		t.Error("expected context error")
	}
}
