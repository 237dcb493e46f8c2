package batch

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/boreas-ocean/boreas/internal/geo"
)

// CSVSource is a PixelSource backed by a CSV extract of level-3
// observations. The header names the columns: x and y are pixel
// coordinates, sst and kd_490 are scalars, and every rrs_<nm> column
// becomes a native reflectance band. Pixels absent from the file read as
// all-missing.
type CSVSource struct {
	width, height int
	gt            geo.GeoTransform
	bands         []float64
	pixels        map[[2]int]Observation
}

// OpenCSVSource loads a CSV extract. The grid is sized by the largest
// coordinates present and georeferenced so the given box spans it
// exactly.
func OpenCSVSource(path string, bbox geo.Bbox) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening observations: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading observations %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("observations %s: no data rows", path)
	}

	header := records[0]
	colX, colY, colSST, colKd := -1, -1, -1, -1
	bandCols := make(map[int]float64)
	for i, name := range header {
		switch name {
		case "x":
			colX = i
		case "y":
			colY = i
		case "sst":
			colSST = i
		case "kd_490":
			colKd = i
		default:
			if wlStr, ok := strings.CutPrefix(name, "rrs_"); ok {
				wl, err := strconv.ParseFloat(wlStr, 64)
				if err != nil {
					return nil, fmt.Errorf("observations %s: bad band column %q", path, name)
				}
				bandCols[i] = wl
			}
		}
	}
	if colX < 0 || colY < 0 {
		return nil, fmt.Errorf("observations %s: missing x or y column", path)
	}
	if len(bandCols) == 0 {
		return nil, fmt.Errorf("observations %s: no rrs_<nm> columns", path)
	}

	src := &CSVSource{pixels: make(map[[2]int]Observation, len(records)-1)}
	for _, wl := range bandCols {
		src.bands = append(src.bands, wl)
	}
	sort.Float64s(src.bands)

	for line, rec := range records[1:] {
		x, err := strconv.Atoi(rec[colX])
		if err != nil {
			return nil, fmt.Errorf("observations %s row %d: bad x %q", path, line+2, rec[colX])
		}
		y, err := strconv.Atoi(rec[colY])
		if err != nil {
			return nil, fmt.Errorf("observations %s row %d: bad y %q", path, line+2, rec[colY])
		}
		if x < 0 || y < 0 {
			return nil, fmt.Errorf("observations %s row %d: negative pixel (%d,%d)", path, line+2, x, y)
		}

		obs := Observation{
			Rrs:   make(map[float64]float64, len(bandCols)),
			SST:   parseCell(rec, colSST),
			Kd490: parseCell(rec, colKd),
		}
		for col, wl := range bandCols {
			if v := parseCell(rec, col); !math.IsNaN(v) {
				obs.Rrs[wl] = v
			}
		}

		src.pixels[[2]int{x, y}] = obs
		if x >= src.width {
			src.width = x + 1
		}
		if y >= src.height {
			src.height = y + 1
		}
	}

	src.gt = geo.GeoTransform{
		bbox.XMin, bbox.Width() / float64(src.width), 0,
		bbox.YMax, 0, -bbox.Height() / float64(src.height),
	}
	return src, nil
}

// parseCell reads one numeric cell, treating absent or unparseable
// values as missing.
func parseCell(rec []string, col int) float64 {
	if col < 0 || col >= len(rec) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Dims returns the grid size.
func (s *CSVSource) Dims() (int, int) { return s.width, s.height }

// NativeBands returns the reflectance band centers present in the file.
func (s *CSVSource) NativeBands() []float64 {
	return append([]float64(nil), s.bands...)
}

// GeoTransform returns the affine transform spanning the source box.
func (s *CSVSource) GeoTransform() (geo.GeoTransform, error) { return s.gt, nil }

// Read returns the observation at (x, y). Absent pixels are all-missing.
func (s *CSVSource) Read(x, y int) (Observation, error) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return Observation{}, fmt.Errorf("pixel (%d,%d) outside %dx%d grid", x, y, s.width, s.height)
	}
	obs, ok := s.pixels[[2]int{x, y}]
	if !ok {
		return Observation{SST: math.NaN(), Kd490: math.NaN()}, nil
	}
	return obs, nil
}
