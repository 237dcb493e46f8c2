package batch

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/boreas-ocean/boreas/internal/geo"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "obs.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const obsCSV = `x,y,rrs_412,rrs_443,rrs_488,rrs_531,rrs_547,rrs_667,sst,kd_490
0,0,0.001974,0.002570,0.002974,0.002100,0.001670,0.000324,15.0,0.1
1,0,0.001974,0.002570,0.002974,0.002100,0.001670,0.000324,14.5,0.09
1,1,0.001974,0.002570,0.002974,0.002100,0.001670,0.000324,,0.09
`

func TestOpenCSVSource(t *testing.T) {
	bbox, _ := geo.NewBbox(-67.2, -58.7, 70.9, 73.3)
	src, err := OpenCSVSource(writeCSV(t, obsCSV), bbox)
	if err != nil {
		t.Fatalf("OpenCSVSource: %v", err)
	}

	w, h := src.Dims()
	if w != 2 || h != 2 {
		t.Errorf("Dims = %dx%d, want 2x2", w, h)
	}
	bands := src.NativeBands()
	if len(bands) != 6 || bands[0] != 412 || bands[5] != 667 {
		t.Errorf("NativeBands = %v", bands)
	}

	obs, err := src.Read(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if obs.SST != 15.0 || obs.Kd490 != 0.1 {
		t.Errorf("scalars = %v, %v", obs.SST, obs.Kd490)
	}
	if obs.Rrs[443] != 0.002570 {
		t.Errorf("rrs_443 = %v", obs.Rrs[443])
	}

	// Empty SST cell parses as missing.
	obs, err = src.Read(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(obs.SST) {
		t.Errorf("empty sst = %v, want NaN", obs.SST)
	}

	// Pixel absent from the file.
	obs, err = src.Read(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(obs.Rrs) != 0 || !math.IsNaN(obs.SST) {
		t.Errorf("absent pixel = %+v", obs)
	}

	if _, err := src.Read(5, 5); err == nil {
		t.Error("expected out-of-bounds error")
	}

	gt, err := src.GeoTransform()
	if err != nil {
		t.Fatal(err)
	}
	if gt[0] != -67.2 || gt[3] != 73.3 {
		t.Errorf("origin = (%v, %v)", gt[0], gt[3])
	}
	if gt[1] <= 0 || gt[5] >= 0 {
		t.Errorf("pixel sizes = (%v, %v)", gt[1], gt[5])
	}
}

func TestOpenCSVSourceRejections(t *testing.T) {
	bbox, _ := geo.NewBbox(0, 1, 0, 1)
	tests := []struct {
		name string
		body string
	}{
		{"no data rows", "x,y,rrs_443\n"},
		{"missing coordinates", "col,rrs_443\n1,0.002\n"},
		{"no band columns", "x,y,sst\n0,0,15\n"},
		{"bad band name", "x,y,rrs_blue\n0,0,0.002\n"},
		{"negative pixel", "x,y,rrs_443\n-1,0,0.002\n"},
		{"non-integer pixel", "x,y,rrs_443\n1.5,0,0.002\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := OpenCSVSource(writeCSV(t, tt.body), bbox); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := OpenCSVSource("/no/such/file.csv", bbox); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCSVSourceEndToEnd(t *testing.T) {
	bbox, _ := geo.NewBbox(-67.2, -58.7, 70.9, 73.3)
	src, err := OpenCSVSource(writeCSV(t, obsCSV), bbox)
	if err != nil {
		t.Fatal(err)
	}
	res, err := testProcessor(t, 2).ProcessBbox(context.Background(), src, bbox)
	if err != nil {
		t.Fatalf("ProcessBbox: %v", err)
	}
	if res.Summary.TotalPixels != 4 {
		t.Errorf("TotalPixels = %d, want 4", res.Summary.TotalPixels)
	}
	// Two fully observed pixels; one lacks SST, one is absent.
	if res.Summary.ValidPixels != 2 {
		t.Errorf("ValidPixels = %d, want 2", res.Summary.ValidPixels)
	}
}
