// Package lut loads and interpolates the precomputed downward irradiance
// table Ed0- used to drive primary-production estimates. The table holds
// spectral irradiance just below the sea surface on a fixed grid of solar
// zenith angle, ozone column, cloud optical thickness and surface albedo,
// for wavelengths 290-700 nm in 5 nm steps.
package lut

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Grid axes. Values are stored in file order theta, ozone, taucl,
// albedo, wavelength; in memory the wavelength axis is outermost so a
// full spectrum is one contiguous gather.
const (
	numThetas      = 19
	numOzone       = 10
	numTaucl       = 8
	numAlbedo      = 7
	numWavelengths = 83
)

func makeAxis(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

var (
	axisThetas      = makeAxis(numThetas, 0, 5)
	axisOzone       = makeAxis(numOzone, 100, 50)
	axisTaucl       = []float64{0, 1, 2, 4, 8, 16, 32, 64}
	axisAlbedo      = makeAxis(numAlbedo, 0.05, 0.15)
	axisWavelengths = makeAxis(numWavelengths, 290, 5)
)

// Table is the in-memory Ed0- lookup table.
type Table struct {
	ed []float64 // [wavelength][theta][ozone][taucl][albedo]
}

func flatIndex(wl, theta, ozone, taucl, alb int) int {
	return ((((wl*numThetas+theta)*numOzone+ozone)*numTaucl+taucl)*numAlbedo + alb)
}

// New builds a table from values in file order. The slice length must
// match the full grid.
func New(values []float64) (*Table, error) {
	want := numThetas * numOzone * numTaucl * numAlbedo * numWavelengths
	if len(values) != want {
		return nil, fmt.Errorf("lut: got %d values, want %d", len(values), want)
	}
	ed := make([]float64, want)
	idx := 0
	for theta := 0; theta < numThetas; theta++ {
		for ozone := 0; ozone < numOzone; ozone++ {
			for taucl := 0; taucl < numTaucl; taucl++ {
				for alb := 0; alb < numAlbedo; alb++ {
					for wl := 0; wl < numWavelengths; wl++ {
						ed[flatIndex(wl, theta, ozone, taucl, alb)] = values[idx]
						idx++
					}
				}
			}
		}
	}
	return &Table{ed: ed}, nil
}

// Parse reads a whitespace-separated text table. Tokens that do not
// parse as numbers (header lines) are skipped.
func Parse(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	want := numThetas * numOzone * numTaucl * numAlbedo * numWavelengths
	values := make([]float64, 0, want)
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("lut: reading table: %w", err)
	}
	return New(values)
}

// FromFile loads a text table from disk.
func FromFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lut: %w", err)
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("lut: %s: %w", path, err)
	}
	return t, nil
}

// Wavelengths returns the spectral axis in nm.
func Wavelengths() []float64 {
	return append([]float64(nil), axisWavelengths...)
}

// WavelengthValues returns the raw spectrum at one grid node.
func (t *Table) WavelengthValues(thetaIdx, ozoneIdx, tauclIdx, albedoIdx int) ([]float64, error) {
	switch {
	case thetaIdx < 0 || thetaIdx >= numThetas:
		return nil, fmt.Errorf("lut: theta index %d out of bounds (max %d)", thetaIdx, numThetas-1)
	case ozoneIdx < 0 || ozoneIdx >= numOzone:
		return nil, fmt.Errorf("lut: ozone index %d out of bounds (max %d)", ozoneIdx, numOzone-1)
	case tauclIdx < 0 || tauclIdx >= numTaucl:
		return nil, fmt.Errorf("lut: taucl index %d out of bounds (max %d)", tauclIdx, numTaucl-1)
	case albedoIdx < 0 || albedoIdx >= numAlbedo:
		return nil, fmt.Errorf("lut: albedo index %d out of bounds (max %d)", albedoIdx, numAlbedo-1)
	}
	out := make([]float64, numWavelengths)
	for wl := range out {
		out[wl] = t.ed[flatIndex(wl, thetaIdx, ozoneIdx, tauclIdx, albedoIdx)]
	}
	return out, nil
}

// bracket finds the lower grid index and the interpolation fraction for
// target on axis. Targets below the axis pin to the first cell with a
// zero fraction, matching the heritage Fortran routine.
func bracket(axis []float64, target float64) (int, float64) {
	if target < axis[0] {
		return 0, 0.0
	}
	idx := 0
	for i := 0; i < len(axis)-1; i++ {
		if target >= axis[i] && target < axis[i+1] {
			idx = i
			break
		}
	}
	return idx, (target - axis[idx]) / (axis[idx+1] - axis[idx])
}

// interpolate does the 4-D multilinear interpolation for one atmospheric
// state and returns the full spectrum.
func (t *Table) interpolate(thetas, ozone, taucl, albedo float64) []float64 {
	// Upper-edge clamps keep the bracketing interval inside the grid.
	if thetas >= 90.0 {
		thetas = 89.99
	}
	if ozone >= 550.0 {
		ozone = 549.99
	}
	if taucl >= 64.0 {
		taucl = 63.99
	}
	if albedo <= 0.05 {
		albedo = 0.051
	} else if albedo >= 0.95 {
		albedo = 0.9499
	}

	iTheta, rTheta := bracket(axisThetas, thetas)
	iOzone, rOzone := bracket(axisOzone, ozone)
	iTaucl, rTaucl := bracket(axisTaucl, taucl)
	iAlb, rAlb := bracket(axisAlbedo, albedo)
	albHigh := min(iAlb+1, numAlbedo-1)

	ed := make([]float64, numWavelengths)
	for wl := range ed {
		var val float64
		for i := 0; i <= 1; i++ {
			zTheta := min(iTheta+i, numThetas-1)
			wTheta := rTheta
			if i == 0 {
				wTheta = 1 - rTheta
			}
			for j := 0; j <= 1; j++ {
				zOzone := min(iOzone+j, numOzone-1)
				wOzone := rOzone
				if j == 0 {
					wOzone = 1 - rOzone
				}
				for k := 0; k <= 1; k++ {
					zTaucl := min(iTaucl+k, numTaucl-1)
					wTaucl := rTaucl
					if k == 0 {
						wTaucl = 1 - rTaucl
					}
					lo := t.ed[flatIndex(wl, zTheta, zOzone, zTaucl, iAlb)]
					hi := t.ed[flatIndex(wl, zTheta, zOzone, zTaucl, albHigh)]
					val += wTheta * wOzone * wTaucl * ((1-rAlb)*lo + rAlb*hi)
				}
			}
		}
		// Heritage overflow guard: implausible values mean a hole in
		// the table.
		if val > 10000.0 {
			val = 0.0
		}
		ed[wl] = val
	}
	return ed
}

// Ed0Minus returns the spectral downward irradiance just below the
// surface for the given solar zenith angle (degrees), ozone column (DU),
// cloud optical thickness, cloud fraction (0-1) and surface albedo. The
// cloudy and clear interpolations are blended by cloud fraction. A sun
// at or below the horizon yields zeros.
func (t *Table) Ed0Minus(thetas, ozone, taucl, cloudFrac, albedo float64) []float64 {
	out := make([]float64, numWavelengths)
	if thetas >= 90.0 {
		return out
	}
	cloud := t.interpolate(thetas, ozone, taucl, albedo)
	clear := t.interpolate(thetas, ozone, 0.0, albedo)
	for i := range out {
		out[i] = cloud[i]*cloudFrac + clear[i]*(1-cloudFrac)
	}
	return out
}
