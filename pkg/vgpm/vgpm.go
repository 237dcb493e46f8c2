// Package vgpm implements the Vertically Generalized Production Model of
// Behrenfeld and Falkowski (1997), the downstream consumer of retrieved
// chlorophyll-a. Net primary production is estimated from surface
// chlorophyll, sea-surface temperature and the diffuse attenuation
// coefficient at 490 nm.
package vgpm

import "math"

// Inputs are the per-pixel quantities the model needs. A NaN marks a
// missing observation.
type Inputs struct {
	ChlorA float64 // surface chlorophyll-a, mg·m⁻³
	SST    float64 // sea-surface temperature, °C
	Kd490  float64 // diffuse attenuation at 490 nm, m⁻¹
}

// PrimaryProduction returns net primary production in mg C·m⁻²·d⁻¹. The
// second value is false when any input is missing or chlorophyll or
// attenuation is non-physical.
func PrimaryProduction(in Inputs) (float64, bool) {
	if math.IsNaN(in.ChlorA) || math.IsNaN(in.SST) || math.IsNaN(in.Kd490) {
		return 0, false
	}
	if in.ChlorA <= 0 || in.Kd490 <= 0 {
		return 0, false
	}

	pbOpt := OptimalRate(in.SST)
	zeu := EuphoticDepth(in.Kd490)
	pp := 0.66125 * pbOpt * in.ChlorA * zeu
	return pp, true
}

// OptimalRate returns Pb_opt, the maximum carbon fixation rate within the
// water column (mg C·mg Chl⁻¹·h⁻¹), from the SST polynomial.
func OptimalRate(sst float64) float64 {
	return 1.54 * math.Pow(10, 0.0275*sst-0.07*sst*sst+0.0025*sst*sst*sst)
}

// EuphoticDepth returns the 1% light depth in meters from Kd490.
func EuphoticDepth(kd490 float64) float64 {
	return 4.6 / kd490
}
