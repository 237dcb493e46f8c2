package qaa

import (
	"fmt"
	"math"
)

// OpticalConstants holds the fixed physical and empirical coefficients the
// inversion needs: pure-water absorption aw, pure-water backscattering bbw,
// and specific phytoplankton absorption aphstar, all per band and index
// aligned with a WavelengthSet, plus the scalar reflectance model
// coefficients g0/g1 and the reference-absorption regression coefficients.
// The table is immutable after construction and safe to share across
// concurrent retrievals.
type OpticalConstants struct {
	aw      []float64
	bbw     []float64
	aphstar []float64
	g0, g1  float64
	acoefs  [3]float64
}

// NewOpticalConstants builds a constants table. The three per-band slices
// must have equal length.
func NewOpticalConstants(aw, bbw, aphstar []float64, g0, g1 float64, acoefs [3]float64) (*OpticalConstants, error) {
	if len(aw) != len(bbw) || len(aw) != len(aphstar) {
		return nil, fmt.Errorf("coefficient arrays must share one length: aw=%d bbw=%d aphstar=%d",
			len(aw), len(bbw), len(aphstar))
	}
	if len(aw) == 0 {
		return nil, fmt.Errorf("coefficient arrays are empty")
	}
	return &OpticalConstants{
		aw:      append([]float64(nil), aw...),
		bbw:     append([]float64(nil), bbw...),
		aphstar: append([]float64(nil), aphstar...),
		g0:      g0,
		g1:      g1,
		acoefs:  acoefs,
	}, nil
}

// Len returns the band count of the table.
func (c *OpticalConstants) Len() int { return len(c.aw) }

// Aw returns pure-water absorption (m⁻¹) at band i.
func (c *OpticalConstants) Aw(i int) float64 { return c.aw[i] }

// Bbw returns pure-water backscattering (m⁻¹) at band i.
func (c *OpticalConstants) Bbw(i int) float64 { return c.bbw[i] }

// Aphstar returns specific phytoplankton absorption (m²·mg⁻¹) at band i.
func (c *OpticalConstants) Aphstar(i int) float64 { return c.aphstar[i] }

// G0 returns the first reflectance model coefficient.
func (c *OpticalConstants) G0() float64 { return c.g0 }

// G1 returns the second reflectance model coefficient.
func (c *OpticalConstants) G1() float64 { return c.g1 }

// Acoefs returns the reference-absorption regression coefficients.
func (c *OpticalConstants) Acoefs() [3]float64 { return c.acoefs }

// NASAConstants returns the OCSSW reference coefficient table for the
// canonical 410/443/490/555/670 nm band set. These are the exact values
// of the NASA qaa.c reference implementation and are what conformance
// comparisons run against.
func NASAConstants() *OpticalConstants {
	c, err := NewOpticalConstants(
		[]float64{0.00455, 0.00635, 0.0150, 0.0596, 0.439},
		[]float64{0.00144, 0.00105, 0.000619, 0.000275, 8.28e-05},
		[]float64{0.063, 0.0632, 0.0495, 0.0267, 0.00532},
		0.089, 0.125,
		[3]float64{-1.146, -1.366, -0.469},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Laboratory coefficient tables covering the band centers of the supported
// sensors. Water absorption from Pope and Fry (1997), water backscattering
// from Zhang et al. (2009), specific phytoplankton absorption from Bricaud
// et al. (1995, 1998).
var (
	awTable = map[float64]float64{
		410: 0.00473, 412: 0.00455056, 443: 0.00706914, 469: 0.0104326,
		486: 0.0139217, 488: 0.0145167, 490: 0.015, 510: 0.0325,
		531: 0.0439153, 547: 0.0531686, 551: 0.0577925, 555: 0.0596,
		645: 0.325, 667: 0.434888, 670: 0.439, 671: 0.442831, 678: 0.462323,
	}
	bbwTable = map[float64]float64{
		410: 0.00339515, 412: 0.003325, 443: 0.002436175, 469: 0.001908315,
		486: 0.0016387, 488: 0.001610175, 490: 0.001582255, 510: 0.001333585,
		531: 0.001122495, 547: 0.000988925, 551: 0.000958665, 555: 0.000929535,
		645: 0.00049015, 667: 0.000425025, 670: 0.000416998, 671: 0.000414364,
		678: 0.000396492,
	}
	aphstarTable = map[float64]float64{
		410: 0.054343207, 412: 0.055765253, 443: 0.063251586, 469: 0.051276462,
		486: 0.041649554, 488: 0.040647623, 490: 0.039546143, 510: 0.025104817,
		531: 0.015745358, 547: 0.011477324, 551: 0.010425453, 555: 0.009381989,
		645: 0.008966522, 667: 0.019877564, 670: 0.022861409, 671: 0.023645549,
		678: 0.024389358,
	}
)

// LaboratoryConstants builds a coefficient table for an arbitrary
// wavelength set by picking, per band, the laboratory value at the closest
// tabulated wavelength. This is the production alternative to the OCSSW
// reference table; which one a deployment uses is a configuration choice.
func LaboratoryConstants(ws *WavelengthSet) (*OpticalConstants, error) {
	n := ws.Len()
	aw := make([]float64, n)
	bbw := make([]float64, n)
	aphstar := make([]float64, n)
	for i := 0; i < n; i++ {
		aw[i] = closestTabulated(awTable, ws.Center(i))
		bbw[i] = closestTabulated(bbwTable, ws.Center(i))
		aphstar[i] = closestTabulated(aphstarTable, ws.Center(i))
	}
	return NewOpticalConstants(aw, bbw, aphstar, 0.08945, 0.1247,
		[3]float64{-1.146, -1.366, -0.469})
}

func closestTabulated(table map[float64]float64, target float64) float64 {
	bestWl := math.Inf(1)
	bestDist := math.Inf(1)
	for wl := range table {
		d := math.Abs(wl - target)
		// Ties break toward the shorter wavelength so lookups are
		// deterministic across map iteration orders.
		if d < bestDist || (d == bestDist && wl < bestWl) {
			bestDist = d
			bestWl = wl
		}
	}
	return table[bestWl]
}
