// Package qaa implements the Quasi-Analytical Algorithm (QAA v6) of
// Lee et al. (2002), following the NASA OCSSW reference implementation.
// It inverts a multi-band remote-sensing reflectance spectrum into
// inherent optical properties: total absorption and backscattering,
// decomposed into phytoplankton and detrital/dissolved fractions, plus a
// derived chlorophyll-a concentration.
//
// The retrieval is a pure function of its inputs. Degenerate inputs never
// fail it; every numeric hazard is clamped to a documented floor and
// recorded in the result's quality flags.
package qaa

import (
	"fmt"
	"math"
)

const (
	// Floor for the reference particulate backscattering when the
	// derivation goes negative, m⁻¹.
	minBbp = 0.001

	// Floor for phytoplankton absorption, m⁻¹.
	minAph = 0.001

	// Magnitude below which the decomposition denominator counts as zero.
	minDecompDenom = 1e-10

	// Bounds on the aph/a ratio at the blue band.
	aphRatioMin = 0.15
	aphRatioMax = 0.6
)

// Engine performs QAA retrievals against one wavelength set and one
// constants table. It holds no per-call state: a single Engine may serve
// any number of goroutines concurrently.
type Engine struct {
	ws     *WavelengthSet
	consts *OpticalConstants
}

// NewEngine pairs a wavelength set with its coefficient table. The two
// must agree on band count; a mismatch is a caller error, not a quality
// condition.
func NewEngine(ws *WavelengthSet, consts *OpticalConstants) (*Engine, error) {
	if ws.Len() != consts.Len() {
		return nil, fmt.Errorf("wavelength set has %d bands but constants table has %d",
			ws.Len(), consts.Len())
	}
	return &Engine{ws: ws, consts: consts}, nil
}

// Wavelengths returns the engine's wavelength set.
func (e *Engine) Wavelengths() *WavelengthSet { return e.ws }

// Constants returns the engine's coefficient table.
func (e *Engine) Constants() *OpticalConstants { return e.consts }

// Retrieve inverts an above-water remote-sensing reflectance spectrum
// (sr⁻¹, one value per band, ordered as the wavelength set) into inherent
// optical properties. The only error is a spectrum whose length does not
// match the band count; every numeric degeneracy inside the algorithm is
// resolved by clamping and flagged in the result.
func (e *Engine) Retrieve(spectrum []float64) (*Result, error) {
	n := e.ws.Len()
	if len(spectrum) != n {
		return nil, fmt.Errorf("spectrum has %d bands, wavelength set has %d", len(spectrum), n)
	}

	c := e.consts
	var flags Flags

	iLB := e.ws.Index(LowBlueBand)
	iB := e.ws.Index(BlueBand)
	iG := e.ws.Index(GreenBand)
	iRef := e.ws.Index(ReferenceBand)
	iRed := e.ws.Index(RedBand)

	// Step 0: above-water Rrs to below-water rrs.
	rrs := make([]float64, n)
	for i := 0; i < n; i++ {
		rrs[i] = spectrum[i] / (0.52 + 1.7*spectrum[i])
	}

	// Step 1: u parameter, the positive root of g1·u² + g0·u = rrs.
	g0, g1 := c.G0(), c.G1()
	u := make([]float64, n)
	for i := 0; i < n; i++ {
		u[i] = (math.Sqrt(g0*g0+4.0*g1*rrs[i]) - g0) / (2.0 * g1)
	}

	// Step 2: reference absorption from the empirical band-ratio
	// regression.
	ac := c.Acoefs()
	numer := rrs[iB] + rrs[iG]
	denom := rrs[iRef] + 5.0*rrs[iRed]*rrs[iRed]/rrs[iG]
	aux := math.Log10(numer / denom)
	rho := ac[0] + ac[1]*aux + ac[2]*aux*aux
	aRef := c.Aw(iRef) + math.Pow(10.0, rho)

	// Step 3: reference particulate backscattering, floored when the
	// water contribution exceeds the derived total.
	bbpRef := u[iRef]*aRef/(1.0-u[iRef]) - c.Bbw(iRef)
	if bbpRef < 0.0 {
		flags |= FlagNegativeBackscatter
		bbpRef = minBbp
	}

	// Step 4: spectral slope Y for particulate backscattering.
	rat := rrs[iB] / rrs[iRef]
	y := 2.0 * (1.0 - 1.2*math.Exp(-0.9*rat))
	y = math.Min(math.Max(y, 0.0), 3.0)

	// Step 5: backscattering spectrum.
	bbp := make([]float64, n)
	bb := make([]float64, n)
	for i := 0; i < n; i++ {
		bbp[i] = bbpRef * math.Pow(e.ws.Center(iRef)/e.ws.Center(i), y)
		bb[i] = bbp[i] + c.Bbw(i)
	}

	// Step 6: total absorption spectrum.
	a := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = (1.0 - u[i]) * bb[i] / u[i]
	}

	// Steps 7-8: decomposition coefficients. S is the spectral slope of
	// detrital/dissolved absorption, zeta its ratio between the blue and
	// low-blue bands.
	symbol := 0.74 + 0.2/(0.8+rat)
	s := 0.015 + 0.002/(0.6+rat)
	zeta := math.Exp(s * (e.ws.Center(iB) - e.ws.Center(iLB)))

	decompDenom := zeta - symbol
	if math.Abs(decompDenom) < minDecompDenom {
		flags |= FlagDegenerateDecomposition
		decompDenom = minDecompDenom
	}

	// Step 9, provisional pass: solve adg at the blue band from the
	// low-blue/blue pair, then propagate.
	dif1 := a[iLB] - symbol*a[iB]
	dif2 := c.Aw(iLB) - symbol*c.Aw(iB)
	adgBlue := (dif1 - dif2) / decompDenom

	adg, aph, floored := e.decompose(adgBlue, s, a)
	if floored {
		flags |= FlagNegativeAph
	}

	// Step 10: consistency check on the phytoplankton fraction at the
	// blue band. Out of bounds forces a full re-derivation; the refined
	// spectra completely replace the provisional ones.
	x1 := aph[iB] / a[iB]
	if x1 < aphRatioMin || x1 > aphRatioMax || math.IsNaN(x1) || math.IsInf(x1, 0) {
		flags |= FlagDecompositionOutOfBounds
		x1 = -0.8 + 1.4*(a[iB]-c.Aw(iB))/(a[iLB]-c.Aw(iLB))
		x1 = math.Min(math.Max(x1, aphRatioMin), aphRatioMax)

		// The refined pass floors silently: only the provisional pass
		// reports FlagNegativeAph, matching the OCSSW reference.
		adgBlue = a[iB] - a[iB]*x1 - c.Aw(iB)
		adg, aph, _ = e.decompose(adgBlue, s, a)
	}

	// Step 11: chlorophyll-a from specific phytoplankton absorption.
	chla := 0.0
	if c.Aphstar(iB) > 0.0 && !math.IsNaN(aph[iB]) && !math.IsInf(aph[iB], 0) {
		chla = aph[iB] / c.Aphstar(iB)
	} else {
		flags |= FlagChlorophyllUndefined
	}

	return &Result{
		Wavelengths:    e.ws.Centers(),
		Rrs:            rrs,
		U:              u,
		A:              a,
		Aph:            aph,
		Adg:            adg,
		Bb:             bb,
		Bbp:            bbp,
		Flags:          flags,
		Chla:           chla,
		ReferenceIndex: iRef,
		SpectralSlopeY: y,
		SpectralSlopeS: s,
	}, nil
}

// decompose propagates adg from its blue-band value across all bands with
// slope s and splits total absorption into adg and aph. Bands where aph
// would go negative are floored to minAph, with adg recomputed to keep
// a = aw + adg + aph closed (and itself floored at zero).
func (e *Engine) decompose(adgBlue, s float64, a []float64) (adg, aph []float64, floored bool) {
	n := e.ws.Len()
	iB := e.ws.Index(BlueBand)
	c := e.consts

	adg = make([]float64, n)
	aph = make([]float64, n)
	for i := 0; i < n; i++ {
		adg[i] = adgBlue * math.Exp(s*(e.ws.Center(iB)-e.ws.Center(i)))
		aph[i] = a[i] - adg[i] - c.Aw(i)
		if aph[i] < 0.0 {
			floored = true
			aph[i] = minAph
			adg[i] = a[i] - minAph - c.Aw(i)
			if adg[i] < 0.0 {
				adg[i] = 0.0
			}
		}
	}
	return adg, aph, floored
}
