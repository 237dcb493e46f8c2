package qaa

import (
	"fmt"
	"io"
	"strings"
)

// Result carries everything one retrieval derives. All slices are index
// aligned with Wavelengths. A Result is built once per retrieval and not
// modified afterward.
type Result struct {
	Wavelengths []float64 // band centers, nm
	Rrs         []float64 // below-water reflectance, sr⁻¹
	U           []float64 // u parameter
	A           []float64 // total absorption, m⁻¹
	Aph         []float64 // phytoplankton absorption, m⁻¹
	Adg         []float64 // detrital + dissolved absorption, m⁻¹
	Bb          []float64 // total backscattering, m⁻¹
	Bbp         []float64 // particulate backscattering, m⁻¹

	Flags          Flags
	Chla           float64 // chlorophyll-a, mg·m⁻³
	ReferenceIndex int     // band position of the reference wavelength
	SpectralSlopeY float64 // bbp spectral slope
	SpectralSlopeS float64 // adg spectral slope
}

// ReferenceWavelength returns the reference band center in nm.
func (r *Result) ReferenceWavelength() float64 {
	return r.Wavelengths[r.ReferenceIndex]
}

// AphRatio returns the phytoplankton fraction of total absorption at the
// blue band position given.
func (r *Result) AphRatio(blueIndex int) float64 {
	return r.Aph[blueIndex] / r.A[blueIndex]
}

// WriteDiagnostic writes the result in the fixed text format shared with
// the OCSSW C comparison harness: one labeled line per array with
// 10-decimal values, then flags, chla, reference wavelength and the two
// spectral slopes. The format is byte-stable so independent
// implementations can be diffed directly.
func (r *Result) WriteDiagnostic(w io.Writer) error {
	var b strings.Builder

	b.WriteString("Wavelengths: ")
	for _, wl := range r.Wavelengths {
		fmt.Fprintf(&b, "%.0f ", wl)
	}
	b.WriteByte('\n')

	arrays := []struct {
		label string
		vals  []float64
	}{
		{"rrs", r.Rrs},
		{"u", r.U},
		{"a", r.A},
		{"aph", r.Aph},
		{"adg", r.Adg},
		{"bb", r.Bb},
		{"bbp", r.Bbp},
	}
	for _, arr := range arrays {
		b.WriteString(arr.label)
		b.WriteString(": ")
		for _, v := range arr.vals {
			fmt.Fprintf(&b, "%.10f ", v)
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "flags: %d\n", r.Flags)
	fmt.Fprintf(&b, "chla: %.10f\n", r.Chla)
	fmt.Fprintf(&b, "reference_wl: %.0f\n", r.ReferenceWavelength())
	fmt.Fprintf(&b, "spectral_slope_y: %.10f\n", r.SpectralSlopeY)
	fmt.Fprintf(&b, "spectral_slope_s: %.10f\n", r.SpectralSlopeS)

	_, err := io.WriteString(w, b.String())
	return err
}
