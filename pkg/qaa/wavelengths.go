package qaa

import (
	"fmt"
	"math"
)

// BandRole identifies the semantic role a band plays in the inversion.
// Roles are resolved once from the wavelength set so the algorithm never
// relies on raw array positions.
type BandRole int

const (
	// LowBlueBand is the shortest-wavelength band (410 nm nominal),
	// paired with BlueBand in the absorption decomposition.
	LowBlueBand BandRole = iota
	// BlueBand (443 nm nominal) anchors the decomposition and chlorophyll.
	BlueBand
	// GreenBand (490 nm nominal) enters the reference-absorption ratio.
	GreenBand
	// ReferenceBand (555 nm nominal) is where the reference absorption
	// and backscattering are derived.
	ReferenceBand
	// RedBand (670 nm nominal) corrects the reference-absorption ratio.
	RedBand
)

// Nominal band centers each role is resolved against, in nm.
var roleTargets = map[BandRole]float64{
	LowBlueBand:   410,
	BlueBand:      443,
	GreenBand:     490,
	ReferenceBand: 555,
	RedBand:       670,
}

// WavelengthSet is a fixed, ordered sequence of band centers in nanometers.
// Band roles are resolved to the closest center at construction time.
// A WavelengthSet is immutable once built and safe to share across
// concurrent retrievals.
type WavelengthSet struct {
	centers []float64
	roles   map[BandRole]int
}

// NewWavelengthSet builds a wavelength set from strictly increasing band
// centers. At least five bands are required so that every role resolves
// to a distinct band.
func NewWavelengthSet(centers []float64) (*WavelengthSet, error) {
	if len(centers) < 5 {
		return nil, fmt.Errorf("wavelength set needs at least 5 bands, got %d", len(centers))
	}
	for i := 1; i < len(centers); i++ {
		if centers[i] <= centers[i-1] {
			return nil, fmt.Errorf("band centers must be strictly increasing: %.1f after %.1f",
				centers[i], centers[i-1])
		}
	}

	ws := &WavelengthSet{
		centers: append([]float64(nil), centers...),
		roles:   make(map[BandRole]int, len(roleTargets)),
	}
	for role, target := range roleTargets {
		ws.roles[role] = closestIndex(ws.centers, target)
	}

	seen := make(map[int]BandRole, len(ws.roles))
	for role, idx := range ws.roles {
		if other, dup := seen[idx]; dup {
			return nil, fmt.Errorf("band roles %v and %v both resolve to %.0f nm",
				other, role, ws.centers[idx])
		}
		seen[idx] = role
	}

	return ws, nil
}

// DefaultWavelengths returns the canonical five-band set used by the
// SeaWiFS/MODIS heritage inversion: 410, 443, 490, 555, 670 nm.
func DefaultWavelengths() *WavelengthSet {
	ws, err := NewWavelengthSet([]float64{410, 443, 490, 555, 670})
	if err != nil {
		panic(err)
	}
	return ws
}

// Len returns the number of bands.
func (ws *WavelengthSet) Len() int { return len(ws.centers) }

// Center returns the band center in nm at position i.
func (ws *WavelengthSet) Center(i int) float64 { return ws.centers[i] }

// Centers returns a copy of all band centers.
func (ws *WavelengthSet) Centers() []float64 {
	return append([]float64(nil), ws.centers...)
}

// Index returns the band position a role resolved to.
func (ws *WavelengthSet) Index(role BandRole) int { return ws.roles[role] }

// closestIndex returns the position whose center is nearest to target.
func closestIndex(centers []float64, target float64) int {
	best := 0
	bestDist := math.Abs(centers[0] - target)
	for i := 1; i < len(centers); i++ {
		if d := math.Abs(centers[i] - target); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func (r BandRole) String() string {
	switch r {
	case LowBlueBand:
		return "low-blue"
	case BlueBand:
		return "blue"
	case GreenBand:
		return "green"
	case ReferenceBand:
		return "reference"
	case RedBand:
		return "red"
	}
	return fmt.Sprintf("BandRole(%d)", int(r))
}
