// Package satbands maps ocean-color sensor bands onto the canonical
// wavelengths the inversion runs at. Level-3 products are distributed per
// native sensor band; the retrieval wants one reflectance per canonical
// band center, so each canonical wavelength is served by the nearest
// native band.
package satbands

import (
	"fmt"
	"math"

	"github.com/boreas-ocean/boreas/pkg/qaa"
)

// Sensor identifies a supported ocean-color instrument.
type Sensor int

const (
	// SeaWiFS carries visible bands 1-6.
	SeaWiFS Sensor = iota
	// MODISAqua carries ocean bands 8-13.
	MODISAqua
)

var sensorWavelengths = map[Sensor][]float64{
	SeaWiFS:   {412, 443, 490, 510, 555, 670},
	MODISAqua: {412, 443, 488, 531, 547, 667},
}

func (s Sensor) String() string {
	switch s {
	case SeaWiFS:
		return "SeaWiFS"
	case MODISAqua:
		return "MODIS-Aqua"
	}
	return fmt.Sprintf("Sensor(%d)", int(s))
}

// ParseSensor resolves a configuration name to a Sensor.
func ParseSensor(name string) (Sensor, error) {
	switch name {
	case "seawifs", "SeaWiFS":
		return SeaWiFS, nil
	case "modis", "modis-aqua", "MODIS-Aqua":
		return MODISAqua, nil
	}
	return 0, fmt.Errorf("unknown sensor %q", name)
}

// Bands holds a sensor's native band centers.
type Bands struct {
	sensor      Sensor
	wavelengths []float64
}

// New returns the band table for a sensor.
func New(sensor Sensor) *Bands {
	return &Bands{sensor: sensor, wavelengths: sensorWavelengths[sensor]}
}

// Sensor returns the instrument this table belongs to.
func (b *Bands) Sensor() Sensor { return b.sensor }

// Wavelengths returns the native band centers in nm.
func (b *Bands) Wavelengths() []float64 {
	return append([]float64(nil), b.wavelengths...)
}

// ClosestBand returns the native band center nearest to target.
func (b *Bands) ClosestBand(target float64) float64 {
	best := b.wavelengths[0]
	bestDist := math.Abs(best - target)
	for _, wl := range b.wavelengths[1:] {
		if d := math.Abs(wl - target); d < bestDist {
			best = wl
			bestDist = d
		}
	}
	return best
}

// MapSpectrum assembles a spectrum ordered as the given wavelength set
// from per-native-band reflectances. Every canonical band center is
// served by the nearest native band; a missing native band is an error
// because the inversion needs a complete spectrum.
func (b *Bands) MapSpectrum(ws *qaa.WavelengthSet, rrs map[float64]float64) ([]float64, error) {
	out := make([]float64, ws.Len())
	for i := 0; i < ws.Len(); i++ {
		native := b.ClosestBand(ws.Center(i))
		v, ok := rrs[native]
		if !ok {
			return nil, fmt.Errorf("no %s reflectance at %.0f nm (serving %.0f nm)",
				b.sensor, native, ws.Center(i))
		}
		out[i] = v
	}
	return out, nil
}
