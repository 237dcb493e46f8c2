// Package solar provides the solar geometry the irradiance lookup needs:
// sun position for a given day, hour and location, and a clear-sky
// irradiance estimate.
package solar

import "math"

const (
	d2r = math.Pi / 180.0
	r2d = 180.0 / math.Pi
)

// Position holds the solar geometry for one time and place. Angles are in
// degrees.
type Position struct {
	ZenithDeg       float64
	AzimuthDeg      float64
	AltitudeDeg     float64
	DeclinationDeg  float64
	LocalSolarNoon  float64 // decimal hours
	HourAngleDeg    float64
	AtmosphericMass float64
}

// Calculate returns the sun position for a UTC time given as day of year
// (1-365/366) and decimal hour (0-24), at the given latitude and
// longitude in decimal degrees. The formulation follows the classic
// Cooper declination / hour-angle scheme used by the irradiance lookup
// table's heritage code.
func Calculate(dayOfYear int, hour, latitude, longitude float64) Position {
	// Hours are quantized to whole minutes, matching the heritage
	// routine bit for bit.
	hr := math.Trunc(hour)
	min := math.Trunc((hour - hr) * 60.0)

	// Local solar noon for UTC input (local time meridian 0).
	lsn := 12.0 + (0.0-longitude)/15.0

	latRad := latitude * d2r
	decRad := declination(dayOfYear)

	ha := hr + min/60.0

	// Hour angle in minutes, then radians (15°/h over 60 min).
	hangle := (lsn - ha) * 60.0
	haRad := hangle * 0.0043633

	saltRad := math.Asin(math.Sin(latRad)*math.Sin(decRad) +
		math.Cos(latRad)*math.Cos(decRad)*math.Cos(haRad))
	saltDeg := saltRad * r2d

	saziRad := math.Asin(math.Cos(decRad) * math.Sin(haRad) / math.Cos(saltRad))

	var zenDeg, mass float64
	if saltDeg < 0.0 {
		// Sun below the horizon.
		zenDeg = 90.0
		mass = math.Sqrt(1229.0)
	} else {
		zenDeg = 90.0 - saltDeg
		sinAlt := math.Sin(saltRad)
		mass = math.Sqrt(1229.0+math.Pow(614.0*sinAlt, 2)) - 614.0*sinAlt
	}

	return Position{
		ZenithDeg:       zenDeg,
		AzimuthDeg:      saziRad * r2d,
		AltitudeDeg:     saltDeg,
		DeclinationDeg:  decRad * r2d,
		LocalSolarNoon:  lsn,
		HourAngleDeg:    hangle / 60.0 * 15.0,
		AtmosphericMass: mass,
	}
}

// declination returns the solar declination in radians, Cooper (1969).
func declination(dayOfYear int) float64 {
	return 23.45 * d2r * math.Sin(d2r*360.0*(284.0+float64(dayOfYear))/365.0)
}

// ZenithAzimuth returns just the zenith and azimuth angles in degrees.
func ZenithAzimuth(dayOfYear int, hour, latitude, longitude float64) (float64, float64) {
	p := Calculate(dayOfYear, hour, latitude, longitude)
	return p.ZenithDeg, p.AzimuthDeg
}
