package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Irradiance describes the clear-sky shortwave estimate at one instant,
// together with the ephemeris quantities it was derived from.
type Irradiance struct {
	WattsPerM2      float64
	EqOfTimeMin     float64
	DeclinationDeg  float64
	AzimuthDeg      float64
	ElevationDeg    float64
	CosZenith       float64
	SunEarthDistAU  float64
}

func fixAngle(a float64) float64 { return a - 360.0*math.Floor(a/360.0) }

// ClearSky estimates clear-sky surface irradiance with the Bras (1990)
// atmospheric transmission model on top of a low-precision solar
// ephemeris. turbidity is the Bras nfac parameter, 2 for clear air up to
// 5 for smog. Useful as a sanity check against the tabulated spectral
// irradiance: integrating the table over wavelength at the same geometry
// should land in the same regime.
func ClearSky(t time.Time, lat, lon, turbidity float64) Irradiance {
	const solarConstant = 1367.0

	jd := julian.TimeToJD(t.UTC())
	T := (jd - 2451545.0) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(d2r*M)*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(d2r*2*M)*(0.019993-T*0.000101) +
		math.Sin(d2r*3*M)*0.000289
	sunLong := L0 + C
	node := 125.04 - 1934.136*T
	lambda := sunLong - 0.00569 - 0.00478*math.Sin(d2r*node)
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	decRad := math.Asin(math.Sin(d2r*eps0) * math.Sin(d2r*lambda))

	y := math.Tan(d2r*eps0/2) * math.Tan(d2r*eps0/2)
	eqTimeMin := r2d * (y*math.Sin(d2r*2*L0) -
		2*e*math.Sin(d2r*M) +
		4*e*y*math.Sin(d2r*M)*math.Cos(d2r*2*L0) -
		0.5*y*y*math.Sin(d2r*4*L0) -
		1.25*e*e*math.Sin(d2r*2*M)) * 4

	u := t.UTC()
	utcMin := float64(u.Hour()*60+u.Minute()) + float64(u.Second())/60.0
	tst := utcMin + 4*lon + eqTimeMin
	ha := tst/4 - 180
	haRad := d2r * ha

	latRad := d2r * lat
	cosZen := math.Sin(latRad)*math.Sin(decRad) + math.Cos(latRad)*math.Cos(decRad)*math.Cos(haRad)
	zenRad := math.Acos(cosZen)
	elDeg := 90 - r2d*zenRad + 0.5667 // refraction correction at the horizon

	out := Irradiance{
		EqOfTimeMin:    eqTimeMin,
		DeclinationDeg: r2d * decRad,
		ElevationDeg:   elDeg,
		CosZenith:      cosZen,
	}
	if elDeg <= 0 {
		return out
	}

	azNum := math.Sin(decRad) - math.Sin(latRad)*cosZen
	azDen := math.Cos(latRad) * math.Sin(zenRad)
	azDeg := r2d * math.Acos(azNum/azDen)
	if ha > 0 {
		azDeg = 360 - azDeg
	}
	out.AzimuthDeg = azDeg

	// Sun-Earth distance from the eccentric anomaly.
	mRad := d2r * M
	e = 0.016708617 - T*(0.000042037+T*0.0000001236)
	E := mRad + e*math.Sin(mRad)*(1+e*math.Cos(mRad))
	v := 2 * math.Atan(math.Sqrt((1+e)/(1-e))*math.Tan(E/2))
	r := (1 - e*e) / (1 + e*math.Cos(v))
	out.SunEarthDistAU = r

	io := cosZen * solarConstant / (r * r)
	m := 1.0 / (cosZen + 0.15*math.Pow(elDeg+3.885, -1.253))
	a1 := 0.128 - 0.054*math.Log(m)/math.Ln10
	sr := io * math.Exp(-turbidity*a1*m)
	if sr < 0 {
		sr = 0
	}
	out.WattsPerM2 = sr
	return out
}
