package solar

import "math"

// Daylight bounds the sunlit part of a UTC day. Rise and Set are decimal
// hours UTC, normalized to [0, 24); near the date line the set hour can
// wrap below the rise hour. During polar day or night the hours are
// meaningless and the corresponding flag is set instead.
type Daylight struct {
	Rise, Set  float64
	PolarDay   bool
	PolarNight bool
}

// DaylightHours computes sunrise and sunset for a day of year and
// location, using the same declination and solar-noon model as Calculate
// so the sun sits on the horizon of Calculate at the returned hours.
func DaylightHours(dayOfYear int, latitude, longitude float64) Daylight {
	decRad := declination(dayOfYear)
	latRad := latitude * d2r

	cosH := -math.Tan(latRad) * math.Tan(decRad)
	if cosH < -1.0 {
		return Daylight{PolarDay: true}
	}
	if cosH > 1.0 {
		return Daylight{PolarNight: true}
	}

	// Half day length in hours (15° of hour angle per hour).
	half := math.Acos(cosH) * r2d / 15.0
	noon := 12.0 + (0.0-longitude)/15.0

	return Daylight{
		Rise: wrapHour(noon - half),
		Set:  wrapHour(noon + half),
	}
}

func wrapHour(h float64) float64 { return h - 24.0*math.Floor(h/24.0) }
