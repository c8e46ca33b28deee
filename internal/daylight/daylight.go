/*
Copyright © 2026 the LDAR-Sim-Go authors.
This file is part of ldarsim.

ldarsim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ldarsim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ldarsim.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package daylight computes sunrise, sunset, and day length for a
// given latitude/longitude/date using the NOAA solar position
// approximation. No library in the retrieval pack covers astronomical
// calculations, so this is implemented directly against the standard
// library (see DESIGN.md).
package daylight

import (
	"math"
	"time"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Hours computes the number of daylight hours at (lat, lon) on the
// given date. It returns 24 for the polar-day case and 0 for the
// polar-night case; callers are
// responsible for clamping to a maximum workday length, per the
// ScheduleInfeasible rule.
func Hours(lat, lon float64, date time.Time) float64 {
	n := float64(date.YearDay())

	// Fractional year, in radians.
	gamma := 2 * math.Pi / 365 * (n - 1)

	// Solar declination angle, in radians (Spencer 1971 approximation,
	// as used by NOAA's solar calculator).
	decl := 0.006918 -
		0.399912*math.Cos(gamma) + 0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) + 0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) + 0.00148*math.Sin(3*gamma)

	latRad := lat * degToRad

	cosH := -math.Tan(latRad) * math.Tan(decl)
	switch {
	case cosH <= -1:
		// Sun never sets: polar day.
		return 24
	case cosH >= 1:
		// Sun never rises: polar night.
		return 0
	}
	hourAngle := math.Acos(cosH) * radToDeg // degrees
	return 2 * hourAngle / 15               // 15 degrees per hour
}

// SunriseSunset returns sunrise and sunset times on date at (lat, lon),
// placed symmetrically around 12:00 clock time in date's location (half
// the daylight hours either side), along with the number of daylight
// hours. lon does not shift the times toward solar noon.
func SunriseSunset(lat, lon float64, date time.Time) (sunrise, sunset time.Time, daylightHours float64) {
	daylightHours = Hours(lat, lon, date)
	midday := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, date.Location())
	half := time.Duration(daylightHours/2*float64(time.Hour))
	return midday.Add(-half), midday.Add(half), daylightHours
}
