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

package daylight

import (
	"testing"
	"time"
)

func TestHoursEquatorIsAboutTwelve(t *testing.T) {
	d := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC) // equinox
	h := Hours(0, -114, d)
	if h < 11.9 || h > 12.1 {
		t.Errorf("equatorial equinox daylight = %v hours, want ~12", h)
	}
}

func TestHoursPolarDayAndNight(t *testing.T) {
	summerSolstice := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	if h := Hours(80, 0, summerSolstice); h != 24 {
		t.Errorf("polar day: got %v hours, want 24", h)
	}
	winterSolstice := time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC)
	if h := Hours(80, 0, winterSolstice); h != 0 {
		t.Errorf("polar night: got %v hours, want 0", h)
	}
}

func TestSunriseBeforeSunset(t *testing.T) {
	d := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	sunrise, sunset, hours := SunriseSunset(51.05, -114.07, d) // Calgary
	if !sunrise.Before(sunset) {
		t.Errorf("sunrise %v should be before sunset %v", sunrise, sunset)
	}
	if hours <= 0 || hours >= 24 {
		t.Errorf("daylightHours = %v, want between 0 and 24", hours)
	}
}
