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

package crew

import (
	"math"
	"math/rand"

	"github.com/im3s/ldarsim/internal/leak"
)

// SpeedTable draws a travel speed (km/h) from a configured list,
// used to compute travel time when route planning is enabled.
type SpeedTable struct {
	speedsKmh []float64
}

// NewSpeedTable builds a SpeedTable from a configured list of speeds.
func NewSpeedTable(speedsKmh []float64) *SpeedTable {
	cp := make([]float64, len(speedsKmh))
	copy(cp, speedsKmh)
	return &SpeedTable{speedsKmh: cp}
}

// defaultSpeedKmh and defaultOffsiteMinutes stand in when a method's
// configuration omits a speed list or an offsite-time table.
const (
	defaultSpeedKmh       = 60.0
	defaultOffsiteMinutes = 30.0
)

// TravelMinutes draws a speed and returns the minutes needed to cover
// distanceKm at that speed. A nil or empty table falls back to a
// fixed default speed.
func (t *SpeedTable) TravelMinutes(distanceKm float64, rng *rand.Rand) float64 {
	speed := defaultSpeedKmh
	if t != nil && len(t.speedsKmh) > 0 {
		speed = t.speedsKmh[rng.Intn(len(t.speedsKmh))]
	}
	if speed <= 0 {
		return 0
	}
	return distanceKm / speed * 60
}

// HaversineKm returns the great-circle distance in kilometers between
// two (lat, lon) points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// OffsiteTimeSampler draws a non-routed, empirical offsite travel time
// in minutes, used when route planning is disabled.
type OffsiteTimeSampler struct {
	sampler *leak.EmpiricalSampler
}

// NewOffsiteTimeSampler wraps an empirical offsite-time sampler.
func NewOffsiteTimeSampler(s *leak.EmpiricalSampler) *OffsiteTimeSampler {
	return &OffsiteTimeSampler{sampler: s}
}

// TravelMinutes draws one offsite travel time in minutes, falling
// back to a fixed default when no empirical table was configured.
func (o *OffsiteTimeSampler) TravelMinutes(rng *rand.Rand) float64 {
	if o == nil || o.sampler == nil {
		return defaultOffsiteMinutes
	}
	return o.sampler.Sample(rng)
}
