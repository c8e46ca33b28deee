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

// Package weather serves per-cell, per-day temperature, wind, and
// precipitation from a prepared 3-D grid, and computes per-method
// "deployment day" grids from weather envelopes. Values are stored in
// a single flattened day/lat/lon array per variable.
package weather

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// GridOutOfRange is returned when a site's coordinates fall outside
// the weather grid's latitude/longitude edges.
type GridOutOfRange struct {
	Lat, Lon float64
}

func (e *GridOutOfRange) Error() string {
	return fmt.Sprintf("weather: site at (lat=%g, lon=%g) falls outside the weather grid", e.Lat, e.Lon)
}

// Grid holds a prepared 3-D weather grid: temperature in degrees C,
// wind magnitude in m/s, and precipitation in mm/day, indexed
// [day][latIdx][lonIdx] but stored flattened for cache-friendly scans.
type Grid struct {
	// LatEdges and LonEdges are the sorted cell-boundary coordinates;
	// a cell i spans [edges[i], edges[i+1]).
	LatEdges []float64
	LonEdges []float64

	// NDays is the number of days of weather data available.
	NDays int

	// Temperature, Wind, and Precip are flattened
	// [day*nLat*nLon + latIdx*nLon + lonIdx] arrays.
	Temperature []float64
	Wind        []float64
	Precip      []float64

	// UTCOffset is the number of hours to shift hourly source data by
	// before it was reshaped into this grid's daily values.
	UTCOffset int
}

func (g *Grid) nLat() int { return len(g.LatEdges) - 1 }
func (g *Grid) nLon() int { return len(g.LonEdges) - 1 }

// CellIndex returns the (latIdx, lonIdx) of the grid cell containing
// (lat, lon), or GridOutOfRange if the point falls outside the grid.
func (g *Grid) CellIndex(lat, lon float64) (latIdx, lonIdx int, err error) {
	latIdx = sort.Search(len(g.LatEdges), func(i int) bool { return g.LatEdges[i] > lat }) - 1
	lonIdx = sort.Search(len(g.LonEdges), func(i int) bool { return g.LonEdges[i] > lon }) - 1
	if latIdx < 0 || latIdx >= g.nLat() || lonIdx < 0 || lonIdx >= g.nLon() {
		return 0, 0, &GridOutOfRange{Lat: lat, Lon: lon}
	}
	return latIdx, lonIdx, nil
}

func (g *Grid) index(day, latIdx, lonIdx int) int {
	return day*g.nLat()*g.nLon() + latIdx*g.nLon() + lonIdx
}

// At returns the temperature, wind, and precipitation for the cell
// containing (lat, lon) on the given day index.
func (g *Grid) At(lat, lon float64, day int) (temp, wind, precip float64, err error) {
	latIdx, lonIdx, err := g.CellIndex(lat, lon)
	if err != nil {
		return 0, 0, 0, err
	}
	i := g.index(day, latIdx, lonIdx)
	return g.Temperature[i], g.Wind[i], g.Precip[i], nil
}

// WindMagnitude computes wind speed from its (u, v) components, the
// form ERA5-derived grids provide it in before being pre-processed
// into this grid's flattened Wind array.
func WindMagnitude(u, v float64) float64 {
	return floats.Norm([]float64{u, v}, 2)
}

// ReshapeHourly shifts an hourly value series by utcOffset hours so
// day boundaries line up with local time, returning one value per
// local day by averaging the 24 hours that fall within it. vals must
// have a length that is a multiple of 24.
func ReshapeHourly(vals []float64, utcOffset int) []float64 {
	const hoursPerDay = 24
	n := len(vals) / hoursPerDay
	out := make([]float64, n)
	for d := 0; d < n; d++ {
		var sum float64
		for h := 0; h < hoursPerDay; h++ {
			src := (d*hoursPerDay + h + utcOffset + len(vals)) % len(vals)
			sum += vals[src]
		}
		out[d] = sum / hoursPerDay
	}
	return out
}
