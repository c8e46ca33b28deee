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

package company

import "time"

// WatchlistEntry keeps the full history of measured rates for one
// site, for the life of the simulation: the redundancy filter
// "mean" must be a true running mean over the whole run, not a
// windowed one, so entries are never pruned.
type WatchlistEntry struct {
	Dates         []time.Time
	MeasuredRates []float64
}

// Append records a new (date, measured_rate) observation.
func (e *WatchlistEntry) Append(date time.Time, rate float64) {
	e.Dates = append(e.Dates, date)
	e.MeasuredRates = append(e.MeasuredRates, rate)
}

// EffectiveRate computes a site's effective rate under the configured
// redundancy filter: "recent" (last measurement), "max", or "mean"
// (the running mean of the full history).
func (e *WatchlistEntry) EffectiveRate(filter string) float64 {
	if len(e.MeasuredRates) == 0 {
		return 0
	}
	switch filter {
	case "max":
		max := e.MeasuredRates[0]
		for _, r := range e.MeasuredRates[1:] {
			if r > max {
				max = r
			}
		}
		return max
	case "mean":
		var sum float64
		for _, r := range e.MeasuredRates {
			sum += r
		}
		return sum / float64(len(e.MeasuredRates))
	default: // "recent"
		return e.MeasuredRates[len(e.MeasuredRates)-1]
	}
}

// Watchlist maps a facility_ID to its observation history.
type Watchlist map[string]*WatchlistEntry

// Entry returns the WatchlistEntry for facilityID, creating it on
// first access.
func (w Watchlist) Entry(facilityID string) *WatchlistEntry {
	e, ok := w[facilityID]
	if !ok {
		e = &WatchlistEntry{}
		w[facilityID] = e
	}
	return e
}
