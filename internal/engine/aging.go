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

package engine

import (
	"sort"

	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/site"
)

// activeLeaksSlice returns every currently-active leak in leak-ID
// order, for steps that need a plain slice (aging, operator
// detection, reporting); the fixed order keeps the operator's
// per-leak RNG draws identical across reruns of the same seed.
func (s *Simulation) activeLeaksSlice() []*leak.Leak {
	out := make([]*leak.Leak, 0, len(s.Leaks))
	for _, l := range s.Leaks {
		if l.Status == leak.Active {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ageLeaks increments days_active on every active leak and accumulates
// its emissions for the day into its site's total, incrementally
// rather than only at finalize. Leaks are visited in ID order so the
// float accumulation order, and therefore the summed totals, are
// identical across reruns of the same seed.
func (s *Simulation) ageLeaks(stats *DayStats) {
	siteByID := make(map[string]*site.Site, len(s.Sites))
	for _, st := range s.Sites {
		siteByID[st.FacilityID] = st
	}

	active := s.activeLeaksSlice()
	for _, l := range active {
		l.DaysActive++
		emitted := l.Rate * secondsPerDay / gramsPerKg
		stats.DailyEmissionsKg += emitted

		if st, ok := siteByID[l.FacilityID]; ok {
			st.TotalEmissionsKg += emitted
		}
	}
	stats.ActiveLeaks = len(active)
}

// spawnNewLeaks runs the per-site Bernoulli(LPR) new-leak draw and
// appends any generated leaks, recording the count spawned today.
func (s *Simulation) spawnNewLeaks(stats *DayStats) error {
	for _, st := range s.Sites {
		l, err := s.spawnNewLeak(st)
		if err != nil {
			return err
		}
		if l != nil {
			stats.NewLeaks++
			st.ActiveLeaks++
		}
	}
	return nil
}
