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

import "github.com/im3s/ldarsim/internal/leak"

// repairSweep runs two independent repair checks per day:
//  1. tag-based repair: a tagged leak is repaired once
//     today - date_tagged >= repair_delay + the tagging method's
//     reporting delay (zero for the operator).
//  2. natural repair (NRd): an untagged leak is independently repaired
//     once it has been active for NRd days or more, the baseline
//     repair rate of a world with zero LDAR activity. Each leak is
//     repaired once by whichever path reaches it first.
func (s *Simulation) repairSweep(stats *DayStats) {
	for _, id := range s.Tags.IDs() {
		l, ok := s.Leaks[id]
		if !ok || l.Status != leak.Active {
			s.Tags.Remove(id)
			continue
		}
		delay := s.RepairDelay
		if l.TaggedByCompany != "operator" {
			delay += s.CompanyDelays[l.TaggedByCompany]
		}
		sinceFound := int(s.Date.Sub(l.DateTagged).Hours() / 24)
		if sinceFound >= delay {
			l.RepairDelay = sinceFound
			l.Repair(s.Date)
			s.Tags.Remove(id)
			s.bumpRepairedCounter(l)
			stats.TotalDailyCostUSD += s.RepairCostUSD
		}
	}

	if s.NRd <= 0 {
		return
	}
	// A naturally-repaired leak is the one case where status=repaired
	// with date_tagged unset: nothing ever detected it, the facility
	// just fixed it in the course of normal operations.
	for _, l := range s.Leaks {
		if l.Status != leak.Active || l.Tagged {
			continue
		}
		if l.DaysActive >= s.NRd {
			l.TaggedByCompany = ""
			l.Repair(s.Date)
			s.bumpRepairedCounter(l)
		}
	}
}

func (s *Simulation) bumpRepairedCounter(l *leak.Leak) {
	if st := s.SiteByID(l.FacilityID); st != nil {
		st.RepairedLeaks++
		if st.ActiveLeaks > 0 {
			st.ActiveLeaks--
		}
	}
}
