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
	"context"
	"fmt"
	"math/rand"
)

const (
	secondsPerDay = 86400.0
	gramsPerKg    = 1000.0
)

// Step advances the simulation by one day, in the fixed order: leak
// aging, new-leak spawn, companies in declared order, the operator,
// the repair sweep, and daily reporting.
func (s *Simulation) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.SeedPlan != nil && s.Day < len(s.SeedPlan) {
		s.Rng = rand.New(rand.NewSource(s.SeedPlan[s.Day]))
	}

	stats := DayStats{Date: s.Date}

	s.ageLeaks(&stats)
	if err := s.spawnNewLeaks(&stats); err != nil {
		return fmt.Errorf("engine: day %d: %w", s.Day, err)
	}

	for _, st := range s.Sites {
		st.ResetDay()
		for _, c := range st.MethodCounters {
			c.TSinceLastLDAR++
		}
		if s.Date.Month() == 1 && s.Date.Day() == 1 {
			for _, c := range st.MethodCounters {
				c.SurveysDoneThisYear = 0
			}
		}
	}

	s.dailyCost = 0
	for _, company := range s.Companies {
		if err := company(ctx, s); err != nil {
			return fmt.Errorf("engine: day %d: company step: %w", s.Day, err)
		}
	}
	stats.TotalDailyCostUSD = s.dailyCost

	if s.Operator != nil {
		leaks := s.activeLeaksSlice()
		s.Operator.Detect(leaks, s.Date, s.Rng)
		for _, l := range leaks {
			if l.Tagged && l.TaggedByCompany == "operator" {
				s.Tags.Add(l.ID)
			}
		}
	}

	s.repairSweep(&stats)
	stats.NTags = s.Tags.Len()
	for _, st := range s.Sites {
		stats.CumRepairedLeaks += st.RepairedLeaks
	}

	s.Daily = append(s.Daily, stats)
	s.Date = s.Date.AddDate(0, 0, 1)
	s.Day++
	return nil
}
