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
	"context"
	"time"

	"github.com/im3s/ldarsim/internal/site"
	"github.com/im3s/ldarsim/internal/weather"
)

// StationaryScheduler is the degenerate one-site scheduler for
// continuous monitors: a stationary crew is permanently assigned to
// exactly one site (via the company's one-crew-per-site label
// assignment), and its itinerary is that single site for every
// deployment day the weather grid allows.
type StationaryScheduler struct {
	Method     string
	Deployment *weather.DeploymentGrid
	Day        int
}

// NewStationaryScheduler constructs a StationaryScheduler. Deployment
// may be nil, in which case every day is treated as deployable.
func NewStationaryScheduler(method string, deployment *weather.DeploymentGrid) *StationaryScheduler {
	return &StationaryScheduler{Method: method, Deployment: deployment}
}

// SetDay advances the scheduler's weather-grid day index.
func (s *StationaryScheduler) SetDay(date time.Time, day int) {
	s.Day = day
}

// PlanDay visits pool's single assigned site, provided it isn't
// already over quota for the year and the weather grid allows
// deployment in its cell today. pool is always exactly the one site
// CrewSiteList narrowed this crew to, by its company.AssignAgents
// label assignment.
func (s *StationaryScheduler) PlanDay(ctx context.Context, crew *CrewState, pool []*site.Site) (Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return Itinerary{}, err
	}
	for _, candidate := range pool {
		p, ok := candidate.MethodParams[s.Method]
		if !ok {
			continue
		}
		c := candidate.Counters(s.Method)
		if c.SurveysDoneThisYear >= p.RS {
			continue
		}
		if s.Deployment != nil {
			deployable, err := s.Deployment.At(candidate.Lat, candidate.Lon, s.Day)
			if err != nil || !deployable {
				continue
			}
		}
		c.AttemptedToday = true
		c.SurveysConducted++
		c.SurveysDoneThisYear++
		c.TSinceLastLDAR = 0
		crew.WorkedToday = true
		return Itinerary{WorkedToday: true, Stops: []Stop{{SiteID: candidate.FacilityID, Completed: true}}}, nil
	}
	crew.WorkedToday = false
	return Itinerary{}, nil
}
