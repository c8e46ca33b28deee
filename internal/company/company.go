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

// Package company implements one method's company-side logic: crew
// assignment, site triage, and the follow-up flagging pipeline.
package company

import (
	"math/rand"
	"time"

	"github.com/im3s/ldarsim/internal/crew"
	"github.com/im3s/ldarsim/internal/kmeans"
	"github.com/im3s/ldarsim/internal/site"
	"github.com/im3s/ldarsim/internal/weather"
)

// Timeseries is one day's per-method accumulators.
type Timeseries struct {
	Cost           float64
	SitesVisited   int
	TravelTime     float64
	SurveyTime     float64
	PropSitesAvail float64
	EffFlags       int
	FlagsRedund1   int
	FlagsRedund2   int
	FlagWoVent     int
	RedundTags     int
}

// Company owns a method's crews, its deployment-day grid, its running
// per-day timeseries, and its site watchlist.
type Company struct {
	Method string
	Crews  []*crew.CrewState

	Deployment *weather.DeploymentGrid
	Timeseries []Timeseries // one entry per simulated day, appended as the simulation runs

	Watchlist Watchlist

	SitesPerCrew  int // default 3, per get_working_crews
	RoutePlanning bool
}

// NewCompany constructs a Company with its watchlist initialized.
func NewCompany(method string, crews []*crew.CrewState, deployment *weather.DeploymentGrid, routePlanning bool) *Company {
	sitesPerCrew := 3
	return &Company{
		Method:        method,
		Crews:         crews,
		Deployment:    deployment,
		Watchlist:     make(Watchlist),
		SitesPerCrew:  sitesPerCrew,
		RoutePlanning: routePlanning,
	}
}

// AssignAgents labels each site with the crew cluster that will survey
// it: K-means (K = len(Crews)) on (lat, lon) when route planning is
// enabled and there are at least two crews; otherwise every site gets
// label 0.
func (c *Company) AssignAgents(sites []*site.Site, rng *rand.Rand) {
	if !c.RoutePlanning || len(c.Crews) < 2 {
		for _, s := range sites {
			s.Label = 0
		}
		return
	}

	points := make([]kmeans.Point, len(sites))
	for i, s := range sites {
		points[i] = kmeans.Point{X: s.Lat, Y: s.Lon}
	}
	labels := kmeans.Cluster(points, len(c.Crews), 50, rng)
	for i, s := range sites {
		s.Label = labels[i]
	}
}

// DueSites returns the sites due for a non-follow-up survey: under
// their annual quota and past their minimum revisit interval, sorted
// descending by t_since_last_LDAR (ties preserve input order).
func (c *Company) DueSites(sites []*site.Site) []*site.Site {
	var due []*site.Site
	for _, s := range sites {
		p, ok := s.MethodParams[c.Method]
		if !ok {
			continue
		}
		cnt := s.Counters(c.Method)
		if cnt.SurveysDoneThisYear < p.RS && cnt.TSinceLastLDAR >= p.MinInt {
			due = append(due, s)
		}
	}
	sortByNeglectDescending(due, c.Method)
	return due
}

// DueFollowUpSites returns the sites whose flag is at least delayDays
// old and currently flagged, sorted descending by t_since_last_LDAR.
func (c *Company) DueFollowUpSites(sites []*site.Site, today time.Time, delayDays int) []*site.Site {
	var due []*site.Site
	for _, s := range sites {
		if !s.Flagged {
			continue
		}
		if today.Sub(s.DateFlagged) < time.Duration(delayDays)*24*time.Hour {
			continue
		}
		due = append(due, s)
	}
	sortByNeglectDescending(due, c.Method)
	return due
}

func sortByNeglectDescending(sites []*site.Site, method string) {
	// Stable insertion sort on the small-n pool keeps ties in original
	// order without pulling in sort.SliceStable for a handful of items
	// per crew dispatch; still O(n^2) worst case, fine for per-day pools.
	for i := 1; i < len(sites); i++ {
		for j := i; j > 0; j-- {
			if sites[j].Counters(method).TSinceLastLDAR > sites[j-1].Counters(method).TSinceLastLDAR {
				sites[j], sites[j-1] = sites[j-1], sites[j]
			} else {
				break
			}
		}
	}
}

// WorkingCrews returns how many of the company's crews are needed to
// cover pool, at sitesPerCrew sites per crew, clamped to the total
// number of crews available.
func (c *Company) WorkingCrews(pool []*site.Site) int {
	if len(pool) == 0 || len(c.Crews) == 0 {
		return 0
	}
	sitesPerCrew := c.SitesPerCrew
	if sitesPerCrew <= 0 {
		sitesPerCrew = 3
	}
	n := (len(pool) + sitesPerCrew*len(c.Crews) - 1) / (sitesPerCrew * len(c.Crews))
	if n > len(c.Crews) {
		n = len(c.Crews)
	}
	if n < 1 {
		n = 1
	}
	return n
}

// CrewSiteList returns the slice of pool assigned to crewIdx: filtered
// by label when route planning, else a round-robin slice.
func (c *Company) CrewSiteList(pool []*site.Site, crewIdx, nCrews int) []*site.Site {
	if c.RoutePlanning {
		var out []*site.Site
		for _, s := range pool {
			if s.Label == crewIdx {
				out = append(out, s)
			}
		}
		return out
	}
	var out []*site.Site
	for i := crewIdx; i < len(pool); i += nCrews {
		out = append(out, pool[i])
	}
	return out
}
