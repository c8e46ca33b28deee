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
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/im3s/ldarsim/internal/daylight"
	"github.com/im3s/ldarsim/internal/site"
	"github.com/im3s/ldarsim/internal/weather"
)

// MobileConfig is the per-method configuration a MobileScheduler needs.
type MobileConfig struct {
	Method           string
	ConsiderDaylight bool
	MaxWorkdayHours  float64
	RoutePlanning    bool

	Speeds  *SpeedTable
	Offsite *OffsiteTimeSampler

	Deployment *weather.DeploymentGrid
	Date       time.Time
	Day        int // index into Deployment/weather grids for Date

	Rng *rand.Rand
}

// MobileScheduler implements the full mobile-crew day-structure
// algorithm: work-hours computation, rollover-first, ripeness/weather
// filtering, neglect-sorted or route-planned site choice, a
// four-outcome visit-time check, and end-of-day home-base travel.
type MobileScheduler struct {
	Config MobileConfig
}

// NewMobileScheduler constructs a MobileScheduler.
func NewMobileScheduler(cfg MobileConfig) *MobileScheduler {
	return &MobileScheduler{Config: cfg}
}

// SetDay advances the scheduler to date/day, so daylight hours and
// deployment-day lookups reflect the simulation's current date rather
// than the date the scheduler was constructed with.
func (m *MobileScheduler) SetDay(date time.Time, day int) {
	m.Config.Date = date
	m.Config.Day = day
}

func (m *MobileScheduler) workHours(crew *CrewState) float64 {
	cfg := m.Config
	if !cfg.ConsiderDaylight {
		return cfg.MaxWorkdayHours
	}
	hours := daylight.Hours(crew.Lat, crew.Lon, cfg.Date)
	if hours <= cfg.MaxWorkdayHours {
		return hours
	}
	return cfg.MaxWorkdayHours
}

// ripe reports whether s is eligible for a visit today: not already
// attempted, past its minimum revisit interval, under its annual
// survey quota, and deployable by weather on Day.
func (m *MobileScheduler) ripe(s *site.Site) bool {
	p, ok := s.MethodParams[m.Config.Method]
	if !ok {
		return false
	}
	c := s.Counters(m.Config.Method)
	if c.AttemptedToday {
		return false
	}
	if c.TSinceLastLDAR < p.MinInt {
		return false
	}
	if c.SurveysDoneThisYear >= p.RS {
		return false
	}
	if m.Config.Deployment != nil {
		ok, err := m.Config.Deployment.At(s.Lat, s.Lon, m.Config.Day)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// candidatePool filters pool to sites ripe for a visit, restricted to
// crew's assigned label when route planning is enabled.
func (m *MobileScheduler) candidatePool(crew *CrewState, pool []*site.Site) []*site.Site {
	var out []*site.Site
	for _, s := range pool {
		if m.Config.RoutePlanning && s.Label != crew.Label {
			continue
		}
		if !m.ripe(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// neglectSort orders sites by descending t_since_last_LDAR, a stable
// sort so equal values preserve insertion order.
func (m *MobileScheduler) neglectSort(sites []*site.Site) {
	method := m.Config.Method
	sort.SliceStable(sites, func(i, j int) bool {
		return sites[i].Counters(method).TSinceLastLDAR > sites[j].Counters(method).TSinceLastLDAR
	})
}

// chooseSite picks the next site to visit: nearest by travel time when
// route planning, else the first neglect-sorted candidate.
func (m *MobileScheduler) chooseSite(crew *CrewState, candidates []*site.Site) (*site.Site, float64) {
	if !m.Config.RoutePlanning {
		m.neglectSort(candidates)
		s := candidates[0]
		travel := m.Config.Offsite.TravelMinutes(m.Config.Rng)
		return s, travel
	}

	best := candidates[0]
	bestTravel := m.Config.Speeds.TravelMinutes(HaversineKm(crew.Lat, crew.Lon, best.Lat, best.Lon), m.Config.Rng)
	for _, s := range candidates[1:] {
		travel := m.Config.Speeds.TravelMinutes(HaversineKm(crew.Lat, crew.Lon, s.Lat, s.Lon), m.Config.Rng)
		if travel < bestTravel {
			best, bestTravel = s, travel
		}
	}
	return best, bestTravel
}

func (m *MobileScheduler) nearestHomeBase(crew *CrewState, lat, lon float64) (HomeBase, float64) {
	if len(crew.HomeBases) == 0 {
		return HomeBase{Lat: lat, Lon: lon}, 0
	}
	best := crew.HomeBases[0]
	bestDist := HaversineKm(lat, lon, best.Lat, best.Lon)
	for _, hb := range crew.HomeBases[1:] {
		d := HaversineKm(lat, lon, hb.Lat, hb.Lon)
		if d < bestDist {
			best, bestDist = hb, d
		}
	}
	var travel float64
	if m.Config.RoutePlanning {
		travel = m.Config.Speeds.TravelMinutes(bestDist, m.Config.Rng)
	} else {
		travel = m.Config.Offsite.TravelMinutes(m.Config.Rng)
	}
	return best, travel
}

// PlanDay computes the day's itinerary for crew against pool.
func (m *MobileScheduler) PlanDay(ctx context.Context, crew *CrewState, pool []*site.Site) (Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return Itinerary{}, err
	}

	workHours := m.workHours(crew)
	if workHours <= 0 || workHours >= 24 {
		e := &ScheduleInfeasible{WorkHours: workHours}
		log.Printf("crew: company=%s crew=%d: %v; using max_workday", crew.CompanyLabel, crew.CrewID, e)
		workHours = m.Config.MaxWorkdayHours
	}
	startHour := (24 - workHours) / 2
	endHour := startHour + workHours

	itin := Itinerary{}
	current := startHour
	lat, lon := crew.Lat, crew.Lon

	if crew.Rollover != nil {
		// Capture the plan by value before clearing it, so the crew
		// never observes its own in-progress rollover mid-update.
		plan := *crew.Rollover
		crew.Rollover = nil
		itin.Stops = append(itin.Stops, Stop{SiteID: plan.Site.FacilityID, SurveyMin: plan.RemainingMinutes, Completed: true})
		c := plan.Site.Counters(m.Config.Method)
		c.AttemptedToday = true
		c.SurveysConducted++
		c.SurveysDoneThisYear++
		c.TSinceLastLDAR = 0
		current += plan.RemainingMinutes / 60
		itin.WorkedToday = true
		lat, lon = plan.Site.Lat, plan.Site.Lon
		crew.Lat, crew.Lon = lat, lon
	}

	for {
		minutesRemaining := (endHour - current) * 60
		if minutesRemaining <= 0 {
			break
		}

		candidates := m.candidatePool(crew, pool)
		if len(candidates) == 0 {
			// Unripened-neglect rule: nothing left to try today.
			break
		}

		chosen, travelTo := m.chooseSite(crew, candidates)
		_, travelHome := m.nearestHomeBase(crew, chosen.Lat, chosen.Lon)

		if travelTo >= minutesRemaining {
			// Not enough time left even to travel to the site.
			break
		}

		p := chosen.MethodParams[m.Config.Method]
		surveyMin := p.Time
		afterTravel := minutesRemaining - travelTo

		// travelTo < minutesRemaining here, so afterTravel > 0: either
		// the full visit fits or the survey starts and rolls over.
		switch {
		case travelTo+travelHome+surveyMin <= minutesRemaining:
			itin.Stops = append(itin.Stops, Stop{
				SiteID: chosen.FacilityID, TravelToMin: travelTo, TravelHomeMin: travelHome,
				SurveyMin: surveyMin, Completed: true,
			})
			c := chosen.Counters(m.Config.Method)
			c.AttemptedToday = true
			c.SurveysConducted++
			c.SurveysDoneThisYear++
			c.TSinceLastLDAR = 0
			current += (travelTo + surveyMin) / 60
			itin.WorkedToday = true
			lat, lon = chosen.Lat, chosen.Lon
			crew.Lat, crew.Lon = lat, lon

		case afterTravel > 0:
			// Enough to travel but not finish the survey: start and roll over.
			c := chosen.Counters(m.Config.Method)
			c.AttemptedToday = true
			remaining := surveyMin - afterTravel
			itin.Stops = append(itin.Stops, Stop{
				SiteID: chosen.FacilityID, TravelToMin: travelTo, SurveyMin: afterTravel, Completed: false,
			})
			crew.Rollover = &RolloverPlan{Site: chosen, RemainingMinutes: remaining}
			itin.WorkedToday = true
			current = endHour
			lat, lon = chosen.Lat, chosen.Lon
			crew.Lat, crew.Lon = lat, lon
		}

		if current >= endHour {
			break
		}
	}

	homeBase, travelHome := m.nearestHomeBase(crew, lat, lon)
	if len(itin.Stops) > 0 {
		itin.Stops[len(itin.Stops)-1].TravelHomeMin = travelHome
	}
	crew.Lat, crew.Lon = homeBase.Lat, homeBase.Lon
	crew.WorkedToday = itin.WorkedToday

	return itin, nil
}
