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

// Package crew implements the per-deployment-type day scheduler: a
// crew plans which sites it visits today, honoring daylight, weather
// deployment days, minimum revisit intervals, travel-time budgets, and
// partial-day rollover.
package crew

import (
	"context"
	"fmt"
	"time"

	"github.com/im3s/ldarsim/internal/site"
)

// HomeBase is a fixed location a mobile crew returns to at day's end.
type HomeBase struct {
	Lat, Lon float64
}

// RolloverPlan is the unfinished portion of a site visit carried into
// the next working day. It is captured by value before being cleared
// from the crew state, so a crew can never accidentally observe its
// own in-progress rollover as already-cleared mid-update.
type RolloverPlan struct {
	Site             *site.Site
	RemainingMinutes float64
}

// CrewState is one crew's identity, location, and day-to-day carry.
type CrewState struct {
	CompanyLabel string
	CrewID       int
	Label        int // assigned cluster, set by Company.AssignAgents

	Lat, Lon    float64
	WorkedToday bool
	Rollover    *RolloverPlan

	HomeBases []HomeBase
}

// Stop is one leg of a crew's day: travel to a site, survey it, and
// (for the final stop) the travel home.
type Stop struct {
	SiteID        string
	TravelToMin   float64
	TravelHomeMin float64
	SurveyMin     float64
	RemainingMin  float64
	Completed     bool
}

// Itinerary is a crew's full plan for one day.
type Itinerary struct {
	Stops       []Stop
	WorkedToday bool
}

// ScheduleInfeasible is returned when a crew's work-hours computation
// produces a non-positive or 24-hour-or-greater window; the caller
// should log and continue with MaxWorkday rather than fail the run.
type ScheduleInfeasible struct {
	WorkHours float64
}

func (e *ScheduleInfeasible) Error() string {
	return fmt.Sprintf("crew: computed work_hours=%v is outside (0, 24)", e.WorkHours)
}

// Scheduler plans one crew's day against a pool of candidate sites.
type Scheduler interface {
	PlanDay(ctx context.Context, crew *CrewState, pool []*site.Site) (Itinerary, error)

	// SetDay advances the scheduler's notion of "today", used for
	// daylight hours and weather-grid lookups. The dispatcher calls
	// this once per company per simulated day, before PlanDay; a
	// scheduler built once at simulation setup otherwise has no other
	// way to learn the date has moved on.
	SetDay(date time.Time, day int)
}
