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

// Package dispatch builds the engine.CompanyManipulator closures that
// give each configured method its daily behavior, wiring together a
// company's crew-assignment/triage logic, a day scheduler, and a
// detection sensor the way the orchestrator's per-program setup step
// otherwise would have to inline.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/im3s/ldarsim/internal/company"
	"github.com/im3s/ldarsim/internal/config"
	"github.com/im3s/ldarsim/internal/crew"
	"github.com/im3s/ldarsim/internal/engine"
	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/sensor"
	"github.com/im3s/ldarsim/internal/site"
	"github.com/im3s/ldarsim/internal/weather"
)

// VentingEstimator returns a site's estimated vented (non-fugitive)
// emissions rate, used only when FollowUp.ConsiderVenting is set. A nil
// estimator is treated as always returning zero.
type VentingEstimator func(*site.Site) float64

// Config is everything one method's daily manipulator needs: its
// company (crew roster, watchlist, deployment grid), the scheduler that
// plans each crew's day, the sensor that scores a visited site, and the
// follow-up/flagging parameters that govern any scale that doesn't tag
// directly.
type Config struct {
	Method string
	Scale  sensor.MeasurementScale

	Company   *company.Company
	Scheduler crew.Scheduler
	Sensor    sensor.Sensor

	// FollowUp and Threshold are consulted only for Equipment- and
	// Site-scale methods, which report an aggregate rate rather than
	// tagging directly; Component-scale methods (OGI) tag every leak
	// their sensor reports as detected.
	FollowUp  company.FollowUpConfig
	Threshold float64

	// IsFollowUp marks a method (e.g. OGI_FU) that only ever surveys
	// already-flagged sites and clears a site's flag once visited,
	// instead of drawing from the due-site pool.
	IsFollowUp bool

	Cost    config.Cost
	Venting VentingEstimator
	Weather *weather.Grid // nil for methods whose sensor ignores wind

	// DeploymentYears and DeploymentMonths restrict the calendar
	// window the method deploys in; empty means every year / every
	// month of the simulated range.
	DeploymentYears  []int
	DeploymentMonths []int
}

// inDeploymentWindow reports whether the method deploys on date:
// an empty years or months list places no restriction on that axis.
func inDeploymentWindow(date time.Time, years, months []int) bool {
	if len(years) > 0 {
		ok := false
		for _, y := range years {
			if date.Year() == y {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(months) > 0 {
		ok := false
		for _, m := range months {
			if int(date.Month()) == m {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// NewCompanyManipulator builds the per-day manipulator for cfg,
// conforming to engine.CompanyManipulator.
func NewCompanyManipulator(cfg Config) engine.CompanyManipulator {
	return func(ctx context.Context, sim *engine.Simulation) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		comp := cfg.Company
		today := sim.Date
		cfg.Scheduler.SetDay(today, sim.Day)

		var pool []*site.Site
		if cfg.IsFollowUp {
			pool = comp.DueFollowUpSites(sim.Sites, today, cfg.FollowUp.ReportingDelayDays)
		} else {
			pool = comp.DueSites(sim.Sites)
		}
		comp.AssignAgents(pool, sim.Rng)

		stats := company.Timeseries{}
		if sim.Day == 0 {
			stats.Cost += cfg.Cost.Upfront * float64(len(comp.Crews))
		}
		if len(sim.Sites) > 0 {
			deployable := 0
			for _, s := range sim.Sites {
				if comp.Deployment == nil {
					deployable++
					continue
				}
				if ok, err := comp.Deployment.At(s.Lat, s.Lon, sim.Day); err == nil && ok {
					deployable++
				}
			}
			stats.PropSitesAvail = float64(deployable) / float64(len(sim.Sites))
		}

		if !inDeploymentWindow(today, cfg.DeploymentYears, cfg.DeploymentMonths) {
			comp.Timeseries = append(comp.Timeseries, stats)
			return nil
		}

		var candidates []company.FollowUpCandidate
		nCrews := comp.WorkingCrews(pool)

		for crewIdx := 0; crewIdx < nCrews; crewIdx++ {
			crewState := comp.Crews[crewIdx]
			crewSites := comp.CrewSiteList(pool, crewIdx, nCrews)

			itin, err := cfg.Scheduler.PlanDay(ctx, crewState, crewSites)
			if err != nil {
				return fmt.Errorf("dispatch: method %s: crew %d: %w", cfg.Method, crewState.CrewID, err)
			}
			if itin.WorkedToday {
				stats.Cost += cfg.Cost.PerDay
			}

			for _, stop := range itin.Stops {
				if !stop.Completed {
					continue
				}
				stats.Cost += cfg.Cost.PerSite
				stats.Cost += cfg.Cost.PerHour * (stop.TravelToMin + stop.TravelHomeMin + stop.SurveyMin) / 60
				stats.TravelTime += stop.TravelToMin + stop.TravelHomeMin
				stats.SurveyTime += stop.SurveyMin

				st := sim.SiteByID(stop.SiteID)
				if st == nil {
					continue
				}
				stats.SitesVisited++

				leaks := activeLeaksAtSite(sim, st.FacilityID)
				equipRates := groupByEquipment(leaks)
				var siteRate float64
				for _, l := range leaks {
					siteRate += l.Rate
				}
				var venting float64
				if cfg.Venting != nil {
					venting = cfg.Venting(st)
				}
				wind := windAt(cfg.Weather, st, sim.Day)

				out, err := cfg.Sensor.Detect(sensor.CrewContext{Wind: wind}, leaks, equipRates, siteRate, venting, sim.Rng)
				if err != nil {
					return fmt.Errorf("dispatch: method %s: site %s: %w", cfg.Method, st.FacilityID, err)
				}
				st.Counters(cfg.Method).MissedLeaks += out.MissedLeaks

				if cfg.Scale == sensor.Component {
					for _, l := range out.DetectedLeaks {
						if l.Tagged {
							stats.RedundTags++
							continue
						}
						sim.TagLeak(l.ID, today, cfg.Method, strconv.Itoa(crewState.CrewID))
					}
				} else if out.FoundLeak {
					candidates = append(candidates, company.FollowUpCandidate{
						Site:         st,
						MeasuredRate: out.SiteMeasuredRate,
						TrueRate:     siteRate,
						Venting:      venting,
						LeaksPresent: leaks,
					})
				}

				if cfg.IsFollowUp {
					st.Flagged = false
				}
			}
		}

		sim.AddCost(stats.Cost)
		comp.Timeseries = append(comp.Timeseries, stats)
		if len(candidates) > 0 {
			comp.FlagSites(candidates, cfg.FollowUp, cfg.Threshold, today, &comp.Timeseries[len(comp.Timeseries)-1])
		}
		return nil
	}
}

// activeLeaksAtSite returns the facility's active leaks in leak-ID
// order, so the per-leak RNG draws a component sensor makes happen in
// the same order on every rerun of the same seed.
func activeLeaksAtSite(sim *engine.Simulation, facilityID string) []*leak.Leak {
	var out []*leak.Leak
	for _, l := range sim.Leaks {
		if l.FacilityID == facilityID && l.Status == leak.Active {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// groupByEquipment sums each leak's rate into its declared equipment
// group, the per-group input an equipment-scale sensor scores
// independently before aggregating into a site rate.
func groupByEquipment(leaks []*leak.Leak) map[int]float64 {
	groups := make(map[int]float64, len(leaks))
	for _, l := range leaks {
		groups[l.EquipmentGroup] += l.Rate
	}
	return groups
}

func windAt(grid *weather.Grid, st *site.Site, day int) float64 {
	if grid == nil {
		return 0
	}
	_, wind, _, err := grid.At(st.Lat, st.Lon, day)
	if err != nil {
		return 0
	}
	return wind
}
