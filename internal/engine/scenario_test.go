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

package engine_test

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/im3s/ldarsim/internal/company"
	"github.com/im3s/ldarsim/internal/config"
	"github.com/im3s/ldarsim/internal/crew"
	"github.com/im3s/ldarsim/internal/dispatch"
	"github.com/im3s/ldarsim/internal/engine"
	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/sensor"
	"github.com/im3s/ldarsim/internal/site"
)

var scenarioStart = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

// newOGISimulation wires one site, one OGI crew, and one active leak
// of the given rate into a runnable simulation.
func newOGISimulation(t *testing.T, seed int64, lpr, leakRate float64) (*engine.Simulation, *site.Site) {
	t.Helper()

	sim := engine.NewSimulation(scenarioStart, seed)
	sim.LPR = lpr
	sim.RepairDelay = 14
	sim.MaxLeakRate = 500

	st := site.NewSite("F001")
	st.Lat, st.Lon = 55.0, -110.0
	st.DistType = "lognormal"
	st.DistMu = -2
	st.DistSigma = 1
	st.MethodParams["OGI"] = site.MethodParams{Time: 60, MinInt: 0, RS: 1000}
	sim.Sites = []*site.Site{st}

	if leakRate > 0 {
		l := &leak.Leak{
			ID:         sim.NextLeakID("F001"),
			FacilityID: "F001",
			Rate:       leakRate,
			Status:     leak.Active,
			DateBegan:  scenarioStart,
		}
		sim.Leaks[l.ID] = l
		st.ActiveLeaks = 1
	}

	sens, err := sensor.New(sensor.Mobile, sensor.Component, "OGI", sensor.Config{MDLMean: 0.01, MDLStd: 2.78e-6})
	if err != nil {
		t.Fatalf("building OGI sensor: %v", err)
	}
	offsite := crew.NewOffsiteTimeSampler(leak.NewEmpiricalSampler([]float64{30}))
	scheduler := crew.NewMobileScheduler(crew.MobileConfig{
		Method:          "OGI",
		MaxWorkdayHours: 8,
		Offsite:         offsite,
		Date:            scenarioStart,
		Rng:             sim.Rng,
	})
	comp := company.NewCompany("OGI", []*crew.CrewState{{CompanyLabel: "OGI", CrewID: 0}}, nil, false)

	sim.Companies = append(sim.Companies, dispatch.NewCompanyManipulator(dispatch.Config{
		Method:    "OGI",
		Scale:     sensor.Component,
		Company:   comp,
		Scheduler: scheduler,
		Sensor:    sens,
		Cost:      config.Cost{PerDay: 100},
	}))
	sim.CompanyDelays["OGI"] = 2
	return sim, st
}

func runDays(t *testing.T, sim *engine.Simulation, n int) {
	t.Helper()
	for d := 0; d < n; d++ {
		if err := sim.Step(context.Background()); err != nil {
			t.Fatalf("day %d: %v", d, err)
		}
	}
}

func TestLeakTaggedAndRepairedAfterCombinedDelay(t *testing.T) {
	sim, _ := newOGISimulation(t, 7, 0, 1.0)
	runDays(t, sim, 40)

	var l *leak.Leak
	for _, cand := range sim.Leaks {
		l = cand
	}
	if l == nil {
		t.Fatal("simulation lost its only leak")
	}
	if l.DateTagged.IsZero() {
		t.Fatal("a 1 g/s leak against an MDL of 0.01 g/s should be tagged almost surely")
	}
	if l.Status != leak.Repaired {
		t.Fatalf("leak not repaired after 40 days (tagged %s)", l.DateTagged)
	}
	// repair_delay 14 + OGI reporting_delay 2.
	if got := l.DateRepaired.Sub(l.DateTagged); got != 16*24*time.Hour {
		t.Errorf("date_repaired - date_tagged = %v, want 16 days", got)
	}
	if l.RepairDelay != 16 {
		t.Errorf("RepairDelay = %d, want 16", l.RepairDelay)
	}
	if l.DateRepaired.Before(l.DateTagged) {
		t.Error("date_repaired precedes date_tagged")
	}
}

func TestZeroLPRSpawnsNoNewLeaks(t *testing.T) {
	sim, _ := newOGISimulation(t, 3, 0, 1.0)
	runDays(t, sim, 20)

	if len(sim.Leaks) != 1 {
		t.Fatalf("got %d leaks, want the single initial leak", len(sim.Leaks))
	}
	for d, day := range sim.Daily {
		if day.NewLeaks != 0 {
			t.Errorf("day %d: NewLeaks = %d, want 0 with LPR=0", d, day.NewLeaks)
		}
	}
}

func TestEmissionsAttributionMatchesLeakTotals(t *testing.T) {
	sim, _ := newOGISimulation(t, 11, 0.2, 1.0)
	runDays(t, sim, 30)

	var fromLeaks float64
	for _, l := range sim.Leaks {
		fromLeaks += l.Emitted()
	}
	var fromSites float64
	for _, st := range sim.Sites {
		fromSites += st.TotalEmissionsKg
	}
	if math.Abs(fromLeaks-fromSites) > 1e-6 {
		t.Errorf("sum over leaks of days_active*rate = %v kg, sites total = %v kg", fromLeaks, fromSites)
	}
}

func TestMonotoneDailyAggregates(t *testing.T) {
	sim, _ := newOGISimulation(t, 5, 0.3, 1.0)
	runDays(t, sim, 30)

	var cumCost float64
	prevRepaired := 0
	prevCost := 0.0
	for d, day := range sim.Daily {
		if day.CumRepairedLeaks < prevRepaired {
			t.Errorf("day %d: cum_repaired_leaks decreased: %d -> %d", d, prevRepaired, day.CumRepairedLeaks)
		}
		prevRepaired = day.CumRepairedLeaks
		cumCost += day.TotalDailyCostUSD
		if cumCost < prevCost {
			t.Errorf("day %d: cumulative cost decreased", d)
		}
		prevCost = cumCost
	}
}

func TestRerunWithSameSeedIsIdentical(t *testing.T) {
	run := func() *engine.Simulation {
		sim, _ := newOGISimulation(t, 42, 0.1, 1.0)
		runDays(t, sim, 30)
		return sim
	}
	a, b := run(), run()

	if !reflect.DeepEqual(a.Daily, b.Daily) {
		t.Error("daily timeseries differ between identical-seed reruns")
	}
	if len(a.Leaks) != len(b.Leaks) {
		t.Fatalf("leak counts differ: %d vs %d", len(a.Leaks), len(b.Leaks))
	}
	for id, la := range a.Leaks {
		lb, ok := b.Leaks[id]
		if !ok {
			t.Fatalf("leak %s missing from the second run", id)
		}
		if la.Rate != lb.Rate || la.Status != lb.Status || la.DaysActive != lb.DaysActive ||
			!la.DateTagged.Equal(lb.DateTagged) || !la.DateRepaired.Equal(lb.DateRepaired) {
			t.Errorf("leak %s differs across reruns: %+v vs %+v", id, la, lb)
		}
	}
}

func TestSurveysDoneThisYearNeverExceedsRS(t *testing.T) {
	sim, st := newOGISimulation(t, 9, 0, 1.0)
	st.MethodParams["OGI"] = site.MethodParams{Time: 60, MinInt: 1, RS: 2}

	for d := 0; d < 60; d++ {
		if err := sim.Step(context.Background()); err != nil {
			t.Fatalf("day %d: %v", d, err)
		}
		c := st.Counters("OGI")
		if c.SurveysDoneThisYear < 0 || c.SurveysDoneThisYear > 2 {
			t.Fatalf("day %d: surveys_done_this_year = %d, want within [0, RS=2]", d, c.SurveysDoneThisYear)
		}
	}
	if st.Counters("OGI").SurveysDoneThisYear != 2 {
		t.Errorf("expected the quota to be reached, got %d", st.Counters("OGI").SurveysDoneThisYear)
	}
}
