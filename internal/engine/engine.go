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

// Package engine drives the per-day simulation loop: leak aging,
// new-leak spawn, company dispatch, the operator, the repair sweep,
// and daily reporting. Simulation holds its sites, leaks, and tags;
// each company manipulator receives the *Simulation itself, tags
// leaks through TagLeak, and updates site flags and per-method
// counters on the sites directly.
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/operator"
	"github.com/im3s/ldarsim/internal/site"
)

// DayStats is one day's aggregate record, appended to Simulation.Daily.
type DayStats struct {
	Date              time.Time
	ActiveLeaks       int
	NewLeaks          int
	CumRepairedLeaks  int
	DailyEmissionsKg  float64
	NTags             int
	TotalDailyCostUSD float64
}

// CompanyManipulator is one method's per-day step, a
// func(context.Context, *Simulation) error shape that lets independent
// units of work be sequenced uniformly. A manipulator reads the
// simulation's exported Sites/Leaks/Tags, tags leaks through TagLeak,
// and writes site flags and per-method counters on the sites directly.
type CompanyManipulator func(ctx context.Context, sim *Simulation) error

// Simulation owns all facility, leak, and tag state for one run.
type Simulation struct {
	Sites []*site.Site
	Leaks map[string]*leak.Leak
	Tags  *TagList

	Date time.Time
	Day  int

	LPR           float64
	NRd           int
	RepairDelay   int
	RepairCostUSD float64 // charged per tag-driven repair
	MaxLeakRate   float64 // g/s; draws at or above this are rejected and redrawn

	Operator       *operator.Agent
	OperatorDelay  int // not read by repairSweep: operator tags get no reporting delay, other tags use CompanyDelays
	Companies      []CompanyManipulator
	CompanyDelays  map[string]int // per-method reporting_delay, keyed by method label

	Rng *rand.Rand

	// RateSampler, when non-nil, draws a new leak's rate (g/s) from
	// the program's empirical leak-rate sample instead of the site's
	// fitted subtype distribution. It takes the RNG as an argument
	// because SeedPlan may replace Rng day to day.
	RateSampler func(rng *rand.Rand) float64

	// LeakPlan, when non-nil, replaces the daily Bernoulli(LPR) new-leak
	// draw with a pre-generated per-facility, per-day outcome: spawnNewLeak
	// still draws the new leak's own rate, but whether a site spawns one
	// at all comes from the plan. Set by the orchestrator's world builder
	// so pregenerate_leaks runs reproduce the same leak realization across
	// programs being compared.
	LeakPlan map[string][]bool

	// SeedPlan, when non-nil, reseeds Rng at the start of each day from
	// SeedPlan[Day] instead of letting it run forward undisturbed,
	// matching the preseed_random option's per-day seed timeseries.
	SeedPlan []int64

	Daily []DayStats

	// dailyCost accumulates the cost every company manipulator reports
	// for the day in progress; Step reads and resets it around the
	// company loop so DayStats.TotalDailyCostUSD is the sum across
	// methods without engine needing to reach into each Company.
	dailyCost float64

	leakSeq map[string]int // next leak sequence number per facility, for leak.ID
}

// NewSimulation constructs an empty Simulation ready to have sites and
// companies attached.
func NewSimulation(start time.Time, seed int64) *Simulation {
	return &Simulation{
		Leaks:         make(map[string]*leak.Leak),
		Tags:          NewTagList(),
		Date:          start,
		CompanyDelays: make(map[string]int),
		Rng:           rand.New(rand.NewSource(seed)),
		leakSeq:       make(map[string]int),
	}
}

// AddCost accumulates amount into the day-in-progress's total cost,
// called by each company manipulator after it totals its own day's
// per-day/per-hour/per-site charges.
func (s *Simulation) AddCost(amount float64) {
	s.dailyCost += amount
}

// SiteByID looks up a site by facility ID, for company manipulators
// that only hold an ID.
func (s *Simulation) SiteByID(id string) *site.Site {
	for _, st := range s.Sites {
		if st.FacilityID == id {
			return st
		}
	}
	return nil
}

// TagLeak marks a leak tagged by a company/crew and adds it to the tag
// list, if it isn't tagged already.
func (s *Simulation) TagLeak(leakID string, date time.Time, company, crew string) {
	l, ok := s.Leaks[leakID]
	if !ok || l.Tagged {
		return
	}
	l.Tag(date, company, crew)
	s.Tags.Add(leakID)
}

// nextLeakID returns the next zero-padded leak identity for a
// facility.
func (s *Simulation) nextLeakID(facilityID string) string {
	seq := s.leakSeq[facilityID]
	s.leakSeq[facilityID] = seq + 1
	return leak.ID(facilityID, seq)
}

// PrimeLeakSeq advances the per-facility leak-sequence counter past
// seq, so that a newly-spawned leak's ID never collides with a
// pre-generated initial leak's ID when replaying a cached world
// (whose leak IDs were minted by a different Simulation instance).
func (s *Simulation) PrimeLeakSeq(facilityID string, seq int) {
	if cur := s.leakSeq[facilityID]; seq+1 > cur {
		s.leakSeq[facilityID] = seq + 1
	}
}

// NextLeakID exposes nextLeakID to callers outside the package that
// pre-generate a simulation's initial leaks (the orchestrator's world
// builder), so every leak identity, pre-generated or daily-spawned,
// is issued from the same per-facility sequence.
func (s *Simulation) NextLeakID(facilityID string) string {
	return s.nextLeakID(facilityID)
}
