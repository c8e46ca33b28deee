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

// Package site holds the Site (facility) type, its CSV loader, and
// subtype-parameter attachment.
package site

import "time"

// MethodParams are the per-method parameters a facility carries:
// minutes per full survey, minimum days between surveys, and the
// number of required surveys per calendar year.
type MethodParams struct {
	Time   float64
	MinInt int
	RS     int
}

// MethodCounters are the per-method running counters a facility
// accumulates as a simulation progresses.
type MethodCounters struct {
	TSinceLastLDAR      int
	SurveysConducted    int
	SurveysDoneThisYear int
	AttemptedToday      bool
	MissedLeaks         int
	PropDDs             float64
	MCB                 int
}

// Site is a single facility: its identity, location, per-method
// configuration, and the counters the simulation updates as it runs.
type Site struct {
	FacilityID      string
	Lat, Lon        float64
	LatIdx, LonIdx  int
	SubtypeCode     string
	EquipmentGroups int

	// Label is the cluster/agent label assigned by AssignAgents.
	Label int

	Flagged     bool
	DateFlagged time.Time
	FlaggedBy   string

	TotalEmissionsKg float64
	ActiveLeaks      int
	RepairedLeaks    int

	MethodParams   map[string]MethodParams
	MethodCounters map[string]*MethodCounters

	// Subtype parameters attached by AttachSubtypes.
	DistType      string
	DistMu        float64
	DistSigma     float64
	DistMetric    string // mass unit the distribution's draws come out in
	DistIncrement string // time unit the distribution's draws come out in
	SubtypeTimes  map[string]float64
}

// NewSite returns a Site with its per-method maps initialized.
func NewSite(facilityID string) *Site {
	return &Site{
		FacilityID:     facilityID,
		MethodParams:   make(map[string]MethodParams),
		MethodCounters: make(map[string]*MethodCounters),
	}
}

// Counters returns the MethodCounters for method, creating it on first
// access so callers never need a nil check.
func (s *Site) Counters(method string) *MethodCounters {
	c, ok := s.MethodCounters[method]
	if !ok {
		c = &MethodCounters{}
		s.MethodCounters[method] = c
	}
	return c
}

// ReapplyActiveLeakCounts sets each site's ActiveLeaks counter from a
// replayed initial-leak set's facility IDs, the way generateInitialLeaks
// would have incremented it had the leaks been drawn fresh instead of
// replayed from a cached world.
func ReapplyActiveLeakCounts(sites []*Site, activeFacilityIDs []string) {
	counts := make(map[string]int, len(sites))
	for _, id := range activeFacilityIDs {
		counts[id]++
	}
	for _, s := range sites {
		s.ActiveLeaks = counts[s.FacilityID]
	}
}

// ResetDay clears the per-day AttemptedToday flag on every method's
// counters, matching the day-boundary invariant in the facility data
// model.
func (s *Site) ResetDay() {
	for _, c := range s.MethodCounters {
		c.AttemptedToday = false
	}
}
