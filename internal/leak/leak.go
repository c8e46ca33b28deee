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

// Package leak holds the Leak type and the leak-rate/count/offsite
// empirical samplers used to generate and size leaks.
package leak

import (
	"fmt"
	"time"
)

// Status is a leak's lifecycle state. Repaired is terminal.
type Status int

const (
	Active Status = iota
	Repaired
)

func (s Status) String() string {
	if s == Repaired {
		return "repaired"
	}
	return "active"
}

// Leak is a single emission source attached to a facility.
type Leak struct {
	ID             string
	FacilityID     string
	EquipmentGroup int
	Rate           float64 // g/s
	Lat, Lon       float64

	Status    Status
	DaysActive int

	Tagged          bool
	DateBegan       time.Time
	DateTagged      time.Time
	TaggedByCompany string
	TaggedByCrew    string
	InitDetectBy    string
	InitDetectDate  time.Time

	DateRepaired     time.Time
	RepairDelay      int
	RequiresShutdown bool
}

// ID formats a leak identity as facility_ID + "_" + zero-padded sequence.
func ID(facilityID string, seq int) string {
	return fmt.Sprintf("%s_%04d", facilityID, seq)
}

// Repair marks a leak as repaired as of date, fixing DateRepaired. It is
// a no-op if the leak is already repaired, since Repaired is terminal.
func (l *Leak) Repair(date time.Time) {
	if l.Status == Repaired {
		return
	}
	l.Status = Repaired
	l.DateRepaired = date
}

// Tag marks a leak as tagged by the given company/crew, recording the
// initial detector the first time a leak is tagged.
func (l *Leak) Tag(date time.Time, company, crew string) {
	l.Tagged = true
	l.DateTagged = date
	l.TaggedByCompany = company
	l.TaggedByCrew = crew
	if l.InitDetectBy == "" {
		l.InitDetectBy = company
		l.InitDetectDate = date
	}
}

// Emitted returns the total mass (kg) this leak has emitted, computed
// from its observed days-active and rate at finalize time.
func (l *Leak) Emitted() float64 {
	const secondsPerDay = 86400.0
	const gramsPerKg = 1000.0
	return l.Rate * secondsPerDay * float64(l.DaysActive) / gramsPerKg
}
