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

// Package operator implements the background natural-detection agent:
// a minimal, method-independent presence that tags leaks at a flat
// probability on a fixed weekly cadence.
package operator

import (
	"math/rand"
	"time"

	"github.com/im3s/ldarsim/internal/leak"
)

const companyLabel = "operator"

// Agent runs the Monday background-detection pass.
type Agent struct {
	// DetectionProbability is the flat per-leak Bernoulli probability
	// applied independent of any method.
	DetectionProbability float64
}

// NewAgent constructs an operator Agent.
func NewAgent(detectionProbability float64) *Agent {
	return &Agent{DetectionProbability: detectionProbability}
}

// Active reports whether the operator runs on the given date: Mondays
// only.
func (a *Agent) Active(date time.Time) bool {
	return date.Weekday() == time.Monday
}

// Detect tags each untagged active leak at the agent's flat detection
// probability, with no reporting delay, recording "operator" as the
// tagging company.
func (a *Agent) Detect(leaks []*leak.Leak, date time.Time, rng *rand.Rand) int {
	if !a.Active(date) {
		return 0
	}
	var tagged int
	for _, l := range leaks {
		if l.Status != leak.Active || l.Tagged {
			continue
		}
		if rng.Float64() < a.DetectionProbability {
			l.Tag(date, companyLabel, companyLabel)
			tagged++
		}
	}
	return tagged
}
