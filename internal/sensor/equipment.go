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

package sensor

import (
	"math"
	"math/rand"
	"sort"

	"github.com/im3s/ldarsim/internal/leak"
)

// equipmentSensor implements the aircraft/truck quantification-error
// model at equipment-group scale.
type equipmentSensor struct {
	cfg Config
}

// NewEquipmentSensor constructs an equipment-scale sensor.
func NewEquipmentSensor(cfg Config) (Sensor, error) {
	if cfg.QE < 0 {
		return nil, &SensorConfigError{Scale: Equipment, Name: "equipment", Reason: "QE must be >= 0"}
	}
	return &equipmentSensor{cfg: cfg}, nil
}

// Detect applies a per-equipment-group quantification error epsilon ~
// N(0, QE) to that group's true rate: measured = rate*(1+eps) when eps
// >= 0, else rate/|eps-1|. Groups whose measured rate exceeds MDL count
// as detected and contribute to the aggregate site-measured rate.
func (s *equipmentSensor) Detect(ctx CrewContext, leaks []*leak.Leak, equipRates map[int]float64, siteRate, venting float64, rng *rand.Rand) (Outcome, error) {
	out := Outcome{LeaksPresent: leaks, EquipMeasured: make(map[int]float64, len(equipRates))}

	groups := make([]int, 0, len(equipRates))
	for group := range equipRates {
		groups = append(groups, group)
	}
	sort.Ints(groups)

	for _, group := range groups {
		rate := equipRates[group]
		eps := rng.NormFloat64() * s.cfg.QE
		var measured float64
		if eps >= 0 {
			measured = rate * (1 + eps)
		} else {
			measured = rate / math.Abs(eps-1)
		}

		if measured > s.cfg.MDLMean {
			out.FoundLeak = true
			out.EquipMeasured[group] = measured
			out.SiteMeasuredRate += measured
		} else {
			out.MissedLeaks++
		}
	}
	return out, nil
}
