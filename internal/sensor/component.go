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

	"github.com/im3s/ldarsim/internal/leak"
)

// componentSensor implements the Ravikumar-style OGI logistic
// detection curve at component (per-leak) scale.
type componentSensor struct {
	cfg Config
}

// NewComponentSensor constructs the OGI component-scale sensor.
func NewComponentSensor(cfg Config) (Sensor, error) {
	if cfg.MDLStd < 0 {
		return nil, &SensorConfigError{Scale: Component, Name: "OGI", Reason: "MDLStd must be >= 0"}
	}
	return &componentSensor{cfg: cfg}, nil
}

// Detect draws a per-leak detection slope k ~ N(4.9, 0.3) and
// threshold x0 ~ N(MDL_mean, MDL_std) in g/s, then a Bernoulli(p)
// outcome per leak on the logistic detection curve
// p = 1/(1+exp(-k*(log10(rate*3600) - log10(x0*3600)))).
func (s *componentSensor) Detect(ctx CrewContext, leaks []*leak.Leak, equipRates map[int]float64, siteRate, venting float64, rng *rand.Rand) (Outcome, error) {
	out := Outcome{LeaksPresent: leaks}
	for _, l := range leaks {
		k := 4.9 + rng.NormFloat64()*0.3
		x0 := s.cfg.MDLMean + rng.NormFloat64()*s.cfg.MDLStd

		rateGH := l.Rate * 3600
		if rateGH <= 0 {
			out.MissedLeaks++
			continue
		}
		p := 1.0
		if x0 > 0 {
			logRate := math.Log10(rateGH)
			logX0 := math.Log10(x0 * 3600)
			p = 1 / (1 + math.Exp(-k*(logRate-logX0)))
		}

		if rng.Float64() < p {
			out.FoundLeak = true
			out.SiteMeasuredRate += l.Rate
			out.DetectedLeaks = append(out.DetectedLeaks, l)
		} else {
			out.MissedLeaks++
		}
	}
	return out, nil
}
