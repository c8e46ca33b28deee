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

// siteSensor implements site-scale detection: satellite (wind-dependent
// MDL) or fixed continuous monitors (flat MDL), comparing the covered
// site rate directly against a minimum detectable quantity.
type siteSensor struct {
	cfg       Config
	windBased bool
}

// NewSiteSensor constructs a site-scale sensor. windBased selects the
// satellite wind-dependent MDL curve; otherwise MDLMean is used as a
// flat threshold, matching a fixed continuous monitor.
func NewSiteSensor(cfg Config, windBased bool) (Sensor, error) {
	return &siteSensor{cfg: cfg, windBased: windBased}, nil
}

// minDetectable returns the minimum detectable rate (g/s) for the
// given wind speed, following the satellite curve Q_min =
// 5.79*(1.39/U) when wind-based, or the configured flat MDL otherwise.
func (s *siteSensor) minDetectable(wind float64) float64 {
	if !s.windBased {
		return s.cfg.MDLMean
	}
	if wind <= 0 {
		return s.cfg.MDLMean
	}
	return 5.79 * (1.39 / wind)
}

// Detect compares the covered site rate to the minimum detectable
// quantity; if exceeded, applies quantification error and reports the
// measured rate.
func (s *siteSensor) Detect(ctx CrewContext, leaks []*leak.Leak, equipRates map[int]float64, siteRate, venting float64, rng *rand.Rand) (Outcome, error) {
	out := Outcome{LeaksPresent: leaks}

	mdl := s.minDetectable(ctx.Wind)
	if siteRate <= mdl {
		out.MissedLeaks = len(leaks)
		return out, nil
	}

	eps := rng.NormFloat64() * s.cfg.QE
	var measured float64
	if eps >= 0 {
		measured = siteRate * (1 + eps)
	} else {
		measured = siteRate / math.Abs(eps-1)
	}

	out.FoundLeak = true
	out.SiteMeasuredRate = measured
	out.VentRate = venting
	return out, nil
}
