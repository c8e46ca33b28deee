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

package company

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/site"
)

// FollowUpConfig carries one method's follow-up/flagging parameters.
// Method configuration uses "proportion" for two distinct purposes:
// the quantile used to resolve a proportional threshold, and the
// fraction of the watchlist to flag each day. To avoid that collision,
// this type names them separately.
type FollowUpConfig struct {
	Threshold            float64 // literal kg/day threshold, when ThresholdType == "absolute"
	ThresholdType        string  // "absolute" | "proportion"
	ThresholdQuantile    float64 // quantile of the empirical leak-rate distribution, when ThresholdType == "proportion"
	InteractionPriority  string  // "threshold" | "proportion": "proportion" flags unconditionally
	RedundancyFilter     string  // "recent" | "max" | "mean"
	FollowUpRatio        float64 // fraction of the watchlist flagged per day
	ReportingDelayDays   int
	InstantThreshold     float64
	InstantThresholdType string
	ConsiderVenting      bool
}

// FollowUpCandidate is one crew's visit outcome, ready to run through
// the flagging pipeline.
type FollowUpCandidate struct {
	Site         *site.Site
	MeasuredRate float64
	TrueRate     float64
	Venting      float64
	LeaksPresent []*leak.Leak
}

// ResolveThreshold computes the effective follow-up threshold: the
// configured literal value for "absolute", or the rate at the
// configured quantile of the empirical leak-rate distribution for
// "proportion".
func ResolveThreshold(cfg FollowUpConfig, empiricalRates []float64) float64 {
	if cfg.ThresholdType != "proportion" {
		return cfg.Threshold
	}
	sorted := make([]float64, len(empiricalRates))
	copy(sorted, empiricalRates)
	sort.Float64s(sorted)
	return stat.Quantile(cfg.ThresholdQuantile, stat.Empirical, sorted, nil)
}

// ResolveInstantThreshold computes the effective instant-flag
// threshold the same way ResolveThreshold does for the ordinary one,
// returning 0 (disabled) when no instant threshold is configured.
func ResolveInstantThreshold(cfg FollowUpConfig, empiricalRates []float64) float64 {
	if cfg.InstantThreshold <= 0 {
		return 0
	}
	if cfg.InstantThresholdType != "proportion" {
		return cfg.InstantThreshold
	}
	sorted := make([]float64, len(empiricalRates))
	copy(sorted, empiricalRates)
	sort.Float64s(sorted)
	return stat.Quantile(cfg.InstantThreshold, stat.Empirical, sorted, nil)
}

// FlagSites runs the watchlist / redundancy-filter / follow-up-ratio
// pipeline: candidates over the instant threshold are flagged on the
// spot, the rest passing threshold update the watchlist, the top
// ceil(|watchlist| * FollowUpRatio) sites by effective rate are
// chosen, and each chosen site is flagged (or counted redundant if
// already flagged), updating today's Timeseries in place.
func (c *Company) FlagSites(candidates []FollowUpCandidate, cfg FollowUpConfig, threshold float64, today time.Time, todayStats *Timeseries) []*site.Site {
	instant := make(map[string]bool)
	var flagged []*site.Site
	for _, cand := range candidates {
		if cfg.InstantThreshold > 0 && cand.MeasuredRate >= cfg.InstantThreshold {
			instant[cand.Site.FacilityID] = true
			if s := c.flagOne(cand, cfg, threshold, today, todayStats); s != nil {
				flagged = append(flagged, s)
			}
		}
	}

	for _, cand := range candidates {
		if instant[cand.Site.FacilityID] {
			continue
		}
		passes := cfg.InteractionPriority == "proportion" || cand.MeasuredRate >= threshold
		if !passes {
			continue
		}
		c.Watchlist.Entry(cand.Site.FacilityID).Append(today, cand.MeasuredRate)
	}

	type ranked struct {
		facilityID string
		rate       float64
	}
	ranked_ := make([]ranked, 0, len(c.Watchlist))
	for id, entry := range c.Watchlist {
		ranked_ = append(ranked_, ranked{facilityID: id, rate: entry.EffectiveRate(cfg.RedundancyFilter)})
	}
	sort.Slice(ranked_, func(i, j int) bool {
		if ranked_[i].rate != ranked_[j].rate {
			return ranked_[i].rate > ranked_[j].rate
		}
		return ranked_[i].facilityID < ranked_[j].facilityID
	})

	nFlag := int(math.Ceil(float64(len(ranked_)) * cfg.FollowUpRatio))
	if nFlag > len(ranked_) {
		nFlag = len(ranked_)
	}

	candidateByID := make(map[string]FollowUpCandidate, len(candidates))
	for _, cand := range candidates {
		candidateByID[cand.Site.FacilityID] = cand
	}

	for _, r := range ranked_[:nFlag] {
		cand, ok := candidateByID[r.facilityID]
		if !ok || instant[r.facilityID] {
			continue // flagged from a prior day's watchlist entry, not visited today
		}
		if s := c.flagOne(cand, cfg, threshold, today, todayStats); s != nil {
			flagged = append(flagged, s)
		}
	}
	return flagged
}

// flagOne flags a single candidate site, counting the redundancy
// cases instead when the site is already flagged or its leaks are
// already individually tagged. It returns the site when a new flag was
// raised, nil otherwise.
func (c *Company) flagOne(cand FollowUpCandidate, cfg FollowUpConfig, threshold float64, today time.Time, todayStats *Timeseries) *site.Site {
	s := cand.Site
	if s.Flagged {
		todayStats.FlagsRedund1++
		return nil
	}
	s.Flagged = true
	s.DateFlagged = today
	s.FlaggedBy = c.Method
	todayStats.EffFlags++

	for _, l := range cand.LeaksPresent {
		if !l.DateTagged.IsZero() {
			todayStats.FlagsRedund2++
			break
		}
	}
	if cfg.ConsiderVenting && cand.TrueRate-cand.Venting < threshold {
		todayStats.FlagWoVent++
	}
	return s
}
