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

package site

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/im3s/ldarsim/internal/unitconv"
	"github.com/im3s/ldarsim/internal/weather"
)

// SubtypeDist is one row of the subtype-distributions CSV: the
// leak-rate distribution parameters for a given subtype_code.
// DistMetric and DistIncrement name the mass and time units the
// distribution's samples come out in (e.g. "kilogram", "hour");
// draws are converted to g/s before entering the simulation.
type SubtypeDist struct {
	DistType      string
	DistMu        float64
	DistSigma     float64
	DistMetric    string
	DistIncrement string
}

// LoadSubtypeDistributionsCSV reads a subtype-distributions table keyed
// by subtype_code.
func LoadSubtypeDistributionsCSV(r io.Reader) (map[string]SubtypeDist, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("site: reading subtype-distributions header: %v", err)
	}
	col := indexHeader(header)
	for _, req := range []string{"subtype_code", "dist_type", "dist_mu", "dist_sigma"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("site: subtype-distributions CSV missing column %q", req)
		}
	}

	out := make(map[string]SubtypeDist)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("site: reading subtype-distributions row: %v", err)
		}
		code := strings.TrimSpace(rec[col["subtype_code"]])
		d := SubtypeDist{DistType: strings.TrimSpace(rec[col["dist_type"]])}
		if d.DistMu, err = strconv.ParseFloat(strings.TrimSpace(rec[col["dist_mu"]]), 64); err != nil {
			return nil, fmt.Errorf("site: subtype %q dist_mu: %v", code, err)
		}
		if d.DistSigma, err = strconv.ParseFloat(strings.TrimSpace(rec[col["dist_sigma"]]), 64); err != nil {
			return nil, fmt.Errorf("site: subtype %q dist_sigma: %v", code, err)
		}
		if i, ok := col["dist_metric"]; ok && i < len(rec) {
			d.DistMetric = strings.TrimSpace(rec[i])
		}
		if i, ok := col["dist_increment"]; ok && i < len(rec) {
			d.DistIncrement = strings.TrimSpace(rec[i])
		}
		if _, err := unitconv.ParsePair(d.DistMetric, d.DistIncrement); err != nil {
			return nil, fmt.Errorf("site: subtype %q: %v", code, err)
		}
		out[code] = d
	}
	return out, nil
}

// LoadSubtypeTimesCSV reads a subtype-times table keyed by
// subtype_code, mapping each per-method column to its value.
func LoadSubtypeTimesCSV(r io.Reader) (map[string]map[string]float64, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("site: reading subtype-times header: %v", err)
	}
	col := indexHeader(header)
	if _, ok := col["subtype_code"]; !ok {
		return nil, fmt.Errorf("site: subtype-times CSV missing column %q", "subtype_code")
	}

	out := make(map[string]map[string]float64)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("site: reading subtype-times row: %v", err)
		}
		code := strings.TrimSpace(rec[col["subtype_code"]])
		times := make(map[string]float64, len(col)-1)
		for name, i := range col {
			if name == "subtype_code" || i >= len(rec) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("site: subtype %q column %q: %v", code, name, err)
			}
			times[name] = v
		}
		out[code] = times
	}
	return out, nil
}

// AttachSubtypes left-joins each site's subtype_code against the
// distribution and times tables. A site whose subtype_code has no
// match falls back to fallbackCode with a logged warning, rather than
// failing the whole run.
func AttachSubtypes(sites []*Site, dists map[string]SubtypeDist, times map[string]map[string]float64, fallbackCode string) error {
	fallback, ok := dists[fallbackCode]
	if !ok {
		return fmt.Errorf("site: fallback subtype %q not present in distribution table", fallbackCode)
	}
	fallbackTimes := times[fallbackCode]

	for _, s := range sites {
		d, ok := dists[s.SubtypeCode]
		t, tok := times[s.SubtypeCode]
		if !ok || (len(times) > 0 && !tok) {
			log.Printf("site: facility %s has unmatched subtype_code %q; falling back to %q", s.FacilityID, s.SubtypeCode, fallbackCode)
			d = fallback
			t = fallbackTimes
		}
		s.DistType = d.DistType
		s.DistMu = d.DistMu
		s.DistSigma = d.DistSigma
		s.DistMetric = d.DistMetric
		s.DistIncrement = d.DistIncrement
		s.SubtypeTimes = t
	}
	return nil
}

// AttachGridIndices resolves each site's (lat, lon) into the weather
// grid's cell indices, failing the whole run with GridOutOfRange if
// any site falls outside the grid.
func AttachGridIndices(sites []*Site, grid *weather.Grid) error {
	for _, s := range sites {
		latIdx, lonIdx, err := grid.CellIndex(s.Lat, s.Lon)
		if err != nil {
			return fmt.Errorf("site: facility %s: %w", s.FacilityID, err)
		}
		s.LatIdx, s.LonIdx = latIdx, lonIdx
	}
	return nil
}

func indexHeader(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}
