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
	"math/rand"
	"strconv"
	"strings"
)

var requiredColumns = []string{"facility_ID", "lat", "lon", "subtype_code", "equipment_groups"}

// LoadFacilityCSV reads a facility table into a slice of Sites. The
// header determines which per-method columns ({method}_time,
// {method}_RS, {method}_min_int) are present; each row is then parsed
// by parseFacilityRow against that resolved column layout.
func LoadFacilityCSV(r io.Reader) ([]*Site, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("site: reading facility CSV header: %v", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, req := range requiredColumns {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("site: facility CSV missing required column %q", req)
		}
	}

	methods := methodsFromHeader(col)

	var sites []*Site
	rowNum := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("site: reading facility CSV row %d: %v", rowNum, err)
		}
		rowNum++

		s, err := parseFacilityRow(rec, col, methods)
		if err != nil {
			return nil, fmt.Errorf("site: row %d: %v", rowNum, err)
		}
		sites = append(sites, s)
	}
	return sites, nil
}

// methodsFromHeader infers the set of method labels present from any
// column ending in _time, _RS, or _min_int.
func methodsFromHeader(col map[string]int) []string {
	seen := make(map[string]bool)
	var methods []string
	for name := range col {
		for _, suffix := range []string{"_time", "_RS", "_min_int"} {
			if strings.HasSuffix(name, suffix) {
				m := strings.TrimSuffix(name, suffix)
				if !seen[m] {
					seen[m] = true
					methods = append(methods, m)
				}
			}
		}
	}
	return methods
}

func parseFacilityRow(rec []string, col map[string]int, methods []string) (*Site, error) {
	get := func(name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}
	mustFloat := func(name string) (float64, error) {
		v, _ := get(name)
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: %v", name, err)
		}
		return f, nil
	}
	mustInt := func(name string) (int, error) {
		v, _ := get(name)
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("column %q: %v", name, err)
		}
		return n, nil
	}

	facilityID, _ := get("facility_ID")
	s := NewSite(facilityID)

	var err error
	if s.Lat, err = mustFloat("lat"); err != nil {
		return nil, err
	}
	if s.Lon, err = mustFloat("lon"); err != nil {
		return nil, err
	}
	s.SubtypeCode, _ = get("subtype_code")
	if s.EquipmentGroups, err = mustInt("equipment_groups"); err != nil {
		return nil, err
	}

	for _, m := range methods {
		p := MethodParams{}
		if v, ok := col[m+"_time"]; ok && v < len(rec) {
			if p.Time, err = mustFloat(m + "_time"); err != nil {
				return nil, err
			}
		}
		if _, ok := col[m+"_min_int"]; ok {
			if p.MinInt, err = mustInt(m + "_min_int"); err != nil {
				return nil, err
			}
		}
		if _, ok := col[m+"_RS"]; ok {
			if p.RS, err = mustInt(m + "_RS"); err != nil {
				return nil, err
			}
		}
		s.MethodParams[m] = p
		s.MethodCounters[m] = &MethodCounters{}
	}

	return s, nil
}

// Shuffle reorders sites in place using a seeded, explicit random
// source, never math/rand's package-level generator, so a simulation's
// site ordering is reproducible from its seed alone.
func Shuffle(sites []*Site, rng *rand.Rand) {
	rng.Shuffle(len(sites), func(i, j int) {
		sites[i], sites[j] = sites[j], sites[i]
	})
}
