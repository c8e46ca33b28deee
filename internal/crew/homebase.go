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

package crew

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadHomeBasesCSV reads a home-base table with "lat" and "lon"
// columns into the list a mobile crew routes its end-of-day travel
// through.
func LoadHomeBasesCSV(r io.Reader) ([]HomeBase, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("crew: reading home-base CSV header: %v", err)
	}

	latCol, lonCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "lat":
			latCol = i
		case "lon":
			lonCol = i
		}
	}
	if latCol < 0 || lonCol < 0 {
		return nil, fmt.Errorf("crew: home-base CSV needs lat and lon columns, got %v", header)
	}

	var bases []HomeBase
	rowNum := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("crew: reading home-base CSV row %d: %v", rowNum, err)
		}
		rowNum++

		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[latCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("crew: home-base CSV row %d: bad lat: %v", rowNum, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[lonCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("crew: home-base CSV row %d: bad lon: %v", rowNum, err)
		}
		bases = append(bases, HomeBase{Lat: lat, Lon: lon})
	}
	return bases, nil
}
