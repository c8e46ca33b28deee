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

package weather

import (
	"encoding/gob"
	"fmt"
	"os"
)

// LoadGridFile reads a prepared 3-D weather grid from a gob file. ERA5
// download and NetCDF ingestion of t2m/u10/v10/tp are out of scope for
// this module (see spec Non-goals); a weather file here is always the
// already-reshaped product of that offline step -- the same boundary
// the component's "deployment_days" contract assumes when it says the
// core "consumes a prepared 3-D weather grid".
func LoadGridFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("weather: opening grid file %s: %w", path, err)
	}
	defer f.Close()

	var g Grid
	if err := gob.NewDecoder(f).Decode(&g); err != nil {
		return nil, fmt.Errorf("weather: decoding grid file %s: %w", path, err)
	}
	return &g, nil
}

// SaveGridFile writes g to a gob file at path, the counterpart to
// LoadGridFile used by the offline preprocessing step and by tests
// that need a round-trippable fixture.
func SaveGridFile(path string, g *Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("weather: creating grid file %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(g); err != nil {
		return fmt.Errorf("weather: encoding grid file %s: %w", path, err)
	}
	return nil
}
