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

package fingerprint

import "testing"

type sampleParams struct {
	LPR       float64
	NRd       int
	StartDate string
	Methods   []string
}

func TestOfIsStableAndSensitiveToChange(t *testing.T) {
	a := sampleParams{LPR: 0.001, NRd: 400, StartDate: "2023-01-01", Methods: []string{"OGI", "aircraft"}}
	b := a

	if Of(a) != Of(b) {
		t.Error("identical parameter structs produced different fingerprints")
	}

	b.LPR = 0.002
	if Of(a) == Of(b) {
		t.Error("changed parameter struct produced the same fingerprint")
	}
}

func TestOfMapOrderIndependent(t *testing.T) {
	// Map iteration order is randomized per run; the key-sorted dump
	// must still hash identically.
	m := map[string]int{"OGI": 1, "aircraft": 2, "truck": 3, "satellite": 4}
	first := Of(m)
	for i := 0; i < 16; i++ {
		if Of(m) != first {
			t.Fatal("fingerprint of the same map varied across calls")
		}
	}
	if first == "" {
		t.Error("expected non-empty fingerprint")
	}
}
