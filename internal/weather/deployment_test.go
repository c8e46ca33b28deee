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

import "testing"

func envelopeGrid() *Grid {
	g := &Grid{
		LatEdges: []float64{50, 51},
		LonEdges: []float64{-115, -114},
		NDays:    5,
	}
	n := g.nLat() * g.nLon() * g.NDays
	g.Temperature = make([]float64, n)
	g.Wind = make([]float64, n)
	g.Precip = make([]float64, n)
	// Days 1 and 3 fall outside the envelope temperature bound.
	for d := 0; d < g.NDays; d++ {
		i := g.index(d, 0, 0)
		g.Wind[i] = 2
		g.Precip[i] = 0
		if d == 1 || d == 3 {
			g.Temperature[i] = -50
		} else {
			g.Temperature[i] = 10
		}
	}
	return g
}

func TestDeploymentDaysEnvelope(t *testing.T) {
	g := envelopeGrid()
	envelope := Envelope{
		MinTemp: -10, MaxTemp: 40,
		MinWind: 0, MaxWind: 10,
		MinPrecip: 0, MaxPrecip: 5,
	}
	dg := g.DeploymentDays(envelope)

	for d := 0; d < g.NDays; d++ {
		ok, err := dg.At(50.5, -114.5, d)
		if err != nil {
			t.Fatalf("unexpected error on day %d: %v", d, err)
		}
		want := d != 1 && d != 3
		if ok != want {
			t.Errorf("day %d deployable = %v, want %v", d, ok, want)
		}
	}
}

func TestDeploymentDaysOutOfRange(t *testing.T) {
	g := envelopeGrid()
	dg := g.DeploymentDays(Envelope{MaxTemp: 100, MaxWind: 100, MaxPrecip: 100})
	if _, err := dg.At(90, -114.5, 0); err == nil {
		t.Fatal("expected GridOutOfRange error, got nil")
	}
}

func TestMCBLongestBlackoutRun(t *testing.T) {
	g := envelopeGrid()
	envelope := Envelope{
		MinTemp: -10, MaxTemp: 40,
		MinWind: 0, MaxWind: 10,
		MinPrecip: 0, MaxPrecip: 5,
	}
	dg := g.DeploymentDays(envelope)
	// Only single-day blackouts at day 1 and day 3: longest run is 1.
	if mcb := dg.MCB(0, 0); mcb != 1 {
		t.Errorf("MCB = %d, want 1", mcb)
	}
}

func TestMCBAllDeployable(t *testing.T) {
	g := envelopeGrid()
	dg := g.DeploymentDays(Envelope{MinTemp: -100, MaxTemp: 100, MaxWind: 100, MaxPrecip: 100})
	if mcb := dg.MCB(0, 0); mcb != 0 {
		t.Errorf("MCB = %d, want 0", mcb)
	}
}
