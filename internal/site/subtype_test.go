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
	"strings"
	"testing"

	"github.com/im3s/ldarsim/internal/weather"
)

const sampleDistCSV = `subtype_code,dist_type,dist_mu,dist_sigma,dist_metric,dist_increment
A,lognormal,1.5,0.8,kilogram,hour
FALLBACK,lognormal,1.0,0.5,gram,second
`

const sampleTimesCSV = `subtype_code,OGI,aircraft
A,120,45
FALLBACK,100,40
`

func TestAttachSubtypesMatched(t *testing.T) {
	dists, err := LoadSubtypeDistributionsCSV(strings.NewReader(sampleDistCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	times, err := LoadSubtypeTimesCSV(strings.NewReader(sampleTimesCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sites := []*Site{{FacilityID: "s1", SubtypeCode: "A"}}
	if err := AttachSubtypes(sites, dists, times, "FALLBACK"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sites[0].DistType != "lognormal" || sites[0].DistMu != 1.5 {
		t.Errorf("unexpected attached distribution: %+v", sites[0])
	}
	if sites[0].DistMetric != "kilogram" || sites[0].DistIncrement != "hour" {
		t.Errorf("unexpected attached units: %q/%q", sites[0].DistMetric, sites[0].DistIncrement)
	}
	if sites[0].SubtypeTimes["OGI"] != 120 {
		t.Errorf("unexpected attached times: %+v", sites[0].SubtypeTimes)
	}
}

func TestAttachSubtypesFallsBackOnUnmatched(t *testing.T) {
	dists, _ := LoadSubtypeDistributionsCSV(strings.NewReader(sampleDistCSV))
	times, _ := LoadSubtypeTimesCSV(strings.NewReader(sampleTimesCSV))

	sites := []*Site{{FacilityID: "s1", SubtypeCode: "does_not_exist"}}
	if err := AttachSubtypes(sites, dists, times, "FALLBACK"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sites[0].DistMu != 1.0 {
		t.Errorf("expected fallback distribution attached, got %+v", sites[0])
	}
}

func TestAttachGridIndicesOutOfRange(t *testing.T) {
	g := &weather.Grid{
		LatEdges: []float64{50, 51},
		LonEdges: []float64{-115, -114},
		NDays:    1,
	}
	g.Temperature = make([]float64, 1)
	g.Wind = make([]float64, 1)
	g.Precip = make([]float64, 1)

	sites := []*Site{{FacilityID: "s1", Lat: 90, Lon: -114.5}}
	if err := AttachGridIndices(sites, g); err == nil {
		t.Fatal("expected GridOutOfRange error")
	}
}

func TestAttachGridIndicesInRange(t *testing.T) {
	g := &weather.Grid{
		LatEdges: []float64{50, 51},
		LonEdges: []float64{-115, -114},
		NDays:    1,
	}
	g.Temperature = make([]float64, 1)
	g.Wind = make([]float64, 1)
	g.Precip = make([]float64, 1)

	sites := []*Site{{FacilityID: "s1", Lat: 50.5, Lon: -114.5}}
	if err := AttachGridIndices(sites, g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sites[0].LatIdx != 0 || sites[0].LonIdx != 0 {
		t.Errorf("unexpected grid indices: %+v", sites[0])
	}
}

func TestLoadSubtypeDistributionsRejectsUnknownUnits(t *testing.T) {
	csv := "subtype_code,dist_type,dist_mu,dist_sigma,dist_metric,dist_increment\nA,lognormal,1.0,0.5,furlong,hour\n"
	if _, err := LoadSubtypeDistributionsCSV(strings.NewReader(csv)); err == nil {
		t.Error("expected an error for an unrecognized dist_metric unit")
	}
}
