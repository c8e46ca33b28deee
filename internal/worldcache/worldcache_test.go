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

package worldcache

import (
	"testing"

	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/site"
)

func testWorld() *World {
	s := site.NewSite("A1")
	s.Lat, s.Lon = 50, -110
	s.MethodParams["OGI"] = site.MethodParams{Time: 60, MinInt: 30, RS: 2}
	return &World{
		Sites:          []*site.Site{s},
		InitialLeaks:   []*leak.Leak{{ID: "A1_0000", FacilityID: "A1", Rate: 1.2}},
		LeakTimeseries: [][][]int{{{0, 1, 0}}},
		SeedTimeseries: [][]int64{{1, 2, 3}},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := testWorld()

	if err := Save(dir, "fp-1", 0, w); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(dir, "fp-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Sites) != 1 || loaded.Sites[0].FacilityID != "A1" {
		t.Errorf("sites did not round-trip: %+v", loaded.Sites)
	}
	if loaded.InitialLeaks[0].Rate != 1.2 {
		t.Errorf("leaks did not round-trip: %+v", loaded.InitialLeaks)
	}
	if loaded.LeakTimeseries[0][0][1] != 1 {
		t.Errorf("leak timeseries did not round-trip: %v", loaded.LeakTimeseries)
	}
}

func TestLoadStaleFingerprint(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, "fp-1", 0, testWorld()); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir, "fp-2", 0)
	if err == nil {
		t.Fatal("expected a WorldCacheStale error")
	}
	if _, ok := err.(*WorldCacheStale); !ok {
		t.Errorf("error type = %T, want *WorldCacheStale", err)
	}
}

func TestRegenerateSitesPreservesIdentityAndLeakDrivers(t *testing.T) {
	cached := testWorld().Sites
	cached[0].DistType = "lognormal"
	cached[0].DistMu = -2.3

	override := []*site.Site{site.NewSite("A1")}
	override[0].MethodParams["OGI"] = site.MethodParams{Time: 90, MinInt: 60, RS: 1}

	out, err := RegenerateSites(cached, override)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].FacilityID != "A1" {
		t.Errorf("facility ID changed: %s", out[0].FacilityID)
	}
	if out[0].DistType != "lognormal" || out[0].DistMu != -2.3 {
		t.Errorf("leak-generation-relevant fields were not preserved: %+v", out[0])
	}
	if out[0].MethodParams["OGI"].Time != 90 || out[0].MethodParams["OGI"].MinInt != 60 {
		t.Errorf("per-method parameters were not replaced: %+v", out[0].MethodParams["OGI"])
	}
}

func TestRegenerateSitesMissingFacilityErrors(t *testing.T) {
	cached := testWorld().Sites
	_, err := RegenerateSites(cached, nil)
	if err == nil {
		t.Fatal("expected an error for a facility missing from the override table")
	}
}
