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

package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/im3s/ldarsim/internal/engine"
	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/site"
)

func TestWriteLeaksCSVSortsByLeakID(t *testing.T) {
	sim := engine.NewSimulation(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)
	sim.Leaks["F002_0000"] = &leak.Leak{ID: "F002_0000", FacilityID: "F002", Rate: 1.5, Status: leak.Active}
	sim.Leaks["F001_0000"] = &leak.Leak{ID: "F001_0000", FacilityID: "F001", Rate: 2.5, Status: leak.Repaired}

	var buf bytes.Buffer
	if err := WriteLeaksCSV(&buf, sim); err != nil {
		t.Fatalf("WriteLeaksCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 leaks):\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "F001_0000,") {
		t.Errorf("first data row = %q, want F001_0000 first (sorted)", lines[1])
	}
	if !strings.Contains(lines[1], "repaired") {
		t.Errorf("F001_0000 row missing repaired status: %q", lines[1])
	}
}

func TestWriteTimeseriesCSVOneRowPerDay(t *testing.T) {
	sim := engine.NewSimulation(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)
	sim.Daily = []engine.DayStats{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ActiveLeaks: 3, TotalDailyCostUSD: 42},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ActiveLeaks: 2, TotalDailyCostUSD: 0},
	}
	var buf bytes.Buffer
	if err := WriteTimeseriesCSV(&buf, sim); err != nil {
		t.Fatalf("WriteTimeseriesCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "2024-01-01,3,0,0,0.000000,0,42.000000") {
		t.Errorf("row 1 = %q", lines[1])
	}
}

func TestWriteSitesCSVIncludesCounters(t *testing.T) {
	sim := engine.NewSimulation(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)
	st := site.NewSite("F001")
	st.TotalEmissionsKg = 17
	st.ActiveLeaks = 2
	st.RepairedLeaks = 1
	sim.Sites = []*site.Site{st}

	var buf bytes.Buffer
	if err := WriteSitesCSV(&buf, sim); err != nil {
		t.Fatalf("WriteSitesCSV: %v", err)
	}
	if !strings.Contains(buf.String(), "F001,0.000000,0.000000,,17.000000,2,1") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteMetadataFields(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	generated := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := WriteMetadata(&buf, "OGI", 3, start, 365, generated); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"program: OGI", "simulation: 3", "start_date: 2024-01-01", "n_days: 365"} {
		if !strings.Contains(out, want) {
			t.Errorf("metadata output missing %q:\n%s", want, out)
		}
	}
}
