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
	"github.com/im3s/ldarsim/internal/site"
)

func simWithDaily(seed int64, daily []engine.DayStats, finalEmissionsKg float64) *engine.Simulation {
	sim := engine.NewSimulation(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), seed)
	sim.Daily = daily
	sim.Sites = []*site.Site{site.NewSite("F001")}
	sim.Sites[0].TotalEmissionsKg = finalEmissionsKg
	return sim
}

func TestSummarizeAveragesAcrossSimulations(t *testing.T) {
	a := simWithDaily(1, []engine.DayStats{
		{Day: 0, ActiveLeaks: 2, DailyEmissionsKg: 10, TotalDailyCostUSD: 100},
		{Day: 1, ActiveLeaks: 4, DailyEmissionsKg: 20, TotalDailyCostUSD: 100},
	}, 30)
	b := simWithDaily(2, []engine.DayStats{
		{Day: 0, ActiveLeaks: 0, DailyEmissionsKg: 0, TotalDailyCostUSD: 0},
		{Day: 1, ActiveLeaks: 2, DailyEmissionsKg: 10, TotalDailyCostUSD: 0},
	}, 10)

	summary := Summarize("OGI", []*engine.Simulation{a, b, nil})

	if summary.NSimulations != 2 {
		t.Fatalf("NSimulations = %d, want 2", summary.NSimulations)
	}
	if len(summary.Daily) != 2 {
		t.Fatalf("len(Daily) = %d, want 2", len(summary.Daily))
	}
	if summary.Daily[0].MeanActiveLeaks != 1 {
		t.Errorf("day0 MeanActiveLeaks = %v, want 1", summary.Daily[0].MeanActiveLeaks)
	}
	if summary.Daily[1].MeanEmissionsKg != 15 {
		t.Errorf("day1 MeanEmissionsKg = %v, want 15", summary.Daily[1].MeanEmissionsKg)
	}
	// cumulative cost: day0 mean cost 50, day1 mean cost 50 -> cum 100
	if summary.Daily[1].MeanCumCostUSD != 100 {
		t.Errorf("day1 MeanCumCostUSD = %v, want 100", summary.Daily[1].MeanCumCostUSD)
	}
	if summary.TotalCostUSD != 100 {
		t.Errorf("TotalCostUSD = %v, want 100", summary.TotalCostUSD)
	}
	if summary.FinalEmissions != 20 {
		t.Errorf("FinalEmissions = %v, want 20 (mean of 30 and 10)", summary.FinalEmissions)
	}
}

func TestSummarizeAllFailedIsEmpty(t *testing.T) {
	summary := Summarize("P", []*engine.Simulation{nil, nil})
	if summary.NSimulations != 0 {
		t.Fatalf("NSimulations = %d, want 0", summary.NSimulations)
	}
	if summary.Daily != nil {
		t.Errorf("Daily = %v, want nil", summary.Daily)
	}
}

func TestBuildCostMitigationRatioAndZeroDenominator(t *testing.T) {
	baseline := ProgramSummary{Program: "no_program", FinalEmissions: 2000, TotalCostUSD: 0}
	better := ProgramSummary{Program: "OGI", FinalEmissions: 1000, TotalCostUSD: 5000}
	same := ProgramSummary{Program: "identical", FinalEmissions: 2000, TotalCostUSD: 1000}

	rows := BuildCostMitigation([]ProgramSummary{baseline, better, same}, "no_program")

	var betterRow, sameRow CostMitigationRow
	for _, r := range rows {
		switch r.Program {
		case "OGI":
			betterRow = r
		case "identical":
			sameRow = r
		}
	}

	wantAvoided := (2000.0/1000*MethaneGWP100 - 1000.0/1000*MethaneGWP100)
	if betterRow.TonnesCO2eAvoided != wantAvoided {
		t.Errorf("TonnesCO2eAvoided = %v, want %v", betterRow.TonnesCO2eAvoided, wantAvoided)
	}
	wantRatio := betterRow.TotalCostUSD / wantAvoided
	if betterRow.CostMitigationRatio != wantRatio {
		t.Errorf("CostMitigationRatio = %v, want %v", betterRow.CostMitigationRatio, wantRatio)
	}

	if sameRow.CostMitigationRatio != 0 {
		t.Errorf("identical program's ratio = %v, want 0 (zero-denominator case)", sameRow.CostMitigationRatio)
	}
}

func TestWriteMeanEmissionsCSVHeaderAndRows(t *testing.T) {
	s1 := ProgramSummary{Program: "OGI", Daily: []DayAggregate{{Day: 0, MeanEmissionsKg: 5}, {Day: 1, MeanEmissionsKg: 7}}}
	s2 := ProgramSummary{Program: "no_program", Daily: []DayAggregate{{Day: 0, MeanEmissionsKg: 9}}}

	var buf bytes.Buffer
	if err := WriteMeanEmissionsCSV(&buf, []ProgramSummary{s1, s2}); err != nil {
		t.Fatalf("WriteMeanEmissionsCSV: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "OGI_emissions_kg") || !strings.Contains(out, "no_program_emissions_kg") {
		t.Fatalf("header missing expected columns: %q", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 { // header + day0 + day1
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	// day1 has no value for no_program (only 1 day of data) -> trailing empty field
	if !strings.HasSuffix(lines[2], ",") {
		t.Errorf("day1 row = %q, want a trailing empty field for the shorter program", lines[2])
	}
}

func TestWriteDescriptivesCSVRoundTrip(t *testing.T) {
	s := ProgramSummary{Program: "OGI", NSimulations: 3, FinalEmissions: 123.456, TotalCostUSD: 789}
	var buf bytes.Buffer
	if err := WriteDescriptivesCSV(&buf, []ProgramSummary{s}); err != nil {
		t.Fatalf("WriteDescriptivesCSV: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "OGI,3,123.456000,789.000000") {
		t.Errorf("unexpected row in output:\n%s", out)
	}
}
