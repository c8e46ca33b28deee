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

// Package report implements the batch reporter: aggregating each
// program's per-simulation daily timeseries into the comparison
// tables the orchestrator writes out once every simulation has run,
// reducing many per-program simulation runs into the aggregate tables
// and plots the CLI hands to its own callers.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/im3s/ldarsim/internal/engine"
)

// DayAggregate is one program's across-simulation mean for a single
// calendar day, the unit both mean_emissions.csv and
// mean_active_leaks.csv are built from.
type DayAggregate struct {
	Day              int
	MeanActiveLeaks  float64
	MeanEmissionsKg  float64
	MeanCumRepaired  float64
	MeanDailyCostUSD float64
	MeanCumCostUSD   float64
}

// ProgramSummary is the batch reporter's per-program reduction of N
// simulations' daily timeseries plus the descriptive statistics the
// comparison tables need.
type ProgramSummary struct {
	Program        string
	NSimulations   int
	Daily          []DayAggregate
	TotalCostUSD   float64 // mean total program cost across simulations
	FinalEmissions float64 // mean cumulative emissions (kg) at the last simulated day
}

// Summarize reduces sims (one program's completed runs; nil entries
// from a failed job are skipped) into a ProgramSummary. It panics on
// nothing: an all-failed program yields an empty summary with
// NSimulations=0 so the caller can still emit a row recording that.
func Summarize(program string, sims []*engine.Simulation) ProgramSummary {
	var ok []*engine.Simulation
	for _, s := range sims {
		if s != nil {
			ok = append(ok, s)
		}
	}
	summary := ProgramSummary{Program: program, NSimulations: len(ok)}
	if len(ok) == 0 {
		return summary
	}

	nDays := len(ok[0].Daily)
	for _, s := range ok {
		if len(s.Daily) < nDays {
			nDays = len(s.Daily)
		}
	}

	summary.Daily = make([]DayAggregate, nDays)
	for d := 0; d < nDays; d++ {
		var activeSum, emitSum, repairedSum, costSum, cumCostSum float64
		for _, s := range ok {
			day := s.Daily[d]
			activeSum += float64(day.ActiveLeaks)
			emitSum += day.DailyEmissionsKg
			repairedSum += float64(day.CumRepairedLeaks)
			costSum += day.TotalDailyCostUSD
		}
		n := float64(len(ok))
		summary.Daily[d] = DayAggregate{
			Day:              d,
			MeanActiveLeaks:  activeSum / n,
			MeanEmissionsKg:  emitSum / n,
			MeanCumRepaired:  repairedSum / n,
			MeanDailyCostUSD: costSum / n,
		}
	}

	var runningCost float64
	for d := range summary.Daily {
		runningCost += summary.Daily[d].MeanDailyCostUSD
		summary.Daily[d].MeanCumCostUSD = runningCost
	}
	summary.TotalCostUSD = runningCost
	if nDays > 0 {
		var finalSum float64
		for _, s := range ok {
			for _, st := range s.Sites {
				finalSum += st.TotalEmissionsKg
			}
		}
		summary.FinalEmissions = finalSum / float64(len(ok))
	}
	return summary
}

// WriteMeanEmissionsCSV writes one row per simulated day: day index
// and the program's mean daily emissions (kg), the shape
// mean_emissions.csv takes across every program compared.
func WriteMeanEmissionsCSV(w io.Writer, summaries []ProgramSummary) error {
	return writeMeanSeriesCSV(w, summaries, "emissions_kg", func(d DayAggregate) float64 { return d.MeanEmissionsKg })
}

// WriteMeanActiveLeaksCSV writes mean_active_leaks.csv: one row per
// day, one column per program, of the program's mean active-leak
// count that day.
func WriteMeanActiveLeaksCSV(w io.Writer, summaries []ProgramSummary) error {
	return writeMeanSeriesCSV(w, summaries, "active_leaks", func(d DayAggregate) float64 { return d.MeanActiveLeaks })
}

// WriteCostEstimateTemporalCSV writes cost_estimate_temporal.csv: one
// row per day, one column per program, of the program's mean
// cumulative cost (USD) through that day.
func WriteCostEstimateTemporalCSV(w io.Writer, summaries []ProgramSummary) error {
	return writeMeanSeriesCSV(w, summaries, "cumulative_cost_usd", func(d DayAggregate) float64 { return d.MeanCumCostUSD })
}

func writeMeanSeriesCSV(w io.Writer, summaries []ProgramSummary, valueLabel string, pick func(DayAggregate) float64) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"day"}
	for _, s := range summaries {
		header = append(header, s.Program+"_"+valueLabel)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	nDays := 0
	for _, s := range summaries {
		if len(s.Daily) > nDays {
			nDays = len(s.Daily)
		}
	}

	for d := 0; d < nDays; d++ {
		row := []string{fmt.Sprintf("%d", d)}
		for _, s := range summaries {
			if d < len(s.Daily) {
				row = append(row, formatFloat(pick(s.Daily[d])))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteDescriptivesCSV writes {program}_descriptives.csv: one summary
// row per program with the headline totals a reviewer compares first.
func WriteDescriptivesCSV(w io.Writer, summaries []ProgramSummary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"program", "n_simulations", "mean_final_emissions_kg", "mean_total_cost_usd"}); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{
			s.Program,
			fmt.Sprintf("%d", s.NSimulations),
			formatFloat(s.FinalEmissions),
			formatFloat(s.TotalCostUSD),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// CostMitigationRow is one program's entry in cost_comparison.csv:
// the DESIGN.md-codified ratio of that program's total cost to the
// emissions tonnage it avoided versus a baseline program.
type CostMitigationRow struct {
	Program             string
	TotalCostUSD        float64
	TonnesCO2eAvoided   float64
	CostMitigationRatio float64 // TotalCostUSD / TonnesCO2eAvoided; 0 when the denominator is 0
}

// MethaneGWP100 is the 100-year global warming potential used to
// convert avoided methane mass into CO2-equivalent tonnes.
const MethaneGWP100 = 28.0

// BuildCostMitigation computes each non-baseline program's
// cost_mitigation_ratio against baseline: total_program_cost divided
// by the baseline-vs-program difference in cumulative tonnes CO2e
// emitted. The ratio is emitted as 0, not NaN or Inf, when that
// difference is 0.
func BuildCostMitigation(summaries []ProgramSummary, baseline string) []CostMitigationRow {
	var base *ProgramSummary
	for i := range summaries {
		if summaries[i].Program == baseline {
			base = &summaries[i]
			break
		}
	}

	rows := make([]CostMitigationRow, 0, len(summaries))
	for _, s := range summaries {
		row := CostMitigationRow{Program: s.Program, TotalCostUSD: s.TotalCostUSD}
		if base != nil {
			baselineTonnes := base.FinalEmissions / 1000 * MethaneGWP100
			progTonnes := s.FinalEmissions / 1000 * MethaneGWP100
			diff := baselineTonnes - progTonnes
			row.TonnesCO2eAvoided = diff
			if diff != 0 {
				row.CostMitigationRatio = row.TotalCostUSD / diff
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Program < rows[j].Program })
	return rows
}

// WriteCostComparisonCSV writes cost_comparison.csv from a set of
// already-computed CostMitigationRow entries.
func WriteCostComparisonCSV(w io.Writer, rows []CostMitigationRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"program", "total_cost_usd", "tonnes_co2e_avoided", "cost_mitigation_ratio"}); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{r.Program, formatFloat(r.TotalCostUSD), formatFloat(r.TonnesCO2eAvoided), formatFloat(r.CostMitigationRatio)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return fmt.Sprintf("%.6f", v)
}
