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

// Package cli wires the cobra command tree the ldarsim binary
// exposes: a root command plus one subcommand per CLI surface,
// currently the single "run" entry point.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/im3s/ldarsim/internal/config"
	"github.com/im3s/ldarsim/internal/engine"
	"github.com/im3s/ldarsim/internal/orchestrator"
	"github.com/im3s/ldarsim/internal/report"
)

// Cfg holds the ldarsim command tree: the root command and its "run"
// subcommand.
type Cfg struct {
	Root   *cobra.Command
	runCmd *cobra.Command
}

// InitializeConfig builds the ldarsim command tree: a root command
// carrying global usage text and a "run" subcommand that loads the
// parameter-file sequence, runs the orchestrator, and writes every
// output file described in the external-interfaces contract.
func InitializeConfig() *Cfg {
	cfg := &Cfg{}

	cfg.Root = &cobra.Command{
		Use:   "ldarsim",
		Short: "A discrete-event simulator for leak detection and repair programs.",
		Long: `LDAR-Sim evaluates leak detection and repair (LDAR) programs on oil and gas
infrastructure: mobile crews, aircraft, trucks, stationary monitors, and
satellite passes compete to find and tag methane leaks under realistic
weather, daylight, and routing constraints.

Refer to the subcommand documentation for parameter-file layering and output
file conventions.`,
	}

	cfg.runCmd = &cobra.Command{
		Use:   "run [global.yaml] [program1.yaml] [program2.yaml...]",
		Short: "Run one or more programs and write comparison reports.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(args)
		},
	}
	cfg.Root.AddCommand(cfg.runCmd)

	return cfg
}

// Run loads paramPaths (a global parameter file followed by one
// program file per program), runs every program's simulations, and
// writes the per-simulation and per-program output files into the
// global configuration's output_directory. It returns a non-nil error
// on a parameter validation failure or a grid-out-of-range condition,
// matching the CLI's documented non-zero exit codes; a
// SubsimulationFailure in an individual worker is instead logged and
// does not fail the whole run.
func Run(paramPaths []string) error {
	global, programs, warnings, err := config.Load(paramPaths)
	if err != nil {
		return fmt.Errorf("ldarsim: %w", err)
	}
	for _, w := range warnings {
		log.Printf("ldarsim: warning: %s", w)
	}

	paths := orchestrator.Paths{InputDir: global.InputDirectory, OutputDir: global.OutputDirectory}
	if err := os.MkdirAll(paths.OutputDir, 0755); err != nil {
		return fmt.Errorf("ldarsim: creating output directory: %w", err)
	}

	results, failures, err := orchestrator.RunAll(cmdContext(), paths, global, programs)
	if err != nil {
		return fmt.Errorf("ldarsim: %w", err)
	}
	for _, f := range failures {
		log.Printf("ldarsim: program %s simulation %d failed: %v", f.Program, f.SimIndex, f.Err)
	}

	if err := writeReports(paths.OutputDir, global, results); err != nil {
		return fmt.Errorf("ldarsim: writing reports: %w", err)
	}
	if len(failures) > 0 {
		log.Printf("ldarsim: %d of %d simulation jobs failed; partial reports were written", len(failures), totalJobs(results))
	}
	return nil
}

func totalJobs(results []orchestrator.Result) int {
	n := 0
	for _, r := range results {
		n += len(r.Simulations)
	}
	return n
}

// writeReports writes every per-simulation output file and the
// per-program comparison tables and plot described in the external
// interfaces contract.
func writeReports(outputDir string, global *config.Global, results []orchestrator.Result) error {
	summaries := make([]report.ProgramSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, report.Summarize(r.Program, r.Simulations))

		for simIndex, sim := range r.Simulations {
			if sim == nil {
				continue
			}
			if err := writeSimFiles(outputDir, r.Program, simIndex, sim); err != nil {
				return err
			}
		}
	}

	if err := writeCSV(outputDir, "mean_emissions.csv", func(f *os.File) error {
		return report.WriteMeanEmissionsCSV(f, summaries)
	}); err != nil {
		return err
	}
	if err := writeCSV(outputDir, "mean_active_leaks.csv", func(f *os.File) error {
		return report.WriteMeanActiveLeaksCSV(f, summaries)
	}); err != nil {
		return err
	}
	if err := writeCSV(outputDir, "cost_estimate_temporal.csv", func(f *os.File) error {
		return report.WriteCostEstimateTemporalCSV(f, summaries)
	}); err != nil {
		return err
	}

	baseline := global.BaselineProgram
	if baseline == "" && len(summaries) > 0 {
		baseline = summaries[0].Program
	}
	mitigation := report.BuildCostMitigation(summaries, baseline)
	if err := writeCSV(outputDir, "cost_comparison.csv", func(f *os.File) error {
		return report.WriteCostComparisonCSV(f, mitigation)
	}); err != nil {
		return err
	}

	for _, s := range summaries {
		if err := writeCSV(outputDir, s.Program+"_descriptives.csv", func(f *os.File) error {
			return report.WriteDescriptivesCSV(f, []report.ProgramSummary{s})
		}); err != nil {
			return err
		}
	}

	if len(summaries) > 0 {
		if err := report.SaveMeanEmissionsPlot(summaries, outputDir+"/mean_emissions.png"); err != nil {
			log.Printf("ldarsim: warning: could not render mean emissions plot: %v", err)
		}
	}
	return nil
}

// writeSimFiles writes one simulation's leaks/timeseries/sites CSVs
// and its metadata file, named the way the external interfaces
// contract numbers per-simulation outputs.
func writeSimFiles(outputDir, program string, simIndex int, sim *engine.Simulation) error {
	suffix := fmt.Sprintf("%s_%d", program, simIndex)

	if err := writeCSV(outputDir, "leaks_output_"+suffix+".csv", func(f *os.File) error {
		return report.WriteLeaksCSV(f, sim)
	}); err != nil {
		return err
	}
	if err := writeCSV(outputDir, "timeseries_output_"+suffix+".csv", func(f *os.File) error {
		return report.WriteTimeseriesCSV(f, sim)
	}); err != nil {
		return err
	}
	if err := writeCSV(outputDir, "sites_output_"+suffix+".csv", func(f *os.File) error {
		return report.WriteSitesCSV(f, sim)
	}); err != nil {
		return err
	}

	metaPath := filepath.Join(outputDir, "metadata_"+suffix+".txt")
	f, err := os.Create(metaPath)
	if err != nil {
		return fmt.Errorf("ldarsim: creating %s: %w", metaPath, err)
	}
	defer f.Close()
	start := sim.Date
	if len(sim.Daily) > 0 {
		start = sim.Daily[0].Date
	}
	return report.WriteMetadata(f, program, simIndex, start, len(sim.Daily), time.Now())
}

// writeCSV creates name under outputDir and hands it to write, the
// small helper every report writer above shares so a failing write
// closes its file before returning.
func writeCSV(outputDir, name string, write func(*os.File) error) error {
	path := filepath.Join(outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ldarsim: creating %s: %w", path, err)
	}
	defer f.Close()
	return write(f)
}

// cmdContext returns the background context RunAll steps every
// simulation under; the CLI has no enclosing request lifetime to
// inherit from.
func cmdContext() context.Context {
	return context.Background()
}
