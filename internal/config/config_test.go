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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeTmp(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingKeyInheritsDefault(t *testing.T) {
	global := writeTmp(t, "global.yaml", "n_simulations: 5\n")
	program := writeTmp(t, "program.yaml", "label: P_ALT\nLPR: 0.1\n")

	g, progs, warnings, err := Load([]string{global, program})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if g.NSimulations != 5 {
		t.Errorf("NSimulations = %d, want 5", g.NSimulations)
	}
	if g.NProcesses != 1 {
		t.Errorf("NProcesses = %d, want inherited default 1", g.NProcesses)
	}
	p, ok := progs["P_ALT"]
	if !ok {
		t.Fatalf("program P_ALT not found in %v", progs)
	}
	if p.NRd != 365 {
		t.Errorf("NRd = %d, want inherited default 365", p.NRd)
	}
}

func TestLoadUnknownKeyWarns(t *testing.T) {
	global := writeTmp(t, "global.yaml", "n_simulations: 1\nbogus_key: true\n")

	_, _, warnings, err := Load([]string{global})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
}

func TestLoadTypeMismatchIsFatal(t *testing.T) {
	global := writeTmp(t, "global.yaml", "n_simulations: \"not-a-number\"\n")

	_, _, _, err := Load([]string{global})
	if err == nil {
		t.Fatal("expected a ParameterError for a type-mismatched key")
	}
	if _, ok := err.(*ParameterError); !ok {
		t.Errorf("error type = %T, want *ParameterError", err)
	}
}

func TestResolveMethodsOrphanMatchesByType(t *testing.T) {
	library := DefaultMethodLibrary()
	raw := map[string]interface{}{
		"OGI_crew_2": map[string]interface{}{
			"sensor":   "OGI",
			"n_crews":  3,
			"max_workday": float64(10),
		},
	}
	resolved, warnings, err := ResolveMethods(raw, library)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	m, ok := resolved["OGI_crew_2"]
	if !ok {
		t.Fatalf("expected resolved method OGI_crew_2, got %v", resolved)
	}
	if m.NCrews != 3 || m.MaxWorkday != 10 {
		t.Errorf("overrides not applied: %+v", m)
	}
	if m.DeploymentType != "mobile" || m.MeasurementScale != "component" {
		t.Errorf("orphan method did not inherit matched defaults: %+v", m)
	}
}

func TestReadParamFileJSON(t *testing.T) {
	path := writeTmp(t, "global.json", fmt.Sprintf(`{"n_simulations": 3, "input_directory": "%s"}`, "data"))
	raw, err := readParamFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if raw["n_simulations"] != int64(3) && raw["n_simulations"] != float64(3) {
		t.Errorf("n_simulations = %v (%T)", raw["n_simulations"], raw["n_simulations"])
	}
}
