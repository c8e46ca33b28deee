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

// Package orchestrator builds N simulations per program across P
// programs, runs them on a bounded worker pool, and collects the
// per-simulation results (or a recoverable per-job failure record) for
// the batch reporter to aggregate.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/im3s/ldarsim/internal/config"
	"github.com/im3s/ldarsim/internal/engine"
	"github.com/im3s/ldarsim/internal/fingerprint"
	"github.com/im3s/ldarsim/internal/site"
	"github.com/im3s/ldarsim/internal/worldcache"
)

const dateLayout = "2006-01-02"

// Failure records one (program, simulation) job that could not run to
// completion. The orchestrator keeps going after a Failure: the error
// taxonomy calls this SubsimulationFailure, recoverable at the
// orchestrator boundary.
type Failure struct {
	Program  string
	SimIndex int
	Err      error
}

// Result is one program's complete set of simulation runs, in
// simIndex order.
type Result struct {
	Program     string
	Simulations []*engine.Simulation
}

// programState is everything RunAll resolves once per program and
// reuses across every one of that program's simulations.
type programState struct {
	label     string
	prog      config.Program
	inputs    *Inputs
	baseSites []*site.Site
}

// RunAll builds and runs global.NSimulations simulations for each of
// programs, honoring global.Programs' declared order, pregenerate_leaks
// world caching, and preseed_random per-day reseeding, spread across a
// worker pool sized by global.NProcesses. It returns every program's
// completed simulations (even when some jobs failed) plus the list of
// jobs that failed.
func RunAll(ctx context.Context, paths Paths, global *config.Global, programs map[string]config.Program) ([]Result, []Failure, error) {
	start, err := time.Parse(dateLayout, global.StartDate)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: parsing start_date %q: %w", global.StartDate, err)
	}
	end, err := time.Parse(dateLayout, global.EndDate)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: parsing end_date %q: %w", global.EndDate, err)
	}
	nDays := int(end.Sub(start).Hours()/24) + 1
	if nDays <= 0 {
		return nil, nil, fmt.Errorf("orchestrator: end_date %s is not after start_date %s", global.EndDate, global.StartDate)
	}

	order := global.Programs
	if len(order) == 0 {
		for label := range programs {
			order = append(order, label)
		}
		sort.Strings(order)
	}

	states := make([]*programState, 0, len(order))
	for _, label := range order {
		prog, ok := programs[label]
		if !ok {
			return nil, nil, fmt.Errorf("orchestrator: program %q is declared in global.programs but has no parameter file", label)
		}
		in, err := LoadProgramInputs(paths, &prog)
		if err != nil {
			return nil, nil, err
		}
		sites, err := LoadFacilities(paths, &prog, in)
		if err != nil {
			return nil, nil, err
		}
		states = append(states, &programState{label: label, prog: prog, inputs: in, baseSites: sites})
	}

	nSims := global.NSimulations
	if nSims <= 0 {
		nSims = 1
	}

	var worlds []*worldcache.World // worlds[simIndex], populated only when PregenerateLeaks
	if global.PregenerateLeaks && len(states) > 0 {
		worlds, err = loadOrBuildWorlds(states[0], paths, nSims, start, nDays, global.PreseedRandom)
		if err != nil {
			return nil, nil, err
		}
	}

	type job struct {
		stateIdx, simIndex int
	}
	jobs := make([]job, 0, len(states)*nSims)
	for si := range states {
		for k := 0; k < nSims; k++ {
			jobs = append(jobs, job{si, k})
		}
	}

	results := make([][]*engine.Simulation, len(states))
	for i := range results {
		results[i] = make([]*engine.Simulation, nSims)
	}

	nWorkers := global.NProcesses
	if nWorkers <= 0 {
		nWorkers = 1
	}
	if nWorkers > len(jobs) {
		nWorkers = len(jobs)
	}
	if nWorkers < 1 {
		nWorkers = 1
	}

	jobCh := make(chan job)
	var mu sync.Mutex
	var failures []Failure

	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				st := states[j.stateIdx]
				sim, err := runOne(ctx, st, j.simIndex, start, nDays, worlds, global.PreseedRandom)
				mu.Lock()
				if err != nil {
					failures = append(failures, Failure{Program: st.label, SimIndex: j.simIndex, Err: err})
				} else {
					results[j.stateIdx][j.simIndex] = sim
				}
				mu.Unlock()
			}
		}()
	}
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)
	wg.Wait()

	out := make([]Result, len(states))
	for i, st := range states {
		out[i] = Result{Program: st.label, Simulations: results[i]}
	}
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].Program != failures[j].Program {
			return failures[i].Program < failures[j].Program
		}
		return failures[i].SimIndex < failures[j].SimIndex
	})
	return out, failures, nil
}

// runOne builds simIndex's simulation for st (from the cached world
// when one is supplied, otherwise from st's own inputs) and steps it
// through the full date range, recovering a panicking job into an
// error so one bad simulation never takes down the worker pool.
func runOne(ctx context.Context, st *programState, simIndex int, start time.Time, nDays int, worlds []*worldcache.World, preseedRandom bool) (sim *engine.Simulation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("orchestrator: program %s sim %d: panic: %v", st.label, simIndex, r)
		}
	}()

	if worlds != nil && simIndex < len(worlds) && worlds[simIndex] != nil {
		w := worlds[simIndex]
		sites, rerr := worldcache.RegenerateSites(w.Sites, st.baseSites)
		if rerr != nil {
			return nil, fmt.Errorf("orchestrator: program %s sim %d: %w", st.label, simIndex, rerr)
		}
		sim, err = BuildSimulationFromWorld(&st.prog, st.inputs, sites, simIndex, start, w, preseedRandom)
	} else {
		sim, err = BuildSimulation(&st.prog, st.inputs, st.baseSites, simIndex, start)
	}
	if err != nil {
		return nil, err
	}

	for d := 0; d < nDays; d++ {
		if err := sim.Step(ctx); err != nil {
			return nil, fmt.Errorf("orchestrator: program %s sim %d: %w", st.label, simIndex, err)
		}
	}
	return sim, nil
}

// loadOrBuildWorlds resolves one cached World per simulation index
// from seed's inputs, generating and persisting any missing or stale
// entries. Every other program reuses these same worlds via
// worldcache.RegenerateSites so the underlying leak realization is
// identical across the comparison.
func loadOrBuildWorlds(seed *programState, paths Paths, nSims int, start time.Time, nDays int, preseedRandom bool) ([]*worldcache.World, error) {
	dir := filepath.Join(paths.InputDir, "generator")
	fp := fingerprint.Of(struct {
		Program       config.Program
		NDays         int
		NSims         int
		PreseedRandom bool
		Sites         int
	}{seed.prog, nDays, nSims, preseedRandom, len(seed.baseSites)})

	worlds := make([]*worldcache.World, nSims)
	for i := 0; i < nSims; i++ {
		w, err := worldcache.Load(dir, fp, i)
		if err == nil {
			worlds[i] = w
			continue
		}
		w, err = PregenerateWorld(&seed.prog, seed.inputs, seed.baseSites, i, start, nDays, preseedRandom)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: pregenerating world for sim %d: %w", i, err)
		}
		if err := worldcache.Save(dir, fp, i, w); err != nil {
			return nil, fmt.Errorf("orchestrator: caching world for sim %d: %w", i, err)
		}
		worlds[i] = w
	}
	return worlds, nil
}
