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

package orchestrator

import (
	"sort"
	"time"

	"github.com/im3s/ldarsim/internal/config"
	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/site"
	"github.com/im3s/ldarsim/internal/worldcache"
)

// PregenerateWorld builds the tuple a pregenerate_leaks run caches for
// simIndex: a shuffled site order, that run's initial leaks, and the
// full-horizon per-site daily new-leak spawn decisions and (when
// preseedRandom) per-day RNG seeds, all drawn from one seed program's
// inputs so every later program comparing against this cached world
// sees an identical underlying leak realization.
func PregenerateWorld(prog *config.Program, in *Inputs, baseSites []*site.Site, simIndex int, start time.Time, nDays int, preseedRandom bool) (*worldcache.World, error) {
	sim := newBareSimulation(prog, baseSites, simIndex, start)
	site.Shuffle(sim.Sites, sim.Rng)
	if err := generateInitialLeaks(sim, in); err != nil {
		return nil, err
	}

	initial := make([]*leak.Leak, 0, len(sim.Leaks))
	for _, l := range sim.Leaks {
		cp := *l
		initial = append(initial, &cp)
	}
	sort.Slice(initial, func(i, j int) bool { return initial[i].ID < initial[j].ID })

	timeseries := make([][]int, len(sim.Sites))
	for i := range sim.Sites {
		counts := make([]int, nDays)
		for d := 0; d < nDays; d++ {
			if sim.Rng.Float64() < sim.LPR {
				counts[d] = 1
			}
		}
		timeseries[i] = counts
	}

	var seeds []int64
	if preseedRandom {
		seeds = make([]int64, nDays)
		for d := range seeds {
			seeds[d] = sim.Rng.Int63()
		}
	}

	return &worldcache.World{
		Sites:          sim.Sites,
		InitialLeaks:   initial,
		LeakTimeseries: [][][]int{timeseries},
		SeedTimeseries: [][]int64{seeds},
	}, nil
}
