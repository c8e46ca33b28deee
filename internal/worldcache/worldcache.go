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

// Package worldcache persists and reloads a pre-generated virtual
// world (sites, initial leaks, per-day new-leak timeseries, and
// per-day RNG seed timeseries) so that multiple programs can be
// compared against identical underlying leak realizations. The cache
// is a directory of gob-encoded per-simulation blobs guarded by a
// fingerprint file; concurrent writers are serialized with a file
// lock the way a shared cache directory among worker-pool goroutines
// requires.
package worldcache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/site"
)

// WorldCacheStale is returned by Load when the cache directory's
// recorded fingerprint doesn't match the fingerprint of the
// currently-resolved parameters. It is recoverable: the caller
// regenerates the world and overwrites the cache with Save.
type WorldCacheStale struct {
	Dir    string
	Reason string
}

func (e *WorldCacheStale) Error() string {
	return fmt.Sprintf("worldcache: cache in %s is stale: %s", e.Dir, e.Reason)
}

// World is the tuple a pregeneration run produces and a later program
// reuses: the facility list, the leaks present at t=0, and the
// per-simulation, per-site, per-day new-leak counts and RNG seeds that
// must replay identically across programs for the comparison to be
// fair.
type World struct {
	Sites          []*site.Site
	InitialLeaks   []*leak.Leak
	LeakTimeseries [][][]int   // [simIndex][siteIndex][day] new leaks spawned
	SeedTimeseries [][]int64   // [simIndex][day] pre-generated per-day RNG seed, used when preseed_random is set
}

const lockFileName = ".worldcache.lock"
const fingerprintFileName = "params.fp"

func blobPath(dir string, simIndex int) string {
	return filepath.Join(dir, fmt.Sprintf("pregen_%d.gob", simIndex))
}

func fingerprintPath(dir string) string {
	return filepath.Join(dir, fingerprintFileName)
}

// Save writes w to dir's cache blob for simIndex and records
// fingerprint as the directory's current validity stamp. Concurrent
// writers (one worker per simulation, sharing a generator directory)
// are serialized with an exclusive file lock so only the worker that
// actually needs to regenerate the world writes it.
func Save(dir string, fingerprint string, simIndex int, w *World) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("worldcache: creating cache directory %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("worldcache: locking %s: %w", dir, err)
	}
	defer lock.Unlock()

	f, err := os.Create(blobPath(dir, simIndex))
	if err != nil {
		return fmt.Errorf("worldcache: creating cache blob: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(w); err != nil {
		return fmt.Errorf("worldcache: encoding cache blob: %w", err)
	}

	if err := os.WriteFile(fingerprintPath(dir), []byte(fingerprint), 0644); err != nil {
		return fmt.Errorf("worldcache: writing fingerprint: %w", err)
	}
	return nil
}

// Load reads the cached World for simIndex from dir, failing with
// *WorldCacheStale if dir's recorded fingerprint doesn't match
// fingerprint, or a plain error if no cache exists yet.
func Load(dir string, fingerprint string, simIndex int) (*World, error) {
	stored, err := os.ReadFile(fingerprintPath(dir))
	if err != nil {
		return nil, fmt.Errorf("worldcache: no cache present in %s: %w", dir, err)
	}
	if string(stored) != fingerprint {
		return nil, &WorldCacheStale{Dir: dir, Reason: "resolved parameters no longer match the cached fingerprint"}
	}

	f, err := os.Open(blobPath(dir, simIndex))
	if err != nil {
		return nil, fmt.Errorf("worldcache: opening cache blob: %w", err)
	}
	defer f.Close()

	var w World
	if err := gob.NewDecoder(f).Decode(&w); err != nil {
		return nil, fmt.Errorf("worldcache: decoding cache blob: %w", err)
	}
	return &w, nil
}

// RegenerateSites rebuilds a program-specific site list from a cached
// world's sites, replacing only the per-method site parameters
// (survey time, minimum interval, required surveys) with the values
// from override, matched by facility ID. Every other field --
// location, subtype, and the distribution parameters that drive leak
// generation -- is carried over unchanged, so the same underlying
// leak realization applies across every program compared against this
// cached world.
func RegenerateSites(cached []*site.Site, override []*site.Site) ([]*site.Site, error) {
	overrideByID := make(map[string]*site.Site, len(override))
	for _, s := range override {
		overrideByID[s.FacilityID] = s
	}

	out := make([]*site.Site, len(cached))
	for i, s := range cached {
		ov, ok := overrideByID[s.FacilityID]
		if !ok {
			return nil, fmt.Errorf("worldcache: regenerate_sites: facility %s is missing from the program's facility table", s.FacilityID)
		}
		merged := *s
		merged.MethodParams = ov.MethodParams
		merged.MethodCounters = make(map[string]*site.MethodCounters, len(ov.MethodParams))
		for m := range ov.MethodParams {
			merged.MethodCounters[m] = &site.MethodCounters{}
		}
		out[i] = &merged
	}
	return out, nil
}
