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

package leak

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
)

// EmpiricalSampler draws uniformly-at-random from a fixed set of
// observed values, the form leak-rate, leak-count, and offsite-time
// CSVs all take: a single column of samples to resample from rather
// than fit.
type EmpiricalSampler struct {
	values []float64
}

// NewEmpiricalSampler builds a sampler from a raw slice of values.
func NewEmpiricalSampler(values []float64) *EmpiricalSampler {
	cp := make([]float64, len(values))
	copy(cp, values)
	return &EmpiricalSampler{values: cp}
}

// LoadEmpiricalCSV reads a single-column CSV (optionally with a
// one-line header that fails to parse as a float) into an
// EmpiricalSampler: read the first record, attempt to parse it, and
// only treat it as a header if parsing fails.
func LoadEmpiricalCSV(r io.Reader) (*EmpiricalSampler, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 1

	var values []float64
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leak: reading empirical CSV: %v", err)
		}
		v, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			if first {
				first = false
				continue // header row
			}
			return nil, fmt.Errorf("leak: parsing empirical CSV value %q: %v", rec[0], err)
		}
		first = false
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("leak: empirical CSV contained no values")
	}
	return &EmpiricalSampler{values: values}, nil
}

// Sample draws one value uniformly at random.
func (s *EmpiricalSampler) Sample(rng *rand.Rand) float64 {
	return s.values[rng.Intn(len(s.values))]
}

// SampleInt draws one value, rounding to the nearest integer; used for
// the leak-count CSV.
func (s *EmpiricalSampler) SampleInt(rng *rand.Rand) int {
	return int(s.Sample(rng) + 0.5)
}

// Len reports the number of values backing the sampler.
func (s *EmpiricalSampler) Len() int { return len(s.values) }

// Values returns a copy of the sampler's backing values, for callers
// that need the full empirical distribution (e.g. quantile lookups)
// rather than a single draw.
func (s *EmpiricalSampler) Values() []float64 {
	cp := make([]float64, len(s.values))
	copy(cp, s.values)
	return cp
}
