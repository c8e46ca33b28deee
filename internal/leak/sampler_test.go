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
	"math/rand"
	"strings"
	"testing"
)

func TestLoadEmpiricalCSVWithHeader(t *testing.T) {
	r := strings.NewReader("leak_rate\n0.5\n1.2\n3.4\n")
	s, err := LoadEmpiricalCSV(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
}

func TestLoadEmpiricalCSVWithoutHeader(t *testing.T) {
	r := strings.NewReader("0.5\n1.2\n3.4\n")
	s, err := LoadEmpiricalCSV(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
}

func TestLoadEmpiricalCSVEmpty(t *testing.T) {
	if _, err := LoadEmpiricalCSV(strings.NewReader("header\n")); err == nil {
		t.Fatal("expected error for empirical CSV with no values")
	}
}

func TestSampleDeterministicWithSeededRand(t *testing.T) {
	s := NewEmpiricalSampler([]float64{1, 2, 3, 4, 5})
	rngA := rand.New(rand.NewSource(42))
	rngB := rand.New(rand.NewSource(42))

	for i := 0; i < 10; i++ {
		a := s.Sample(rngA)
		b := s.Sample(rngB)
		if a != b {
			t.Fatalf("draw %d diverged: %v != %v", i, a, b)
		}
	}
}

func TestSampleIntRounds(t *testing.T) {
	s := NewEmpiricalSampler([]float64{2.6})
	rng := rand.New(rand.NewSource(1))
	if got := s.SampleInt(rng); got != 3 {
		t.Errorf("SampleInt() = %d, want 3", got)
	}
}
