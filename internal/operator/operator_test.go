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

package operator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/im3s/ldarsim/internal/leak"
)

func TestActiveOnlyOnMonday(t *testing.T) {
	a := NewAgent(1.0)
	monday := time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC)
	if monday.Weekday() != time.Monday {
		t.Fatalf("test fixture date is not a Monday")
	}
	if !a.Active(monday) {
		t.Error("expected Active on Monday")
	}
	if a.Active(monday.AddDate(0, 0, 1)) {
		t.Error("expected inactive on Tuesday")
	}
}

func TestDetectTagsWithCertainProbability(t *testing.T) {
	a := NewAgent(1.0)
	monday := time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC)
	leaks := []*leak.Leak{{Status: leak.Active}, {Status: leak.Active}}
	n := a.Detect(leaks, monday, rand.New(rand.NewSource(1)))
	if n != 2 {
		t.Errorf("Detect tagged %d leaks, want 2", n)
	}
	for _, l := range leaks {
		if !l.Tagged || l.TaggedByCompany != "operator" {
			t.Errorf("expected leak tagged by operator, got %+v", l)
		}
	}
}

func TestDetectSkipsNonMondays(t *testing.T) {
	a := NewAgent(1.0)
	tuesday := time.Date(2026, 7, 28, 0, 0, 0, 0, time.UTC)
	leaks := []*leak.Leak{{Status: leak.Active}}
	if n := a.Detect(leaks, tuesday, rand.New(rand.NewSource(1))); n != 0 {
		t.Errorf("Detect tagged %d leaks on a non-Monday, want 0", n)
	}
}

func TestDetectSkipsRepairedAndAlreadyTagged(t *testing.T) {
	a := NewAgent(1.0)
	monday := time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC)
	leaks := []*leak.Leak{
		{Status: leak.Repaired},
		{Status: leak.Active, Tagged: true},
	}
	if n := a.Detect(leaks, monday, rand.New(rand.NewSource(1))); n != 0 {
		t.Errorf("Detect tagged %d leaks, want 0 (all ineligible)", n)
	}
}
