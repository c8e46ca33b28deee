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
	"testing"
	"time"
)

func TestIDFormatsZeroPaddedSequence(t *testing.T) {
	if got, want := ID("site1", 7), "site1_0007"; got != want {
		t.Errorf("ID = %q, want %q", got, want)
	}
}

func TestRepairIsTerminal(t *testing.T) {
	l := &Leak{Status: Active}
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	l.Repair(first)
	if l.Status != Repaired || !l.DateRepaired.Equal(first) {
		t.Fatalf("expected repaired on %v, got status %v date %v", first, l.Status, l.DateRepaired)
	}

	l.Repair(second)
	if !l.DateRepaired.Equal(first) {
		t.Errorf("Repair mutated an already-repaired leak's DateRepaired to %v, want unchanged %v", l.DateRepaired, first)
	}
}

func TestTagRecordsInitialDetectorOnce(t *testing.T) {
	l := &Leak{}
	d1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	l.Tag(d1, "program_a", "crew_1")
	if l.InitDetectBy != "program_a" || !l.InitDetectDate.Equal(d1) {
		t.Fatalf("expected initial detector program_a/%v, got %v/%v", d1, l.InitDetectBy, l.InitDetectDate)
	}

	l.Tag(d2, "program_b", "crew_2")
	if l.TaggedByCompany != "program_b" || l.TaggedByCrew != "crew_2" {
		t.Errorf("second Tag should still update TaggedBy*, got %v/%v", l.TaggedByCompany, l.TaggedByCrew)
	}
	if l.InitDetectBy != "program_a" {
		t.Errorf("InitDetectBy should remain the first detector, got %v", l.InitDetectBy)
	}
}

func TestEmitted(t *testing.T) {
	l := &Leak{Rate: 1.0, DaysActive: 10} // 1 g/s
	got := l.Emitted()
	want := 1.0 * 86400 * 10 / 1000
	if got != want {
		t.Errorf("Emitted() = %v, want %v", got, want)
	}
}
