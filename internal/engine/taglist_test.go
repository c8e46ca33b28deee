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

package engine

import (
	"reflect"
	"testing"
)

func TestTagListAddAndRemove(t *testing.T) {
	l := NewTagList()
	l.Add("a")
	l.Add("b")
	l.Add("c")
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}

	l.Remove("b")
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if l.Contains("b") {
		t.Error("expected b removed")
	}
	if !reflect.DeepEqual(l.IDs(), []string{"c", "a"}) {
		t.Errorf("IDs() = %v, want [c a]", l.IDs())
	}
}

func TestTagListAddIgnoresDuplicate(t *testing.T) {
	l := NewTagList()
	l.Add("a")
	l.Add("a")
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestTagListRemoveMissingIsNoOp(t *testing.T) {
	l := NewTagList()
	l.Add("a")
	l.Remove("does-not-exist")
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestTagListRemoveHead(t *testing.T) {
	l := NewTagList()
	l.Add("a")
	l.Add("b")
	l.Remove("b") // b is first (most recently added)
	if !reflect.DeepEqual(l.IDs(), []string{"a"}) {
		t.Errorf("IDs() = %v, want [a]", l.IDs())
	}
}
