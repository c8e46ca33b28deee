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

// Package fingerprint computes a stable hash of a resolved parameter
// set, used to invalidate a stale pre-generated virtual-world cache.
// The value is rendered with a key-sorted spew dump and the bytes are
// hashed; gob is unsuitable here because it encodes maps in iteration
// order, which would make two hashes of the same parameter set
// disagree across processes.
package fingerprint

import (
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// Of returns a hex-encoded fingerprint for object, suitable for naming
// or validating a cached file. Two calls with deeply-equal objects
// produce the same fingerprint regardless of process or machine.
func Of(object interface{}) string {
	h := fnv.New128a()
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(h, "%#v", object)
	sum := h.Sum(nil)
	return fmt.Sprintf("%x", sum)
}
