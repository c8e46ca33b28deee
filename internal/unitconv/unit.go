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

// Package unitconv converts leak and emission rates between the
// mass/time unit pairs used across LDAR-Sim's input files, pivoting
// through grams per second (g/s), the unit the rest of the simulation
// works in internally.
package unitconv

import (
	"fmt"
	"strings"
)

// Mass is a unit of mass.
type Mass int

// Time is a unit of time.
type Time int

// Mass units.
const (
	Kilogram Mass = iota
	Gram
	Pound
	MCF       // thousand standard cubic feet of natural gas
	CubicMeter
)

// Time units.
const (
	Second Time = iota
	Minute
	Hour
	Day
)

// massToGrams gives the number of grams in one unit of m. MCF and
// CubicMeter are volumes of natural gas converted to mass using the
// standard density of methane at standard conditions, the convention
// facility emission inventories report gas volumes in.
var massToGrams = map[Mass]float64{
	Kilogram:   1000,
	Gram:       1,
	Pound:      453.59237,
	MCF:        19255.4, // g per Mcf of natural gas at 0.68 kg/m3 and 28.3168 m3/Mcf
	CubicMeter: 680.0,   // g per m3 of natural gas at standard density
}

var massNames = map[Mass]string{
	Kilogram:   "kilogram",
	Gram:       "gram",
	Pound:      "pound",
	MCF:        "mcf",
	CubicMeter: "m3",
}

// timeToSeconds gives the number of seconds in one unit of t.
var timeToSeconds = map[Time]float64{
	Second: 1,
	Minute: 60,
	Hour:   3600,
	Day:    86400,
}

var timeNames = map[Time]string{
	Second: "second",
	Minute: "minute",
	Hour:   "hour",
	Day:    "day",
}

// Pair is a mass/time unit pair, e.g. {Kilogram, Hour} for kg/hr.
type Pair struct {
	Mass Mass
	Time Time
}

// String returns a human readable representation of p, e.g. "kilogram/hour".
func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", massNames[p.Mass], timeNames[p.Time])
}

// ToGramsPerSecond converts value, expressed in units p, to grams per
// second.
func ToGramsPerSecond(value float64, p Pair) float64 {
	return value * massToGrams[p.Mass] / timeToSeconds[p.Time]
}

// FromGramsPerSecond converts a value in grams per second to units p.
func FromGramsPerSecond(gramsPerSecond float64, p Pair) float64 {
	return gramsPerSecond * timeToSeconds[p.Time] / massToGrams[p.Mass]
}

// Convert converts value from unit pair "from" to unit pair "to",
// composing the conversion through grams per second as the pivot unit.
func Convert(value float64, from, to Pair) float64 {
	return FromGramsPerSecond(ToGramsPerSecond(value, from), to)
}

// ParseMass resolves a mass-unit name, as the subtype-distributions
// CSV's dist_metric column declares it, to its Mass constant.
func ParseMass(name string) (Mass, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kilogram", "kg":
		return Kilogram, nil
	case "gram", "g", "":
		return Gram, nil
	case "pound", "lb":
		return Pound, nil
	case "mcf":
		return MCF, nil
	case "m3", "cubic metre", "cubic meter":
		return CubicMeter, nil
	default:
		return Gram, fmt.Errorf("unitconv: unrecognized mass unit %q", name)
	}
}

// ParseTime resolves a time-unit name, as the subtype-distributions
// CSV's dist_increment column declares it, to its Time constant.
func ParseTime(name string) (Time, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "second", "sec", "s", "":
		return Second, nil
	case "minute", "min":
		return Minute, nil
	case "hour", "hr", "h":
		return Hour, nil
	case "day", "d":
		return Day, nil
	default:
		return Second, fmt.Errorf("unitconv: unrecognized time unit %q", name)
	}
}

// ParsePair resolves a declared (mass, time) unit-name pair; empty
// names default to grams per second, the pair the simulation works in
// internally.
func ParsePair(massName, timeName string) (Pair, error) {
	m, err := ParseMass(massName)
	if err != nil {
		return Pair{}, err
	}
	t, err := ParseTime(timeName)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Mass: m, Time: t}, nil
}
