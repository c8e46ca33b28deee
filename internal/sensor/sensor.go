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

// Package sensor computes detection outcomes for a covered emission,
// one implementation per measurement scale (component, equipment,
// site), dispatched through a small interface and constructor registry
// instead of string-keyed branching.
package sensor

import (
	"fmt"
	"math/rand"

	"github.com/im3s/ldarsim/internal/leak"
)

// DeploymentType is where a method operates from.
type DeploymentType int

const (
	Mobile DeploymentType = iota
	Stationary
	Orbit
)

// MeasurementScale is the granularity a sensor reports detections at.
type MeasurementScale int

const (
	Component MeasurementScale = iota
	Equipment
	Site
)

// CrewContext carries the ambient conditions a detection draw needs.
type CrewContext struct {
	Wind float64 // m/s, used by wind-dependent MDL sensors
}

// Outcome is the uniform result shape every sensor implementation
// returns, letting the company call FlagSites without per-sensor
// branching.
type Outcome struct {
	FoundLeak        bool
	SiteMeasuredRate float64
	EquipMeasured    map[int]float64
	LeaksPresent     []*leak.Leak
	VentRate         float64
	MissedLeaks      int

	// DetectedLeaks holds the individual leaks a component-scale
	// sensor positively detected this visit; equipment- and
	// site-scale sensors leave it nil since they report only an
	// aggregate rate, not per-leak outcomes.
	DetectedLeaks []*leak.Leak
}

// Sensor computes a detection outcome for the emissions covered during
// one site visit.
type Sensor interface {
	Detect(ctx CrewContext, leaks []*leak.Leak, equipRates map[int]float64, siteRate, venting float64, rng *rand.Rand) (Outcome, error)
}

// Config carries the per-method parameters a sensor constructor needs:
// MDL (mean, std of the x0 threshold in g/s for OGI; a flat threshold
// for others),
// and QE (quantification-error standard deviation).
type Config struct {
	MDLMean float64
	MDLStd  float64
	QE      float64
}

// SensorConfigError is returned when a (DeploymentType, MeasurementScale,
// SensorName) tuple has no registered constructor, or a Config is
// missing a value its sensor requires.
type SensorConfigError struct {
	Deployment DeploymentType
	Scale      MeasurementScale
	Name       string
	Reason     string
}

func (e *SensorConfigError) Error() string {
	return fmt.Sprintf("sensor: deployment=%v scale=%v name=%q: %s", e.Deployment, e.Scale, e.Name, e.Reason)
}

type registryKey struct {
	Deployment DeploymentType
	Scale      MeasurementScale
	Name       string
}

type constructor func(cfg Config) (Sensor, error)

// Registry maps (DeploymentType, MeasurementScale, SensorName) to a
// sensor constructor, so method configuration selects an
// implementation by name without string-keyed branching.
var Registry = map[registryKey]constructor{
	{Mobile, Component, "OGI"}:     func(cfg Config) (Sensor, error) { return NewComponentSensor(cfg) },
	{Mobile, Equipment, "aircraft"}: func(cfg Config) (Sensor, error) { return NewEquipmentSensor(cfg) },
	{Mobile, Equipment, "truck"}:    func(cfg Config) (Sensor, error) { return NewEquipmentSensor(cfg) },
	{Orbit, Site, "satellite"}:      func(cfg Config) (Sensor, error) { return NewSiteSensor(cfg, true) },
	{Stationary, Site, "continuous"}: func(cfg Config) (Sensor, error) { return NewSiteSensor(cfg, false) },
}

// New looks up and constructs the sensor registered for the given
// tuple.
func New(deployment DeploymentType, scale MeasurementScale, name string, cfg Config) (Sensor, error) {
	ctor, ok := Registry[registryKey{deployment, scale, name}]
	if !ok {
		return nil, &SensorConfigError{Deployment: deployment, Scale: scale, Name: name, Reason: "no sensor registered for this tuple"}
	}
	return ctor(cfg)
}
