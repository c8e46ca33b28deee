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

// Package dist fits and samples the leak-rate distributions used to
// generate synthetic leaks. It is a thin wrapper over
// gonum.org/v1/gonum/stat/distuv that threads an explicit *rand.Rand
// through every draw so that a simulation's random stream stays
// reproducible for a given seed.
package dist

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/im3s/ldarsim/internal/unitconv"
)

// Type identifies a supported distribution family.
type Type string

// Supported distribution families.
const (
	LogNormal Type = "lognormal"
	Normal    Type = "normal"
	Gamma     Type = "gamma"
	Weibull   Type = "weibull"
)

// Dist is a fitted probability distribution that can be sampled and
// queried for density/cumulative values.
type Dist interface {
	// Rvs draws a single random sample, in the same units the
	// distribution was fit in.
	Rvs(rng *rand.Rand) float64
	PDF(x float64) float64
	CDF(x float64) float64
}

// Params are the explicit parameters of a distribution, in the sense
// each family defines them. Loc/Shape/Scale follow the loc/shape/scale
// convention common to statistical fitting libraries: for LogNormal,
// Scale = exp(Mu) when Mu is supplied directly instead of being
// derived from samples.
type Params struct {
	Mu, Sigma    float64 // used directly by LogNormal and Normal
	Loc          float64
	Shape, Scale float64 // used by Gamma and Weibull
}

type logNormalDist struct{ d distuv.LogNormal }

func (l logNormalDist) Rvs(rng *rand.Rand) float64 { return l.d.Rand() }
func (l logNormalDist) PDF(x float64) float64      { return l.d.Prob(x) }
func (l logNormalDist) CDF(x float64) float64      { return l.d.CDF(x) }

type normalDist struct{ d distuv.Normal }

func (n normalDist) Rvs(rng *rand.Rand) float64 { return n.d.Rand() }
func (n normalDist) PDF(x float64) float64      { return n.d.Prob(x) }
func (n normalDist) CDF(x float64) float64      { return n.d.CDF(x) }

type gammaDist struct {
	d   distuv.Gamma
	loc float64
}

func (g gammaDist) Rvs(rng *rand.Rand) float64 { return g.loc + g.d.Rand() }
func (g gammaDist) PDF(x float64) float64      { return g.d.Prob(x - g.loc) }
func (g gammaDist) CDF(x float64) float64      { return g.d.CDF(x - g.loc) }

type weibullDist struct {
	d   distuv.Weibull
	loc float64
}

func (w weibullDist) Rvs(rng *rand.Rand) float64 { return w.loc + w.d.Rand() }
func (w weibullDist) PDF(x float64) float64      { return w.d.Prob(x - w.loc) }
func (w weibullDist) CDF(x float64) float64      { return w.d.CDF(x - w.loc) }

// FitFromParams builds a Dist directly from literal parameters,
// without estimating them from data. rng is used only to seed the
// gonum distribution's Src field once, here; Rvs then draws from that
// internal source and ignores the *rand.Rand passed to it.
func FitFromParams(t Type, p Params, rng *rand.Rand) (Dist, error) {
	src := rand.NewSource(rng.Int63())
	switch t {
	case LogNormal:
		scale := p.Scale
		if scale == 0 && p.Mu != 0 {
			scale = math.Exp(p.Mu)
		}
		mu := p.Mu
		if mu == 0 && scale != 0 {
			mu = math.Log(scale)
		}
		return logNormalDist{distuv.LogNormal{Mu: mu, Sigma: p.Sigma, Src: src}}, nil
	case Normal:
		return normalDist{distuv.Normal{Mu: p.Mu, Sigma: p.Sigma, Src: src}}, nil
	case Gamma:
		if p.Shape <= 0 || p.Scale <= 0 {
			return nil, fmt.Errorf("dist: gamma distribution requires positive shape and scale, got shape=%v scale=%v", p.Shape, p.Scale)
		}
		return gammaDist{distuv.Gamma{Alpha: p.Shape, Beta: 1 / p.Scale, Src: src}, p.Loc}, nil
	case Weibull:
		if p.Shape <= 0 || p.Scale <= 0 {
			return nil, fmt.Errorf("dist: weibull distribution requires positive shape and scale, got shape=%v scale=%v", p.Shape, p.Scale)
		}
		return weibullDist{distuv.Weibull{K: p.Shape, Lambda: p.Scale, Src: src}, p.Loc}, nil
	default:
		return nil, fmt.Errorf("dist: unsupported distribution type %q", t)
	}
}

// FitFromSamples estimates distribution parameters from an empirical
// leak-rate sample using method-of-moments, then builds a Dist.
func FitFromSamples(t Type, samples []float64, rng *rand.Rand) (Dist, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("dist: cannot fit %s distribution to zero samples", t)
	}
	mean := stat.Mean(samples, nil)
	sd := stat.StdDev(samples, nil)
	switch t {
	case Normal:
		return FitFromParams(t, Params{Mu: mean, Sigma: sd}, rng)
	case LogNormal:
		logs := make([]float64, len(samples))
		for i, s := range samples {
			if s <= 0 {
				return nil, fmt.Errorf("dist: lognormal fit requires strictly positive samples, got %v at index %d", s, i)
			}
			logs[i] = math.Log(s)
		}
		mu := stat.Mean(logs, nil)
		sigma := stat.StdDev(logs, nil)
		return FitFromParams(t, Params{Mu: mu, Sigma: sigma}, rng)
	case Gamma, Weibull:
		// Method of moments: shape = (mean/sd)^2, scale = sd^2/mean.
		if sd == 0 {
			return nil, fmt.Errorf("dist: %s fit requires samples with nonzero variance", t)
		}
		shape := (mean / sd) * (mean / sd)
		scale := (sd * sd) / mean
		return FitFromParams(t, Params{Shape: shape, Scale: scale}, rng)
	default:
		return nil, fmt.Errorf("dist: unsupported distribution type %q", t)
	}
}

// LeakRVS rejection-samples from d, in the unit pair `in`, rejecting
// draws >= maxSize (in the same unit), and returns the accepted draw
// converted to grams per second. An implausibly large sampled leak is
// not a real leak rate for this facility type, so it is redrawn rather
// than clamped.
func LeakRVS(d Dist, maxSize float64, in unitconv.Pair, rng *rand.Rand) float64 {
	for {
		v := d.Rvs(rng)
		if v > 0 && v < maxSize {
			return unitconv.ToGramsPerSecond(v, in)
		}
	}
}
