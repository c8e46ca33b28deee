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

package orchestrator

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/im3s/ldarsim/internal/company"
	"github.com/im3s/ldarsim/internal/config"
	"github.com/im3s/ldarsim/internal/crew"
	"github.com/im3s/ldarsim/internal/dispatch"
	"github.com/im3s/ldarsim/internal/dist"
	"github.com/im3s/ldarsim/internal/engine"
	"github.com/im3s/ldarsim/internal/leak"
	"github.com/im3s/ldarsim/internal/operator"
	"github.com/im3s/ldarsim/internal/sensor"
	"github.com/im3s/ldarsim/internal/site"
	"github.com/im3s/ldarsim/internal/unitconv"
	"github.com/im3s/ldarsim/internal/weather"
	"github.com/im3s/ldarsim/internal/worldcache"
)

// Paths groups the resolved input/output directories a simulation
// build needs; every loader takes it explicitly rather than relying
// on the process working directory.
type Paths struct {
	InputDir  string
	OutputDir string
}

func (p Paths) resolve(relPath string) string {
	if relPath == "" || filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(p.InputDir, relPath)
}

// Inputs bundles the per-program input artifacts loaded once and
// reused across that program's simulations: the weather grid, the
// empirical samplers, and the subtype tables.
type Inputs struct {
	Grid        *weather.Grid
	LeakRate    *leak.EmpiricalSampler
	LeakCount   *leak.EmpiricalSampler
	Offsite     *leak.EmpiricalSampler
	Vented      *leak.EmpiricalSampler
	SubtypeDist map[string]site.SubtypeDist
	SubtypeTime map[string]map[string]float64
	HomeBases   map[string][]crew.HomeBase // per method label
}

// LoadProgramInputs reads every file a program declares once; the
// caller reuses the result across all of that program's simulations.
func LoadProgramInputs(paths Paths, prog *config.Program) (*Inputs, error) {
	grid, err := weather.LoadGridFile(paths.resolve(prog.WeatherFile))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: program %s: %w", prog.Label, err)
	}

	in := &Inputs{Grid: grid}

	if prog.LeakRateFile != "" {
		if in.LeakRate, err = loadEmpirical(paths.resolve(prog.LeakRateFile)); err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: leak rate file: %w", prog.Label, err)
		}
	}
	if prog.LeakCountFile != "" {
		if in.LeakCount, err = loadEmpirical(paths.resolve(prog.LeakCountFile)); err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: leak count file: %w", prog.Label, err)
		}
	}
	if prog.OffsiteTimeFile != "" {
		if in.Offsite, err = loadEmpirical(paths.resolve(prog.OffsiteTimeFile)); err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: offsite time file: %w", prog.Label, err)
		}
	}
	if prog.VentedEmissionsFile != "" {
		if in.Vented, err = loadEmpirical(paths.resolve(prog.VentedEmissionsFile)); err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: vented emissions file: %w", prog.Label, err)
		}
	}
	if prog.SubtypeDistributionsFile != "" {
		f, err := os.Open(paths.resolve(prog.SubtypeDistributionsFile))
		if err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: %w", prog.Label, err)
		}
		in.SubtypeDist, err = site.LoadSubtypeDistributionsCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: %w", prog.Label, err)
		}
	}
	if prog.SubtypeTimesFile != "" {
		f, err := os.Open(paths.resolve(prog.SubtypeTimesFile))
		if err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: %w", prog.Label, err)
		}
		in.SubtypeTime, err = site.LoadSubtypeTimesCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: %w", prog.Label, err)
		}
	}

	in.HomeBases = make(map[string][]crew.HomeBase)
	for label, m := range prog.Methods {
		if m.Scheduling.HomeBasesFile == "" {
			continue
		}
		f, err := os.Open(paths.resolve(m.Scheduling.HomeBasesFile))
		if err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: method %s: %w", prog.Label, label, err)
		}
		bases, err := crew.LoadHomeBasesCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: method %s: %w", prog.Label, label, err)
		}
		in.HomeBases[label] = bases
	}
	return in, nil
}

func loadEmpirical(path string) (*leak.EmpiricalSampler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return leak.LoadEmpiricalCSV(f)
}

// LoadFacilities reads and prepares a program's facility table:
// subtype attachment and weather-grid index resolution. The returned
// slice is the program's shared base layout; BuildSimulation deep
// copies it per simulation so per-run state (counters, flags) never
// leaks across runs that share the same program inputs.
func LoadFacilities(paths Paths, prog *config.Program, in *Inputs) ([]*site.Site, error) {
	f, err := os.Open(paths.resolve(prog.InfrastructureFile))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: program %s: %w", prog.Label, err)
	}
	defer f.Close()

	sites, err := site.LoadFacilityCSV(f)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: program %s: %w", prog.Label, err)
	}

	if len(in.SubtypeDist) > 0 {
		fallback := prog.FallbackSubtypeCode
		if fallback == "" && len(sites) > 0 {
			fallback = sites[0].SubtypeCode
		}
		if err := site.AttachSubtypes(sites, in.SubtypeDist, in.SubtypeTime, fallback); err != nil {
			return nil, fmt.Errorf("orchestrator: program %s: %w", prog.Label, err)
		}
	}

	if err := site.AttachGridIndices(sites, in.Grid); err != nil {
		return nil, fmt.Errorf("orchestrator: program %s: %w", prog.Label, err)
	}
	return sites, nil
}

func cloneSites(sites []*site.Site) []*site.Site {
	out := make([]*site.Site, len(sites))
	for i, s := range sites {
		cp := *s
		cp.MethodParams = make(map[string]site.MethodParams, len(s.MethodParams))
		for k, v := range s.MethodParams {
			cp.MethodParams[k] = v
		}
		cp.MethodCounters = make(map[string]*site.MethodCounters, len(s.MethodCounters))
		for k := range s.MethodCounters {
			cp.MethodCounters[k] = &site.MethodCounters{}
		}
		out[i] = &cp
	}
	return out
}

// BuildSimulation constructs one fully-wired simulation for (prog,
// simIndex) in the ordinary, non-pregenerated case: sites are shuffled
// and initial leaks drawn from this simulation's own seed, and every
// day's new-leak spawn draws independently against prog.LPR.
func BuildSimulation(prog *config.Program, in *Inputs, baseSites []*site.Site, simIndex int, start time.Time) (*engine.Simulation, error) {
	sim := newBareSimulation(prog, baseSites, simIndex, start)
	attachRateSampler(sim, in)
	site.Shuffle(sim.Sites, sim.Rng)
	if err := generateInitialLeaks(sim, in); err != nil {
		return nil, err
	}
	if err := wireMethods(sim, prog, in); err != nil {
		return nil, err
	}
	return sim, nil
}

// BuildSimulationFromWorld constructs one fully-wired simulation for
// (prog, simIndex) replaying a pre-generated world: site order,
// initial leaks, and every day's new-leak spawn decision come from w,
// so the underlying leak realization is identical to the one every
// other program compared against w was built from. sites is the
// program's own facility table already merged against w's cached
// sites via worldcache.RegenerateSites, so per-method parameters
// reflect this program while identity, location, and leak-generating
// fields stay pinned to w.
func BuildSimulationFromWorld(prog *config.Program, in *Inputs, sites []*site.Site, simIndex int, start time.Time, w *worldcache.World, preseedRandom bool) (*engine.Simulation, error) {
	sim := newBareSimulation(prog, sites, simIndex, start)
	attachRateSampler(sim, in)

	// w is this simIndex's own cache blob (worldcache keys blobs by
	// simIndex already), so its outer [simIndex] dimension is always
	// the single slot this run populated.
	sim.LeakPlan = make(map[string][]bool, len(sites))
	if len(w.LeakTimeseries) > 0 {
		bySite := w.LeakTimeseries[0]
		for i, st := range sites {
			if i >= len(bySite) {
				break
			}
			counts := bySite[i]
			plan := make([]bool, len(counts))
			for d, n := range counts {
				plan[d] = n > 0
			}
			sim.LeakPlan[st.FacilityID] = plan
		}
	}
	if preseedRandom && len(w.SeedTimeseries) > 0 {
		sim.SeedPlan = w.SeedTimeseries[0]
	}

	ids := make([]string, 0, len(w.InitialLeaks))
	for _, l := range w.InitialLeaks {
		cp := *l
		sim.Leaks[cp.ID] = &cp
		ids = append(ids, cp.FacilityID)
		if seq, ok := leakSeqFromID(cp.FacilityID, cp.ID); ok {
			sim.PrimeLeakSeq(cp.FacilityID, seq)
		}
	}
	site.ReapplyActiveLeakCounts(sim.Sites, ids)

	if err := wireMethods(sim, prog, in); err != nil {
		return nil, err
	}
	return sim, nil
}

// leakSeqFromID extracts the zero-padded sequence number leak.ID
// minted for facilityID, so a replayed world's initial-leak IDs never
// collide with the new IDs this run's own leakSeq counter issues.
func leakSeqFromID(facilityID, id string) (int, bool) {
	prefix := facilityID + "_"
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil {
		return 0, false
	}
	return seq, true
}

// attachRateSampler points the simulation's daily new-leak rate draw
// at the program's empirical leak-rate sample when one is configured,
// with the same max-size rejection the fitted-distribution path uses.
func attachRateSampler(sim *engine.Simulation, in *Inputs) {
	if in.LeakRate == nil {
		return
	}
	sampler := in.LeakRate
	maxRate := sim.MaxLeakRate
	if maxRate <= 0 {
		maxRate = math.Inf(1)
	}
	sim.RateSampler = func(rng *rand.Rand) float64 {
		for {
			if v := sampler.Sample(rng); v < maxRate {
				return v
			}
		}
	}
}

func newBareSimulation(prog *config.Program, sites []*site.Site, simIndex int, start time.Time) *engine.Simulation {
	seed := int64(simIndex)*1_000_003 + int64(len(prog.Label))
	sim := engine.NewSimulation(start, seed)
	sim.Sites = cloneSites(sites)
	sim.LPR = prog.LPR
	sim.NRd = prog.NRd
	sim.RepairDelay = prog.RepairDelay
	sim.RepairCostUSD = prog.RepairCost
	sim.MaxLeakRate = prog.MaxLeakSizeGPerS
	return sim
}

// wireMethods attaches one engine.CompanyManipulator per configured
// method, in alphabetical-by-label order (the declared order the
// per-day loop's company sequencing invariant assumes), plus the
// operator agent when enabled.
func wireMethods(sim *engine.Simulation, prog *config.Program, in *Inputs) error {
	labels := make([]string, 0, len(prog.Methods))
	for label := range prog.Methods {
		labels = append(labels, label)
	}
	sort.Strings(labels) // declared order: deterministic, alphabetical by label

	for _, label := range labels {
		m := prog.Methods[label]
		manipulator, err := buildMethod(label, m, sim, in)
		if err != nil {
			return fmt.Errorf("orchestrator: program %s: method %s: %w", prog.Label, label, err)
		}
		sim.Companies = append(sim.Companies, manipulator)
		sim.CompanyDelays[label] = m.ReportingDelay
	}

	if prog.Operator.Enabled {
		sim.Operator = operator.NewAgent(prog.Operator.DetectionProbability)
	}
	return nil
}

func generateInitialLeaks(sim *engine.Simulation, in *Inputs) error {
	for _, st := range sim.Sites {
		n := 0
		if in.LeakCount != nil {
			n = in.LeakCount.SampleInt(sim.Rng)
		}
		for i := 0; i < n; i++ {
			rate, err := drawLeakRate(sim.Rng, in, st, sim.MaxLeakRate)
			if err != nil {
				return fmt.Errorf("orchestrator: generating initial leaks for %s: %w", st.FacilityID, err)
			}
			l := &leak.Leak{
				ID:         sim.NextLeakID(st.FacilityID),
				FacilityID: st.FacilityID,
				Rate:       rate,
				Lat:        st.Lat,
				Lon:        st.Lon,
				Status:     leak.Active,
				DateBegan:  sim.Date,
			}
			sim.Leaks[l.ID] = l
			st.ActiveLeaks++
		}
	}
	return nil
}

// drawLeakRate draws one initial leak's rate: from the program's
// empirical leak-rate sample when one is configured, else fit from
// the site's attached subtype distribution, mirroring engine's own
// daily spawnNewLeak draw so pre-generated and daily-spawned leaks
// follow identical rate semantics.
func drawLeakRate(rng *rand.Rand, in *Inputs, st *site.Site, maxRateGPS float64) (float64, error) {
	if maxRateGPS <= 0 {
		maxRateGPS = math.Inf(1)
	}
	if in.LeakRate != nil {
		for {
			if v := in.LeakRate.Sample(rng); v < maxRateGPS {
				return v, nil
			}
		}
	}
	t, err := distTypeFromString(st.DistType)
	if err != nil {
		return 0, err
	}
	d, err := dist.FitFromParams(t, dist.Params{Mu: st.DistMu, Sigma: st.DistSigma}, rng)
	if err != nil {
		return 0, err
	}
	pair, err := unitconv.ParsePair(st.DistMetric, st.DistIncrement)
	if err != nil {
		return 0, fmt.Errorf("orchestrator: facility %s: %w", st.FacilityID, err)
	}
	// The rejection bound applies in the distribution's own declared
	// units before the accepted draw converts to g/s.
	maxRate := math.Inf(1)
	if !math.IsInf(maxRateGPS, 1) {
		maxRate = unitconv.FromGramsPerSecond(maxRateGPS, pair)
	}
	return dist.LeakRVS(d, maxRate, pair, rng), nil
}

func distTypeFromString(s string) (dist.Type, error) {
	switch s {
	case "lognormal", "log_normal", "":
		return dist.LogNormal, nil
	case "normal":
		return dist.Normal, nil
	case "gamma":
		return dist.Gamma, nil
	case "weibull":
		return dist.Weibull, nil
	default:
		return "", fmt.Errorf("orchestrator: unrecognized leak-rate distribution type %q", s)
	}
}

func envelopeFrom(w config.WeatherLimits) weather.Envelope {
	return weather.Envelope{
		MinTemp: w.MinTemp, MaxTemp: w.MaxTemp,
		MinWind: w.MinWind, MaxWind: w.MaxWind,
		MinPrecip: w.MinPrecip, MaxPrecip: w.MaxPrecip,
	}
}

func scaleFrom(s string) sensor.MeasurementScale {
	switch s {
	case "equipment":
		return sensor.Equipment
	case "site":
		return sensor.Site
	default:
		return sensor.Component
	}
}

func deploymentFrom(s string) sensor.DeploymentType {
	switch s {
	case "stationary":
		return sensor.Stationary
	case "orbit":
		return sensor.Orbit
	default:
		return sensor.Mobile
	}
}

// buildMethod wires one method's company, crews, scheduler, and
// sensor into a single engine.CompanyManipulator.
func buildMethod(label string, m config.Method, sim *engine.Simulation, in *Inputs) (engine.CompanyManipulator, error) {
	deployment := in.Grid.DeploymentDays(envelopeFrom(m.WeatherLimits))

	for _, st := range sim.Sites {
		if _, ok := st.MethodParams[label]; !ok {
			continue
		}
		c := st.Counters(label)
		c.PropDDs = deployment.PropDD(st.LatIdx, st.LonIdx)
		c.MCB = deployment.MCB(st.LatIdx, st.LonIdx)
	}

	nCrews := m.NCrews
	routePlanning := m.Scheduling.RoutePlanning
	if m.DeploymentType == "stationary" {
		// A stationary monitor is permanently assigned to one site: one
		// crew per site carrying the method, each site labeled with its
		// crew's index so CrewSiteList narrows every crew's daily pool to
		// exactly its one assignment.
		nCrews = 0
		for _, st := range sim.Sites {
			if _, ok := st.MethodParams[label]; ok {
				st.Label = nCrews
				nCrews++
			}
		}
		routePlanning = true
	}

	crews := make([]*crew.CrewState, 0, nCrews)
	bases := in.HomeBases[label]
	for i := 0; i < nCrews; i++ {
		cs := &crew.CrewState{CompanyLabel: label, CrewID: i, Label: i, HomeBases: bases}
		switch {
		case m.Scheduling.CrewInitLocation == "random" && len(sim.Sites) > 0:
			st := sim.Sites[sim.Rng.Intn(len(sim.Sites))]
			cs.Lat, cs.Lon = st.Lat, st.Lon
		case len(bases) > 0:
			hb := bases[i%len(bases)]
			cs.Lat, cs.Lon = hb.Lat, hb.Lon
		case len(sim.Sites) > 0:
			cs.Lat, cs.Lon = sim.Sites[0].Lat, sim.Sites[0].Lon
		}
		crews = append(crews, cs)
	}

	comp := company.NewCompany(label, crews, deployment, routePlanning)

	sens, err := sensor.New(deploymentFrom(m.DeploymentType), scaleFrom(m.MeasurementScale), m.Sensor, sensor.Config{
		MDLMean: m.MDLMean, MDLStd: m.MDLStd, QE: m.QE,
	})
	if err != nil {
		return nil, err
	}

	var scheduler crew.Scheduler
	if m.DeploymentType == "stationary" {
		scheduler = crew.NewStationaryScheduler(label, deployment)
	} else {
		scheduler = newMobileScheduler(label, m, deployment, in, sim)
	}

	followUp := followUpConfig(m.FollowUp)
	threshold := company.ResolveThreshold(followUp, leakRateValues(in))
	followUp.InstantThreshold = company.ResolveInstantThreshold(followUp, leakRateValues(in))

	// Venting is estimated from the program's empirical vented-emissions
	// distribution: its mean is the per-site non-fugitive baseline the
	// flag_wo_vent accounting subtracts from a measured site rate.
	var venting dispatch.VentingEstimator
	if m.FollowUp.ConsiderVenting && in.Vented != nil {
		var sum float64
		vals := in.Vented.Values()
		for _, v := range vals {
			sum += v
		}
		mean := sum / float64(len(vals))
		venting = func(*site.Site) float64 { return mean }
	}

	cfg := dispatch.Config{
		Method:     label,
		Scale:      scaleFrom(m.MeasurementScale),
		Company:    comp,
		Scheduler:  scheduler,
		Sensor:     sens,
		FollowUp:   followUp,
		Threshold:  threshold,
		IsFollowUp: m.IsFollowUp,
		Cost:       m.Cost,
		Venting:    venting,
		Weather:    in.Grid,

		DeploymentYears:  m.Scheduling.DeploymentYears,
		DeploymentMonths: m.Scheduling.DeploymentMonths,
	}
	return dispatch.NewCompanyManipulator(cfg), nil
}

func leakRateValues(in *Inputs) []float64 {
	if in.LeakRate == nil {
		return nil
	}
	return in.LeakRate.Values()
}

func newMobileScheduler(label string, m config.Method, deployment *weather.DeploymentGrid, in *Inputs, sim *engine.Simulation) *crew.MobileScheduler {
	var speeds *crew.SpeedTable
	if len(m.Scheduling.SpeedList) > 0 {
		speeds = crew.NewSpeedTable(m.Scheduling.SpeedList)
	}
	var offsite *crew.OffsiteTimeSampler
	if in.Offsite != nil {
		offsite = crew.NewOffsiteTimeSampler(in.Offsite)
	}
	return crew.NewMobileScheduler(crew.MobileConfig{
		Method:           label,
		ConsiderDaylight: m.ConsiderDaylight,
		MaxWorkdayHours:  m.MaxWorkday,
		RoutePlanning:    m.Scheduling.RoutePlanning,
		Speeds:           speeds,
		Offsite:          offsite,
		Deployment:       deployment,
		Date:             sim.Date,
		Day:              sim.Day,
		Rng:              sim.Rng,
	})
}

// followUpConfig adapts a method's configuration-layer follow-up
// parameters into the company package's flagging-pipeline shape,
// resolving the proportion-vs-proportion field-name collision
// documented on company.FollowUpConfig.
func followUpConfig(f config.FollowUp) company.FollowUpConfig {
	ratio := f.Ratio
	if ratio <= 0 {
		ratio = 1
	}
	return company.FollowUpConfig{
		Threshold:            f.Threshold,
		ThresholdType:        f.ThresholdType,
		ThresholdQuantile:    f.Proportion,
		InteractionPriority:  f.InteractionPriority,
		RedundancyFilter:     f.RedundancyFilter,
		FollowUpRatio:        ratio,
		ReportingDelayDays:   f.Delay,
		InstantThreshold:     f.InstantThreshold,
		InstantThresholdType: f.InstantThresholdType,
		ConsiderVenting:      f.ConsiderVenting,
	}
}
