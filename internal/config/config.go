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

// Package config implements the three-level parameter layering
// (global -> program -> method) described in the input manager
// component: a missing key inherits from the matching default, an
// unknown key is reported as a warning, and a type mismatch against
// the default is fatal. It follows a viper-driven, os.ExpandEnv-everywhere
// style, replacing ad-hoc per-field cfg.GetString/GetFloat64 plumbing
// with a single mapstructure-based decode step per layer, so every
// parameter's default/override/warning behavior is handled uniformly
// instead of being hand-written per field.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/mitchellh/mapstructure"
)

// ParameterError reports a missing required key, a type mismatch
// against the layer's default, or an unrecognized parameter_level; it
// is fatal at start-up per the error taxonomy.
type ParameterError struct {
	Level  string // "global" | "program" | "method"
	Label  string // the program or method name the error occurred in, if any
	Reason string
}

func (e *ParameterError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("config: %s parameters: %s", e.Level, e.Reason)
	}
	return fmt.Sprintf("config: %s %q: %s", e.Level, e.Label, e.Reason)
}

// WeatherLimits is a method's deployment-day envelope.
type WeatherLimits struct {
	MinTemp   float64 `mapstructure:"min_temp"`
	MaxTemp   float64 `mapstructure:"max_temp"`
	MinWind   float64 `mapstructure:"min_wind"`
	MaxWind   float64 `mapstructure:"max_wind"`
	MinPrecip float64 `mapstructure:"min_precip"`
	MaxPrecip float64 `mapstructure:"max_precip"`
}

// Cost is a method's cost model.
type Cost struct {
	Upfront float64 `mapstructure:"upfront"`
	PerDay  float64 `mapstructure:"per_day"`
	PerHour float64 `mapstructure:"per_hour"`
	PerSite float64 `mapstructure:"per_site"`
}

// FollowUp is a method's follow-up/flagging configuration.
type FollowUp struct {
	Threshold            float64 `mapstructure:"threshold"`
	ThresholdType        string  `mapstructure:"threshold_type"`
	Proportion           float64 `mapstructure:"proportion"`
	InteractionPriority  string  `mapstructure:"interaction_priority"`
	RedundancyFilter     string  `mapstructure:"redundancy_filter"`
	Delay                int     `mapstructure:"delay"`
	InstantThreshold     float64 `mapstructure:"instant_threshold"`
	InstantThresholdType string  `mapstructure:"instant_threshold_type"`
	ConsiderVenting      bool    `mapstructure:"consider_venting"`
	Ratio                float64 `mapstructure:"ratio"`
}

// Scheduling is a method's route-planning and deployment-window
// configuration.
type Scheduling struct {
	RoutePlanning    bool      `mapstructure:"route_planning"`
	HomeBasesFile    string    `mapstructure:"home_bases_file"`
	SpeedList        []float64 `mapstructure:"speed_list"`
	CrewInitLocation string    `mapstructure:"LDAR_crew_init_location"`
	DeploymentYears  []int     `mapstructure:"deployment_years"`
	DeploymentMonths []int     `mapstructure:"deployment_months"`
}

// Method is one method's fully-resolved configuration, after default ->
// program-override merging.
type Method struct {
	Label            string  `mapstructure:"label"`
	DeploymentType   string  `mapstructure:"deployment_type"`
	MeasurementScale string  `mapstructure:"measurement_scale"`
	Sensor           string  `mapstructure:"sensor"`
	MDLMean          float64 `mapstructure:"MDL_mean"`
	MDLStd           float64 `mapstructure:"MDL_std"`
	QE               float64 `mapstructure:"QE"`
	NCrews           int     `mapstructure:"n_crews"`
	MaxWorkday       float64 `mapstructure:"max_workday"`
	ConsiderDaylight bool    `mapstructure:"consider_daylight"`
	ReportingDelay   int     `mapstructure:"reporting_delay"`
	IsFollowUp       bool    `mapstructure:"is_follow_up"`

	Cost          Cost          `mapstructure:"cost"`
	FollowUp      FollowUp      `mapstructure:"follow_up"`
	Scheduling    Scheduling    `mapstructure:"scheduling"`
	WeatherLimits WeatherLimits `mapstructure:"weather_limits"`
}

// Operator is the background natural-detection agent's configuration.
type Operator struct {
	Enabled               bool    `mapstructure:"enabled"`
	DetectionProbability  float64 `mapstructure:"detection_probability"`
}

// Program is one program's fully-resolved configuration.
type Program struct {
	Label                    string `mapstructure:"label"`
	WeatherFile              string `mapstructure:"weather_file"`
	InfrastructureFile       string `mapstructure:"infrastructure_file"`
	LPR                      float64
	NRd                      int     `mapstructure:"NRd"`
	RepairDelay              int     `mapstructure:"repair_delay"`
	RepairCost               float64 `mapstructure:"repair_cost"`
	SubtypeDistributionsFile string  `mapstructure:"subtype_distributions_file"`
	SubtypeTimesFile         string  `mapstructure:"subtype_times_file"`
	LeakRateFile             string  `mapstructure:"leak_rate_file"`
	LeakCountFile            string  `mapstructure:"leak_count_file"`
	OffsiteTimeFile          string  `mapstructure:"offsite_time_file"`
	EmissionsDistribution    string  `mapstructure:"emissions_distribution"`
	VentedEmissionsFile      string  `mapstructure:"vented_emissions_file"`
	FallbackSubtypeCode      string  `mapstructure:"fallback_subtype_code"`
	MaxLeakSizeGPerS         float64 `mapstructure:"max_leak_size"`

	Operator Operator `mapstructure:"operator"`
	Methods  map[string]Method `mapstructure:"-"`
}

// Global is the top-level simulation configuration.
type Global struct {
	NSimulations     int      `mapstructure:"n_simulations"`
	NProcesses       int      `mapstructure:"n_processes"`
	StartDate        string   `mapstructure:"start_date"`
	EndDate          string   `mapstructure:"end_date"`
	InputDirectory   string   `mapstructure:"input_directory"`
	OutputDirectory  string   `mapstructure:"output_directory"`
	ReferenceProgram string   `mapstructure:"reference_program"`
	BaselineProgram  string   `mapstructure:"baseline_program"`
	Programs         []string `mapstructure:"programs"`
	PregenerateLeaks bool     `mapstructure:"pregenerate_leaks"`
	PreseedRandom    bool     `mapstructure:"preseed_random"`
}

// DefaultGlobal returns the library default for the global parameter
// level.
func DefaultGlobal() Global {
	return Global{
		NSimulations:    1,
		NProcesses:      1,
		InputDirectory:  ".",
		OutputDirectory: "output",
	}
}

// DefaultProgram returns the library default for the program parameter
// level.
func DefaultProgram() Program {
	return Program{
		NRd:              365,
		RepairDelay:      14,
		MaxLeakSizeGPerS: 500,
		Methods:          make(map[string]Method),
	}
}

// DefaultMethodLibrary returns the built-in method defaults, keyed by
// method label (OGI, OGI_FU, aircraft, ...), that a program's method
// overrides are merged against.
func DefaultMethodLibrary() map[string]Method {
	common := WeatherLimits{MinTemp: -40, MaxTemp: 40, MinWind: 0, MaxWind: 25, MinPrecip: 0, MaxPrecip: 5}
	return map[string]Method{
		"OGI": {
			Label: "OGI", DeploymentType: "mobile", MeasurementScale: "component", Sensor: "OGI",
			NCrews: 1, MaxWorkday: 8, ConsiderDaylight: true, ReportingDelay: 2,
			MDLMean: 0.01, MDLStd: 2.78e-6, WeatherLimits: common,
			FollowUp: FollowUp{ThresholdType: "absolute", RedundancyFilter: "recent", Ratio: 1},
		},
		"OGI_FU": {
			Label: "OGI_FU", DeploymentType: "mobile", MeasurementScale: "component", Sensor: "OGI",
			NCrews: 1, MaxWorkday: 8, ConsiderDaylight: true, ReportingDelay: 2, IsFollowUp: true,
			MDLMean: 0.01, MDLStd: 2.78e-6, WeatherLimits: common,
			FollowUp: FollowUp{ThresholdType: "absolute", RedundancyFilter: "recent", Ratio: 1},
		},
		"aircraft": {
			Label: "aircraft", DeploymentType: "mobile", MeasurementScale: "equipment", Sensor: "aircraft",
			NCrews: 1, MaxWorkday: 8, ConsiderDaylight: true, ReportingDelay: 2,
			QE: 0.3, WeatherLimits: common,
			FollowUp: FollowUp{ThresholdType: "absolute", RedundancyFilter: "max", Ratio: 0.5},
		},
		"truck": {
			Label: "truck", DeploymentType: "mobile", MeasurementScale: "equipment", Sensor: "truck",
			NCrews: 1, MaxWorkday: 8, ConsiderDaylight: true, ReportingDelay: 2,
			QE: 0.3, WeatherLimits: common,
			FollowUp: FollowUp{ThresholdType: "absolute", RedundancyFilter: "max", Ratio: 0.5},
		},
		"satellite": {
			Label: "satellite", DeploymentType: "orbit", MeasurementScale: "site", Sensor: "satellite",
			NCrews: 1, MaxWorkday: 24, ReportingDelay: 2,
			QE: 0.3, WeatherLimits: common,
			FollowUp: FollowUp{ThresholdType: "absolute", RedundancyFilter: "mean", Ratio: 0.5},
		},
		"continuous": {
			Label: "continuous", DeploymentType: "stationary", MeasurementScale: "site", Sensor: "continuous",
			NCrews: 1, MaxWorkday: 24, ReportingDelay: 0,
			QE: 0.1, WeatherLimits: common,
			FollowUp: FollowUp{ThresholdType: "absolute", RedundancyFilter: "mean", Ratio: 1},
		},
	}
}

// decodeLayer merges overrides into base (a pointer to a struct
// already holding the layer's defaults), returning human-readable
// warnings for any key in overrides that has no matching field and a
// *ParameterError for any key whose value can't convert to the
// default's type.
func decodeLayer(level, label string, base interface{}, overrides map[string]interface{}) ([]string, error) {
	if len(overrides) == 0 {
		return nil, nil
	}
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &md,
		Result:           base,
		WeaklyTypedInput: false,
		ErrorUnused:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("config: building decoder: %w", err)
	}
	if err := dec.Decode(overrides); err != nil {
		return nil, &ParameterError{Level: level, Label: label, Reason: err.Error()}
	}
	var warnings []string
	for _, k := range md.Unused {
		warnings = append(warnings, fmt.Sprintf("%s %q: unknown parameter %q is ignored", level, label, k))
	}
	return warnings, nil
}

// ResolveMethods merges a program's raw method overrides against the
// default method library. A method label matching a library entry
// merges into that entry's deep copy; an orphan label (one the
// library doesn't know) is matched by its declared sensor into the
// library entry sharing that sensor, per the input-manager resolution
// adopted in DESIGN.md, and only falls back to a blank Method when no
// such entry exists.
func ResolveMethods(rawMethods map[string]interface{}, library map[string]Method) (map[string]Method, []string, error) {
	resolved := make(map[string]Method, len(rawMethods))
	var warnings []string
	for label, rawVal := range rawMethods {
		overrides, ok := rawVal.(map[string]interface{})
		if !ok {
			return nil, warnings, &ParameterError{Level: "method", Label: label, Reason: "method configuration must be an object"}
		}

		base, ok := library[label]
		if !ok {
			sensor, _ := overrides["sensor"].(string)
			base, ok = findByType(library, sensor)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("method %q: no matching default; starting from a blank method", label))
			}
		}

		merged := base // copy
		w, err := decodeLayer("method", label, &merged, overrides)
		if err != nil {
			return nil, warnings, err
		}
		merged.Label = label
		warnings = append(warnings, w...)
		resolved[label] = merged
	}
	return resolved, warnings, nil
}

func findByType(library map[string]Method, sensor string) (Method, bool) {
	if sensor == "" {
		return Method{}, false
	}
	for _, m := range library {
		if m.Sensor == sensor {
			return m, true
		}
	}
	return Method{}, false
}

// readParamFile reads a YAML, JSON, or text-with-embedded-object-literal
// parameter file into a raw settings map. Viper's extension-based
// format detection covers YAML and JSON directly; a ".txt" file (the
// legacy embedded-object-literal format) is parsed as JSON, the shape
// that format's embedded object literal takes.
func readParamFile(path string) (map[string]interface{}, error) {
	v := viper.New()
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".txt" {
		v.SetConfigType("json")
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	settings := v.AllSettings()
	expandEnvStrings(settings)
	return settings, nil
}

// expandEnvStrings walks settings in place, expanding environment
// variables in every string value, so path-shaped configuration values
// can reference the environment uniformly.
func expandEnvStrings(m map[string]interface{}) {
	for k, v := range m {
		switch t := v.(type) {
		case string:
			m[k] = os.ExpandEnv(t)
		case map[string]interface{}:
			expandEnvStrings(t)
		case []interface{}:
			for i, e := range t {
				if s, ok := e.(string); ok {
					t[i] = os.ExpandEnv(s)
				}
			}
		}
	}
}

// Load reads a global parameter file followed by one or more program
// parameter files, in the sequence the CLI receives them, and returns
// the resolved global configuration, one Program per file (keyed by
// its label), and any non-fatal warnings collected along the way.
func Load(paths []string) (*Global, map[string]Program, []string, error) {
	if len(paths) == 0 {
		return nil, nil, nil, &ParameterError{Level: "global", Reason: "no parameter file paths supplied"}
	}

	globalRaw, err := readParamFile(paths[0])
	if err != nil {
		return nil, nil, nil, err
	}
	global := DefaultGlobal()
	warnings, err := decodeLayer("global", "global", &global, globalRaw)
	if err != nil {
		return nil, nil, nil, err
	}

	library := DefaultMethodLibrary()
	programs := make(map[string]Program, len(paths)-1)
	for _, p := range paths[1:] {
		raw, err := readParamFile(p)
		if err != nil {
			return nil, nil, nil, err
		}
		prog := DefaultProgram()
		rawMethods, _ := raw["methods"].(map[string]interface{})
		delete(raw, "methods")

		w, err := decodeLayer("program", p, &prog, raw)
		if err != nil {
			return nil, nil, nil, err
		}
		warnings = append(warnings, w...)

		if prog.Label == "" {
			prog.Label = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}

		if len(rawMethods) > 0 {
			methods, w2, err := ResolveMethods(rawMethods, library)
			if err != nil {
				return nil, nil, nil, err
			}
			prog.Methods = methods
			warnings = append(warnings, w2...)
		}
		programs[prog.Label] = prog
	}

	return &global, programs, warnings, nil
}
