package config

import "sort"

var Presets = map[string]map[string]*Config{
	"sir": {
		"flu": {
			Model: "sir", Order: 4, T1: 120, Points: 121, ValidateState: true,
			Params: map[string]float64{"beta": 0.5, "gamma": 1.0 / 3.0},
		},
		"measles": {
			Model: "sir", Order: 4, T1: 90, Points: 181, ValidateState: true,
			Params: map[string]float64{"beta": 1.5, "gamma": 0.1},
		},
	},
	"seir": {
		"covid": {
			Model: "seir", Order: 4, T1: 300, Points: 301, Date0: "2020-03-01", ValidateState: true,
			Params:    map[string]float64{"beta": 0.5, "sigma": 1.0 / 5.2, "gamma": 1.0 / 10},
			InitState: map[string]float64{"Exposed": 100, "Infected": 10},
		},
		"lockdown": {
			Model: "seir", Order: 4, T1: 300, Points: 301, Date0: "2020-03-01", ValidateState: true,
			Params:    map[string]float64{"beta": 0.12, "sigma": 1.0 / 5.2, "gamma": 1.0 / 10},
			InitState: map[string]float64{"Exposed": 100, "Infected": 10},
		},
	},
	"seihrf": {
		"covid": {
			Model: "seihrf", Order: 4, T1: 365, Points: 366, Date0: "2020-03-01", ValidateState: true,
			Params: map[string]float64{
				"beta": 0.4, "sigma": 1.0 / 5.2, "gamma": 1.0 / 10,
				"hosp": 0.04, "rho": 1.0 / 14, "fatality": 0.25,
			},
			InitState: map[string]float64{"Exposed": 50, "Infected": 10},
			Capacity:  3000,
		},
	},
	"decay": {
		"unit":   {Model: "decay", Order: 4, T1: 1, Points: 11},
		"coarse": {Model: "decay", Order: 4, T1: 1, Points: 2},
	},
	"oscillator": {
		"period": {Model: "oscillator", Order: 4, T1: 6.283185307179586, Points: 101},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, name string) *Config {
	presets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	presets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
