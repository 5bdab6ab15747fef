package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "seir" {
		t.Errorf("expected model seir, got %s", cfg.Model)
	}
	if cfg.Order != 4 {
		t.Errorf("expected order 4, got %d", cfg.Order)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if len(cfg.TimeGrid()) != cfg.Points {
		t.Errorf("expected %d grid points, got %d", cfg.Points, len(cfg.TimeGrid()))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no model", func(c *Config) { c.Model = "" }},
		{"order zero", func(c *Config) { c.Order = 0 }},
		{"order five", func(c *Config) { c.Order = 5 }},
		{"no points", func(c *Config) { c.Points = 0 }},
		{"empty span", func(c *Config) { c.T1 = c.T0 }},
		{"negative chunk", func(c *Config) { c.ChunkSize = -1 }},
		{"bad date", func(c *Config) { c.Date0 = "03/01/2020" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	single := DefaultConfig()
	single.Points = 1
	single.T1 = single.T0
	if err := single.Validate(); err != nil {
		t.Errorf("single point config should be valid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("seir", "covid")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Date0 != "2020-03-01" || loaded.Params["beta"] != 0.5 || loaded.InitState["Exposed"] != 100 {
		t.Errorf("round trip lost data: %+v", loaded)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := Save(path, &Config{Model: "sir", Order: 9, Points: 10, T1: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, dynamo.ErrUnsupportedOrder) {
		t.Errorf("expected ErrUnsupportedOrder, got %v", err)
	}
}

func TestDates(t *testing.T) {
	cfg := DefaultConfig()
	if d, err := cfg.Dates(); err != nil || d != nil {
		t.Errorf("expected no dates without date0, got %v, %v", d, err)
	}

	cfg.Date0 = "2020-03-01"
	cfg.T1 = 31
	cfg.Points = 32
	dates, err := cfg.Dates()
	if err != nil {
		t.Fatal(err)
	}
	if got := dates[len(dates)-1].Format(DateLayout); got != "2020-04-01" {
		t.Errorf("expected last date 2020-04-01, got %s", got)
	}
}

func TestInitialState(t *testing.T) {
	m := models.NewSEIR()
	cfg := DefaultConfig()
	cfg.InitState = map[string]float64{"exposed": 100, "Infected": 20}

	x0, err := cfg.InitialState(m)
	if err != nil {
		t.Fatal(err)
	}
	if x0[1] != 100 || x0[2] != 20 {
		t.Errorf("overrides not applied: %v", x0)
	}
	if x0.Sum() != m.Population {
		t.Errorf("susceptible should absorb the population: sum %g", x0.Sum())
	}

	cfg.InitState = map[string]float64{"Deceased": 1}
	if _, err := cfg.InitialState(m); err == nil {
		t.Error("expected unknown compartment error")
	}

	cfg.InitState = map[string]float64{"Infected": 2e6}
	if _, err := cfg.InitialState(m); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestApplyParams(t *testing.T) {
	m := models.NewSIR()
	cfg := DefaultConfig()
	cfg.Params = map[string]float64{"beta": 0.9, "gamma": 0.3}

	if err := cfg.ApplyParams(m); err != nil {
		t.Fatal(err)
	}
	if m.Beta != 0.9 || m.Gamma != 0.3 {
		t.Errorf("params not applied: %+v", m)
	}

	cfg.Params = map[string]float64{"sigma": 1}
	if err := cfg.ApplyParams(m); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("seir", "covid")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	cfg.Params["beta"] = 99
	if Presets["seir"]["covid"].Params["beta"] == 99 {
		t.Error("GetPreset should return a copy")
	}

	for model := range Presets {
		for _, name := range ListPresets(model) {
			if err := GetPreset(model, name).Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", model, name, err)
			}
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("seir", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "covid") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("seir")
	if len(presets) != 2 || presets[0] != "covid" {
		t.Errorf("unexpected seir presets: %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}
