package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/san-kum/corona/internal/integrators"
)

// EnvPrefix namespaces environment overrides, e.g. CORONA_DATA_DIR.
const EnvPrefix = "CORONA"

// Settings are per-invocation CLI options, as opposed to per-run Config.
type Settings struct {
	DataDir string
	Order   int
	Workers int
	Verbose bool
}

// NewViper returns a viper instance with defaults and environment overrides.
// Callers bind their command-line flags on top.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("data_dir", filepath.Join(".", "runs"))
	v.SetDefault("order", DefaultOrder)
	v.SetDefault("workers", 0)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	}
	return v
}

func LoadSettings(v *viper.Viper) (*Settings, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	s := &Settings{
		DataDir: v.GetString("data_dir"),
		Order:   v.GetInt("order"),
		Workers: v.GetInt("workers"),
		Verbose: v.GetBool("verbose"),
	}
	if err := integrators.Order(s.Order).Validate(); err != nil {
		return nil, err
	}
	if s.DataDir == "" {
		return nil, fmt.Errorf("data_dir must not be empty")
	}
	if s.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	return s, nil
}
