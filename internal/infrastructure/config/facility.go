package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
)

// LoadFacilityConfig reads a facility definition file into a reactor.Config.
// Omitted optional parameters take their defaults and a missing name falls
// back to the file's base name. Rule violations surface as
// *shared.ConfigurationError.
func LoadFacilityConfig(path string) (reactor.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := reactor.DefaultConfig()
	v.SetDefault("n_load", defaults.NLoad)
	v.SetDefault("n_reserves", defaults.NReserves)
	v.SetDefault("refuel_time", defaults.RefuelTime)
	v.SetDefault("preorder_time", defaults.PreorderTime)
	v.SetDefault("order_policy", defaults.OrderPolicy)

	if err := v.ReadInConfig(); err != nil {
		return reactor.Config{}, fmt.Errorf("failed to read facility file %s: %w", path, err)
	}

	cfg := defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return reactor.Config{}, fmt.Errorf("failed to parse facility file %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return reactor.Config{}, err
	}
	return cfg, nil
}
