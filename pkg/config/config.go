// Package config loads RunConfig: the user-facing settings that tune an
// Orchestrator run (default origin, HTTP timeout, archive caching, color
// output) from layered defaults, a TOML file and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/overlayforge/pkg/origin"
)

// EnvPrefix namespaces every environment variable RunConfig honors.
const EnvPrefix = "OVERLAYFORGE_"

// RunConfig is the subset of behavior a user may tune without touching code.
type RunConfig struct {
	DefaultOrigin string        `koanf:"default_origin"`
	Timeout       time.Duration `koanf:"timeout"`
	CacheArchives bool          `koanf:"cache_archives"`
	Color         string        `koanf:"color"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"default_origin": origin.DefaultOriginID,
		"timeout":        origin.DefaultTimeout.String(),
		"cache_archives": true,
		"color":          "auto",
	}
}

// Load resolves RunConfig from built-in defaults, then configPath if it
// exists (TOML), then OVERLAYFORGE_-prefixed environment variables, each
// layer overriding the last. A missing configPath is not an error.
func Load(configPath string) (RunConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return RunConfig{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return RunConfig{}, fmt.Errorf("config: load %s: %w", configPath, err)
			}
		}
	}

	envTransform := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return RunConfig{}, fmt.Errorf("config: load env: %w", err)
	}

	var cfg RunConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return RunConfig{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
