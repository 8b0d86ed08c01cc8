package config

import (
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// LoadWithOverrides loads configuration for a target path and applies CLI
// overrides last. An explicit configPath skips discovery.
//
// Overrides use the same (nested or dotted) shape as the TOML config file,
// for example:
//
//	overrides := map[string]any{
//	  "output.format": "json",
//	  "exclusions.patterns": []string{"checkstyle:/src/gen/.*"},
//	}
//
// Precedence: defaults → config file → env → overrides.
func LoadWithOverrides(targetPath, configPath string, overrides map[string]any) (*Config, error) {
	if configPath == "" {
		configPath = Discover(targetPath)
	}
	return loadWithConfigPath(configPath, overrides)
}

// loadWithConfigPath is an internal helper that loads config with an optional
// config file path and optional overrides.
func loadWithConfigPath(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Config file
	if err := loadConfigFile(k, configPath); err != nil {
		return nil, err
	}

	// 3. Environment variables (QUILL_* prefix)
	if err := loadEnv(k); err != nil {
		return nil, err
	}

	// 4. CLI overrides
	if err := loadOverrides(k, overrides); err != nil {
		return nil, err
	}

	// 5. Validate merged raw config and decode.
	cfg, err := decodeConfig(k.Raw())
	if err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

func loadConfigFile(k *koanf.Koanf, configPath string) error {
	if configPath == "" {
		return nil
	}
	return k.Load(file.Provider(configPath), toml.Parser())
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil)
}

func loadOverrides(k *koanf.Koanf, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	return k.Load(confmap.Provider(overrides, "."), nil)
}
