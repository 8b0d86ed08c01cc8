package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/wharflab/quill/internal/rules"
)

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "sarif", "github-actions", "markdown"}

var colorModes = []string{"auto", "always", "never"}

func decodeConfig(raw map[string]any) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(raw, ""), nil); err != nil {
		return nil, fmt.Errorf("load merged config: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.raw = raw
	return &cfg, nil
}

// Validate checks values that the decoder accepts but quill cannot use.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(Formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format: unknown format %q", c.Output.Format))
	}
	if _, err := rules.ParseSeverity(c.Output.FailLevel); err != nil && c.Output.FailLevel != "none" {
		errs = append(errs, fmt.Errorf("output.fail-level: %w", err))
	}
	if c.Output.Color != "" && !slices.Contains(colorModes, c.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color: unknown mode %q", c.Output.Color))
	}
	if c.Scan.Jobs < 0 {
		errs = append(errs, fmt.Errorf("scan.jobs: must be >= 0, got %d", c.Scan.Jobs))
	}
	if c.Scan.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("scan.max-file-size: must be >= 0, got %d", c.Scan.MaxFileSize))
	}
	for _, ns := range Namespaces {
		for name, rc := range c.Rules.namespaceMap(ns) {
			if rc.Severity == "" {
				continue
			}
			if _, err := rules.ParseSeverity(rc.Severity); err != nil {
				errs = append(errs, fmt.Errorf("rules.%s.%s.severity: %w", ns, name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// TOML renders the effective configuration. Rule options are kept as loaded.
func (c *Config) TOML() ([]byte, error) {
	if c.raw != nil {
		return toml.Marshal(pruneNil(c.raw))
	}
	return toml.Marshal(c)
}

// pruneNil drops nil values and empty tables, which TOML cannot express.
func pruneNil(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case nil:
			continue
		case map[string]any:
			if sub := pruneNil(tv); len(sub) > 0 {
				out[k] = sub
			}
		default:
			if rv := reflect.ValueOf(v); (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.IsNil() {
				continue
			}
			out[k] = v
		}
	}
	return out
}
