// Package configutil provides utilities for rule configuration resolution.
package configutil

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Resolve merges user options over defaults and unmarshals to typed config.
// If opts is nil or empty, returns defaults unchanged.
//
// Note: For slice/map fields, only nil values are replaced with defaults.
// An explicitly empty slice ([]string{}) preserves the empty value,
// allowing users to explicitly clear defaults.
func Resolve[T any](opts map[string]any, defaults T) T {
	if len(opts) == 0 {
		return defaults
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(opts, "."), nil); err != nil {
		return defaults
	}

	var result T
	if err := k.Unmarshal("", &result); err != nil {
		return defaults
	}

	// Merge defaults for zero-valued fields
	return mergeDefaults(result, defaults)
}

// Decode strictly decodes rule options into T. Unknown keys and values of
// the wrong type are errors; use it to validate options before a run.
func Decode[T any](opts map[string]any) (T, error) {
	var result T
	if len(opts) == 0 {
		return result, nil
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(opts, "."), nil); err != nil {
		return result, fmt.Errorf("load options: %w", err)
	}

	err := k.UnmarshalWithConf("", &result, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			ErrorUnused:      true,
			WeaklyTypedInput: false,
			Result:           &result,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return result, fmt.Errorf("decode options: %w", err)
	}
	return result, nil
}

// Coerce converts a dynamic rule config value to a typed config with defaults.
// Supported inputs:
//   - T
//   - *T
//   - map[string]any (decoded via Resolve)
//
// Any unsupported value falls back to defaults.
func Coerce[T any](config any, defaults T) T {
	switch v := config.(type) {
	case *T:
		if v != nil {
			return *v
		}
	case map[string]any:
		return Resolve(v, defaults)
	case T:
		return v
	}
	return defaults
}

// CoerceStrict is Coerce for validation: map options go through Decode so
// unknown keys surface as errors, and unsupported values are rejected.
func CoerceStrict[T any](config any) (T, error) {
	var zero T
	switch v := config.(type) {
	case nil:
		return zero, nil
	case *T:
		if v == nil {
			return zero, nil
		}
		return *v, nil
	case map[string]any:
		return Decode[T](v)
	case T:
		return v, nil
	}
	return zero, fmt.Errorf("expected %T, got %T", zero, config)
}

// mergeDefaults fills zero-valued fields in result with values from defaults.
func mergeDefaults[T any](result, defaults T) T {
	resultVal := reflect.ValueOf(&result).Elem()
	defaultsVal := reflect.ValueOf(defaults)

	if resultVal.Kind() != reflect.Struct {
		return result
	}

	for i := range resultVal.NumField() {
		field := resultVal.Field(i)
		if !field.CanSet() {
			continue
		}
		if isZero(field) {
			field.Set(defaultsVal.Field(i))
		}
	}

	return result
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Slice, reflect.Map:
		return v.IsNil()
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
