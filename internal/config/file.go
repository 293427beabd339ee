package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
)

var (
	// ErrUnknownOption is matched by a ConfigError raised for keys the
	// persisted config does not recognize.
	ErrUnknownOption = errors.New("unknown configuration option")
	// ErrInvalidOption is matched by a ConfigError raised for a recognized
	// key holding a value of the wrong type.
	ErrInvalidOption = errors.New("invalid configuration option")
)

// ConfigError is a fatal problem with the persisted config file.
type ConfigError struct {
	Path string
	Keys []string
	Kind error
	Err  error
}

func (e *ConfigError) Error() string {
	if errors.Is(e.Kind, ErrUnknownOption) {
		return fmt.Sprintf("invalid configuration options found in %s: %s", e.Path, strings.Join(e.Keys, ", "))
	}
	msg := fmt.Sprintf("invalid value for %s in %s", strings.Join(e.Keys, ", "), e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is lets errors.Is match ErrUnknownOption and ErrInvalidOption.
func (e *ConfigError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConfigError) Unwrap() error { return e.Err }

type optionDecoder func(o *Options, raw json.RawMessage) error

var optionDecoders = map[string]optionDecoder{
	"stageAllChanges":     func(o *Options, raw json.RawMessage) error { return decodeValue(raw, &o.StageAllChanges) },
	"commitStaged":        func(o *Options, raw json.RawMessage) error { return decodeValue(raw, &o.CommitStaged) },
	"commitAndPushStaged": func(o *Options, raw json.RawMessage) error { return decodeValue(raw, &o.CommitAndPushStaged) },
	"header":              func(o *Options, raw json.RawMessage) error { return decodeValue(raw, &o.Header) },
	"include":             func(o *Options, raw json.RawMessage) error { return decodePatterns(raw, &o.Include) },
	"exclude":             func(o *Options, raw json.RawMessage) error { return decodePatterns(raw, &o.Exclude) },
	"verbose":             func(o *Options, raw json.RawMessage) error { return decodeValue(raw, &o.Verbose) },
	"preScript":           func(o *Options, raw json.RawMessage) error { return decodeValue(raw, &o.PreScript) },
	"withTemplates":       func(o *Options, raw json.RawMessage) error { return decodeValue(raw, &o.WithTemplates) },
	"templateName":        func(o *Options, raw json.RawMessage) error { return decodeValue(raw, &o.TemplateName) },
	"template":            decodeTemplate,
	"redactSecrets":       func(o *Options, raw json.RawMessage) error { return decodeValue(raw, &o.RedactSecrets) },
}

// RecognizedKeys returns the option names accepted in the persisted config,
// sorted.
func RecognizedKeys() []string {
	keys := make([]string, 0, len(optionDecoders))
	for k := range optionDecoders {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// decodeValue leaves *dst untouched unless raw decodes cleanly.
func decodeValue[T any](raw json.RawMessage, dst **T) error {
	if isNull(raw) {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

func decodePatterns(raw json.RawMessage, dst *Patterns) error {
	if isNull(raw) {
		return nil
	}
	var p Patterns
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	*dst = p
	return nil
}

func decodeTemplate(o *Options, raw json.RawMessage) error {
	if isNull(raw) {
		return nil
	}
	var t TemplateSelection
	if err := json.Unmarshal(raw, &t); err != nil {
		return err
	}
	if t.Variables == nil {
		t.Variables = map[string]string{}
	}
	o.Template = &t
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// DecodeOptions builds an Options layer from a decoded JSON object. In strict
// mode unrecognized keys and mistyped values are errors; otherwise they are
// skipped and returned as the second value.
func DecodeOptions(fields map[string]json.RawMessage, strict bool) (Options, []string, error) {
	var opts Options

	var unknown []string
	for k := range fields {
		if _, ok := optionDecoders[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	if strict && len(unknown) > 0 {
		return Options{}, nil, &ConfigError{Keys: unknown, Kind: ErrUnknownOption}
	}

	for _, key := range RecognizedKeys() {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := optionDecoders[key](&opts, raw); err != nil {
			if strict {
				return Options{}, nil, &ConfigError{Keys: []string{key}, Kind: ErrInvalidOption, Err: err}
			}
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	return opts, unknown, nil
}

// LoadFile reads the persisted config layer at path. A missing file yields an
// empty layer. An unreadable or malformed file is logged as a warning and
// also yields an empty layer. Unrecognized keys and mistyped values are
// returned as a *ConfigError.
func LoadFile(path string, logger *slog.Logger) (Options, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, nil
		}
		logger.Warn("error reading config file, ignoring it", "path", path, "error", err)
		return Options{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		logger.Warn("config file exists but is not a valid JSON object, ignoring it", "path", path)
		return Options{}, nil
	}

	opts, _, err := DecodeOptions(fields, true)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return Options{}, err
	}
	return opts, nil
}
