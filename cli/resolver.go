package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/hostscript/log"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Keys name flags without their leading dashes. Nested mappings join their
// keys with '-', and underscores are accepted in place of hyphens, so these
// documents are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// A document that fails to decode is ignored with a warning so that a broken
// file cannot prevent "init --force" from replacing it.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Warn("ignoring configuration",
			slog.String("format", "yaml"),
			slog.String("error", err.Error()))

		return config{}, nil
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flat map of flag names.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = flagValue(v)
	}
}

// flagValue converts a decoded YAML value into a form kong's mappers accept.
// Numbers become strings and sequences become comma-separated lists.
func flagValue(v any) any {
	switch v := v.(type) {
	case nil, bool, string:
		return v

	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, fmt.Sprint(flagValue(item)))
		}

		return strings.Join(items, ",")

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}
