package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/hostscript/log"
	"github.com/ardnew/hostscript/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force  bool   `help:"Overwrite existing configuration file" short:"f"`
	Format string `default:"yaml" enum:"yaml,json" help:"Configuration file format"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	base, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	confPath := base + "." + i.Format

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := i.encode(settings(ktx))
	if err != nil {
		return err
	}

	err = os.WriteFile(confPath, data, 0o600)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.String("format", i.Format))

	return nil
}

func (i *Init) encode(items yaml.MapSlice) ([]byte, error) {
	if i.Format == "json" {
		m := make(map[string]any, len(items))
		for _, item := range items {
			m[fmt.Sprint(item.Key)] = item.Value
		}

		data, err := json.MarshalIndent(m, "", strings.Repeat(" ", defaultConfigIndent))
		if err != nil {
			return nil, ErrJSONMarshal.Wrap(err)
		}

		return append(data, '\n'), nil
	}

	data, err := yaml.MarshalWithOptions(items, yaml.Indent(defaultConfigIndent))
	if err != nil {
		return nil, ErrYAMLMarshal.Wrap(err)
	}

	return data, nil
}

// settings returns the configurable top-level flags with their current
// values, in declaration order.
func settings(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", "version", "source", profile.Tag}

	var items yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			items = append(items, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return items
}

// configValue converts a flag value into a plain YAML/JSON scalar or list.
// Unset values yield nil.
func configValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	default:
		if s := fmt.Sprint(v); s != "" {
			return s
		}

		return nil
	}
}
