package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	LogLevel  string   `default:"warn" name:"log-level"`
	LogPretty bool     `name:"log-pretty" negatable:""`
	Source    []string `short:"s"`
	PprofMode string   `name:"pprof-mode"`
	Secret    string   `default:"x" hidden:""`

	Init Init `cmd:""`
}

func parseInit(t *testing.T, dir string, args ...string) (*initCLI, *kong.Context) {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli,
		kong.Vars{ConfigIdentifier: filepath.Join(dir, "config")},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return &cli, ktx
}

func TestInit_Formats(t *testing.T) {
	tests := []struct {
		format    string
		file      string
		unmarshal func([]byte, any) error
	}{
		{"yaml", "config.yaml", yaml.Unmarshal},
		{"json", "config.json", json.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()

			cli, ktx := parseInit(t, dir, "--format", tt.format)

			if err := cli.Init.Run(WithContext(t.Context(), ktx)); err != nil {
				t.Fatalf("Run: %v", err)
			}

			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := tt.unmarshal(data, &got); err != nil {
				t.Fatalf("invalid %s: %v\n%s", tt.format, err, data)
			}

			if got["log-level"] != "warn" {
				t.Errorf("log-level = %v, want warn", got["log-level"])
			}

			if got["log-pretty"] != false {
				t.Errorf("log-pretty = %v, want false", got["log-pretty"])
			}

			for _, key := range []string{"help", "source", "pprof-mode", "secret"} {
				if _, ok := got[key]; ok {
					t.Errorf("unexpected key %q in\n%s", key, data)
				}
			}
		})
	}
}

func TestInit_Exists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("old: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cli, ktx := parseInit(t, dir)

	err := cli.Init.Run(WithContext(t.Context(), ktx))
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Fatalf("Run error = %v, want %v wrapping %v", err, ErrWriteConfig, ErrFileExists)
	}

	cli, ktx = parseInit(t, dir, "--force")

	if err := cli.Init.Run(WithContext(t.Context(), ktx)); err != nil {
		t.Fatalf("Run with force: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if _, ok := got["old"]; ok {
		t.Errorf("config not overwritten:\n%s", data)
	}
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"string", "x", "x"},
		{"bool", false, false},
		{"int", 3, 3},
		{"empty list", []string{}, nil},
		{"stringer", level("debug"), "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := configValue(tt.in); got != tt.want {
				t.Errorf("configValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

type level string
