package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/hostscript/lang"
)

func TestFmt_Native(t *testing.T) {
	dir := t.TempDir()
	src := writeScript(t, dir, "in.hs", `x=1;f=(a){return a;};`)

	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{"flat", 0, "x = 1; f = (a) { return a; };\n"},
		{"indented", 2, "x = 1;\nf = (a) {\n  return a;\n};\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			f := &Native{FormatSource{Indent: tt.indent, Source: src, out: &out}}

			if err := f.Run(t.Context()); err != nil {
				t.Fatalf("Run: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmt_Documents(t *testing.T) {
	dir := t.TempDir()
	src := writeScript(t, dir, "in.hs", `p = .host.Point(1, 2);`)

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer

		f := &JSON{FormatSource{Indent: 2, Source: src, out: &out}}
		if err := f.Run(t.Context()); err != nil {
			t.Fatalf("Run: %v", err)
		}

		var doc map[string]any
		if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out.String())
		}

		if _, ok := doc["statements"]; !ok {
			t.Errorf("missing statements:\n%s", out.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer

		f := &YAML{FormatSource{Indent: 2, Source: src, out: &out}}
		if err := f.Run(t.Context()); err != nil {
			t.Fatalf("Run: %v", err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
			t.Fatalf("invalid YAML: %v\n%s", err, out.String())
		}

		if !strings.Contains(out.String(), "typeref") {
			t.Errorf("missing typeref node:\n%s", out.String())
		}
	})
}

func TestFmt_InvalidSyntax(t *testing.T) {
	dir := t.TempDir()
	src := writeScript(t, dir, "bad.hs", `f = (a { a; };`)

	var out bytes.Buffer

	fs := FormatSource{Indent: 2, Source: src, out: &out}

	tests := []struct {
		name string
		run  func() error
	}{
		{"native", func() error { return (&Native{fs}).Run(t.Context()) }},
		{"json", func() error { return (&JSON{fs}).Run(t.Context()) }},
		{"yaml", func() error { return (&YAML{fs}).Run(t.Context()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, ErrFormat) || !errors.Is(err, lang.ErrParse) {
				t.Errorf("Run error = %v, want %v wrapping %v", err, ErrFormat, lang.ErrParse)
			}
		})
	}

	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestFmt_MissingSource(t *testing.T) {
	f := &Native{FormatSource{Source: t.TempDir() + "/missing.hs"}}

	if err := f.Run(t.Context()); !errors.Is(err, ErrReadSource) {
		t.Errorf("Run error = %v, want %v", err, ErrReadSource)
	}
}
