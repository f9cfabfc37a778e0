package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestFormat_Native(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{
			name:  "literals",
			input: `1;  2L; 1.5; 2F; 2.5D; 'c'; "s";`,
			want:  "1; 2; 1.5; 2F; 2.5D; 'c'; \"s\";\n",
		},
		{
			name:  "assignment and call",
			input: `p.x=.host.Point(1,2);`,
			want:  "p.x = .host.Point(1, 2);\n",
		},
		{
			name:  "function literal",
			input: `f=(a,...r){return a;};`,
			want:  "f = (a, ...r) { return a; };\n",
		},
		{
			name:  "empty function literal",
			input: `( ) { };`,
			want:  "() {};\n",
		},
		{
			name:   "indented",
			input:  `x = 1; f = (a) { g = () { return; }; a; };`,
			indent: 2,
			want: "x = 1;\n" +
				"f = (a) {\n" +
				"  g = () {\n" +
				"    return;\n" +
				"  };\n" +
				"  a;\n" +
				"};\n",
		},
		{
			name:  "empty program",
			input: `// nothing`,
			want:  "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			var buf bytes.Buffer
			if err := prog.Format(t.Context(), &buf, tt.indent); err != nil {
				t.Fatalf("format error: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("format mismatch:\nwant: %q\ngot:  %q", tt.want, got)
			}
		})
	}
}

func TestFormat_Reparse(t *testing.T) {
	inputs := []string{
		`x = -3; y = 0.1D; z = 1.25F; c = 'é';`,
		`s = .host.String("a b"); s.length();`,
		`(a, ...rest) { rest.0 = a; return rest; }(1, 2, 3);`,
		`a = b = c = 9;`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			prog, err := ParseString(t.Context(), input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			for _, indent := range []int{0, 4} {
				var buf bytes.Buffer
				if err := prog.Format(t.Context(), &buf, indent); err != nil {
					t.Fatalf("format error: %v", err)
				}

				again, err := ParseString(t.Context(), buf.String())
				if err != nil {
					t.Fatalf("formatted output does not parse: %v\n%s", err, buf.String())
				}

				if again.String() != prog.String() {
					t.Errorf("reparse mismatch:\nwant: %s\ngot:  %s", prog, again)
				}
			}
		})
	}
}

func TestFormat_JSON(t *testing.T) {
	prog, err := ParseString(t.Context(), `f = (a, ...r) { a; }; f('x');`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := prog.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var doc struct {
		Statements []struct {
			Node string `json:"node"`
			Path []string
			Expr *struct {
				Node     string `json:"node"`
				Params   []string
				Variadic *int
			}
			Args []struct {
				Kind  string
				Value string
			}
		} `json:"statements"`
	}

	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if len(doc.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(doc.Statements))
	}

	assign := doc.Statements[0]
	if assign.Node != "assign" || assign.Expr == nil || assign.Expr.Node != "funclit" {
		t.Fatalf("unexpected first statement: %+v", assign)
	}

	if assign.Expr.Variadic == nil || *assign.Expr.Variadic != 1 {
		t.Errorf("variadic index = %v, want 1", assign.Expr.Variadic)
	}

	call := doc.Statements[1]
	if call.Node != "call" || len(call.Args) != 1 {
		t.Fatalf("unexpected second statement: %+v", call)
	}

	if call.Args[0].Kind != "char" || call.Args[0].Value != "x" {
		t.Errorf("argument = %+v, want char x", call.Args[0])
	}
}

func TestFormat_YAML(t *testing.T) {
	prog, err := ParseString(t.Context(), `x = .host.Math.PI;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := prog.FormatYAML(t.Context(), &buf, indent); err != nil {
			t.Fatalf("format error: %v", err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
		}

		if !strings.Contains(buf.String(), "typeref") {
			t.Errorf("indent %d: missing typeref node:\n%s", indent, buf.String())
		}
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Int64(-4), "-4"},
		{Float32(3), "3F"},
		{Float32(0.5), "0.5"},
		{Float64(3), "3D"},
		{Char('q'), "'q'"},
		{Str("q"), `"q"`},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := FormatLiteral(tt.value); got != tt.want {
			t.Errorf("FormatLiteral(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
