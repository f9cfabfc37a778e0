package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in native syntax to the writer. With indent > 0,
// statements and function bodies are placed on separate lines indented by
// that many spaces per level; otherwise the program is written on one line.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	for i, stmt := range p.Statements {
		if i > 0 {
			if indent > 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}

		writeStatement(&sb, stmt, indent, 0)
	}

	// Final newline
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatJSON writes the program syntax tree as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p.document(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p.document())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program syntax tree as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.document(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// String returns the program in native syntax on one line.
func (p *Program) String() string {
	var sb strings.Builder

	_ = p.Format(context.Background(), &sb, 0)

	return strings.TrimSuffix(sb.String(), "\n")
}

func writeStatement(sb *strings.Builder, n Node, indent, depth int) {
	sb.WriteString(strings.Repeat(" ", indent*depth))

	if ret, ok := n.(*Return); ok {
		sb.WriteString("return")

		if ret.Value != nil {
			sb.WriteByte(' ')
			writeExpression(sb, ret.Value, indent, depth)
		}
	} else {
		writeExpression(sb, n, indent, depth)
	}

	sb.WriteByte(';')
}

func writeExpression(sb *strings.Builder, n Node, indent, depth int) {
	switch n := n.(type) {
	case *Literal:
		sb.WriteString(FormatLiteral(n.Value))

	case *Access:
		sb.WriteString(n.Name())

	case *TypeRef:
		sb.WriteByte('.')
		sb.WriteString(n.Name())

	case *Assign:
		sb.WriteString(n.Target.Name())
		sb.WriteString(" = ")
		writeExpression(sb, n.Value, indent, depth)

	case *Call:
		writeExpression(sb, n.Callee, indent, depth)
		sb.WriteByte('(')

		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeExpression(sb, arg, indent, depth)
		}

		sb.WriteByte(')')

	case *FuncLit:
		sb.WriteString(formatParams(n.Params, n.Variadic))
		sb.WriteString(" {")

		switch {
		case len(n.Body) == 0:
		case indent > 0:
			for _, stmt := range n.Body {
				sb.WriteByte('\n')
				writeStatement(sb, stmt, indent, depth+1)
			}

			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", indent*depth))
		default:
			for _, stmt := range n.Body {
				sb.WriteByte(' ')
				writeStatement(sb, stmt, 0, 0)
			}

			sb.WriteByte(' ')
		}

		sb.WriteByte('}')
	}
}

// FormatLiteral renders a literal value in native syntax so that parsing the
// result yields an equal value.
func FormatLiteral(v Value) string {
	switch v := v.(type) {
	case Float32:
		s := strconv.FormatFloat(float64(v), 'f', -1, 32)
		if !strings.Contains(s, ".") {
			s += "F"
		}

		return s
	case Float64:
		return strconv.FormatFloat(float64(v), 'f', -1, 64) + "D"
	case Char:
		return "'" + string(rune(v)) + "'"
	case Str:
		return `"` + string(v) + `"`
	case nil:
		return ""
	}

	return v.String()
}

// nodeDoc is the serialized form of a syntax tree node.
type nodeDoc struct {
	Node     string     `json:"node"               yaml:"node"`
	Line     int        `json:"line"               yaml:"line"`
	Column   int        `json:"column"             yaml:"column"`
	Kind     string     `json:"kind,omitempty"     yaml:"kind,omitempty"`
	Value    any        `json:"value,omitempty"    yaml:"value,omitempty"`
	Path     []string   `json:"path,omitempty"     yaml:"path,omitempty"`
	Params   []string   `json:"params,omitempty"   yaml:"params,omitempty"`
	Variadic *int       `json:"variadic,omitempty" yaml:"variadic,omitempty"`
	Callee   *nodeDoc   `json:"callee,omitempty"   yaml:"callee,omitempty"`
	Args     []*nodeDoc `json:"args,omitempty"     yaml:"args,omitempty"`
	Expr     *nodeDoc   `json:"expr,omitempty"     yaml:"expr,omitempty"`
	Body     []*nodeDoc `json:"body,omitempty"     yaml:"body,omitempty"`
}

type programDoc struct {
	Statements []*nodeDoc `json:"statements" yaml:"statements"`
}

func (p *Program) document() programDoc {
	doc := programDoc{Statements: make([]*nodeDoc, len(p.Statements))}

	for i, stmt := range p.Statements {
		doc.Statements[i] = documentNode(stmt)
	}

	return doc
}

func documentNode(n Node) *nodeDoc {
	if n == nil {
		return nil
	}

	pos := n.Pos()
	doc := &nodeDoc{Line: pos.Line, Column: pos.Column}

	switch n := n.(type) {
	case *Literal:
		doc.Node = "literal"
		doc.Kind = n.Value.Kind().String()

		if c, ok := n.Value.(Char); ok {
			doc.Value = string(rune(c))
		} else {
			doc.Value, _ = ToNative(n.Value)
		}

	case *Access:
		doc.Node = "access"
		doc.Path = n.Path

	case *TypeRef:
		doc.Node = "typeref"
		doc.Path = n.Path

	case *Assign:
		doc.Node = "assign"
		doc.Path = n.Target.Path
		doc.Expr = documentNode(n.Value)

	case *Call:
		doc.Node = "call"
		doc.Callee = documentNode(n.Callee)

		for _, arg := range n.Args {
			doc.Args = append(doc.Args, documentNode(arg))
		}

	case *FuncLit:
		doc.Node = "funclit"
		doc.Params = n.Params

		if n.Variadic >= 0 {
			doc.Variadic = &n.Variadic
		}

		for _, stmt := range n.Body {
			doc.Body = append(doc.Body, documentNode(stmt))
		}

	case *Return:
		doc.Node = "return"
		doc.Expr = documentNode(n.Value)
	}

	return doc
}
