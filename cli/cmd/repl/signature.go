package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is a call whose argument list contains the cursor.
type functionCall struct {
	name     string // callee chain, e.g. ".host.Math.max" or "sb.append"
	argIndex int    // current argument index (0-based)
	inCall   bool
}

// signature is one callable form of a callee.
type signature struct {
	name     string
	params   []string
	variadic int
}

// detectFunctionCall reports whether the cursor is inside the argument list
// of a call on a named callee, and which argument it is in.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open := -1
	depth := 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '.' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if strings.Trim(name, ".") == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '{':
			depth++
		case ')', '}':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// signatures returns the overloads callable through name: the methods of a
// host type or host value, the constructors of a host type, or the
// parameters of a closure.
func (c completer) signatures(name string) []signature {
	parent, member := "", name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		parent, member = name[:i], name[i+1:]
	}

	if c.reg == nil {
		return c.closureSignature(name)
	}

	// .host.Point(...) constructs.
	if parent != "" && strings.HasPrefix(name, ".") {
		if t, ok := c.reg.Lookup(name[1:]); ok {
			return methodSignatures(t.Name(), t.Constructors())
		}
	}

	var typeName string

	switch {
	case strings.HasPrefix(parent, "."):
		typeName = parent[1:]

	case parent != "" && c.env != nil:
		v, ok := c.env.Lookup(parent)
		if !ok {
			return nil
		}

		if ref, ok := v.(*lang.HostValueRef); ok {
			typeName = ref.TypeName()
		}

	default:
		return c.closureSignature(name)
	}

	t, ok := c.reg.Lookup(typeName)
	if !ok {
		return nil
	}

	return methodSignatures(member, t.Methods(member))
}

func (c completer) closureSignature(name string) []signature {
	if c.env == nil {
		return nil
	}

	v, ok := c.env.Lookup(name)
	if !ok {
		return nil
	}

	fn, ok := v.(*lang.Closure)
	if !ok {
		return nil
	}

	return []signature{{name: name, params: fn.Params, variadic: fn.Variadic}}
}

func methodSignatures(name string, methods []*host.Method) []signature {
	sigs := make([]signature, 0, len(methods))

	for _, m := range methods {
		params := make([]string, len(m.Params()))
		for i, p := range m.Params() {
			params[i] = p.String()
		}

		sigs = append(sigs, signature{name: name, params: params, variadic: -1})
	}

	return sigs
}

// renderSignatureHint renders every overload with the parameter at argIndex
// highlighted.
func renderSignatureHint(sigs []signature, argIndex int) string {
	parts := make([]string, 0, len(sigs))

	for _, sig := range sigs {
		parts = append(parts, sig.render(argIndex))
	}

	return strings.Join(parts, signatureStyle.Render(" | "))
}

func (s signature) render(argIndex int) string {
	current := argIndex
	if s.variadic >= 0 && current > s.variadic {
		current = s.variadic
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(s.name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range s.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == s.variadic {
			p = "..." + p
		}

		if i == current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
