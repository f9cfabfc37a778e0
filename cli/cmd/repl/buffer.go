package repl

import (
	"strings"
	"unicode"
)

// statementComplete reports whether the last non-space rune of src is a ';'
// at nesting depth 0 outside any string or character literal and any line
// comment. Literals have no escapes and end at the first matching quote.
// Unbalanced closing braces also end the input, leaving the error to the
// parser.
func statementComplete(src string) bool {
	var (
		depth int
		quote rune
		last  rune
	)

	text := []rune(src)

	for i := 0; i < len(text); i++ {
		r := text[i]

		if quote != 0 {
			if r == quote {
				quote = 0
			}

			last = r

			continue
		}

		if r == '/' && i+1 < len(text) && text[i+1] == '/' {
			for i < len(text) && text[i] != '\n' {
				i++
			}

			continue
		}

		switch r {
		case '"', '\'':
			quote = r
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		}

		if !unicode.IsSpace(r) {
			last = r
		}
	}

	return quote == 0 && depth <= 0 && last == ';'
}

// pending accumulates input lines until they form complete statements.
type pending struct {
	lines []string
}

// add appends line and returns the buffered source once it is complete,
// clearing the buffer.
func (p *pending) add(line string) (src string, done bool) {
	p.lines = append(p.lines, line)

	src = strings.Join(p.lines, "\n")
	if !statementComplete(src) {
		return "", false
	}

	p.reset()

	return src, true
}

func (p *pending) reset() { p.lines = nil }

func (p *pending) empty() bool { return len(p.lines) == 0 }

func (p *pending) String() string { return strings.Join(p.lines, "\n") }
