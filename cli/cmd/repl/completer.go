package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "types", "reset", "clear", "edit", "quit"}

// isWordBoundary returns true if the rune delimits words for completion
// purposes: whitespace, the member-access dot, and punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', '\n',
		'(', ')', '{', '}',
		',', '=', ';', ':',
		'"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word starting
// at wordStart. For "x = .host.Math.ma" with the word "ma", the parent path
// is ".host.Math"; for "sb.app" it is "sb". Top-level words have no parent.
func parentPath(input string, wordStart int) string {
	prefix := strings.TrimRight(input[:wordStart], ".")
	if prefix == "" {
		return ""
	}

	end := len(prefix)
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:end])
}

// completer derives completion candidates from the session state.
type completer struct {
	env *lang.Environment
	reg *host.Registry
}

// candidates returns the names that may follow parent. A parent starting with
// '.', or typeRoot for a word right after a lone '.', selects host type paths.
// Otherwise the parent names a variable holding a host value, or is empty for
// variable names.
func (c completer) candidates(parent string, typeRoot bool) []string {
	if typeRoot || strings.HasPrefix(parent, ".") {
		return c.typePath(strings.TrimPrefix(parent, "."))
	}

	if c.env == nil {
		return nil
	}

	if parent == "" {
		return c.env.Names()
	}

	v, ok := c.env.Lookup(parent)
	if !ok {
		return nil
	}

	return c.members(v)
}

// typePath returns the next segments of the host type names extending path,
// or the members of the type named path.
func (c completer) typePath(path string) []string {
	if c.reg == nil {
		return nil
	}

	if t, ok := c.reg.Lookup(path); ok {
		return t.Members()
	}

	if path != "" {
		path += "."
	}

	var names []string

	for _, name := range c.reg.Names() {
		rest, ok := strings.CutPrefix(name, path)
		if !ok {
			continue
		}

		seg, _, _ := strings.Cut(rest, ".")
		names = append(names, seg)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// members returns the member names of the host type of v.
func (c completer) members(v lang.Value) []string {
	if c.reg == nil {
		return nil
	}

	var name string

	switch v := v.(type) {
	case *lang.HostValueRef:
		name = v.TypeName()
	case *lang.HostTypeRef:
		name = v.Name
	default:
		return nil
	}

	if t, ok := c.reg.Lookup(name); ok {
		return t.Members()
	}

	return nil
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. An empty word yields no matches at the top level, but every
// candidate right after a member-access dot.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var afterDot bool

	switch {
	case m.mode == modeCtrl, input[:wordStart] == ":":
		candidates = ctrlCommands

	default:
		parent := parentPath(input, wordStart)
		afterDot = wordStart > 0 && input[wordStart-1] == '.'
		candidates = m.completer.candidates(parent, afterDot && parent == "")
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if !afterDot {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
