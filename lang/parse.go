package lang

import (
	"context"
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/hostscript/log"
)

// ParseOption configures a parse.
type ParseOption func(*parser)

// WithParseLogger sets the logger that traces parsing.
func WithParseLogger(logger log.Logger) ParseOption {
	return func(p *parser) { p.logger = logger }
}

// ParseString parses source text into a program. It does not consult the
// parse cache; see [ParseCached].
func ParseString(
	ctx context.Context,
	s string,
	opts ...ParseOption,
) (*Program, error) {
	p := newParser(s, opts...)

	prog, err := p.parseProgram()
	if err != nil {
		p.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("statements", len(prog.Statements)),
		slog.Int("source_bytes", len(s)))

	return prog, nil
}

// parser holds the parser state. It scans characters directly; there is no
// separate lexer pass.
type parser struct {
	input  []byte
	src    string
	pos    int
	line   int
	col    int
	logger log.Logger
}

func newParser(s string, opts ...ParseOption) *parser {
	p := &parser{
		input: []byte(s),
		src:   s,
		line:  1,
		col:   1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// parseProgram parses: statement*.
func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{Source: p.src}

	for {
		p.skipWhitespaceAndComments()

		if p.eof() {
			return prog, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}
}

// parseStatement parses: 'return' expression? ';' | expression ';'.
func (p *parser) parseStatement() (Node, error) {
	var (
		stmt Node
		err  error
	)

	pos := p.position()

	if p.keyword("return") {
		p.skipWhitespaceAndComments()

		ret := &Return{At: pos}

		if p.peek() != ';' {
			if ret.Value, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}

		stmt = ret
	} else if stmt, err = p.parseExpression(); err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()

	if !p.expect(';') {
		return nil, p.fail(p.position(), p.missing(";"))
	}

	return stmt, nil
}

// parseExpression parses: primary ( '=' expression | '(' args ')' )?.
func (p *parser) parseExpression() (Node, error) {
	pos := p.position()

	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()

	switch p.peek() {
	case '=':
		target, ok := prim.(*Access)
		if !ok {
			return nil, p.fail(pos, ErrInvalidTarget)
		}

		p.advance()
		p.skipWhitespaceAndComments()

		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		return &Assign{At: pos, Target: target, Value: rhs}, nil

	case '(':
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}

		p.skipWhitespaceAndComments()

		if p.peek() == '=' {
			return nil, p.fail(pos, ErrInvalidTarget)
		}

		return &Call{At: pos, Callee: prim, Args: args}, nil
	}

	return prim, nil
}

// parsePrimary parses: number | string | charLit | typeRef | funcLit | access.
func (p *parser) parsePrimary() (Node, error) {
	ch := p.peek()

	switch {
	case p.eof():
		return nil, p.fail(p.position(), p.missing("expression"))
	case isDigit(ch), ch == '-' && isDigit(p.peekAt(1)):
		return p.parseNumber()
	case ch == '"':
		return p.parseString()
	case ch == '\'':
		return p.parseChar()
	case ch == '.':
		return p.parseTypeRef()
	case ch == '(':
		return p.parseFuncLit()
	case isIdentifierStart(ch):
		return p.parseAccess()
	}

	return nil, p.fail(p.position(),
		ErrUnexpectedChar.With(slog.String("char", string(ch))))
}

// parseNumber parses an integer or decimal literal with an optional suffix.
//
//	123   Int64      123L  Int64
//	1.5   Float32    1.5F  Float32
//	1.5D  Float64    2D    Float64
func (p *parser) parseNumber() (Node, error) {
	pos := p.position()
	start := p.pos

	if p.peek() == '-' {
		p.advance()
	}

	for isDigit(p.peek()) {
		p.advance()
	}

	decimal := p.peek() == '.' && isDigit(p.peekAt(1))
	if decimal {
		p.advance() // skip '.'

		for isDigit(p.peek()) {
			p.advance()
		}
	}

	text := string(p.input[start:p.pos])

	suffix := p.peek()
	switch suffix {
	case 'L', 'l', 'D', 'd', 'F', 'f':
		p.advance()
	default:
		suffix = 0
	}

	if !p.eof() && isIdentifierContinue(p.peek()) {
		return nil, p.fail(pos, ErrInvalidNumber.With(
			slog.String("literal", string(p.input[start:p.pos])+string(p.peek()))))
	}

	invalid := func(err error) error {
		return p.fail(pos, ErrInvalidNumber.
			With(slog.String("literal", string(p.input[start:p.pos]))).
			Wrap(err))
	}

	var v Value

	switch suffix {
	case 'L', 'l':
		if decimal {
			return nil, p.fail(pos, ErrInvalidNumber.With(
				slog.String("literal", string(p.input[start:p.pos])),
				slog.String("reason", "integer suffix on decimal")))
		}

		fallthrough

	case 0:
		if !decimal {
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return nil, invalid(err)
			}

			v = Int64(n)

			break
		}

		fallthrough

	case 'F', 'f':
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, invalid(err)
		}

		v = Float32(f)

	case 'D', 'd':
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, invalid(err)
		}

		v = Float64(f)
	}

	return &Literal{At: pos, Value: v}, nil
}

// parseString parses a double-quoted string. Its content is taken verbatim.
func (p *parser) parseString() (Node, error) {
	pos := p.position()

	text, err := p.scanQuoted('"')
	if err != nil {
		return nil, p.fail(pos, ErrUnterminated.With(slog.String("literal", "string")))
	}

	return &Literal{At: pos, Value: Str(text)}, nil
}

// parseChar parses a single-quoted character.
func (p *parser) parseChar() (Node, error) {
	pos := p.position()

	text, err := p.scanQuoted('\'')
	if err != nil {
		return nil, p.fail(pos, ErrUnterminated.With(slog.String("literal", "char")))
	}

	if utf8.RuneCountInString(text) != 1 {
		return nil, p.fail(pos, ErrInvalidChar.With(slog.String("literal", text)))
	}

	r, _ := utf8.DecodeRuneInString(text)

	return &Literal{At: pos, Value: Char(r)}, nil
}

// scanQuoted returns the text up to the matching closing quote. There are no
// escape sequences.
func (p *parser) scanQuoted(quote rune) (string, error) {
	p.advance() // skip opening quote

	start := p.pos

	for !p.eof() {
		if p.peek() == quote {
			text := string(p.input[start:p.pos])

			p.advance() // skip closing quote

			return text, nil
		}

		p.advance()
	}

	return "", ErrUnterminated
}

// parseTypeRef parses: '.' ident ('.' ident)*.
func (p *parser) parseTypeRef() (Node, error) {
	pos := p.position()

	p.advance() // skip '.'

	path, err := p.parsePath(false)
	if err != nil {
		return nil, err
	}

	return &TypeRef{At: pos, Path: path}, nil
}

// parseAccess parses: ident ('.' segment)*.
func (p *parser) parseAccess() (Node, error) {
	pos := p.position()

	path, err := p.parsePath(true)
	if err != nil {
		return nil, err
	}

	return &Access{At: pos, Path: path}, nil
}

// parsePath parses an identifier followed by dotted segments. If digits is
// set, segments after the first may also be decimal indexes.
func (p *parser) parsePath(digits bool) ([]string, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	path := []string{name}

	for p.peek() == '.' {
		p.advance() // skip '.'

		if digits && isDigit(p.peek()) {
			start := p.pos

			for isDigit(p.peek()) {
				p.advance()
			}

			path = append(path, string(p.input[start:p.pos]))

			continue
		}

		seg, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		path = append(path, seg)
	}

	return path, nil
}

// parseFuncLit parses: '(' params ')' '{' statement* '}'.
func (p *parser) parseFuncLit() (Node, error) {
	pos := p.position()

	p.advance() // skip '('
	p.skipWhitespaceAndComments()

	fn := &FuncLit{At: pos, Variadic: -1}

	for p.peek() != ')' {
		paramPos := p.position()
		variadic := p.peekN(3) == "..."

		// Only the last parameter may follow a variadic marker.
		if fn.Variadic >= 0 {
			return nil, p.fail(paramPos, ErrMisplacedVariadic)
		}

		if variadic {
			p.pos += 3
			p.col += 3

			p.skipWhitespaceAndComments()
			fn.Variadic = len(fn.Params)
		}

		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		fn.Params = append(fn.Params, name)

		p.skipWhitespaceAndComments()

		if !p.expect(',') {
			break
		}

		// A comma always introduces another parameter.
		p.skipWhitespaceAndComments()

		if p.peek() == ')' {
			return nil, p.fail(p.position(), p.missing("identifier"))
		}
	}

	if !p.expect(')') {
		return nil, p.fail(p.position(), p.missing(")"))
	}

	p.skipWhitespaceAndComments()

	if !p.expect('{') {
		return nil, p.fail(p.position(), p.missing("{"))
	}

	for {
		p.skipWhitespaceAndComments()

		if p.eof() {
			return nil, p.fail(p.position(), p.missing("}"))
		}

		if p.expect('}') {
			return fn, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		fn.Body = append(fn.Body, stmt)
	}
}

// parseArgs parses: '(' [ expression (',' expression)* ] ')'.
func (p *parser) parseArgs() ([]Node, error) {
	p.advance() // skip '('
	p.skipWhitespaceAndComments()

	if p.expect(')') {
		return nil, nil
	}

	var args []Node

	for {
		p.skipWhitespaceAndComments()

		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		p.skipWhitespaceAndComments()

		if p.expect(',') {
			continue
		}

		if p.expect(')') {
			return args, nil
		}

		return nil, p.fail(p.position(), p.missing(")"))
	}
}

// parseIdentifier parses an identifier token.
func (p *parser) parseIdentifier() (string, error) {
	start := p.pos

	if p.eof() || !isIdentifierStart(p.peek()) {
		return "", p.fail(p.position(), p.missing("identifier"))
	}

	p.advance()

	for !p.eof() && isIdentifierContinue(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos]), nil
}

// keyword consumes kw if it appears next as a whole word.
func (p *parser) keyword(kw string) bool {
	if p.peekN(len(kw)) != kw {
		return false
	}

	if next := p.pos + len(kw); next < len(p.input) {
		r, _ := utf8.DecodeRune(p.input[next:])
		if isIdentifierContinue(r) {
			return false
		}
	}

	p.pos += len(kw)
	p.col += len(kw)

	return true
}

func (p *parser) fail(pos Position, cause *Error) *Error {
	return ErrParse.WithPosition(pos).WithSource(p.src).Wrap(cause)
}

func (p *parser) missing(token string) *Error {
	return ErrExpected.With(slog.String("expected", token))
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

// peekAt returns the byte at offset n from the current position as a rune.
func (p *parser) peekAt(n int) rune {
	if p.pos+n >= len(p.input) {
		return 0
	}

	return rune(p.input[p.pos+n])
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) skipWhitespaceAndComments() {
	for {
		p.skipWhitespace()

		if p.peekN(2) != "//" {
			return
		}

		for !p.eof() && p.peek() != '\n' {
			p.advance()
		}
	}
}

// Character classification

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}
