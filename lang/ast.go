package lang

import "strings"

// Node is a statement or expression of a parsed program.
type Node interface {
	Pos() Position

	node()
}

// Literal is a number, string, or char literal.
type Literal struct {
	At    Position
	Value Value
}

// Access is a dotted access path: a variable followed by keys or members.
// The path is never empty.
type Access struct {
	At   Position
	Path []string
}

// Assign stores the result of Value at the location named by Target.
type Assign struct {
	At     Position
	Target *Access
	Value  Node
}

// Call applies Callee to Args.
type Call struct {
	At     Position
	Callee Node
	Args   []Node
}

// TypeRef is a dotted reference to a host type, optionally followed by
// static members: .host.Math.PI.
type TypeRef struct {
	At   Position
	Path []string
}

// FuncLit is a function literal. Variadic is the index of the collector
// parameter, or -1.
type FuncLit struct {
	At       Position
	Params   []string
	Variadic int
	Body     []Node
}

// Return ends the enclosing function call with the result of Value, or with
// [NoValue] if Value is nil.
type Return struct {
	At    Position
	Value Node
}

func (n *Literal) Pos() Position { return n.At }
func (n *Access) Pos() Position  { return n.At }
func (n *Assign) Pos() Position  { return n.At }
func (n *Call) Pos() Position    { return n.At }
func (n *TypeRef) Pos() Position { return n.At }
func (n *FuncLit) Pos() Position { return n.At }
func (n *Return) Pos() Position  { return n.At }

func (*Literal) node() {}
func (*Access) node()  {}
func (*Assign) node()  {}
func (*Call) node()    {}
func (*TypeRef) node() {}
func (*FuncLit) node() {}
func (*Return) node()  {}

// Name returns the dotted path of n.
func (n *Access) Name() string { return strings.Join(n.Path, ".") }

// Name returns the dotted path of n without the leading dot.
func (n *TypeRef) Name() string { return strings.Join(n.Path, ".") }

// Program is a parsed sequence of statements. A Program is never modified
// after parsing and may be shared.
type Program struct {
	Source     string
	Statements []Node
}

// Len returns the number of statements in p.
func (p *Program) Len() int { return len(p.Statements) }
