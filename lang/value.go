package lang

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

// Kind enumerates the variants of [Value].
type Kind int

// Value kinds.
const (
	KindNoValue   Kind = iota // novalue
	KindNull                  // null
	KindBool                  // bool
	KindInt64                 // int64
	KindFloat32               // float32
	KindFloat64               // float64
	KindChar                  // char
	KindStr                   // str
	KindSeq                   // seq
	KindClosure               // closure
	KindHostCall              // hostcall
	KindHostType              // hosttype
	KindHostValue             // hostvalue
	KindAny                   // any
)

// Scalar reports whether values of kind k cannot hold Null.
func (k Kind) Scalar() bool {
	switch k {
	case KindBool, KindInt64, KindFloat32, KindFloat64, KindChar:
		return true
	default:
		return false
	}
}

// Value is a runtime value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	String() string

	value()
}

type (
	// Null is the null reference. It is distinct from [NoValue].
	Null struct{}

	// NoValue is the result of a statement that yields nothing displayable.
	NoValue struct{}

	// Bool is a boolean.
	Bool bool

	// Int64 is a 64-bit integer.
	Int64 int64

	// Float32 is a single-precision float, the type of bare decimal literals.
	Float32 float32

	// Float64 is a double-precision float.
	Float64 float64

	// Char is a single character.
	Char rune

	// Str is a string.
	Str string
)

func (Null) Kind() Kind    { return KindNull }
func (NoValue) Kind() Kind { return KindNoValue }
func (Bool) Kind() Kind    { return KindBool }
func (Int64) Kind() Kind   { return KindInt64 }
func (Float32) Kind() Kind { return KindFloat32 }
func (Float64) Kind() Kind { return KindFloat64 }
func (Char) Kind() Kind    { return KindChar }
func (Str) Kind() Kind     { return KindStr }

func (Null) String() string      { return "null" }
func (NoValue) String() string   { return "" }
func (v Bool) String() string    { return strconv.FormatBool(bool(v)) }
func (v Int64) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float32) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func (v Float64) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Char) String() string    { return string(rune(v)) }
func (v Str) String() string     { return string(v) }

func (Null) value()    {}
func (NoValue) value() {}
func (Bool) value()    {}
func (Int64) value()   {}
func (Float32) value() {}
func (Float64) value() {}
func (Char) value()    {}
func (Str) value()     {}

// Keyed is implemented by containers whose access path segments are keys
// rather than host members.
type Keyed interface {
	// Get returns the value stored under key.
	Get(key string) (Value, error)
	// Put stores v under key.
	Put(key string, v Value) error
}

// Seq is an ordered sequence of values. Variadic parameters collect their
// arguments into a Seq. Path segments index it by decimal position.
type Seq struct {
	Items []Value
}

// NewSeq returns a sequence holding items.
func NewSeq(items ...Value) *Seq {
	return &Seq{Items: items}
}

func (*Seq) Kind() Kind { return KindSeq }
func (*Seq) value()     {}

func (s *Seq) String() string {
	var sb strings.Builder

	sb.WriteByte('[')

	for i, v := range s.Items {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(v.String())
	}

	sb.WriteByte(']')

	return sb.String()
}

// Len returns the number of items in s.
func (s *Seq) Len() int { return len(s.Items) }

// Get returns the item at the decimal index key.
func (s *Seq) Get(key string) (Value, error) {
	i, err := s.index(key)
	if err != nil {
		return nil, err
	}

	return s.Items[i], nil
}

// Put replaces the item at the decimal index key.
func (s *Seq) Put(key string, v Value) error {
	i, err := s.index(key)
	if err != nil {
		return err
	}

	s.Items[i] = v

	return nil
}

func (s *Seq) index(key string) (int, error) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= len(s.Items) {
		return 0, ErrKeyNotFound.With(
			slog.String("key", key),
			slog.Int("length", len(s.Items)),
		)
	}

	return i, nil
}

// Closure is a user-defined function. It holds no reference to the frame
// that was active where it was defined.
type Closure struct {
	Body     []Node
	Params   []string
	Variadic int // index of the collector parameter, or -1
}

func (*Closure) Kind() Kind { return KindClosure }
func (*Closure) value()     {}

func (c *Closure) String() string {
	return "<closure" + formatParams(c.Params, c.Variadic) + ">"
}

// Target is the subject of a host member operation: a bare type (static
// context) or a receiver value (instance context).
type Target struct {
	Type *HostTypeRef // nil if the receiver's type is resolved by the Interop
	Recv Value        // nil in static context
}

// Static reports whether t has no receiver.
func (t Target) Static() bool { return t.Recv == nil }

// String returns the type name or receiver description of t.
func (t Target) String() string {
	switch {
	case t.Type != nil:
		return t.Type.Name
	case t.Recv != nil:
		return t.Recv.Kind().String()
	default:
		return "<nil>"
	}
}

func targetOf(v Value) Target {
	switch v := v.(type) {
	case *HostTypeRef:
		return Target{Type: v}
	case *HostValueRef:
		return Target{Type: v.Type, Recv: v}
	default:
		return Target{Recv: v}
	}
}

// HostCallRef is a method reference whose overload is chosen at call time.
type HostCallRef struct {
	Target Target
	Name   string
}

func (*HostCallRef) Kind() Kind { return KindHostCall }
func (*HostCallRef) value()     {}

func (r *HostCallRef) String() string {
	return "<method " + r.Target.String() + "." + r.Name + ">"
}

// HostTypeRef is a handle to a host type. Calling it constructs an instance;
// accessing it reaches static members.
type HostTypeRef struct {
	Name   string
	Handle any // owned by the Interop that resolved it
}

func (*HostTypeRef) Kind() Kind { return KindHostType }
func (*HostTypeRef) value()     {}

func (r *HostTypeRef) String() string { return "<type " + r.Name + ">" }

// HostValueRef is an instance of a host type.
type HostValueRef struct {
	Type   *HostTypeRef
	Object any
}

func (*HostValueRef) Kind() Kind { return KindHostValue }
func (*HostValueRef) value()     {}

func (r *HostValueRef) String() string {
	if s, ok := r.Object.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprint(r.Object)
}

// TypeName returns the name of the host type of r.
func (r *HostValueRef) TypeName() string {
	if r.Type == nil {
		return ""
	}

	return r.Type.Name
}

// Display renders v for printing. It reports false for [NoValue], which is
// never printed.
func Display(v Value) (string, bool) {
	if v == nil || v.Kind() == KindNoValue {
		return "", false
	}

	return v.String(), true
}

// keyedOf returns the Keyed view of v, if any. Host objects are keyed when
// their underlying object is.
func keyedOf(v Value) (Keyed, bool) {
	if k, ok := v.(Keyed); ok {
		return k, true
	}

	if r, ok := v.(*HostValueRef); ok {
		k, ok := r.Object.(Keyed)

		return k, ok
	}

	return nil, false
}

func formatParams(params []string, variadic int) string {
	var sb strings.Builder

	sb.WriteByte('(')

	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}

		if i == variadic {
			sb.WriteString("...")
		}

		sb.WriteString(p)
	}

	sb.WriteByte(')')

	return sb.String()
}
