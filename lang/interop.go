package lang

// Interop is the capability table through which the interpreter reaches a
// host type system. It is the only place the interpreter touches host types,
// and it assumes nothing about how an implementation introspects them.
//
// Implementations report missing members with [ErrNotFound], instance members
// reached through a bare type with [ErrStaticContext], writes to read-only
// fields with [ErrReadOnly], and arguments that do not fit a member with
// [ErrTypeMismatch]. Any other error, and any panic, is reported to the user
// as [ErrHostFailure].
type Interop interface {
	// ResolveType returns the host type with the given dotted name.
	ResolveType(name string) (*HostTypeRef, bool)

	// ReadField reads a field of the target.
	ReadField(t Target, name string) (Value, error)

	// WriteField writes a field of the target.
	WriteField(t Target, name string, v Value) error

	// FindMethodCandidates returns the methods of the target named name that
	// accept argc arguments, in declaration order.
	FindMethodCandidates(t Target, name string, argc int) []Member

	// Invoke calls method m on the target.
	Invoke(m Member, t Target, args []Value) (Value, error)

	// FindConstructorCandidates returns the constructors of t that accept
	// argc arguments, in declaration order.
	FindConstructorCandidates(t *HostTypeRef, argc int) []Member

	// Construct creates an instance using constructor m.
	Construct(m Member, args []Value) (Value, error)
}

// Member is a host method or constructor.
type Member interface {
	Name() string
	Static() bool
	Params() []ParamType
}

// ParamType describes a parameter slot of a host member.
type ParamType struct {
	Kind     Kind
	TypeName string // host type name required of KindHostValue arguments, if any
}

// Param returns a parameter slot of kind k.
func Param(k Kind) ParamType { return ParamType{Kind: k} }

// HostParam returns a parameter slot accepting instances of the named host
// type.
func HostParam(typeName string) ParamType {
	return ParamType{Kind: KindHostValue, TypeName: typeName}
}

// String returns the kind or host type name of p.
func (p ParamType) String() string {
	if p.TypeName != "" {
		return p.TypeName
	}

	return p.Kind.String()
}

// widening ranks the kinds that widen implicitly: Char to Int64 to Float32
// to Float64.
var widening = map[Kind]int{
	KindChar:    0,
	KindInt64:   1,
	KindFloat32: 2,
	KindFloat64: 3,
}

// Assignable reports whether v may be passed in a slot of type p.
func Assignable(v Value, p ParamType) bool {
	if v == nil {
		return false
	}

	k := v.Kind()

	switch {
	case p.Kind == KindAny:
		return true
	case k == KindNull:
		return !p.Kind.Scalar()
	case k == p.Kind:
		if p.TypeName == "" {
			return true
		}

		r, ok := v.(*HostValueRef)

		return ok && r.TypeName() == p.TypeName
	}

	from, okFrom := widening[k]
	to, okTo := widening[p.Kind]

	return okFrom && okTo && from <= to
}

// Coerce widens v to the kind of p. Values that need no widening are returned
// unchanged.
func Coerce(v Value, p ParamType) Value {
	switch p.Kind {
	case KindInt64:
		if c, ok := v.(Char); ok {
			return Int64(c)
		}
	case KindFloat32:
		switch n := v.(type) {
		case Char:
			return Float32(n)
		case Int64:
			return Float32(n)
		}
	case KindFloat64:
		switch n := v.(type) {
		case Char:
			return Float64(n)
		case Int64:
			return Float64(n)
		case Float32:
			return Float64(n)
		}
	}

	return v
}

// CoerceAll coerces each argument to its parameter slot. It reports false,
// leaving args untouched, if any argument is not assignable.
func CoerceAll(args []Value, params []ParamType) ([]Value, bool) {
	if len(args) != len(params) {
		return nil, false
	}

	for i, a := range args {
		if !Assignable(a, params[i]) {
			return nil, false
		}
	}

	out := make([]Value, len(args))
	for i, a := range args {
		out[i] = Coerce(a, params[i])
	}

	return out, true
}

// noInterop is the Interop of an interpreter configured without a host.
type noInterop struct{}

func (noInterop) ResolveType(string) (*HostTypeRef, bool) { return nil, false }

func (noInterop) ReadField(Target, string) (Value, error) { return nil, ErrNotFound }

func (noInterop) WriteField(Target, string, Value) error { return ErrNotFound }

func (noInterop) FindMethodCandidates(Target, string, int) []Member { return nil }

func (noInterop) Invoke(Member, Target, []Value) (Value, error) { return nil, ErrNotFound }

func (noInterop) FindConstructorCandidates(*HostTypeRef, int) []Member { return nil }

func (noInterop) Construct(Member, []Value) (Value, error) { return nil, ErrNotFound }
