package host

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/hostscript/lang"
)

// Func implements a host method or constructor. Static methods and
// constructors receive a nil receiver. A nil result is reported to scripts
// as no value.
type Func func(recv lang.Value, args []lang.Value) (lang.Value, error)

// Getter reads a field. Static fields receive a nil receiver.
type Getter func(recv lang.Value) (lang.Value, error)

// Setter writes a field. Static fields receive a nil receiver.
type Setter func(recv lang.Value, v lang.Value) error

// Field is a field of a host [Type].
type Field struct {
	name   string
	static bool
	param  lang.ParamType
	get    Getter
	set    Setter
}

// Name returns the name of the field.
func (f *Field) Name() string { return f.name }

// Static reports whether the field belongs to the type rather than its
// instances.
func (f *Field) Static() bool { return f.static }

// ReadOnly reports whether the field has no setter.
func (f *Field) ReadOnly() bool { return f.set == nil }

// Method is a method or constructor of a host [Type]. It implements
// [lang.Member].
type Method struct {
	name   string
	static bool
	params []lang.ParamType
	fn     Func
}

func (m *Method) Name() string             { return m.name }
func (m *Method) Static() bool             { return m.static }
func (m *Method) Params() []lang.ParamType { return m.params }

// String returns the signature of m, e.g. "indexOf(str, int64)".
func (m *Method) String() string {
	parts := make([]string, len(m.params))
	for i, p := range m.params {
		parts[i] = p.String()
	}

	return m.name + "(" + strings.Join(parts, ", ") + ")"
}

// constructorName is the member name shared by all constructors.
const constructorName = "<init>"

// Type is a host type declared with [Define]. Members are kept in declaration
// order, which decides overload resolution.
type Type struct {
	ref     *lang.HostTypeRef
	fields  []*Field
	methods []*Method
	ctors   []*Method
}

// Option configures a [Type].
type Option func(*Type)

// Define declares a host type with the given dotted name.
func Define(name string, opts ...Option) *Type {
	t := &Type{ref: &lang.HostTypeRef{Name: name}}
	t.ref.Handle = t

	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	return t
}

// Name returns the dotted name of t.
func (t *Type) Name() string { return t.ref.Name }

// Ref returns the reference scripts hold to t.
func (t *Type) Ref() *lang.HostTypeRef { return t.ref }

// New wraps obj as an instance of t.
func (t *Type) New(obj any) *lang.HostValueRef {
	return &lang.HostValueRef{Type: t.ref, Object: obj}
}

// Param returns a parameter slot accepting instances of t.
func (t *Type) Param() lang.ParamType { return lang.HostParam(t.ref.Name) }

// Members returns the sorted, distinct names of the fields and methods of t.
func (t *Type) Members() []string {
	names := make([]string, 0, len(t.fields)+len(t.methods))

	for _, f := range t.fields {
		names = append(names, f.name)
	}

	for _, m := range t.methods {
		names = append(names, m.name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// Methods returns the methods of t named name, in declaration order.
func (t *Type) Methods(name string) []*Method {
	var out []*Method

	for _, m := range t.methods {
		if m.name == name {
			out = append(out, m)
		}
	}

	return out
}

// Constructors returns the constructors of t in declaration order.
func (t *Type) Constructors() []*Method { return slices.Clone(t.ctors) }

func (t *Type) field(name string) *Field {
	for _, f := range t.fields {
		if f.name == name {
			return f
		}
	}

	return nil
}

// WithField declares an instance field. A nil set makes the field read-only.
func WithField(name string, p lang.ParamType, get Getter, set Setter) Option {
	return func(t *Type) {
		t.fields = append(t.fields, &Field{name: name, param: p, get: get, set: set})
	}
}

// WithStaticField declares a static field. A nil set makes the field
// read-only.
func WithStaticField(name string, p lang.ParamType, get Getter, set Setter) Option {
	return func(t *Type) {
		t.fields = append(t.fields, &Field{
			name:   name,
			static: true,
			param:  p,
			get:    get,
			set:    set,
		})
	}
}

// WithConst declares a read-only static field holding v.
func WithConst(name string, v lang.Value) Option {
	return WithStaticField(name, lang.Param(v.Kind()),
		func(lang.Value) (lang.Value, error) { return v, nil }, nil)
}

// WithMethod declares an instance method. Methods sharing a name are
// overloads, tried in declaration order.
func WithMethod(name string, params []lang.ParamType, fn Func) Option {
	return func(t *Type) {
		t.methods = append(t.methods, &Method{name: name, params: params, fn: fn})
	}
}

// WithStaticMethod declares a static method.
func WithStaticMethod(name string, params []lang.ParamType, fn Func) Option {
	return func(t *Type) {
		t.methods = append(t.methods, &Method{
			name:   name,
			static: true,
			params: params,
			fn:     fn,
		})
	}
}

// WithConstructor declares a constructor. Constructors are tried in
// declaration order.
func WithConstructor(params []lang.ParamType, fn Func) Option {
	return func(t *Type) {
		t.ctors = append(t.ctors, &Method{
			name:   constructorName,
			static: true,
			params: params,
			fn:     fn,
		})
	}
}

// Params returns a parameter slot for each kind.
func Params(kinds ...lang.Kind) []lang.ParamType {
	out := make([]lang.ParamType, len(kinds))
	for i, k := range kinds {
		out[i] = lang.Param(k)
	}

	return out
}

// Object returns the host object held by v if it has type T.
func Object[T any](v lang.Value) (T, error) {
	var zero T

	ref, ok := v.(*lang.HostValueRef)
	if !ok {
		return zero, lang.ErrTypeMismatch.With(slog.String("value", kindOf(v)))
	}

	obj, ok := ref.Object.(T)
	if !ok {
		return zero, lang.ErrTypeMismatch.With(slog.String("value", ref.TypeName()))
	}

	return obj, nil
}

func kindOf(v lang.Value) string {
	if v == nil {
		return "<nil>"
	}

	return v.Kind().String()
}
