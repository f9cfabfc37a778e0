package host

import (
	"iter"
	"log/slog"

	"github.com/ardnew/hostscript/lang"
	"github.com/ardnew/hostscript/log"
)

// Registry is a [lang.Interop] built from declared host types.
//
// A Registry is not safe for concurrent modification. Register every type
// before handing the Registry to an interpreter.
type Registry struct {
	types  map[string]*Type
	order  []*Type
	bound  map[lang.Kind]*Type
	logger log.Logger
}

var _ lang.Interop = (*Registry)(nil)

// RegistryOption configures a [Registry].
type RegistryOption func(*Registry)

// WithLogger sets the logger used to trace member resolution.
func WithLogger(logger log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		types: make(map[string]*Type),
		bound: make(map[lang.Kind]*Type),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Register adds types to the registry. Type names must be unique.
func (r *Registry) Register(types ...*Type) error {
	for _, t := range types {
		if _, ok := r.types[t.Name()]; ok {
			return ErrDuplicateType.With(slog.String("type", t.Name()))
		}

		r.types[t.Name()] = t
		r.order = append(r.order, t)

		r.logger.Trace("register type",
			slog.String("type", t.Name()),
			slog.Int("constructors", len(t.ctors)),
			slog.Int("members", len(t.Members())))
	}

	return nil
}

// Bind makes values of a primitive kind instances of the named type, so
// that members of that type can be reached through them.
func (r *Registry) Bind(kind lang.Kind, typeName string) error {
	t, ok := r.types[typeName]
	if !ok {
		return ErrUnknownType.With(slog.String("type", typeName))
	}

	r.bound[kind] = t

	return nil
}

// Lookup returns the type with the given name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.types[name]

	return t, ok
}

// Names returns the names of all types in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, t := range r.order {
		names[i] = t.Name()
	}

	return names
}

// All returns an iterator over all types in registration order.
func (r *Registry) All() iter.Seq[*Type] {
	return func(yield func(*Type) bool) {
		for _, t := range r.order {
			if !yield(t) {
				return
			}
		}
	}
}

// ResolveType implements [lang.Interop].
func (r *Registry) ResolveType(name string) (*lang.HostTypeRef, bool) {
	t, ok := r.types[name]
	if !ok {
		return nil, false
	}

	return t.ref, true
}

// ReadField implements [lang.Interop].
func (r *Registry) ReadField(t lang.Target, name string) (lang.Value, error) {
	f, err := r.fieldOf(t, name)
	if err != nil {
		return nil, err
	}

	return f.get(receiver(t, f.static))
}

// WriteField implements [lang.Interop]. The value is widened to the type of
// the field.
func (r *Registry) WriteField(t lang.Target, name string, v lang.Value) error {
	f, err := r.fieldOf(t, name)
	if err != nil {
		return err
	}

	if f.set == nil {
		return lang.ErrReadOnly.With(slog.String("field", name))
	}

	if !lang.Assignable(v, f.param) {
		return lang.ErrTypeMismatch.With(
			slog.String("field", name),
			slog.String("want", f.param.String()))
	}

	return f.set(receiver(t, f.static), lang.Coerce(v, f.param))
}

// FindMethodCandidates implements [lang.Interop].
func (r *Registry) FindMethodCandidates(
	t lang.Target,
	name string,
	argc int,
) []lang.Member {
	typ := r.typeOf(t)
	if typ == nil {
		return nil
	}

	var out []lang.Member

	for _, m := range typ.methods {
		if m.name == name && len(m.params) == argc {
			out = append(out, m)
		}
	}

	r.logger.Trace("method candidates",
		slog.String("type", typ.Name()),
		slog.String("method", name),
		slog.Int("candidates", len(out)))

	return out
}

// Invoke implements [lang.Interop]. Arguments are widened to the parameter
// types of m.
func (r *Registry) Invoke(
	m lang.Member,
	t lang.Target,
	args []lang.Value,
) (lang.Value, error) {
	method, ok := m.(*Method)
	if !ok {
		return nil, ErrInvalidMember.With(slog.String("member", m.Name()))
	}

	if !method.static && t.Static() {
		return nil, lang.ErrStaticContext.With(slog.String("method", method.name))
	}

	coerced, ok := lang.CoerceAll(args, method.params)
	if !ok {
		return nil, lang.ErrTypeMismatch.With(slog.String("method", method.String()))
	}

	return method.fn(receiver(t, method.static), coerced)
}

// FindConstructorCandidates implements [lang.Interop].
func (r *Registry) FindConstructorCandidates(
	t *lang.HostTypeRef,
	argc int,
) []lang.Member {
	typ, ok := r.types[t.Name]
	if !ok {
		return nil
	}

	var out []lang.Member

	for _, c := range typ.ctors {
		if len(c.params) == argc {
			out = append(out, c)
		}
	}

	return out
}

// Construct implements [lang.Interop]. Arguments that do not fit the
// parameters of m are rejected with [lang.ErrTypeMismatch] before the
// constructor runs.
func (r *Registry) Construct(m lang.Member, args []lang.Value) (lang.Value, error) {
	ctor, ok := m.(*Method)
	if !ok {
		return nil, ErrInvalidMember.With(slog.String("member", m.Name()))
	}

	coerced, ok := lang.CoerceAll(args, ctor.params)
	if !ok {
		return nil, lang.ErrTypeMismatch.With(slog.String("constructor", ctor.String()))
	}

	return ctor.fn(nil, coerced)
}

// typeOf returns the type of the target: the referenced type, or the type
// bound to the kind of a primitive receiver.
func (r *Registry) typeOf(t lang.Target) *Type {
	if t.Type != nil {
		return r.types[t.Type.Name]
	}

	if t.Recv != nil {
		return r.bound[t.Recv.Kind()]
	}

	return nil
}

func (r *Registry) fieldOf(t lang.Target, name string) (*Field, error) {
	typ := r.typeOf(t)
	if typ == nil {
		return nil, lang.ErrNotFound
	}

	f := typ.field(name)
	if f == nil {
		return nil, lang.ErrNotFound
	}

	if !f.static && t.Static() {
		return nil, lang.ErrStaticContext.With(slog.String("field", name))
	}

	return f, nil
}

func receiver(t lang.Target, static bool) lang.Value {
	if static {
		return nil
	}

	return t.Recv
}
