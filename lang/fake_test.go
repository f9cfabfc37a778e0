package lang

import (
	"errors"
	"strings"
)

// fakeMember is a method or constructor of fakeInterop.
type fakeMember struct {
	name   string
	static bool
	params []ParamType
	fn     func(t Target, args []Value) (Value, error)
}

func (m *fakeMember) Name() string        { return m.name }
func (m *fakeMember) Static() bool        { return m.static }
func (m *fakeMember) Params() []ParamType { return m.params }

// widget is the object held by instances of test.Widget.
type widget struct {
	fields map[string]Value
}

func (w *widget) String() string { return "widget(" + w.fields["name"].String() + ")" }

// fakeInterop exposes a handful of host types:
//
//	test.Widget        ctors (Str), (Int64); static field count; instance
//	                   field name; overloaded method pick; static make;
//	                   methods boom (panics) and fail (errors)
//	test.Widget.Inner  static field depth
//	test.Bag           keyed instances
type fakeInterop struct {
	types   map[string]*HostTypeRef
	statics map[string]Value
	methods map[string][]*fakeMember
	ctors   map[string][]*fakeMember
	calls   []string
}

func newFakeInterop() *fakeInterop {
	f := &fakeInterop{
		types:   make(map[string]*HostTypeRef),
		statics: make(map[string]Value),
		methods: make(map[string][]*fakeMember),
		ctors:   make(map[string][]*fakeMember),
	}

	for _, name := range []string{"test.Widget", "test.Widget.Inner", "test.Bag"} {
		f.types[name] = &HostTypeRef{Name: name}
	}

	f.statics["test.Widget.count"] = Int64(3)
	f.statics["test.Widget.Inner.depth"] = Int64(2)

	newWidget := func(name Value) Value {
		return &HostValueRef{
			Type:   f.types["test.Widget"],
			Object: &widget{fields: map[string]Value{"name": name}},
		}
	}

	f.ctors["test.Widget"] = []*fakeMember{
		{
			name:   "<init>",
			params: []ParamType{Param(KindStr)},
			fn:     func(_ Target, args []Value) (Value, error) {
				f.calls = append(f.calls, "ctor(str)")

				if _, ok := args[0].(Str); !ok {
					return nil, ErrTypeMismatch
				}

				return newWidget(args[0]), nil
			},
		},
		{
			name:   "<init>",
			params: []ParamType{Param(KindInt64)},
			fn:     func(_ Target, args []Value) (Value, error) {
				f.calls = append(f.calls, "ctor(int64)")

				if _, ok := args[0].(Int64); !ok {
					return nil, ErrTypeMismatch
				}

				return newWidget(Str("#" + args[0].String())), nil
			},
		},
	}

	f.ctors["test.Bag"] = []*fakeMember{
		{
			name: "<init>",
			fn:   func(Target, []Value) (Value, error) {
				return &HostValueRef{Type: f.types["test.Bag"], Object: &bag{}}, nil
			},
		},
	}

	pick := func(tag string) func(Target, []Value) (Value, error) {
		return func(_ Target, args []Value) (Value, error) {
			f.calls = append(f.calls, "pick:"+tag)

			return Str(tag + ":" + args[0].Kind().String()), nil
		}
	}

	f.methods["test.Widget"] = []*fakeMember{
		{name: "pick", params: []ParamType{Param(KindInt64)}, fn: pick("int")},
		{name: "pick", params: []ParamType{Param(KindFloat64)}, fn: pick("float")},
		{name: "pick", params: []ParamType{Param(KindAny)}, fn: pick("any")},
		{name: "pick", params: []ParamType{Param(KindStr)}, fn: pick("str")},
		{
			name:   "make",
			static: true,
			params: []ParamType{Param(KindStr)},
			fn:     func(_ Target, args []Value) (Value, error) {
				return newWidget(args[0]), nil
			},
		},
		{
			name:   "rename",
			params: []ParamType{Param(KindStr)},
			fn:     func(t Target, args []Value) (Value, error) {
				t.Recv.(*HostValueRef).Object.(*widget).fields["name"] = args[0]

				return nil, nil
			},
		},
		{
			name: "boom",
			fn:   func(Target, []Value) (Value, error) {
				panic("boom")
			},
		},
		{
			name: "fail",
			fn:   func(Target, []Value) (Value, error) {
				return nil, errors.New("disk full")
			},
		},
		{
			name:   "apply",
			params: []ParamType{Param(KindClosure), Param(KindAny)},
			fn:     func(Target, []Value) (Value, error) {
				return Str("host applied"), nil
			},
		},
	}

	return f
}

func (f *fakeInterop) ResolveType(name string) (*HostTypeRef, bool) {
	t, ok := f.types[name]

	return t, ok
}

func (f *fakeInterop) ReadField(t Target, name string) (Value, error) {
	if t.Type == nil {
		return nil, ErrNotFound
	}

	if v, ok := f.statics[t.Type.Name+"."+name]; ok {
		return v, nil
	}

	if name == "name" && t.Type.Name == "test.Widget" {
		if t.Static() {
			return nil, ErrStaticContext
		}

		return t.Recv.(*HostValueRef).Object.(*widget).fields["name"], nil
	}

	return nil, ErrNotFound
}

func (f *fakeInterop) WriteField(t Target, name string, v Value) error {
	if t.Type == nil {
		return ErrNotFound
	}

	if _, ok := f.statics[t.Type.Name+"."+name]; ok {
		return ErrReadOnly
	}

	if name == "name" && t.Type.Name == "test.Widget" {
		if t.Static() {
			return ErrStaticContext
		}

		t.Recv.(*HostValueRef).Object.(*widget).fields["name"] = v

		return nil
	}

	return ErrNotFound
}

func (f *fakeInterop) FindMethodCandidates(t Target, name string, argc int) []Member {
	if t.Type == nil {
		return nil
	}

	var out []Member

	for _, m := range f.methods[t.Type.Name] {
		if m.name == name && len(m.params) == argc {
			out = append(out, m)
		}
	}

	return out
}

func (f *fakeInterop) Invoke(m Member, t Target, args []Value) (Value, error) {
	return m.(*fakeMember).fn(t, args)
}

func (f *fakeInterop) FindConstructorCandidates(t *HostTypeRef, argc int) []Member {
	var out []Member

	for _, m := range f.ctors[t.Name] {
		if len(m.params) == argc {
			out = append(out, m)
		}
	}

	return out
}

func (f *fakeInterop) Construct(m Member, args []Value) (Value, error) {
	return m.(*fakeMember).fn(Target{}, args)
}

// bag is a keyed host object. Missing keys read as Null.
type bag struct {
	keys []string
	vals map[string]Value
}

func (b *bag) Get(key string) (Value, error) {
	if v, ok := b.vals[key]; ok {
		return v, nil
	}

	return Null{}, nil
}

func (b *bag) Put(key string, v Value) error {
	if b.vals == nil {
		b.vals = make(map[string]Value)
	}

	if _, ok := b.vals[key]; !ok {
		b.keys = append(b.keys, key)
	}

	b.vals[key] = v

	return nil
}

func (b *bag) String() string {
	parts := make([]string, len(b.keys))
	for i, k := range b.keys {
		parts[i] = k + ":" + b.vals[k].String()
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
