package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func newTestInterpreter(opts ...Option) (*Interpreter, *fakeInterop) {
	f := newFakeInterop()

	return New(append([]Option{WithInterop(f)}, opts...)...), f
}

func TestExec_Results(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"int literal", `5;`, "5"},
		{"long literal", `5L;`, "5"},
		{"float32 literal", `1.5;`, "1.5"},
		{"float64 literal", `1.5D;`, "1.5"},
		{"char literal", `'c';`, "c"},
		{"string literal", `"hi";`, "hi"},
		{"define then read", `x = 5; x;`, "5"},
		{"last statement wins", `x = 3; y = 4; x;`, "3"},
		{"assignment yields value", `x = 7;`, "7"},
		{"chained assignment", `a = b = 2; b;`, "2"},
		{"predefined null", `null;`, "null"},
		{"predefined true", `t = true; t;`, "true"},
		{"closure first param", `f = (a, b) { a; }; f(1, 2);`, "1"},
		{"variadic capture", `(a, ...r){ r; }(1, 2, 3);`, "[2, 3]"},
		{"variadic empty", `(a, ...r){ r; }(1);`, "[]"},
		{"variadic only", `(...r){ r; }();`, "[]"},
		{"seq index", `r = (...r){ r; }("x", "y"); r.1;`, "y"},
		{"seq index assign", `r = (...r){ r; }(1, 2); r.0 = 9; r;`, "[9, 2]"},
		{"explicit return", `f = (a) { return a; "unreached"; }; f(4);`, "4"},
		{"top level return", `return 8; 9;`, "9"},
		{"return in nested call", `g = (x) { return x; }; f = () { g(1); 2; }; f();`, "2"},
		{"closure called by closure", `inc = (n) { n; }; twice = (f, v) { f(v); }; twice(inc, 6);`, "6"},
		{"globals visible in frame", `g = 10; f = () { g; }; f();`, "10"},
		{"closure as argument", `f = (n) { n; }; f(f);`, "<closure(n)>"},
		{"host constructor", `w = .test.Widget("w1"); w.name;`, "w1"},
		{"host field write", `w = .test.Widget("w1"); w.name = "w2"; w.name;`, "w2"},
		{"static field", `.test.Widget.count;`, "3"},
		{"longest type prefix", `.test.Widget.Inner.depth;`, "2"},
		{"static method", `w = .test.Widget.make("m"); w.name;`, "m"},
		{"static method via instance", `w = .test.Widget("a"); w.make("b");`, "widget(b)"},
		{"instance method", `w = .test.Widget("a"); w.rename("b"); w.name;`, "b"},
		{"keyed missing", `b = .test.Bag(); b.missing;`, "null"},
		{"keyed put", `b = .test.Bag(); b.k = 1; b.k;`, "1"},
		{"keyed nested", `b = .test.Bag(); b.w = .test.Widget("in"); b.w.name = "out"; b.w.name;`, "out"},
		{"method reference value", `w = .test.Widget("a"); m = w.pick; m(1);`, "int:int64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := newTestInterpreter()

			got, err := in.Exec(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("Exec(%q) error: %v", tt.input, err)
			}

			if s, _ := Display(got); s != tt.want {
				t.Errorf("Exec(%q) = %q, want %q", tt.input, s, tt.want)
			}
		})
	}
}

func TestExec_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unbound variable", `nope;`, ErrVariableNotFound},
		{"missing container", `a.b = 1;`, ErrContainerNotFound},
		{"missing nested container", `b = .test.Bag(); b.x.y = 1;`, ErrContainerNotFound},
		{"arity too few", `f = (a, b) { a; }; f(1);`, ErrArity},
		{"arity too many", `f = (a, b) { a; }; f(1, 2, 3);`, ErrArity},
		{"variadic too few", `f = (a, b, ...r) { a; }; f(1);`, ErrArity},
		{"call non-function", `x = 5; x();`, ErrNotCallable},
		{"call string", `"s"();`, ErrNotCallable},
		{"null dereference", `n = null; n.x;`, ErrNullDereference},
		{"seq index out of range", `r = (...r){ r; }(1); r.1;`, ErrKeyNotFound},
		{"seq index not numeric", `r = (...r){ r; }(1); r.x;`, ErrKeyNotFound},
		{"type not found", `.no.such.Type;`, ErrTypeNotFound},
		{"static context", `.test.Widget.name;`, ErrStaticContext},
		{"static context write", `t = .test.Widget; t.name = "x";`, ErrStaticContext},
		{"read-only static", `t = .test.Widget; t.count = 1;`, ErrReadOnly},
		{"interior method", `w = .test.Widget("a"); w.pick.x;`, ErrMemberNotFound},
		{"unknown field write", `w = .test.Widget("a"); w.nope = 1;`, ErrMemberNotFound},
		{"no matching method", `w = .test.Widget("a"); w.pick(1, 2);`, ErrNoMatchingMethod},
		{"unknown method", `w = .test.Widget("a"); w.nope();`, ErrNoMatchingMethod},
		{"instance method from static", `.test.Widget.pick(1);`, ErrNoMatchingMethod},
		{"no matching constructor", `.test.Widget(true);`, ErrNoMatchingCtor},
		{"constructor arity", `.test.Widget();`, ErrNoMatchingCtor},
		{"host panic", `w = .test.Widget("a"); w.boom();`, ErrHostFailure},
		{"host error", `w = .test.Widget("a"); w.fail();`, ErrHostFailure},
		{"method on primitive", `x = 1; x.foo();`, ErrNoMatchingMethod},
		{"parse error", `x = ;`, ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := newTestInterpreter()

			_, err := in.Exec(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Exec(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			if in.Environment().Depth() != 0 {
				t.Errorf("frames leaked: depth %d", in.Environment().Depth())
			}
		})
	}
}

func TestExec_HostFailureCause(t *testing.T) {
	in, _ := newTestInterpreter()

	_, err := in.Exec(t.Context(), `w = .test.Widget("a"); w.fail();`)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("host failure should carry its cause, got %v", err)
	}

	_, err = in.Exec(t.Context(), `w.boom();`)
	if err == nil || !strings.Contains(err.Error(), "panic: boom") {
		t.Errorf("host panic should carry its value, got %v", err)
	}
}

func TestExec_ContinuesAfterError(t *testing.T) {
	in, _ := newTestInterpreter()

	if _, err := in.Exec(t.Context(), `x = 1; f = () { y = 2; nope; }; f();`); err == nil {
		t.Fatal("expected error")
	}

	// Effects before the failure are kept.
	got, err := in.Exec(t.Context(), `x;`)
	if err != nil || got != Int64(1) {
		t.Fatalf("x = %v, %v", got, err)
	}

	// The failed call's frame was released: y was local to it.
	if _, err := in.Exec(t.Context(), `y;`); !errors.Is(err, ErrVariableNotFound) {
		t.Errorf("y should not be visible, got %v", err)
	}
}

func TestExec_FrameIsolation(t *testing.T) {
	in, _ := newTestInterpreter()

	src := `
		outer = () {
			local = "outer";
			inner = (a) { local; };
			inner(1);
		};
		outer();`

	_, err := in.Exec(t.Context(), src)
	if !errors.Is(err, ErrVariableNotFound) {
		t.Fatalf("inner closure must not see caller frame, got %v", err)
	}

	src = `f = (a, b) { a; }; f(1, 2); a;`

	if _, err := in.Exec(t.Context(), src); !errors.Is(err, ErrVariableNotFound) {
		t.Errorf("parameters must not be visible after the call, got %v", err)
	}

	src = `g = 1; f = () { g = 2; }; f(); g;`

	got, err := in.Exec(t.Context(), src)
	if err != nil || got != Int64(1) {
		t.Errorf("assignment in a frame changed a global: %v, %v", got, err)
	}
}

func TestExec_EvaluationOrder(t *testing.T) {
	in, f := newTestInterpreter()

	// The right-hand side runs before the target path is walked.
	_, err := in.Exec(t.Context(), `a.b = .test.Widget("x");`)
	if !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("error = %v", err)
	}

	if !slices.Equal(f.calls, []string{"ctor(str)"}) {
		t.Errorf("calls = %v, want constructor before failure", f.calls)
	}

	// Arguments run left to right, after the callee.
	f.calls = nil

	_, err = in.Exec(t.Context(),
		`w = .test.Widget("x"); w.apply(w.pick(1), w.pick(2.5D));`)
	if !errors.Is(err, ErrNoMatchingMethod) {
		t.Fatalf("error = %v", err)
	}

	want := []string{"ctor(str)", "pick:int", "pick:float"}
	if !slices.Equal(f.calls, want) {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
}

func TestExec_OverloadDeterminism(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{`1`, "int:int64"},
		{`'c'`, "int:int64"},
		{`1.5`, "float:float64"},
		{`1.5D`, "float:float64"},
		{`"s"`, "any:str"},
		{`null`, "any:null"},
		{`true`, "any:bool"},
	}

	in, _ := newTestInterpreter()

	if _, err := in.Exec(t.Context(), `w = .test.Widget("a");`); err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			for range 5 {
				got, err := in.Exec(t.Context(), `w.pick(`+tt.arg+`);`)
				if err != nil {
					t.Fatalf("pick(%s) error: %v", tt.arg, err)
				}

				if got != Str(tt.want) {
					t.Fatalf("pick(%s) = %v, want %s", tt.arg, got, tt.want)
				}
			}
		})
	}
}

func TestExec_ConstructorFallback(t *testing.T) {
	in, f := newTestInterpreter()

	got, err := in.Exec(t.Context(), `w = .test.Widget(42); w.name;`)
	if err != nil {
		t.Fatalf("construction should fall back to the second constructor: %v", err)
	}

	if got != Str("#42") {
		t.Errorf("name = %v, want #42", got)
	}

	want := []string{"ctor(str)", "ctor(int64)"}
	if !slices.Equal(f.calls, want) {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
}

func TestExec_StrictReturn(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		display bool
	}{
		{`f = (a, b) { a; }; f(1, 2);`, "", false},
		{`f = (a, b) { return a; }; f(1, 2);`, "1", true},
		{`(a, ...r){ return r; }(1, 2, 3);`, "[2, 3]", true},
		{`f = () { return; }; f();`, "", false},
		{`5;`, "5", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			in, _ := newTestInterpreter(WithStrictReturn())

			got, err := in.Exec(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("Exec error: %v", err)
			}

			s, ok := Display(got)
			if ok != tt.display || s != tt.want {
				t.Errorf("Display = %q, %v; want %q, %v", s, ok, tt.want, tt.display)
			}
		})
	}
}

func TestExec_NoValueResults(t *testing.T) {
	in, _ := newTestInterpreter()

	for _, src := range []string{``, `f = () {}; f();`, `return;`, `w = .test.Widget("a"); w.rename("b");`} {
		got, err := in.Exec(t.Context(), src)
		if err != nil {
			t.Fatalf("Exec(%q) error: %v", src, err)
		}

		if _, ok := Display(got); ok {
			t.Errorf("Exec(%q) = %v, want NoValue", src, got)
		}
	}
}

func TestExec_MaxDepth(t *testing.T) {
	in, _ := newTestInterpreter(WithMaxDepth(16))

	_, err := in.Exec(t.Context(), `f = (g) { g(g); }; f(f);`)
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("error = %v, want ErrMaxDepth", err)
	}

	if in.Environment().Depth() != 0 {
		t.Errorf("frames leaked: depth %d", in.Environment().Depth())
	}
}

func TestExec_WithoutInterop(t *testing.T) {
	in := New()

	if _, err := in.Exec(t.Context(), `.host.String("x");`); !errors.Is(err, ErrTypeNotFound) {
		t.Errorf("error = %v, want ErrTypeNotFound", err)
	}

	got, err := in.Exec(t.Context(), `x = "s"; x.length;`)
	if err != nil {
		t.Fatalf("Exec error: %v", err)
	}

	if _, ok := got.(*HostCallRef); !ok {
		t.Errorf("unresolved final segment = %T, want *HostCallRef", got)
	}
}

func TestInterpreter_Call(t *testing.T) {
	in, _ := newTestInterpreter()

	fn, err := in.Exec(t.Context(), `(a, b) { b; };`)
	if err != nil {
		t.Fatal(err)
	}

	got, err := in.Call(t.Context(), fn, Int64(1), Str("two"))
	if err != nil || got != Str("two") {
		t.Errorf("Call() = %v, %v", got, err)
	}

	if _, err := in.Call(t.Context(), Int64(1)); !errors.Is(err, ErrNotCallable) {
		t.Errorf("Call(non-function) error = %v", err)
	}
}

func TestInterpreter_Reset(t *testing.T) {
	in, _ := newTestInterpreter()

	if _, err := in.Exec(t.Context(), `x = 1; null = 2;`); err != nil {
		t.Fatal(err)
	}

	in.Reset()

	if _, err := in.Exec(t.Context(), `x;`); !errors.Is(err, ErrVariableNotFound) {
		t.Errorf("x survived Reset: %v", err)
	}

	if got, _ := in.Exec(t.Context(), `null;`); got != (Null{}) {
		t.Errorf("null = %v after Reset", got)
	}
}
