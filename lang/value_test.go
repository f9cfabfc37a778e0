package lang

import (
	"errors"
	"testing"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		kind  Kind
		want  string
	}{
		{"null", Null{}, KindNull, "null"},
		{"bool", Bool(true), KindBool, "true"},
		{"int64", Int64(-42), KindInt64, "-42"},
		{"float32", Float32(1.5), KindFloat32, "1.5"},
		{"float32 rounding", Float32(0.1), KindFloat32, "0.1"},
		{"float64", Float64(2.25), KindFloat64, "2.25"},
		{"char", Char('x'), KindChar, "x"},
		{"str", Str("hi"), KindStr, "hi"},
		{"seq", NewSeq(Int64(2), Int64(3)), KindSeq, "[2, 3]"},
		{"empty seq", NewSeq(), KindSeq, "[]"},
		{
			"closure",
			&Closure{Params: []string{"a", "r"}, Variadic: 1},
			KindClosure,
			"<closure(a, ...r)>",
		},
		{"type", &HostTypeRef{Name: "host.Point"}, KindHostType, "<type host.Point>"},
		{
			"method",
			&HostCallRef{Target: Target{Type: &HostTypeRef{Name: "host.Math"}}, Name: "max"},
			KindHostCall,
			"<method host.Math.max>",
		},
		{"host value", &HostValueRef{Object: "hi"}, KindHostValue, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}

			if got := tt.value.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNoValue, "novalue"},
		{KindInt64, "int64"},
		{KindHostValue, "hostvalue"},
		{KindAny, "any"},
		{Kind(99), "Kind(99)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	if _, ok := Display(NoValue{}); ok {
		t.Error("NoValue must not be displayed")
	}

	if _, ok := Display(nil); ok {
		t.Error("nil must not be displayed")
	}

	got, ok := Display(Null{})
	if !ok || got != "null" {
		t.Errorf("Display(Null) = %q, %v; want \"null\", true", got, ok)
	}
}

func TestSeq_Keyed(t *testing.T) {
	s := NewSeq(Str("a"), Str("b"))

	v, err := s.Get("1")
	if err != nil || v != Str("b") {
		t.Fatalf("Get(1) = %v, %v", v, err)
	}

	if err := s.Put("0", Int64(7)); err != nil {
		t.Fatalf("Put(0) error: %v", err)
	}

	if s.Items[0] != Int64(7) {
		t.Errorf("Put did not replace item: %v", s)
	}

	for _, key := range []string{"2", "-1", "x", ""} {
		if _, err := s.Get(key); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrKeyNotFound", key, err)
		}
	}

	if err := s.Put("5", Null{}); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Put(5) error = %v, want ErrKeyNotFound", err)
	}
}

func TestTarget(t *testing.T) {
	typ := &HostTypeRef{Name: "host.Point"}
	obj := &HostValueRef{Type: typ}

	tests := []struct {
		name   string
		value  Value
		static bool
		typ    *HostTypeRef
	}{
		{"type", typ, true, typ},
		{"host value", obj, false, typ},
		{"primitive", Str("s"), false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := targetOf(tt.value)

			if got.Static() != tt.static {
				t.Errorf("Static() = %v, want %v", got.Static(), tt.static)
			}

			if got.Type != tt.typ {
				t.Errorf("Type = %v, want %v", got.Type, tt.typ)
			}
		})
	}
}
