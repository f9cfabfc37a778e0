package lang

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  NewError("something failed"),
			want: "something failed",
		},
		{
			name: "with wrapped error",
			err:  NewError("operation failed").Wrap(NewError("inner error")),
			want: "operation failed: inner error",
		},
		{
			name: "empty message with wrapped",
			err:  (&Error{}).Wrap(NewError("inner")),
			want: "inner",
		},
		{
			name: "with attributes",
			err:  ErrVariableNotFound.With(slog.String("name", "x")),
			want: "variable not found (name=x)",
		},
		{
			name: "with position",
			err: ErrParse.WithPosition(Position{Line: 2, Column: 5}).
				Wrap(ErrExpected.With(slog.String("expected", ";"))),
			want: "parse error at 2:5: missing token (expected=;)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_With(t *testing.T) {
	base := NewError("test error")
	withAttr := base.With(slog.String("key", "value"))

	// Original should be unchanged
	if len(base.attrs) != 0 {
		t.Error("base error should have no attributes")
	}

	if len(withAttr.attrs) != 1 {
		t.Errorf("expected 1 attribute, got %d", len(withAttr.attrs))
	}

	// Deriving twice from the same error must not share storage.
	a := withAttr.With(slog.Int("a", 1))
	b := withAttr.With(slog.Int("b", 2))

	if a.attrs[1].Key != "a" || b.attrs[1].Key != "b" {
		t.Errorf("derived errors share attributes: %v / %v", a.attrs, b.attrs)
	}
}

func TestError_Is(t *testing.T) {
	derived := ErrArity.With(slog.Int("args", 1)).WithPosition(Position{Line: 1})

	if !errors.Is(derived, ErrArity) {
		t.Error("derived error should match its sentinel")
	}

	if errors.Is(derived, ErrParse) {
		t.Error("derived error should not match an unrelated sentinel")
	}

	wrapped := ErrHostFailure.Wrap(ErrTypeMismatch)
	if !errors.Is(wrapped, ErrHostFailure) || !errors.Is(wrapped, ErrTypeMismatch) {
		t.Error("errors.Is should match both the sentinel and the cause")
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := NewError("inner")
	outer := NewError("outer").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap should return inner error")
	}

	if !errors.Is(outer, inner) {
		t.Error("errors.Is should find inner error")
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps standard error", func(t *testing.T) {
		stdErr := errors.New("standard error")

		wrapped := WrapError(stdErr)
		if wrapped.err != stdErr || !errors.Is(wrapped, ErrHostFailure) {
			t.Errorf("should wrap standard error as host failure, got %v", wrapped)
		}
	})

	t.Run("returns existing Error unchanged", func(t *testing.T) {
		existing := NewError("existing")

		if wrapped := WrapError(existing); wrapped != existing {
			t.Error("should return existing Error as-is")
		}
	})

	t.Run("nil", func(t *testing.T) {
		if WrapError(nil) != nil {
			t.Error("should return nil for nil error")
		}
	})
}

func TestError_LogValue(t *testing.T) {
	err := ErrExpected.With(slog.String("expected", ")")).
		WithPosition(Position{Line: 3, Column: 7})

	got := err.LogValue().Resolve().String()

	for _, want := range []string{"missing token", "3:7", "expected"} {
		if !strings.Contains(got, want) {
			t.Errorf("LogValue() = %q, missing %q", got, want)
		}
	}
}

func TestError_Snippet(t *testing.T) {
	src := "x = 1;\ny = 'ab';\n"

	err := ErrParse.WithPosition(Position{Offset: 11, Line: 2, Column: 5}).
		WithSource(src)

	want := "  2 | y = 'ab';\n" +
		"          ^\n"

	if got := err.Snippet(); got != want {
		t.Errorf("Snippet() =\n%q\nwant\n%q", got, want)
	}

	if got := ErrParse.Snippet(); got != "" {
		t.Errorf("Snippet() without position = %q, want empty", got)
	}
}
