package stdlib

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// builder is the object held by host.StringBuilder instances.
type builder struct {
	strings.Builder
}

func (b *builder) Native() any { return b.String() }

// builderType declares host.StringBuilder. Its append methods return the
// receiver so calls can be chained through a variable.
func (l *library) builderType() *host.Type {
	var typ *host.Type

	self := func(fn func(b *builder, args []lang.Value)) host.Func {
		return func(recv lang.Value, args []lang.Value) (lang.Value, error) {
			b, err := host.Object[*builder](recv)
			if err != nil {
				return nil, err
			}

			fn(b, args)

			return recv, nil
		}
	}

	typ = host.Define(name("StringBuilder"),
		host.WithConstructor(nil, static(func([]lang.Value) (lang.Value, error) {
			return typ.New(&builder{}), nil
		})),
		host.WithConstructor(params(intParam), static(func(args []lang.Value) (lang.Value, error) {
			n := int64(args[0].(lang.Int64))
			if n < 0 {
				return nil, lang.ErrInvalidValue.With(slog.Int64("capacity", n))
			}

			b := &builder{}
			b.Grow(int(n))

			return typ.New(b), nil
		})),
		host.WithConstructor(params(strParam), static(func(args []lang.Value) (lang.Value, error) {
			if _, ok := args[0].(lang.Str); !ok {
				return nil, lang.ErrTypeMismatch
			}

			b := &builder{}
			b.WriteString(args[0].String())

			return typ.New(b), nil
		})),

		host.WithMethod("append", params(strParam), self(func(b *builder, args []lang.Value) {
			b.WriteString(args[0].String())
		})),
		host.WithMethod("append", params(charParam), self(func(b *builder, args []lang.Value) {
			b.WriteRune(rune(args[0].(lang.Char)))
		})),
		host.WithMethod("append", params(anyParam), self(func(b *builder, args []lang.Value) {
			b.WriteString(args[0].String())
		})),
		host.WithMethod("length", nil, func(recv lang.Value, _ []lang.Value) (lang.Value, error) {
			b, err := host.Object[*builder](recv)
			if err != nil {
				return nil, err
			}

			return lang.Int64(utf8.RuneCountInString(b.String())), nil
		}),
		host.WithMethod("toString", nil, func(recv lang.Value, _ []lang.Value) (lang.Value, error) {
			b, err := host.Object[*builder](recv)
			if err != nil {
				return nil, err
			}

			return lang.Str(b.String()), nil
		}),
	)

	return typ
}
