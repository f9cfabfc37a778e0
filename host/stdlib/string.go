package stdlib

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// stringType declares host.String. Its instances are plain [lang.Str]
// values; indices count runes.
func (l *library) stringType() *host.Type {
	str := func(fn func(s string, args []lang.Value) (lang.Value, error)) host.Func {
		return func(recv lang.Value, args []lang.Value) (lang.Value, error) {
			return fn(string(recv.(lang.Str)), args)
		}
	}

	return host.Define(name("String"),
		host.WithConstructor(nil, static(func([]lang.Value) (lang.Value, error) {
			return lang.Str(""), nil
		})),
		host.WithConstructor(params(strParam), static(func(args []lang.Value) (lang.Value, error) {
			if _, ok := args[0].(lang.Str); !ok {
				return nil, lang.ErrTypeMismatch
			}

			return args[0], nil
		})),
		host.WithConstructor(params(charParam), static(func(args []lang.Value) (lang.Value, error) {
			return lang.Str(args[0].String()), nil
		})),

		host.WithMethod("length", nil, str(func(s string, _ []lang.Value) (lang.Value, error) {
			return lang.Int64(utf8.RuneCountInString(s)), nil
		})),
		host.WithMethod("charAt", params(intParam), str(func(s string, args []lang.Value) (lang.Value, error) {
			r := []rune(s)

			i, err := index(args[0], len(r))
			if err != nil {
				return nil, err
			}

			return lang.Char(r[i]), nil
		})),
		host.WithMethod("concat", params(strParam), str(func(s string, args []lang.Value) (lang.Value, error) {
			return lang.Str(s + args[0].String()), nil
		})),
		host.WithMethod("indexOf", params(strParam), str(func(s string, args []lang.Value) (lang.Value, error) {
			return lang.Int64(runeIndex(s, args[0].String())), nil
		})),
		host.WithMethod("indexOf", params(charParam), str(func(s string, args []lang.Value) (lang.Value, error) {
			return lang.Int64(runeIndex(s, args[0].String())), nil
		})),
		host.WithMethod("substring", params(intParam), str(func(s string, args []lang.Value) (lang.Value, error) {
			r := []rune(s)

			begin, err := index(args[0], len(r)+1)
			if err != nil {
				return nil, err
			}

			return lang.Str(r[begin:]), nil
		})),
		host.WithMethod("substring", params(intParam, intParam), str(func(s string, args []lang.Value) (lang.Value, error) {
			r := []rune(s)

			end, err := index(args[1], len(r)+1)
			if err != nil {
				return nil, err
			}

			begin, err := index(args[0], end+1)
			if err != nil {
				return nil, err
			}

			return lang.Str(r[begin:end]), nil
		})),
		host.WithMethod("toUpperCase", nil, str(func(s string, _ []lang.Value) (lang.Value, error) {
			return lang.Str(strings.ToUpper(s)), nil
		})),
		host.WithMethod("toLowerCase", nil, str(func(s string, _ []lang.Value) (lang.Value, error) {
			return lang.Str(strings.ToLower(s)), nil
		})),
		host.WithMethod("trim", nil, str(func(s string, _ []lang.Value) (lang.Value, error) {
			return lang.Str(strings.TrimSpace(s)), nil
		})),
		host.WithMethod("equals", params(anyParam), str(func(s string, args []lang.Value) (lang.Value, error) {
			o, ok := args[0].(lang.Str)

			return lang.Bool(ok && string(o) == s), nil
		})),
		host.WithMethod("split", params(strParam), str(func(s string, args []lang.Value) (lang.Value, error) {
			parts := strings.Split(s, args[0].String())

			items := make([]lang.Value, len(parts))
			for i, p := range parts {
				items[i] = lang.Str(p)
			}

			return lang.NewSeq(items...), nil
		})),

		host.WithStaticMethod("valueOf", params(anyParam), static(func(args []lang.Value) (lang.Value, error) {
			return lang.Str(args[0].String()), nil
		})),
	)
}

// runeIndex is strings.Index counted in runes.
func runeIndex(s, sub string) int {
	i := strings.Index(s, sub)
	if i < 0 {
		return i
	}

	return utf8.RuneCountInString(s[:i])
}
