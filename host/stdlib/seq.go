package stdlib

import (
	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// seqType declares host.Seq, static helpers over [lang.Seq] values.
func (l *library) seqType() *host.Type {
	seq := func(fn func(s *lang.Seq, args []lang.Value) (lang.Value, error)) host.Func {
		return static(func(args []lang.Value) (lang.Value, error) {
			s, ok := args[0].(*lang.Seq)
			if !ok {
				return nil, lang.ErrNullDereference
			}

			return fn(s, args[1:])
		})
	}

	return host.Define(name("Seq"),
		host.WithStaticMethod("of0", nil, static(func([]lang.Value) (lang.Value, error) {
			return lang.NewSeq(), nil
		})),
		host.WithStaticMethod("length", params(seqParam), seq(func(s *lang.Seq, _ []lang.Value) (lang.Value, error) {
			return lang.Int64(s.Len()), nil
		})),
		host.WithStaticMethod("get", params(seqParam, intParam), seq(func(s *lang.Seq, args []lang.Value) (lang.Value, error) {
			i, err := index(args[0], s.Len())
			if err != nil {
				return nil, err
			}

			return s.Items[i], nil
		})),
		host.WithStaticMethod("append", params(seqParam, anyParam), seq(func(s *lang.Seq, args []lang.Value) (lang.Value, error) {
			s.Items = append(s.Items, args[0])

			return s, nil
		})),
		host.WithStaticMethod("map", params(seqParam, fnParam), seq(func(s *lang.Seq, args []lang.Value) (lang.Value, error) {
			out := make([]lang.Value, len(s.Items))

			for i, item := range s.Items {
				v, err := l.call(args[0], item)
				if err != nil {
					return nil, err
				}

				out[i] = v
			}

			return lang.NewSeq(out...), nil
		})),
	)
}
