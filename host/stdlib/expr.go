package stdlib

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// program is the object held by host.Expr instances: a compiled expr-lang
// expression.
type program struct {
	source string
	prog   *vm.Program
}

func (p *program) String() string { return p.source }

// exprType declares host.Expr, which evaluates expr-lang expressions. A
// host.Map argument supplies the variables of an expression; results
// convert back to script values, maps becoming host.Map instances.
func (l *library) exprType() *host.Type {
	var typ *host.Type

	mapParam := lang.HostParam(name("Map"))

	env := func(v lang.Value) (map[string]any, error) {
		d, err := host.Object[*Dict](v)
		if err != nil {
			return nil, err
		}

		m, _ := d.Native().(map[string]any)

		return m, nil
	}

	result := func(out any, err error) (lang.Value, error) {
		if err != nil {
			return nil, err
		}

		return lang.FromNativeWith(out, fromMap(l.dict))
	}

	run := func(recv lang.Value, vars map[string]any) (lang.Value, error) {
		p, err := host.Object[*program](recv)
		if err != nil {
			return nil, err
		}

		return result(vm.Run(p.prog, vars))
	}

	typ = host.Define(name("Expr"),
		host.WithConstructor(params(strParam), static(func(args []lang.Value) (lang.Value, error) {
			if _, ok := args[0].(lang.Str); !ok {
				return nil, lang.ErrTypeMismatch
			}

			src := args[0].String()

			prog, err := expr.Compile(src)
			if err != nil {
				return nil, ErrExprCompile.Wrap(err).With(slog.String("source", src))
			}

			return typ.New(&program{source: src, prog: prog}), nil
		})),

		host.WithField("source", strParam, func(recv lang.Value) (lang.Value, error) {
			p, err := host.Object[*program](recv)
			if err != nil {
				return nil, err
			}

			return lang.Str(p.source), nil
		}, nil),

		host.WithMethod("run", nil, func(recv lang.Value, _ []lang.Value) (lang.Value, error) {
			return run(recv, map[string]any{})
		}),
		host.WithMethod("run", params(mapParam), func(recv lang.Value, args []lang.Value) (lang.Value, error) {
			vars, err := env(args[0])
			if err != nil {
				return nil, err
			}

			return run(recv, vars)
		}),

		host.WithStaticMethod("eval", params(strParam), static(func(args []lang.Value) (lang.Value, error) {
			return result(expr.Eval(args[0].String(), map[string]any{}))
		})),
		host.WithStaticMethod("eval", params(strParam, mapParam), static(func(args []lang.Value) (lang.Value, error) {
			vars, err := env(args[1])
			if err != nil {
				return nil, err
			}

			return result(expr.Eval(args[0].String(), vars))
		})),
	)

	return typ
}
