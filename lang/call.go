package lang

import (
	"context"
	"errors"
	"log/slog"
	"slices"
)

func (in *Interpreter) evalCall(ctx context.Context, n *Call) (Value, error) {
	callee, err := in.eval(ctx, n.Callee)
	if err != nil {
		return nil, err
	}

	if !callable(callee) {
		return nil, ErrNotCallable.With(slog.String("kind", callee.Kind().String()))
	}

	args := make([]Value, len(n.Args))

	for i, arg := range n.Args {
		if args[i], err = in.eval(ctx, arg); err != nil {
			return nil, err
		}
	}

	return in.call(ctx, callee, args)
}

// Call applies fn, which must be a closure, method reference, or host type,
// to args. Host adapters use it to call back into scripts.
func (in *Interpreter) Call(ctx context.Context, fn Value, args ...Value) (Value, error) {
	if fn == nil || !callable(fn) {
		return nil, ErrNotCallable
	}

	return in.call(ctx, fn, args)
}

func callable(v Value) bool {
	switch v.(type) {
	case *Closure, *HostCallRef, *HostTypeRef:
		return true
	default:
		return false
	}
}

func (in *Interpreter) call(ctx context.Context, fn Value, args []Value) (Value, error) {
	switch fn := fn.(type) {
	case *Closure:
		return in.callClosure(ctx, fn, args)
	case *HostCallRef:
		return in.invoke(ctx, fn, args)
	case *HostTypeRef:
		return in.construct(ctx, fn, args)
	}

	return nil, ErrNotCallable.With(slog.String("kind", fn.Kind().String()))
}

// callClosure runs the body of fn in a new frame. The frame is released on
// every exit path.
func (in *Interpreter) callClosure(
	ctx context.Context,
	fn *Closure,
	args []Value,
) (Value, error) {
	if fn.Variadic < 0 && len(args) != len(fn.Params) ||
		fn.Variadic >= 0 && len(args) < fn.Variadic {
		return nil, ErrArity.With(
			slog.Int("params", len(fn.Params)),
			slog.Bool("variadic", fn.Variadic >= 0),
			slog.Int("args", len(args)))
	}

	if in.env.Depth() >= in.maxDepth {
		return nil, ErrMaxDepth.With(slog.Int("depth", in.env.Depth()))
	}

	in.env.Push()
	in.logger.TraceContext(ctx, "frame push", slog.Int("depth", in.env.Depth()))

	defer func() {
		in.env.Pop()
		in.logger.TraceContext(ctx, "frame pop", slog.Int("depth", in.env.Depth()))
	}()

	for i, name := range fn.Params {
		if i == fn.Variadic {
			in.env.Assign(name, &Seq{Items: slices.Clone(args[i:])})

			break
		}

		in.env.Assign(name, args[i])
	}

	var result Value = NoValue{}

	for _, stmt := range fn.Body {
		out, err := in.exec(ctx, stmt)
		if err != nil {
			return nil, err
		}

		if out.Returned {
			return out.Value, nil
		}

		result = out.Value
	}

	if in.strict {
		return NoValue{}, nil
	}

	return result, nil
}

// invoke calls the first method, in declaration order, whose name, arity,
// static compatibility, and parameter types all match. There is no ranking
// among matching overloads.
func (in *Interpreter) invoke(
	ctx context.Context,
	ref *HostCallRef,
	args []Value,
) (Value, error) {
	t := ref.Target

	cands, err := guard(func() ([]Member, error) {
		return in.interop.FindMethodCandidates(t, ref.Name, len(args)), nil
	})
	if err != nil {
		return nil, err
	}

	in.logger.TraceContext(ctx, "resolve method",
		slog.String("target", t.String()),
		slog.String("method", ref.Name),
		slog.Int("args", len(args)),
		slog.Int("candidates", len(cands)))

	for _, m := range cands {
		if m.Name() != ref.Name || t.Static() && !m.Static() {
			continue
		}

		coerced, ok := CoerceAll(args, m.Params())
		if !ok {
			continue
		}

		return guardValue(func() (Value, error) {
			return in.interop.Invoke(m, t, coerced)
		}, NoValue{})
	}

	return nil, ErrNoMatchingMethod.With(
		slog.String("target", t.String()),
		slog.String("method", ref.Name),
		slog.Int("args", len(args)))
}

// construct tries each constructor of t accepting len(args) arguments in
// declaration order. A constructor rejecting the arguments with
// [ErrTypeMismatch] is skipped.
func (in *Interpreter) construct(
	ctx context.Context,
	t *HostTypeRef,
	args []Value,
) (Value, error) {
	cands, err := guard(func() ([]Member, error) {
		return in.interop.FindConstructorCandidates(t, len(args)), nil
	})
	if err != nil {
		return nil, err
	}

	in.logger.TraceContext(ctx, "resolve constructor",
		slog.String("type", t.Name),
		slog.Int("args", len(args)),
		slog.Int("candidates", len(cands)))

	for i, m := range cands {
		if len(m.Params()) != len(args) {
			continue
		}

		v, err := guardValue(func() (Value, error) {
			return in.interop.Construct(m, args)
		}, Null{})
		if errors.Is(err, ErrTypeMismatch) {
			in.logger.TraceContext(ctx, "constructor skipped",
				slog.String("type", t.Name),
				slog.Int("candidate", i))

			continue
		}

		return v, err
	}

	return nil, ErrNoMatchingCtor.With(
		slog.String("type", t.Name),
		slog.Int("args", len(args)))
}
