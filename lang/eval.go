package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Outcome is the result of executing a statement. Returned is set when a
// return statement produced Value, which ends the enclosing closure call.
type Outcome struct {
	Value    Value
	Returned bool
}

// exec executes one statement.
func (in *Interpreter) exec(ctx context.Context, stmt Node) (Outcome, error) {
	if ret, ok := stmt.(*Return); ok {
		if ret.Value == nil {
			return Outcome{Value: NoValue{}, Returned: true}, nil
		}

		v, err := in.eval(ctx, ret.Value)
		if err != nil {
			return Outcome{}, err
		}

		return Outcome{Value: v, Returned: true}, nil
	}

	v, err := in.eval(ctx, stmt)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Value: v}, nil
}

// eval evaluates an expression.
func (in *Interpreter) eval(ctx context.Context, n Node) (Value, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil
	case *Access:
		return in.evalAccess(ctx, n)
	case *Assign:
		return in.evalAssign(ctx, n)
	case *Call:
		return in.evalCall(ctx, n)
	case *TypeRef:
		return in.evalTypeRef(ctx, n)
	case *FuncLit:
		return &Closure{Body: n.Body, Params: n.Params, Variadic: n.Variadic}, nil
	}

	return nil, ErrInvalidInstruction.With(slog.String("node", fmt.Sprintf("%T", n)))
}

func (in *Interpreter) evalAccess(ctx context.Context, n *Access) (Value, error) {
	v, ok := in.env.Lookup(n.Path[0])
	if !ok {
		return nil, ErrVariableNotFound.With(slog.String("name", n.Path[0]))
	}

	return in.walk(ctx, v, n.Path[1:])
}

// walk applies each path segment in turn, starting from v.
func (in *Interpreter) walk(ctx context.Context, v Value, path []string) (Value, error) {
	for i, seg := range path {
		next, err := in.member(ctx, v, seg, i == len(path)-1)
		if err != nil {
			return nil, err
		}

		v = next
	}

	return v, nil
}

// member resolves one path segment against v: a key of a [Keyed] container,
// or else a host field. A segment naming no field becomes a method reference
// if it is the last segment of the path.
func (in *Interpreter) member(
	_ context.Context,
	v Value,
	name string,
	last bool,
) (Value, error) {
	if v.Kind() == KindNull {
		return nil, ErrNullDereference.With(slog.String("member", name))
	}

	if k, ok := keyedOf(v); ok {
		return guardValue(func() (Value, error) { return k.Get(name) }, Null{})
	}

	t := targetOf(v)

	field, err := guardValue(func() (Value, error) {
		return in.interop.ReadField(t, name)
	}, Null{})

	switch {
	case err == nil:
		return field, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	case last:
		return &HostCallRef{Target: t, Name: name}, nil
	}

	return nil, ErrMemberNotFound.With(
		slog.String("member", name),
		slog.String("target", t.String()))
}

func (in *Interpreter) evalAssign(ctx context.Context, n *Assign) (Value, error) {
	v, err := in.eval(ctx, n.Value)
	if err != nil {
		return nil, err
	}

	path := n.Target.Path

	if len(path) == 1 {
		in.env.Assign(path[0], v)

		return v, nil
	}

	notFound := func(cause error) error {
		err := ErrContainerNotFound.With(slog.String("path", n.Target.Name()))
		if cause != nil {
			return err.Wrap(cause)
		}

		return err
	}

	container, ok := in.env.Lookup(path[0])
	if !ok {
		return nil, notFound(nil)
	}

	for _, seg := range path[1 : len(path)-1] {
		next, err := in.member(ctx, container, seg, false)
		if err != nil {
			if errors.Is(err, ErrKeyNotFound) ||
				errors.Is(err, ErrMemberNotFound) ||
				errors.Is(err, ErrNullDereference) {
				return nil, notFound(err)
			}

			return nil, err
		}

		container = next
	}

	if container.Kind() == KindNull {
		return nil, notFound(nil)
	}

	name := path[len(path)-1]

	if k, ok := keyedOf(container); ok {
		err = guardErr(func() error { return k.Put(name, v) })
	} else {
		t := targetOf(container)

		err = guardErr(func() error { return in.interop.WriteField(t, name, v) })
		if errors.Is(err, ErrNotFound) {
			err = ErrMemberNotFound.With(
				slog.String("member", name),
				slog.String("target", t.String()))
		}
	}

	if err != nil {
		return nil, err
	}

	return v, nil
}

// evalTypeRef resolves the longest prefix of the path that names a host type
// and applies the remaining segments as member access.
func (in *Interpreter) evalTypeRef(ctx context.Context, n *TypeRef) (Value, error) {
	for i := len(n.Path); i > 0; i-- {
		name := strings.Join(n.Path[:i], ".")

		t, err := guard(func() (*HostTypeRef, error) {
			t, ok := in.interop.ResolveType(name)
			if !ok {
				return nil, nil
			}

			return t, nil
		})
		if err != nil {
			return nil, err
		}

		if t != nil {
			return in.walk(ctx, t, n.Path[i:])
		}
	}

	return nil, ErrTypeNotFound.With(slog.String("name", n.Name()))
}

// guard calls into the host. Errors that are not already an [*Error] and
// panics are reported as [ErrHostFailure].
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrHostFailure.Wrap(fmt.Errorf("panic: %v", r))
		}
	}()

	v, err = fn()
	if err != nil {
		err = WrapError(err)
	}

	return v, err
}

// guardValue is guard for calls returning a Value, replacing a nil result
// with def.
func guardValue(fn func() (Value, error), def Value) (Value, error) {
	v, err := guard(fn)
	if err != nil {
		return nil, err
	}

	if v == nil {
		v = def
	}

	return v, nil
}

func guardErr(fn func() error) error {
	_, err := guard(func() (struct{}, error) { return struct{}{}, fn() })

	return err
}
