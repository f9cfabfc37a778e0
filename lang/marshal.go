package lang

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
)

// Nativer is implemented by host objects that convert to plain Go values.
type Nativer interface {
	Native() any
}

// ToNative converts v to a plain Go value: nil, bool, int64, float32,
// float64, rune, string, or []any of these. Host objects convert to their
// [Nativer] form if they implement it, else to the object itself. Callables
// and NoValue have no native form.
func ToNative(v Value) (any, error) {
	switch v := v.(type) {
	case Null:
		return nil, nil
	case Bool:
		return bool(v), nil
	case Int64:
		return int64(v), nil
	case Float32:
		return float32(v), nil
	case Float64:
		return float64(v), nil
	case Char:
		return rune(v), nil
	case Str:
		return string(v), nil
	case *Seq:
		out := make([]any, len(v.Items))

		for i, item := range v.Items {
			n, err := ToNative(item)
			if err != nil {
				return nil, err
			}

			out[i] = n
		}

		return out, nil
	case *HostValueRef:
		if n, ok := v.Object.(Nativer); ok {
			return n.Native(), nil
		}

		return v.Object, nil
	}

	kind := "<nil>"
	if v != nil {
		kind = v.Kind().String()
	}

	return nil, ErrUnsupportedNative.With(slog.String("kind", kind))
}

// MapFunc converts a native map to a Value.
type MapFunc func(m map[string]any) (Value, error)

// FromNative converts a plain Go value to a Value. Maps are not supported;
// see [FromNativeWith].
func FromNative(x any) (Value, error) {
	return FromNativeWith(x, nil)
}

// FromNativeWith converts a plain Go value to a Value, using mapFn, if not
// nil, to convert maps keyed by strings. Integers convert to Int64, slices
// and arrays to *Seq, and values already of type Value are returned as is.
func FromNativeWith(x any, mapFn MapFunc) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return Str(x), nil
	case float32:
		return Float32(x), nil
	case float64:
		return Float64(x), nil
	case int:
		return Int64(x), nil
	case int8:
		return Int64(x), nil
	case int16:
		return Int64(x), nil
	case int32:
		return Int64(x), nil
	case int64:
		return Int64(x), nil
	case uint8:
		return Int64(x), nil
	case uint16:
		return Int64(x), nil
	case uint32:
		return Int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, ErrInvalidValue.With(slog.String("value", fmt.Sprint(x)))
		}

		return Int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, ErrInvalidValue.With(slog.String("value", fmt.Sprint(x)))
		}

		return Int64(x), nil
	case map[string]any:
		if mapFn == nil {
			break
		}

		return mapFn(x)
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())

		for i := range items {
			v, err := FromNativeWith(rv.Index(i).Interface(), mapFn)
			if err != nil {
				return nil, err
			}

			items[i] = v
		}

		return &Seq{Items: items}, nil

	case reflect.Map:
		if mapFn == nil || rv.Type().Key().Kind() != reflect.String {
			break
		}

		m := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}

		return mapFn(m)
	}

	return nil, ErrUnsupportedNative.With(slog.String("type", fmt.Sprintf("%T", x)))
}
