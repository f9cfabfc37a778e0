package stdlib

import (
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// Dict is the keyed object held by host.Map instances. Keys keep insertion
// order. Reading a missing key yields null.
type Dict struct {
	keys []string
	vals map[string]lang.Value
}

var (
	_ lang.Keyed   = (*Dict)(nil)
	_ lang.Nativer = (*Dict)(nil)
)

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return &Dict{vals: make(map[string]lang.Value)}
}

// Get implements [lang.Keyed].
func (d *Dict) Get(key string) (lang.Value, error) {
	if v, ok := d.vals[key]; ok {
		return v, nil
	}

	return lang.Null{}, nil
}

// Put implements [lang.Keyed].
func (d *Dict) Put(key string, v lang.Value) error {
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.vals[key] = v

	return nil
}

// Len returns the number of keys in d.
func (d *Dict) Len() int { return len(d.keys) }

// Keys returns the keys of d in insertion order.
func (d *Dict) Keys() []string { return slices.Clone(d.keys) }

// Has reports whether d holds key.
func (d *Dict) Has(key string) bool {
	_, ok := d.vals[key]

	return ok
}

// Remove deletes key and returns its value, or null if it was absent.
func (d *Dict) Remove(key string) lang.Value {
	v, ok := d.vals[key]
	if !ok {
		return lang.Null{}
	}

	delete(d.vals, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })

	return v
}

// Native returns d as a map of native values. Values with no native form
// are left out.
func (d *Dict) Native() any {
	m := make(map[string]any, len(d.vals))

	for k, v := range d.vals {
		if n, err := lang.ToNative(v); err == nil {
			m[k] = n
		}
	}

	return m
}

func (d *Dict) String() string {
	parts := make([]string, len(d.keys))
	for i, k := range d.keys {
		parts[i] = k + ": " + d.vals[k].String()
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// mapType declares host.Map. Member access on an instance reads and writes
// its keys, so the helpers are static methods taking the map first.
func (l *library) mapType() *host.Type {
	var typ *host.Type

	mapParam := lang.HostParam(name("Map"))

	dict := func(fn func(d *Dict, args []lang.Value) (lang.Value, error)) host.Func {
		return static(func(args []lang.Value) (lang.Value, error) {
			d, err := host.Object[*Dict](args[0])
			if err != nil {
				return nil, err
			}

			return fn(d, args[1:])
		})
	}

	typ = host.Define(name("Map"),
		host.WithConstructor(nil, static(func([]lang.Value) (lang.Value, error) {
			return typ.New(NewDict()), nil
		})),

		host.WithStaticMethod("size", params(mapParam), dict(func(d *Dict, _ []lang.Value) (lang.Value, error) {
			return lang.Int64(d.Len()), nil
		})),
		host.WithStaticMethod("keys", params(mapParam), dict(func(d *Dict, _ []lang.Value) (lang.Value, error) {
			keys := d.Keys()

			items := make([]lang.Value, len(keys))
			for i, k := range keys {
				items[i] = lang.Str(k)
			}

			return lang.NewSeq(items...), nil
		})),
		host.WithStaticMethod("containsKey", params(mapParam, strParam), dict(func(d *Dict, args []lang.Value) (lang.Value, error) {
			return lang.Bool(d.Has(args[0].String())), nil
		})),
		host.WithStaticMethod("remove", params(mapParam, strParam), dict(func(d *Dict, args []lang.Value) (lang.Value, error) {
			return d.Remove(args[0].String()), nil
		})),
	)

	l.dict = typ

	return typ
}

// fromMap converts a native map into a host.Map instance of typ.
func fromMap(typ *host.Type) lang.MapFunc {
	var conv lang.MapFunc

	conv = func(m map[string]any) (lang.Value, error) {
		d := NewDict()

		for _, k := range slices.Sorted(maps.Keys(m)) {
			v, err := lang.FromNativeWith(m[k], conv)
			if err != nil {
				return nil, err
			}

			_ = d.Put(k, v)
		}

		return typ.New(d), nil
	}

	return conv
}
