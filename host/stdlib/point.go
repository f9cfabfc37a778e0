package stdlib

import (
	"math"
	"strconv"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// point is the object held by host.Point instances.
type point struct {
	x, y float64
}

func (p *point) String() string {
	return "Point(" + strconv.FormatFloat(p.x, 'g', -1, 64) + ", " +
		strconv.FormatFloat(p.y, 'g', -1, 64) + ")"
}

func (p *point) Native() any { return map[string]any{"x": p.x, "y": p.y} }

func (l *library) pointType() *host.Type {
	var typ *host.Type

	pointParam := lang.HostParam(name("Point"))

	coord := func(sel func(p *point) *float64) (host.Getter, host.Setter) {
		get := func(recv lang.Value) (lang.Value, error) {
			p, err := host.Object[*point](recv)
			if err != nil {
				return nil, err
			}

			return lang.Float64(*sel(p)), nil
		}

		set := func(recv, v lang.Value) error {
			p, err := host.Object[*point](recv)
			if err != nil {
				return err
			}

			*sel(p) = float64(v.(lang.Float64))

			return nil
		}

		return get, set
	}

	xGet, xSet := coord(func(p *point) *float64 { return &p.x })
	yGet, ySet := coord(func(p *point) *float64 { return &p.y })

	construct := func(conv func(lang.Value) (float64, bool)) host.Func {
		return static(func(args []lang.Value) (lang.Value, error) {
			x, okX := conv(args[0])
			y, okY := conv(args[1])

			if !okX || !okY {
				return nil, lang.ErrTypeMismatch
			}

			return typ.New(&point{x: x, y: y}), nil
		})
	}

	typ = host.Define(name("Point"),
		host.WithConstructor(params(intParam, intParam), construct(func(v lang.Value) (float64, bool) {
			n, ok := v.(lang.Int64)

			return float64(n), ok
		})),
		host.WithConstructor(params(f64Param, f64Param), construct(func(v lang.Value) (float64, bool) {
			n, ok := v.(lang.Float64)

			return float64(n), ok
		})),

		host.WithField("x", f64Param, xGet, xSet),
		host.WithField("y", f64Param, yGet, ySet),
		host.WithStaticField("origin", pointParam, func(lang.Value) (lang.Value, error) {
			return typ.New(&point{}), nil
		}, nil),

		host.WithMethod("distance", params(pointParam), func(recv lang.Value, args []lang.Value) (lang.Value, error) {
			p, err := host.Object[*point](recv)
			if err != nil {
				return nil, err
			}

			q, err := host.Object[*point](args[0])
			if err != nil {
				return nil, err
			}

			return lang.Float64(math.Hypot(p.x-q.x, p.y-q.y)), nil
		}),
	)

	return typ
}
