package stdlib

import (
	"math"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

func (l *library) mathType() *host.Type {
	ints := func(fn func(a, b int64) int64) host.Func {
		return static(func(args []lang.Value) (lang.Value, error) {
			return lang.Int64(fn(int64(args[0].(lang.Int64)), int64(args[1].(lang.Int64)))), nil
		})
	}

	floats := func(fn func(a, b float64) float64) host.Func {
		return static(func(args []lang.Value) (lang.Value, error) {
			return lang.Float64(fn(float64(args[0].(lang.Float64)), float64(args[1].(lang.Float64)))), nil
		})
	}

	float := func(fn func(x float64) float64) host.Func {
		return static(func(args []lang.Value) (lang.Value, error) {
			return lang.Float64(fn(float64(args[0].(lang.Float64)))), nil
		})
	}

	return host.Define(name("Math"),
		host.WithConst("PI", lang.Float64(math.Pi)),
		host.WithConst("E", lang.Float64(math.E)),

		host.WithStaticMethod("max", params(intParam, intParam), ints(func(a, b int64) int64 { return max(a, b) })),
		host.WithStaticMethod("max", params(f64Param, f64Param), floats(math.Max)),
		host.WithStaticMethod("min", params(intParam, intParam), ints(func(a, b int64) int64 { return min(a, b) })),
		host.WithStaticMethod("min", params(f64Param, f64Param), floats(math.Min)),
		host.WithStaticMethod("abs", params(intParam), static(func(args []lang.Value) (lang.Value, error) {
			n := args[0].(lang.Int64)
			if n < 0 {
				n = -n
			}

			return n, nil
		})),
		host.WithStaticMethod("abs", params(f64Param), float(math.Abs)),
		host.WithStaticMethod("sqrt", params(f64Param), float(math.Sqrt)),
		host.WithStaticMethod("floor", params(f64Param), float(math.Floor)),
		host.WithStaticMethod("ceil", params(f64Param), float(math.Ceil)),
		host.WithStaticMethod("pow", params(f64Param, f64Param), floats(math.Pow)),
	)
}
