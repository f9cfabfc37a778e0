// Package host adapts declared Go types to the interpreter's host interop
// boundary.
//
// A host type is declared with [Define] and a list of member options:
//
//	point := host.Define("host.Point",
//		host.WithConstructor(host.Params(lang.KindInt64, lang.KindInt64), newPoint),
//		host.WithField("x", lang.Param(lang.KindInt64), getX, setX),
//		host.WithMethod("distance", []lang.ParamType{pointParam}, distance),
//	)
//
// Declared types are added to a [Registry], which implements
// [lang.Interop]. Members sharing a name are overloads and are tried in
// declaration order; the first whose parameters accept the arguments wins.
//
// Primitive values reach host members through [Registry.Bind], e.g. binding
// [lang.KindStr] to a string type lets scripts call s.length() on a string
// held in a variable.
package host
