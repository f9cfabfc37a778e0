// Package stdlib declares the standard host types available to scripts.
//
// [Register] installs the following types into a [host.Registry]:
//
//	host.String         string methods; bound to string values
//	host.StringBuilder  mutable string buffer
//	host.Map            keyed dictionary (see [Dict])
//	host.Seq            helpers over sequences
//	host.Math           numeric constants and functions
//	host.System         console output, environment, machine facts
//	host.Point          2-D point with read/write coordinates
//	host.Expr           expr-lang expressions
//	host.PathList       PATH-style list editing
//	host.Path           lexical path helpers
//	host.File           file system queries
//
// Host methods that call back into scripts, such as host.Seq.map, need the
// interpreter:
//
//	reg := host.NewRegistry()
//	in := lang.New(lang.WithInterop(reg))
//	err := stdlib.Register(reg, stdlib.WithCaller(in))
package stdlib
