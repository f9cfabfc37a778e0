package stdlib

import "github.com/ardnew/hostscript/lang"

var (
	ErrIndex       = lang.NewError("index out of range")
	ErrExprCompile = lang.NewError("compile expression")
	ErrNoCaller    = lang.NewError("no interpreter to call closures")
	ErrPredicate   = lang.NewError("predicate must return a bool")
)
