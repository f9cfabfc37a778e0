package host

import "github.com/ardnew/hostscript/lang"

var (
	ErrDuplicateType = lang.NewError("duplicate host type")
	ErrUnknownType   = lang.NewError("unknown host type")
	ErrInvalidMember = lang.NewError("member not declared by a host type")
)
