// Package pkg holds program metadata shared by the command-line front end.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

const (
	// Name is the canonical command and module identifier. It names the
	// configuration and cache directories.
	Name = "hostscript"
	// Description is a short summary used in help output.
	Description = "Embeddable scripting console for host type systems"
)

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
