//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version of the module embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command name and the language name. It appears in
	// help text, default config paths, and the REPL prompt.
	Name = "quill"
	// Description is a short, human-readable summary used in help output.
	Description = "Small dynamically typed scripting language"
	// Extension is the file name extension of script files.
	Extension = ".ql"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
