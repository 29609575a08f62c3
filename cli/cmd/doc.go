// Package cmd implements the quill subcommands: run, eval, fmt, init, and
// repl.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// ([WithContext]), the interpreter [Settings] ([WithSettings]), and the
// standard [Streams] ([WithStreams]). Failures are returned as [*Error]
// values that carry structured attributes for the logger.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration script.
	ConfigIdentifier = "config"
)
