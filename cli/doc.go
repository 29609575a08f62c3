// Package cli contains the command line interface for quill.
//
// # Usage
//
//	quill [flags] [source ...]      run programs (default command)
//	quill eval 'let x = 6; x * 7'  evaluate text and print its value
//	quill fmt json prog.ql         print the syntax tree as JSON
//	quill repl                     start an interactive session
//	quill init                     write the configuration script
//
// # Configuration
//
// Flag defaults are read from a configuration script named config.ql in the
// user configuration directory (see [pkg.ConfigFile]). The script is itself
// a quill program, run without built-ins, whose global bindings name flags
// with hyphens replaced by underscores:
//
//	let log_level = "debug";
//	let timeout = "2s";
//	let define = ["answer=42"];
//
// A config.ql.json file alongside is also honored, and every flag can be set
// from an environment variable such as QUILL_LOG_LEVEL. Command-line flags
// take precedence.
//
// # Interpreter Options
//
//   - --define, -D NAME=EXPR: Seed a global from an expression
//   - --timeout: Abort evaluation after a duration
//   - --max-depth: Maximum expression nesting depth
//   - --max-call-depth: Maximum function call depth
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp layout (RFC3339, ms, none, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o quill .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/quill/pprof)
package cli
