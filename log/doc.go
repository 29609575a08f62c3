// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options
// applied at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("ms"))
//
// [Logger.Wrap] derives a logger with overridden options, and [Logger.With]
// derives one that adds attributes to every record. Neither modifies the
// receiver.
//
// # Levels
//
// In addition to the four [log/slog] levels, [LevelTrace] sits below
// [LevelDebug]. The interpreter reports tokenizing, parsing, and call
// activity at this level, so it is silent unless explicitly enabled.
//
// # Formats
//
// [FormatJSON] and [FormatText] select the record encoding. When pretty
// output is enabled with [WithPretty], records are colorized and JSON
// records are indented across multiple lines.
//
// # Time Layouts
//
// [WithTimeLayout] accepts a named layout from the [time] package such as
// "RFC3339Nano", a short alias such as "ms", or a literal layout string. An
// empty layout or "none" omits timestamps.
//
// # Package Logger
//
// The package-level functions log through a default logger that writes to
// standard error. [Config] replaces it, and context-unaware calls use the
// context returned by [DefaultContextProvider].
package log
