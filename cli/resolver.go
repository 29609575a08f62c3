package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quill/cli/cmd"
	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// resolve returns a [kong.ConfigurationLoader] that runs a configuration
// script written in quill.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.ql")
//
// The script runs in an interpreter with no built-ins, no output, and no
// input. Its global bindings become flag values:
//   - Flag names with hyphens (e.g., "log-level") use underscores in the
//     script (e.g., "log_level")
//   - Integers and Floats are passed as their decimal text, so 1 and 0 also
//     serve boolean flags
//   - Strings are passed verbatim, e.g. "5s" for a duration flag
//   - Lists become repeated values for slice flags
//
// Example configuration script:
//
//	let log_level = "debug";
//	let log_pretty = 0;
//	let define = ["greeting=\"hello\""];
//
// Command-line flags override configuration values. A script that fails to
// parse or run is logged and ignored.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		logger := log.With(slog.String("component", "config"))

		in := lang.New(
			lang.WithLogger(logger),
			lang.WithOutput(nil),
			lang.WithInput(nil),
		)

		if _, err := in.RunReader(ctx, r); err != nil {
			logger.WarnContext(ctx, "ignoring configuration",
				slog.Any("error", lang.WrapError(err)))

			return config{}, nil
		}

		cfg := make(config)

		for name, v := range in.Globals().Locals() {
			if val, ok := flagValue(v); ok {
				cfg[name] = val
			}
		}

		logger.DebugContext(ctx, "loaded configuration", slog.Int("settings", len(cfg)))

		return cfg, nil
	}
}

// config implements [kong.Resolver] for quill configuration scripts.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[cmd.ConfigName(flag.Name)]; ok {
		return value, nil
	}

	return nil, nil
}

// flagValue converts v to the form kong decodes into flag values. Kong
// requires numbers as strings for parsing.
func flagValue(v lang.Value) (any, bool) {
	switch v.Type {
	case lang.TypeInteger:
		return strconv.FormatInt(int64(v.Int), 10), true

	case lang.TypeFloat:
		return strconv.FormatFloat(float64(v.Float), 'f', -1, 32), true

	case lang.TypeString:
		return v.Str, true

	case lang.TypeList:
		items := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			if val, ok := flagValue(item); ok {
				items = append(items, val)
			}
		}

		return items, true

	default:
		return nil, false
	}
}
