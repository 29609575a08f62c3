package profile

// Config functions return all supported pprof configuration parameters.
type Config func() (mode, path string, quiet bool)

// Disabled returns a Config with no mode, whose Start is a no-op.
func Disabled() Config {
	return func() (string, string, bool) { return "", "", false }
}

// Make returns a Config with the given options applied to [Disabled].
func Make(opts ...func(Config) Config) Config {
	c := Disabled()
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// Start starts the profiler selected by the configured mode, writing output
// below the configured path. The returned Stop flushes and closes it.
//
// Start is a no-op when the mode is empty or unknown, or when the binary was
// built without the pprof tag. Both Start and Stop are always safe to call.
func (c Config) Start() interface{ Stop() } {
	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		_, path, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		mode, path, _ := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

type ignore struct{}

func (ignore) Stop() {}
