package lang

import (
	"io"
	"os"

	"github.com/ardnew/quill/log"
)

const (
	// DefaultMaxDepth is the maximum syntactic nesting accepted by the parser.
	DefaultMaxDepth = 256

	// DefaultMaxCallDepth is the maximum number of active function calls.
	DefaultMaxCallDepth = 512
)

// Option configures parsing and evaluation.
type Option func(*options)

type options struct {
	logger       log.Logger
	stdout       io.Writer
	stdin        io.Reader
	processEnv   []string
	maxDepth     int
	maxCallDepth int
}

func makeOptions(opts ...Option) options {
	o := options{
		stdout:       os.Stdout,
		stdin:        os.Stdin,
		maxDepth:     DefaultMaxDepth,
		maxCallDepth: DefaultMaxCallDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the logger for parse and evaluation trace records.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMaxDepth limits syntactic nesting. Values < 1 restore the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

// WithMaxCallDepth limits active function calls. Values < 1 restore the
// default.
func WithMaxCallDepth(depth int) Option {
	return func(o *options) {
		if depth < 1 {
			depth = DefaultMaxCallDepth
		}

		o.maxCallDepth = depth
	}
}

// WithOutput sets the writer used by output built-ins. A nil writer discards.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}

		o.stdout = w
	}
}

// WithInput sets the reader used by input built-ins.
func WithInput(r io.Reader) Option {
	return func(o *options) { o.stdin = r }
}

// WithProcessEnv sets the "KEY=VALUE" list visible to getenv and host
// expressions. The default is [os.Environ].
func WithProcessEnv(env []string) Option {
	return func(o *options) { o.processEnv = env }
}
