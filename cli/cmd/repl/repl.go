package repl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// Factory returns an interpreter whose scripts write to out and read from in.
type Factory func(out io.Writer, in io.Reader) (*lang.Interpreter, error)

// Option configures [Run].
type Option func(*options)

type options struct {
	logger  log.Logger
	history string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	timeout time.Duration
	plain   bool
}

// WithLogger sets the logger for REPL trace records.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHistory sets the history file path. An empty path disables
// persistence.
func WithHistory(path string) Option {
	return func(o *options) { o.history = path }
}

// WithPlain selects the line editor frontend even on a terminal.
func WithPlain(plain bool) Option {
	return func(o *options) { o.plain = plain }
}

// WithTimeout bounds each evaluation. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithStreams sets the standard streams. Nil arguments keep the defaults.
func WithStreams(in io.Reader, out, err io.Writer) Option {
	return func(o *options) {
		if in != nil {
			o.stdin = in
		}

		if out != nil {
			o.stdout = out
		}

		if err != nil {
			o.stderr = err
		}
	}
}

// Run starts an interactive session with an interpreter from newInterp.
//
// The full-screen frontend is used when standard input and output are both
// terminals, unless plain is requested. Otherwise a line editor reads
// statements, prompting for continuation lines until the input is complete.
func Run(ctx context.Context, newInterp Factory, opts ...Option) error {
	o := options{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}

	for _, opt := range opts {
		opt(&o)
	}

	history := NewHistory(o.history)
	if err := history.Load(); err != nil {
		o.logger.WarnContext(ctx, "could not load history",
			slog.String("file", o.history),
			slog.Any("error", err))
	}

	frontend := "tui"
	if o.plain || !isTerminal(o.stdin) || !isTerminal(o.stdout) {
		frontend = "plain"
	}

	o.logger.TraceContext(ctx, "repl start",
		slog.String("frontend", frontend),
		slog.String("history", o.history),
		slog.Int("history_entries", history.Len()))

	if frontend == "plain" {
		return runPlain(ctx, newInterp, history, o)
	}

	return runTUI(ctx, newInterp, history, o)
}

func runTUI(
	ctx context.Context,
	newInterp Factory,
	history *History,
	o options,
) error {
	// Scripts cannot read the terminal while the program owns it.
	var output bytes.Buffer

	interp, err := newInterp(&output, nil)
	if err != nil {
		return err
	}

	session := NewSession(interp, o.logger, o.timeout)
	m := newModel(ctx, session, &output, history, o.logger)

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(o.stdin),
		tea.WithOutput(o.stdout))

	_, err = p.Run()

	return err
}

func isTerminal(stream any) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
