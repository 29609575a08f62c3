package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/quill/cli/cmd/repl"
	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
	"github.com/ardnew/quill/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	Plain   bool     `                help:"Use the line editor even on a terminal"`
	History bool     `default:"true" help:"Read and write the history file"            negatable:""`
	Load    []string `                help:"Source files to run before the first prompt" short:"l" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	srcs, err := readSources(ctx, r.Load)
	if err != nil {
		return err
	}

	history := ""
	if r.History {
		history = pkg.HistoryFile()
	}

	streams := streamsFrom(ctx)

	return repl.Run(ctx,
		func(out io.Writer, in io.Reader) (*lang.Interpreter, error) {
			interp, err := NewInterpreter(ctx, out, in)
			if err != nil {
				return nil, err
			}

			for _, src := range srcs {
				log.DebugContext(ctx, "load", slog.String("source", src.name))

				if _, err := interp.Run(ctx, src.text); err != nil {
					return nil, scriptError(ctx, src.name, src.text, err)
				}
			}

			return interp, nil
		},
		repl.WithLogger(log.With(slog.String("component", "repl"))),
		repl.WithHistory(history),
		repl.WithPlain(r.Plain),
		repl.WithTimeout(settingsFrom(ctx).Timeout),
		repl.WithStreams(streams.In, streams.Out, streams.Err),
	)
}
