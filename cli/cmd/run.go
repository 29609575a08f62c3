package cmd

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/quill/log"
)

// Run executes quill programs.
type Run struct {
	Expr   []string `help:"Program text to run after the sources (repeatable)" short:"e"`
	Source []string `arg:"" help:"Source files or '-' for stdin" name:"source" optional:""`
}

// Run executes the run command.
//
// Every source shares one interpreter, so later sources see the globals of
// earlier ones. Without sources or expressions the program is read from
// stdin.
func (r *Run) Run(ctx context.Context) error {
	paths := r.Source
	if len(paths) == 0 && len(r.Expr) == 0 {
		paths = []string{stdinSource}
	}

	srcs, err := readSources(ctx, paths)
	if err != nil {
		return err
	}

	for i, e := range r.Expr {
		srcs = append(srcs, source{name: exprName(i), text: e})
	}

	streams := streamsFrom(ctx)

	in, err := NewInterpreter(ctx, streams.Out, streams.In)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	for _, src := range srcs {
		log.DebugContext(ctx, "run",
			slog.String("source", src.name),
			slog.Int("bytes", len(src.text)))

		if _, err := in.Run(ctx, src.text); err != nil {
			return scriptError(ctx, src.name, src.text, err)
		}
	}

	return nil
}

func exprName(i int) string {
	return "<expr " + strconv.Itoa(i+1) + ">"
}
