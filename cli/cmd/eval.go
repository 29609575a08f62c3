package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/quill/cli/cmd/repl"
	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// Eval evaluates inline program text and prints the resulting value.
type Eval struct {
	Text []string `arg:"" help:"Program text; arguments are joined with spaces" name:"text"`
}

// Run executes the eval command.
//
// A missing final ';' is implied. The value of the last statement is written
// in its literal form unless it is None.
func (e *Eval) Run(ctx context.Context) error {
	text := strings.Join(e.Text, " ")

	streams := streamsFrom(ctx)

	in, err := NewInterpreter(ctx, streams.Out, streams.In)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	src, err := repl.Complete(ctx, text)
	if err != nil {
		return scriptError(ctx, "<eval>", text, err)
	}

	log.DebugContext(ctx, "eval", slog.String("text", src))

	v, err := in.Run(ctx, src)
	if err != nil {
		return scriptError(ctx, "<eval>", src, err)
	}

	if v.Type != lang.TypeNone {
		if _, err := fmt.Fprintln(streams.Out, v.Repr()); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
