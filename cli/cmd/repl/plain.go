package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"

	"github.com/ardnew/quill/lang"
)

const (
	plainPrompt     = "quill> "
	plainContinue   = "...... "
	plainIndentStep = "  "
)

// runPlain reads statements with a line editor. Input that is incomplete
// after a line is continued on the next line; Ctrl-C discards it.
func runPlain(
	ctx context.Context,
	newInterp Factory,
	history *History,
	o options,
) error {
	interp, err := newInterp(o.stdout, o.stdin)
	if err != nil {
		return err
	}

	session := NewSession(interp, o.logger, o.timeout)

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)
	line.SetCompleter(func(s string) []string {
		word, start, _ := wordBounds(s, len(s))
		if word == "" {
			return nil
		}

		var out []string

		for _, name := range session.Names() {
			if strings.HasPrefix(name, word) {
				out = append(out, s[:start]+name)
			}
		}

		return out
	})

	for _, h := range history.Lines() {
		line.AppendHistory(h)
	}

	var pending []string

	for ctx.Err() == nil {
		prompt := plainPrompt
		if len(pending) > 0 {
			prompt = plainContinue + strings.Repeat(plainIndentStep, depth(pending))
		}

		text, err := line.Prompt(prompt)

		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			pending = nil

			continue

		case errors.Is(err, io.EOF):
			fmt.Fprintln(o.stdout)

			return nil

		case err != nil:
			return err
		}

		pending = append(pending, text)
		input := strings.Join(pending, "\n")

		if strings.TrimSpace(input) == "" {
			pending = nil

			continue
		}

		result, err := session.Eval(ctx, input)
		if lang.IsIncomplete(err) {
			continue
		}

		pending = nil

		line.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		if herr := history.Add(input); herr != nil {
			o.logger.DebugContext(ctx, "could not save history",
				slog.Any("error", herr))
		}

		if err != nil {
			fmt.Fprintf(o.stderr, "error: %v\n", err)

			if snippet := lang.WrapError(err).Snippet(input); snippet != "" {
				fmt.Fprint(o.stderr, snippet)
			}

			continue
		}

		if result.Type != lang.TypeNone {
			fmt.Fprintln(o.stdout, result.Repr())
		}
	}

	return ctx.Err()
}

// depth returns the number of unclosed braces, brackets, and parentheses in
// lines, ignoring string literals and comments.
func depth(lines []string) int {
	n := 0

	for _, l := range lines {
		quoted := false

	scan:
		for i := 0; i < len(l); i++ {
			switch c := l[i]; {
			case quoted && c == '\\':
				i++
			case c == '"':
				quoted = !quoted
			case quoted:
			case c == '#':
				break scan
			case c == '{' || c == '[' || c == '(':
				n++
			case c == '}' || c == ']' || c == ')':
				n--
			}
		}
	}

	return max(n, 0)
}
