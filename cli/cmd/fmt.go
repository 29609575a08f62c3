package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/quill/lang"
)

// Fmt parses a program and writes it in the chosen format.
type Fmt struct {
	Source Source `cmd:"" default:"withargs" help:"Format as canonical quill source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
	Tokens Tokens `cmd:""                    help:"Dump the token stream."`
}

// Input names the program read by each fmt subcommand.
type Input struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// parse reads and parses the input source.
func (i Input) parse(ctx context.Context, format string) (*lang.AST, error) {
	r, err := openSource(ctx, i.Source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	ast, err := lang.ParseReader(ctx, r,
		lang.WithMaxDepth(settingsFrom(ctx).MaxDepth))
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("format", format), slog.String("source", i.Source))
	}

	return ast, nil
}

// write runs fn against the output stream and wraps any failure.
func write(ctx context.Context, fn func(w io.Writer) error) error {
	if err := fn(streamsFrom(ctx).Out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// Source formats input as canonical quill source.
type Source struct {
	Input

	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`
}

// Run executes the source command.
func (f *Source) Run(ctx context.Context) error {
	ast, err := f.parse(ctx, "source")
	if err != nil {
		return err
	}

	return write(ctx, func(w io.Writer) error {
		return ast.Format(ctx, w, f.Indent)
	})
}

// JSON formats input as JSON.
type JSON struct {
	Input

	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	ast, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return write(ctx, func(w io.Writer) error {
		return ast.FormatJSON(ctx, w, j.Indent)
	})
}

// YAML formats input as YAML.
type YAML struct {
	Input

	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	ast, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return write(ctx, func(w io.Writer) error {
		return ast.FormatYAML(ctx, w, y.Indent)
	})
}

// AST formats input as an abstract syntax tree representation.
type AST struct {
	Input
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	ast, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	return write(ctx, ast.Print)
}

// Tokens dumps the token stream of the input without parsing it.
type Tokens struct {
	Input
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	r, err := openSource(ctx, t.Source)
	if err != nil {
		return err
	}
	defer r.Close()

	text, err := io.ReadAll(r)
	if err != nil {
		return ErrReadSource.With(slog.String("file", t.Source)).Wrap(err)
	}

	tokens, err := lang.Tokenize(string(text))
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", "tokens"), slog.String("source", t.Source))
	}

	return write(ctx, func(w io.Writer) error {
		return lang.FormatTokens(w, tokens)
	})
}
