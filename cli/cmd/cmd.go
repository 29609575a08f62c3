package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Settings holds the interpreter flags shared by every command.
type Settings struct {
	Defines      []string
	Timeout      time.Duration
	MaxDepth     int
	MaxCallDepth int
}

type settingsKey struct{}

// WithSettings returns a new context.Context carrying s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(ctx context.Context) Settings {
	s, _ := ctx.Value(settingsKey{}).(Settings)

	return s
}

// Streams are the standard streams used by commands and scripts.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context carrying s. Nil members fall back
// to the process streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// NewInterpreter returns an interpreter configured from the settings in ctx
// with the standard built-ins registered and every --define applied.
// Script output is written to w and input read from r.
func NewInterpreter(
	ctx context.Context,
	w io.Writer,
	r io.Reader,
) (*lang.Interpreter, error) {
	s := settingsFrom(ctx)

	in := lang.New(
		lang.WithLogger(log.With(slog.String("component", "lang"))),
		lang.WithOutput(w),
		lang.WithInput(r),
		lang.WithMaxDepth(s.MaxDepth),
		lang.WithMaxCallDepth(s.MaxCallDepth),
	)

	if err := in.Register(lang.Stdlib()...); err != nil {
		return nil, err
	}

	for _, def := range s.Defines {
		name, src, err := lang.ParseDefine(def)
		if err == nil {
			err = in.Define(ctx, name, src)
		}

		if err != nil {
			return nil, ErrDefine.With(slog.String("define", def)).Wrap(err)
		}
	}

	return in, nil
}

// withTimeout bounds ctx by the --timeout setting, if any.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := settingsFrom(ctx).Timeout; d > 0 {
		return context.WithTimeout(ctx, d)
	}

	return context.WithCancel(ctx)
}

// scriptError reports a failed evaluation of src on the error stream, with a
// source snippet when the failure has a position, and returns the error to
// be logged by the caller.
func scriptError(ctx context.Context, name, src string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout.
			With(slog.String("source", name), slog.Duration("timeout", settingsFrom(ctx).Timeout)).
			Wrap(err)
	}

	ee := lang.WrapError(err)

	stderr := streamsFrom(ctx).Err
	fmt.Fprintf(stderr, "%s: %v\n", name, ee)

	if snippet := ee.Snippet(src); snippet != "" {
		fmt.Fprint(stderr, snippet)
	}

	return ErrScript.With(slog.String("source", name)).Wrap(ee)
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is a named program text.
type source struct {
	name string
	text string
}

// readSources reads each path in order, skipping files already read through
// another path. The name "-" reads the input stream once.
func readSources(ctx context.Context, paths []string) ([]source, error) {
	seen := make(map[fileKey]struct{})
	stdin := false

	var srcs []source

	for _, path := range paths {
		if path == stdinSource {
			if stdin {
				continue
			}

			stdin = true

			text, err := io.ReadAll(streamsFrom(ctx).In)
			if err != nil {
				return nil, ErrReadSource.With(slog.String("file", path)).Wrap(err)
			}

			srcs = append(srcs, source{name: "<stdin>", text: string(text)})

			continue
		}

		file, ok, err := openUniqueFile(path, seen)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("file", path)).Wrap(err)
		}

		if !ok {
			log.DebugContext(ctx, "skip duplicate source", slog.String("file", path))

			continue
		}

		text, err := io.ReadAll(file)
		file.Close()

		if err != nil {
			return nil, ErrReadSource.With(slog.String("file", path)).Wrap(err)
		}

		srcs = append(srcs, source{name: path, text: string(text)})
	}

	return srcs, nil
}

// openSource opens path for reading, or returns the input stream for "-".
func openSource(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "" || path == stdinSource {
		return io.NopCloser(streamsFrom(ctx).In), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrReadSource.With(slog.String("file", path)).Wrap(err)
	}

	return file, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openUniqueFile opens the file at path unless a file with the same identity
// is already in seen. It reports false without error for duplicates.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	//nolint:unconvert // Dev is not uint64 on every platform.
	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
