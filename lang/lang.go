package lang

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
)

// Interpreter evaluates programs against a persistent global scope.
//
// An Interpreter is not safe for concurrent use. Distinct interpreters share
// nothing but the parse cache.
type Interpreter struct {
	opts    options
	globals *Env
	stdin   *bufio.Reader
	depth   int
}

// New returns an interpreter with an empty global scope. Built-ins are
// added with [Interpreter.Register].
func New(opts ...Option) *Interpreter {
	return &Interpreter{
		opts:    makeOptions(opts...),
		globals: NewEnv(nil),
	}
}

// Builtin describes a host function. Calls must supply exactly len(Params)
// arguments, or at least that many when Variadic is set.
type Builtin struct {
	Name     string
	Params   []string
	Variadic bool
	Fn       NativeFunc
}

// Register binds each builtin as a Function in the global scope, replacing
// any existing binding of the same name.
func (in *Interpreter) Register(bs ...Builtin) error {
	for _, b := range bs {
		if !isIdentifier(b.Name) {
			return ErrArgument.Msgf("invalid built-in name %q", b.Name)
		}

		if b.Fn == nil {
			return ErrArgument.Msgf("built-in %s has no implementation", b.Name)
		}

		in.globals.Set(b.Name, FuncValue(&Native{
			name:     b.Name,
			params:   b.Params,
			fn:       b.Fn,
			variadic: b.Variadic,
		}, Position{}))

		in.opts.logger.Trace("register built-in",
			slog.String("name", b.Name),
			slog.Int("params", len(b.Params)),
			slog.Bool("variadic", b.Variadic))
	}

	return nil
}

// Globals returns the global scope.
func (in *Interpreter) Globals() *Env { return in.globals }

// Run parses and executes src in the global scope.
func (in *Interpreter) Run(ctx context.Context, src string) (Value, error) {
	ast, err := parseSource(ctx, src, in.opts)
	if err != nil {
		return None(Position{}), err
	}

	return in.Exec(ctx, ast)
}

// RunReader reads, parses, and executes a program. Parsed programs are
// cached by content.
func (in *Interpreter) RunReader(ctx context.Context, r io.Reader) (Value, error) {
	ast, err := parseReader(ctx, r, in.opts)
	if err != nil {
		return None(Position{}), err
	}

	return in.Exec(ctx, ast)
}

// Exec executes a parsed program in the global scope. It returns the value
// of the last top-level statement, or of a top-level return.
func (in *Interpreter) Exec(ctx context.Context, ast *AST) (Value, error) {
	in.depth = 0

	v, err := in.eval(ctx, ast.Root, in.globals)
	if sig, ok := asReturn(err); ok {
		return sig.value, nil
	}

	return v, err
}

// Eval evaluates node in env. A return reached outside any function ends
// evaluation with its value.
func (in *Interpreter) Eval(ctx context.Context, node Node, env *Env) (Value, error) {
	v, err := in.eval(ctx, node, env)
	if sig, ok := asReturn(err); ok {
		return sig.value, nil
	}

	return v, err
}

func (in *Interpreter) input() *bufio.Reader {
	if in.stdin == nil {
		r := in.opts.stdin
		if r == nil {
			r = eofReader{}
		}

		in.stdin = bufio.NewReader(r)
	}

	return in.stdin
}

func (in *Interpreter) processEnv() []string {
	if in.opts.processEnv != nil {
		return in.opts.processEnv
	}

	return os.Environ()
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

func isIdentifier(s string) bool {
	if s == "" || isKeyword(s) {
		return false
	}

	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) || !isIdentifierContinue(r) {
			return false
		}
	}

	return true
}
