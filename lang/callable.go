package lang

import (
	"bufio"
	"context"
	"io"
)

// Callable is a function value: either a [Closure] defined in source or a
// [Native] registered by the host.
type Callable interface {
	Name() string
	Params() []string

	callable()
}

// Closure is a function defined in source. Env is the scope that was active
// at the definition, so free variables resolve lexically.
type Closure struct {
	name   string
	params []string
	body   *Sequence
	env    *Env
}

// Name returns the function name.
func (c *Closure) Name() string { return c.name }

// Params returns the parameter names.
func (c *Closure) Params() []string { return c.params }

// Body returns the function body.
func (c *Closure) Body() *Sequence { return c.body }

func (*Closure) callable() {}

// NativeFunc implements a built-in.
type NativeFunc func(ctx context.Context, call *Call) (Value, error)

// Native is a host function registered with [Interpreter.Register].
type Native struct {
	name     string
	params   []string
	fn       NativeFunc
	variadic bool
}

// Name returns the built-in name.
func (n *Native) Name() string { return n.name }

// Params returns the required parameter names.
func (n *Native) Params() []string { return n.params }

// Variadic reports whether arguments past Params are accepted.
func (n *Native) Variadic() bool { return n.variadic }

func (*Native) callable() {}

// Call is the invocation record passed to a [NativeFunc].
//
// Args holds the unevaluated argument nodes and Values their results,
// evaluated left to right in the caller's scope. Env is the fresh call scope
// with the declared parameters bound.
type Call struct {
	Env    *Env
	interp *Interpreter
	Name   string
	Args   []Node
	Values []Value
	Pos    Position
}

// Arg returns the i'th evaluated argument, or None when absent.
func (c *Call) Arg(i int) Value {
	if i < 0 || i >= len(c.Values) {
		return None(c.Pos)
	}

	return c.Values[i]
}

// ArgPos returns the source position of the i'th argument, falling back to
// the call site.
func (c *Call) ArgPos(i int) Position {
	if i < 0 || i >= len(c.Args) {
		return c.Pos
	}

	return c.Args[i].Pos()
}

// Eval evaluates node in the call scope. Built-ins use it to evaluate their
// raw argument nodes again on their own terms.
func (c *Call) Eval(ctx context.Context, node Node) (Value, error) {
	return c.interp.eval(ctx, node, c.Env)
}

// Output returns the writer for program output.
func (c *Call) Output() io.Writer { return c.interp.opts.stdout }

// Input returns the reader for program input.
func (c *Call) Input() *bufio.Reader { return c.interp.input() }

// ProcessEnv returns the "KEY=VALUE" list configured for the interpreter.
func (c *Call) ProcessEnv() []string { return c.interp.processEnv() }
