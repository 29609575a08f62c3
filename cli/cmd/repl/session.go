package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
)

// Complete returns src ready to run. When src only lacks a final ';' the
// terminator is supplied. Any other incomplete input is returned with an
// error for which [lang.IsIncomplete] reports true.
func Complete(ctx context.Context, src string) (string, error) {
	_, err := lang.ParseString(ctx, src)
	if err == nil || !lang.IsIncomplete(err) {
		return src, err
	}

	terminated := strings.TrimRight(src, " \t\r\n") + ";"
	if _, terr := lang.ParseString(ctx, terminated); terr == nil {
		return terminated, nil
	}

	return src, err
}

// Session is an interpreter whose global scope persists across inputs.
type Session struct {
	interp  *lang.Interpreter
	logger  log.Logger
	timeout time.Duration
}

// NewSession returns a session evaluating with interp. A positive timeout
// bounds each evaluation.
func NewSession(
	interp *lang.Interpreter,
	logger log.Logger,
	timeout time.Duration,
) *Session {
	return &Session{interp: interp, logger: logger, timeout: timeout}
}

func (s *Session) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}

	return context.WithCancel(ctx)
}

// Eval runs one input, supplying a missing final ';'.
func (s *Session) Eval(ctx context.Context, input string) (lang.Value, error) {
	src, err := Complete(ctx, input)
	if err != nil {
		return lang.Value{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	v, err := s.interp.Run(ctx, src)

	s.logger.TraceContext(ctx, "repl eval result",
		slog.String("type", v.Type.String()),
		slog.Bool("error", err != nil))

	return v, err
}

// Exec runs a parsed program.
func (s *Session) Exec(ctx context.Context, ast *lang.AST) (lang.Value, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	return s.interp.Exec(ctx, ast)
}

// Names returns the completion candidates: every global binding followed by
// the keywords.
func (s *Session) Names() []string {
	return append(s.interp.Globals().Names(), lang.Keywords()...)
}

// IsFunction reports whether name is bound to a function.
func (s *Session) IsFunction(name string) bool {
	_, ok := s.callable(name)

	return ok
}

// Binding is a global name and its value.
type Binding struct {
	Name  string
	Value lang.Value
}

// Bindings returns the global bindings in name order. Built-ins are omitted
// unless builtins is set.
func (s *Session) Bindings(builtins bool) []Binding {
	var bs []Binding

	for name, v := range s.interp.Globals().Locals() {
		if _, native := v.Fn.(*lang.Native); native && !builtins {
			continue
		}

		bs = append(bs, Binding{Name: name, Value: v})
	}

	return bs
}

// Signature returns the display signature of the function bound to name and
// its parameter names, with a variadic final parameter prefixed by "...".
func (s *Session) Signature(name string) (signature string, params []string) {
	fn, ok := s.callable(name)
	if !ok {
		return "", nil
	}

	params = slices.Clone(fn.Params())

	if n, ok := fn.(*lang.Native); ok && n.Variadic() {
		params = append(params, "...")
	}

	return name + "(" + strings.Join(params, ", ") + ")", params
}

func (s *Session) callable(name string) (lang.Callable, bool) {
	v, ok := s.interp.Globals().Get(name)
	if !ok || v.Type != lang.TypeFunction || v.Fn == nil {
		return nil, false
	}

	return v.Fn, true
}
