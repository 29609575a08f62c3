package lang

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestInterpreter returns an interpreter with the standard built-ins and
// its output captured.
func newTestInterpreter(t *testing.T, opts ...Option) (*Interpreter, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	in := New(append([]Option{WithOutput(&out), WithInput(strings.NewReader(""))}, opts...)...)
	require.NoError(t, in.Register(Stdlib()...))

	return in, &out
}

func run(t *testing.T, src string, opts ...Option) (Value, error) {
	t.Helper()

	in, _ := newTestInterpreter(t, opts...)

	return in.Run(t.Context(), src)
}

func mustRun(t *testing.T, src string, opts ...Option) Value {
	t.Helper()

	v, err := run(t, src, opts...)
	require.NoError(t, err, "run %q", src)

	return v
}

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"3 * 3 * 5;", IntValue(45, Position{})},
		{"2 ^ 3 ^ 2;", IntValue(512, Position{})},
		{"1 + 2.5;", FloatValue(3.5, Position{})},
		{"4 / 2;", IntValue(2, Position{})},
		{"7 / 2;", IntValue(3, Position{})},
		{"-7 / 2;", IntValue(-3, Position{})},
		{"7.0 / 2;", FloatValue(3.5, Position{})},
		{"2 - 5;", IntValue(-3, Position{})},
		{"2 ^ 0;", IntValue(1, Position{})},
		{"4 ^ 0.5;", FloatValue(2, Position{})},
		{"-(2 + 3);", IntValue(-5, Position{})},
		{"+4;", IntValue(4, Position{})},
		{"2147483647 + 1;", IntValue(math.MinInt32, Position{})},
		{"[1, 2] + [3];", ListValue([]Value{
			IntValue(1, Position{}), IntValue(2, Position{}), IntValue(3, Position{}),
		}, Position{})},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustRun(t, tt.input)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want.Repr(), got.Repr())
		})
	}
}

func TestEval_Logic(t *testing.T) {
	tests := []struct {
		input string
		want  int32
	}{
		{"1 < 2;", 1},
		{"2 <= 2;", 1},
		{"3 > 4;", 0},
		{"1 == 1.0;", 1},
		{"1 != 2;", 1},
		{"2.5 >= 3;", 0},
		{"1 and 0;", 0},
		{"1 and 5;", 1},
		{"0 or 7;", 1},
		{"not 0;", 1},
		{"not 3;", 0},
		{"not 1 == 2;", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustRun(t, tt.input)
			require.Equal(t, TypeInteger, got.Type)
			assert.Equal(t, tt.want, got.Int)
		})
	}
}

func TestEval_NaNComparison(t *testing.T) {
	in, _ := newTestInterpreter(t)
	in.Globals().Set("nan", FloatValue(float32(math.NaN()), Position{}))

	for src, want := range map[string]int32{
		"nan == nan;": 0,
		"nan != nan;": 1,
		"nan < 1;":    0,
		"nan > 1;":    0,
		"nan >= nan;": 0,
	} {
		v, err := in.Run(t.Context(), src)
		require.NoError(t, err)
		assert.Equal(t, want, v.Int, src)
	}
}

func TestEval_TypeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  *Error
		pos   Position
		msg   string
	}{
		{"string plus int", `"a" + 1;`, ErrType, Position{1, 5}, `"a" and 1`},
		{"string plus string", `"ab" + "cd";`, ErrType, Position{1, 6}, `"ab" and "cd"`},
		{"string compare", `"a" < "b";`, ErrType, Position{1, 5}, "unsupported operands for <"},
		{"list compare", "[1] == [1];", ErrType, Position{1, 5}, "unsupported operands for =="},
		{"and on float", "1.0 and 1;", ErrType, Position{1, 5}, "unsupported operands for and"},
		{"not on string", `not "x";`, ErrType, Position{1, 1}, "not must be Integer"},
		{"negate string", `-"x";`, ErrType, Position{1, 1}, "unary -"},
		{"float condition", "if 1.0 { 1; };", ErrType, Position{1, 4}, "if condition must be Integer"},
		{"call non-function", "let a = 1; a();", ErrType, Position{1, 12}, "a is not a function"},
		{"call expression", "(1)(2);", ErrType, Position{1, 2}, "cannot call 1"},
		{"division by zero", "1 / 0;", ErrInvalidOperation, Position{1, 3}, "division by zero"},
		{"negative exponent", "2 ^ -1;", ErrInvalidOperation, Position{1, 3}, "negative integer exponent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var ee *Error
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, tt.pos, ee.Pos())
			assert.Contains(t, ee.Message(), tt.msg)
		})
	}
}

func TestEval_FloatDivisionByZero(t *testing.T) {
	v := mustRun(t, "1.0 / 0;")
	assert.True(t, math.IsInf(float64(v.Float), 1))
}

func TestEval_UndefinedVariable(t *testing.T) {
	_, err := run(t, "let a = 1;\nlet b = a + missing;")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndefinedVariable)

	var ee *Error
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, Position{2, 13}, ee.Pos())
	assert.Contains(t, ee.Message(), "missing")

	_, err = run(t, "let nope += 1;")
	assert.ErrorIs(t, err, ErrUndefinedVariable)
}

func TestEval_CompoundAssign(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"let n = 2; let n += 5; n;", IntValue(7, Position{})},
		{"let n = 2; let n -= 5; n;", IntValue(-3, Position{})},
		{"let n = 2; let n *= 5; n;", IntValue(10, Position{})},
		{"let n = 20; let n /= 5; n;", IntValue(4, Position{})},
		{"let n = 1; let n /= 2.0; n;", FloatValue(0.5, Position{})},
		{`let s = "a"; let s += "b"; s;`, StringValue("ab", Position{})},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustRun(t, tt.input)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want.Repr(), got.Repr())
		})
	}
}

func TestEval_AssignYieldsNone(t *testing.T) {
	assert.Equal(t, TypeNone, mustRun(t, "let a = 1;").Type)
	assert.Equal(t, TypeNone, mustRun(t, "func f() { };").Type)
}

func TestEval_If(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"if 1 { 10; } else { 20; };", IntValue(10, Position{})},
		{"if 0 { 10; } else { 20; };", IntValue(20, Position{})},
		{"if 0 { 10; };", None(Position{})},
		{"if 0 { 1; } else if 0 { 2; } else if 1 { 3; } else { 4; };", IntValue(3, Position{})},
		{"let x = if 2 > 1 { \"yes\"; } else { \"no\"; }; x;", StringValue("yes", Position{})},
		{"if 1 { };", None(Position{})},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustRun(t, tt.input)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want.Repr(), got.Repr())
		})
	}
}

func TestEval_ScopeSingleFramePerCall(t *testing.T) {
	src := `
func f() {
  let x = 1;
  if 1 { let x = 2; };
  return x;
};
f();`

	v := mustRun(t, src)
	assert.Equal(t, int32(2), v.Int, "if branches share the call scope")
}

func TestEval_CallScopeDoesNotLeak(t *testing.T) {
	src := `
let x = 1;
func f() { let x = 99; let y = 3; };
f();
x;`

	in, _ := newTestInterpreter(t)

	v, err := in.Run(t.Context(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v.Int)

	_, ok := in.Globals().Get("y")
	assert.False(t, ok)
}

func TestEval_Functions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{
			name:  "return value",
			input: "func add(a, b) { return a + b; }; add(2, 3);",
			want:  IntValue(5, Position{}),
		},
		{
			name:  "no return yields none",
			input: "func f() { 42; }; f();",
			want:  None(Position{}),
		},
		{
			name:  "bare return",
			input: "func f() { return; 1; }; f();",
			want:  None(Position{}),
		},
		{
			name:  "return from nested if",
			input: "func sign(n) { if n < 0 { return -1; } else if n == 0 { return 0; }; return 1; }; sign(-5) + sign(0) * 10 + sign(9) * 100;",
			want:  IntValue(99, Position{}),
		},
		{
			name:  "recursion",
			input: "func fib(n) { if n < 2 { return n; }; return fib(n - 1) + fib(n - 2); }; fib(15);",
			want:  IntValue(610, Position{}),
		},
		{
			name:  "closure captures definition scope",
			input: "func outer() { let secret = 7; func inner() { return secret; }; return inner; }; let g = outer(); g();",
			want:  IntValue(7, Position{}),
		},
		{
			name:  "free variables resolve lexically",
			input: "let v = \"global\"; func show() { return v; }; func caller() { let v = \"local\"; return show(); }; caller();",
			want:  StringValue("global", Position{}),
		},
		{
			name:  "top-level return ends program",
			input: "return 3; 4;",
			want:  IntValue(3, Position{}),
		},
		{
			name:  "arguments evaluated in caller scope",
			input: "let a = 5; func f(a) { return a * 2; }; f(a + 1);",
			want:  IntValue(12, Position{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, tt.input)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want.Repr(), got.Repr())
		})
	}
}

func TestEval_ArgumentOrder(t *testing.T) {
	in, out := newTestInterpreter(t)

	_, err := in.Run(t.Context(), `
func tag(s) { print(s); return s; };
func three(a, b, c) { return a + b + c; };
three(tag("a"), tag("b"), tag("c"));`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", out.String())
}

func TestEval_Arity(t *testing.T) {
	_, err := run(t, "func f(a, b) { return a; }; f(1);")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrType)
	assert.Contains(t, err.Error(), "expected 2, got 1")

	_, err = run(t, `print();`)
	assert.ErrorIs(t, err, ErrType)
	assert.Contains(t, err.Error(), "expected at least 1, got 0")
}

func TestEval_Assert(t *testing.T) {
	v := mustRun(t, "assert 1;")
	assert.Equal(t, int32(1), v.Int)

	_, err := run(t, "let a = 1;\nassert   a - 1;")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssert)

	var ee *Error
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, Position{2, 10}, ee.Pos())
	assert.Equal(t, "assertion failed: (a - 1)", ee.Message())

	_, err = run(t, `assert "yes";`)
	assert.ErrorIs(t, err, ErrAssert)
}

func TestEval_List(t *testing.T) {
	v := mustRun(t, `let xs = [1, "two", 3.0]; let xs += [[4]]; xs;`)
	require.Equal(t, TypeList, v.Type)
	assert.Equal(t, `[1, "two", 3.0, [4]]`, v.Repr())
}

func TestEval_CallDepth(t *testing.T) {
	src := "func down(n) { if n == 0 { return 0; }; return down(n - 1); };"

	v := mustRun(t, src+"down(30);", WithMaxCallDepth(64))
	assert.Equal(t, int32(0), v.Int)

	_, err := run(t, src+"down(100);", WithMaxCallDepth(64))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecursion)

	_, err = run(t, "func loop() { return loop(); }; loop();")
	assert.ErrorIs(t, err, ErrRecursion)
}

func TestEval_DepthResetsAfterError(t *testing.T) {
	in, _ := newTestInterpreter(t, WithMaxCallDepth(8))

	_, err := in.Run(t.Context(), "func loop() { return loop(); }; loop();")
	require.ErrorIs(t, err, ErrRecursion)

	v, err := in.Run(t.Context(), "func one() { return 1; }; one();")
	require.NoError(t, err)
	assert.Equal(t, int32(1), v.Int)
}

func TestEval_Cancellation(t *testing.T) {
	in, _ := newTestInterpreter(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := in.Run(ctx, "1; 2;")
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	// Shallow but exponential; only the deadline can stop it.
	_, err = in.Run(ctx,
		"func f(n) { if n == 0 { return 0; }; return f(n - 1) + f(n - 1); }; f(40);")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEval_Globals(t *testing.T) {
	in, _ := newTestInterpreter(t)

	_, err := in.Run(t.Context(), "let a = 1;")
	require.NoError(t, err)

	_, err = in.Run(t.Context(), "let b = a + 1;")
	require.NoError(t, err)

	b, ok := in.Globals().Get("b")
	require.True(t, ok)
	assert.Equal(t, int32(2), b.Int)
	assert.Contains(t, in.Globals().Names(), "print")
}

func TestRegister(t *testing.T) {
	in := New()

	err := in.Register(Builtin{
		Name:   "twice",
		Params: []string{"x"},
		Fn: func(_ context.Context, call *Call) (Value, error) {
			x, ok := call.Env.Local("x")
			require.True(t, ok)
			require.Len(t, call.Args, 1)

			return binaryOp(Token{Kind: TokenStar, Pos: call.Pos}, x, IntValue(2, call.Pos))
		},
	})
	require.NoError(t, err)

	v, err := in.Run(t.Context(), "twice(21);")
	require.NoError(t, err)
	assert.Equal(t, int32(42), v.Int)

	assert.ErrorIs(t, in.Register(Builtin{Name: "let", Fn: builtinStr}), ErrArgument)
	assert.ErrorIs(t, in.Register(Builtin{Name: "9lives", Fn: builtinStr}), ErrArgument)
	assert.ErrorIs(t, in.Register(Builtin{Name: "nofn"}), ErrArgument)
}

func TestExec_SharedAST(t *testing.T) {
	ast := mustParse(t, "let n = 1; let n += 1; n;")

	for range 3 {
		in, _ := newTestInterpreter(t)

		v, err := in.Exec(t.Context(), ast)
		require.NoError(t, err)
		assert.Equal(t, int32(2), v.Int)
	}
}
