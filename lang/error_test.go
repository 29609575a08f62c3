package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "positioned",
			err:  ErrType.At(Position{3, 7}).Msg("bad operand"),
			want: "TypeError: bad operand at line 3, column 7",
		},
		{
			name: "internal",
			err:  ErrArgument.Msg("no name"),
			want: "ArgumentError: no name [internal error]",
		},
		{
			name: "wrapped",
			err:  ErrIO.At(Position{1, 1}).Msg("read input").Wrap(io.ErrUnexpectedEOF),
			want: "IOError: read input at line 1, column 1: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	err := ErrParser.At(Position{1, 2}).Msg("expected ';'")

	assert.ErrorIs(t, err, ErrParser)
	assert.ErrorIs(t, err, ErrParser.Msg("expected ';'"))
	assert.NotErrorIs(t, err, ErrParser.Msg("something else"))
	assert.NotErrorIs(t, err, ErrSyntax)

	wrapped := fmt.Errorf("running: %w", err)
	assert.ErrorIs(t, wrapped, ErrParser)

	cause := ErrIO.Wrap(io.EOF)
	assert.ErrorIs(t, cause, io.EOF)
}

func TestError_Immutable(t *testing.T) {
	a := ErrType.At(Position{1, 1})
	b := a.Msg("changed")

	assert.Empty(t, a.Message())
	assert.Equal(t, "changed", b.Message())
	assert.True(t, ErrType.Pos().IsInternal())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil))

	ee := ErrAssert.At(Position{2, 2})
	assert.Same(t, ee, WrapError(fmt.Errorf("ctx: %w", ee)))

	foreign := WrapError(io.ErrClosedPipe)
	assert.Equal(t, KindIO, foreign.Kind())
	assert.ErrorIs(t, foreign, io.ErrClosedPipe)
}

func TestError_LogValue(t *testing.T) {
	err := ErrUndefinedVariable.At(Position{4, 2}).
		Msg("x is not defined").
		With(slog.String("name", "x"))

	attrs := map[string]string{}
	for _, a := range err.LogValue().Group() {
		attrs[a.Key] = a.Value.String()
	}

	assert.Equal(t, "UndefinedVariable", attrs["kind"])
	assert.Equal(t, "x is not defined", attrs["error"])
	assert.Equal(t, "line 4, column 2", attrs["pos"])
	assert.Equal(t, "x", attrs["name"])
}

func TestError_Snippet(t *testing.T) {
	src := "let a = 1;\nlet b = a + nope;\n"

	_, err := ParseString(t.Context(), src)
	require.NoError(t, err)

	in, _ := newTestInterpreter(t)
	_, err = in.Run(t.Context(), src)

	var ee *Error
	require.True(t, errors.As(err, &ee))
	assert.Equal(t,
		"  2 | let b = a + nope;\n"+strings.Repeat(" ", 18)+"^\n",
		ee.Snippet(src))

	assert.Empty(t, ErrType.Snippet(src))
	assert.Empty(t, ErrType.At(Position{9, 1}).Snippet(src))
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"func f() {", true},
		{"let s = \"open", true},
		{"print(1,", true},
		{"let a = 1", true},
		{"let a = ;", false},
		{"1 @ 2;", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseString(t.Context(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.want, IsIncomplete(err))
		})
	}

	assert.False(t, IsIncomplete(nil))
	assert.False(t, IsIncomplete(io.EOF))
}
