package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefine(t *testing.T) {
	in, _ := newTestInterpreter(t, WithProcessEnv([]string{"USER=quill", "N=7"}))

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"answer", "6 * 7", "42"},
		{"ratio", "1.5 + 1", "2.5"},
		{"joined", `"a" + "b"`, `"ab"`},
		{"truthy", "1 < 2", "1"},
		{"items", `[1, "x"]`, `[1, "x"]`},
		{"login", `env("USER")`, `"quill"`},
		{"next", "answer + 1", "43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, in.Define(t.Context(), tt.name, tt.source))

			v, ok := in.Globals().Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.Repr())
		})
	}

	v, err := in.Run(t.Context(), "answer * 2;")
	require.NoError(t, err)
	assert.Equal(t, int32(84), v.Int)
}

func TestDefine_Errors(t *testing.T) {
	in := New()

	assert.ErrorIs(t, in.Define(t.Context(), "if", "1"), ErrArgument)
	assert.ErrorIs(t, in.Define(t.Context(), "x", "1 +"), ErrArgument)
	assert.ErrorIs(t, in.Define(t.Context(), "x", "undefinedName"), ErrArgument)
	assert.ErrorIs(t, in.Define(t.Context(), "x", `{"a": 1}`), ErrArgument)
	assert.ErrorIs(t, in.Define(t.Context(), "x", "9999999999"), ErrArgument)
}

func TestParseDefine(t *testing.T) {
	name, src, err := ParseDefine("greeting = \"hi\" + \"!\"")
	require.NoError(t, err)
	assert.Equal(t, "greeting", name)
	assert.Equal(t, ` "hi" + "!"`, src)

	for _, bad := range []string{"", "noequals", "=1", "1x=2", "let=1", "x= "} {
		_, _, err := ParseDefine(bad)
		assert.ErrorIs(t, err, ErrArgument, bad)
	}
}
