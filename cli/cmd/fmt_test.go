package cmd

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fmtInput = "let   a=1+2*3;\nprint(\"{}\",a);\n"

func TestFmt_Source(t *testing.T) {
	ctx, stdout, _ := testContext(t, fmtInput, Settings{})

	require.NoError(t, (&Source{Input: Input{Source: "-"}, Indent: 2}).Run(ctx))
	assert.Equal(t, "let a = (1 + (2 * 3));\nprint(\"{}\", a);\n", stdout.String())
}

func TestFmt_SourceFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.ql", "let x=[1,2];")
	ctx, stdout, _ := testContext(t, "", Settings{})

	require.NoError(t, (&Source{Input: Input{Source: path}}).Run(ctx))
	assert.Equal(t, "let x = [1, 2];\n", stdout.String())
}

func TestFmt_JSON(t *testing.T) {
	ctx, stdout, _ := testContext(t, fmtInput, Settings{})

	require.NoError(t, (&JSON{Input: Input{Source: "-"}, Indent: 2}).Run(ctx))

	var tree map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &tree))
	assert.Equal(t, "Sequence", tree["kind"])
	assert.Len(t, tree["children"], 2)
}

func TestFmt_YAML(t *testing.T) {
	ctx, stdout, _ := testContext(t, fmtInput, Settings{})

	require.NoError(t, (&YAML{Input: Input{Source: "-"}, Indent: 2}).Run(ctx))

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &tree))
	assert.Equal(t, "Sequence", tree["kind"])
}

func TestFmt_AST(t *testing.T) {
	ctx, stdout, _ := testContext(t, fmtInput, Settings{})

	require.NoError(t, (&AST{Input: Input{Source: "-"}}).Run(ctx))
	assert.Contains(t, stdout.String(), "Sequence")
	assert.Contains(t, stdout.String(), "FuncCall")
}

func TestFmt_Tokens(t *testing.T) {
	ctx, stdout, _ := testContext(t, `let s = "q";`, Settings{})

	require.NoError(t, (&Tokens{Input: Input{Source: "-"}}).Run(ctx))
	assert.Contains(t, stdout.String(), `Text:`)
	assert.Contains(t, stdout.String(), `"q"`)
}

func TestFmt_Errors(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		ctx, _, _ := testContext(t, "let = ;", Settings{})

		require.Error(t, (&Source{Input: Input{Source: "-"}}).Run(ctx))
	})

	t.Run("max_depth", func(t *testing.T) {
		ctx, _, _ := testContext(t, "((((((1))))));", Settings{MaxDepth: 3})

		require.Error(t, (&JSON{Input: Input{Source: "-"}}).Run(ctx))
	})

	t.Run("missing_file", func(t *testing.T) {
		ctx, _, _ := testContext(t, "", Settings{})

		err := (&AST{Input: Input{Source: "/nonexistent/in.ql"}}).Run(ctx)
		require.ErrorIs(t, err, ErrReadSource)
	})

	t.Run("invalid_token", func(t *testing.T) {
		ctx, _, _ := testContext(t, "let a = 1 @ 2;", Settings{})

		require.Error(t, (&Tokens{Input: Input{Source: "-"}}).Run(ctx))
	})
}
