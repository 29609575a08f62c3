package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "lib.ql", "func double(x) { return x * 2; };\n")
	main := writeFile(t, dir, "main.ql", `print("double: {}", double(21));`+"\n")

	tests := []struct {
		name     string
		run      Run
		stdin    string
		settings Settings
		want     string
	}{
		{
			name: "shared_globals",
			run:  Run{Source: []string{lib, main}},
			want: "double: 42\n",
		},
		{
			name: "duplicate_source",
			run:  Run{Source: []string{lib, main, lib, main}},
			want: "double: 42\n",
		},
		{
			name:  "stdin_default",
			stdin: `print("from stdin");`,
			want:  "from stdin\n",
		},
		{
			name: "expressions_after_sources",
			run:  Run{Source: []string{lib}, Expr: []string{"let n = double(2);", `print("{}", n);`}},
			want: "4\n",
		},
		{
			name:     "defines",
			run:      Run{Expr: []string{`print("{}", n + 1);`}},
			settings: Settings{Defines: []string{"n=2+3"}},
			want:     "6\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout, _ := testContext(t, tt.stdin, tt.settings)

			require.NoError(t, tt.run.Run(ctx))
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestRun_ScriptError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fail.ql", "let a = 1;\nassert a == 2;\n")

	ctx, _, stderr := testContext(t, "", Settings{})

	err := (&Run{Source: []string{path}}).Run(ctx)
	require.ErrorIs(t, err, ErrScript)

	assert.Contains(t, stderr.String(), path)
	assert.Contains(t, stderr.String(), "assert a == 2;")
	assert.Contains(t, stderr.String(), "^")
}

func TestRun_SyntaxError(t *testing.T) {
	ctx, _, stderr := testContext(t, "", Settings{})

	err := (&Run{Expr: []string{"let = 1;"}}).Run(ctx)
	require.ErrorIs(t, err, ErrScript)
	assert.Contains(t, stderr.String(), "<expr 1>")
}

func TestRun_MaxCallDepth(t *testing.T) {
	ctx, _, _ := testContext(t, "", Settings{MaxCallDepth: 10})

	err := (&Run{Expr: []string{
		"func down(n) { if n == 0 { return 0; }; return down(n - 1); };",
		"down(50);",
	}}).Run(ctx)
	require.ErrorIs(t, err, ErrScript)
}

func TestScriptError_Timeout(t *testing.T) {
	ctx, _, _ := testContext(t, "", Settings{})

	err := scriptError(ctx, "slow.ql", "", context.DeadlineExceeded)
	require.ErrorIs(t, err, ErrTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
