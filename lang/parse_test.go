package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string, opts ...Option) *AST {
	t.Helper()

	ast, err := ParseString(t.Context(), src, opts...)
	require.NoError(t, err, "parse %q", src)

	return ast
}

func TestParse_LeftAssociative(t *testing.T) {
	ast := mustParse(t, "3 * 3 * 5;")
	require.Len(t, ast.Root.Statements, 1)

	outer, ok := ast.Root.Statements[0].(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, TokenStar, outer.Op.Kind)
	assert.Equal(t, "5", outer.Right.String())

	inner, ok := outer.Left.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "3", inner.Left.String())
	assert.Equal(t, "3", inner.Right.String())
}

func TestParse_PowerRightAssociative(t *testing.T) {
	ast := mustParse(t, "2 ^ 3 ^ 2;")

	outer, ok := ast.Root.Statements[0].(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "2", outer.Left.String())

	_, ok = outer.Right.(*BinaryOp)
	assert.True(t, ok, "right operand should be the nested power")
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3));"},
		{"(1 + 2) * 3;", "((1 + 2) * 3);"},
		{"-2 ^ 2;", "((-2) ^ 2);"},
		{"a < b and c >= d or e;", "(((a < b) and (c >= d)) or e);"},
		{"not a == b;", "(not (a == b));"},
		{"f(1)(2);", "f(1)(2);"},
		{"2 * f(x) ^ 2;", "(2 * (f(x) ^ 2));"},
		{"let x = y = 1;", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ast, err := ParseString(t.Context(), tt.input)
			if tt.want == "" {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, ast.Root.String())
		})
	}
}

func TestParse_Statements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{"empty", "", 0},
		{"comment only", "# nothing\n", 0},
		{"lets", "let a = 1; let b = 2;", 2},
		{"return without semicolon", "return 1", 1},
		{"bare return", "return;", 1},
		{"if else chain", "if a { 1; } else if b { 2; } else { 3; };", 1},
		{"empty function", "func f() { };", 1},
		{"function with return", "func add(a, b) { return a + b; };", 1},
		{"list", "[1, 2.5, \"three\", []];", 1},
		{"assert", "assert 1 == 1;", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast := mustParse(t, tt.input)
			assert.Len(t, ast.Root.Statements, tt.count)
		})
	}
}

func TestParse_BareReturnValue(t *testing.T) {
	ast := mustParse(t, "func f() { return };")

	def, ok := ast.Root.Statements[0].(*FuncDef)
	require.True(t, ok)
	require.Len(t, def.Body.Statements, 1)

	ret, ok := def.Body.Statements[0].(*Return)
	require.True(t, ok)
	assert.Nil(t, ret.Value)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		pos        Position
		contains   string
		incomplete bool
	}{
		{
			name:     "missing semicolon",
			input:    "let a = 1 let b = 2;",
			pos:      Position{1, 11},
			contains: `expected ';', found keyword "let"`,
		},
		{
			name:       "missing semicolon at end",
			input:      "let a = 1",
			pos:        Position{1, 9},
			contains:   "found end of input",
			incomplete: true,
		},
		{
			name:       "unclosed block",
			input:      "if 1 { let a = 2;",
			pos:        Position{1, 17},
			contains:   "expected '}'",
			incomplete: true,
		},
		{
			name:     "let without name",
			input:    "let 1 = 2;",
			pos:      Position{1, 5},
			contains: "expected identifier",
		},
		{
			name:     "bad assignment operator",
			input:    "let a == 2;",
			pos:      Position{1, 7},
			contains: "expected assignment operator",
		},
		{
			name:     "unmatched close",
			input:    "1; }",
			pos:      Position{1, 4},
			contains: "unexpected '}'",
		},
		{
			name:     "missing expression",
			input:    "let a = ;",
			pos:      Position{1, 9},
			contains: "expected expression",
		},
		{
			name:     "func without parens",
			input:    "func f { };",
			pos:      Position{1, 8},
			contains: "expected '('",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(t.Context(), tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParser)

			var ee *Error
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, tt.pos, ee.Pos())
			assert.Contains(t, ee.Message(), tt.contains)
			assert.Equal(t, tt.incomplete, IsIncomplete(err))
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 40) + "1" + strings.Repeat(")", 40) + ";"

	_, err := ParseString(t.Context(), deep, WithMaxDepth(64))
	require.NoError(t, err)

	_, err = ParseString(t.Context(), deep, WithMaxDepth(16))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParser)
	assert.Contains(t, err.Error(), "maximum depth 16")

	chains := map[string]string{
		"not":    strings.Repeat("not ", 100) + "1;",
		"assert": strings.Repeat("assert ", 100) + "1;",
		"let":    strings.Repeat("let a = ", 100) + "1;",
	}

	for name, src := range chains {
		t.Run(name, func(t *testing.T) {
			_, err := ParseString(t.Context(), src, WithMaxDepth(50))
			require.ErrorIs(t, err, ErrParser)
			assert.Contains(t, err.Error(), "maximum depth 50")

			_, err = ParseString(t.Context(), src, WithMaxDepth(512))
			require.NoError(t, err)
		})
	}
}

func TestParse_AppendsEOF(t *testing.T) {
	tokens, err := Tokenize("1 + 2;")
	require.NoError(t, err)

	ast, err := Parse(t.Context(), tokens[:len(tokens)-1])
	require.NoError(t, err)
	assert.Equal(t, "(1 + 2);", ast.Root.String())

	ast, err = Parse(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, ast.Root.Statements)
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3 - 4 / 5",
		"2 ^ 3 ^ 2",
		"(2 ^ 3) ^ 2",
		"-x + +y",
		"-(f(x))",
		"- - 1",
		"not not a",
		"a == b != c",
		"a < b and b <= c or not d",
		`"quote \" and \\ and \n"`,
		"f()",
		"g(1, h(2), [3, 4])",
		"[1, [2, [3]]] + []",
		"1.5 * 2",
		"if a { 1; } else if b { 2; } else { 3; }",
		"if a { }",
		"func f(a, b) { let c = a; let c += b; return c; }",
		"func g() { return; }",
		"let x = if 1 { 2; }",
		"let y *= (let z = 3)",
		"assert (1 + 1) == 2",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := mustParse(t, in+";")
			text := first.Root.String()

			second := mustParse(t, text)
			assert.Equal(t, text, second.Root.String())
			assert.Equal(t, toTreeNoPos(first.Root), toTreeNoPos(second.Root))
		})
	}
}

// toTreeNoPos serializes n without positions.
func toTreeNoPos(n Node) *treeNode {
	t := toTree(n)

	var strip func(*treeNode)

	strip = func(t *treeNode) {
		t.Pos = Position{}
		for _, c := range t.Children {
			strip(c)
		}
	}

	strip(t)

	return t
}

func TestNode_Pos(t *testing.T) {
	ast := mustParse(t, "let a = 1;\nfunc f() { };\n[];\nf();\nreturn -a;")

	var count int

	Walk(ast.Root, func(n Node) bool {
		count++

		assert.False(t, n.Pos().IsInternal(), "%T has no position", n)

		return true
	})

	assert.Greater(t, count, 5)

	empty := mustParse(t, "if 1 { };")
	ifNode, ok := empty.Root.Statements[0].(*If)
	require.True(t, ok)
	assert.Equal(t, Position{1, 6}, ifNode.Then.Pos())
}
