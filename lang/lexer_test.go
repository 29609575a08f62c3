package lang

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []TokenKind
		texts []string
	}{
		{
			name:  "empty",
			input: "",
			kinds: []TokenKind{TokenEOF},
			texts: []string{""},
		},
		{
			name:  "let statement",
			input: "let x = 42;",
			kinds: []TokenKind{TokenKeyword, TokenIdent, TokenAssign, TokenInt, TokenSemicolon, TokenEOF},
			texts: []string{"let", "x", "=", "42", ";", ""},
		},
		{
			name:  "compound operators",
			input: "+= -= *= /= == != <= >= < >",
			kinds: []TokenKind{
				TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
				TokenEq, TokenNe, TokenLe, TokenGe, TokenLt, TokenGt, TokenEOF,
			},
		},
		{
			name:  "float",
			input: "3.25",
			kinds: []TokenKind{TokenFloat, TokenEOF},
			texts: []string{"3.25", ""},
		},
		{
			name:  "string escapes",
			input: `"a\tb\n\"c\"\\"`,
			kinds: []TokenKind{TokenString, TokenEOF},
			texts: []string{"a\tb\n\"c\"\\", ""},
		},
		{
			name:  "comment",
			input: "x # trailing comment\ny",
			kinds: []TokenKind{TokenIdent, TokenIdent, TokenEOF},
			texts: []string{"x", "y", ""},
		},
		{
			name:  "punctuation",
			input: "f(a, [b]) { }",
			kinds: []TokenKind{
				TokenIdent, TokenLParen, TokenIdent, TokenComma, TokenLBracket,
				TokenIdent, TokenRBracket, TokenRParen, TokenLBrace, TokenRBrace,
				TokenEOF,
			},
		},
		{
			name:  "keyword prefix is identifier",
			input: "letter iffy",
			kinds: []TokenKind{TokenIdent, TokenIdent, TokenEOF},
			texts: []string{"letter", "iffy", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)

			kinds := make([]TokenKind, len(tokens))
			texts := make([]string, len(tokens))

			for i, tok := range tokens {
				kinds[i] = tok.Kind
				texts[i] = tok.Text
			}

			assert.Equal(t, tt.kinds, kinds)

			if tt.texts != nil {
				assert.Equal(t, tt.texts, texts)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("let a = 1;\n  a += 2;")
	require.NoError(t, err)

	want := []Position{
		{1, 1}, {1, 5}, {1, 7}, {1, 9}, {1, 10},
		{2, 3}, {2, 5}, {2, 8}, {2, 9},
		{2, 10},
	}

	got := make([]Position, len(tokens))
	for i, tok := range tokens {
		got[i] = tok.Pos
	}

	assert.Equal(t, want, got)
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		kind       *Error
		pos        Position
		incomplete bool
	}{
		{
			name:       "unterminated string",
			input:      `let s = "abc`,
			kind:       ErrSyntax,
			pos:        Position{1, 9},
			incomplete: true,
		},
		{
			name:  "unknown escape",
			input: `"a\qb"`,
			kind:  ErrSyntax,
			pos:   Position{1, 4},
		},
		{
			name:  "invalid character",
			input: "x = 1 @ 2",
			kind:  ErrInvalidToken,
			pos:   Position{1, 7},
		},
		{
			name:  "integer overflow",
			input: "2147483648",
			kind:  ErrSyntax,
			pos:   Position{1, 1},
		},
		{
			name:  "bare bang",
			input: "!x",
			kind:  ErrInvalidToken,
			pos:   Position{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var ee *Error
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, tt.pos, ee.Pos())
			assert.Equal(t, tt.incomplete, IsIncomplete(err))
		})
	}
}

func TestQuote(t *testing.T) {
	for _, s := range []string{"", "plain", "tab\there", `back\slash`, `"quoted"`, "line\r\n"} {
		tokens, err := Tokenize(quote(s))
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.Equal(t, s, tokens[0].Text)
	}
}
