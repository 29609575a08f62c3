package lang

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits src into tokens terminated by a [TokenEOF] token.
//
// Malformed input is reported before any token is returned: an unexpected
// character is [ErrInvalidToken], a bad literal is [ErrSyntax].
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{input: src, line: 1, col: 1}

	for {
		lx.skipWhitespaceAndComments()

		if lx.eof() {
			lx.emit(TokenEOF, "", lx.position())

			return lx.tokens, nil
		}

		err := lx.next()
		if err != nil {
			return nil, err
		}
	}
}

// lexer holds the tokenizer state.
type lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.input) }

func (lx *lexer) position() Position {
	return Position{Line: lx.line, Column: lx.col}
}

// peek returns the current rune without consuming it.
func (lx *lexer) peek() rune {
	if lx.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(lx.input[lx.pos:])

	return r
}

// peekAt returns the rune n bytes past the current offset.
func (lx *lexer) peekAt(n int) rune {
	if lx.pos+n >= len(lx.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(lx.input[lx.pos+n:])

	return r
}

// advance consumes and returns the current rune.
func (lx *lexer) advance() rune {
	if lx.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(lx.input[lx.pos:])
	lx.pos += size

	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return r
}

func (lx *lexer) emit(kind TokenKind, text string, pos Position) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Pos: pos})
}

// skipWhitespaceAndComments skips whitespace and '#' line comments.
func (lx *lexer) skipWhitespaceAndComments() {
	for !lx.eof() {
		r := lx.peek()

		switch {
		case unicode.IsSpace(r):
			lx.advance()

		case r == '#':
			for !lx.eof() && lx.peek() != '\n' {
				lx.advance()
			}

		default:
			return
		}
	}
}

// next scans exactly one token.
func (lx *lexer) next() error {
	pos := lx.position()
	r := lx.peek()

	switch {
	case isDigit(r):
		return lx.number(pos)

	case r == '"':
		return lx.string(pos)

	case isIdentifierStart(r):
		lx.identifier(pos)

		return nil
	}

	if kind, ok := pairOperator(r, lx.peekAt(1)); ok {
		lx.advance()
		lx.advance()
		lx.emit(kind, kind.String(), pos)

		return nil
	}

	if kind, ok := singleOperator(r); ok {
		lx.advance()
		lx.emit(kind, kind.String(), pos)

		return nil
	}

	return ErrInvalidToken.At(pos).
		Msgf("unexpected character %q", r).
		With(slog.String("char", string(r)))
}

// number scans an integer or a float with a single decimal point.
func (lx *lexer) number(pos Position) error {
	start := lx.pos
	isFloat := false

	for !lx.eof() {
		r := lx.peek()

		if r == '.' && !isFloat {
			isFloat = true

			lx.advance()

			continue
		}

		if !isDigit(r) {
			break
		}

		lx.advance()
	}

	text := lx.input[start:lx.pos]

	if isFloat {
		_, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return ErrSyntax.At(pos).
				Msgf("invalid float literal %s", text).
				Wrap(err)
		}

		lx.emit(TokenFloat, text, pos)

		return nil
	}

	_, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return ErrSyntax.At(pos).
			Msgf("integer literal %s out of range", text).
			Wrap(err)
	}

	lx.emit(TokenInt, text, pos)

	return nil
}

// string scans a double-quoted string literal, decoding escapes.
func (lx *lexer) string(pos Position) error {
	lx.advance() // opening quote

	var sb strings.Builder

	for {
		if lx.eof() {
			return ErrSyntax.At(pos).
				Msg("unterminated string literal").
				incompleteInput()
		}

		r := lx.advance()

		switch r {
		case '"':
			lx.emit(TokenString, sb.String(), pos)

			return nil

		case '\\':
			if lx.eof() {
				return ErrSyntax.At(pos).
					Msg("unterminated string literal").
					incompleteInput()
			}

			escPos := lx.position()
			esc := lx.advance()

			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				return ErrSyntax.At(escPos).
					Msgf("unknown escape sequence \\%c", esc)
			}

		default:
			sb.WriteRune(r)
		}
	}
}

// identifier scans an identifier or keyword.
func (lx *lexer) identifier(pos Position) {
	start := lx.pos

	for !lx.eof() && isIdentifierContinue(lx.peek()) {
		lx.advance()
	}

	text := lx.input[start:lx.pos]

	if isKeyword(text) {
		lx.emit(TokenKeyword, text, pos)

		return
	}

	lx.emit(TokenIdent, text, pos)
}

func pairOperator(a, b rune) (TokenKind, bool) {
	if b != '=' {
		return 0, false
	}

	switch a {
	case '=':
		return TokenEq, true
	case '!':
		return TokenNe, true
	case '<':
		return TokenLe, true
	case '>':
		return TokenGe, true
	case '+':
		return TokenPlusAssign, true
	case '-':
		return TokenMinusAssign, true
	case '*':
		return TokenStarAssign, true
	case '/':
		return TokenSlashAssign, true
	}

	return 0, false
}

func singleOperator(r rune) (TokenKind, bool) {
	switch r {
	case '(':
		return TokenLParen, true
	case ')':
		return TokenRParen, true
	case '{':
		return TokenLBrace, true
	case '}':
		return TokenRBrace, true
	case '[':
		return TokenLBracket, true
	case ']':
		return TokenRBracket, true
	case ',':
		return TokenComma, true
	case ';':
		return TokenSemicolon, true
	case '+':
		return TokenPlus, true
	case '-':
		return TokenMinus, true
	case '*':
		return TokenStar, true
	case '/':
		return TokenSlash, true
	case '^':
		return TokenCaret, true
	case '=':
		return TokenAssign, true
	case '<':
		return TokenLt, true
	case '>':
		return TokenGt, true
	}

	return 0, false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}

// quote renders s as a string literal using the escapes the tokenizer accepts.
func quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
