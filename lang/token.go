package lang

import (
	"fmt"
	"strconv"
)

// Position is a 1-based line and column in source text.
//
// The zero Position marks a synthetic value with no user-facing location.
type Position struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsInternal reports whether p is the reserved internal position (0:0).
func (p Position) IsInternal() bool { return p.Line == 0 && p.Column == 0 }

func (p Position) String() string {
	if p.IsInternal() {
		return "[internal error]"
	}

	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// TokenKind classifies a [Token].
type TokenKind int

// Token kinds.
const (
	TokenEOF TokenKind = iota
	TokenInt
	TokenFloat
	TokenString
	TokenIdent
	TokenKeyword
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenSemicolon
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenCaret
	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
)

var tokenKindName = [...]string{
	TokenEOF:         "end of input",
	TokenInt:         "integer",
	TokenFloat:       "float",
	TokenString:      "string",
	TokenIdent:       "identifier",
	TokenKeyword:     "keyword",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenComma:       ",",
	TokenSemicolon:   ";",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenCaret:       "^",
	TokenAssign:      "=",
	TokenPlusAssign:  "+=",
	TokenMinusAssign: "-=",
	TokenStarAssign:  "*=",
	TokenSlashAssign: "/=",
	TokenEq:          "==",
	TokenNe:          "!=",
	TokenLt:          "<",
	TokenLe:          "<=",
	TokenGt:          ">",
	TokenGe:          ">=",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindName) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}

	return tokenKindName[k]
}

// Keywords recognized by the tokenizer.
const (
	KeywordLet    = "let"
	KeywordIf     = "if"
	KeywordElse   = "else"
	KeywordFunc   = "func"
	KeywordReturn = "return"
	KeywordAnd    = "and"
	KeywordOr     = "or"
	KeywordNot    = "not"
	KeywordAssert = "assert"
)

// Keywords lists every reserved word.
func Keywords() []string {
	return []string{
		KeywordAnd, KeywordAssert, KeywordElse, KeywordFunc, KeywordIf,
		KeywordLet, KeywordNot, KeywordOr, KeywordReturn,
	}
}

func isKeyword(s string) bool {
	switch s {
	case KeywordLet, KeywordIf, KeywordElse, KeywordFunc, KeywordReturn,
		KeywordAnd, KeywordOr, KeywordNot, KeywordAssert:
		return true
	}

	return false
}

// Token is a classified lexical unit.
//
// Text holds the identifier or keyword name, the literal spelling of numbers,
// and the decoded contents of strings.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// Is reports whether t has kind k.
func (t Token) Is(k TokenKind) bool { return t.Kind == k }

// IsKeyword reports whether t is the keyword kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == TokenKeyword && t.Text == kw
}

// Symbol returns the operator spelling of t as it appears in source.
func (t Token) Symbol() string {
	switch t.Kind {
	case TokenKeyword, TokenIdent, TokenInt, TokenFloat:
		return t.Text
	case TokenString:
		return quote(t.Text)
	default:
		return t.Kind.String()
	}
}

// describe renders t for diagnostics.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return fmt.Sprintf("identifier %q", t.Text)
	case TokenKeyword:
		return fmt.Sprintf("keyword %q", t.Text)
	case TokenInt, TokenFloat:
		return "number " + t.Text
	case TokenString:
		return "string " + quote(t.Text)
	default:
		return "'" + t.Kind.String() + "'"
	}
}
