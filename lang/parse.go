package lang

import (
	"context"
	"log/slog"
	"strconv"
)

// AST is a parsed program.
type AST struct {
	Root   *Sequence
	Source string
}

// ParseString tokenizes and parses s.
func ParseString(ctx context.Context, s string, opts ...Option) (*AST, error) {
	return parseSource(ctx, s, makeOptions(opts...))
}

// Parse builds an AST from a token sequence. A missing end-of-input marker is
// supplied after the last token.
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*AST, error) {
	return parseTokens(ctx, tokens, makeOptions(opts...))
}

func parseSource(ctx context.Context, s string, o options) (*AST, error) {
	tokens, err := Tokenize(s)
	if err != nil {
		o.logger.TraceContext(ctx, "tokenize failed", slog.Any("error", err))

		return nil, err
	}

	ast, err := parseTokens(ctx, tokens, o)
	if err != nil {
		return nil, err
	}

	ast.Source = s

	return ast, nil
}

func parseTokens(ctx context.Context, tokens []Token, o options) (*AST, error) {
	if n := len(tokens); n == 0 || tokens[n-1].Kind != TokenEOF {
		eof := Token{Kind: TokenEOF, Pos: Position{Line: 1, Column: 1}}
		if n > 0 {
			eof.Pos = tokens[n-1].Pos
		}

		tokens = append(tokens[:n:n], eof)
	}

	p := &parser{
		tokens:   tokens,
		maxDepth: o.maxDepth,
	}

	root, err := p.program()
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("statement_count", len(root.Statements)))

	return &AST{Root: root}, nil
}

// parser holds the parser state.
type parser struct {
	tokens   []Token
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

// advance consumes the current token. The end-of-input token is never
// consumed.
func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) at(kind TokenKind) bool { return p.peek().Kind == kind }

func (p *parser) atKeyword(kw string) bool { return p.peek().IsKeyword(kw) }

// expect consumes a token of the given kind or reports what was found.
func (p *parser) expect(kind TokenKind, want string) (Token, error) {
	if !p.at(kind) {
		return Token{}, p.unexpected(want)
	}

	return p.advance(), nil
}

// unexpected reports the current token where want was expected. At end of
// input there is no token to blame, so the last consumed token's position is
// used instead.
func (p *parser) unexpected(want string) *Error {
	tok := p.peek()

	if tok.Kind == TokenEOF {
		pos := tok.Pos
		if p.pos > 0 {
			pos = p.tokens[p.pos-1].Pos
		}

		return ErrParser.At(pos).
			Msgf("expected %s, found end of input", want).
			incompleteInput()
	}

	return ErrParser.At(tok.Pos).
		Msgf("expected %s, found %s", want, tok.describe()).
		With(slog.String("found", tok.Kind.String()))
}

// enter increments the nesting depth, failing past the configured maximum.
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return ErrParser.At(p.peek().Pos).
			Msgf("nesting exceeds maximum depth %d", p.maxDepth)
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// program parses the top-level statement sequence, which must consume all
// input.
func (p *parser) program() (*Sequence, error) {
	root, err := p.statements(p.peek().Pos)
	if err != nil {
		return nil, err
	}

	if !p.at(TokenEOF) {
		tok := p.peek()

		return nil, ErrParser.At(tok.Pos).
			Msgf("unexpected %s", tok.describe())
	}

	return root, nil
}

// statements parses statements until end of input or a closing delimiter,
// which is left for the enclosing construct.
func (p *parser) statements(open Position) (*Sequence, error) {
	seq := &Sequence{Open: open}

	for {
		switch p.peek().Kind {
		case TokenEOF, TokenRBrace, TokenRParen, TokenRBracket:
			return seq, nil
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		seq.Statements = append(seq.Statements, stmt)

		if _, ok := stmt.(*Return); ok {
			if p.at(TokenSemicolon) {
				p.advance()
			}

			continue
		}

		_, err = p.expect(TokenSemicolon, "';'")
		if err != nil {
			return nil, err
		}
	}
}

// statement parses: 'return' [expression] | expression.
func (p *parser) statement() (Node, error) {
	if !p.atKeyword(KeywordReturn) {
		return p.expression()
	}

	kw := p.advance()

	switch p.peek().Kind {
	case TokenSemicolon, TokenRBrace, TokenEOF:
		return &Return{Keyword: kw}, nil
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &Return{Keyword: kw, Value: value}, nil
}

// expression parses assignment, assertion, or an and/or chain.
func (p *parser) expression() (Node, error) {
	if p.atKeyword(KeywordLet) || p.atKeyword(KeywordAssert) {
		// Both forms nest another expression.
		err := p.enter()
		if err != nil {
			return nil, err
		}
		defer p.leave()
	}

	switch {
	case p.atKeyword(KeywordLet):
		return p.assignment()

	case p.atKeyword(KeywordAssert):
		kw := p.advance()

		cond, err := p.expression()
		if err != nil {
			return nil, err
		}

		return &Assert{Keyword: kw, Cond: cond}, nil
	}

	left, err := p.comparison()
	if err != nil {
		return nil, err
	}

	for p.atKeyword(KeywordAnd) || p.atKeyword(KeywordOr) {
		op := p.advance()

		right, err := p.comparison()
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{Left: left, Op: op, Right: right}
	}

	return left, nil
}

// assignment parses: 'let' Identifier ('='|'+='|'-='|'*='|'/=') expression.
func (p *parser) assignment() (Node, error) {
	p.advance() // let

	name, err := p.expect(TokenIdent, "identifier")
	if err != nil {
		return nil, err
	}

	op := p.peek()

	switch op.Kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign,
		TokenSlashAssign:
		p.advance()
	default:
		return nil, p.unexpected("assignment operator")
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	if op.Kind == TokenAssign {
		return &VarAssign{Name: name, Value: value}, nil
	}

	return &VarCompoundAssign{Name: name, Op: op, Value: value}, nil
}

// comparison parses: 'not' comparison | arith (relop arith)*.
func (p *parser) comparison() (Node, error) {
	if p.atKeyword(KeywordNot) {
		op := p.advance()

		err := p.enter()
		if err != nil {
			return nil, err
		}
		defer p.leave()

		operand, err := p.comparison()
		if err != nil {
			return nil, err
		}

		return &UnaryOp{Op: op, Operand: operand}, nil
	}

	return p.binary(p.arith,
		TokenEq, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe)
}

// arith parses: term (('+'|'-') term)*.
func (p *parser) arith() (Node, error) {
	return p.binary(p.term, TokenPlus, TokenMinus)
}

// term parses: factor (('*'|'/') factor)*.
func (p *parser) term() (Node, error) {
	return p.binary(p.factor, TokenStar, TokenSlash)
}

// binary parses a left-associative chain of operands joined by any of ops.
func (p *parser) binary(
	operand func() (Node, error),
	ops ...TokenKind,
) (Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.atAny(ops...) {
		op := p.advance()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{Left: left, Op: op, Right: right}
	}

	return left, nil
}

func (p *parser) atAny(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if p.at(k) {
			return true
		}
	}

	return false
}

// factor parses: call ['^' factor]. The right operand recurses into factor,
// making power right-associative.
func (p *parser) factor() (Node, error) {
	left, err := p.call()
	if err != nil {
		return nil, err
	}

	if !p.at(TokenCaret) {
		return left, nil
	}

	op := p.advance()

	err = p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	right, err := p.factor()
	if err != nil {
		return nil, err
	}

	return &BinaryOp{Left: left, Op: op, Right: right}, nil
}

// call parses: atom ('(' [expression (',' expression)*] ')')*.
func (p *parser) call() (Node, error) {
	node, err := p.atom()
	if err != nil {
		return nil, err
	}

	for p.at(TokenLParen) {
		paren := p.advance()

		args, err := p.list(TokenRParen, "')'")
		if err != nil {
			return nil, err
		}

		node = &FuncCall{Callee: node, Paren: paren, Args: args}
	}

	return node, nil
}

// list parses comma-separated expressions through the closing token.
func (p *parser) list(closing TokenKind, want string) ([]Node, error) {
	var nodes []Node

	if p.at(closing) {
		p.advance()

		return nodes, nil
	}

	for {
		n, err := p.expression()
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)

		if !p.at(TokenComma) {
			break
		}

		p.advance()
	}

	_, err := p.expect(closing, want)
	if err != nil {
		return nil, err
	}

	return nodes, nil
}

// atom parses literals, unary signs, groups, lists, identifiers, if and func.
func (p *parser) atom() (Node, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.peek()

	switch tok.Kind {
	case TokenInt, TokenFloat:
		p.advance()

		return numberLiteral(tok)

	case TokenString:
		p.advance()

		return &StringLiteral{Token: tok}, nil

	case TokenPlus, TokenMinus:
		p.advance()

		operand, err := p.atom()
		if err != nil {
			return nil, err
		}

		return &UnaryOp{Op: tok, Operand: operand}, nil

	case TokenLParen:
		p.advance()

		inner, err := p.expression()
		if err != nil {
			return nil, err
		}

		_, err = p.expect(TokenRParen, "')'")
		if err != nil {
			return nil, err
		}

		return inner, nil

	case TokenLBracket:
		p.advance()

		elems, err := p.list(TokenRBracket, "']'")
		if err != nil {
			return nil, err
		}

		return &ListExpr{Bracket: tok, Elements: elems}, nil

	case TokenIdent:
		p.advance()

		return &VarAccess{Name: tok}, nil

	case TokenKeyword:
		switch tok.Text {
		case KeywordIf:
			return p.ifExpr()
		case KeywordFunc:
			return p.funcDef()
		}
	}

	return nil, p.unexpected("expression")
}

// ifExpr parses: 'if' expression block ['else' (ifExpr | block)].
func (p *parser) ifExpr() (Node, error) {
	kw := p.advance()

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	then, err := p.block()
	if err != nil {
		return nil, err
	}

	node := &If{Keyword: kw, Cond: cond, Then: then}

	if !p.atKeyword(KeywordElse) {
		return node, nil
	}

	p.advance()

	if p.atKeyword(KeywordIf) {
		err = p.enter()
		if err != nil {
			return nil, err
		}
		defer p.leave()

		node.Else, err = p.ifExpr()
	} else {
		node.Else, err = p.block()
	}

	if err != nil {
		return nil, err
	}

	return node, nil
}

// funcDef parses: 'func' Identifier '(' [Identifier (',' Identifier)*] ')'
// block.
func (p *parser) funcDef() (Node, error) {
	kw := p.advance()

	name, err := p.expect(TokenIdent, "function name")
	if err != nil {
		return nil, err
	}

	_, err = p.expect(TokenLParen, "'('")
	if err != nil {
		return nil, err
	}

	var params []Token

	if !p.at(TokenRParen) {
		for {
			param, err := p.expect(TokenIdent, "parameter name")
			if err != nil {
				return nil, err
			}

			params = append(params, param)

			if !p.at(TokenComma) {
				break
			}

			p.advance()
		}
	}

	_, err = p.expect(TokenRParen, "')'")
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &FuncDef{Keyword: kw, Name: name, Params: params, Body: body}, nil
}

// block parses: '{' statements '}'.
func (p *parser) block() (*Sequence, error) {
	open, err := p.expect(TokenLBrace, "'{'")
	if err != nil {
		return nil, err
	}

	seq, err := p.statements(open.Pos)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(TokenRBrace, "'}'")
	if err != nil {
		return nil, err
	}

	return seq, nil
}

func numberLiteral(tok Token) (Node, error) {
	if tok.Kind == TokenFloat {
		f, err := strconv.ParseFloat(tok.Text, 32)
		if err != nil {
			return nil, ErrSyntax.At(tok.Pos).
				Msgf("invalid float literal %s", tok.Text).
				Wrap(err)
		}

		return &NumberLiteral{
			Token: tok,
			Value: FloatValue(float32(f), tok.Pos),
		}, nil
	}

	n, err := strconv.ParseInt(tok.Text, 10, 32)
	if err != nil {
		return nil, ErrSyntax.At(tok.Pos).
			Msgf("integer literal %s out of range", tok.Text).
			Wrap(err)
	}

	return &NumberLiteral{
		Token: tok,
		Value: IntValue(int32(n), tok.Pos),
	}, nil
}
