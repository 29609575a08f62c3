package lang

import (
	"strings"
)

// Node is a syntactic construct in an immutable tree.
//
// The set of implementations is closed; every Node reports a deterministic
// position and reconstructs its own source text.
type Node interface {
	// Pos returns the node's own token position, or that of its first
	// meaningful child.
	Pos() Position
	// String reconstructs source text that parses back to an equal tree.
	String() string

	node()
}

// Sequence is an ordered list of statements: a program, a block, or a
// function body.
type Sequence struct {
	Open       Position // position of the program start or opening brace
	Statements []Node
}

// NumberLiteral is an integer or float literal.
type NumberLiteral struct {
	Token Token
	Value Value
}

// StringLiteral is a double-quoted string literal.
type StringLiteral struct {
	Token Token
}

// UnaryOp is a prefix operator: not, unary plus, or negation.
type UnaryOp struct {
	Op      Token
	Operand Node
}

// BinaryOp is an infix operator.
type BinaryOp struct {
	Left  Node
	Op    Token
	Right Node
}

// VarAssign binds a value in the current scope: let NAME = VALUE.
type VarAssign struct {
	Name  Token
	Value Node
}

// VarCompoundAssign updates a binding: let NAME (+=|-=|*=|/=) VALUE.
type VarCompoundAssign struct {
	Name  Token
	Op    Token
	Value Node
}

// VarAccess reads a binding.
type VarAccess struct {
	Name Token
}

// If selects a branch by condition. Else is nil, an *If, or a *Sequence.
type If struct {
	Keyword Token
	Cond    Node
	Then    *Sequence
	Else    Node
}

// FuncDef defines a named function in the current scope.
type FuncDef struct {
	Keyword Token
	Name    Token
	Params  []Token
	Body    *Sequence
}

// FuncCall invokes a callee with positional arguments.
type FuncCall struct {
	Callee Node
	Paren  Token
	Args   []Node
}

// ListExpr is a bracketed list literal.
type ListExpr struct {
	Bracket  Token
	Elements []Node
}

// Return leaves the enclosing function. Value may be nil.
type Return struct {
	Keyword Token
	Value   Node
}

// Assert fails evaluation unless its condition is a nonzero Integer.
type Assert struct {
	Keyword Token
	Cond    Node
}

func (*Sequence) node()          {}
func (*NumberLiteral) node()     {}
func (*StringLiteral) node()     {}
func (*UnaryOp) node()           {}
func (*BinaryOp) node()          {}
func (*VarAssign) node()         {}
func (*VarCompoundAssign) node() {}
func (*VarAccess) node()         {}
func (*If) node()                {}
func (*FuncDef) node()           {}
func (*FuncCall) node()          {}
func (*ListExpr) node()          {}
func (*Return) node()            {}
func (*Assert) node()            {}

func (n *Sequence) Pos() Position {
	if len(n.Statements) > 0 {
		return n.Statements[0].Pos()
	}

	return n.Open
}

func (n *NumberLiteral) Pos() Position     { return n.Token.Pos }
func (n *StringLiteral) Pos() Position     { return n.Token.Pos }
func (n *UnaryOp) Pos() Position           { return n.Op.Pos }
func (n *BinaryOp) Pos() Position          { return n.Left.Pos() }
func (n *VarAssign) Pos() Position         { return n.Name.Pos }
func (n *VarCompoundAssign) Pos() Position { return n.Name.Pos }
func (n *VarAccess) Pos() Position         { return n.Name.Pos }
func (n *If) Pos() Position                { return n.Keyword.Pos }
func (n *FuncDef) Pos() Position           { return n.Keyword.Pos }
func (n *FuncCall) Pos() Position          { return n.Callee.Pos() }
func (n *ListExpr) Pos() Position          { return n.Bracket.Pos }
func (n *Return) Pos() Position            { return n.Keyword.Pos }
func (n *Assert) Pos() Position            { return n.Keyword.Pos }

func (n *Sequence) String() string          { return render(n) }
func (n *NumberLiteral) String() string     { return render(n) }
func (n *StringLiteral) String() string     { return render(n) }
func (n *UnaryOp) String() string           { return render(n) }
func (n *BinaryOp) String() string          { return render(n) }
func (n *VarAssign) String() string         { return render(n) }
func (n *VarCompoundAssign) String() string { return render(n) }
func (n *VarAccess) String() string         { return render(n) }
func (n *If) String() string                { return render(n) }
func (n *FuncDef) String() string           { return render(n) }
func (n *FuncCall) String() string          { return render(n) }
func (n *ListExpr) String() string          { return render(n) }
func (n *Return) String() string            { return render(n) }
func (n *Assert) String() string            { return render(n) }

// render writes n on a single line.
func render(n Node) string {
	var sb strings.Builder

	w := printer{sb: &sb}
	w.node(n)

	return sb.String()
}

// printer reconstructs source text. With indent > 0 blocks are written one
// statement per line.
type printer struct {
	sb     *strings.Builder
	indent int
	level  int
}

func (w *printer) write(s ...string) {
	for _, p := range s {
		w.sb.WriteString(p)
	}
}

func (w *printer) newline() {
	if w.indent <= 0 {
		w.sb.WriteByte(' ')

		return
	}

	w.sb.WriteByte('\n')
	w.sb.WriteString(strings.Repeat(" ", w.level*w.indent))
}

// statements writes each statement followed by its terminator.
func (w *printer) statements(seq *Sequence, sep func()) {
	for i, stmt := range seq.Statements {
		if i > 0 {
			sep()
		}

		w.node(stmt)
		w.write(";")
	}
}

func (w *printer) block(seq *Sequence) {
	if len(seq.Statements) == 0 {
		w.write("{ }")

		return
	}

	w.write("{")
	w.level++
	w.newline()
	w.statements(seq, w.newline)
	w.level--
	w.newline()
	w.write("}")
}

// operand writes n, parenthesized unless it is self-delimiting.
func (w *printer) operand(n Node) {
	switch n.(type) {
	case *NumberLiteral, *StringLiteral, *VarAccess, *ListExpr, *FuncCall,
		*BinaryOp, *UnaryOp:
		w.node(n)
	default:
		w.write("(")
		w.node(n)
		w.write(")")
	}
}

func (w *printer) list(nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			w.write(", ")
		}

		w.node(n)
	}
}

func (w *printer) node(n Node) {
	switch n := n.(type) {
	case *Sequence:
		w.statements(n, func() {
			if w.indent > 0 {
				w.write("\n")
			} else {
				w.write(" ")
			}
		})

	case *NumberLiteral:
		w.write(n.Token.Text)

	case *StringLiteral:
		w.write(quote(n.Token.Text))

	case *UnaryOp:
		w.write("(", n.Op.Symbol())

		if n.Op.IsKeyword(KeywordNot) {
			w.write(" ")
		}

		// A call after a sign would bind to the signed atom.
		if _, ok := n.Operand.(*FuncCall); ok && !n.Op.IsKeyword(KeywordNot) {
			w.write("(")
			w.node(n.Operand)
			w.write(")")
		} else {
			w.operand(n.Operand)
		}

		w.write(")")

	case *BinaryOp:
		w.write("(")
		w.operand(n.Left)
		w.write(" ", n.Op.Symbol(), " ")
		w.operand(n.Right)
		w.write(")")

	case *VarAssign:
		w.write("let ", n.Name.Text, " = ")
		w.node(n.Value)

	case *VarCompoundAssign:
		w.write("let ", n.Name.Text, " ", n.Op.Symbol(), " ")
		w.node(n.Value)

	case *VarAccess:
		w.write(n.Name.Text)

	case *If:
		w.write("if ")
		w.node(n.Cond)
		w.write(" ")
		w.block(n.Then)

		switch e := n.Else.(type) {
		case *If:
			w.write(" else ")
			w.node(e)
		case *Sequence:
			w.write(" else ")
			w.block(e)
		}

	case *FuncDef:
		w.write("func ", n.Name.Text, "(")

		for i, p := range n.Params {
			if i > 0 {
				w.write(", ")
			}

			w.write(p.Text)
		}

		w.write(") ")
		w.block(n.Body)

	case *FuncCall:
		w.operand(n.Callee)
		w.write("(")
		w.list(n.Args)
		w.write(")")

	case *ListExpr:
		w.write("[")
		w.list(n.Elements)
		w.write("]")

	case *Return:
		w.write("return")

		if n.Value != nil {
			w.write(" ")
			w.node(n.Value)
		}

	case *Assert:
		w.write("assert ")
		w.node(n.Cond)
	}
}

// Walk calls fn for n and each of its descendants in depth-first order.
// Descent stops below a node for which fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *Sequence:
		for _, s := range n.Statements {
			Walk(s, fn)
		}

	case *UnaryOp:
		Walk(n.Operand, fn)

	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *VarAssign:
		Walk(n.Value, fn)

	case *VarCompoundAssign:
		Walk(n.Value, fn)

	case *If:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)

		if n.Else != nil {
			Walk(n.Else, fn)
		}

	case *FuncDef:
		Walk(n.Body, fn)

	case *FuncCall:
		Walk(n.Callee, fn)

		for _, a := range n.Args {
			Walk(a, fn)
		}

	case *ListExpr:
		for _, e := range n.Elements {
			Walk(e, fn)
		}

	case *Return:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *Assert:
		Walk(n.Cond, fn)
	}
}
