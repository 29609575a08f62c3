package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kr/pretty"
)

// Format writes the program as canonical source. With indent > 0 each
// statement of a block is written on its own line.
func (ast *AST) Format(_ context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	p := printer{sb: &sb, indent: indent}
	p.node(ast.Root)

	_, err := fmt.Fprintln(w, sb.String())

	return err
}

// FormatJSON writes the syntax tree as JSON.
func (ast *AST) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(toTree(ast.Root), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(toTree(ast.Root))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the syntax tree as YAML.
func (ast *AST) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, toTree(ast.Root), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// Print writes an indented outline of the syntax tree, one node per line.
func (ast *AST) Print(w io.Writer) error {
	return printTree(w, toTree(ast.Root), 0)
}

// FormatTokens writes a Go-syntax dump of tokens.
func FormatTokens(w io.Writer, tokens []Token) error {
	_, err := pretty.Fprintf(w, "%# v\n", tokens)

	return err
}

// treeNode is the serialized form of a [Node].
type treeNode struct {
	Kind     string      `json:"kind"               yaml:"kind"`
	Op       string      `json:"op,omitempty"       yaml:"op,omitempty"`
	Name     string      `json:"name,omitempty"     yaml:"name,omitempty"`
	Literal  string      `json:"literal,omitempty"  yaml:"literal,omitempty"`
	Params   []string    `json:"params,omitempty"   yaml:"params,omitempty"`
	Pos      Position    `json:"pos"                yaml:"pos"`
	Children []*treeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

func toTree(n Node) *treeNode {
	if n == nil {
		return nil
	}

	t := &treeNode{Pos: n.Pos()}

	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				t.Children = append(t.Children, toTree(c))
			}
		}
	}

	switch n := n.(type) {
	case *Sequence:
		t.Kind = "Sequence"
		add(n.Statements...)

	case *NumberLiteral:
		t.Kind = "Number"
		t.Literal = n.Token.Text

	case *StringLiteral:
		t.Kind = "String"
		t.Literal = quote(n.Token.Text)

	case *UnaryOp:
		t.Kind = "UnaryOp"
		t.Op = n.Op.Symbol()
		add(n.Operand)

	case *BinaryOp:
		t.Kind = "BinaryOp"
		t.Op = n.Op.Symbol()
		add(n.Left, n.Right)

	case *VarAssign:
		t.Kind = "VarAssign"
		t.Name = n.Name.Text
		add(n.Value)

	case *VarCompoundAssign:
		t.Kind = "VarCompoundAssign"
		t.Name = n.Name.Text
		t.Op = n.Op.Symbol()
		add(n.Value)

	case *VarAccess:
		t.Kind = "VarAccess"
		t.Name = n.Name.Text

	case *If:
		t.Kind = "If"
		add(n.Cond, n.Then)

		if n.Else != nil {
			add(n.Else)
		}

	case *FuncDef:
		t.Kind = "FuncDef"
		t.Name = n.Name.Text

		for _, p := range n.Params {
			t.Params = append(t.Params, p.Text)
		}

		add(n.Body)

	case *FuncCall:
		t.Kind = "FuncCall"
		add(n.Callee)
		add(n.Args...)

	case *ListExpr:
		t.Kind = "List"
		add(n.Elements...)

	case *Return:
		t.Kind = "Return"
		add(n.Value)

	case *Assert:
		t.Kind = "Assert"
		add(n.Cond)
	}

	return t
}

func printTree(w io.Writer, t *treeNode, depth int) error {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(t.Kind)

	for _, s := range []string{t.Op, t.Name, t.Literal} {
		if s != "" {
			sb.WriteByte(' ')
			sb.WriteString(s)
		}
	}

	if len(t.Params) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(t.Params, ", "))
		sb.WriteByte(')')
	}

	sb.WriteString(" @")
	sb.WriteString(t.Pos.String())

	_, err := fmt.Fprintln(w, sb.String())
	if err != nil {
		return err
	}

	for _, c := range t.Children {
		err = printTree(w, c, depth+1)
		if err != nil {
			return err
		}
	}

	return nil
}
