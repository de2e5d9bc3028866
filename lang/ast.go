package lang

import (
	"strings"
)

// Operator is a binary arithmetic or comparison operator.
type Operator string

// Arithmetic operators.
const (
	Add      Operator = "+"
	Subtract Operator = "-"
	Multiply Operator = "*"
	Divide   Operator = "/"
	Modulo   Operator = "%"
)

// Comparison operators.
const (
	Equal    Operator = "=="
	NotEqual Operator = "!="
	Greater  Operator = ">"
	Less     Operator = "<"
)

// Node is one element of a parsed expression tree.
//
// The set of implementations is closed: *TokenExpr, *MathOp, *Test,
// *Assignment, *FunctionExpr, *FunctionCall, *Dictionary, and *MemberExpr.
type Node interface {
	// String renders the node as source text.
	String() string

	node()
}

// TokenExpr wraps a single literal or symbol token.
type TokenExpr struct {
	Token Token
}

// MathOp is binary arithmetic.
type MathOp struct {
	Left     Node
	Right    Node
	Operator Operator
}

// Test is a binary comparison yielding a Boolean token.
type Test struct {
	Left     Node
	Right    Node
	Operator Operator
}

// Assignment stores Right under Left, which is a symbol *TokenExpr or a
// *MemberExpr. Right is nil when the statement ends at the '='.
type Assignment struct {
	Left  Node
	Right Node
}

// FunctionExpr is a function literal: {(params) body}.
// A nil Body means the function has no body and yields nothing.
type FunctionExpr struct {
	Params []Token
	Body   []Node
}

// FunctionCall invokes a built-in or user function by name.
type FunctionCall struct {
	Symbol string
	Args   []Node
}

// Pair is one entry of a [Dictionary].
type Pair struct {
	Key   Token
	Value Node
}

// Dictionary is an ordered list of key/value pairs. Duplicate keys are kept;
// lookups return the first match.
type Dictionary struct {
	Body []Pair
}

// MemberExpr is a chain of index accesses: name[key][key2].
type MemberExpr struct {
	Symbol Token
	Keys   []Node
}

func (*TokenExpr) node()    {}
func (*MathOp) node()       {}
func (*Test) node()         {}
func (*Assignment) node()   {}
func (*FunctionExpr) node() {}
func (*FunctionCall) node() {}
func (*Dictionary) node()   {}
func (*MemberExpr) node()   {}

func (n *TokenExpr) String() string { return n.Token.String() }

func (n *MathOp) String() string {
	return nodeString(n.Left) + " " + string(n.Operator) + " " + nodeString(n.Right)
}

func (n *Test) String() string {
	return nodeString(n.Left) + " " + string(n.Operator) + " " + nodeString(n.Right)
}

func (n *Assignment) String() string {
	if n.Right == nil {
		return nodeString(n.Left) + " ="
	}

	return nodeString(n.Left) + " = " + nodeString(n.Right)
}

func (n *FunctionExpr) String() string {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Text
	}

	var sb strings.Builder

	sb.WriteString("{(")
	sb.WriteString(strings.Join(params, ", "))
	sb.WriteString(")")

	if len(n.Body) > 0 {
		sb.WriteString(" ")
		sb.WriteString(joinNodes(n.Body, "; "))
	}

	sb.WriteString("}")

	return sb.String()
}

func (n *FunctionCall) String() string {
	return n.Symbol + "(" + joinNodes(n.Args, ", ") + ")"
}

func (n *Dictionary) String() string {
	pairs := make([]string, len(n.Body))
	for i, p := range n.Body {
		pairs[i] = p.Key.String() + ": " + nodeString(p.Value)
	}

	return "{" + strings.Join(pairs, ", ") + "}"
}

func (n *MemberExpr) String() string {
	var sb strings.Builder

	sb.WriteString(n.Symbol.Text)

	for _, k := range n.Keys {
		sb.WriteString("[")
		sb.WriteString(nodeString(k))
		sb.WriteString("]")
	}

	return sb.String()
}

// Lookup returns the value of the first entry whose key text is key.
func (n *Dictionary) Lookup(key string) (Node, bool) {
	if i := n.index(key); i >= 0 {
		return n.Body[i].Value, true
	}

	return nil, false
}

// Keys returns the key texts in order, duplicates included.
func (n *Dictionary) Keys() []string {
	keys := make([]string, len(n.Body))
	for i, p := range n.Body {
		keys[i] = p.Key.Text
	}

	return keys
}

func (n *Dictionary) index(key string) int {
	for i, p := range n.Body {
		if p.Key.Text == key {
			return i
		}
	}

	return -1
}

// Clone returns a deep copy of the dictionary's nested dictionaries. Other
// values are shared, since they are never modified in place.
func (n *Dictionary) Clone() *Dictionary {
	c := &Dictionary{Body: make([]Pair, len(n.Body))}

	for i, p := range n.Body {
		if d, ok := p.Value.(*Dictionary); ok {
			p.Value = d.Clone()
		}

		c.Body[i] = p
	}

	return c
}

func nodeString(n Node) string {
	if n == nil {
		return "<nil>"
	}

	return n.String()
}

func joinNodes(nodes []Node, sep string) string {
	s := make([]string, len(nodes))
	for i, n := range nodes {
		s[i] = nodeString(n)
	}

	return strings.Join(s, sep)
}
