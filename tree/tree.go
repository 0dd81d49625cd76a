// Package tree parses constituency trees in bracketed notation and searches
// them for the subtrees that span a token sequence.
package tree

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrSyntax = errors.New("malformed bracketed tree")

// Node is a constituent. A leaf carries the token in Word and has no
// Label or Children.
type Node struct {
	Label    string
	Word     string
	Children []*Node
}

// IsLeaf reports whether the node is a token.
func (n *Node) IsLeaf() bool {
	return n.Children == nil && n.Label == "" && n.Word != ""
}

// Leaves returns the tokens under the node, left to right.
func (n *Node) Leaves() []string {
	if n.IsLeaf() {
		return []string{n.Word}
	}

	leaves := []string{}
	for _, c := range n.Children {
		leaves = append(leaves, c.Leaves()...)
	}
	return leaves
}

// Labels returns the labels of every internal node of the subtree in
// pre-order.
func (n *Node) Labels() []string {
	if n.IsLeaf() {
		return nil
	}

	labels := []string{n.Label}
	for _, c := range n.Children {
		labels = append(labels, c.Labels()...)
	}
	return labels
}

// Contains reports whether target occurs as a substring of the space-joined
// leaves of the node. Token boundaries are not enforced: "a" is contained in
// "ab".
func (n *Node) Contains(target string) bool {
	return strings.Contains(strings.Join(n.Leaves(), " "), target)
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return n.Word
	}

	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(n.Label)
	for _, c := range n.Children {
		sb.WriteString(" ")
		sb.WriteString(c.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Smallest returns the subtree reached by descending from root while the
// space-joined sequence is still contained in a node. Every internal child of
// a containing node is visited in order, so a later containing sibling
// replaces an earlier one. It returns nil when root itself does not contain
// the sequence.
func Smallest(root *Node, seq []string) *Node {
	if root == nil {
		return nil
	}
	return smallest(root, strings.Join(seq, " "), nil)
}

func smallest(n *Node, target string, best *Node) *Node {
	if !n.Contains(target) {
		return best
	}

	best = n
	for _, c := range n.Children {
		if c.IsLeaf() {
			continue
		}
		best = smallest(c, target, best)
	}
	return best
}

// Parse reads one tree in bracketed notation, e.g.
//
//	(ROOT (S (NP (NNP John)) (VP (VBZ works))))
//
// A node whose opening bracket is directly followed by another bracket gets
// an empty label.
func Parse(s string) (*Node, error) {
	p := &parser{tokens: tokenize(s)}
	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrSyntax)
	}

	n, err := p.node()
	if err != nil {
		return nil, err
	}

	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected %q after tree", ErrSyntax, p.tokens[p.pos])
	}

	return n, nil
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) next() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, true
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *parser) node() (*Node, error) {
	if t, ok := p.next(); !ok || t != "(" {
		return nil, fmt.Errorf("%w: expected ( at token %d", ErrSyntax, p.pos)
	}

	n := &Node{Children: []*Node{}}
	if t, ok := p.peek(); ok && !isBracket(t) {
		n.Label = t
		p.pos++
	}

	for {
		t, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("%w: missing )", ErrSyntax)
		}

		switch t {
		case ")":
			p.pos++
			return n, nil
		case "(":
			child, err := p.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		default:
			p.pos++
			n.Children = append(n.Children, &Node{Word: t})
		}
	}
}

func isBracket(t string) bool {
	return t == "(" || t == ")"
}

func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return tokens
}
