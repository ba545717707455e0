// Package tree builds a tree of regions and tokens from scan results.
//
// Region nodes (categorized modes and delegated blocks) contain nested region nodes and token nodes,
// token nodes are leaves. The root node spans the whole text.
package tree

import (
	"github.com/ava12/hilite/lexer"
)

// Node is a tree node. Nodes are created by Build and are not meant to be modified.
type Node struct {
	result                *lexer.Result
	region                lexer.Region
	token                 lexer.Token
	isToken               bool
	parent                *Node
	prev, next            *Node
	firstChild, lastChild *Node
}

// Build creates a tree from scan result and returns its root node.
// Each token is placed into the innermost region of the same depth that contains it.
func Build(res *lexer.Result) *Node {
	root := &Node{
		result: res,
		region: lexer.Region{Start: 0, End: len(res.Text), Grammar: res.Grammar},
	}

	b := builder{stack: []*Node{root}}
	regions := res.Regions
	for _, t := range res.Tokens {
		for len(regions) > 0 && regions[0].Start <= t.Start {
			b.openRegion(res, regions[0])
			regions = regions[1:]
		}
		b.addToken(res, t)
	}
	for _, r := range regions {
		b.openRegion(res, r)
	}
	return root
}

type builder struct {
	stack []*Node
}

func (b *builder) top() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *builder) openRegion(res *lexer.Result, r lexer.Region) {
	for len(b.stack) > 1 && b.top().region.Depth >= r.Depth {
		b.stack = b.stack[:len(b.stack)-1]
	}
	n := &Node{result: res, region: r}
	b.top().appendChild(n)
	b.stack = append(b.stack, n)
}

func (b *builder) addToken(res *lexer.Result, t lexer.Token) {
	for len(b.stack) > 1 {
		top := b.top()
		if top.region.End > t.Start && top.region.Depth <= t.Depth {
			break
		}
		b.stack = b.stack[:len(b.stack)-1]
	}
	b.top().appendChild(&Node{result: res, token: t, isToken: true})
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	if n.lastChild == nil {
		n.firstChild = c
	} else {
		n.lastChild.next = c
		c.prev = n.lastChild
	}
	n.lastChild = c
}

// IsToken reports whether the node is a token leaf.
func (n *Node) IsToken() bool {
	return n.isToken
}

// IsRoot reports whether the node is the root node.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Token returns the token of a token node.
func (n *Node) Token() (lexer.Token, bool) {
	return n.token, n.isToken
}

// Region returns the region of a region node or the whole text region of the root node.
func (n *Node) Region() (lexer.Region, bool) {
	return n.region, !n.isToken
}

// Category returns token or region category.
func (n *Node) Category() string {
	if n.isToken {
		return n.token.Category
	}
	return n.region.Category
}

// Kind returns token kind, region nodes are reported as lexer.Begin.
func (n *Node) Kind() lexer.TokenKind {
	if n.isToken {
		return n.token.Kind
	}
	return lexer.Begin
}

// Start returns byte offset of the node.
func (n *Node) Start() int {
	if n.isToken {
		return n.token.Start
	}
	return n.region.Start
}

// End returns byte offset following the node.
func (n *Node) End() int {
	if n.isToken {
		return n.token.End
	}
	return n.region.End
}

// Depth returns region nesting depth of the node, root depth is 0.
func (n *Node) Depth() int {
	if n.isToken {
		return n.token.Depth
	}
	return n.region.Depth
}

// Grammar returns the name of the grammar that produced the node.
func (n *Node) Grammar() string {
	if n.isToken {
		return n.token.Grammar
	}
	return n.region.Grammar
}

// Text returns the text covered by the node.
func (n *Node) Text() string {
	return n.result.Text[n.Start():n.End()]
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Prev() *Node {
	return n.prev
}

func (n *Node) Next() *Node {
	return n.next
}

func (n *Node) FirstChild() *Node {
	return n.firstChild
}

func (n *Node) LastChild() *Node {
	return n.lastChild
}
