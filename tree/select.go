package tree

// Filter reports whether node is selected.
type Filter func(n *Node) bool

// Extractor returns nodes related to given node.
type Extractor func(n *Node) []*Node

// Selector applies a chain of extractors to nodes, each step is applied to the output of the previous one.
type Selector struct {
	steps []Extractor
}

// NewSelector returns a selector with no steps, it selects its input nodes.
func NewSelector() *Selector {
	return &Selector{}
}

// Apply returns selected nodes in order of first appearance, without duplicates.
func (s *Selector) Apply(input ...*Node) []*Node {
	var res []*Node
	seen := make(map[*Node]bool)

	for _, n := range input {
		if n == nil {
			continue
		}

		ns := []*Node{n}
		for _, step := range s.steps {
			var next []*Node
			for _, nn := range ns {
				next = append(next, step(nn)...)
			}
			ns = next
		}

		for _, nn := range ns {
			if !seen[nn] {
				seen[nn] = true
				res = append(res, nn)
			}
		}
	}
	return res
}

// Use adds extractor step.
func (s *Selector) Use(e Extractor) *Selector {
	if e != nil {
		s.steps = append(s.steps, e)
	}
	return s
}

// Filter adds a step keeping only matching nodes.
func (s *Selector) Filter(f Filter) *Selector {
	return s.Use(func(n *Node) []*Node {
		if f(n) {
			return []*Node{n}
		}
		return nil
	})
}

// Search adds a step selecting matching nodes of the subtree (the node itself included).
// Subtrees of matching nodes are searched too if deep is set.
func (s *Selector) Search(f Filter, deep bool) *Selector {
	return s.Use(func(n *Node) []*Node {
		var res []*Node
		visit(n, func(nn *Node) (bool, bool) {
			if f(nn) {
				res = append(res, nn)
				return deep, true
			}
			return true, true
		}, false)
		return res
	})
}

// IsNot selects nodes not selected by f.
func IsNot(f Filter) Filter {
	return func(n *Node) bool {
		return !f(n)
	}
}

// IsAny selects nodes selected by at least one filter.
func IsAny(fs ...Filter) Filter {
	return func(n *Node) bool {
		for _, f := range fs {
			if f(n) {
				return true
			}
		}
		return false
	}
}

// IsAll selects nodes selected by every filter.
func IsAll(fs ...Filter) Filter {
	return func(n *Node) bool {
		for _, f := range fs {
			if !f(n) {
				return false
			}
		}
		return true
	}
}

// IsA selects nodes of given categories.
// Text, begin and end tokens of a region carry the region category, so they are selected too;
// use IsARegion to select regions only.
func IsA(categories ...string) Filter {
	return func(n *Node) bool {
		c := n.Category()
		for _, cat := range categories {
			if c == cat {
				return true
			}
		}
		return false
	}
}

// IsALiteral selects token nodes with given texts.
func IsALiteral(texts ...string) Filter {
	return func(n *Node) bool {
		if !n.IsToken() {
			return false
		}

		t := n.Text()
		for _, text := range texts {
			if text == t {
				return true
			}
		}
		return false
	}
}

// IsInGrammar selects nodes produced by given grammars.
func IsInGrammar(names ...string) Filter {
	return func(n *Node) bool {
		g := n.Grammar()
		for _, name := range names {
			if g == name {
				return true
			}
		}
		return false
	}
}

// IsToken selects token nodes.
func IsToken(n *Node) bool {
	return n.IsToken()
}

// IsRegion selects region nodes, the root node included.
func IsRegion(n *Node) bool {
	return !n.IsToken()
}

// IsARegion selects region nodes of given categories.
func IsARegion(categories ...string) Filter {
	return IsAll(IsRegion, IsA(categories...))
}

// Any returns the result of the first extractor returning nodes.
func Any(es ...Extractor) Extractor {
	return func(n *Node) (res []*Node) {
		for _, e := range es {
			res = e(n)
			if len(res) > 0 {
				break
			}
		}
		return
	}
}

// All returns results of all extractors.
func All(es ...Extractor) Extractor {
	return func(n *Node) (res []*Node) {
		for _, e := range es {
			res = append(res, e(n)...)
		}
		return
	}
}

// Ancestors returns ancestors of given levels, see Ancestor.
func Ancestors(levels ...int) Extractor {
	return func(n *Node) []*Node {
		var res []*Node
		for _, i := range levels {
			if nn := Ancestor(n, i); nn != nil {
				res = append(res, nn)
			}
		}
		return res
	}
}

// NthChildren returns children with given indexes, see NthChild.
func NthChildren(indexes ...int) Extractor {
	return func(n *Node) []*Node {
		var res []*Node
		for _, i := range indexes {
			if nn := NthChild(n, i); nn != nil {
				res = append(res, nn)
			}
		}
		return res
	}
}

// NthSiblings returns siblings with given offsets, see NthSibling.
func NthSiblings(indexes ...int) Extractor {
	return func(n *Node) []*Node {
		var res []*Node
		for _, i := range indexes {
			if nn := NthSibling(n, i); nn != nil {
				res = append(res, nn)
			}
		}
		return res
	}
}
