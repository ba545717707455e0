package tree

// Ancestor returns ancestor node of given level, level 0 is the parent.
func Ancestor(n *Node, level int) *Node {
	for n != nil && level >= 0 {
		n = n.Parent()
		level--
	}
	return n
}

// Level returns the number of node ancestors.
func Level(n *Node) (l int) {
	if n == nil {
		return
	}

	for p := n.Parent(); p != nil; p = p.Parent() {
		l++
	}
	return
}

// SiblingIndex returns node index in the list of its parent children.
func SiblingIndex(n *Node) (i int) {
	if n == nil {
		return
	}

	for p := n.Prev(); p != nil; p = p.Prev() {
		i++
	}
	return
}

// NthChild returns child node by index, negative index counts from the last child (-1).
func NthChild(n *Node, i int) *Node {
	if n == nil {
		return nil
	}

	var c *Node
	if i >= 0 {
		c = n.FirstChild()
		for c != nil && i > 0 {
			c = c.Next()
			i--
		}
	} else {
		c = n.LastChild()
		for i++; c != nil && i < 0; i++ {
			c = c.Prev()
		}
	}
	return c
}

// NthSibling returns sibling node by relative index, 0 is the node itself.
func NthSibling(n *Node, i int) *Node {
	for ; n != nil && i < 0; i++ {
		n = n.Prev()
	}
	for ; n != nil && i > 0; i-- {
		n = n.Next()
	}
	return n
}

// AllLevels makes NumOfChildren count all descendants.
const AllLevels = -1

// NumOfChildren counts children and descendants up to levels deep, 0 counts direct children only.
func NumOfChildren(parent *Node, levels int) int {
	if parent == nil {
		return 0
	}

	i := 0
	for c := parent.FirstChild(); c != nil; c = c.Next() {
		i++
		if levels != 0 {
			i += NumOfChildren(c, levels-1)
		}
	}
	return i
}

// Children returns direct child nodes.
func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}

	var res []*Node
	for c := n.FirstChild(); c != nil; c = c.Next() {
		res = append(res, c)
	}
	return res
}

// FirstTokenNode returns the first token node of the subtree or nil if there are no tokens.
func FirstTokenNode(n *Node) *Node {
	if n == nil || n.IsToken() {
		return n
	}

	for c := n.FirstChild(); c != nil; c = c.Next() {
		if t := FirstTokenNode(c); t != nil {
			return t
		}
	}
	return nil
}

// LastTokenNode returns the last token node of the subtree or nil if there are no tokens.
func LastTokenNode(n *Node) *Node {
	if n == nil || n.IsToken() {
		return n
	}

	for c := n.LastChild(); c != nil; c = c.Prev() {
		if t := LastTokenNode(c); t != nil {
			return t
		}
	}
	return nil
}

// NextTokenNode returns the first token node following the subtree.
func NextTokenNode(n *Node) *Node {
	for n != nil {
		for nn := n.Next(); nn != nil; nn = nn.Next() {
			if t := FirstTokenNode(nn); t != nil {
				return t
			}
		}
		n = n.Parent()
	}
	return nil
}

// PrevTokenNode returns the last token node preceding the subtree.
func PrevTokenNode(n *Node) *Node {
	for n != nil {
		for nn := n.Prev(); nn != nil; nn = nn.Prev() {
			if t := LastTokenNode(nn); t != nil {
				return t
			}
		}
		n = n.Parent()
	}
	return nil
}

// NodeAt returns the innermost node containing byte offset or nil if offset is out of text.
func NodeAt(root *Node, pos int) *Node {
	if root == nil || pos < root.Start() || pos >= root.End() {
		return nil
	}

	n := root
	for {
		var found *Node
		for c := n.FirstChild(); c != nil; c = c.Next() {
			if pos >= c.Start() && pos < c.End() {
				found = c
			}
		}
		if found == nil {
			return n
		}
		n = found
	}
}

// Path returns categories of all region nodes from the root down to the node, empty categories are skipped.
func Path(n *Node) []string {
	var res []string
	for ; n != nil; n = n.Parent() {
		if !n.IsToken() && n.Category() != "" {
			res = append(res, n.Category())
		}
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// Visitor is called for each visited node, returned flags tell whether to visit node children and following siblings.
type Visitor func(n *Node) (walkChildren, walkSiblings bool)

type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1
)

// Walk visits the node and its descendants depth first.
func Walk(n *Node, mode WalkMode, visitor Visitor) {
	if n != nil {
		visit(n, visitor, mode&WalkRtl != 0)
	}
}

func visit(n *Node, v Visitor, rtl bool) (walkSiblings bool) {
	walkChildren, walkSiblings := v(n)
	if !walkChildren {
		return
	}

	if rtl {
		for c := n.LastChild(); c != nil && visit(c, v, true); c = c.Prev() {
		}
	} else {
		for c := n.FirstChild(); c != nil && visit(c, v, false); c = c.Next() {
		}
	}
	return
}
