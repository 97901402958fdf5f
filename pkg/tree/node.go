package tree

// HighlightColor is the record color that marks a node for highlighting.
const HighlightColor = "green"

// State is the expand/collapse state of a node.
type State int

const (
	Leaf State = iota
	Expanded
	Collapsed
)

func (s State) String() string {
	switch s {
	case Expanded:
		return "expanded"
	case Collapsed:
		return "collapsed"
	default:
		return "leaf"
	}
}

// Children holds a node's child sequence together with its visibility.
type Children struct {
	state State
	nodes []*Node
}

// Visible returns an Expanded child set. An empty sequence yields None.
func Visible(nodes []*Node) Children {
	if len(nodes) == 0 {
		return None()
	}
	return Children{state: Expanded, nodes: nodes}
}

// Hidden returns a Collapsed child set. An empty sequence yields None.
func Hidden(nodes []*Node) Children {
	if len(nodes) == 0 {
		return None()
	}
	return Children{state: Collapsed, nodes: nodes}
}

// None returns the leaf variant.
func None() Children { return Children{} }

// State reports which variant c holds.
func (c Children) State() State { return c.state }

// All returns the child sequence regardless of visibility.
func (c Children) All() []*Node { return c.nodes }

// Shown returns the children when they are visible, nil otherwise.
func (c Children) Shown() []*Node {
	if c.state != Expanded {
		return nil
	}
	return c.nodes
}

// Concealed returns the children when they are hidden, nil otherwise.
func (c Children) Concealed() []*Node {
	if c.state != Collapsed {
		return nil
	}
	return c.nodes
}

// Node is one entry of the hierarchy plus the runtime state attached to it
// by layout and rendering.
type Node struct {
	FirstName string
	LastName  string
	Color     string

	// ID is assigned by the render engine on first materialization.
	ID     int
	Depth  int
	Parent *Node

	// X is the breadth coordinate (sibling order), Y the depth coordinate.
	X, Y float64

	// LastX and LastY hold the most recently rendered position.
	LastX, LastY float64

	children Children
}

// Name returns the display label: first and last name joined by a space.
func (n *Node) Name() string {
	return FullName(n.FirstName, n.LastName)
}

// FullName joins first and last name with a space. A node with neither
// part has an empty name.
func FullName(first, last string) string {
	if first == "" && last == "" {
		return ""
	}
	return first + " " + last
}

// Highlighted reports whether the node's data tags it for highlighting.
func (n *Node) Highlighted() bool { return n.Color == HighlightColor }

// Children returns the node's child set.
func (n *Node) Children() Children { return n.children }

// SetChildren replaces the node's child set and links every child back to n.
func (n *Node) SetChildren(c Children) {
	for _, child := range c.nodes {
		child.Parent = n
		child.setDepth(n.Depth + 1)
	}
	n.children = c
}

// State reports whether n is expanded, collapsed, or a leaf.
func (n *Node) State() State { return n.children.state }

// Visible returns n's visible children.
func (n *Node) Visible() []*Node { return n.children.Shown() }

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// Toggle swaps visible and hidden children. It reports false for leaves,
// which have nothing to toggle.
func (n *Node) Toggle() bool {
	switch n.children.state {
	case Expanded:
		n.children.state = Collapsed
	case Collapsed:
		n.children.state = Expanded
	default:
		return false
	}
	return true
}

// Collapse hides n's children and those of every descendant.
func (n *Node) Collapse() {
	for _, child := range n.children.nodes {
		child.Collapse()
	}
	if n.children.state == Expanded {
		n.children.state = Collapsed
	}
}

// Descendants returns n and all visible descendants in breadth-first order.
func (n *Node) Descendants() []*Node {
	nodes := []*Node{n}
	for i := 0; i < len(nodes); i++ {
		nodes = append(nodes, nodes[i].Visible()...)
	}
	return nodes
}

// Walk calls fn for n and each visible descendant in pre-order. Returning
// false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Visible() {
		child.Walk(fn)
	}
}

// Each calls fn for n and every descendant, hidden or not, in pre-order.
func (n *Node) Each(fn func(*Node)) {
	fn(n)
	for _, child := range n.children.nodes {
		child.Each(fn)
	}
}

// Find returns the node with the given ID among n and all its descendants.
func (n *Node) Find(id int) (*Node, bool) {
	if id == 0 {
		return nil, false
	}
	var found *Node
	n.Each(func(c *Node) {
		if found == nil && c.ID == id {
			found = c
		}
	})
	return found, found != nil
}

// Size returns the number of visible nodes in the subtree rooted at n.
func (n *Node) Size() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

func (n *Node) setDepth(d int) {
	n.Depth = d
	for _, child := range n.children.nodes {
		child.setDepth(d + 1)
	}
}
