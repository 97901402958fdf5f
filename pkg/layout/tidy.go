package layout

import (
	"github.com/matzehuels/kintree/pkg/tree"
)

// Tidy is the Reingold–Tilford tidy tree layout (Buchheim, Jünger and
// Leipert, "Improving Walker's Algorithm to Run in Linear Time").
type Tidy struct {
	opts Options
}

// NewTidy creates a tidy tree engine.
func NewTidy(opts Options) *Tidy {
	opts.setDefaults()
	return &Tidy{opts: opts}
}

// walker carries the per-node bookkeeping of the algorithm.
type walker struct {
	node     *tree.Node
	parent   *walker
	children []*walker

	index    int     // position among siblings
	prelim   float64 // preliminary x
	mod      float64 // modifier
	change   float64
	shift    float64
	thread   *walker
	ancestor *walker
	deflt    *walker // default ancestor of this node's children
}

// Layout positions every visible node below root.
func (t *Tidy) Layout(root *tree.Node) error {
	w := buildWalkers(root)

	w.eachAfter(t.firstWalk)
	w.parent.mod = -w.prelim
	w.eachBefore(secondWalk)

	// Extremes are scanned in pre-order; a tie keeps the first node seen.
	var nodes []*tree.Node
	root.Walk(func(n *tree.Node) bool {
		nodes = append(nodes, n)
		return true
	})
	left, right := root, root
	for _, n := range nodes {
		if n.X < left.X {
			left = n
		}
		if n.X > right.X {
			right = n
		}
	}

	s := 1.0
	if left != right {
		s = t.opts.Separation(left, right) / 2
	}
	tx := s - left.X
	kx := t.opts.Height / (right.X + s + tx)
	for _, n := range nodes {
		n.X = (n.X + tx) * kx
	}
	normalizeDepth(nodes, t.opts)
	return nil
}

// buildWalkers mirrors the visible tree under a synthetic parent so that
// the root can be treated like any other sibling.
func buildWalkers(root *tree.Node) *walker {
	top := &walker{node: root}
	top.ancestor = top
	stack := []*walker{top}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, c := range w.node.Visible() {
			child := &walker{node: c, parent: w, index: i}
			child.ancestor = child
			w.children = append(w.children, child)
			stack = append(stack, child)
		}
	}
	top.parent = &walker{children: []*walker{top}}
	return top
}

func (w *walker) eachAfter(fn func(*walker)) {
	for _, c := range w.children {
		c.eachAfter(fn)
	}
	fn(w)
}

func (w *walker) eachBefore(fn func(*walker)) {
	fn(w)
	for _, c := range w.children {
		c.eachBefore(fn)
	}
}

func (t *Tidy) firstWalk(v *walker) {
	siblings := v.parent.children
	var w *walker
	if v.index > 0 {
		w = siblings[v.index-1]
	}

	if len(v.children) > 0 {
		executeShifts(v)
		midpoint := (v.children[0].prelim + v.children[len(v.children)-1].prelim) / 2
		if w != nil {
			v.prelim = w.prelim + t.opts.Separation(v.node, w.node)
			v.mod = v.prelim - midpoint
		} else {
			v.prelim = midpoint
		}
	} else if w != nil {
		v.prelim = w.prelim + t.opts.Separation(v.node, w.node)
	}

	deflt := v.parent.deflt
	if deflt == nil {
		deflt = siblings[0]
	}
	v.parent.deflt = t.apportion(v, w, deflt)
}

func secondWalk(v *walker) {
	v.node.X = v.prelim + v.parent.mod
	v.mod += v.parent.mod
}

func (t *Tidy) apportion(v, w, ancestor *walker) *walker {
	if w == nil {
		return ancestor
	}

	vip, vop := v, v
	vim, vom := w, v.parent.children[0]
	sip, sop := vip.mod, vop.mod
	sim, som := vim.mod, vom.mod

	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.ancestor = v

		shift := vim.prelim + sim - vip.prelim - sip + t.opts.Separation(vim.node, vip.node)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.mod
		sip += vip.mod
		som += vom.mod
		sop += vop.mod
	}

	if vim != nil && nextRight(vop) == nil {
		vop.thread = vim
		vop.mod += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.thread = vip
		vom.mod += sip - som
		ancestor = v
	}
	return ancestor
}

func nextLeft(v *walker) *walker {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.thread
}

func nextRight(v *walker) *walker {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.thread
}

func moveSubtree(wm, wp *walker, shift float64) {
	change := shift / float64(wp.index-wm.index)
	wp.change -= change
	wp.shift += shift
	wm.change += change
	wp.prelim += shift
	wp.mod += shift
}

func executeShifts(v *walker) {
	shift, change := 0.0, 0.0
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.prelim += shift
		w.mod += shift
		change += w.change
		shift += w.shift + change
	}
}

func nextAncestor(vim, v, ancestor *walker) *walker {
	if vim.ancestor.parent == v.parent {
		return vim.ancestor
	}
	return ancestor
}
