package tree

import (
	"github.com/matzehuels/kintree/pkg/errors"
)

// Record is the wire shape of a node in the input document.
type Record struct {
	FirstName string    `json:"firstName" bson:"firstName"`
	LastName  string    `json:"lastName" bson:"lastName"`
	Color     string    `json:"color,omitempty" bson:"color,omitempty"`
	Children  []*Record `json:"children,omitempty" bson:"children,omitempty"`
}

// Build converts a record tree into a Node tree in one top-down pass,
// populating Parent and Depth. All children start visible.
//
// Records must form a tree; a record reachable twice (or a cycle) is a
// precondition violation that Build does not detect.
func Build(root *Record) (*Node, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root record is null")
	}

	type frame struct {
		rec  *Record
		node *Node
	}

	top := newNode(root, nil)
	stack := []frame{{rec: root, node: top}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kids := make([]*Node, 0, len(f.rec.Children))
		for i, rec := range f.rec.Children {
			if rec == nil {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"child %d of %q is null", i, f.node.Name())
			}
			child := newNode(rec, f.node)
			kids = append(kids, child)
			stack = append(stack, frame{rec: rec, node: child})
		}
		f.node.children = Visible(kids)
	}
	return top, nil
}

func newNode(rec *Record, parent *Node) *Node {
	n := &Node{
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Color:     rec.Color,
		Parent:    parent,
	}
	if parent != nil {
		n.Depth = parent.Depth + 1
	}
	return n
}

// Count returns the number of records in the tree rooted at r.
func (r *Record) Count() int {
	if r == nil {
		return 0
	}
	n := 1
	for _, c := range r.Children {
		n += c.Count()
	}
	return n
}
