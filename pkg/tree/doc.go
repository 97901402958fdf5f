// Package tree models the hierarchy rendered by kintree.
//
// A [Record] is the wire shape of one person (or org unit) as it appears in
// the input document:
//
//	{
//	  "firstName": "Ada",
//	  "lastName": "Lovelace",
//	  "color": "green",
//	  "children": [{"firstName": "Byron", "lastName": "King"}]
//	}
//
// [Build] turns a record tree into a [Node] tree with parent and depth links.
// Nodes are created once and never destroyed: collapsing a node moves its
// child sequence into the hidden state of its [Children] value, expanding
// moves it back. Descendants keep whatever state they had while hidden, so
// re-expanding restores the previous sub-state exactly.
//
// # Children
//
// [Children] is a tagged union with three variants:
//
//	Visible(seq)  // Expanded: children are laid out and drawn
//	Hidden(seq)   // Collapsed: children exist but are not drawn
//	None          // Leaf
//
// The zero value is None. Empty sequences normalize to None, which keeps a
// node from ever reporting Expanded with nothing to show.
//
// # Identity
//
// Node.ID is zero until the render engine materializes the node for the
// first time; after that it never changes.
package tree
