// Package render turns an arbitrary Value into a presentation tree that
// mirrors its shape. It knows nothing about where the value came from or
// what schema it follows.
package render

import (
	"github.com/mcncl/jsonview/internal/models"
)

// NodeKind identifies the role of a Node in the presentation tree.
type NodeKind int

const (
	// Leaf displays the text of a scalar, null or undefined value.
	Leaf NodeKind = iota
	// List is an ordered container; its children are Item nodes.
	List
	// Item wraps the rendering of one sequence element.
	Item
	// Block is a keyed container; its children are Section nodes.
	Block
	// Section is one labelled mapping entry. Its single child is the panel
	// body, the rendering of the entry's value.
	Section
)

func (k NodeKind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case List:
		return "list"
	case Item:
		return "item"
	case Block:
		return "block"
	case Section:
		return "section"
	default:
		return "unknown"
	}
}

// Node is one element of the presentation tree. Nodes are built fresh by
// Render and never modified afterwards.
type Node struct {
	Kind NodeKind
	// Text is the display text of a Leaf.
	Text string
	// Source is the kind of value a Leaf was rendered from, for styling.
	Source models.Kind
	// Label is the mapping key of a Section.
	Label    string
	Children []Node
}

// Render builds the presentation tree for v. It is total over well-formed
// (acyclic) values, has no side effects and is safe for concurrent use.
func Render(v models.Value) Node {
	switch v.Kind {
	case models.Sequence:
		items := v.Items()
		children := make([]Node, len(items))
		for i, item := range items {
			children[i] = Node{Kind: Item, Children: []Node{Render(item)}}
		}
		return Node{Kind: List, Children: children}
	case models.Mapping:
		fields := v.Fields()
		children := make([]Node, len(fields))
		for i, f := range fields {
			children[i] = Node{Kind: Section, Label: f.Key, Children: []Node{Render(f.Value)}}
		}
		return Node{Kind: Block, Children: children}
	default:
		return Node{Kind: Leaf, Text: v.Text(), Source: v.Kind}
	}
}

// IsContainer reports whether n is a List or a Block.
func (n Node) IsContainer() bool {
	return n.Kind == List || n.Kind == Block
}

// Body returns the single child of an Item or Section.
func (n Node) Body() Node {
	if len(n.Children) == 0 {
		return Node{}
	}
	return n.Children[0]
}

// Labels returns the section labels of a Block in display order.
func (n Node) Labels() []string {
	if n.Kind != Block {
		return nil
	}
	labels := make([]string, len(n.Children))
	for i, c := range n.Children {
		labels[i] = c.Label
	}
	return labels
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	total := 1
	for _, c := range n.Children {
		total += Count(c)
	}
	return total
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Node) bool {
	if a.Kind != b.Kind || a.Text != b.Text || a.Source != b.Source || a.Label != b.Label {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Depth is the container nesting depth of n: zero for a Leaf, one for a flat
// List or Block. Item and Section wrappers do not add a level.
func Depth(n Node) int {
	deepest := 0
	for _, c := range n.Children {
		d := Depth(c)
		if d > deepest {
			deepest = d
		}
	}
	if n.IsContainer() {
		return deepest + 1
	}
	return deepest
}
