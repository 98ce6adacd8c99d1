package tree

import (
	"fmt"

	"github.com/pbanos/sapling/feature"
)

// Split is the decision rule held by internal nodes
type Split = feature.Split

/*
Node is a node of the tree: either a *Leaf or an *Internal node.
*/
type Node interface {
	isNode()
}

/*
Leaf is a terminal node of the tree carrying a label.

Leaves created while growing a tree remember the example that
produced them, so that they can be split when a conflicting example
reaches them. Leaves read from a serialized tree do not.
*/
type Leaf struct {
	label       string
	source      feature.Vector
	sourceLabel string
}

/*
Internal is a node of the tree with a split and exactly two children:
vectors satisfying the split go left, the rest go right.
*/
type Internal struct {
	split Split
	left  Node
	right Node
}

/*
NewLeaf takes a label and returns a leaf with it and no source example or
an error if the label is empty.
*/
func NewLeaf(label string) (*Leaf, error) {
	if label == "" {
		return nil, fmt.Errorf("%w: empty leaf label", ErrInvalidArgument)
	}
	return &Leaf{label: label}, nil
}

func newSourceLeaf(v feature.Vector, label string) *Leaf {
	return &Leaf{label: label, source: v, sourceLabel: label}
}

/*
NewInternal takes a split and two child nodes and returns an internal node
or an error if any of the children is missing.
*/
func NewInternal(s Split, left, right Node) (*Internal, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("%w: internal node on %s needs two children", ErrInvalidArgument, s.Feature)
	}
	return &Internal{split: s, left: left, right: right}, nil
}

func (*Leaf) isNode()     {}
func (*Internal) isNode() {}

// Label returns the label of the leaf
func (l *Leaf) Label() string {
	return l.label
}

// Source returns the example that produced the leaf and its label, or
// a nil vector if the leaf has none.
func (l *Leaf) Source() (feature.Vector, string) {
	return l.source, l.sourceLabel
}

// Split returns the split of the node
func (in *Internal) Split() Split {
	return in.split
}

// Left returns the subtree for vectors satisfying the split
func (in *Internal) Left() Node {
	return in.left
}

// Right returns the subtree for vectors not satisfying the split
func (in *Internal) Right() Node {
	return in.right
}
