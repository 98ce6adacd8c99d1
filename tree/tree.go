package tree

import (
	"fmt"
	"strings"

	"github.com/pbanos/sapling/feature"
)

/*
Tree represents a binary classification tree grown incrementally from
labeled examples or read from its serialized form.

A Tree owns its nodes exclusively and is not safe for concurrent use:
callers sharing one must serialize access to it.
*/
type Tree struct {
	root Node
}

// New returns an empty tree
func New() *Tree {
	return &Tree{}
}

/*
FromRoot takes a node and returns a tree with it as root. The tree takes
ownership of the node and all the nodes under it.
*/
func FromRoot(root Node) *Tree {
	return &Tree{root: root}
}

/*
Grow takes a slice of vectors and a slice with their labels and returns a
tree grown by inserting each example in order. An error wrapping
ErrInvalidArgument is returned if the slices differ in length, are empty or
any label is empty; an error is also returned if an insertion fails.
*/
func Grow(vectors []feature.Vector, labels []string) (*Tree, error) {
	if err := validateExamples(vectors, labels); err != nil {
		return nil, err
	}
	t := New()
	for i, v := range vectors {
		if err := t.Insert(v, labels[i]); err != nil {
			return nil, fmt.Errorf("inserting example %d: %w", i, err)
		}
	}
	return t, nil
}

/*
Insert takes a vector and its label and adds them to the tree.

The vector descends the tree up to a leaf. If the leaf has the same label
nothing changes. Otherwise the example that produced the leaf partitions
itself against the vector and the leaf is replaced by an internal node on
the resulting split, with a new leaf for the vector on the side the split
sends it to and the old leaf on the other.

An error is returned and the tree left untouched if the label is empty,
the vector is nil or cannot be evaluated on a split on its way down, or
the leaf reached cannot be split.
*/
func (t *Tree) Insert(v feature.Vector, label string) error {
	if label == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidArgument)
	}
	if v == nil {
		return fmt.Errorf("%w: nil vector", ErrInvalidArgument)
	}
	root, err := insert(t.root, v, label)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

func insert(n Node, v feature.Vector, label string) (Node, error) {
	switch n := n.(type) {
	case nil:
		return newSourceLeaf(v, label), nil
	case *Leaf:
		if n.label == label {
			return n, nil
		}
		if n.source == nil {
			return nil, fmt.Errorf("%w: leaf %q has no source example", ErrCannotGrow, n.label)
		}
		s, err := n.source.Partition(v)
		if err != nil {
			return nil, fmt.Errorf("splitting leaf %q: %w", n.label, err)
		}
		left, err := s.Evaluate(v)
		if err != nil {
			return nil, fmt.Errorf("splitting leaf %q: %w", n.label, err)
		}
		nl := newSourceLeaf(v, label)
		if left {
			return &Internal{split: s, left: nl, right: n}, nil
		}
		return &Internal{split: s, left: n, right: nl}, nil
	case *Internal:
		left, err := n.split.Evaluate(v)
		if err != nil {
			return nil, err
		}
		if left {
			child, err := insert(n.left, v, label)
			if err != nil {
				return nil, err
			}
			n.left = child
		} else {
			child, err := insert(n.right, v, label)
			if err != nil {
				return nil, err
			}
			n.right = child
		}
		return n, nil
	}
	return nil, fmt.Errorf("unknown node type %T", n)
}

func validateExamples(vectors []feature.Vector, labels []string) error {
	if len(vectors) != len(labels) {
		return fmt.Errorf("%w: %d vectors and %d labels", ErrInvalidArgument, len(vectors), len(labels))
	}
	if len(vectors) == 0 {
		return fmt.Errorf("%w: no examples", ErrInvalidArgument)
	}
	for i, l := range labels {
		if l == "" {
			return fmt.Errorf("%w: empty label for example %d", ErrInvalidArgument, i)
		}
		if vectors[i] == nil {
			return fmt.Errorf("%w: nil vector for example %d", ErrInvalidArgument, i)
		}
	}
	return nil
}

// Root returns the root node of the tree or nil if the tree is empty
func (t *Tree) Root() Node {
	return t.root
}

// Empty returns whether the tree has no nodes
func (t *Tree) Empty() bool {
	return t.root == nil
}

/*
Traverse takes a function on a depth and a node and goes through the tree
in preorder calling it with every node: a parent node first, then its left
subtree, then its right subtree. If the function returns an error the
traversing is aborted and the error is returned.
*/
func (t *Tree) Traverse(f func(depth int, n Node) error) error {
	if t.root == nil {
		return nil
	}
	return traverse(t.root, 0, f)
}

func traverse(n Node, depth int, f func(int, Node) error) error {
	if err := f(depth, n); err != nil {
		return err
	}
	if in, ok := n.(*Internal); ok {
		if err := traverse(in.left, depth+1, f); err != nil {
			return err
		}
		return traverse(in.right, depth+1, f)
	}
	return nil
}

// Size returns the number of nodes in the tree
func (t *Tree) Size() int {
	var size int
	t.Traverse(func(int, Node) error {
		size++
		return nil
	})
	return size
}

// Depth returns the number of nodes in the longest path from the root
// to a leaf, 0 for an empty tree.
func (t *Tree) Depth() int {
	var depth int
	t.Traverse(func(d int, _ Node) error {
		if d+1 > depth {
			depth = d + 1
		}
		return nil
	})
	return depth
}

// Labels returns the distinct labels in the tree's leaves in preorder
func (t *Tree) Labels() []string {
	var labels []string
	seen := make(map[string]bool)
	t.Traverse(func(_ int, n Node) error {
		if l, ok := n.(*Leaf); ok && !seen[l.label] {
			seen[l.label] = true
			labels = append(labels, l.label)
		}
		return nil
	})
	return labels
}

func (t *Tree) String() string {
	if t.root == nil {
		return "(empty)\n"
	}
	return subtreeString(t.root)
}

func subtreeString(n Node) string {
	var result string
	var children []Node
	switch n := n.(type) {
	case *Leaf:
		result = fmt.Sprintf("{ %s }\n", n.label)
	case *Internal:
		result = fmt.Sprintf("[ %s < %s ]\n|\n", n.split.Feature, feature.FormatThreshold(n.split.Threshold))
		children = []Node{n.left, n.right}
	}
	for i, child := range children {
		for j, line := range strings.Split(subtreeString(child), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(children)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
