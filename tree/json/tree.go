/*
Package json provides a JSON rendering of classification trees, meant for
reporting and for tools that cannot read the preorder text format.
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

/*
node is the JSON form of a tree node. Leaves only carry a label, internal
nodes carry a feature, a threshold and both children.
*/
type node struct {
	Label     string   `json:"label,omitempty"`
	Feature   string   `json:"feature,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
	Left      *node    `json:"left,omitempty"`
	Right     *node    `json:"right,omitempty"`
}

/*
WriteJSONTree takes a pointer to a tree.Tree and an io.Writer and
serializes the given tree as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
  - "size": the number of nodes in the tree
  - "depth": the length of its longest root to leaf path
  - "root": the root node, null for an empty tree, where leaves are objects
    with a "label" and internal nodes objects with a "feature", a
    "threshold", and "left" and "right" nodes.

JSON has no numbers for NaN or infinities, so a tree with a non-finite
threshold, which can result from non-finite feature values, cannot be
written as JSON: its preorder text form (tree.Tree.WriteTo) must be used
instead. An error wrapping tree.ErrInvalidArgument is returned for such a
tree, before anything is written. Any other error is returned if the tree
cannot be serialized or written onto the io.Writer.
*/
func WriteJSONTree(t *tree.Tree, w io.Writer) error {
	err := t.Traverse(func(_ int, n tree.Node) error {
		if in, ok := n.(*tree.Internal); ok {
			if thr := in.Split().Threshold; math.IsNaN(thr) || math.IsInf(thr, 0) {
				return fmt.Errorf("%w: threshold %v of split on %s has no JSON representation", tree.ErrInvalidArgument, thr, in.Split().Feature)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	jt := &struct {
		Size  int   `json:"size"`
		Depth int   `json:"depth"`
		Root  *node `json:"root"`
	}{t.Size(), t.Depth(), encode(t.Root())}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jt)
}

/*
ReadJSONTree takes an io.Reader and unmarshals the contents of the
io.Reader onto a new tree.Tree, which it returns. The JSON is expected
to have the format written by WriteJSONTree, the size and depth fields
are ignored.
An error is returned if the JSON cannot be read from the io.Reader, its
root is missing or any of its nodes is neither a leaf nor an internal node
with two children.
*/
func ReadJSONTree(r io.Reader) (*tree.Tree, error) {
	jt := &struct {
		Root *node `json:"root"`
	}{}
	if err := json.NewDecoder(r).Decode(jt); err != nil {
		return nil, fmt.Errorf("decoding JSON tree: %v", err)
	}
	if jt.Root == nil {
		return nil, fmt.Errorf("%w: no root node available", tree.ErrMalformedInput)
	}
	root, err := decode(jt.Root, "root")
	if err != nil {
		return nil, err
	}
	return tree.FromRoot(root), nil
}

func encode(n tree.Node) *node {
	switch n := n.(type) {
	case *tree.Leaf:
		return &node{Label: n.Label()}
	case *tree.Internal:
		s := n.Split()
		threshold := s.Threshold
		return &node{Feature: s.Feature, Threshold: &threshold, Left: encode(n.Left()), Right: encode(n.Right())}
	}
	return nil
}

func decode(jn *node, path string) (tree.Node, error) {
	if jn.Feature == "" {
		if jn.Threshold != nil || jn.Left != nil || jn.Right != nil {
			return nil, fmt.Errorf("%w: node %s has no feature", tree.ErrMalformedInput, path)
		}
		l, err := tree.NewLeaf(jn.Label)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s: %v", tree.ErrMalformedInput, path, err)
		}
		return l, nil
	}
	if jn.Label != "" {
		return nil, fmt.Errorf("%w: node %s has both a label and a feature", tree.ErrMalformedInput, path)
	}
	if jn.Threshold == nil || jn.Left == nil || jn.Right == nil {
		return nil, fmt.Errorf("%w: internal node %s needs a threshold and two children", tree.ErrMalformedInput, path)
	}
	left, err := decode(jn.Left, path+".left")
	if err != nil {
		return nil, err
	}
	right, err := decode(jn.Right, path+".right")
	if err != nil {
		return nil, err
	}
	return tree.NewInternal(feature.NewSplit(jn.Feature, *jn.Threshold), left, right)
}
