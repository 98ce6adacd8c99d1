package tree

import (
	"errors"
	"fmt"

	"github.com/pbanos/sapling/feature"
)

// Error represents an error related with trees
type Error string

/*
ErrInvalidArgument is the error returned when a tree is asked to grow from
examples that are empty, whose vectors and labels do not pair up, or
that carry an empty label.
*/
const ErrInvalidArgument = Error("invalid argument")

/*
ErrNotClassifiable is the error returned by the Classify method of a tree
when the tree cannot classify that kind of vector, as opposed to cases
where values for a feature cannot be obtained for example.
*/
const ErrNotClassifiable = Error("vector is not classifiable")

/*
ErrMalformedInput is the error returned when reading a serialized tree
that ends before the tree is complete or that has an unparseable split.
*/
const ErrMalformedInput = Error("malformed serialized tree")

/*
ErrCannotGrow is the error returned when an example conflicts with a leaf
that has no source example to partition against, as is the case for
leaves of a tree read from its serialized form.
*/
const ErrCannotGrow = Error("cannot grow tree")

func (e Error) Error() string {
	return string(e)
}

/*
Check is a way to decide whether a tree is able to classify a vector.
*/
type Check int

const (
	// LeftSpineCheck requires the vector to support the features of the
	// internal nodes met descending always to the left from the root.
	// Features only used under right branches are not checked.
	LeftSpineCheck Check = iota
	// PathCheck requires the vector to support the features of the
	// internal nodes in the path it would actually take down the tree.
	PathCheck
)

func (c Check) String() string {
	switch c {
	case LeftSpineCheck:
		return "left-spine"
	case PathCheck:
		return "path"
	}
	return fmt.Sprintf("Check(%d)", int(c))
}

/*
CanClassify takes a vector and returns whether the tree can classify it
according to the LeftSpineCheck: every internal node found descending
to the left from the root must split on a feature the vector supports.
An empty tree cannot classify anything.
*/
func (t *Tree) CanClassify(v feature.Vector) bool {
	if t.root == nil {
		return false
	}
	fs := v.Features()
	n := t.root
	for {
		switch in := n.(type) {
		case *Internal:
			if !fs.Contains(in.split.Feature) {
				return false
			}
			n = in.left
		default:
			return true
		}
	}
}

/*
CanClassifyPath takes a vector and returns whether the tree can classify
it according to the PathCheck: every internal node in the path followed
by the vector must split on a feature it supports.
*/
func (t *Tree) CanClassifyPath(v feature.Vector) bool {
	if t.root == nil {
		return false
	}
	fs := v.Features()
	n := t.root
	for {
		switch in := n.(type) {
		case *Internal:
			if !fs.Contains(in.split.Feature) {
				return false
			}
			left, err := in.split.Evaluate(v)
			if err != nil {
				return false
			}
			if left {
				n = in.left
			} else {
				n = in.right
			}
		default:
			return true
		}
	}
}

/*
Classify takes a vector and returns the label of the leaf it reaches by
descending the tree, going left on internal nodes whose split it satisfies
and right otherwise. An error wrapping ErrNotClassifiable is returned if
CanClassify is false for the vector, and an error is returned if a split
cannot be evaluated on it.
*/
func (t *Tree) Classify(v feature.Vector) (string, error) {
	return t.ClassifyWith(v, LeftSpineCheck)
}

/*
ClassifyWith works like Classify but decides whether the vector can be
classified with the given Check.
*/
func (t *Tree) ClassifyWith(v feature.Vector, c Check) (string, error) {
	var ok bool
	switch c {
	case LeftSpineCheck:
		ok = t.CanClassify(v)
	case PathCheck:
		ok = t.CanClassifyPath(v)
	default:
		return "", fmt.Errorf("%w: unknown check %v", ErrInvalidArgument, c)
	}
	if !ok {
		return "", fmt.Errorf("%w with features %v", ErrNotClassifiable, v.Features())
	}
	return classify(t.root, v)
}

func classify(n Node, v feature.Vector) (string, error) {
	for {
		switch in := n.(type) {
		case *Leaf:
			return in.label, nil
		case *Internal:
			left, err := in.split.Evaluate(v)
			if err != nil {
				return "", fmt.Errorf("classifying: %w", err)
			}
			if left {
				n = in.left
			} else {
				n = in.right
			}
		default:
			return "", fmt.Errorf("%w: unknown node type %T", ErrMalformedInput, n)
		}
	}
}

/*
Test takes a slice of vectors and their labels and returns three values:
  - the classification success rate of the tree over the given examples
  - the number of examples the tree could not classify, either because
    they were not classifiable or because they lacked a feature needed on
    their way down the tree
  - an error if the examples are invalid. If this is not nil, the other
    values will be 0.0 and 0 respectively
*/
func (t *Tree) Test(vectors []feature.Vector, labels []string, c Check) (float64, int, error) {
	if err := validateExamples(vectors, labels); err != nil {
		return 0.0, 0, err
	}
	var result float64
	var errCount int
	for i, v := range vectors {
		l, err := t.ClassifyWith(v, c)
		if err != nil {
			if !errors.Is(err, ErrNotClassifiable) && !errors.Is(err, feature.ErrUnknownFeature) {
				return 0.0, 0, err
			}
			errCount++
			continue
		}
		if l == labels[i] {
			result += 1.0
		}
	}
	return result / float64(len(vectors)), errCount, nil
}
