package tree

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/pbanos/sapling/feature"
)

/*
WriteTo takes an io.Writer and writes the tree on it in preorder, one
record per node:
  - a leaf is written as a line with its label
  - an internal node is written as the two lines of its split's text
    form, "Feature <name>" and "Threshold <value>", followed by its left
    subtree and then its right subtree.

No other markers are written: the binary tree structure is enough to
read it back with Read. It returns the number of bytes written and an
error if writing fails, a label cannot be told apart from a split when
read back or a split feature name is empty or contains whitespace. An empty tree writes nothing.
*/
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	err := t.Traverse(func(_ int, n Node) error {
		switch n := n.(type) {
		case *Leaf:
			if err := checkWritableLabel(n.label); err != nil {
				return err
			}
			cw.writeLine(n.label)
		case *Internal:
			if err := checkWritableFeature(n.split.Feature); err != nil {
				return err
			}
			cw.writeLine(n.split.String())
		}
		return cw.err
	})
	if err != nil {
		return cw.n, err
	}
	if err = bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func checkWritableLabel(label string) error {
	if strings.ContainsAny(label, "\r\n") {
		return fmt.Errorf("%w: label %q spans several lines", ErrInvalidArgument, label)
	}
	if isSplitLine(strings.Fields(label)) {
		return fmt.Errorf("%w: label %q would be read as a split", ErrInvalidArgument, label)
	}
	return nil
}

func checkWritableFeature(name string) error {
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: feature name %q cannot be written in a split line", ErrInvalidArgument, name)
	}
	return nil
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) writeLine(s string) {
	if cw.err != nil {
		return
	}
	n, err := io.WriteString(cw.w, s+"\n")
	cw.n += int64(n)
	cw.err = err
}

/*
Read takes an io.Reader with a tree serialized by WriteTo and returns the
tree read from it. The leaves of the returned tree have no source example,
so it can classify vectors but not grow.

An error wrapping ErrMalformedInput is returned if the input ends before
the tree is complete, including when it is empty, or if a split cannot be
parsed. An error is also returned if the reader fails. Lines after a
complete tree are not read.
*/
func Read(r io.Reader) (*Tree, error) {
	s := bufio.NewScanner(r)
	next := func() (string, error) {
		if s.Scan() {
			return s.Text(), nil
		}
		if err := s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return readTree(next)
}

/*
ReadLines works like Read on a tree serialized as a slice of lines.
*/
func ReadLines(lines []string) (*Tree, error) {
	var i int
	next := func() (string, error) {
		if i >= len(lines) {
			return "", io.EOF
		}
		i++
		return lines[i-1], nil
	}
	return readTree(next)
}

func readTree(next func() (string, error)) (*Tree, error) {
	lr := &lineReader{next: next}
	root, err := lr.readNode()
	if err != nil {
		return nil, err
	}
	return FromRoot(root), nil
}

type lineReader struct {
	next func() (string, error)
	line int
}

func (lr *lineReader) readLine(expected string) (string, error) {
	line, err := lr.next()
	if err == io.EOF {
		return "", fmt.Errorf("%w: input ended after line %d, expected %s", ErrMalformedInput, lr.line, expected)
	}
	if err != nil {
		return "", fmt.Errorf("reading line %d: %w", lr.line+1, err)
	}
	lr.line++
	return line, nil
}

func (lr *lineReader) readNode() (Node, error) {
	line, err := lr.readLine("a node")
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if !isSplitLine(fields) {
		if line == "" {
			return nil, fmt.Errorf("%w: empty label on line %d", ErrMalformedInput, lr.line)
		}
		return &Leaf{label: line}, nil
	}
	featureName := fields[1]
	line, err = lr.readLine(fmt.Sprintf("the threshold for feature %s", featureName))
	if err != nil {
		return nil, err
	}
	fields = strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: no threshold on line %d", ErrMalformedInput, lr.line)
	}
	threshold, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing threshold on line %d: %v", ErrMalformedInput, lr.line, err)
	}
	left, err := lr.readNode()
	if err != nil {
		return nil, err
	}
	right, err := lr.readNode()
	if err != nil {
		return nil, err
	}
	return &Internal{split: feature.NewSplit(featureName, threshold), left: left, right: right}, nil
}

func isSplitLine(fields []string) bool {
	return len(fields) >= 2 && fields[0] == feature.SplitFeatureMarker
}
