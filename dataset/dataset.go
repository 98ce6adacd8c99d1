/*
Package dataset defines sources of labeled examples from which trees
are grown and tested.
*/
package dataset

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/feature"
)

/*
Dataset represents a collection of labeled examples.

Its Examples method returns the vectors of the examples it contains
and, at the same index, their labels.
*/
type Dataset interface {
	Examples(context.Context) ([]feature.Vector, []string, error)
}

/*
Writer is a Dataset to which examples can be written.

Its Write method takes vectors and their labels, writes them and
returns the number of examples actually written and an error if not all
of them could be written.
*/
type Writer interface {
	Dataset
	Write(context.Context, []feature.Vector, []string) (int, error)
}

/*
Memory is a Dataset keeping its examples in the process memory.
*/
type Memory struct {
	vectors []feature.Vector
	labels  []string
}

/*
NewMemory takes a slice of vectors and their labels and returns a Memory
dataset with them or an error if the slices differ in length.
*/
func NewMemory(vectors []feature.Vector, labels []string) (*Memory, error) {
	m := &Memory{}
	if _, err := m.Write(context.Background(), vectors, labels); err != nil {
		return nil, err
	}
	return m, nil
}

// Examples returns the examples in the dataset in insertion order
func (m *Memory) Examples(ctx context.Context) ([]feature.Vector, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return m.vectors, m.labels, nil
}

// Write appends the given examples to the dataset
func (m *Memory) Write(ctx context.Context, vectors []feature.Vector, labels []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(vectors) != len(labels) {
		return 0, fmt.Errorf("writing examples: %d vectors and %d labels", len(vectors), len(labels))
	}
	m.vectors = append(m.vectors, vectors...)
	m.labels = append(m.labels, labels...)
	return len(vectors), nil
}

// Count returns the number of examples in the dataset
func (m *Memory) Count() int {
	return len(m.vectors)
}

/*
Copy takes a context, a source Dataset and a destination Writer and writes
all the examples of the source onto the destination. It returns the number
of examples written and an error if they could not be read or written.
*/
func Copy(ctx context.Context, dst Writer, src Dataset) (int, error) {
	vectors, labels, err := src.Examples(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading examples: %w", err)
	}
	return dst.Write(ctx, vectors, labels)
}
