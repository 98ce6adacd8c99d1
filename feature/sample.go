package feature

import (
	"fmt"
	"strings"
)

/*
Sample is a generic Vector built from a list of feature names in priority
order and the values for them.
*/
type Sample struct {
	order  []string
	values map[string]float64
}

/*
NewSample takes a slice of feature names in priority order and a map of
feature names to values and returns a Sample. Names in the map missing
from the order are appended to it in alphabetical order, names in the
order that are missing from the map are left out of it.
*/
func NewSample(order []string, values map[string]float64) *Sample {
	fv := make(map[string]float64, len(values))
	for k, v := range values {
		fv[k] = v
	}
	seen := make(map[string]bool, len(order))
	o := make([]string, 0, len(fv))
	for _, name := range order {
		if _, ok := fv[name]; ok && !seen[name] {
			o = append(o, name)
			seen[name] = true
		}
	}
	for _, name := range NewSet(keys(fv)...).Names() {
		if !seen[name] {
			o = append(o, name)
		}
	}
	return &Sample{order: o, values: fv}
}

// Get returns the sample's value for the given feature
func (s *Sample) Get(name string) (float64, error) {
	v, ok := s.values[name]
	if !ok {
		return 0, UnknownFeatureError(name)
	}
	return v, nil
}

// Features returns the set of features for which the sample has a value
func (s *Sample) Features() Set {
	return NewSet(s.order...)
}

// Order returns the feature names of the sample in priority order
func (s *Sample) Order() []string {
	return append([]string(nil), s.order...)
}

/*
Partition takes another vector and returns a split on the first feature in
the sample's priority order for which both have a different value. An error
is returned if the sample has no features or the other vector does not
support one of the features examined.
*/
func (s *Sample) Partition(other Vector) (Split, error) {
	if len(s.order) == 0 {
		return Split{}, fmt.Errorf("partitioning: sample has no features")
	}
	return PartitionInOrder(s, other, s.order)
}

func (s *Sample) String() string {
	parts := make([]string, 0, len(s.order))
	for _, name := range s.order {
		parts = append(parts, fmt.Sprintf("%s:%v", name, s.values[name]))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}

/*
PartitionInOrder takes two vectors and a non-empty priority order of feature
names and returns a Split on the first feature in order whose values differ
between the vectors, with the midpoint of both values as threshold. When no
feature differs the last one in order is used. It is the partition rule
shared by the vectors in this module.
*/
func PartitionInOrder(a, b Vector, order []string) (Split, error) {
	var va, vb float64
	var err error
	for _, name := range order {
		va, err = a.Get(name)
		if err != nil {
			return Split{}, fmt.Errorf("partitioning on %s: %w", name, err)
		}
		vb, err = b.Get(name)
		if err != nil {
			return Split{}, fmt.Errorf("partitioning on %s: %w", name, err)
		}
		if va != vb {
			return Midpoint(name, va, vb), nil
		}
	}
	return Midpoint(order[len(order)-1], va, vb), nil
}

func keys(m map[string]float64) []string {
	result := make([]string, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	return result
}
