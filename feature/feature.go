/*
Package feature defines the capability a classification tree needs from the
examples it learns from and classifies: vectors of named numeric features
that know how to separate themselves from another vector of their kind.
*/
package feature

import (
	"fmt"
	"sort"
)

// Error represents an error related with features
type Error string

/*
ErrUnknownFeature is the error returned (possibly wrapped) when a vector is
asked for the value of a feature it does not support.
*/
const ErrUnknownFeature = Error("unknown feature")

func (e Error) Error() string {
	return string(e)
}

/*
Vector represents a feature vector: a bundle of named numeric values.

Its Get method returns the value for the feature with the given name or an
error wrapping ErrUnknownFeature if the vector does not support it.

Its Features method returns the set of feature names the vector supports.

Its Partition method takes another vector of the same kind and returns a
Split on the first feature, in the vector's own priority order, whose value
differs between both vectors, with a threshold on the midpoint of both
values. If no feature differs, the split is made on the last feature in
priority order.
*/
type Vector interface {
	Get(name string) (float64, error)
	Features() Set
	Partition(other Vector) (Split, error)
}

// Set is a set of feature names
type Set map[string]struct{}

// NewSet takes feature names and returns a Set containing them.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains returns whether the set includes the given feature name.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the feature names in the set sorted alphabetically.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s Set) String() string {
	return fmt.Sprintf("%v", s.Names())
}

// UnknownFeatureError returns an error wrapping ErrUnknownFeature for
// the given feature name.
func UnknownFeatureError(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownFeature, name)
}
