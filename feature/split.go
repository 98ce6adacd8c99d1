package feature

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// SplitFeatureMarker starts the first line of the text form of a split
	SplitFeatureMarker = "Feature"
	// SplitThresholdMarker starts the second line of the text form of a split
	SplitThresholdMarker = "Threshold"
)

/*
Split represents a decision rule on a feature: vectors whose value for
the feature is strictly lower than the threshold satisfy it.

Splits are values and must not be modified once created.
*/
type Split struct {
	Feature   string
	Threshold float64
}

/*
NewSplit takes a feature name and a threshold and returns a split
on them.
*/
func NewSplit(feature string, threshold float64) Split {
	return Split{Feature: feature, Threshold: threshold}
}

/*
Midpoint takes a feature name and two values for it and returns a split
on the feature with the arithmetic midpoint of both values as threshold.
When the values differ the threshold is above the lower one and not above
the higher one, so the split always separates them.
*/
func Midpoint(feature string, a, b float64) Split {
	m := (a + b) / 2
	if math.IsInf(m, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0) {
		m = a/2 + b/2
	}
	lo, hi := math.Min(a, b), math.Max(a, b)
	if lo < hi && m <= lo {
		m = hi
	}
	return Split{Feature: feature, Threshold: m}
}

/*
Evaluate takes a vector and returns true if its value for the split feature
is strictly lower than the threshold, false otherwise (ties go right). An
error is returned if the value cannot be obtained from the vector.
*/
func (s Split) Evaluate(v Vector) (bool, error) {
	value, err := v.Get(s.Feature)
	if err != nil {
		return false, err
	}
	return value < s.Threshold, nil
}

/*
String returns the canonical text form of the split used in serialized
trees: two lines, the first with the feature name and the second with the
threshold, formatted so that parsing it yields the exact same float64.
*/
func (s Split) String() string {
	return fmt.Sprintf("%s %s\n%s %s", SplitFeatureMarker, s.Feature, SplitThresholdMarker, FormatThreshold(s.Threshold))
}

// FormatThreshold returns the shortest decimal representation of the
// threshold that parses back to the same value.
func FormatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}
