/*
Package inputsample provides an implementation of feature.Vector that is read
from an io.Reader.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pbanos/sapling/feature"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature string) error
	RejectValueFor(feature string, value string) error
}

/*
Sample represents a vector whose feature values
are retrieved from a reader. A feature value will be
requested using a FeatureValueRequester before reading it.
*/
type Sample struct {
	obtainedValues        map[string]float64
	undefinedFeatures     map[string]bool
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              []string
}

/*
New takes an io.Reader, a slice of feature names in priority order, a
FeatureValueRequester and an undefinedValue coding string and returns a
Sample.

The returned Sample Get method reads feature values first
requesting them with the given FeatureValueRequester and
then parsing the values from the reader. Each value is only
requested once.

The parsing expects each value to be presented ending with the
'\n' character, that is in new lines. Lines will be read from the
reader until a line containing a valid float64 number is found. Non
accepted values will be rejected with the FeatureValueRequester's
RejectValueFor method. The undefinedValue string followed by the '\n'
character will be interpreted as an undefined value, and the feature
will no longer be supported by the sample.

Attempting to obtain a value for a feature not in the given
features slice returns an error wrapping feature.ErrUnknownFeature.
*/
func New(r io.Reader, features []string, featureValueRequester FeatureValueRequester, undefinedValue string) *Sample {
	return &Sample{
		obtainedValues:        make(map[string]float64),
		undefinedFeatures:     make(map[string]bool),
		undefinedValue:        undefinedValue,
		scanner:               bufio.NewScanner(r),
		featureValueRequester: featureValueRequester,
		features:              features,
	}
}

// Get returns the value for the given feature, requesting and reading
// it if it was not obtained before.
func (rs *Sample) Get(name string) (float64, error) {
	if value, ok := rs.obtainedValues[name]; ok {
		return value, nil
	}
	if rs.undefinedFeatures[name] || !rs.known(name) {
		return 0, feature.UnknownFeatureError(name)
	}
	err := rs.featureValueRequester.RequestValueFor(name)
	if err != nil {
		return 0, err
	}
	for rs.scanner.Scan() {
		line := strings.TrimSpace(rs.scanner.Text())
		if line == rs.undefinedValue {
			rs.undefinedFeatures[name] = true
			return 0, feature.UnknownFeatureError(name)
		}
		value, perr := strconv.ParseFloat(line, 64)
		if perr == nil {
			rs.obtainedValues[name] = value
			return value, nil
		}
		err = rs.featureValueRequester.RejectValueFor(name, line)
		if err != nil {
			return 0, err
		}
	}
	if err = rs.scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("EOF when requesting value for %s", name)
}

// Features returns the features of the sample that have not been
// declared undefined
func (rs *Sample) Features() feature.Set {
	s := feature.NewSet()
	for _, f := range rs.features {
		if !rs.undefinedFeatures[f] {
			s[f] = struct{}{}
		}
	}
	return s
}

// Partition returns a split separating the sample from the given vector
// on the first of its features in priority order on which they differ
func (rs *Sample) Partition(other feature.Vector) (feature.Split, error) {
	if len(rs.features) == 0 {
		return feature.Split{}, fmt.Errorf("partitioning: sample has no features")
	}
	return feature.PartitionInOrder(rs, other, rs.features)
}

func (rs *Sample) known(name string) bool {
	for _, f := range rs.features {
		if f == name {
			return true
		}
	}
	return false
}
