/*
Package yaml provides methods to parse feature metadata, the priority
ordered feature names and the label of a dataset, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	yaml "gopkg.in/yaml.v2"
)

/*
Metadata describes the features of a dataset: the names of its numeric
features in the priority order used to partition vectors and the name
of the column holding the label.
*/
type Metadata struct {
	Features []string `yaml:"features"`
	Label    string   `yaml:"label"`
}

/*
ReadMetadata takes a slice of bytes with a feature specification in YML and
returns the metadata parsed from it or an error.
The YML is expected to be an object containing a features property with a
list of feature names and a label property with the name of the label.
Feature names with whitespace, duplicated feature names or a label that
is also a feature are rejected.
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	metadata := &Metadata{}
	err := yaml.Unmarshal(md, metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if len(metadata.Features) == 0 {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	if metadata.Label == "" {
		return nil, fmt.Errorf("metadata file has no label information")
	}
	seen := make(map[string]bool)
	for _, f := range metadata.Features {
		if f == "" {
			return nil, fmt.Errorf("metadata file has an empty feature name")
		}
		if strings.IndexFunc(f, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("feature name %q contains whitespace", f)
		}
		if seen[f] {
			return nil, fmt.Errorf("feature %s declared more than once", f)
		}
		if f == metadata.Label {
			return nil, fmt.Errorf("label %s cannot also be a feature", f)
		}
		seen[f] = true
	}
	return metadata, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the parsed metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return metadata, err
}

// WriteMetadata returns the YML document for the given metadata.
func WriteMetadata(m *Metadata) ([]byte, error) {
	return yaml.Marshal(m)
}
