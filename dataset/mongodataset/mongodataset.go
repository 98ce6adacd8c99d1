/*
Package mongodataset provides a implementation of dataset.Dataset
that uses a MongoDB database as backend.

Examples are stored as documents of a collection with a numeric field
for each defined feature and a string field for the label.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// DefaultCollectionName is the collection used when none is given
const DefaultCollectionName = "examples"

/*
Dataset is a dataset.Writer backed by a MongoDB collection
*/
type Dataset struct {
	session    *mgo.Session
	collection string
	md         *yaml.Metadata
}

/*
Open takes a context, a MongoDB database session, a collection name and
the metadata of the dataset and returns a Dataset that works on the
collection on the default database for that session or an error if the
feature or label names cannot be used as document fields or the indexes
cannot be ensured.
*/
func Open(ctx context.Context, session *mgo.Session, collection string, md *yaml.Metadata) (*Dataset, error) {
	if collection == "" {
		collection = DefaultCollectionName
	}
	mds := &Dataset{session, collection, md}
	if err := mds.ensureIndexes(); err != nil {
		return nil, err
	}
	return mds, nil
}

/*
Examples returns the examples in the collection or an error if they
cannot be queried or a document has no label.
*/
func (mds *Dataset) Examples(ctx context.Context) ([]feature.Vector, []string, error) {
	var vectors []feature.Vector
	var labels []string
	var doc bson.M
	iter := mds.examplesCollection().Find(nil).Iter()
	defer iter.Close()
	for i := 0; iter.Next(&doc); i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		v, label, err := mds.exampleFromDocument(doc)
		if err != nil {
			return nil, nil, fmt.Errorf("reading example %d: %v", i, err)
		}
		vectors = append(vectors, v)
		labels = append(labels, label)
		doc = nil
	}
	if err := iter.Err(); err != nil {
		return nil, nil, err
	}
	return vectors, labels, nil
}

// Count returns the number of examples in the collection
func (mds *Dataset) Count(context.Context) (int, error) {
	return mds.examplesCollection().Count()
}

/*
Write takes a context, vectors and their labels and inserts a document for
each in the collection. Features of the dataset that a vector does not have
are left out of its document.
*/
func (mds *Dataset) Write(ctx context.Context, vectors []feature.Vector, labels []string) (int, error) {
	if len(vectors) != len(labels) {
		return 0, fmt.Errorf("writing examples: %d vectors and %d labels", len(vectors), len(labels))
	}
	if len(vectors) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(vectors))
	for i, v := range vectors {
		doc, err := mds.documentFromExample(v, labels[i])
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := mds.examplesCollection().Insert(docs...); err != nil {
		return 0, err
	}
	return len(vectors), nil
}

func (mds *Dataset) documentFromExample(v feature.Vector, label string) (bson.M, error) {
	if label == "" {
		return nil, fmt.Errorf("example has an empty label")
	}
	doc := bson.M{mds.md.Label: label}
	fs := v.Features()
	for _, f := range mds.md.Features {
		if !fs.Contains(f) {
			continue
		}
		value, err := v.Get(f)
		if err != nil {
			return nil, err
		}
		doc[f] = value
	}
	return doc, nil
}

func (mds *Dataset) exampleFromDocument(doc bson.M) (feature.Vector, string, error) {
	label, ok := doc[mds.md.Label].(string)
	if !ok || label == "" {
		return nil, "", fmt.Errorf("document has no string label %s", mds.md.Label)
	}
	values := make(map[string]float64)
	for _, f := range mds.md.Features {
		raw, ok := doc[f]
		if !ok || raw == nil {
			continue
		}
		switch rv := raw.(type) {
		case float64:
			values[f] = rv
		case int:
			values[f] = float64(rv)
		case int64:
			values[f] = float64(rv)
		default:
			return nil, "", fmt.Errorf("feature %s has a %T value instead of a number", f, raw)
		}
	}
	return feature.NewSample(mds.md.Features, values), label, nil
}

func (mds *Dataset) ensureIndexes() error {
	for _, fName := range append(append([]string{}, mds.md.Features...), mds.md.Label) {
		if err := validFieldName(fName); err != nil {
			return err
		}
	}
	index := mgo.Index{
		Key:        []string{mds.md.Label},
		Background: true,
	}
	return mds.examplesCollection().EnsureIndex(index)
}

func validFieldName(fName string) error {
	if fName == "" {
		return fmt.Errorf("invalid empty field name")
	}
	if fName == "_id" {
		return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
	}
	if strings.ContainsAny(fName, ".$") {
		return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
	}
	return nil
}

func (mds *Dataset) examplesCollection() *mgo.Collection {
	return mds.session.DB("").C(mds.collection)
}
