package main

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/config"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/mongodataset"
	"github.com/pbanos/sapling/dataset/sqldataset"
	"github.com/pbanos/sapling/dataset/sqldataset/pgadapter"
	"github.com/pbanos/sapling/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/pbanos/sapling/weather"
	mgo "gopkg.in/mgo.v2"
)

// weatherLabel is the name given to the label of weather examples when
// they are written to other datasets
const weatherLabel = "Summary"

func weatherMetadata() *yaml.Metadata {
	return &yaml.Metadata{Features: append([]string{}, weather.Features...), Label: weatherLabel}
}

// metadata returns the metadata of the configured source of examples
func (rc *rootCmdConfig) metadata() (*yaml.Metadata, error) {
	if rc.Metadata == "" {
		if !rc.NeedsMetadata() {
			return weatherMetadata(), nil
		}
		return nil, fmt.Errorf("required metadata flag was not set")
	}
	rc.logger.Debug("reading metadata", "path", rc.Metadata)
	return yaml.ReadMetadataFromFile(rc.Metadata)
}

/*
openDataset returns the dataset for the configured source of examples
and a function to release its resources once done with it.
*/
func (rc *rootCmdConfig) openDataset(ctx context.Context, md *yaml.Metadata) (dataset.Dataset, func() error, error) {
	noop := func() error { return nil }
	src := rc.Source
	switch src.Type {
	case config.SourceCSV:
		rc.logger.Debug("reading CSV dataset", "path", inputName(src.Path))
		ds, err := csv.ReadDatasetFromFilePath(src.Path, md)
		return ds, noop, err
	case config.SourceWeather:
		rc.logger.Debug("reading weather dataset", "path", inputName(src.Path), "header", src.Header)
		ds, err := csv.ReadWeatherDatasetFromFilePath(src.Path, src.Header)
		return ds, noop, err
	case config.SourceSQLite3:
		if src.Path == "" {
			return nil, nil, fmt.Errorf("required input flag was not set for sqlite3 source")
		}
		rc.logger.Debug("opening SQLite3 dataset", "path", src.Path, "table", src.Table)
		a, err := sqlite3adapter.New(src.Path)
		if err != nil {
			return nil, nil, err
		}
		return openSQLDataset(ctx, a, src.Table, md, false)
	case config.SourcePostgres:
		if src.URL == "" {
			return nil, nil, fmt.Errorf("required url flag was not set for postgres source")
		}
		rc.logger.Debug("opening PostgreSQL dataset", "table", src.Table)
		a, err := pgadapter.New(src.URL)
		if err != nil {
			return nil, nil, err
		}
		return openSQLDataset(ctx, a, src.Table, md, false)
	case config.SourceMongo:
		if src.URL == "" {
			return nil, nil, fmt.Errorf("required url flag was not set for mongo source")
		}
		rc.logger.Debug("opening MongoDB dataset", "collection", src.Collection)
		return openMongoDataset(ctx, src.URL, src.Collection, md)
	}
	return nil, nil, fmt.Errorf("unknown source type %q", src.Type)
}

// examples reads all the examples of the configured source
func (rc *rootCmdConfig) examples(ctx context.Context, md *yaml.Metadata) ([]feature.Vector, []string, error) {
	ds, closeFunc, err := rc.openDataset(ctx, md)
	if err != nil {
		return nil, nil, err
	}
	defer closeFunc()
	return ds.Examples(ctx)
}

func openSQLDataset(ctx context.Context, a sqldataset.Adapter, table string, md *yaml.Metadata, create bool) (*sqldataset.Dataset, func() error, error) {
	ds, err := sqldataset.Open(ctx, a, table, md, create)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return ds, ds.Close, nil
}

func openMongoDataset(ctx context.Context, url, collection string, md *yaml.Metadata) (*mongodataset.Dataset, func() error, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MongoDB: %v", err)
	}
	ds, err := mongodataset.Open(ctx, session, collection, md)
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	return ds, func() error { session.Close(); return nil }, nil
}

func inputName(path string) string {
	if path == "" {
		return "STDIN"
	}
	return path
}
