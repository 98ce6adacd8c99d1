package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
)

/*
MaxExampleInsertionsPerStatement is the maximum number
of examples that are allowed to be added with a single
insert command with the Write method of the dataset.
Trying to add more will result in making more insertion commands
*/
const MaxExampleInsertionsPerStatement = 10

/*
Dataset is a dataset.Writer backed by a table on a SQL database
*/
type Dataset struct {
	adapter        Adapter
	table          string
	features       []string
	featureColumns []string
	labelColumn    string
}

/*
Open takes a context, an Adapter, the name of a table and the metadata of
the dataset and returns a Dataset working on the table. If create is true
the table is created when it does not exist. An error is returned if any
of the table, feature or label names cannot be used as SQL identifiers or
the table cannot be created.
*/
func Open(ctx context.Context, a Adapter, table string, md *yaml.Metadata, create bool) (*Dataset, error) {
	ds := &Dataset{adapter: a, features: md.Features}
	var err error
	ds.table, err = a.ColumnName(table)
	if err != nil {
		return nil, fmt.Errorf("invalid table name: %v", err)
	}
	for _, f := range md.Features {
		c, err := a.ColumnName(f)
		if err != nil {
			return nil, err
		}
		ds.featureColumns = append(ds.featureColumns, c)
	}
	ds.labelColumn, err = a.ColumnName(md.Label)
	if err != nil {
		return nil, err
	}
	if create {
		if err = ds.createTable(ctx); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (ds *Dataset) createTable(ctx context.Context) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (`, ds.table))
	for _, c := range ds.featureColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" %s NULL, `, c, ds.adapter.RealType()))
	}
	createStmtBuf.WriteString(fmt.Sprintf(`"%s" TEXT NOT NULL)`, ds.labelColumn))
	_, err := ds.adapter.DB().ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring table %s exists: %v", ds.table, err)
	}
	return nil
}

func (ds *Dataset) columnList() string {
	columns := append(append([]string{}, ds.featureColumns...), ds.labelColumn)
	return `"` + strings.Join(columns, `", "`) + `"`
}

/*
Examples returns the examples stored in the table or an error if they
cannot be queried or a row has a NULL label.
*/
func (ds *Dataset) Examples(ctx context.Context) ([]feature.Vector, []string, error) {
	var vectors []feature.Vector
	var labels []string
	err := ds.IterateOnExamples(ctx, func(_ int, v feature.Vector, label string) (bool, error) {
		vectors = append(vectors, v)
		labels = append(labels, label)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return vectors, labels, nil
}

/*
IterateOnExamples takes a context and a lambda function on an integer, a
vector and a label that returns a boolean value, and calls it for each
example in the table with its index, until it returns false or an error.
*/
func (ds *Dataset) IterateOnExamples(ctx context.Context, lambda func(int, feature.Vector, string) (bool, error)) error {
	query := fmt.Sprintf(`SELECT %s FROM "%s"`, ds.columnList(), ds.table)
	rows, err := ds.adapter.DB().QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying examples: %v", err)
	}
	defer rows.Close()
	values := make([]sql.NullFloat64, len(ds.featureColumns))
	var label sql.NullString
	dest := make([]interface{}, 0, len(values)+1)
	for i := range values {
		dest = append(dest, &values[i])
	}
	dest = append(dest, &label)
	for i := 0; rows.Next(); i++ {
		if err = rows.Scan(dest...); err != nil {
			return fmt.Errorf("scanning example %d: %v", i, err)
		}
		if !label.Valid || label.String == "" {
			return fmt.Errorf("example %d has no label", i)
		}
		fv := make(map[string]float64)
		for j, v := range values {
			if v.Valid {
				fv[ds.features[j]] = v.Float64
			}
		}
		ok, err := lambda(i, feature.NewSample(ds.features, fv), label.String)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

// Count returns the number of examples in the table
func (ds *Dataset) Count(ctx context.Context) (int, error) {
	var count int
	err := ds.adapter.DB().QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, ds.table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting examples: %v", err)
	}
	return count, nil
}

/*
Write takes a context, vectors and their labels and inserts them in the
table in a single transaction, at most MaxExampleInsertionsPerStatement
per statement. Features of the dataset that a vector does not have are
stored as NULL. It returns the number of examples written, which is 0 if
an error occurs.
*/
func (ds *Dataset) Write(ctx context.Context, vectors []feature.Vector, labels []string) (int, error) {
	if len(vectors) != len(labels) {
		return 0, fmt.Errorf("writing examples: %d vectors and %d labels", len(vectors), len(labels))
	}
	if len(vectors) == 0 {
		return 0, nil
	}
	tx, err := ds.adapter.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %v", err)
	}
	for chunkStart := 0; chunkStart < len(vectors); chunkStart += MaxExampleInsertionsPerStatement {
		chunkEnd := chunkStart + MaxExampleInsertionsPerStatement
		if chunkEnd > len(vectors) {
			chunkEnd = len(vectors)
		}
		stmt, args, err := ds.insertStatement(vectors[chunkStart:chunkEnd], labels[chunkStart:chunkEnd])
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting examples %d to %d: %v", chunkStart, chunkEnd-1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing examples: %v", err)
	}
	return len(vectors), nil
}

func (ds *Dataset) insertStatement(vectors []feature.Vector, labels []string) (string, []interface{}, error) {
	var stmtBuf bytes.Buffer
	stmtBuf.WriteString(fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES `, ds.table, ds.columnList()))
	args := make([]interface{}, 0, len(vectors)*(len(ds.features)+1))
	for i, v := range vectors {
		if i > 0 {
			stmtBuf.WriteString(", ")
		}
		stmtBuf.WriteString("(")
		fs := v.Features()
		for j, f := range ds.features {
			var value interface{}
			if fs.Contains(f) {
				fv, err := v.Get(f)
				if err != nil {
					return "", nil, err
				}
				value = fv
			}
			args = append(args, value)
			stmtBuf.WriteString(ds.adapter.Placeholder(len(args)))
			if j < len(ds.features)-1 {
				stmtBuf.WriteString(", ")
			}
		}
		if labels[i] == "" {
			return "", nil, fmt.Errorf("example has an empty label")
		}
		args = append(args, labels[i])
		stmtBuf.WriteString(", " + ds.adapter.Placeholder(len(args)) + ")")
	}
	return stmtBuf.String(), args, nil
}

// Close closes the adapter of the dataset
func (ds *Dataset) Close() error {
	return ds.adapter.Close()
}
