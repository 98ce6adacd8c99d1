package sqldataset

import "database/sql"

/*
Adapter is an interface providing the database specifics
needed to implement a Dataset with a database backend.

Its DB method returns the database handle to run statements on.

Its ColumnName method takes a feature or label name and returns
the name of the column for it, or an error if it cannot be used
as a column.

Its Placeholder method returns the bind parameter placeholder
for the i-th (starting at 1) argument of a statement.

Its RealType method returns the column type for feature values.

Its Close method releases the database handle.
*/
type Adapter interface {
	DB() *sql.DB
	ColumnName(string) (string, error)
	Placeholder(i int) string
	RealType() string
	Close() error
}
