/*
Package sqldataset provides an implementation of dataset.Dataset
that uses a SQL database table as backend.

The table holds a nullable numeric column for each feature and a text
column for the label. Examples with a NULL value for a feature leave
that feature out of their vectors.

Database specifics are handled by an Adapter; adapters for SQLite3 and
PostgreSQL are available in the sqlite3adapter and pgadapter packages.
*/
package sqldataset
