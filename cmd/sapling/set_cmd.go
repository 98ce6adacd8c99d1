package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/sqldataset/pgadapter"
	"github.com/pbanos/sapling/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setOutput string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy sets of examples",
		Long: `Copy the labeled examples of the source into a CSV (.csv) or SQLite3 (.db)
file, a PostgreSQL table or a MongoDB collection.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := config.ctx
			md, err := config.metadata()
			if err != nil {
				exit(2, err)
			}
			output, flush, closeOutput, err := config.outputWriter(ctx, md)
			if err != nil {
				exit(3, err)
			}
			defer closeOutput()
			input, closeInput, err := config.openDataset(ctx, md)
			if err != nil {
				exit(7, err)
			}
			defer closeInput()
			n, err := dataset.Copy(ctx, output, input)
			if err != nil {
				exit(8, err)
			}
			config.logger.Debug("flushing output set")
			if err = flush(); err != nil {
				exit(9, err)
			}
			config.logger.Info("examples copied", "count", n)
		},
	}
	cmd.Flags().StringVarP(&config.setOutput, "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) URL to copy the examples to (defaults to STDOUT in CSV)")
	return cmd
}

/*
outputWriter returns the dataset.Writer for the output flag, a function
to flush it and a function to release its resources.
*/
func (scc *setCmdConfig) outputWriter(ctx context.Context, md *yaml.Metadata) (dataset.Writer, func() error, func() error, error) {
	noop := func() error { return nil }
	out := scc.setOutput
	switch {
	case strings.HasPrefix(out, "postgresql://") || strings.HasPrefix(out, "postgres://"):
		scc.logger.Debug("opening PostgreSQL output set", "table", scc.Source.Table)
		a, err := pgadapter.New(out)
		if err != nil {
			return nil, nil, nil, err
		}
		ds, closeFunc, err := openSQLDataset(ctx, a, scc.Source.Table, md, true)
		return ds, noop, closeFunc, err
	case strings.HasPrefix(out, "mongodb://"):
		scc.logger.Debug("opening MongoDB output set", "collection", scc.Source.Collection)
		ds, closeFunc, err := openMongoDataset(ctx, out, scc.Source.Collection, md)
		return ds, noop, closeFunc, err
	case strings.HasSuffix(out, ".db"):
		scc.logger.Debug("opening SQLite3 output set", "path", out, "table", scc.Source.Table)
		a, err := sqlite3adapter.New(out)
		if err != nil {
			return nil, nil, nil, err
		}
		ds, closeFunc, err := openSQLDataset(ctx, a, scc.Source.Table, md, true)
		return ds, noop, closeFunc, err
	}
	f := os.Stdout
	closeFunc := noop
	if out != "" {
		scc.logger.Debug("creating CSV output set", "path", out)
		var err error
		f, err = os.Create(out)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFunc = f.Close
	}
	w, err := csv.NewWriter(f, md)
	if err != nil {
		closeFunc()
		return nil, nil, nil, fmt.Errorf("preparing output set: %w", err)
	}
	return w, w.Flush, closeFunc, nil
}
