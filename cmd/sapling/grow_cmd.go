package main

import (
	"errors"
	"fmt"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	*rootCmdConfig
	update bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of labeled examples",
		Long: `Grow a tree inserting the labeled examples of the source one at a time,
in the order they are read, and write it to the tree store.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := config.ctx
			md, err := config.metadata()
			if err != nil {
				exit(2, err)
			}
			vectors, labels, err := config.examples(ctx, md)
			if err != nil {
				exit(4, fmt.Errorf("reading examples: %w", err))
			}
			config.logger.Info("growing tree", "examples", len(vectors), "features", len(md.Features), "update", config.update)
			var t *tree.Tree
			if config.update {
				t, err = config.loadTree(ctx)
				if err != nil {
					exit(3, err)
				}
				err = insertAll(t, vectors, labels)
			} else {
				t, err = tree.Grow(vectors, labels)
			}
			if err != nil {
				if errors.Is(err, tree.ErrCannotGrow) {
					err = fmt.Errorf("%w (a tree read from its text form cannot split its leaves)", err)
				}
				exit(8, fmt.Errorf("growing the tree: %w", err))
			}
			config.logger.Info("tree grown", "size", t.Size(), "depth", t.Depth())
			config.logger.Debug("tree\n" + t.String())
			if err = config.saveTree(ctx, t); err != nil {
				exit(9, err)
			}
		},
	}
	cmd.Flags().BoolVar(&config.update, "update", false, "insert the examples into the tree in the tree store instead of a new tree")
	return cmd
}

func insertAll(t *tree.Tree, vectors []feature.Vector, labels []string) error {
	for i, v := range vectors {
		if err := t.Insert(v, labels[i]); err != nil {
			return fmt.Errorf("inserting example %d: %w", i+1, err)
		}
	}
	return nil
}
