package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := rootConfig
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of the tree in the tree store against the labeled examples of the source`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := config.ctx
			check, err := config.CheckMode()
			if err != nil {
				exit(1, err)
			}
			md, err := config.metadata()
			if err != nil {
				exit(2, err)
			}
			t, err := config.loadTree(ctx)
			if err != nil {
				exit(3, err)
			}
			vectors, labels, err := config.examples(ctx, md)
			if err != nil {
				exit(4, fmt.Errorf("reading examples: %w", err))
			}
			config.logger.Info("testing tree", "examples", len(vectors), "check", check)
			successRate, unclassified, err := t.Test(vectors, labels, check)
			if err != nil {
				exit(6, fmt.Errorf("testing tree: %w", err))
			}
			config.logger.Debug("done")
			fmt.Printf("%f success rate, failed to classify %d examples\n", successRate, unclassified)
		},
	}
	return cmd
}
