package main

import (
	"fmt"
	"io"
	"os"

	cfgpkg "github.com/pbanos/sapling/config"
	"github.com/pbanos/sapling/tree"
	treejson "github.com/pbanos/sapling/tree/json"
	"github.com/spf13/cobra"
)

// Tree output formats
const (
	formatASCII = "ascii"
	formatJSON  = "json"
	formatText  = "text"
)

type treeCmdConfig struct {
	*rootCmdConfig
	format string
	list   bool
	delete bool
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print or manage stored trees",
		Long: `Print the tree in the tree store as an ASCII drawing, as JSON or in its
preorder text form. With a redis tree store, list or delete the stored trees.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := config.ctx
			if err := config.validate(); err != nil {
				exit(1, err)
			}
			if config.list || config.delete {
				s, closeFunc := config.redisStore()
				defer closeFunc()
				if config.delete {
					if err := s.Delete(ctx, config.Tree.Name); err != nil {
						exit(3, err)
					}
					config.logger.Info("tree deleted", "name", config.Tree.Name)
					return
				}
				names, err := s.List(ctx)
				if err != nil {
					exit(3, err)
				}
				for _, n := range names {
					fmt.Println(n)
				}
				return
			}
			t, err := config.loadTree(ctx)
			if err != nil {
				exit(3, err)
			}
			if err = printTree(os.Stdout, t, config.format); err != nil {
				exit(9, err)
			}
		},
	}
	cmd.Flags().StringVarP(&config.format, "format", "f", formatASCII, "output format: ascii, json or text")
	cmd.Flags().BoolVar(&config.list, "list", false, "list the names of the trees in the redis tree store")
	cmd.Flags().BoolVar(&config.delete, "delete", false, "delete the tree from the redis tree store")
	return cmd
}

func (tcc *treeCmdConfig) validate() error {
	if (tcc.list || tcc.delete) && tcc.Tree.Store != cfgpkg.StoreRedis {
		return fmt.Errorf("list and delete flags need the redis tree store")
	}
	if tcc.list && tcc.delete {
		return fmt.Errorf("cannot set both list and delete flags at the same time")
	}
	switch tcc.format {
	case formatASCII, formatJSON, formatText:
	default:
		return fmt.Errorf("unknown format %q", tcc.format)
	}
	return nil
}

func printTree(w io.Writer, t *tree.Tree, format string) error {
	switch format {
	case formatJSON:
		return treejson.WriteJSONTree(t, w)
	case formatText:
		_, err := t.WriteTo(w)
		return err
	}
	_, err := io.WriteString(w, t.String())
	return err
}
