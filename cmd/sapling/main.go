package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pbanos/sapling/config"
	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	configFile string
	*config.Config
	logger *slog.Logger
	ctx    context.Context
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rc := &rootCmdConfig{ctx: context.Background()}
	rootCmd := &cobra.Command{
		Use:   "sapling",
		Short: "sapling is a tool to grow classification trees one example at a time",
		Long: `A tool to grow classification trees from labeled examples by incremental
insertion, store them, test them and use them to classify new examples`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rc.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			rc.Config = cfg
			rc.logger = newLogger(os.Stderr, cfg.Verbose)
			rc.logger.Debug("configuration loaded", "source", cfg.Source.Type, "store", cfg.Tree.Store, "check", cfg.Check)
			return nil
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rc.configFile, "config", "", fmt.Sprintf("path to a YAML config file (defaults to %s or %s in the working directory when present)", config.ConfigFileName, config.ConfigFileNameAlt))
	pf.BoolP("verbose", "v", false, "log progress and debug information to STDERR")
	pf.StringP("metadata", "m", "", "path to a YML file with the features in priority order and the label of the examples (required unless the source is weather)")
	pf.StringP("source", "s", "", "type of the source of examples: csv, weather, sqlite3, postgres or mongo (defaults to csv)")
	pf.StringP("input", "i", "", "path to the CSV or SQLite3 file with the examples (defaults to STDIN for CSV)")
	pf.String("url", "", "PostgreSQL or MongoDB connection URL with the examples")
	pf.String("table", "", "SQL table with the examples (defaults to examples)")
	pf.String("collection", "", "MongoDB collection with the examples (defaults to examples)")
	pf.Bool("header", true, "whether the weather CSV input starts with a header row")
	pf.String("store", "", "where trees are kept: file or redis (defaults to file)")
	pf.StringP("tree", "t", "", "path to the file the tree is written to or read from (defaults to STDOUT/STDIN)")
	pf.String("tree-name", "", "name of the tree in the redis store (defaults to default)")
	pf.String("redis-addr", "", "address of the redis server of the tree store (defaults to localhost:6379)")
	pf.String("redis-password", "", "password of the redis server of the tree store")
	pf.Int("redis-db", 0, "redis DB of the tree store")
	pf.String("redis-prefix", "", "prefix of the keys of the trees in redis (defaults to sapling)")
	pf.String("check", "", "classifiability check: left-spine or path (defaults to left-spine)")
	rootCmd.AddCommand(versionCmd(), growCmd(rc), classifyCmd(rc), testCmd(rc), treeCmd(rc), setCmd(rc))
	return rootCmd
}

// exit prints err to STDERR and terminates the process with the given code
func exit(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}
