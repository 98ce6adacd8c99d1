package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	cfgpkg "github.com/pbanos/sapling/config"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/inputsample"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	"github.com/spf13/cobra"
)

type classifyCmdConfig struct {
	*rootCmdConfig
	values         []string
	interactive    bool
	undefinedValue string
}

type promptFeatureValueRequester struct {
	w              io.Writer
	undefinedValue string
}

func classifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &classifyCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify examples with a tree",
		Long: `Use the tree in the tree store to classify a vector given with --value
flags, a vector whose values are asked for interactively, or every example
of the source, printing one label per line.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := config.ctx
			if config.interactive && len(config.values) > 0 {
				exit(1, fmt.Errorf("cannot set both value and interactive flags at the same time"))
			}
			if config.interactive && config.Tree.Store == cfgpkg.StoreFile && config.Tree.Path == "" {
				exit(1, fmt.Errorf("the tree cannot be read from STDIN in interactive mode, set the tree flag"))
			}
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
			if config.interactive || len(config.values) > 0 {
				var v feature.Vector
				if config.interactive {
					v = inputsample.New(os.Stdin, md.Features, &promptFeatureValueRequester{os.Stdout, config.undefinedValue}, config.undefinedValue)
				} else {
					values, err := parseValues(config.values)
					if err != nil {
						exit(1, err)
					}
					v = feature.NewSample(md.Features, values)
				}
				label, err := t.ClassifyWith(v, check)
				if err != nil {
					exit(5, fmt.Errorf("classifying: %w", err))
				}
				fmt.Println(label)
				return
			}
			vectors, _, err := config.examples(ctx, md)
			if err != nil {
				exit(4, fmt.Errorf("reading examples: %w", err))
			}
			config.logger.Debug("classifying examples", "count", len(vectors), "check", check)
			for i, v := range vectors {
				label, err := classifyOrUndefined(t, v, check)
				if err != nil {
					exit(5, fmt.Errorf("classifying example %d: %w", i+1, err))
				}
				fmt.Println(label)
			}
		},
	}
	cmd.Flags().StringArrayVar(&config.values, "value", nil, "a feature value of the vector to classify as name=number, can be repeated")
	cmd.Flags().BoolVar(&config.interactive, "interactive", false, "ask for the values of the features the tree needs on STDOUT and read them from STDIN")
	cmd.Flags().StringVarP(&config.undefinedValue, "undefined-value", "u", csv.UndefinedValue, "value to input to define a feature as undefined in interactive mode")
	return cmd
}

/*
classifyOrUndefined returns the label for v, or csv.UndefinedValue if the
tree cannot classify it
*/
func classifyOrUndefined(t *tree.Tree, v feature.Vector, check tree.Check) (string, error) {
	label, err := t.ClassifyWith(v, check)
	if errors.Is(err, tree.ErrNotClassifiable) || errors.Is(err, feature.ErrUnknownFeature) {
		return csv.UndefinedValue, nil
	}
	return label, err
}

// parseValues parses name=number pairs into a map of feature values
func parseValues(pairs []string) (map[string]float64, error) {
	values := make(map[string]float64)
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid value %q, expected name=number", p)
		}
		if _, ok := values[name]; ok {
			return nil, fmt.Errorf("value for feature %s given more than once", name)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for feature %s: %v", name, err)
		}
		values[name] = f
	}
	return values, nil
}

func (pr *promptFeatureValueRequester) RequestValueFor(f string) error {
	_, err := fmt.Fprintf(pr.w, "Please provide the example's %s:\n(valid values are real numbers or %s if undefined)\n", f, pr.undefinedValue)
	return err
}

func (pr *promptFeatureValueRequester) RejectValueFor(f string, value string) error {
	_, err := fmt.Fprintf(pr.w, "%v is not a valid value for the example's %s. Please provide a real number or %s if undefined.\n", value, f, pr.undefinedValue)
	return err
}
