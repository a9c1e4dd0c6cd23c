package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
)

type testCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	dataInput     string
	metadataInput string
	classFeature  string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				config.fail(1, err)
			}
			t, err := config.loadTree(config.treeInput)
			if err != nil {
				config.fail(3, err)
			}
			label, features := t.Label, t.Features
			if config.metadataInput != "" {
				mdFeatures, err := readFeatures(config.metadataInput)
				if err != nil {
					config.fail(2, err)
				}
				class := config.classFeature
				if class == "" {
					class = t.Label.Name()
				}
				label, features, err = classAndFeatures(mdFeatures, class)
				if err != nil {
					config.fail(5, err)
				}
			}
			testingSet, err := config.readDataset(config.dataInput, label, features)
			if err != nil {
				config.fail(4, fmt.Errorf("reading testing set: %v", err))
			}
			config.Logf("Testing tree against testset with %d samples...", testingSet.Count())
			result := t.Test(testingSet)
			config.Logf("Done")
			fmt.Printf("%f success rate, failed to make a prediction for %d samples\n", result.SuccessRate(), result.Unknown)
			printConfusion(result)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to test the tree with (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML (or .json) file with metadata describing the different features available on the input file (defaults to the features of the tree)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to test will be read and parsed as JSON, or redis:NAME for a tree on the configured redis store (required)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the tree predicts (defaults to the label of the tree)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.classFeature != "" && tcc.metadataInput == "" {
		return fmt.Errorf("class-feature flag requires the metadata flag")
	}
	return nil
}

// printConfusion prints the confusion matrix of the result, one line
// per actual label.
func printConfusion(result *tree.TestResult) {
	actual := make([]feature.Value, 0, len(result.Confusion))
	for l := range result.Confusion {
		actual = append(actual, l)
	}
	sort.Slice(actual, func(i, j int) bool { return actual[i].String() < actual[j].String() })
	for _, a := range actual {
		row := result.Confusion[a]
		predicted := make([]feature.Value, 0, len(row))
		for p := range row {
			predicted = append(predicted, p)
		}
		sort.Slice(predicted, func(i, j int) bool { return predicted[i].String() < predicted[j].String() })
		fmt.Printf("%v:", a)
		for _, p := range predicted {
			fmt.Printf(" %v=%d", p, row[p])
		}
		fmt.Println()
	}
}
