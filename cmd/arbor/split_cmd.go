package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/pbanos/arbor/dataset"
)

type splitCmdConfig struct {
	*rootCmdConfig
	setInput         string
	metadataInput    string
	classFeature     string
	setOutput        string
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set into an output set and a split set, to grow a tree with one and test it with the other`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				config.fail(1, err)
			}
			config.Logf("Reading features from metadata at %s...", config.metadataInput)
			features, err := readFeatures(config.metadataInput)
			if err != nil {
				config.fail(2, err)
			}
			label, features, err := classAndFeatures(features, config.classFeature)
			if err != nil {
				config.fail(5, err)
			}
			ds, err := config.readDataset(config.setInput, label, features)
			if err != nil {
				config.fail(7, err)
			}
			seed := config.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			config.Logf("Splitting input set with seed %d...", seed)
			kept, split := splitDataset(ds, config.splitProbability, rand.New(rand.NewSource(seed)))

			output, err := config.openDatasetWriter(config.setOutput, label, features)
			if err != nil {
				config.fail(3, err)
			}
			if _, err = output.Write(config.Context(), kept); err != nil {
				output.Close()
				config.fail(8, err)
			}
			if err = output.Close(); err != nil {
				config.fail(9, err)
			}
			splitOutput, err := config.openDatasetWriter(config.splitOutput, label, features)
			if err != nil {
				config.fail(5, err)
			}
			if _, err = splitOutput.Write(config.Context(), split); err != nil {
				splitOutput.Close()
				config.fail(8, err)
			}
			if err = splitOutput.Close(); err != nil {
				config.fail(10, err)
			}
			config.Logf("Done")
			config.Logf("Input set with %d samples was split into sets with %d and %d samples", ds.Count(), kept.Count(), split.Count())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the data to split (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML (or .json) file with metadata describing the different features available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the class feature of the set (required)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a file or URL to dump the output set (defaults to STDOUT)")
	cmd.PersistentFlags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the set will be assigned to the split set")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a file or URL to dump the output of the split set (required)")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the random assignment of samples (defaults to the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if scc.classFeature == "" {
		return fmt.Errorf("required class-feature flag was not set")
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}

/*
splitDataset assigns every item of the dataset to the split dataset with
the given percent probability, and to the kept dataset otherwise. The
relative order of the items is preserved on both.
*/
func splitDataset(ds dataset.Dataset, percent int, randomizer *rand.Rand) (kept, split dataset.Dataset) {
	for _, item := range ds {
		if (100 * randomizer.Float32()) > float32(percent) {
			kept = append(kept, item)
		} else {
			split = append(split, item)
		}
	}
	return kept, split
}
