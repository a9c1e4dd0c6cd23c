package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbanos/arbor"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	output        string
	classFeature  string
	algorithm     string
	storeName     string
	workers       int
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a classification tree from a set of data to predict a certain feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				config.fail(1, err)
			}
			alg, err := arbor.ParseAlgorithm(config.algorithmName())
			if err != nil {
				config.fail(6, err)
			}
			features, err := readFeatures(config.metadataInput)
			if err != nil {
				config.fail(2, err)
			}
			classFeature, features, err := classAndFeatures(features, config.classFeature)
			if err != nil {
				config.fail(5, err)
			}
			trainingSet, err := config.readDataset(config.dataInput, classFeature, features)
			if err != nil {
				config.fail(4, fmt.Errorf("reading training set: %v", err))
			}
			workers := config.workerCount()
			config.Logf("Growing tree with %v from a set with %d samples and %d features to predict %s using %d workers...", alg, trainingSet.Count(), len(features), classFeature.Name(), workers)
			t, err := arbor.GrowConcurrently(config.Context(), classFeature, features, trainingSet, alg, workers)
			if err != nil {
				config.fail(8, fmt.Errorf("growing the tree: %v", err))
			}
			config.Logf("Done")
			config.Debugf("\n%v", t)
			if config.storeName != "" {
				if err = config.storeTree(config.storeName, t); err != nil {
					config.fail(10, err)
				}
				if config.output == "" {
					return
				}
			}
			err = config.outputTree(config.output, t)
			if err != nil {
				config.fail(9, err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML (or .json) file with metadata describing the different features available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the generated tree should predict (required)")
	cmd.PersistentFlags().StringVarP(&(config.algorithm), "algorithm", "a", "", "splitting criterion to use, one of ID3, C45 or CART (defaults to the configured algorithm, ID3)")
	cmd.PersistentFlags().StringVar(&(config.storeName), "store", "", "name under which to save the tree on the configured redis store")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 0, "number of subtrees to grow at the same time (defaults to the configured workers, 1)")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.classFeature == "" {
		return fmt.Errorf("required class-feature flag was not set")
	}
	if gcc.workers < 0 {
		return fmt.Errorf("workers flag must not be negative")
	}
	return nil
}

func (gcc *growCmdConfig) algorithmName() string {
	if gcc.algorithm != "" {
		return gcc.algorithm
	}
	return gcc.settings.Algorithm
}

func (gcc *growCmdConfig) workerCount() int {
	if gcc.workers > 0 {
		return gcc.workers
	}
	if gcc.settings.Workers > 0 {
		return gcc.settings.Workers
	}
	return 1
}
