package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput      string
	metadataInput string
	classFeature  string
	setOutput     string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy sets of data",
		Long:  `Copy a set of data between CSV, SQLite3, PostgreSQL and MongoDB backends`,
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
			output, err := config.openDatasetWriter(config.setOutput, label, features)
			if err != nil {
				config.fail(3, err)
			}
			n, err := output.Write(config.Context(), ds)
			if err != nil {
				output.Close()
				config.fail(8, err)
			}
			config.Logf("Flushing output set...")
			if err = output.Close(); err != nil {
				config.fail(9, err)
			}
			config.Logf("Done, %d samples copied", n)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the data to copy (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML (or .json) file with metadata describing the different features available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the class feature of the set (required)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the output set (defaults to STDOUT in CSV)")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if scc.classFeature == "" {
		return fmt.Errorf("required class-feature flag was not set")
	}
	return nil
}
