package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	treeInput string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a classification tree",
		Long:  `Show a classification tree along the label it predicts and the algorithm that grew it`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				config.fail(1, err)
			}
			t, err := config.loadTree(config.treeInput)
			if err != nil {
				config.fail(3, err)
			}
			fmt.Printf("Tree predicting %s grown with %s (%d nodes, depth %d)\n", t.Label.Name(), t.Algorithm, t.Size(), t.Depth())
			fmt.Print(t)
		},
	}
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to show will be read and parsed as JSON, or redis:NAME for a tree on the configured redis store (required)")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}
