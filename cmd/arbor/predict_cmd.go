package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput      string
	values         []string
	undefinedValue string
}

type stdoutFeatureValueRequester string

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a value for a sample answering questions",
		Long:  `Use the loaded tree to predict the class feature value for a sample given with --value flags or answering a reduced set of questions about its features`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				config.fail(1, err)
			}
			t, err := config.loadTree(config.treeInput)
			if err != nil {
				config.fail(3, err)
			}
			var prediction feature.Value
			if len(config.values) > 0 {
				sample, err := parseSample(t.Features, config.values)
				if err != nil {
					config.fail(4, err)
				}
				prediction = t.Predict(sample)
			} else {
				sample := newReadSample(os.Stdin, stdoutFeatureValueRequester(config.undefinedValue), config.undefinedValue)
				prediction = t.Predict(sample)
				if err = sample.Err(); err != nil {
					config.fail(4, err)
				}
			}
			if !prediction.Defined() {
				fmt.Printf("The tree cannot predict the %s of the sample\n", t.Label.Name())
				return
			}
			fmt.Printf("Predicted %s is %v\n", t.Label.Name(), prediction)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON, or redis:NAME for a tree on the configured redis store (required)")
	cmd.PersistentFlags().StringArrayVar(&(config.values), "value", nil, "value of a feature of the sample as name=value, can be repeated (if none is given they are asked for on STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a sample's value for a feature as undefined")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

/*
parseSample takes the features of a tree and a list of name=value strings
and returns the sample they describe, or an error if a name does not belong
to a feature or a value is not valid for it.
*/
func parseSample(features []*feature.DiscreteFeature, values []string) (dataset.Sample, error) {
	sample := make(dataset.Sample, len(values))
	for _, nv := range values {
		parts := strings.SplitN(nv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid value %q: expected name=value", nv)
		}
		f := feature.Find(features, parts[0])
		if f == nil {
			return nil, fmt.Errorf("invalid value %q: the tree has no feature %s", nv, parts[0])
		}
		v, err := f.ParseValue(parts[1])
		if err != nil {
			return nil, err
		}
		sample[f.Name()] = v
	}
	return sample, nil
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f *feature.DiscreteFeature) error {
	fmt.Printf("Please provide the sample's %s:\n(valid values are %v or %s if undefined)\n", f.Name(), f.AvailableValues(), string(sfvr))
	return nil
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f *feature.DiscreteFeature, value string) error {
	fmt.Printf("%v is not a valid value for the sample's %s. Please provide one of %v or %s if undefined.\n", value, f.Name(), f.AvailableValues(), string(sfvr))
	return nil
}
