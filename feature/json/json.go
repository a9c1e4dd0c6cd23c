/*
Package json provides methods to encode feature.DiscreteFeature
specifications into JSON and decode them back.
*/
package json

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pbanos/arbor/feature"
)

// Feature is the JSON representation of a discrete feature: an object
// with its name and the list of values in its domain.
type Feature struct {
	Name   string          `json:"name"`
	Values []feature.Value `json:"values"`
}

// NewFeature takes a discrete feature and returns its JSON representation.
func NewFeature(f *feature.DiscreteFeature) *Feature {
	return &Feature{Name: f.Name(), Values: f.AvailableValues()}
}

/*
DiscreteFeature returns the feature.DiscreteFeature represented by the
JSON feature or an error if it has no name or values.
*/
func (jf *Feature) DiscreteFeature() (*feature.DiscreteFeature, error) {
	if jf.Name == "" {
		return nil, fmt.Errorf("feature has no name")
	}
	if len(jf.Values) == 0 {
		return nil, fmt.Errorf("feature %s declares no values", jf.Name)
	}
	for _, v := range jf.Values {
		if !v.Defined() {
			return nil, fmt.Errorf("feature %s declares a null value", jf.Name)
		}
	}
	return feature.NewDiscreteFeature(jf.Name, jf.Values), nil
}

/*
EncodeFeatures takes a slice of features and returns their JSON
representations in the same order.
*/
func EncodeFeatures(features []*feature.DiscreteFeature) []*Feature {
	result := make([]*Feature, len(features))
	for i, f := range features {
		result[i] = NewFeature(f)
	}
	return result
}

/*
DecodeFeatures takes a slice of JSON features and returns the features
they represent in the same order, or an error if any of them is invalid
or if a name is repeated.
*/
func DecodeFeatures(jfs []*Feature) ([]*feature.DiscreteFeature, error) {
	features := make([]*feature.DiscreteFeature, 0, len(jfs))
	for _, jf := range jfs {
		if jf == nil {
			return nil, fmt.Errorf("null feature declaration")
		}
		f, err := jf.DiscreteFeature()
		if err != nil {
			return nil, err
		}
		if feature.Find(features, f.Name()) != nil {
			return nil, fmt.Errorf("feature %s is declared more than once", f.Name())
		}
		features = append(features, f)
	}
	return features, nil
}

/*
ReadFeatures takes a slice of bytes with a JSON array of features, each an
object with a "name" string and a "values" array, and returns the features
parsed from it or an error. Numbers in the values array become int values,
strings become string values.
*/
func ReadFeatures(md []byte) ([]*feature.DiscreteFeature, error) {
	var jfs []*Feature
	err := json.Unmarshal(md, &jfs)
	if err != nil {
		return nil, fmt.Errorf("parsing json features: %v", err)
	}
	return DecodeFeatures(jfs)
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and uses
ReadFeatures to parse it and return a slice of parsed features or an error.
*/
func ReadFeaturesFromFile(filepath string) ([]*feature.DiscreteFeature, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features json file %s: %v", filepath, err)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		err = fmt.Errorf("parsing features json file %s: %v", filepath, err)
	}
	return features, err
}

// WriteFeatures returns the JSON array ReadFeatures parses back into
// the given features.
func WriteFeatures(features []*feature.DiscreteFeature) ([]byte, error) {
	return json.Marshal(EncodeFeatures(features))
}
