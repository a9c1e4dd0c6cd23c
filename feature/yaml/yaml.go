/*
Package yaml provides methods to parse feature.DiscreteFeature specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pbanos/arbor/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadFeatures takes a slice of bytes with a feature specification in YML and
returns a slice of features parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be a mapping with a property for each feature with its name and the list
of valid values for it. Integer values are read as int values, any other scalar
as a string value. Note that YAML reads unquoted yes/no/true/false as booleans,
they will be turned into "true" and "false" strings, so quote them to keep them.

The order of the features in the returned slice is the order in which they
appear in the document.
*/
func ReadFeatures(md []byte) ([]*feature.DiscreteFeature, error) {
	metadata := struct {
		Features yaml.MapSlice `yaml:"features"`
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if metadata.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	features := make([]*feature.DiscreteFeature, 0, len(metadata.Features))
	for _, item := range metadata.Features {
		fn := fmt.Sprintf("%v", item.Key)
		if feature.Find(features, fn) != nil {
			return nil, fmt.Errorf("feature %s is declared more than once", fn)
		}
		switch values := item.Value.(type) {
		case string:
			return nil, fmt.Errorf("invalid declaration %q for feature %s: only discrete features with a list of values are supported", values, fn)
		case []interface{}:
			if len(values) == 0 {
				return nil, fmt.Errorf("feature %s declares no values", fn)
			}
			vs := make([]feature.Value, 0, len(values))
			for _, v := range values {
				fv, err := yamlValue(v)
				if err != nil {
					return nil, fmt.Errorf("feature %s: %v", fn, err)
				}
				vs = append(vs, fv)
			}
			features = append(features, feature.NewDiscreteFeature(fn, vs))
		default:
			return nil, fmt.Errorf("invalid feature declaration of type %T for feature %s", item.Value, fn)
		}
	}
	return features, nil
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and uses
ReadFeatures to parse it and return a slice of parsed features or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadFeaturesFromFile(filepath string) ([]*feature.DiscreteFeature, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return features, err
}

/*
WriteFeatures takes a slice of features and returns a YML document
that ReadFeatures parses back into the same features.
*/
func WriteFeatures(features []*feature.DiscreteFeature) ([]byte, error) {
	ms := make(yaml.MapSlice, 0, len(features))
	for _, f := range features {
		ms = append(ms, yaml.MapItem{Key: f.Name(), Value: f.AvailableValues()})
	}
	return yaml.Marshal(map[string]yaml.MapSlice{"features": ms})
}

func yamlValue(v interface{}) (feature.Value, error) {
	switch v := v.(type) {
	case int, int64, uint64:
		return feature.ValueOf(v)
	case nil:
		return feature.Unknown, fmt.Errorf("null is not a valid value")
	case []interface{}, map[interface{}]interface{}:
		return feature.Unknown, fmt.Errorf("invalid value of type %T", v)
	}
	return feature.String(fmt.Sprintf("%v", v)), nil
}
