package arbor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/dataset/csv"
	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/feature/yaml"
	"github.com/pbanos/arbor/tree"
)

// watermelon returns the label, features and items of the watermelon 2.0
// dataset in testdata.
func watermelon(t *testing.T) (*feature.DiscreteFeature, []*feature.DiscreteFeature, dataset.Dataset) {
	t.Helper()
	features, err := yaml.ReadFeaturesFromFile("testdata/watermelon.yml")
	require.NoError(t, err)
	label := feature.Find(features, "ripe")
	require.NotNil(t, label)
	features = feature.Without(features, "ripe")
	ds, err := csv.ReadDatasetFromFilePath("testdata/watermelon.csv", label, features)
	require.NoError(t, err)
	require.Len(t, ds, 17)
	return label, features, ds
}

func str(s string) feature.Value {
	return feature.String(s)
}

func leaf(label string) tree.Node {
	return tree.NewLeaf(str(label))
}

func split(f *feature.DiscreteFeature, branches ...tree.Branch) tree.Node {
	return tree.NewInternal(f, branches)
}

func br(value string, n tree.Node) tree.Branch {
	return tree.Branch{Value: str(value), Node: n}
}

func item(label string, kv ...string) dataset.Item {
	values := make(map[string]feature.Value, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		values[kv[i]] = str(kv[i+1])
	}
	return dataset.NewItem(values, str(label))
}

// checkCoverage asserts every internal node of the subtree has exactly one
// branch per value in its feature's domain.
func checkCoverage(t *testing.T, n tree.Node) {
	t.Helper()
	in, ok := n.(*tree.Internal)
	if !ok {
		return
	}
	domain := in.Feature.AvailableValues()
	require.Len(t, in.Branches, len(domain), "branches of %s", in.Feature.Name())
	for _, v := range domain {
		_, ok := in.Branch(v)
		require.True(t, ok, "%s has no branch for %v", in.Feature.Name(), v)
	}
	for _, b := range in.Branches {
		checkCoverage(t, b.Node)
	}
}
