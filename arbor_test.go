package arbor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/arbor"
	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
)

// heldOut is item 6 of the watermelon dataset.
var heldOut = dataset.Sample{
	"color":   feature.String("green"),
	"root":    feature.String("slightly_curled"),
	"knock":   feature.String("dull"),
	"texture": feature.String("clear"),
	"navel":   feature.String("slightly_sunken"),
	"touch":   feature.String("soft"),
}

func expectedID3Tree(features []*feature.DiscreteFeature) tree.Node {
	color := feature.Find(features, "color")
	root := feature.Find(features, "root")
	texture := feature.Find(features, "texture")
	touch := feature.Find(features, "touch")
	return split(texture,
		br("clear", split(root,
			br("curled", leaf("yes")),
			br("slightly_curled", split(color,
				br("green", leaf("yes")),
				br("dark", split(touch,
					br("hard", leaf("yes")),
					br("soft", leaf("no")),
				)),
				br("light", leaf("yes")),
			)),
			br("stiff", leaf("no")),
		)),
		br("slightly_blurry", split(touch,
			br("soft", leaf("yes")),
			br("hard", leaf("no")),
		)),
		br("blurry", leaf("no")),
	)
}

func expectedC45Tree(features []*feature.DiscreteFeature) tree.Node {
	color := feature.Find(features, "color")
	root := feature.Find(features, "root")
	texture := feature.Find(features, "texture")
	touch := feature.Find(features, "touch")
	return split(texture,
		br("clear", split(touch,
			br("hard", leaf("yes")),
			br("soft", split(color,
				br("green", split(root,
					br("slightly_curled", leaf("yes")),
					br("stiff", leaf("no")),
					br("curled", leaf("yes")),
				)),
				br("dark", leaf("no")),
				br("light", leaf("no")),
			)),
		)),
		br("slightly_blurry", split(touch,
			br("soft", leaf("yes")),
			br("hard", leaf("no")),
		)),
		br("blurry", leaf("no")),
	)
}

func TestGrowWatermelon(t *testing.T) {
	label, features, ds := watermelon(t)
	testCases := []struct {
		alg      arbor.Algorithm
		expected tree.Node
	}{
		{arbor.ID3, expectedID3Tree(features)},
		{arbor.C45, expectedC45Tree(features)},
		{arbor.CART, expectedID3Tree(features)},
	}
	for _, tc := range testCases {
		t.Run(tc.alg.String(), func(t *testing.T) {
			tr, err := arbor.Grow(context.Background(), label, features, ds, tc.alg)
			require.NoError(t, err)
			assert.True(t, tree.Equal(tc.expected, tr.Root), "got tree:\n%v", tr)
			assert.Equal(t, tc.alg.String(), tr.Algorithm)
			assert.Same(t, label, tr.Label)
			assert.Equal(t, str("yes"), tr.Predict(heldOut))
			checkCoverage(t, tr.Root)

			// every training item is classified with its own label
			result := tr.Test(ds)
			assert.Equal(t, ds.Count(), result.Correct)
			assert.Zero(t, result.Unknown)
		})
	}
}

func TestGrowIsDeterministic(t *testing.T) {
	label, features, ds := watermelon(t)
	ctx := context.Background()
	for _, alg := range []arbor.Algorithm{arbor.ID3, arbor.C45, arbor.CART} {
		first, err := arbor.Grow(ctx, label, features, ds, alg)
		require.NoError(t, err)
		second, err := arbor.Grow(ctx, label, features, ds, alg)
		require.NoError(t, err)
		assert.True(t, tree.Equal(first.Root, second.Root), alg.String())
		for _, workers := range []int{0, 2, 4, 32} {
			concurrent, err := arbor.GrowConcurrently(ctx, label, features, ds, alg, workers)
			require.NoError(t, err)
			assert.True(t, tree.Equal(first.Root, concurrent.Root), "%v with %d workers", alg, workers)
		}
	}
}

func TestGrowDoesNotModifyInputs(t *testing.T) {
	label, features, ds := watermelon(t)
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.Name()
	}
	first := ds[0]
	_, err := arbor.GrowConcurrently(context.Background(), label, features, ds, arbor.C45, 4)
	require.NoError(t, err)
	require.Len(t, features, len(names))
	for i, f := range features {
		assert.Equal(t, names[i], f.Name())
	}
	assert.Len(t, ds, 17)
	assert.Equal(t, first, ds[0])
}

func TestPredictWithMissingFeature(t *testing.T) {
	label, features, ds := watermelon(t)
	tr, err := arbor.Grow(context.Background(), label, features, ds, arbor.ID3)
	require.NoError(t, err)

	sample := dataset.Sample{}
	for k, v := range heldOut {
		sample[k] = v
	}
	delete(sample, "texture")
	assert.Equal(t, feature.Unknown, tr.Predict(sample))

	// a value outside the domain matches no branch
	sample["texture"] = str("smooth")
	assert.Equal(t, feature.Unknown, tr.Predict(sample))

	// features the path does not ask about are not needed
	assert.Equal(t, str("no"), tr.Predict(dataset.Sample{"texture": str("blurry")}))
}

func TestGrowSingleItem(t *testing.T) {
	label, features, ds := watermelon(t)
	tr, err := arbor.Grow(context.Background(), label, features, ds[9:10], arbor.ID3)
	require.NoError(t, err)
	assert.True(t, tree.Equal(leaf("no"), tr.Root))
	assert.Equal(t, 1, tr.Size())
	assert.Equal(t, 0, tr.Depth())
}

func TestGrowSingleLabel(t *testing.T) {
	label, features, ds := watermelon(t)
	for _, alg := range []arbor.Algorithm{arbor.ID3, arbor.C45, arbor.CART} {
		tr, err := arbor.Grow(context.Background(), label, features, ds[:8], alg)
		require.NoError(t, err)
		assert.True(t, tree.Equal(leaf("yes"), tr.Root), alg.String())
	}
}

func TestGrowWithoutFeatures(t *testing.T) {
	label, _, ds := watermelon(t)
	tr, err := arbor.Grow(context.Background(), label, nil, ds, arbor.ID3)
	require.NoError(t, err)
	// 9 no against 8 yes
	assert.True(t, tree.Equal(leaf("no"), tr.Root))

	tied := dataset.Dataset{item("yes"), item("no"), item("no"), item("yes")}
	tr, err = arbor.Grow(context.Background(), label, nil, tied, arbor.CART)
	require.NoError(t, err)
	assert.True(t, tree.Equal(leaf("yes"), tr.Root), "first label wins ties")
}

func TestGrowComplementsUnobservedValues(t *testing.T) {
	label := feature.NewStringFeature("ripe", "yes", "no")
	color := feature.NewStringFeature("color", "green", "dark", "light")
	ds := dataset.Dataset{
		item("no", "color", "dark"),
		item("yes", "color", "green"),
		item("yes", "color", "green"),
	}
	tr, err := arbor.Grow(context.Background(), label, []*feature.DiscreteFeature{color}, ds, arbor.ID3)
	require.NoError(t, err)
	expected := split(color,
		br("dark", leaf("no")),
		br("green", leaf("yes")),
		br("light", leaf("yes")),
	)
	assert.True(t, tree.Equal(expected, tr.Root), "got tree:\n%v", tr)
	assert.Equal(t, str("yes"), tr.Predict(dataset.Sample{"color": str("light")}))
}

func TestGrowKeepsItemsMissingTheSplitFeature(t *testing.T) {
	label := feature.NewStringFeature("play", "yes", "no")
	outlook := feature.NewStringFeature("outlook", "sunny", "rainy")
	ds := dataset.Dataset{
		item("yes", "outlook", "sunny"),
		item("no", "outlook", "rainy"),
		item("no"),
		item("no"),
		item("no"),
	}
	tr, err := arbor.Grow(context.Background(), label, []*feature.DiscreteFeature{outlook}, ds, arbor.ID3)
	require.NoError(t, err)
	expected := split(outlook,
		br("sunny", leaf("yes")),
		br("rainy", leaf("no")),
	)
	assert.True(t, tree.Equal(expected, tr.Root), "got tree:\n%v", tr)
	assert.Equal(t, feature.Unknown, tr.Predict(dataset.Sample{}))
}

func TestZeroValuesAreNotMissing(t *testing.T) {
	label := feature.NewIntFeature("class", 0, 1)
	flag := feature.NewIntFeature("flag", 0, 1)
	name := feature.NewStringFeature("name", "", "x")
	ds := dataset.Dataset{
		dataset.NewItem(map[string]feature.Value{"flag": feature.Int(0), "name": str("")}, feature.Int(0)),
		dataset.NewItem(map[string]feature.Value{"flag": feature.Int(1), "name": str("x")}, feature.Int(1)),
	}
	tr, err := arbor.Grow(context.Background(), label, []*feature.DiscreteFeature{flag, name}, ds, arbor.ID3)
	require.NoError(t, err)
	assert.Equal(t, feature.Int(0), tr.Predict(dataset.Sample{"flag": feature.Int(0)}))
	assert.Equal(t, feature.Int(1), tr.Predict(dataset.Sample{"flag": feature.Int(1)}))
	assert.Equal(t, feature.Unknown, tr.Predict(dataset.Sample{"name": str("")}))
}

func TestGrowErrors(t *testing.T) {
	label, features, ds := watermelon(t)
	ctx := context.Background()

	_, err := arbor.Grow(ctx, label, features, ds, arbor.Algorithm(0))
	assert.True(t, errors.Is(err, arbor.ErrUnsupportedAlgorithm))

	_, err = arbor.Grow(ctx, label, features, dataset.Dataset{}, arbor.ID3)
	assert.True(t, errors.Is(err, arbor.ErrEmptyDataset))

	bad := append(dataset.Dataset{item("yes", "color", "purple")}, ds...)
	_, err = arbor.Grow(ctx, label, features, bad, arbor.ID3)
	assert.True(t, errors.Is(err, arbor.ErrValueOutOfDomain))

	bad = append(dataset.Dataset{item("maybe", "color", "green")}, ds...)
	_, err = arbor.Grow(ctx, label, features, bad, arbor.ID3)
	assert.True(t, errors.Is(err, arbor.ErrValueOutOfDomain))
}

func TestGrowCancelled(t *testing.T) {
	label, features, ds := watermelon(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := arbor.GrowConcurrently(ctx, label, features, ds, arbor.ID3, 4)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGrowWithSelector(t *testing.T) {
	label, features, ds := watermelon(t)
	// always split on the last feature left
	last := arbor.SelectorFunc(func(s dataset.Dataset, fs []*feature.DiscreteFeature) *arbor.Split {
		return arbor.GiniIndex(s, fs[len(fs)-1])
	})
	tr, err := arbor.GrowWithSelector(context.Background(), label, features, ds, last, "last")
	require.NoError(t, err)
	assert.Equal(t, "last", tr.Algorithm)
	in, ok := tr.Root.(*tree.Internal)
	require.True(t, ok)
	assert.Equal(t, "touch", in.Feature.Name())
	checkCoverage(t, tr.Root)
	assert.Equal(t, ds.Count(), tr.Test(ds).Correct)
}
