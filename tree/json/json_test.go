package json_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
	tjson "github.com/pbanos/arbor/tree/json"
)

var (
	ripe    = feature.NewStringFeature("ripe", "yes", "no")
	texture = feature.NewStringFeature("texture", "clear", "blurry")
	rings   = feature.NewIntFeature("rings", 0, 1, 2)
)

func sampleTree() *tree.Tree {
	root := tree.NewInternal(texture, []tree.Branch{
		{Value: feature.String("clear"), Node: tree.NewInternal(rings, []tree.Branch{
			{Value: feature.Int(0), Node: tree.NewLeaf(feature.String("no"))},
			{Value: feature.Int(2), Node: tree.NewLeaf(feature.String("yes"))},
			{Value: feature.Int(1), Node: tree.NewLeaf(feature.String("yes"))},
		})},
		{Value: feature.String("blurry"), Node: tree.NewLeaf(feature.String("no"))},
	})
	return tree.New(ripe, []*feature.DiscreteFeature{texture, rings}, "C45", root)
}

const sampleJSON = `{
	"label": {"name": "ripe", "values": ["yes", "no"]},
	"algorithm": "C45",
	"features": [
		{"name": "texture", "values": ["clear", "blurry"]},
		{"name": "rings", "values": [0, 1, 2]}
	],
	"root": {
		"feature": "texture",
		"branches": [
			{"value": "clear", "node": {
				"feature": "rings",
				"branches": [
					{"value": 0, "node": {"leaf": true, "label": "no"}},
					{"value": 2, "node": {"leaf": true, "label": "yes"}},
					{"value": 1, "node": {"leaf": true, "label": "yes"}}
				]
			}},
			{"value": "blurry", "node": {"leaf": true, "label": "no"}}
		]
	}
}`

func TestEncodeTree(t *testing.T) {
	data, err := tjson.EncodeTree(context.Background(), sampleTree())
	require.NoError(t, err)
	assert.JSONEq(t, sampleJSON, string(data))
}

func TestDecodeTree(t *testing.T) {
	tr, err := tjson.DecodeTree(context.Background(), []byte(sampleJSON))
	require.NoError(t, err)
	expected := sampleTree()
	assert.True(t, tree.Equal(expected.Root, tr.Root), "got tree:\n%v", tr)
	assert.Equal(t, "C45", tr.Algorithm)
	assert.Equal(t, "ripe", tr.Label.Name())
	assert.Equal(t, expected.Label.AvailableValues(), tr.Label.AvailableValues())
	require.Len(t, tr.Features, 2)
	assert.Equal(t, feature.KindInt, tr.Features[1].Kind())

	// internal nodes share the tree's features
	in := tr.Root.(*tree.Internal)
	assert.Same(t, tr.Features[0], in.Feature)
}

func TestRoundTripKeepsPredictions(t *testing.T) {
	ctx := context.Background()
	original := sampleTree()
	var buf bytes.Buffer
	require.NoError(t, tjson.WriteJSONTree(ctx, original, &buf))
	decoded, err := tjson.ReadJSONTree(ctx, &buf)
	require.NoError(t, err)

	samples := []dataset.Sample{
		{"texture": feature.String("clear"), "rings": feature.Int(0)},
		{"texture": feature.String("clear"), "rings": feature.Int(1)},
		{"texture": feature.String("clear"), "rings": feature.String("1")},
		{"texture": feature.String("clear")},
		{"texture": feature.String("blurry")},
		{},
	}
	for _, s := range samples {
		assert.Equal(t, original.Predict(s), decoded.Predict(s), "sample %v", s)
	}
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, tjson.WriteJSONTreeToFile(ctx, sampleTree(), path))
	tr, err := tjson.ReadJSONTreeFromFile(ctx, path)
	require.NoError(t, err)
	assert.True(t, tree.Equal(sampleTree().Root, tr.Root))

	_, err = tjson.ReadJSONTreeFromFile(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDecodeTreeErrors(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"malformed", `{"label":`},
		{"no label", `{"features": [], "root": {"leaf": true, "label": "no"}}`},
		{"label without values", `{"label": {"name": "ripe", "values": []}, "root": {"leaf": true, "label": "no"}}`},
		{"no root", `{"label": {"name": "ripe", "values": ["yes"]}, "features": []}`},
		{"unknown feature", `{"label": {"name": "ripe", "values": ["yes"]}, "features": [], "root": {"feature": "color", "branches": []}}`},
		{"null branch node", `{"label": {"name": "ripe", "values": ["yes"]}, "features": [{"name": "color", "values": ["green"]}], "root": {"feature": "color", "branches": [{"value": "green", "node": null}]}}`},
		{"repeated feature", `{"label": {"name": "ripe", "values": ["yes"]}, "features": [{"name": "color", "values": ["green"]}, {"name": "color", "values": ["dark"]}], "root": {"leaf": true, "label": "yes"}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tjson.DecodeTree(context.Background(), []byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestEncodeTreeErrors(t *testing.T) {
	_, err := tjson.EncodeTree(context.Background(), nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tjson.EncodeTree(ctx, sampleTree())
	assert.Equal(t, context.Canceled, err)
}

func TestNodeRoundTrip(t *testing.T) {
	data, err := tjson.EncodeNode(tree.NewLeaf(feature.Int(3)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"leaf": true, "label": 3}`, string(data))
	n, err := tjson.DecodeNode(data, nil)
	require.NoError(t, err)
	assert.True(t, tree.Equal(tree.NewLeaf(feature.Int(3)), n))
}
