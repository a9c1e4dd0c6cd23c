package main

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	tjson "github.com/pbanos/arbor/tree/json"
)

const (
	watermelonCSV  = "../../testdata/watermelon.csv"
	watermelonYML  = "../../testdata/watermelon.yml"
	watermelonJSON = "../../testdata/watermelon.json"
)

func TestGrowCommandWritesTree(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tree.json")
	cmd := cliParser()
	cmd.SetArgs([]string{"grow", "-i", watermelonCSV, "-m", watermelonYML, "-c", "ripe", "-a", "cart", "-w", "3", "-o", out})
	require.NoError(t, cmd.Execute())

	tr, err := tjson.ReadJSONTreeFromFile(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, "CART", tr.Algorithm)
	assert.Equal(t, "ripe", tr.Label.Name())
	assert.Len(t, tr.Features, 6)
	sample := dataset.Sample{
		"color": feature.String("green"), "root": feature.String("slightly_curled"),
		"knock": feature.String("dull"), "texture": feature.String("clear"),
		"navel": feature.String("slightly_sunken"), "touch": feature.String("soft"),
	}
	assert.Equal(t, feature.String("yes"), tr.Predict(sample))
}

func TestSetCommandCopiesToSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "watermelon.db")
	cmd := cliParser()
	cmd.SetArgs([]string{"set", "-i", watermelonCSV, "-m", watermelonJSON, "-c", "ripe", "-o", db})
	require.NoError(t, cmd.Execute())

	rcc := &rootCmdConfig{}
	require.NoError(t, rcc.init())
	features, err := readFeatures(watermelonJSON)
	require.NoError(t, err)
	label, features, err := classAndFeatures(features, "ripe")
	require.NoError(t, err)
	fromCSV, err := rcc.readDataset(watermelonCSV, label, features)
	require.NoError(t, err)
	fromDB, err := rcc.readDataset(db, label, features)
	require.NoError(t, err)
	assert.Equal(t, fromCSV, fromDB)
}

func TestClassAndFeatures(t *testing.T) {
	features, err := readFeatures(watermelonYML)
	require.NoError(t, err)
	label, rest, err := classAndFeatures(features, "ripe")
	require.NoError(t, err)
	assert.Equal(t, "ripe", label.Name())
	assert.Len(t, rest, 6)
	assert.Nil(t, feature.Find(rest, "ripe"))

	_, _, err = classAndFeatures(features, "sweetness")
	assert.Error(t, err)
}

func TestParseSample(t *testing.T) {
	features := []*feature.DiscreteFeature{
		feature.NewStringFeature("outlook", "sunny", "rainy"),
		feature.NewIntFeature("windy", 0, 1),
	}
	s, err := parseSample(features, []string{"outlook=sunny", "windy=0"})
	require.NoError(t, err)
	assert.Equal(t, dataset.Sample{"outlook": feature.String("sunny"), "windy": feature.Int(0)}, s)

	for _, values := range [][]string{{"outlook"}, {"humidity=high"}, {"outlook=cloudy"}, {"windy=yes"}} {
		_, err = parseSample(features, values)
		assert.Error(t, err, values)
	}
}

type recordingRequester struct {
	requested []string
	rejected  []string
}

func (rr *recordingRequester) RequestValueFor(f *feature.DiscreteFeature) error {
	rr.requested = append(rr.requested, f.Name())
	return nil
}

func (rr *recordingRequester) RejectValueFor(f *feature.DiscreteFeature, v string) error {
	rr.rejected = append(rr.rejected, v)
	return nil
}

func TestReadSample(t *testing.T) {
	outlook := feature.NewStringFeature("outlook", "sunny", "rainy")
	windy := feature.NewIntFeature("windy", 0, 1)
	humidity := feature.NewStringFeature("humidity", "high", "normal")
	rr := &recordingRequester{}
	s := newReadSample(strings.NewReader("cloudy\nrainy\n?\n"), rr, "?")

	v, ok := s.ValueFor(outlook)
	assert.True(t, ok)
	assert.Equal(t, feature.String("rainy"), v)
	_, ok = s.ValueFor(windy)
	assert.False(t, ok)
	// values are only requested once
	v, ok = s.ValueFor(outlook)
	assert.True(t, ok)
	assert.Equal(t, feature.String("rainy"), v)
	assert.NoError(t, s.Err())

	_, ok = s.ValueFor(humidity)
	assert.False(t, ok)
	assert.Error(t, s.Err())
	assert.Equal(t, []string{"outlook", "windy", "humidity"}, rr.requested)
	assert.Equal(t, []string{"cloudy"}, rr.rejected)
}

func TestSplitDataset(t *testing.T) {
	ds := make(dataset.Dataset, 200)
	for i := range ds {
		ds[i] = dataset.NewItem(map[string]feature.Value{"n": feature.Int(int64(i))}, feature.String("x"))
	}
	kept, split := splitDataset(ds, 20, rand.New(rand.NewSource(42)))
	assert.Equal(t, ds.Count(), kept.Count()+split.Count())
	assert.NotEmpty(t, kept)
	assert.NotEmpty(t, split)

	again, _ := splitDataset(ds, 20, rand.New(rand.NewSource(42)))
	assert.Equal(t, kept, again)

	kept, split = splitDataset(ds, 100, rand.New(rand.NewSource(1)))
	assert.Empty(t, kept)
	assert.Len(t, split, 200)
}

func TestLoadSettings(t *testing.T) {
	s, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "ID3", s.Algorithm)
	assert.Equal(t, 1, s.Workers)
	assert.Equal(t, "samples", s.SQL.Table)

	t.Setenv("ARBOR_ALGORITHM", "C45")
	t.Setenv("ARBOR_REDIS_PREFIX", "trees")
	path := filepath.Join(t.TempDir(), "arbor.yml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 4\nredis:\n  prefix: ignored\nsql:\n  table: melons\n"), 0o600))
	s, err = loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "C45", s.Algorithm)
	assert.Equal(t, 4, s.Workers)
	assert.Equal(t, "trees", s.Redis.Prefix)
	assert.Equal(t, "melons", s.SQL.Table)
}
