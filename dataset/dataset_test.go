package dataset

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/arbor/feature"
)

var (
	yes   = feature.String("yes")
	no    = feature.String("no")
	color = feature.NewStringFeature("color", "green", "dark", "light")
)

func item(c string, label feature.Value) Item {
	return NewItem(map[string]feature.Value{"color": feature.String(c)}, label)
}

func TestEntropy(t *testing.T) {
	assert.Equal(t, 0.0, Dataset{}.Entropy())
	assert.Equal(t, 0.0, Dataset{item("green", yes), item("dark", yes)}.Entropy())
	assert.InDelta(t, 1.0, Dataset{item("green", yes), item("dark", no)}.Entropy(), 1e-12)

	s := Dataset{}
	for i := 0; i < 8; i++ {
		s = append(s, item("green", yes))
	}
	for i := 0; i < 9; i++ {
		s = append(s, item("green", no))
	}
	assert.InDelta(t, 0.998, s.Entropy(), 0.001)
}

func TestGini(t *testing.T) {
	assert.Equal(t, 0.0, Dataset{}.Gini())
	assert.Equal(t, 0.0, Dataset{item("green", yes)}.Gini())
	assert.InDelta(t, 0.5, Dataset{item("green", yes), item("dark", no)}.Gini(), 1e-12)
	three := Dataset{item("green", yes), item("dark", no), item("dark", feature.Int(1))}
	assert.InDelta(t, 2.0/3.0, three.Gini(), 1e-12)
}

func TestImpurityIsZeroOnlyForPureDatasets(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	labels := []feature.Value{yes, no, feature.Int(0), feature.String("")}
	for n := 0; n < 200; n++ {
		size := 1 + r.Intn(20)
		s := make(Dataset, size)
		for i := range s {
			s[i] = item("green", labels[r.Intn(1+r.Intn(len(labels)))])
		}
		e, g := s.Entropy(), s.Gini()
		require.GreaterOrEqual(t, e, 0.0)
		require.GreaterOrEqual(t, g, 0.0)
		require.False(t, math.IsNaN(e))
		if s.IsPure() {
			require.Equal(t, 0.0, e)
			require.Equal(t, 0.0, g)
		} else {
			require.Greater(t, e, 0.0)
			require.Greater(t, g, 0.0)
		}
	}
}

func TestMajorityLabel(t *testing.T) {
	assert.Equal(t, feature.Unknown, Dataset{}.MajorityLabel())
	assert.Equal(t, no, Dataset{item("green", yes), item("green", no), item("green", no)}.MajorityLabel())
	// ties go to the label that appears first
	assert.Equal(t, yes, Dataset{item("green", yes), item("green", no), item("green", no), item("green", yes)}.MajorityLabel())
	assert.Equal(t, no, Dataset{item("green", no), item("green", yes)}.MajorityLabel())
	// a single occurrence is counted once, not zero times
	assert.Equal(t, yes, Dataset{item("green", no), item("green", yes), item("green", yes)}.MajorityLabel())
}

func TestLabelCounts(t *testing.T) {
	s := Dataset{item("green", no), item("green", yes), item("green", no)}
	assert.Equal(t, []LabelCount{{no, 2}, {yes, 1}}, s.LabelCounts())
	assert.Equal(t, []feature.Value{no, yes}, s.Labels())
	assert.False(t, s.IsPure())
	assert.False(t, Dataset{}.IsPure())
	assert.True(t, Dataset{item("dark", yes)}.IsPure())
}

func TestPartitionBy(t *testing.T) {
	missing := NewItem(map[string]feature.Value{}, yes)
	s := Dataset{item("dark", yes), item("green", no), missing, item("dark", no)}
	p := s.PartitionBy(color)
	assert.Same(t, color, p.Feature)
	assert.Equal(t, []feature.Value{feature.String("dark"), feature.String("green")}, p.Values)
	assert.Equal(t, Dataset{item("dark", yes), item("dark", no)}, p.Subset(feature.String("dark")))
	assert.Equal(t, Dataset{item("green", no)}, p.Subset(feature.String("green")))
	assert.Nil(t, p.Subset(feature.String("light")))
	assert.Equal(t, Dataset{missing}, p.Missing)
	assert.Len(t, p.Groups(), 3)
	// the partitioned dataset is untouched
	assert.Equal(t, item("dark", yes), s[0])
	assert.Len(t, s, 4)
}

func TestZeroValuesAreNotMissing(t *testing.T) {
	digit := feature.NewIntFeature("digit", 0, 1)
	s := Dataset{
		NewItem(map[string]feature.Value{"digit": feature.Int(0)}, yes),
		NewItem(map[string]feature.Value{}, no),
	}
	p := s.PartitionBy(digit)
	assert.Equal(t, []feature.Value{feature.Int(0)}, p.Values)
	assert.Len(t, p.Missing, 1)
}

func TestValidate(t *testing.T) {
	label := feature.NewDiscreteFeature("ripe", []feature.Value{yes, no})
	features := []*feature.DiscreteFeature{color}
	assert.NoError(t, Dataset{item("green", yes), NewItem(nil, no)}.Validate(label, features))
	assert.Error(t, Dataset{item("purple", yes)}.Validate(label, features))
	assert.Error(t, Dataset{item("green", feature.String("maybe"))}.Validate(label, features))
	assert.Error(t, Dataset{item("green", feature.Unknown)}.Validate(label, features))
}
