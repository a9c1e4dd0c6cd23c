package arbor

import (
	"math"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
)

/*
Split represents a partition of a dataset according to a feature along the
scores the splitting criteria give it. Which scores are filled depends on
the function that built the split: InformationGain fills InformationGain,
IntrinsicValue and GainRatio, GiniIndex fills GiniIndex.
*/
type Split struct {
	Feature   *feature.DiscreteFeature
	Partition *dataset.Partition
	// InformationGain is the reduction in label entropy achieved by the split.
	InformationGain float64
	// IntrinsicValue measures how evenly the split divides the dataset.
	IntrinsicValue float64
	// GainRatio is InformationGain / IntrinsicValue, 0 when IntrinsicValue is 0.
	GainRatio float64
	// GiniIndex is the size-weighted Gini value of the groups, lower is better.
	GiniIndex float64
}

/*
InformationGain takes a dataset, a discrete feature and the entropy of the
dataset and returns the split of the dataset for the feature with its
information gain, intrinsic value and gain ratio (ID3 and C4.5 criteria).

The information gain is the entropy of the dataset minus the size-weighted
entropy of the groups in the partition. The intrinsic value is
-Σ (|Dv|/|D|) log2(|Dv|/|D|) over the same groups. When the intrinsic value
is 0 (every item falls in the same group) the gain ratio is undefined and
left at 0; HasGainRatio reports it.

Items missing the feature form a group of their own for these computations.
*/
func InformationGain(s dataset.Dataset, f *feature.DiscreteFeature, parentEntropy float64) *Split {
	p := s.PartitionBy(f)
	result := &Split{Feature: f, Partition: p}
	total := float64(s.Count())
	if total == 0 {
		return result
	}
	var weightedEntropy, iv float64
	for _, group := range p.Groups() {
		weight := float64(group.Count()) / total
		weightedEntropy += weight * group.Entropy()
		iv -= weight * math.Log2(weight)
	}
	result.InformationGain = parentEntropy - weightedEntropy
	if iv > 0 {
		result.IntrinsicValue = iv
		result.GainRatio = result.InformationGain / iv
	}
	return result
}

/*
GiniIndex takes a dataset and a discrete feature and returns the split of
the dataset for the feature with its Gini index (CART criterion):
Σ (|Dv|/|D|) gini(Dv) over the groups of the partition.
*/
func GiniIndex(s dataset.Dataset, f *feature.DiscreteFeature) *Split {
	p := s.PartitionBy(f)
	result := &Split{Feature: f, Partition: p}
	total := float64(s.Count())
	if total == 0 {
		return result
	}
	for _, group := range p.Groups() {
		result.GiniIndex += float64(group.Count()) / total * group.Gini()
	}
	return result
}

// HasGainRatio returns whether the gain ratio of the split is defined.
func (s *Split) HasGainRatio() bool {
	return s.IntrinsicValue > 0
}
