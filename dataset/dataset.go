package dataset

import (
	"fmt"
	"math"

	"github.com/pbanos/arbor/feature"
)

/*
Dataset is an ordered collection of labeled items. The order does not
change any statistic but it decides the tie-breaks, so datasets built
from the same sources in the same order always grow the same trees.

All methods of Dataset are pure: they neither modify the dataset nor
the items in it.
*/
type Dataset []Item

/*
LabelCount is the number of items in a dataset with a given label.
*/
type LabelCount struct {
	Label feature.Value
	Count int
}

/*
Partition is the result of grouping the items of a dataset by the value
they hold for a feature.

Values holds the observed values in the order in which they first appear
in the dataset, and Subsets maps each of them to the non-empty subset of
items holding it. Items that do not define a value for the feature are
kept apart in Missing.
*/
type Partition struct {
	Feature *feature.DiscreteFeature
	Values  []feature.Value
	Subsets map[feature.Value]Dataset
	Missing Dataset
}

// Count returns the number of items in the dataset.
func (s Dataset) Count() int {
	return len(s)
}

/*
LabelCounts returns how many items in the dataset carry each label, with
labels in the order in which they first appear in the dataset.
*/
func (s Dataset) LabelCounts() []LabelCount {
	index := make(map[feature.Value]int)
	var counts []LabelCount
	for _, item := range s {
		i, ok := index[item.Label]
		if !ok {
			i = len(counts)
			index[item.Label] = i
			counts = append(counts, LabelCount{Label: item.Label})
		}
		counts[i].Count++
	}
	return counts
}

/*
Labels returns the distinct labels in the dataset in order of first appearance.
*/
func (s Dataset) Labels() []feature.Value {
	counts := s.LabelCounts()
	labels := make([]feature.Value, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
	}
	return labels
}

/*
IsPure returns whether all the items in the dataset share the same label.
An empty dataset is not pure.
*/
func (s Dataset) IsPure() bool {
	return len(s.LabelCounts()) == 1
}

/*
MajorityLabel returns the most frequent label in the dataset. When several
labels reach the highest count, the one that appears first in the dataset
wins. It returns Unknown for an empty dataset.
*/
func (s Dataset) MajorityLabel() feature.Value {
	result := feature.Unknown
	best := 0
	for _, c := range s.LabelCounts() {
		if c.Count > best {
			result, best = c.Label, c.Count
		}
	}
	return result
}

/*
Entropy returns the entropy of the label distribution of the dataset in
bits: -Σ p_k log2(p_k). It is 0 for empty datasets and for datasets with
a single label.
*/
func (s Dataset) Entropy() float64 {
	var result float64
	total := float64(len(s))
	for _, c := range s.LabelCounts() {
		p := float64(c.Count) / total
		result -= p * math.Log2(p)
	}
	if result <= 0 {
		// -0 for single-label datasets
		return 0
	}
	return result
}

/*
Gini returns the Gini value of the label distribution of the dataset:
1 - Σ p_k². It is 0 for empty datasets and for datasets with a single
label.
*/
func (s Dataset) Gini() float64 {
	if len(s) == 0 {
		return 0
	}
	result := 1.0
	total := float64(len(s))
	for _, c := range s.LabelCounts() {
		p := float64(c.Count) / total
		result -= p * p
	}
	if result < 0 {
		return 0
	}
	return result
}

/*
PartitionBy groups the items of the dataset by the value they hold for the
given feature. Only observed values get a subset: the feature's value domain
is not consulted.
*/
func (s Dataset) PartitionBy(f *feature.DiscreteFeature) *Partition {
	p := &Partition{Feature: f, Subsets: make(map[feature.Value]Dataset)}
	for _, item := range s {
		v, ok := item.Sample.ValueFor(f)
		if !ok {
			p.Missing = append(p.Missing, item)
			continue
		}
		subset, seen := p.Subsets[v]
		if !seen {
			p.Values = append(p.Values, v)
		}
		p.Subsets[v] = append(subset, item)
	}
	return p
}

/*
Validate checks every item in the dataset holds a label in the label
feature's domain and only values in the domains of the given features
for them. Values for features not in the given slice are ignored.
*/
func (s Dataset) Validate(label *feature.DiscreteFeature, features []*feature.DiscreteFeature) error {
	for i, item := range s {
		if err := label.Valid(item.Label); err != nil {
			return fmt.Errorf("item %d: label: %v", i, err)
		}
		for _, f := range features {
			v, ok := item.Sample.ValueFor(f)
			if !ok {
				continue
			}
			if err := f.Valid(v); err != nil {
				return fmt.Errorf("item %d: %v", i, err)
			}
		}
	}
	return nil
}

// Subset returns the subset of items with the given value, or nil.
func (p *Partition) Subset(v feature.Value) Dataset {
	return p.Subsets[v]
}

/*
Groups returns the non-empty groups of the partition: the subsets in
the order of Values followed by the Missing group if it is not empty.
*/
func (p *Partition) Groups() []Dataset {
	groups := make([]Dataset, 0, len(p.Values)+1)
	for _, v := range p.Values {
		groups = append(groups, p.Subsets[v])
	}
	if len(p.Missing) > 0 {
		groups = append(groups, p.Missing)
	}
	return groups
}
