/*
Package arbor grows classification trees from datasets of discrete features
using the ID3, C4.5 or CART splitting criteria.
*/
package arbor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
)

// grower holds what stays the same across the recursive
// development of the nodes of a tree.
type grower struct {
	selector SplitSelector
	// sem bounds the number of subtrees growing in their own
	// goroutine. A nil sem grows every subtree sequentially.
	sem *semaphore.Weighted
}

/*
Grow takes a context, a label feature, a slice of features, a dataset and an
algorithm and returns a tree that predicts the label feature from the given
features according to the training data in the dataset.

The order of the features matters: when several features score the same,
the node splits on the one that comes first.

Grow returns an error wrapping ErrUnsupportedAlgorithm if the algorithm is
not one of ID3, C45 or CART, ErrEmptyDataset if the dataset has no items,
ErrValueOutOfDomain if any label or feature value in the dataset is not
declared in its feature's domain, or the context error if the context is
cancelled before the tree is complete.
*/
func Grow(ctx context.Context, label *feature.DiscreteFeature, features []*feature.DiscreteFeature, s dataset.Dataset, alg Algorithm) (*tree.Tree, error) {
	return GrowConcurrently(ctx, label, features, s, alg, 1)
}

/*
GrowConcurrently works like Grow but develops up to workers sibling subtrees
at the same time. The resulting tree is the same Grow returns for the same
parameters, whatever the number of workers and however the goroutines are
scheduled. A workers value below 2 grows the tree sequentially.
*/
func GrowConcurrently(ctx context.Context, label *feature.DiscreteFeature, features []*feature.DiscreteFeature, s dataset.Dataset, alg Algorithm, workers int) (*tree.Tree, error) {
	selector, err := alg.Selector()
	if err != nil {
		return nil, err
	}
	if s.Count() == 0 {
		return nil, ErrEmptyDataset
	}
	if err = s.Validate(label, features); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValueOutOfDomain, err)
	}
	g := &grower{selector: selector}
	if workers > 1 {
		g.sem = semaphore.NewWeighted(int64(workers - 1))
	}
	root, err := g.branchOut(ctx, s, features)
	if err != nil {
		return nil, err
	}
	return tree.New(label, features, alg.String(), root), nil
}

/*
GrowWithSelector works like Grow but uses the given SplitSelector to choose
the feature each node splits on. The algorithm name is only recorded on the
returned tree.
*/
func GrowWithSelector(ctx context.Context, label *feature.DiscreteFeature, features []*feature.DiscreteFeature, s dataset.Dataset, selector SplitSelector, algorithm string) (*tree.Tree, error) {
	if s.Count() == 0 {
		return nil, ErrEmptyDataset
	}
	if err := s.Validate(label, features); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValueOutOfDomain, err)
	}
	g := &grower{selector: selector}
	root, err := g.branchOut(ctx, s, features)
	if err != nil {
		return nil, err
	}
	return tree.New(label, features, algorithm, root), nil
}

/*
branchOut develops the node for the given non-empty dataset and available
features. Partitions only yield non-empty subsets, so every recursive call
gets a non-empty dataset too.
*/
func (g *grower) branchOut(ctx context.Context, s dataset.Dataset, features []*feature.DiscreteFeature) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return tree.NewLeaf(s.MajorityLabel()), nil
	}
	if s.IsPure() {
		return tree.NewLeaf(s[0].Label), nil
	}
	split := g.selector.Select(s, features)
	if split == nil {
		return tree.NewLeaf(s.MajorityLabel()), nil
	}
	stFeatures := feature.Without(features, split.Feature.Name())
	values := split.Partition.Values
	branches := make([]tree.Branch, len(values), len(split.Feature.AvailableValues()))
	eg, ectx := errgroup.WithContext(ctx)
	for i, v := range values {
		i, subset := i, split.Partition.Subset(v)
		branches[i].Value = v
		develop := func() error {
			n, err := g.branchOut(ectx, subset, stFeatures)
			branches[i].Node = n
			return err
		}
		if g.sem != nil && g.sem.TryAcquire(1) {
			eg.Go(func() error {
				defer g.sem.Release(1)
				return develop()
			})
			continue
		}
		if err := develop(); err != nil {
			eg.Wait()
			return nil, err
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	majority := s.MajorityLabel()
	for _, v := range split.Feature.AvailableValues() {
		if _, observed := split.Partition.Subsets[v]; !observed {
			branches = append(branches, tree.Branch{Value: v, Node: tree.NewLeaf(majority)})
		}
	}
	return tree.NewInternal(split.Feature, branches), nil
}
