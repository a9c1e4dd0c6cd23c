package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
)

// Tree represents a classification tree. It is composed of its root
// node, the label feature it predicts, the features it was grown with
// and the name of the algorithm that grew it.
type Tree struct {
	Label     *feature.DiscreteFeature
	Features  []*feature.DiscreteFeature
	Algorithm string
	Root      Node
}

/*
TestResult holds the outcome of testing a tree against a labeled dataset.
*/
type TestResult struct {
	// Count is the number of items tested.
	Count int
	// Correct is the number of items whose label was predicted.
	Correct int
	// Unknown is the number of items the tree could not classify.
	Unknown int
	// Confusion counts items by actual label and then by predicted
	// label, unknown predictions included.
	Confusion map[feature.Value]map[feature.Value]int
}

// New takes a label feature, the features used to grow a tree, the name of
// the algorithm and the root node and returns a tree.
func New(label *feature.DiscreteFeature, features []*feature.DiscreteFeature, algorithm string, root Node) *Tree {
	return &Tree{label, features, algorithm, root}
}

// Predict takes a sample and returns the label predicted by the tree or
// feature.Unknown if it cannot be predicted.
func (t *Tree) Predict(s feature.Sample) feature.Value {
	if t == nil || t.Root == nil {
		return feature.Unknown
	}
	return Predict(t.Root, s)
}

/*
Test takes a dataset and predicts every item in it, returning how many
predictions matched the item's label, how many items could not be classified
and the confusion matrix.
*/
func (t *Tree) Test(s dataset.Dataset) *TestResult {
	result := &TestResult{Confusion: make(map[feature.Value]map[feature.Value]int)}
	for _, item := range s {
		p := t.Predict(item.Sample)
		result.Count++
		switch {
		case !p.Defined():
			result.Unknown++
		case p == item.Label:
			result.Correct++
		}
		row, ok := result.Confusion[item.Label]
		if !ok {
			row = make(map[feature.Value]int)
			result.Confusion[item.Label] = row
		}
		row[p]++
	}
	return result
}

// SuccessRate returns the fraction of tested items that were correctly
// predicted, 0 if no items were tested.
func (tr *TestResult) SuccessRate() float64 {
	if tr.Count == 0 {
		return 0
	}
	return float64(tr.Correct) / float64(tr.Count)
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context, a node
// and its depth as parameters, and goes through the tree
// running the function with the context and every node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, Node, int) error) error {
	if t == nil || t.Root == nil {
		return nil
	}
	return traverse(ctx, t.Root, 0, bottomup, f)
}

func traverse(ctx context.Context, n Node, depth int, bottomup bool, f func(context.Context, Node, int) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		if err = f(ctx, n, depth); err != nil {
			return err
		}
	}
	if in, ok := n.(*Internal); ok {
		for _, b := range in.Branches {
			if err = traverse(ctx, b.Node, depth+1, bottomup, f); err != nil {
				return err
			}
		}
	}
	if bottomup {
		return f(ctx, n, depth)
	}
	return nil
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	var size int
	t.Traverse(context.Background(), false, func(context.Context, Node, int) error {
		size++
		return nil
	})
	return size
}

// Depth returns the number of internal nodes on the longest path from the
// root to a leaf, 0 for a tree that is a single leaf.
func (t *Tree) Depth() int {
	var depth int
	t.Traverse(context.Background(), false, func(_ context.Context, n Node, d int) error {
		if n.IsLeaf() && d > depth {
			depth = d
		}
		return nil
	})
	return depth
}

func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return "<empty tree>\n"
	}
	return subtreeString(t.Root)
}

func subtreeString(n Node) string {
	var result string
	switch n := n.(type) {
	case *Leaf:
		return fmt.Sprintf("{ %v }\n", n.Label)
	case *Internal:
		result = fmt.Sprintf("[%s]\n|\n", n.Feature.Name())
		for i, b := range n.Branches {
			lines := strings.Split(subtreeString(b.Node), "\n")
			for j, line := range lines {
				if len(line) == 0 {
					continue
				}
				if j == 0 {
					result = fmt.Sprintf("%s|__%v: %s\n", result, b.Value, line)
				} else if i == len(n.Branches)-1 {
					result = fmt.Sprintf("%s   %s\n", result, line)
				} else {
					result = fmt.Sprintf("%s|  %s\n", result, line)
				}
			}
		}
	}
	return result
}
