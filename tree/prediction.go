package tree

import (
	"github.com/pbanos/arbor/feature"
)

/*
Predict takes the root of a subtree and a sample and returns the label the
subtree predicts for the sample.

When the sample does not define a value for the feature of an internal node
on its path, or holds a value no branch of that node accepts, the result is
feature.Unknown. Predict never fails otherwise: a sample that does not match
the schema the tree was grown with is simply unclassifiable.
*/
func Predict(n Node, s feature.Sample) feature.Value {
	for {
		switch current := n.(type) {
		case *Leaf:
			return current.Label
		case *Internal:
			v, ok := s.ValueFor(current.Feature)
			if !ok {
				return feature.Unknown
			}
			next, ok := current.Branch(v)
			if !ok {
				return feature.Unknown
			}
			n = next
		default:
			return feature.Unknown
		}
	}
}
