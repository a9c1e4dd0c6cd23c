package tree

import (
	"github.com/pbanos/arbor/feature"
)

/*
Node is a node of a tree: either a *Leaf holding a label or an *Internal
node that splits on a feature. The interface is sealed, no other types
implement it.

Nodes are immutable once built: a tree may be shared by any number of
goroutines predicting samples.
*/
type Node interface {
	// IsLeaf returns whether the node is a *Leaf.
	IsLeaf() bool
	node()
}

/*
Leaf is a node that predicts a label for every sample that reaches it.
*/
type Leaf struct {
	Label feature.Value
}

/*
Internal is a node that sends samples down one of its branches according
to the value they hold for its feature.
*/
type Internal struct {
	// The feature the node asks samples about.
	Feature *feature.DiscreteFeature
	// One branch per value in the feature's domain.
	Branches []Branch
}

/*
Branch links an internal node with the subtree for samples holding
a specific value for the internal node's feature.
*/
type Branch struct {
	Value feature.Value
	Node  Node
}

// NewLeaf returns a leaf predicting the given label.
func NewLeaf(label feature.Value) *Leaf {
	return &Leaf{Label: label}
}

// NewInternal returns an internal node splitting on the given feature
// with the given branches.
func NewInternal(f *feature.DiscreteFeature, branches []Branch) *Internal {
	return &Internal{Feature: f, Branches: branches}
}

// IsLeaf returns true.
func (*Leaf) IsLeaf() bool { return true }
func (*Leaf) node()        {}

// IsLeaf returns false.
func (*Internal) IsLeaf() bool { return false }
func (*Internal) node()        {}

/*
Branch returns the subtree for the given value and true, or nil and
false if the node has no branch for it.
*/
func (n *Internal) Branch(v feature.Value) (Node, bool) {
	for _, b := range n.Branches {
		if b.Value == v {
			return b.Node, true
		}
	}
	return nil, false
}

/*
Equal returns whether the two given subtrees have the same structure: the same
labels on their leaves and the same features and branch values, in the same
order, on their internal nodes. Features are compared by name and domain.
*/
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *Leaf:
		b, ok := b.(*Leaf)
		return ok && a.Label == b.Label
	case *Internal:
		b, ok := b.(*Internal)
		if !ok || !sameFeature(a.Feature, b.Feature) || len(a.Branches) != len(b.Branches) {
			return false
		}
		for i, ab := range a.Branches {
			bb := b.Branches[i]
			if ab.Value != bb.Value || !Equal(ab.Node, bb.Node) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}

func sameFeature(a, b *feature.DiscreteFeature) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Name() != b.Name() {
		return false
	}
	av, bv := a.AvailableValues(), b.AvailableValues()
	if len(av) != len(bv) {
		return false
	}
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}
	return true
}
