package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/tree"
)

// node is the JSON representation of a tree.Node: a leaf with its label
// or an internal node with the name of its feature and its branches.
type node struct {
	Leaf     bool           `json:"leaf,omitempty"`
	Label    *feature.Value `json:"label,omitempty"`
	Feature  string         `json:"feature,omitempty"`
	Branches []*branch      `json:"branches,omitempty"`
}

type branch struct {
	Value feature.Value `json:"value"`
	Node  *node         `json:"node"`
}

/*
EncodeNode takes a tree.Node and returns its JSON representation as an
object. Leaves are encoded as {"leaf": true, "label": v}, internal nodes as
{"feature": name, "branches": [{"value": v, "node": {...}}, ...]}.
*/
func EncodeNode(n tree.Node) ([]byte, error) {
	jn, err := newNode(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jn)
}

/*
DecodeNode takes a slice of bytes with a JSON node as EncodeNode writes them
and the features its internal nodes may split on and returns the node, or an
error if the JSON is malformed or references a feature not in the slice.
*/
func DecodeNode(data []byte, features []*feature.DiscreteFeature) (tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	return jn.treeNode(features)
}

func newNode(n tree.Node) (*node, error) {
	switch n := n.(type) {
	case *tree.Leaf:
		label := n.Label
		return &node{Leaf: true, Label: &label}, nil
	case *tree.Internal:
		jn := &node{Feature: n.Feature.Name(), Branches: make([]*branch, len(n.Branches))}
		for i, b := range n.Branches {
			st, err := newNode(b.Node)
			if err != nil {
				return nil, fmt.Errorf("encoding branch %v of %s: %v", b.Value, jn.Feature, err)
			}
			jn.Branches[i] = &branch{b.Value, st}
		}
		return jn, nil
	}
	return nil, fmt.Errorf("unsupported node %T", n)
}

func (jn *node) treeNode(features []*feature.DiscreteFeature) (tree.Node, error) {
	if jn == nil {
		return nil, fmt.Errorf("null node")
	}
	if jn.Leaf {
		if jn.Label == nil {
			return tree.NewLeaf(feature.Unknown), nil
		}
		return tree.NewLeaf(*jn.Label), nil
	}
	f := feature.Find(features, jn.Feature)
	if f == nil {
		return nil, fmt.Errorf("unknown feature %q", jn.Feature)
	}
	branches := make([]tree.Branch, len(jn.Branches))
	for i, b := range jn.Branches {
		if b == nil {
			return nil, fmt.Errorf("null branch on node for feature %s", f.Name())
		}
		st, err := b.Node.treeNode(features)
		if err != nil {
			return nil, fmt.Errorf("decoding branch %v of %s: %v", b.Value, f.Name(), err)
		}
		branches[i] = tree.Branch{Value: b.Value, Node: st}
	}
	return tree.NewInternal(f, branches), nil
}
