/*
Package json provides methods to serialize trees as JSON documents and
read them back. Trees are written as nested records that carry the
features they were grown with, so a serialized tree can be used for
predictions without any other metadata.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	fjson "github.com/pbanos/arbor/feature/json"
	"github.com/pbanos/arbor/tree"
)

type jsonTree struct {
	Label     *fjson.Feature   `json:"label"`
	Algorithm string           `json:"algorithm,omitempty"`
	Features  []*fjson.Feature `json:"features"`
	Root      json.RawMessage  `json:"root"`
}

/*
EncodeTree takes a context.Context and a pointer to a tree.Tree and returns
the tree serialized as a JSON object with the following fields:
* "label": the feature the tree predicts
* "algorithm": the name of the algorithm that grew the tree
* "features": an array with the features the tree was grown with
* "root": the root node, as EncodeNode encodes it
Features are encoded as {"name": n, "values": [...]}.
An error is returned if the context is done or the tree cannot be encoded.
*/
func EncodeTree(ctx context.Context, t *tree.Tree) ([]byte, error) {
	if t == nil || t.Root == nil || t.Label == nil {
		return nil, fmt.Errorf("encoding tree: tree is incomplete")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := EncodeNode(t.Root)
	if err != nil {
		return nil, fmt.Errorf("encoding tree: %v", err)
	}
	return json.Marshal(&jsonTree{
		Label:     fjson.NewFeature(t.Label),
		Algorithm: t.Algorithm,
		Features:  fjson.EncodeFeatures(t.Features),
		Root:      root,
	})
}

/*
DecodeTree takes a context.Context and a slice of bytes with a JSON tree as
EncodeTree writes them and returns the tree. Feature names on internal nodes
are resolved against the features embedded in the document. An error is
returned if the JSON is malformed, incomplete or references unknown features.
*/
func DecodeTree(ctx context.Context, data []byte) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	jt := &jsonTree{}
	err := json.Unmarshal(data, jt)
	if err != nil {
		return nil, fmt.Errorf("decoding tree: %v", err)
	}
	if jt.Label == nil {
		return nil, fmt.Errorf("decoding tree: no label feature defined")
	}
	label, err := jt.Label.DiscreteFeature()
	if err != nil {
		return nil, fmt.Errorf("decoding tree label: %v", err)
	}
	features, err := fjson.DecodeFeatures(jt.Features)
	if err != nil {
		return nil, fmt.Errorf("decoding tree features: %v", err)
	}
	if len(jt.Root) == 0 {
		return nil, fmt.Errorf("decoding tree: no root node")
	}
	root, err := DecodeNode(jt.Root, features)
	if err != nil {
		return nil, fmt.Errorf("decoding tree root: %v", err)
	}
	return tree.New(label, features, jt.Algorithm, root), nil
}

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree and an
io.Writer and serializes the given tree as JSON onto the io.Writer, as
EncodeTree does. An error is returned if the tree cannot be serialized or
written onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	data, err := EncodeTree(ctx, t)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

/*
ReadJSONTree takes a context.Context and an io.Reader and returns the tree
serialized on the contents of the reader, as DecodeTree does. An error is
returned if the contents cannot be read or decoded.
*/
func ReadJSONTree(ctx context.Context, r io.Reader) (*tree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading tree: %v", err)
	}
	return DecodeTree(ctx, data)
}

/*
WriteJSONTreeToFile takes a context.Context, a tree and a filepath string
and writes the tree as JSON on the file, creating it or truncating it.
*/
func WriteJSONTreeToFile(ctx context.Context, t *tree.Tree, filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("creating tree file %s: %v", filepath, err)
	}
	err = WriteJSONTree(ctx, t, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing tree file %s: %v", filepath, err)
	}
	return nil
}

/*
ReadJSONTreeFromFile takes a context.Context and a filepath string and
returns the tree serialized in the file.
*/
func ReadJSONTreeFromFile(ctx context.Context, filepath string) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening tree file %s: %v", filepath, err)
	}
	defer f.Close()
	t, err := ReadJSONTree(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parsing tree file %s: %v", filepath, err)
	}
	return t, nil
}
