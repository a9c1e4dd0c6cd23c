/*
Package mongodataset provides methods to read datasets from and write them
to a MongoDB collection. Each item is stored as a document with a field for
each feature it defines and one for its label. Absent fields are missing
values.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// DefaultCollection is the name of the collection used when none is given.
const DefaultCollection = "samples"

/*
Collection is a MongoDB collection holding the items of a dataset with the
given label and features.
*/
type Collection struct {
	session  *mgo.Session
	name     string
	label    *feature.DiscreteFeature
	features []*feature.DiscreteFeature
}

/*
Open takes a MongoDB database session, a collection name, a label feature
and a slice of features and returns a Collection that works on the default
database for that session or an error if the feature names cannot be used
as fields or the indexes on them cannot be ensured.
*/
func Open(ctx context.Context, session *mgo.Session, name string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (*Collection, error) {
	if name == "" {
		name = DefaultCollection
	}
	c := &Collection{session, name, label, features}
	err := c.ensureIndexes(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

/*
Write takes a context and a dataset and inserts its items on the collection,
storing only the values for the collection's features. It returns the number
of items written or an error.
*/
func (c *Collection) Write(ctx context.Context, ds dataset.Dataset) (int, error) {
	docs := make([]interface{}, 0, len(ds))
	for _, item := range ds {
		doc := bson.M{"_id": bson.NewObjectId()}
		for _, f := range c.features {
			if v, ok := item.Sample.ValueFor(f); ok {
				doc[f.Name()] = v.Interface()
			}
		}
		doc[c.label.Name()] = item.Label.Interface()
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err := c.collection().Insert(docs...)
	if err != nil {
		return 0, fmt.Errorf("inserting items on %s: %v", c.name, err)
	}
	return len(ds), nil
}

/*
Read takes a context and returns the dataset stored on the collection, in
insertion order, or an error.
*/
func (c *Collection) Read(ctx context.Context) (dataset.Dataset, error) {
	var ds dataset.Dataset
	err := c.ReadByItem(ctx, func(_ int, item dataset.Item) (bool, error) {
		ds = append(ds, item)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

/*
ReadByItem takes a context and a lambda function and calls it with the index
and each item on the collection, in insertion order, until it returns false
or an error. Values that do not belong to their feature's domain make it
return an error.
*/
func (c *Collection) ReadByItem(ctx context.Context, lambda func(int, dataset.Item) (bool, error)) error {
	iter := c.collection().Find(nil).Sort("_id").Iter()
	var doc bson.M
	for i := 0; iter.Next(&doc); i++ {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return err
		}
		item, err := c.item(doc)
		if err != nil {
			iter.Close()
			return fmt.Errorf("parsing document %d: %v", i+1, err)
		}
		ok, err := lambda(i, item)
		if err != nil || !ok {
			iter.Close()
			return err
		}
		doc = nil
	}
	return iter.Close()
}

// Count returns the number of items on the collection.
func (c *Collection) Count() (int, error) {
	return c.collection().Count()
}

// Drop removes the collection and all the items on it.
func (c *Collection) Drop() error {
	return c.collection().DropCollection()
}

func (c *Collection) item(doc bson.M) (dataset.Item, error) {
	item := dataset.Item{Sample: make(dataset.Sample, len(c.features))}
	for _, f := range c.features {
		raw, ok := doc[f.Name()]
		if !ok || raw == nil {
			continue
		}
		v, err := feature.ValueOf(raw)
		if err != nil {
			return item, fmt.Errorf("feature %s: %v", f.Name(), err)
		}
		if err = f.Valid(v); err != nil {
			return item, err
		}
		item.Sample[f.Name()] = v
	}
	label, err := feature.ValueOf(doc[c.label.Name()])
	if err != nil {
		return item, fmt.Errorf("label %s: %v", c.label.Name(), err)
	}
	if err = c.label.Valid(label); err != nil {
		return item, err
	}
	item.Label = label
	return item, nil
}

func (c *Collection) ensureIndexes(ctx context.Context) error {
	for _, f := range append([]*feature.DiscreteFeature{c.label}, c.features...) {
		if err := ctx.Err(); err != nil {
			return err
		}
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
		index := mgo.Index{
			Key:        []string{fName},
			Background: true,
			Sparse:     true,
		}
		err := c.collection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) collection() *mgo.Collection {
	return c.session.DB("").C(c.name)
}
