package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	mgo "gopkg.in/mgo.v2"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/dataset/csv"
	"github.com/pbanos/arbor/dataset/mongodataset"
	"github.com/pbanos/arbor/dataset/sqldataset"
	"github.com/pbanos/arbor/dataset/sqldataset/pgadapter"
	"github.com/pbanos/arbor/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/arbor/feature"
	fjson "github.com/pbanos/arbor/feature/json"
	"github.com/pbanos/arbor/feature/yaml"
	"github.com/pbanos/arbor/tree"
	tjson "github.com/pbanos/arbor/tree/json"
	"github.com/pbanos/arbor/tree/redisstore"
)

const redisTreePrefix = "redis:"

// datasetWriter is a destination for datasets on any of the
// supported backends.
type datasetWriter interface {
	Write(context.Context, dataset.Dataset) (int, error)
	Close() error
}

type csvDatasetWriter struct {
	w csv.Writer
	f *os.File
}

type sqlDatasetWriter struct {
	a        sqldataset.Adapter
	table    string
	label    *feature.DiscreteFeature
	features []*feature.DiscreteFeature
}

type mongoDatasetWriter struct {
	session *mgo.Session
	c       *mongodataset.Collection
}

func isPostgreSQLURL(s string) bool {
	return strings.HasPrefix(s, "postgresql://") || strings.HasPrefix(s, "postgres://")
}

func isMongoDBURL(s string) bool {
	return strings.HasPrefix(s, "mongodb://")
}

/*
readFeatures reads the features described on the metadata file, as YAML
or as JSON if its name ends in .json.
*/
func readFeatures(metadataInput string) ([]*feature.DiscreteFeature, error) {
	if strings.HasSuffix(metadataInput, ".json") {
		return fjson.ReadFeaturesFromFile(metadataInput)
	}
	return yaml.ReadFeaturesFromFile(metadataInput)
}

/*
classAndFeatures takes the features read from metadata and the name of the
class feature and returns the class feature and the rest of the features.
*/
func classAndFeatures(features []*feature.DiscreteFeature, class string) (*feature.DiscreteFeature, []*feature.DiscreteFeature, error) {
	label := feature.Find(features, class)
	if label == nil {
		return nil, nil, fmt.Errorf("class feature '%s' is not defined", class)
	}
	return label, feature.Without(features, class), nil
}

/*
readDataset reads the dataset at input, which may be a CSV file (or STDIN if
empty), an SQLite3 file ending in .db, a PostgreSQL URL or a MongoDB URL.
*/
func (rcc *rootCmdConfig) readDataset(input string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (dataset.Dataset, error) {
	ctx := rcc.Context()
	switch {
	case isPostgreSQLURL(input):
		rcc.Logf("Creating PostgreSQL adapter to read dataset...")
		a, err := pgadapter.New(input)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.Read(ctx, a, rcc.settings.SQL.Table, label, features)
	case isMongoDBURL(input):
		rcc.Logf("Connecting to MongoDB to read dataset...")
		session, err := mgo.Dial(input)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongodb: %v", err)
		}
		defer session.Close()
		c, err := mongodataset.Open(ctx, session, rcc.settings.Mongo.Collection, label, features)
		if err != nil {
			return nil, err
		}
		return c.Read(ctx)
	case strings.HasSuffix(input, ".db"):
		rcc.Logf("Creating SQLite3 adapter for file %s to read dataset...", input)
		a, err := sqlite3adapter.New(input)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.Read(ctx, a, rcc.settings.SQL.Table, label, features)
	}
	if input == "" {
		rcc.Logf("Reading dataset from STDIN...")
	} else {
		rcc.Logf("Opening %s to read dataset...", input)
	}
	return csv.ReadDatasetFromFilePath(input, label, features)
}

/*
openDatasetWriter returns a datasetWriter for output, with the same kinds of
destination readDataset supports. An empty output is STDOUT in CSV.
*/
func (rcc *rootCmdConfig) openDatasetWriter(output string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (datasetWriter, error) {
	ctx := rcc.Context()
	switch {
	case isPostgreSQLURL(output):
		rcc.Logf("Creating PostgreSQL adapter to dump dataset...")
		a, err := pgadapter.New(output)
		if err != nil {
			return nil, err
		}
		return newSQLDatasetWriter(ctx, a, rcc.settings.SQL.Table, label, features)
	case isMongoDBURL(output):
		rcc.Logf("Connecting to MongoDB to dump dataset...")
		session, err := mgo.Dial(output)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongodb: %v", err)
		}
		c, err := mongodataset.Open(ctx, session, rcc.settings.Mongo.Collection, label, features)
		if err != nil {
			session.Close()
			return nil, err
		}
		return &mongoDatasetWriter{session, c}, nil
	case strings.HasSuffix(output, ".db"):
		rcc.Logf("Creating SQLite3 adapter for file %s to dump dataset...", output)
		a, err := sqlite3adapter.New(output)
		if err != nil {
			return nil, err
		}
		return newSQLDatasetWriter(ctx, a, rcc.settings.SQL.Table, label, features)
	}
	f := os.Stdout
	if output != "" {
		rcc.Logf("Creating %s to dump dataset...", output)
		var err error
		f, err = os.Create(output)
		if err != nil {
			return nil, err
		}
	}
	w, err := csv.NewWriter(f, label, features)
	if err != nil {
		return nil, err
	}
	return &csvDatasetWriter{w, f}, nil
}

func newSQLDatasetWriter(ctx context.Context, a sqldataset.Adapter, table string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (datasetWriter, error) {
	err := sqldataset.CreateTable(ctx, a, table, label, features)
	if err != nil {
		a.Close()
		return nil, err
	}
	return &sqlDatasetWriter{a, table, label, features}, nil
}

func (cdw *csvDatasetWriter) Write(ctx context.Context, ds dataset.Dataset) (int, error) {
	return cdw.w.Write(ctx, ds)
}

func (cdw *csvDatasetWriter) Close() error {
	err := cdw.w.Flush()
	if cdw.f != os.Stdout {
		if cerr := cdw.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (sdw *sqlDatasetWriter) Write(ctx context.Context, ds dataset.Dataset) (int, error) {
	return sqldataset.Write(ctx, sdw.a, sdw.table, sdw.label, sdw.features, ds)
}

func (sdw *sqlDatasetWriter) Close() error {
	return sdw.a.Close()
}

func (mdw *mongoDatasetWriter) Write(ctx context.Context, ds dataset.Dataset) (int, error) {
	return mdw.c.Write(ctx, ds)
}

func (mdw *mongoDatasetWriter) Close() error {
	mdw.session.Close()
	return nil
}

/*
treeStore returns the redis backed tree store configured in the settings,
wrapped with an in-memory LRU cache.
*/
func (rcc *rootCmdConfig) treeStore() (tree.Store, error) {
	rs := rcc.settings.Redis
	rcc.Logf("Connecting to redis at %s...", rs.Addr)
	s, err := redisstore.Open(rs.Addr, rs.DB, rs.Prefix)
	if err != nil {
		return nil, err
	}
	return tree.NewCachedStore(s, 16)
}

/*
loadTree reads the tree referenced by ref: a path to a JSON file, or
redis:NAME for a tree saved on the redis store.
*/
func (rcc *rootCmdConfig) loadTree(ref string) (*tree.Tree, error) {
	ctx := rcc.Context()
	if strings.HasPrefix(ref, redisTreePrefix) {
		name := strings.TrimPrefix(ref, redisTreePrefix)
		store, err := rcc.treeStore()
		if err != nil {
			return nil, err
		}
		defer store.Close(ctx)
		t, err := store.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("no tree named %q on redis", name)
		}
		return t, nil
	}
	rcc.Logf("Reading tree from %s...", ref)
	return tjson.ReadJSONTreeFromFile(ctx, ref)
}

// outputTree writes the tree as JSON on outputPath, or STDOUT if empty.
func (rcc *rootCmdConfig) outputTree(outputPath string, t *tree.Tree) error {
	if outputPath == "" {
		err := tjson.WriteJSONTree(rcc.Context(), t, os.Stdout)
		fmt.Println()
		return err
	}
	rcc.Logf("Writing tree to %s...", outputPath)
	return tjson.WriteJSONTreeToFile(rcc.Context(), t, outputPath)
}

// storeTree saves the tree with the given name on the redis store.
func (rcc *rootCmdConfig) storeTree(name string, t *tree.Tree) error {
	ctx := rcc.Context()
	store, err := rcc.treeStore()
	if err != nil {
		return err
	}
	defer store.Close(ctx)
	rcc.Logf("Saving tree as %q...", name)
	return store.Save(ctx, name, t)
}
