/*
Package sqldataset provides methods to read datasets from and write
them to SQL databases.

A dataset is stored on a single table with an id column that keeps
the order of the items, a text column for each feature and one for
the label. NULL values on feature columns mark missing values.
*/
package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
)

// DefaultTable is the name of the table used when none is given.
const DefaultTable = "samples"

/*
Adapter is an interface providing the database specific
pieces needed to store a dataset on an SQL database.
*/
type Adapter interface {
	// DB returns the connection to the database.
	DB() *sql.DB
	// ColumnName takes a feature name and returns the quoted
	// identifier for its column, or an error if the name
	// cannot be used as a column.
	ColumnName(string) (string, error)
	// Placeholder returns the bind parameter for the nth
	// (starting at 1) argument of a statement.
	Placeholder(n int) string
	// IDColumn returns the definition of the auto-incremented
	// primary key column for the items table.
	IDColumn() string
	// Close releases the connection to the database.
	Close() error
}

type table struct {
	a        Adapter
	name     string
	label    *feature.DiscreteFeature
	features []*feature.DiscreteFeature
	columns  []string
}

func newTable(a Adapter, name string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (*table, error) {
	if name == "" {
		name = DefaultTable
	}
	quoted, err := a.ColumnName(name)
	if err != nil {
		return nil, fmt.Errorf("invalid table name: %v", err)
	}
	t := &table{a: a, name: quoted, label: label, features: features}
	all := make([]*feature.DiscreteFeature, 0, len(features)+1)
	all = append(all, features...)
	seen := make(map[string]bool)
	for _, f := range append(all, label) {
		if seen[f.Name()] {
			return nil, fmt.Errorf("feature %s appears more than once", f.Name())
		}
		seen[f.Name()] = true
		c, err := a.ColumnName(f.Name())
		if err != nil {
			return nil, err
		}
		t.columns = append(t.columns, c)
	}
	return t, nil
}

/*
CreateTable takes a context, an Adapter, a table name, a label feature and
a slice of features and ensures the table for a dataset with them exists on
the database.
*/
func CreateTable(ctx context.Context, a Adapter, name string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) error {
	t, err := newTable(a, name, label, features)
	if err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s(%s", t.name, a.IDColumn())
	for i, c := range t.columns {
		if i == len(t.columns)-1 {
			fmt.Fprintf(&b, ", %s TEXT NOT NULL", c)
		} else {
			fmt.Fprintf(&b, ", %s TEXT NULL", c)
		}
	}
	b.WriteString(")")
	_, err = a.DB().ExecContext(ctx, b.String())
	if err != nil {
		return fmt.Errorf("ensuring table %s exists: %v", t.name, err)
	}
	return nil
}

/*
Write takes a context, an Adapter, a table name, a label feature, a slice of
features and a dataset and inserts the items of the dataset on the table in
a single transaction. Only the values for the given features are stored. It
returns the number of items written and an error if they could not all be
written, in which case nothing is.
*/
func Write(ctx context.Context, a Adapter, name string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature, ds dataset.Dataset) (int, error) {
	t, err := newTable(a, name, label, features)
	if err != nil {
		return 0, err
	}
	placeholders := make([]string, len(t.columns))
	for i := range placeholders {
		placeholders[i] = a.Placeholder(i + 1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "))
	tx, err := a.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %v", err)
	}
	insertStmt, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("preparing insert statement: %v", err)
	}
	defer insertStmt.Close()
	for i, item := range ds {
		args := make([]interface{}, 0, len(t.columns))
		for _, f := range features {
			if v, ok := item.Sample.ValueFor(f); ok {
				args = append(args, v.String())
			} else {
				args = append(args, nil)
			}
		}
		args = append(args, item.Label.String())
		if _, err = insertStmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting item %d: %v", i+1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing items: %v", err)
	}
	return len(ds), nil
}

/*
Read takes a context, an Adapter, a table name, a label feature and a slice
of features and returns the dataset stored on the table in insertion order,
or an error. NULL values are read as missing, any other value is parsed for
its feature and must belong to its domain.
*/
func Read(ctx context.Context, a Adapter, name string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (dataset.Dataset, error) {
	var ds dataset.Dataset
	err := ReadByItem(ctx, a, name, label, features, func(_ int, item dataset.Item) (bool, error) {
		ds = append(ds, item)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

/*
ReadByItem works like Read but instead of building a dataset it calls the
given lambda function with the index and each item read. If the lambda
function returns false or an error, the reading stops.
*/
func ReadByItem(ctx context.Context, a Adapter, name string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature, lambda func(int, dataset.Item) (bool, error)) error {
	t, err := newTable(a, name, label, features)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(t.columns, ", "), t.name)
	rows, err := a.DB().QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying table %s: %v", t.name, err)
	}
	defer rows.Close()
	values := make([]sql.NullString, len(t.columns))
	dest := make([]interface{}, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	for i := 0; rows.Next(); i++ {
		if err = rows.Scan(dest...); err != nil {
			return fmt.Errorf("scanning row %d: %v", i+1, err)
		}
		item, err := t.item(values)
		if err != nil {
			return fmt.Errorf("parsing row %d: %v", i+1, err)
		}
		ok, err := lambda(i, item)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return rows.Err()
}

func (t *table) item(values []sql.NullString) (dataset.Item, error) {
	item := dataset.Item{Sample: make(dataset.Sample, len(t.features))}
	for i, f := range t.features {
		if !values[i].Valid {
			continue
		}
		v, err := f.ParseValue(values[i].String)
		if err != nil {
			return item, err
		}
		item.Sample[f.Name()] = v
	}
	lv := values[len(values)-1]
	if !lv.Valid {
		return item, fmt.Errorf("label %s is null", t.label.Name())
	}
	label, err := t.label.ParseValue(lv.String)
	if err != nil {
		return item, fmt.Errorf("label: %v", err)
	}
	item.Label = label
	return item, nil
}
