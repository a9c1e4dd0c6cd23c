/*
Package csv provides methods to read datasets from CSV streams and to write
them back.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
)

// MissingValue is the cell content that marks a sample as not defining
// a value for a feature.
const MissingValue = "?"

/*
Writer is an interface for a dataset to which items
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given items
	// and will return the actually written number
	// of items and an error (if not all items
	// could be written)
	Write(context.Context, []dataset.Item) (int, error)
	// Count returns the total number of items written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count    int
	label    *feature.DiscreteFeature
	features []*feature.DiscreteFeature
	w        *csv.Writer
}

// column binds a CSV column to the feature its cells hold values for.
type column struct {
	index   int
	feature *feature.DiscreteFeature
}

/*
ReadDataset takes an io.Reader for a CSV stream, a label feature and a slice
of features and returns the dataset parsed from the reader or an error.

The header or first row of the CSV content is expected to contain the name of
the label feature and the names of the features in the given slice. Columns
with any other name (an id column for instance) are ignored, features without
a column are missing on every item. The rest of the rows should consist of
valid values for the features and/or the '?' string to indicate an undefined
value. Every row must hold a valid label.
*/
func ReadDataset(reader io.Reader, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (dataset.Dataset, error) {
	var ds dataset.Dataset
	err := ReadDatasetByItem(reader, label, features, func(_ int, item dataset.Item) (bool, error) {
		ds = append(ds, item)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

/*
ReadDatasetByItem takes an io.Reader for a CSV stream, a label feature, a
slice of features and a lambda function on an integer and a dataset.Item
that returns a boolean value. It parses the items from the reader and for each
it calls the lambda function with the item and its index as parameters. If the
lambda function returns true, it will continue processing the next item,
otherwise it will stop. An error is returned if something goes wrong when
reading the stream or parsing an item.

The CSV content is expected to follow the format described for ReadDataset.
*/
func ReadDatasetByItem(reader io.Reader, label *feature.DiscreteFeature, features []*feature.DiscreteFeature, lambda func(int, dataset.Item) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	labelColumn, columns, err := parseHeader(header, label, features)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		item, err := parseRow(row, label, labelColumn, columns)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, item)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string, a label feature and a slice
of features, opens the file to which the filepath points to and uses
ReadDataset to return the dataset read from it or an error. If the filepath
is "" os.Stdin is read instead.
*/
func ReadDatasetFromFilePath(filepath string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	ds, err := ReadDataset(f, label, features)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
NewWriter takes an io.Writer, a label feature and a slice of features and
returns a Writer that will write any items on the io.Writer with a column
for each feature followed by one for the label.
*/
func NewWriter(writer io.Writer, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, 0, len(features)+1)
	for _, f := range features {
		record = append(record, f.Name())
	}
	record = append(record, label.Name())
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{label: label, features: features, w: w}, nil
}

/*
WriteDataset takes a context, a writer, a dataset, a label feature and a
slice of features and dumps to the writer the dataset in CSV format,
specifying only the features in the given slice for the items. It returns
an error if something went wrong when writing to the writer.
*/
func WriteDataset(ctx context.Context, writer io.Writer, ds dataset.Dataset, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) error {
	cw, err := NewWriter(writer, label, features)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, ds)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func parseHeader(header []string, label *feature.DiscreteFeature, features []*feature.DiscreteFeature) (int, []column, error) {
	labelColumn := -1
	var columns []column
	for i, name := range header {
		if name == label.Name() {
			if labelColumn >= 0 {
				return 0, nil, fmt.Errorf("parsing header: label column %s appears more than once", name)
			}
			labelColumn = i
			continue
		}
		f := feature.Find(features, name)
		if f == nil {
			continue
		}
		for _, c := range columns {
			if c.feature == f {
				return 0, nil, fmt.Errorf("parsing header: column %s appears more than once", name)
			}
		}
		columns = append(columns, column{i, f})
	}
	if labelColumn < 0 {
		return 0, nil, fmt.Errorf("parsing header: no column for label %s", label.Name())
	}
	return labelColumn, columns, nil
}

func parseRow(row []string, label *feature.DiscreteFeature, labelColumn int, columns []column) (dataset.Item, error) {
	item := dataset.Item{Sample: make(dataset.Sample, len(columns))}
	lv, err := label.ParseValue(row[labelColumn])
	if err != nil {
		return item, fmt.Errorf("label: %v", err)
	}
	item.Label = lv
	for _, c := range columns {
		cell := row[c.index]
		if cell == MissingValue {
			continue
		}
		v, err := c.feature.ParseValue(cell)
		if err != nil {
			return item, err
		}
		item.Sample[c.feature.Name()] = v
	}
	return item, nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, items []dataset.Item) (int, error) {
	for n, item := range items {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := cw.WriteItem(item); err != nil {
			return n, err
		}
	}
	return len(items), nil
}

func (cw *csvWriter) WriteItem(item dataset.Item) error {
	record := make([]string, 0, len(cw.features)+1)
	for _, f := range cw.features {
		v, ok := item.Sample.ValueFor(f)
		if !ok {
			record = append(record, MissingValue)
			continue
		}
		record = append(record, v.String())
	}
	record = append(record, item.Label.String())
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for item %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
