package dataset

import (
	"fmt"

	"github.com/pbanos/arbor/feature"
)

/*
Sample is a mapping from feature names to the values an item takes for them.
A feature whose name is not a key of the mapping is missing from the sample,
which is different from the sample holding the zero int or the empty string.
*/
type Sample map[string]feature.Value

/*
ValueFor returns the value of the sample for the given feature and true,
or Unknown and false if the sample does not define it.
*/
func (s Sample) ValueFor(f *feature.DiscreteFeature) (feature.Value, bool) {
	v, ok := s[f.Name()]
	if !ok || !v.Defined() {
		return feature.Unknown, false
	}
	return v, true
}

func (s Sample) String() string {
	return fmt.Sprintf("%v", map[string]feature.Value(s))
}

/*
Item is a labeled sample, an element of a training or testing Dataset.
*/
type Item struct {
	Sample Sample
	Label  feature.Value
}

/*
NewItem takes a map of feature string names to values and a label and returns
an item.
*/
func NewItem(featureValues map[string]feature.Value, label feature.Value) Item {
	return Item{Sample(featureValues), label}
}

func (i Item) String() string {
	return fmt.Sprintf("[%v => %v]", i.Sample, i.Label)
}
