package feature

import (
	"fmt"
	"strconv"
)

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite set, its value domain.

A DiscreteFeature is immutable once built: its accessors return copies, so it
can be shared by any number of growing and predicting goroutines.
*/
type DiscreteFeature struct {
	name            string
	availableValues []Value
}

/*
Sample is an interface for something that holds values for features.

Its ValueFor method returns the value corresponding to the feature passed as
parameter and true, or false if the sample has no value for it.
*/
type Sample interface {
	ValueFor(*DiscreteFeature) (Value, bool)
}

/*
NewDiscreteFeature takes a name string and a slice of available values
and returns a discrete feature with the given name and value domain.
Undefined values are ignored and duplicated values are only kept the first
time they appear, so the domain keeps the given order.
*/
func NewDiscreteFeature(name string, availableValues []Value) *DiscreteFeature {
	seen := make(map[Value]bool, len(availableValues))
	values := make([]Value, 0, len(availableValues))
	for _, v := range availableValues {
		if !v.Defined() || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return &DiscreteFeature{name, values}
}

/*
NewStringFeature takes a name string and a list of strings and returns a
discrete feature whose domain holds the string values for them.
*/
func NewStringFeature(name string, availableValues ...string) *DiscreteFeature {
	values := make([]Value, len(availableValues))
	for i, v := range availableValues {
		values[i] = String(v)
	}
	return NewDiscreteFeature(name, values)
}

/*
NewIntFeature takes a name string and a list of integer codes and returns a
discrete feature whose domain holds the int values for them.
*/
func NewIntFeature(name string, availableValues ...int64) *DiscreteFeature {
	values := make([]Value, len(availableValues))
	for i, v := range availableValues {
		values[i] = Int(v)
	}
	return NewDiscreteFeature(name, values)
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
AvailableValues returns a copy of the value domain of the feature
*/
func (df *DiscreteFeature) AvailableValues() []Value {
	values := make([]Value, len(df.availableValues))
	copy(values, df.availableValues)
	return values
}

/*
Contains returns whether the given value belongs to the feature's
value domain.
*/
func (df *DiscreteFeature) Contains(value Value) bool {
	for _, av := range df.availableValues {
		if av == value {
			return true
		}
	}
	return false
}

/*
Valid receives a value and returns an error describing why it is not valid
for the feature, or nil if it belongs to its value domain.
*/
func (df *DiscreteFeature) Valid(value Value) error {
	if !value.Defined() {
		return fmt.Errorf("discrete feature %s got an undefined value", df.name)
	}
	if !df.Contains(value) {
		return fmt.Errorf("discrete feature %s got unknown value %#v", df.name, value)
	}
	return nil
}

/*
Kind returns KindInt if any value in the feature domain is an int value,
KindString otherwise. It determines how textual input is parsed for the
feature.
*/
func (df *DiscreteFeature) Kind() Kind {
	for _, v := range df.availableValues {
		if v.Kind() == KindInt {
			return KindInt
		}
	}
	return KindString
}

/*
ParseValue takes a string as read from a CSV cell, a database column or
a prompt and returns the corresponding value for the feature, or an error
if it does not belong to the feature's value domain.
*/
func (df *DiscreteFeature) ParseValue(s string) (Value, error) {
	v := String(s)
	if df.Kind() == KindInt {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			v = Int(i)
		}
		if !df.Contains(v) && err != nil {
			return Unknown, fmt.Errorf("discrete feature %s expects integer values, got %q", df.name, s)
		}
	}
	if err := df.Valid(v); err != nil {
		return Unknown, err
	}
	return v, nil
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Find takes a slice of features and a name and returns the feature in
the slice with that name, or nil if there is none.
*/
func Find(features []*DiscreteFeature, name string) *DiscreteFeature {
	for _, f := range features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

/*
Without takes a slice of features and a name and returns a new slice
with the same features in the same order except the one with that name.
The given slice is not modified.
*/
func Without(features []*DiscreteFeature, name string) []*DiscreteFeature {
	result := make([]*DiscreteFeature, 0, len(features))
	for _, f := range features {
		if f.Name() != name {
			result = append(result, f)
		}
	}
	return result
}
