package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pbanos/arbor/feature"
)

/*
featureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type featureValueRequester interface {
	RequestValueFor(*feature.DiscreteFeature) error
	RejectValueFor(*feature.DiscreteFeature, string) error
}

/*
readSample is a feature.Sample whose values are read from a reader
the first time they are needed, after requesting them with a
featureValueRequester. Values are read one per line, with the
undefinedValue line standing for a missing value.
*/
type readSample struct {
	obtainedValues        map[string]feature.Value
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester featureValueRequester
	err                   error
}

func newReadSample(r io.Reader, fvr featureValueRequester, undefinedValue string) *readSample {
	return &readSample{make(map[string]feature.Value), undefinedValue, bufio.NewScanner(r), fvr, nil}
}

/*
ValueFor reads lines until one holds a valid value for the feature or the
undefined value. Invalid lines are rejected through the featureValueRequester.
If the reader is exhausted or fails the value is missing and Err returns why.
*/
func (rs *readSample) ValueFor(f *feature.DiscreteFeature) (feature.Value, bool) {
	if v, ok := rs.obtainedValues[f.Name()]; ok {
		return v, v.Defined()
	}
	if rs.err != nil {
		return feature.Unknown, false
	}
	v, err := rs.read(f)
	if err != nil {
		rs.err = err
		return feature.Unknown, false
	}
	rs.obtainedValues[f.Name()] = v
	return v, v.Defined()
}

// Err returns the error that stopped the sample from reading values.
func (rs *readSample) Err() error {
	return rs.err
}

func (rs *readSample) read(f *feature.DiscreteFeature) (feature.Value, error) {
	err := rs.featureValueRequester.RequestValueFor(f)
	if err != nil {
		return feature.Unknown, err
	}
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == rs.undefinedValue {
			return feature.Unknown, nil
		}
		v, perr := f.ParseValue(line)
		if perr == nil {
			return v, nil
		}
		if err = rs.featureValueRequester.RejectValueFor(f, line); err != nil {
			return feature.Unknown, err
		}
	}
	if err = rs.scanner.Err(); err != nil {
		return feature.Unknown, err
	}
	return feature.Unknown, fmt.Errorf("EOF when requesting value for %s", f.Name())
}
