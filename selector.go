package arbor

import (
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
)

// scoreTolerance is the margin under which two split scores are
// considered equal, so that ties fall back to the order of the features.
const scoreTolerance = 1e-12

// Algorithm identifies the criterion used to choose the feature a node
// splits on.
type Algorithm int

const (
	// ID3 chooses the feature with the highest information gain.
	ID3 Algorithm = iota + 1
	// C45 chooses, among the features with at least the mean information
	// gain, the one with the highest gain ratio.
	C45
	// CART chooses the feature with the lowest Gini index.
	CART
)

/*
SplitSelector is an interface wrapping the Select method, that is used
to decide which feature a node of a tree must be split on.

The Select method takes a non-empty dataset and a non-empty slice of
features and returns the split for the chosen feature. Ties must be broken
in favour of the feature that comes first in the slice.
*/
type SplitSelector interface {
	Select(s dataset.Dataset, features []*feature.DiscreteFeature) *Split
}

/*
SelectorFunc wraps a function with the Select method signature to implement
the SplitSelector interface
*/
type SelectorFunc func(s dataset.Dataset, features []*feature.DiscreteFeature) *Split

// Select invokes the SelectorFunc with the given parameters.
func (sf SelectorFunc) Select(s dataset.Dataset, features []*feature.DiscreteFeature) *Split {
	return sf(s, features)
}

/*
ParseAlgorithm takes the name of an algorithm (id3, c45, c4.5 or cart, in
any case) and returns the corresponding Algorithm or an error wrapping
ErrUnsupportedAlgorithm.
*/
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ID3":
		return ID3, nil
	case "C45", "C4.5":
		return C45, nil
	case "CART":
		return CART, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

func (a Algorithm) String() string {
	switch a {
	case ID3:
		return "ID3"
	case C45:
		return "C45"
	case CART:
		return "CART"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

/*
Selector returns the SplitSelector implementing the algorithm, or an error
wrapping ErrUnsupportedAlgorithm.
*/
func (a Algorithm) Selector() (SplitSelector, error) {
	switch a {
	case ID3:
		return ID3Selector(), nil
	case C45:
		return C45Selector(), nil
	case CART:
		return CARTSelector(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, a)
}

/*
ID3Selector returns a SplitSelector that chooses the feature with the highest
information gain, the first one in the slice on ties.
*/
func ID3Selector() SplitSelector {
	return SelectorFunc(func(s dataset.Dataset, features []*feature.DiscreteFeature) *Split {
		return maxGainSplit(informationGains(s, features))
	})
}

/*
C45Selector returns a SplitSelector that computes the information gain of
every feature and their mean, and then chooses among those with a gain not
below the mean and a defined gain ratio the one with the highest gain ratio,
the first one in the slice on ties.

Features whose split has an intrinsic value of 0 (all items fall in the same
group) have no gain ratio and are left out. If that leaves no candidate, the
feature with the highest information gain is chosen as ID3 would.
*/
func C45Selector() SplitSelector {
	return SelectorFunc(func(s dataset.Dataset, features []*feature.DiscreteFeature) *Split {
		splits := informationGains(s, features)
		if len(splits) == 0 {
			return nil
		}
		var mean float64
		for _, sp := range splits {
			mean += sp.InformationGain
		}
		mean /= float64(len(splits))
		var result *Split
		for _, sp := range splits {
			if sp.InformationGain < mean-scoreTolerance || !sp.HasGainRatio() {
				continue
			}
			if result == nil || sp.GainRatio > result.GainRatio+scoreTolerance {
				result = sp
			}
		}
		if result == nil {
			return maxGainSplit(splits)
		}
		return result
	})
}

/*
CARTSelector returns a SplitSelector that chooses the feature with the lowest
Gini index, the first one in the slice on ties.
*/
func CARTSelector() SplitSelector {
	return SelectorFunc(func(s dataset.Dataset, features []*feature.DiscreteFeature) *Split {
		var result *Split
		for _, f := range features {
			sp := GiniIndex(s, f)
			if result == nil || sp.GiniIndex < result.GiniIndex-scoreTolerance {
				result = sp
			}
		}
		return result
	})
}

func informationGains(s dataset.Dataset, features []*feature.DiscreteFeature) []*Split {
	sEntropy := s.Entropy()
	splits := make([]*Split, len(features))
	for i, f := range features {
		splits[i] = InformationGain(s, f, sEntropy)
	}
	return splits
}

func maxGainSplit(splits []*Split) *Split {
	var result *Split
	for _, sp := range splits {
		if result == nil || sp.InformationGain > result.InformationGain+scoreTolerance {
			result = sp
		}
	}
	return result
}
