package arbor

// GrowError represents an error that prevents a tree from being grown.
type GrowError string

const (
	// ErrUnsupportedAlgorithm is returned when growing a tree with an
	// algorithm other than ID3, C45 or CART.
	ErrUnsupportedAlgorithm = GrowError("unsupported algorithm")
	// ErrEmptyDataset is returned when growing a tree from a dataset
	// without items.
	ErrEmptyDataset = GrowError("cannot grow a tree from an empty dataset")
	// ErrValueOutOfDomain is returned when the training dataset holds
	// a value not declared in the domain of its feature.
	ErrValueOutOfDomain = GrowError("value out of feature domain")
)

func (ge GrowError) Error() string {
	return string(ge)
}
