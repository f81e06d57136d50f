package tensorbuf

import "errors"

// Common errors.
var (
	ErrTruncatedInput        = errors.New("truncated input: record ends before its declared size")
	ErrInvalidHeader         = errors.New("invalid record header")
	ErrShapeMismatch         = errors.New("data length does not match shape")
	ErrInvalidShape          = errors.New("invalid shape")
	ErrUnsupportedTensorRank = errors.New("unsupported tensor rank")
)
