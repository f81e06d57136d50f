package arch

import "errors"

// Common errors.
var (
	ErrMissingParamOrder = errors.New("descriptor has no param_order")
	ErrInvalidShape      = errors.New("invalid shape")
	ErrEmptyLayerName    = errors.New("layer has no name")
	ErrDuplicateLayer    = errors.New("duplicate layer name")
	ErrUnknownParam      = errors.New("layer references a parameter missing from param_order")
	ErrDuplicateParam    = errors.New("parameter listed more than once")
	ErrParamCount        = errors.New("wrong number of parameters for layer type")
	ErrUnsupportedFormat = errors.New("unsupported descriptor file extension")
)
