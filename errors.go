package pccasset

import "errors"

// Failure kinds of an extraction. Only ErrDecodeUnavailable for the requested
// package leaves an operation; the others are logged and absorbed.
var (
	ErrReferenceUnresolved = errors.New("reference unresolved")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrDecodeUnavailable   = errors.New("decode unavailable")
	ErrIOFailure           = errors.New("io failure")
)
