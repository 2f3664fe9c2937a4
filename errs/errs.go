// Package errs defines the sentinel errors returned by hexpipe packages.
//
// Errors are wrapped with context using fmt.Errorf("%w: ...") at the call
// site, so callers should match them with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidDimensions is returned when a kernel does not fit its input, when
	// the kernel dimensionality does not match the operation, or when a matrix
	// shape disagrees with its data length.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrInvalidKernelName is returned when a kernel name is not part of the bank
	// for the requested dimensionality.
	ErrInvalidKernelName = errors.New("invalid kernel name")

	// ErrOutOfRangeSample is returned when a value outside [0, 255] is handed to
	// the hex encoder or narrowed to an 8-bit sample.
	ErrOutOfRangeSample = errors.New("sample out of 8-bit range")

	// ErrInvalidShape is returned for a non-positive block width or height.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrInvalidKernelCount is returned when the expected kernel count is not
	// positive or exceeds the number of supplied kernel names.
	ErrInvalidKernelCount = errors.New("invalid kernel count")

	// ErrInvalidPoolConfig is returned for a non-positive pool size or stride.
	ErrInvalidPoolConfig = errors.New("invalid pooling configuration")

	// ErrInvalidDivisor is returned when normalizing by a non-positive divisor.
	ErrInvalidDivisor = errors.New("invalid divisor")

	// ErrMalformedMatrix is returned by the plain matrix text reader for ragged
	// rows or tokens that are not numbers.
	ErrMalformedMatrix = errors.New("malformed matrix")

	// ErrUnknownCompression is returned for an unrecognized compression name.
	ErrUnknownCompression = errors.New("unknown compression")
)
