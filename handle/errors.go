package handle

import "errors"

var (
	// ErrInvalidHandleType indicates that a type code does not name a defined HandleType.
	// Valid type codes are in the range of 0 to 17.
	ErrInvalidHandleType = errors.New("handle: invalid handle type, should be in range of [0, 17]")

	// ErrHandleTypeMismatch indicates that a handle is valid but of a different kind than expected.
	ErrHandleTypeMismatch = errors.New("handle: handle type mismatch")

	// ErrHandleError indicates that the error bit of a handle is set.
	ErrHandleError = errors.New("handle: error bit is set")
)

var (
	// ErrIndexOutOfRange indicates that a resource index exceeds the size of its table.
	ErrIndexOutOfRange = errors.New("handle: resource index out of range")

	// ErrResourceInUse indicates that a resource index is already allocated.
	ErrResourceInUse = errors.New("handle: resource already allocated")

	// ErrResourceNotFound indicates that no resource is allocated for a handle.
	ErrResourceNotFound = errors.New("handle: resource not allocated")
)
