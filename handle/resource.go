package handle

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// ResourceTable holds the allocated resources of a single HandleType.
//
// Each resource is addressed by an index in [0, size). Lookups through a Handle check the
// error bit, the handle type and the index range before touching the table, which makes the
// table the second step of the decode-then-check-kind contract.
//
// ResourceTable is safe for concurrent use.
type ResourceTable[T any] struct {
	kind    HandleType
	size    uint16
	entries *xsync.MapOf[uint16, T]
}

// NewResourceTable creates a table for resources of type kind with indices in [0, size).
func NewResourceTable[T any](kind HandleType, size uint16) *ResourceTable[T] {
	return &ResourceTable[T]{
		kind:    kind,
		size:    size,
		entries: xsync.NewMapOf[uint16, T](),
	}
}

// Kind returns the handle type of the resources in the table.
func (rt *ResourceTable[T]) Kind() HandleType { return rt.kind }

// Size returns the number of addressable indices.
func (rt *ResourceTable[T]) Size() uint16 { return rt.size }

// Len returns the number of allocated resources.
func (rt *ResourceTable[T]) Len() int { return rt.entries.Size() }

// Allocate stores value at index and returns the handle addressing it.
//
// It returns ErrIndexOutOfRange if index >= Size, and ErrResourceInUse if index is taken.
func (rt *ResourceTable[T]) Allocate(index uint16, value T) (Handle, error) {
	if index >= rt.size {
		return Handle{}, fmt.Errorf("%w: %s index %d, size %d", ErrIndexOutOfRange, rt.kind, index, rt.size)
	}

	if _, loaded := rt.entries.LoadOrStore(index, value); loaded {
		return Handle{}, fmt.Errorf("%w: %s index %d", ErrResourceInUse, rt.kind, index)
	}

	return NewHandle(rt.kind, index), nil
}

// Get returns the resource addressed by h.
func (rt *ResourceTable[T]) Get(h Handle) (T, error) {
	var zero T

	index, err := rt.check(h)
	if err != nil {
		return zero, err
	}

	value, ok := rt.entries.Load(index)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrResourceNotFound, h)
	}

	return value, nil
}

// GetRaw decodes raw and returns the resource it addresses.
func (rt *ResourceTable[T]) GetRaw(raw int32) (T, error) {
	h, err := DecodeHandle(raw)
	if err != nil {
		var zero T
		return zero, err
	}

	return rt.Get(h)
}

// Free releases the resource addressed by h and returns it.
func (rt *ResourceTable[T]) Free(h Handle) (T, error) {
	var zero T

	index, err := rt.check(h)
	if err != nil {
		return zero, err
	}

	value, ok := rt.entries.LoadAndDelete(index)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrResourceNotFound, h)
	}

	return value, nil
}

// Range calls fn for each allocated resource until fn returns false.
// The iteration order is unspecified.
func (rt *ResourceTable[T]) Range(fn func(h Handle, value T) bool) {
	rt.entries.Range(func(index uint16, value T) bool {
		return fn(NewHandle(rt.kind, index), value)
	})
}

// Reset releases every resource.
func (rt *ResourceTable[T]) Reset() {
	rt.entries.Clear()
}

func (rt *ResourceTable[T]) check(h Handle) (uint16, error) {
	if h.ErrorBit() {
		return 0, fmt.Errorf("%w: %s", ErrHandleError, h)
	}

	index, err := h.TypedIndex(rt.kind)
	if err != nil {
		return 0, err
	}

	if index >= rt.size {
		return 0, fmt.Errorf("%w: %s index %d, size %d", ErrIndexOutOfRange, rt.kind, index, rt.size)
	}

	return index, nil
}
