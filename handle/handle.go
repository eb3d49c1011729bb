package handle

import "fmt"

// Bit positions of the handle fields.
const (
	typeByteShift = 24
	reservedShift = 16
	moduleShift   = 8
)

const (
	// InvalidHandle is the raw value returned by the native layer for a handle that could not be created.
	InvalidHandle int32 = 0

	// InvalidIndex is returned by IndexOf when a handle does not address a resource of the expected kind.
	InvalidIndex int32 = -1
)

// Handle is a generic hardware resource handle carrying a type byte and a 16-bit index.
//
//	| Bits  | Meaning     |
//	|-------|-------------|
//	| 31    | Error       |
//	| 24-30 | Handle Type |
//	| 16-23 | Reserved    |
//	| 0-15  | Index       |
//
// Handle is a comparable value type; it can be used as a map key.
type Handle struct {
	typeByte TypeByte
	reserved uint8
	index    uint16
}

// NewHandle creates a handle of type t addressing index. The error bit is cleared.
func NewHandle(t HandleType, index uint16) Handle {
	return Handle{typeByte: TypeByteOf(t), index: index}
}

// CreateHandle creates a raw handle of type t for index.
//
// It returns InvalidHandle if index is negative or wider than 16 bits, or if t is
// Undefined or not a defined handle type.
func CreateHandle(t HandleType, index int) int32 {
	if index < 0 || index > 0xFFFF {
		return InvalidHandle
	}
	if t == Undefined || !t.IsValid() {
		return InvalidHandle
	}

	return NewHandle(t, uint16(index)).Encode()
}

// DecodeHandle converts a raw handle value to a Handle.
//
// It returns ErrInvalidHandleType if the type code, with the error bit masked off,
// is not a defined HandleType. The error bit itself may have any value.
func DecodeHandle(raw int32) (Handle, error) {
	tb, err := NewTypeByte(typeByteOf(raw))
	if err != nil {
		return Handle{}, err
	}

	h := DecodeHandleUnchecked(raw)
	h.typeByte = tb

	return h, nil
}

// DecodeHandleUnchecked converts a raw handle value to a Handle without validating the type code.
//
// It must only be used for values already validated by other means. For a type code
// above MaxHandleType the returned Handle is unspecified: its Type reports a kind that
// is not part of the catalog.
func DecodeHandleUnchecked(raw int32) Handle {
	u := uint32(raw)

	return Handle{
		typeByte: TypeByte(u >> typeByteShift),
		reserved: uint8(u >> reservedShift),
		index:    uint16(u),
	}
}

// Encode returns the raw int32 representation of h. It is the exact inverse of DecodeHandle.
func (h Handle) Encode() int32 {
	u := uint32(h.typeByte)<<typeByteShift | uint32(h.reserved)<<reservedShift | uint32(h.index)

	return int32(u) //nolint:gosec // bit-level reinterpretation of the handle
}

// TypeByte returns the type byte of h.
func (h Handle) TypeByte() TypeByte { return h.typeByte }

// Type returns the handle type of h.
func (h Handle) Type() HandleType { return h.typeByte.Type() }

// Index returns the 16-bit index of h.
func (h Handle) Index() uint16 { return h.index }

// ErrorBit returns the error bit of h.
func (h Handle) ErrorBit() bool { return h.typeByte.ErrorBit() }

// WithErrorBit returns a copy of h with the error bit set to v.
// The type code, reserved bits and index are preserved.
func (h Handle) WithErrorBit(v bool) Handle {
	h.typeByte = h.typeByte.WithErrorBit(v)
	return h
}

// IsType returns if h is of type t.
func (h Handle) IsType(t HandleType) bool {
	return h.Type() == t
}

// TypedIndex returns the index of h after checking that h is of type t.
func (h Handle) TypedIndex(t HandleType) (uint16, error) {
	if !h.IsType(t) {
		return 0, fmt.Errorf("%w: want %s, got %s", ErrHandleTypeMismatch, t, h.Type())
	}

	return h.index, nil
}

// String returns string representation of h.
func (h Handle) String() string {
	return fmt.Sprintf("%s[%d]", h.typeByte, h.index)
}

// typeByteOf extracts the top byte of a raw handle.
func typeByteOf(raw int32) uint8 {
	return uint8(uint32(raw) >> typeByteShift)
}

// TypeOf returns the handle type stored in raw without decoding the payload.
func TypeOf(raw int32) (HandleType, error) {
	tb, err := NewTypeByte(typeByteOf(raw))
	if err != nil {
		return Undefined, err
	}

	return tb.Type(), nil
}

// IndexOf returns the index addressed by raw if raw decodes to a handle of type t with
// the error bit cleared, and InvalidIndex otherwise.
func IndexOf(raw int32, t HandleType) int32 {
	h, err := DecodeHandle(raw)
	if err != nil || h.ErrorBit() {
		return InvalidIndex
	}

	index, err := h.TypedIndex(t)
	if err != nil {
		return InvalidIndex
	}

	return int32(index)
}
