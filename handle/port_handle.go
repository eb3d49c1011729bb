package handle

import "fmt"

// PortHandle addresses a module/channel pair.
//
//	| Bits  | Meaning        |
//	|-------|----------------|
//	| 31    | Error          |
//	| 24-30 | Handle Type    |
//	| 16-23 | SPI Enable     |
//	| 8-15  | Module Number  |
//	| 0-7   | Channel Number |
//
// A PortHandle built by NewPortHandle is always of type Port. A decoded PortHandle
// carries whatever type the raw value had; see CheckPort.
type PortHandle struct {
	typeByte TypeByte
	spi      uint8
	module   uint8
	channel  uint8
}

// NewPortHandle creates a Port handle for the given module and channel.
func NewPortHandle(module uint8, channel uint8) PortHandle {
	return PortHandle{typeByte: TypeByteOf(Port), module: module, channel: channel}
}

// NewSPIPortHandle creates a Port handle for an SPI channel. The module number is zero and
// spiEnable occupies bits 16-23.
func NewSPIPortHandle(spiEnable uint8, channel uint8) PortHandle {
	return PortHandle{typeByte: TypeByteOf(Port), spi: spiEnable, channel: channel}
}

// DecodePortHandle converts a raw handle value to a PortHandle.
//
// Like DecodeHandle it only validates the type code range. It does not check that the
// decoded kind is Port; call CheckPort before trusting Module and Channel.
func DecodePortHandle(raw int32) (PortHandle, error) {
	tb, err := NewTypeByte(typeByteOf(raw))
	if err != nil {
		return PortHandle{}, err
	}

	ph := DecodePortHandleUnchecked(raw)
	ph.typeByte = tb

	return ph, nil
}

// DecodePortHandleUnchecked converts a raw handle value to a PortHandle without any validation.
//
// For a type code above MaxHandleType the returned PortHandle is unspecified.
func DecodePortHandleUnchecked(raw int32) PortHandle {
	u := uint32(raw)

	return PortHandle{
		typeByte: TypeByte(u >> typeByteShift),
		spi:      uint8(u >> reservedShift),
		module:   uint8(u >> moduleShift),
		channel:  uint8(u),
	}
}

// Encode returns the raw int32 representation of ph. It is the exact inverse of DecodePortHandle.
func (ph PortHandle) Encode() int32 {
	u := uint32(ph.typeByte)<<typeByteShift |
		uint32(ph.spi)<<reservedShift |
		uint32(ph.module)<<moduleShift |
		uint32(ph.channel)

	return int32(u) //nolint:gosec // bit-level reinterpretation of the handle
}

// TypeByte returns the type byte of ph.
func (ph PortHandle) TypeByte() TypeByte { return ph.typeByte }

// Type returns the handle type of ph.
func (ph PortHandle) Type() HandleType { return ph.typeByte.Type() }

// Module returns the module number.
func (ph PortHandle) Module() uint8 { return ph.module }

// Channel returns the channel number.
func (ph PortHandle) Channel() uint8 { return ph.channel }

// SPIEnable returns the SPI module-enable byte, 0 for a handle built by NewPortHandle.
func (ph PortHandle) SPIEnable() uint8 { return ph.spi }

// ErrorBit returns the error bit of ph.
func (ph PortHandle) ErrorBit() bool { return ph.typeByte.ErrorBit() }

// WithErrorBit returns a copy of ph with the error bit set to v.
func (ph PortHandle) WithErrorBit(v bool) PortHandle {
	ph.typeByte = ph.typeByte.WithErrorBit(v)
	return ph
}

// IsPort returns if ph is of type Port.
func (ph PortHandle) IsPort() bool {
	return ph.Type() == Port
}

// CheckPort returns ErrHandleTypeMismatch if ph is not of type Port.
func (ph PortHandle) CheckPort() error {
	if !ph.IsPort() {
		return fmt.Errorf("%w: want %s, got %s", ErrHandleTypeMismatch, Port, ph.Type())
	}

	return nil
}

// String returns string representation of ph.
func (ph PortHandle) String() string {
	return fmt.Sprintf("%s[%d:%d]", ph.typeByte, ph.module, ph.channel)
}
