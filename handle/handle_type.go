package handle

import "fmt"

// HandleType represents the kind of hardware resource a handle addresses.
type HandleType uint8

// Handle types, numbered by their stable wire codes.
const (
	Undefined     HandleType = 0
	DigitalIO     HandleType = 1
	Port          HandleType = 2
	Notifier      HandleType = 3
	Interrupt     HandleType = 4
	AnalogOutput  HandleType = 5
	AnalogInput   HandleType = 6
	AnalogTrigger HandleType = 7
	Relay         HandleType = 8
	PWM           HandleType = 9
	DigitalPWM    HandleType = 10
	Counter       HandleType = 11
	FPGAEncoder   HandleType = 12
	Encoder       HandleType = 13
	Compressor    HandleType = 14
	Solenoid      HandleType = 15
	AnalogGyro    HandleType = 16
	Vendor        HandleType = 17
)

// MaxHandleType is the highest defined HandleType code.
const MaxHandleType = Vendor

// HandleTypeFromCode converts a type code to a HandleType.
//
// It returns false if code does not name a defined HandleType.
func HandleTypeFromCode(code uint8) (HandleType, bool) {
	switch HandleType(code) {
	case Undefined, DigitalIO, Port, Notifier, Interrupt, AnalogOutput, AnalogInput,
		AnalogTrigger, Relay, PWM, DigitalPWM, Counter, FPGAEncoder, Encoder,
		Compressor, Solenoid, AnalogGyro, Vendor:
		return HandleType(code), true
	default:
		return Undefined, false
	}
}

// ParseHandleType returns the HandleType with the given name, as returned by String.
// The match is case-sensitive.
func ParseHandleType(name string) (HandleType, error) {
	for _, t := range HandleTypes() {
		if t.String() == name {
			return t, nil
		}
	}

	return Undefined, fmt.Errorf("%w: unknown name %q", ErrInvalidHandleType, name)
}

// HandleTypes returns all defined handle types ordered by code.
func HandleTypes() []HandleType {
	types := make([]HandleType, 0, int(MaxHandleType)+1)
	for code := uint8(0); code <= uint8(MaxHandleType); code++ {
		t, _ := HandleTypeFromCode(code)
		types = append(types, t)
	}

	return types
}

// IsValid returns if t is a defined handle type.
func (t HandleType) IsValid() bool {
	return t <= MaxHandleType
}

// String returns string representation of the handle type.
func (t HandleType) String() string {
	switch t {
	case Undefined:
		return "Undefined"
	case DigitalIO:
		return "DigitalIO"
	case Port:
		return "Port"
	case Notifier:
		return "Notifier"
	case Interrupt:
		return "Interrupt"
	case AnalogOutput:
		return "AnalogOutput"
	case AnalogInput:
		return "AnalogInput"
	case AnalogTrigger:
		return "AnalogTrigger"
	case Relay:
		return "Relay"
	case PWM:
		return "PWM"
	case DigitalPWM:
		return "DigitalPWM"
	case Counter:
		return "Counter"
	case FPGAEncoder:
		return "FPGAEncoder"
	case Encoder:
		return "Encoder"
	case Compressor:
		return "Compressor"
	case Solenoid:
		return "Solenoid"
	case AnalogGyro:
		return "AnalogGyro"
	case Vendor:
		return "Vendor"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

const (
	errorBitMask = 0x80
	typeCodeMask = 0x7F
)

// TypeByte is the top byte of every handle: the error flag in bit 7 and the
// HandleType code in bits 0-6.
type TypeByte uint8

// NewTypeByte validates b and returns it as a TypeByte.
//
// The error bit may have any value; the remaining 7 bits must be a defined HandleType code.
func NewTypeByte(b uint8) (TypeByte, error) {
	if b&typeCodeMask > uint8(MaxHandleType) {
		return 0, fmt.Errorf("%w: code %d", ErrInvalidHandleType, b&typeCodeMask)
	}

	return TypeByte(b), nil
}

// TypeByteOf returns the TypeByte for t with the error bit cleared.
func TypeByteOf(t HandleType) TypeByte {
	return TypeByte(uint8(t) & typeCodeMask)
}

// ErrorBit returns the error bit (bit 7).
func (tb TypeByte) ErrorBit() bool {
	return tb&errorBitMask != 0
}

// WithErrorBit returns a copy of tb with the error bit set to v. The type code is preserved.
func (tb TypeByte) WithErrorBit(v bool) TypeByte {
	if v {
		return tb | errorBitMask
	}

	return tb &^ errorBitMask
}

// SetErrorBit sets or clears the error bit.
func (tb *TypeByte) SetErrorBit(v bool) {
	*tb = tb.WithErrorBit(v)
}

// Code returns the 7-bit type code.
func (tb TypeByte) Code() uint8 {
	return uint8(tb) & typeCodeMask
}

// Type returns the handle type stored in tb.
//
// The result is only meaningful for a TypeByte that was validated, which holds for every
// TypeByte produced by NewTypeByte, TypeByteOf and the checked decoders.
func (tb TypeByte) Type() HandleType {
	return HandleType(tb.Code())
}

// String returns string representation of the type byte.
func (tb TypeByte) String() string {
	if tb.ErrorBit() {
		return tb.Type().String() + "!"
	}

	return tb.Type().String()
}
