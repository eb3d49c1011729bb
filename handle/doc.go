// Package handle implements the 32-bit handle protocol used to address FPGA hardware resources.
//
// A handle is a single int32 that carries its own resource kind and validity, so a
// wrongly typed or out-of-range handle can be rejected at the API boundary instead of
// silently addressing the wrong hardware.
//
// Handle Layout:
//
//	| Bits  | Meaning     | Type   |
//	|-------|-------------|--------|
//	| 31    | Error       | bool   |
//	| 24-30 | Handle Type | uint8  |
//	| 16-23 | Reserved    | uint8  |
//	| 0-15  | Payload     | uint16 |
//
// The top byte is the TypeByte and is shared by every handle kind. The payload is
// interpreted by context:
//   - Handle: a flat 16-bit resource index.
//   - PortHandle: module number in bits 8-15 and channel number in bits 0-7.
//
// Decoding:
//
// DecodeHandle and DecodePortHandle only validate that the type code (with the error
// bit masked off) names a defined HandleType. DecodePortHandle does not check that the
// kind is Port; callers confirm the kind with PortHandle.CheckPort before trusting the
// module and channel fields.
//
//	ph, err := handle.DecodePortHandle(raw)
//	if err != nil {
//	    return err
//	}
//	if err := ph.CheckPort(); err != nil {
//	    return err
//	}
//
// The Unchecked decode variants skip validation entirely and are meant for values
// that were validated by other means.
//
// ResourceTable maps handles of one kind to user values and performs the kind, range
// and error-bit checks on lookup.
package handle
