package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPortHandle(t *testing.T) {
	ph := NewPortHandle(7, 24)
	assert.Equal(t, uint8(7), ph.Module())
	assert.Equal(t, uint8(24), ph.Channel())
	assert.Equal(t, TypeByteOf(Port), ph.TypeByte())
	assert.True(t, ph.IsPort())
	assert.NoError(t, ph.CheckPort())
}

func TestPortHandle_Encode(t *testing.T) {
	ph := NewPortHandle(0b0000_0001, 0b0000_0101)
	assert.Equal(t, int32(0b00000010_00000000_00000001_00000101), ph.Encode())
}

func TestPortHandle_Decode(t *testing.T) {
	ph, err := DecodePortHandle(0b00000010_00000000_00000001_00000101)
	require.NoError(t, err)
	assert.Equal(t, Port, ph.Type())
	assert.Equal(t, uint8(0b0000_0001), ph.Module())
	assert.Equal(t, uint8(0b0000_0101), ph.Channel())

	_, err = DecodePortHandle(rawOf(0x12000000))
	assert.ErrorIs(t, err, ErrInvalidHandleType)
}

func TestPortHandle_DecodeDoesNotCheckKind(t *testing.T) {
	// A PWM handle decodes fine as a PortHandle; the kind check is a separate step.
	raw := NewHandle(PWM, 0x0102).Encode()

	ph, err := DecodePortHandle(raw)
	require.NoError(t, err)
	assert.Equal(t, PWM, ph.Type())
	assert.False(t, ph.IsPort())
	assert.ErrorIs(t, ph.CheckPort(), ErrHandleTypeMismatch)
}

func TestPortHandle_RoundTrip(t *testing.T) {
	for module := 0; module <= 0xFF; module++ {
		for channel := 0; channel <= 0xFF; channel++ {
			ph := NewPortHandle(uint8(module), uint8(channel))

			decoded, err := DecodePortHandle(ph.Encode())
			require.NoError(t, err)
			require.Equal(t, Port, decoded.Type())
			require.Equal(t, uint8(module), decoded.Module())
			require.Equal(t, uint8(channel), decoded.Channel())
			require.False(t, decoded.ErrorBit())
		}
	}
}

func TestPortHandle_ErrorBit(t *testing.T) {
	ph := NewPortHandle(3, 9).WithErrorBit(true)
	assert.True(t, ph.ErrorBit())
	assert.Less(t, ph.Encode(), int32(0), "error bit is the sign bit of the raw value")

	decoded, err := DecodePortHandle(ph.Encode())
	require.NoError(t, err)
	assert.True(t, decoded.ErrorBit())
	assert.Equal(t, Port, decoded.Type())
	assert.Equal(t, uint8(3), decoded.Module())
	assert.Equal(t, uint8(9), decoded.Channel())

	assert.Equal(t, NewPortHandle(3, 9), decoded.WithErrorBit(false))
}

func TestSPIPortHandle(t *testing.T) {
	ph := NewSPIPortHandle(1, 4)
	assert.Equal(t, TypeByteOf(Port), ph.TypeByte())
	assert.Equal(t, uint8(1), ph.SPIEnable())
	assert.Equal(t, uint8(0), ph.Module())
	assert.Equal(t, uint8(4), ph.Channel())
	assert.Equal(t, int32(0b00000010_00000001_00000000_00000100), ph.Encode())

	assert.Equal(t, uint8(0), NewPortHandle(1, 4).SPIEnable())

	for spi := 0; spi <= 0xFF; spi++ {
		for channel := 0; channel <= 0xFF; channel += 17 {
			ph := NewSPIPortHandle(uint8(spi), uint8(channel))

			decoded, err := DecodePortHandle(ph.Encode())
			require.NoError(t, err)
			require.Equal(t, ph, decoded)
			require.Equal(t, Port, decoded.Type())
			require.False(t, decoded.ErrorBit())
			require.Equal(t, uint8(spi), decoded.SPIEnable())
			require.Equal(t, uint8(channel), decoded.Channel())
		}
	}

	// the SPI byte never leaks into the type byte
	decoded, err := DecodePortHandle(NewSPIPortHandle(0xFF, 0xFF).Encode())
	require.NoError(t, err)
	assert.Equal(t, Port, decoded.Type())
	assert.Equal(t, uint8(0xFF), decoded.SPIEnable())
}

func TestDecodePortHandleUnchecked(t *testing.T) {
	raw := NewPortHandle(1, 2).Encode()
	assert.Equal(t, NewPortHandle(1, 2), DecodePortHandleUnchecked(raw))
}

func TestPortHandle_String(t *testing.T) {
	assert.Equal(t, "Port[1:5]", NewPortHandle(1, 5).String())
}
