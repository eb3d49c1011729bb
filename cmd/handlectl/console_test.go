package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-fpgahal/hal"
	"github.com/arloliu/go-fpgahal/handle"
	"github.com/arloliu/go-fpgahal/logger"
)

func newTestConsole(t *testing.T) (*console, *bytes.Buffer) {
	t.Helper()

	sender, err := hal.Spawn(context.Background(), hal.WithLogger(logger.NewPermissiveMockLogger()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sender.Close()
		<-sender.Done()
	})

	var buf bytes.Buffer
	return newConsole(&buf, sender, 16), &buf
}

func TestConsole_Decode(t *testing.T) {
	c, out := newTestConsole(t)

	require.True(t, c.execute("decode 0x09000501"))
	assert.Contains(t, out.String(), "type:     PWM (9)")
	assert.Contains(t, out.String(), "index:    1281")
	assert.Contains(t, out.String(), "error:    false")

	out.Reset()
	require.True(t, c.execute("decode 0x82000105"))
	assert.Contains(t, out.String(), "error:    true")
	assert.Contains(t, out.String(), "module:   1\nchannel:  5")

	out.Reset()
	assert.False(t, c.execute("decode 0x7F000000"))
	assert.Contains(t, out.String(), "error:")

	out.Reset()
	assert.False(t, c.execute("decode"))
	assert.Equal(t, "usage: decode <raw>\n", out.String())
}

func TestConsole_Encode(t *testing.T) {
	c, out := newTestConsole(t)

	require.True(t, c.execute("encode pwm 3"))
	assert.Equal(t, "PWM[3] = 150994947 (0x09000003)\n", out.String())

	out.Reset()
	require.True(t, c.execute("encode 1 0x10 error"))
	assert.Contains(t, out.String(), "(0x81000010)")

	out.Reset()
	assert.False(t, c.execute("encode pwm 70000"))
	assert.False(t, c.execute("encode Gizmo 1"))
}

func TestConsole_Port(t *testing.T) {
	c, out := newTestConsole(t)

	require.True(t, c.execute("port 1 5"))
	assert.Contains(t, out.String(), "(0x02000105)")

	out.Reset()
	require.True(t, c.execute("port 0x02000105"))
	assert.Contains(t, out.String(), "module=1 channel=5")

	out.Reset()
	assert.False(t, c.execute("port 0x09000105"), "decoded kind must be checked")
	assert.Contains(t, out.String(), "error:")
}

func TestConsole_Resources(t *testing.T) {
	c, out := newTestConsole(t)

	require.True(t, c.execute("alloc PWM 2 left drive"))
	require.True(t, c.execute("alloc pwm 1"))
	require.True(t, c.execute("alloc DigitalIO 0 limit switch"))
	assert.False(t, c.execute("alloc pwm 2"), "index already in use")
	assert.False(t, c.execute("alloc pwm 16"), "index out of range")
	assert.False(t, c.execute("alloc Undefined 1"))

	out.Reset()
	require.True(t, c.execute("list pwm"))
	listed := out.String()
	assert.Contains(t, listed, "PWM[1]")
	assert.Contains(t, listed, "left drive")
	assert.NotContains(t, listed, "limit switch")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("PWM[1]")), bytes.Index(out.Bytes(), []byte("PWM[2]")))

	raw := handle.NewHandle(handle.PWM, 2).Encode()
	out.Reset()
	require.True(t, c.execute("free "+formatRaw(raw)))
	assert.Equal(t, "freed PWM[2] \"left drive\"\n", out.String())
	assert.False(t, c.execute("free "+formatRaw(raw)), "already freed")

	errRaw := handle.NewHandle(handle.PWM, 1).WithErrorBit(true).Encode()
	assert.False(t, c.execute("free "+formatRaw(errRaw)), "error bit set")

	out.Reset()
	require.True(t, c.execute("stats"))
	assert.Contains(t, out.String(), "failed")
	assert.Positive(t, c.sender.Metrics().FailedCount.Load())
}

func TestConsole_Misc(t *testing.T) {
	c, out := newTestConsole(t)

	require.True(t, c.execute("types"))
	assert.Regexp(t, `17\s+Vendor`, out.String())

	out.Reset()
	require.True(t, c.execute("help"))
	assert.Contains(t, out.String(), "alloc <type> <index> [label]")

	assert.True(t, c.execute("   "))
	assert.False(t, c.execute("reboot"))
	assert.True(t, c.quit(" QUIT "))
	assert.False(t, c.quit("list"))

	out.Reset()
	require.True(t, c.execute("list"))
	assert.Equal(t, "no resources allocated\n", out.String())
}

func TestParseRaw(t *testing.T) {
	tests := []struct {
		input    string
		expected int32
		wantErr  bool
	}{
		{input: "0", expected: 0},
		{input: "-1", expected: -1},
		{input: "0xFFFFFFFF", expected: -1},
		{input: "0b00000101_00000001_00000000_00001001", expected: 0x05010009},
		{input: "2147483648", expected: -2147483648},
		{input: "0x100000000", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := parseRaw(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func formatRaw(raw int32) string {
	return fmt.Sprintf("0x%08X", uint32(raw))
}
