package report

import (
	"testing"

	"github.com/ds4cc/ds4cc-go/internal/controller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHatTotality(t *testing.T) {
	for v := 0; v < 16; v++ {
		got := DecodeHat(byte(v))
		if v <= 7 {
			assert.NotEqual(t, DPadNeutral, got, "value %d should be a compass direction", v)
		} else {
			assert.Equal(t, DPadNeutral, got, "value %d should be neutral", v)
		}
	}
}

// neutralDualSenseUSB builds a 64-byte USB DualSense report (with leading
// report ID) at rest: sticks centered, triggers zero, hat neutral.
func neutralDualSenseUSB() []byte {
	data := make([]byte, 64)
	data[0] = 0x01
	data[1] = 128 // LX
	data[2] = 128 // LY
	data[3] = 128 // RX
	data[4] = 128 // RY
	data[5] = 0   // L2
	data[6] = 0   // R2
	data[7] = 0   // counter
	data[8] = 0x08 // hat nibble 8 = neutral, no face buttons
	data[9] = 0
	data[10] = 0
	// touch contacts inactive: bit7 set
	data[1+32] = 0x80
	data[1+36] = 0x80
	return data
}

func TestDispatchParityDualSenseUSB(t *testing.T) {
	in, err := Parse(controller.DualSense, controller.USB, neutralDualSenseUSB())
	require.NoError(t, err)
	assert.Equal(t, [2]byte{128, 128}, in.LeftStick)
	assert.Equal(t, [2]byte{128, 128}, in.RightStick)
	assert.Equal(t, DPadNeutral, in.Buttons.DPad)
	assert.False(t, in.Buttons.Cross)
	assert.False(t, in.Touch[0].Active)
	assert.False(t, in.Touch[1].Active)
}

func TestParseDS4ButtonsBeforeTriggers(t *testing.T) {
	data := make([]byte, 64)
	data[0] = 0x01
	data[1] = 128
	data[2] = 128
	data[3] = 128
	data[4] = 128
	data[5] = 0x08 | 0x20 // neutral hat, cross pressed
	data[6] = 0x01        // l1
	data[7] = 0
	data[8] = 10 // l2 trigger analog
	data[9] = 20 // r2 trigger analog

	in, err := Parse(controller.DS4V2, controller.USB, data)
	require.NoError(t, err)
	assert.True(t, in.Buttons.Cross)
	assert.True(t, in.Buttons.L1)
	assert.Equal(t, byte(10), in.L2Analog)
	assert.Equal(t, byte(20), in.R2Analog)
}

func TestParseTooShort(t *testing.T) {
	_, err := Parse(controller.DualSense, controller.USB, []byte{0x01, 1, 2})
	require.Error(t, err)
	var shortErr *ShortBufferError
	require.ErrorAs(t, err, &shortErr)
}

func TestTouchPointDecode(t *testing.T) {
	data := make([]byte, 64)
	data[0] = 0x01
	// Active contact at X=300 (0x12C), Y=500 (0x1F4)
	off := 1 + 32
	x, y := 0x12C, 0x1F4
	data[off] = 0x00 // active
	data[off+1] = byte(x & 0xFF)
	data[off+2] = byte((x>>8)&0x0F) | byte((y&0x0F)<<4)
	data[off+3] = byte(y >> 4)
	in, err := Parse(controller.DualSense, controller.USB, data)
	require.NoError(t, err)
	assert.True(t, in.Touch[0].Active)
	assert.Equal(t, x, in.Touch[0].X)
	assert.Equal(t, y, in.Touch[0].Y)
}

func TestBuildDualSenseUSBSize(t *testing.T) {
	out := Output{LightbarR: 255, LightbarG: 128, LightbarB: 0}
	var seq byte
	buf := Build(controller.DualSense, controller.USB, out, &seq)
	require.Len(t, buf, 48)
	assert.Equal(t, byte(0x02), buf[0])
	assert.Equal(t, byte(255), buf[45])
	assert.Equal(t, byte(128), buf[46])
}

func TestBuildDualSensePlayerLEDByteOffsets(t *testing.T) {
	out := Output{PlayerLEDs: 0x24}
	var seq byte
	usb := Build(controller.DualSense, controller.USB, out, &seq)
	assert.Equal(t, byte(0x24), usb[44])
	bt := Build(controller.DualSense, controller.Bluetooth, out, &seq)
	assert.Equal(t, byte(0x24), bt[45])
}

func TestBuildDualSenseBTCRCValid(t *testing.T) {
	var seq byte
	buf := Build(controller.DualSense, controller.Bluetooth, Output{}, &seq)
	require.Len(t, buf, 78)
	assert.Equal(t, byte(0x31), buf[0])
	assert.True(t, controller.Validate(controller.SeedOutput, buf))
}

func TestBuildDualSenseBTFixedTag(t *testing.T) {
	var seq byte
	r1 := Build(controller.DualSense, controller.Bluetooth, Output{}, &seq)
	r2 := Build(controller.DualSense, controller.Bluetooth, Output{}, &seq)
	assert.Equal(t, byte(0x02), r1[1])
	assert.Equal(t, byte(0x02), r2[1])
}

func TestBuildDS4USBRumbleOffsets(t *testing.T) {
	out := Output{RumbleLeft: 128, RumbleRight: 64, LightbarG: 255}
	var seq byte
	buf := Build(controller.DS4V2, controller.USB, out, &seq)
	require.Len(t, buf, 32)
	assert.Equal(t, byte(0x05), buf[0])
	assert.Equal(t, byte(64), buf[4])
	assert.Equal(t, byte(128), buf[5])
	assert.Equal(t, byte(255), buf[7])
}

func TestBuildDS4BTCRCValid(t *testing.T) {
	var seq byte
	buf := Build(controller.DS4V2, controller.Bluetooth, Output{}, &seq)
	require.Len(t, buf, 79)
	assert.Equal(t, byte(0x11), buf[0])
	assert.True(t, controller.Validate(controller.SeedOutput, buf))
}

func TestValidateBTCRCUsesInputSeed(t *testing.T) {
	buf := make([]byte, 10)
	controller.Stamp(controller.SeedInput, buf, 6)
	assert.True(t, ValidateBTCRC(buf))
}
