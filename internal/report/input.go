// Package report decodes HID input reports into a unified, model-agnostic
// representation and encodes a unified output state back into byte-exact
// per-model reports.
package report

import (
	"fmt"

	"github.com/ds4cc/ds4cc-go/internal/controller"
)

// DPad is the eight-compass-direction hat state, plus Neutral.
type DPad int

const (
	DPadNeutral DPad = iota
	DPadUp
	DPadUpRight
	DPadRight
	DPadDownRight
	DPadDown
	DPadDownLeft
	DPadLeft
	DPadUpLeft
)

// ButtonState is the digital button snapshot for one frame.
type ButtonState struct {
	Cross, Circle, Square, Triangle bool
	L1, R1, L2, R2                  bool
	Share, Options                  bool
	L3, R3                          bool
	PS, Touchpad, Mute              bool
	DPad                            DPad
}

// TouchPoint is one decoded touchpad contact.
type TouchPoint struct {
	Active bool
	X, Y   int
}

// Input is the unified, model/transport-agnostic input snapshot for one
// report.
type Input struct {
	LeftStick   [2]byte // X, Y; 128 = center
	RightStick  [2]byte
	L2Analog    byte
	R2Analog    byte
	Buttons     ButtonState
	Touch       [2]TouchPoint
}

// ShortBufferError indicates a report buffer too small to hold the fields
// this model/transport combination requires.
type ShortBufferError struct {
	Expected, Got int
}

func (e *ShortBufferError) Error() string {
	return fmt.Sprintf("report too short: expected at least %d bytes, got %d", e.Expected, e.Got)
}

// ErrUnexpectedReportID describes a buffer whose leading report-ID byte
// does not match any recognized framing for the given model/connection.
// Parse does not return it: a buffer without a recognized leading ID byte
// is read at the offset used when no ID byte is present.
type ErrUnexpectedReportID struct {
	ID byte
}

func (e *ErrUnexpectedReportID) Error() string {
	return fmt.Sprintf("unexpected report id %#02x", e.ID)
}

// DecodeHat maps a D-pad hat nibble (0-15) to a DPad value. Values 8-15 are
// Neutral; the function is total over byte input.
func DecodeHat(hat byte) DPad {
	switch hat & 0x0F {
	case 0:
		return DPadUp
	case 1:
		return DPadUpRight
	case 2:
		return DPadRight
	case 3:
		return DPadDownRight
	case 4:
		return DPadDown
	case 5:
		return DPadDownLeft
	case 6:
		return DPadLeft
	case 7:
		return DPadUpLeft
	default:
		return DPadNeutral
	}
}

func parseButtons(b0, b1, b2 byte) ButtonState {
	return ButtonState{
		DPad:     DecodeHat(b0),
		Square:   b0&0x10 != 0,
		Cross:    b0&0x20 != 0,
		Circle:   b0&0x40 != 0,
		Triangle: b0&0x80 != 0,
		L1:       b1&0x01 != 0,
		R1:       b1&0x02 != 0,
		L2:       b1&0x04 != 0,
		R2:       b1&0x08 != 0,
		Share:    b1&0x10 != 0,
		Options:  b1&0x20 != 0,
		L3:       b1&0x40 != 0,
		R3:       b1&0x80 != 0,
		PS:       b2&0x01 != 0,
		Touchpad: b2&0x02 != 0,
		Mute:     b2&0x04 != 0,
	}
}

// decodeTouchPoint reads one 4-byte packed touch contact starting at off.
func decodeTouchPoint(data []byte, off int) TouchPoint {
	b0, b1, b2, b3 := data[off], data[off+1], data[off+2], data[off+3]
	return TouchPoint{
		Active: b0&0x80 == 0,
		X:      int(b1) | (int(b2&0x0F) << 8),
		Y:      int(b2>>4) | (int(b3) << 4),
	}
}

// dualSenseUSBOffset returns the base field offset for a DualSense USB report,
// detecting whether the platform left the report-ID byte prepended.
func dualSenseUSBOffset(data []byte) int {
	if len(data) == 64 && data[0] == 0x01 {
		return 1
	}
	return 0
}

func dualSenseBTOffset(data []byte) int {
	if len(data) >= 1 && data[0] == 0x31 {
		return 2
	}
	return 1
}

func ds4USBOffset(data []byte) int {
	if len(data) == 64 && data[0] == 0x01 {
		return 1
	}
	return 0
}

func ds4BTOffset(data []byte) int {
	if len(data) >= 1 && data[0] == 0x11 {
		return 3
	}
	return 2
}

// Parse decodes a raw HID input report for the given model/connection into
// a unified Input. Callers are responsible for Bluetooth CRC validation
// before calling Parse.
func Parse(model controller.Model, conn controller.Connection, data []byte) (Input, error) {
	switch {
	case model.IsDualSense() && conn == controller.USB:
		return parseDualSense(data, dualSenseUSBOffset(data))
	case model.IsDualSense() && conn == controller.Bluetooth:
		return parseDualSense(data, dualSenseBTOffset(data))
	case model.IsDS4() && conn == controller.USB:
		return parseDS4(data, ds4USBOffset(data))
	case model.IsDS4() && conn == controller.Bluetooth:
		return parseDS4(data, ds4BTOffset(data))
	default:
		return Input{}, fmt.Errorf("report: unknown model/connection combination")
	}
}

// parseDualSense reads DualSense-family fields: sticks at off+0..+3,
// triggers at off+4..+5, a counter byte at off+6 (skipped), button bytes at
// off+7..+9, and two touch contacts at off+32..+39.
func parseDualSense(data []byte, off int) (Input, error) {
	if len(data) < off+10 {
		return Input{}, &ShortBufferError{Expected: off + 10, Got: len(data)}
	}
	in := Input{
		LeftStick:  [2]byte{data[off+0], data[off+1]},
		RightStick: [2]byte{data[off+2], data[off+3]},
		L2Analog:   data[off+4],
		R2Analog:   data[off+5],
		Buttons:    parseButtons(data[off+7], data[off+8], data[off+9]),
	}
	if len(data) >= off+40 {
		in.Touch[0] = decodeTouchPoint(data, off+32)
		in.Touch[1] = decodeTouchPoint(data, off+36)
	}
	return in, nil
}

// parseDS4 reads DualShock4-family fields: sticks at off+0..+3, button
// bytes at off+4..+6 (note: buttons precede triggers, unlike DualSense),
// triggers at off+7..+8. DS4 has no touchpad contact decode in this report
// family (unused per spec).
func parseDS4(data []byte, off int) (Input, error) {
	if len(data) < off+9 {
		return Input{}, &ShortBufferError{Expected: off + 9, Got: len(data)}
	}
	return Input{
		LeftStick:  [2]byte{data[off+0], data[off+1]},
		RightStick: [2]byte{data[off+2], data[off+3]},
		Buttons:    parseButtons(data[off+4], data[off+5], data[off+6]),
		L2Analog:   data[off+7],
		R2Analog:   data[off+8],
	}, nil
}

// ValidateBTCRC validates a raw Bluetooth input report against the input
// seed, regardless of controller model (both families share the seed).
func ValidateBTCRC(raw []byte) bool {
	return controller.Validate(controller.SeedInput, raw)
}
