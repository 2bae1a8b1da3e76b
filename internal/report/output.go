package report

import "github.com/ds4cc/ds4cc-go/internal/controller"

// Output is the desired controller output state: lightbar color, rumble
// motor levels, and LED indicators.
type Output struct {
	LightbarR, LightbarG, LightbarB byte
	RumbleLeft, RumbleRight         byte
	// PlayerLEDs bitmask: bits 0-4 are the five indicator dots left to
	// right, bit 5 is "instant mode" (no fade).
	PlayerLEDs byte
	// MuteLED: 0 = off, 1 = on. None of the builders below writes this
	// field into a report.
	MuteLED byte
}

// Build encodes an Output into a byte-exact report for the given
// model/connection. btSeq is accepted for API symmetry; only the DualSense
// Bluetooth builder receives it, and that builder neither reads nor
// increments it, since DualSense Bluetooth does not use a sequence counter
// (DS4Windows parity: a fixed tag byte is written instead).
func Build(model controller.Model, conn controller.Connection, out Output, btSeq *byte) []byte {
	switch {
	case model.IsDualSense() && conn == controller.USB:
		return buildDualSenseUSB(out)
	case model.IsDualSense() && conn == controller.Bluetooth:
		return buildDualSenseBT(out, btSeq)
	case model.IsDS4() && conn == controller.USB:
		return buildDS4USB(out)
	default:
		return buildDS4BT(out)
	}
}

// buildDualSenseUSB builds the 48-byte report ID 0x02 USB output report.
func buildDualSenseUSB(out Output) []byte {
	buf := make([]byte, 48)
	buf[0] = 0x02
	buf[1] = 0x0F
	buf[2] = 0x55
	buf[3] = out.RumbleRight
	buf[4] = out.RumbleLeft
	buf[39] = 0x02
	buf[42] = 0x02
	buf[43] = 0x00
	buf[44] = out.PlayerLEDs
	buf[45] = out.LightbarR
	buf[46] = out.LightbarG
	buf[47] = out.LightbarB
	return buf
}

// buildDualSenseBT builds the 78-byte report ID 0x31 Bluetooth output
// report, CRC-stamped with the output seed.
func buildDualSenseBT(out Output, _ *byte) []byte {
	buf := make([]byte, 78)
	buf[0] = 0x31
	buf[1] = 0x02 // fixed data tag; DualSense BT carries no sequence counter
	buf[2] = 0x0F
	buf[3] = 0x55
	buf[4] = out.RumbleRight
	buf[5] = out.RumbleLeft
	buf[40] = 0x02
	buf[43] = 0x02
	buf[44] = 0x00
	buf[45] = out.PlayerLEDs
	buf[46] = out.LightbarR
	buf[47] = out.LightbarG
	buf[48] = out.LightbarB
	controller.Stamp(controller.SeedOutput, buf, len(buf)-4)
	return buf
}

func buildDS4USB(out Output) []byte {
	buf := make([]byte, 32)
	buf[0] = 0x05
	buf[1] = 0x07
	buf[4] = out.RumbleRight
	buf[5] = out.RumbleLeft
	buf[6] = out.LightbarR
	buf[7] = out.LightbarG
	buf[8] = out.LightbarB
	return buf
}

func buildDS4BT(out Output) []byte {
	buf := make([]byte, 79)
	buf[0] = 0x11
	buf[1] = 0x80
	buf[3] = 0xF7
	buf[6] = out.RumbleRight
	buf[7] = out.RumbleLeft
	buf[8] = out.LightbarR
	buf[9] = out.LightbarG
	buf[10] = out.LightbarB
	controller.Stamp(controller.SeedOutput, buf, len(buf)-4)
	return buf
}
