// Package controller identifies Sony controllers by VID/PID and classifies
// their connection kind from the HID device path.
package controller

import "strings"

// Model is the specific controller variant.
type Model int

const (
	DualSense Model = iota
	DualSenseEdge
	DS4V1
	DS4V2
)

// Connection is the transport a controller is reached over.
type Connection int

const (
	USB Connection = iota
	Bluetooth
)

const (
	sonyVID        uint16 = 0x054C
	dualSensePID   uint16 = 0x0CE6
	dualSenseEdge  uint16 = 0x0DF2
	ds4V1PID       uint16 = 0x05C4
	ds4V2PID       uint16 = 0x09CC
)

// Generic Desktop / Game Pad usage page and usage, used to filter HID
// enumeration results down to gamepad collections.
const (
	GamepadUsagePage uint16 = 0x01
	GamepadUsage     uint16 = 0x05
)

// Identify maps a VID/PID pair to a known controller model. Only Sony's VID
// is recognized; unknown PIDs (or non-Sony vendors) return ok=false.
func Identify(vid, pid uint16) (Model, bool) {
	if vid != sonyVID {
		return 0, false
	}
	switch pid {
	case dualSensePID:
		return DualSense, true
	case dualSenseEdge:
		return DualSenseEdge, true
	case ds4V1PID:
		return DS4V1, true
	case ds4V2PID:
		return DS4V2, true
	default:
		return 0, false
	}
}

// DetectConnection classifies a HID device path as USB or Bluetooth. Paths
// containing a Bluetooth HID service GUID fragment or the "&0005" token are
// Bluetooth; everything else defaults to USB.
func DetectConnection(path string) Connection {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "&0005") || strings.Contains(lower, "{00001124") {
		return Bluetooth
	}
	return USB
}

// IsDualSense reports whether m is a DualSense-family model.
func (m Model) IsDualSense() bool {
	return m == DualSense || m == DualSenseEdge
}

// IsDS4 reports whether m is a DualShock4-family model.
func (m Model) IsDS4() bool {
	return m == DS4V1 || m == DS4V2
}

func (m Model) String() string {
	switch m {
	case DualSense:
		return "DualSense"
	case DualSenseEdge:
		return "DualSense Edge"
	case DS4V1:
		return "DualShock 4 v1"
	case DS4V2:
		return "DualShock 4 v2"
	default:
		return "Unknown"
	}
}

func (c Connection) String() string {
	switch c {
	case USB:
		return "USB"
	case Bluetooth:
		return "Bluetooth"
	default:
		return "Unknown"
	}
}
