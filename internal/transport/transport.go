// Package transport wraps github.com/sstallion/go-hid for raw report I/O
// against a DualSense/DS4 device: enumeration, opening, blocking reads with
// a timeout, writes, and Bluetooth extended-mode activation.
package transport

import (
	"fmt"
	"strings"
	"sync"
	"time"

	hid "github.com/sstallion/go-hid"

	"github.com/ds4cc/ds4cc-go/internal/controller"
)

const (
	usbPacketSize      = 64
	defaultReadTimeout = 5 * time.Millisecond

	dualSenseFeatureReportID    = 0x05
	ds4FeatureReportID          = 0x02
	featureReportBufferCapacity = 64
)

// EnumeratedDevice is one HID device matching a known controller VID/PID.
type EnumeratedDevice struct {
	Path       string
	Model      controller.Model
	Connection controller.Connection
}

// Enumerate lists every connected DualSense/DS4 HID device.
func Enumerate() ([]EnumeratedDevice, error) {
	var found []EnumeratedDevice
	err := hid.Enumerate(0, 0, func(info *hid.DeviceInfo) error {
		model, ok := controller.Identify(info.VendorID, info.ProductID)
		if !ok {
			return nil
		}
		if info.UsagePage != 0 && info.UsagePage != controller.GamepadUsagePage {
			return nil
		}
		found = append(found, EnumeratedDevice{
			Path:       info.Path,
			Model:      model,
			Connection: controller.DetectConnection(info.Path),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transport: enumerate: %w", err)
	}
	return found, nil
}

// Handle is an opened HID device, safe for concurrent Read/Write from the
// input loop and output loop goroutines.
type Handle struct {
	mu         sync.Mutex
	device     *hid.Device
	model      controller.Model
	connection controller.Connection
}

// Open opens the device at path in non-blocking mode and, for Bluetooth
// connections, activates extended report mode via a feature-report read.
func Open(dev EnumeratedDevice) (*Handle, error) {
	device, err := hid.OpenPath(dev.Path)
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", dev.Path, err)
	}
	if err := device.SetNonblock(true); err != nil {
		device.Close()
		return nil, fmt.Errorf("transport: set non-blocking mode: %w", err)
	}
	h := &Handle{device: device, model: dev.Model, connection: dev.Connection}
	if dev.Connection == controller.Bluetooth {
		if err := h.activateBTExtendedMode(); err != nil {
			device.Close()
			return nil, err
		}
	}
	return h, nil
}

// activateBTExtendedMode reads the feature report whose very act of being
// read switches the controller from its simple HID report into its
// extended report layout; the content of the response is not otherwise used.
func (h *Handle) activateBTExtendedMode() error {
	reportID := dualSenseFeatureReportID
	if h.model.IsDS4() {
		reportID = ds4FeatureReportID
	}
	buf := make([]byte, featureReportBufferCapacity)
	buf[0] = byte(reportID)
	if _, err := h.device.GetFeatureReport(buf); err != nil {
		return fmt.Errorf("transport: activate bluetooth extended mode: %w", err)
	}
	return nil
}

// Model and Connection report the identity this handle was opened with.
func (h *Handle) Model() controller.Model           { return h.model }
func (h *Handle) Connection() controller.Connection { return h.connection }

// Read blocks for up to the default read timeout and returns one raw input
// report. A zero-length read with a nil error indicates a timeout, not a
// disconnect.
func (h *Handle) Read() ([]byte, error) {
	buf := make([]byte, usbPacketSize)
	n, err := h.device.ReadWithTimeout(buf, defaultReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("transport: read: %w", err)
	}
	return buf[:n], nil
}

// Write sends a raw output report. Writes are serialized by a mutex; the
// scheduler tick is the only caller (rumble runners write only to the
// scheduler's motor atomics).
func (h *Handle) Write(report []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.device.Write(report); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// Close releases the underlying HID handle.
func (h *Handle) Close() error {
	return h.device.Close()
}

// IsDisconnect reports whether err indicates the controller went away
// (cable pull, Bluetooth radio dropout) rather than a transient error.
func IsDisconnect(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1167") ||
		strings.Contains(msg, "not connected") ||
		strings.Contains(msg, "no such device") ||
		strings.Contains(msg, "device closed") ||
		strings.Contains(msg, "i/o error")
}
