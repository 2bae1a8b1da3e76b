// Package supervisor owns the outer reconnect loop: find a controller,
// activate it, run its input loop until disconnect, tear down, retry. It is
// the one place that spans the whole lifetime of a connection and therefore
// owns both the transport handle and the per-connection scheduler.
package supervisor

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ds4cc/ds4cc-go/internal/agent"
	"github.com/ds4cc/ds4cc-go/internal/config"
	"github.com/ds4cc/ds4cc-go/internal/controller"
	"github.com/ds4cc/ds4cc-go/internal/logging"
	"github.com/ds4cc/ds4cc-go/internal/mapper"
	"github.com/ds4cc/ds4cc-go/internal/report"
	"github.com/ds4cc/ds4cc-go/internal/scheduler"
	"github.com/ds4cc/ds4cc-go/internal/transport"
)

const (
	findRetryDelay          = 2 * time.Second
	reconnectCooldownUSB    = 200 * time.Millisecond
	reconnectCooldownBT     = 1 * time.Second
	readIdleSleep           = 4 * time.Millisecond
	errorLogSampleSize      = 100
	usbAvailabilityInterval = 5 * time.Second

	playerLEDsProfileDefault = 0b00100 // center dot
	playerLEDsProfileTmux    = 0b01010 // two-dot pattern
)

// Injector executes a mapper.Action against the OS. Satisfied by both
// internal/inject build variants.
type Injector interface {
	Execute(mapper.Action)
}

// MicToggleFunc invokes an external mic-mute toggle (Windows Core Audio);
// nil disables the hook entirely.
type MicToggleFunc func()

// Supervisor drives the find -> open -> run -> disconnect -> retry cycle.
type Supervisor struct {
	cfg      config.Config
	log      *slog.Logger
	watch    *agent.Watch
	tracker  *agent.Tracker
	injector Injector
	mic      MicToggleFunc
}

// New constructs a Supervisor. mic and tracker may both be nil.
func New(cfg config.Config, watch *agent.Watch, tracker *agent.Tracker, injector Injector, mic MicToggleFunc, log *slog.Logger) *Supervisor {
	return &Supervisor{cfg: cfg, log: log, watch: watch, tracker: tracker, injector: injector, mic: mic}
}

// Run blocks, reconnecting indefinitely, until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		dev, ok := s.findController(ctx)
		if !ok {
			return
		}
		handle, err := transport.Open(dev)
		if err != nil {
			s.log.Warn("supervisor: failed to open controller", "error", err)
			if !sleepCtx(ctx, findRetryDelay) {
				return
			}
			continue
		}
		s.log.Info("supervisor: connected", "model", handle.Model().String(), "connection", handle.Connection().String())

		connCtx, cancel := context.WithCancel(ctx)
		sched := scheduler.New(handle, s.cfg.Lightbar, s.watch, s.log)
		sched.SetPlayerLEDs(playerLEDsForProfile(mapper.ProfileDefault))
		sched.SetTracker(s.tracker)
		go sched.Run(connCtx)

		// A Bluetooth connection gets a USB-availability watcher so the
		// supervisor can hot-switch to the lower-latency transport the
		// moment a cable is plugged in, instead of waiting for a drop.
		var usbAvailable atomic.Bool
		if handle.Connection() == controller.Bluetooth {
			go s.watchUSBAvailability(connCtx, &usbAvailable)
		}

		hotSwitch := s.runInputLoop(connCtx, handle, sched, &usbAvailable)

		cancel()
		handle.Close()
		s.log.Info("supervisor: controller disconnected, rescanning")
		if hotSwitch {
			continue
		}
		cooldown := reconnectCooldownBT
		if handle.Connection() == controller.USB {
			cooldown = reconnectCooldownUSB
		}
		if !sleepCtx(ctx, cooldown) {
			return
		}
	}
}

// watchUSBAvailability polls HID enumeration every usbAvailabilityInterval
// and latches flag once a USB-connected controller is found, then stops:
// the supervisor tears this goroutine down via ctx on every
// disconnect/hot-switch anyway.
func (s *Supervisor) watchUSBAvailability(ctx context.Context, flag *atomic.Bool) {
	ticker := time.NewTicker(usbAvailabilityInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			devices, err := transport.Enumerate()
			if err != nil {
				s.log.Debug("supervisor: usb-availability enumerate failed", "error", err)
				continue
			}
			for _, d := range devices {
				if d.Connection == controller.USB {
					flag.Store(true)
					return
				}
			}
		}
	}
}

// findController polls the HID bus every findRetryDelay until a known
// controller shows up or ctx is cancelled.
func (s *Supervisor) findController(ctx context.Context) (transport.EnumeratedDevice, bool) {
	for {
		if ctx.Err() != nil {
			return transport.EnumeratedDevice{}, false
		}
		devices, err := transport.Enumerate()
		if err != nil {
			s.log.Debug("supervisor: enumerate failed", "error", err)
		} else if len(devices) > 0 {
			return s.pickDevice(devices), true
		}
		if !sleepCtx(ctx, findRetryDelay) {
			return transport.EnumeratedDevice{}, false
		}
	}
}

// pickDevice prefers a USB connection over Bluetooth when both are present,
// since USB is lower-latency and doesn't need BT CRC validation.
func (s *Supervisor) pickDevice(devices []transport.EnumeratedDevice) transport.EnumeratedDevice {
	for _, d := range devices {
		if d.Connection == controller.USB {
			return d
		}
	}
	return devices[0]
}

// runInputLoop reads reports until the device disconnects or (when
// usbAvailable is set by the Bluetooth watcher) a USB controller becomes
// available, mapping each frame to Actions and executing them. The bool
// result reports whether the loop returned for a USB hot-switch, so the
// supervisor can restart immediately instead of pausing.
func (s *Supervisor) runInputLoop(ctx context.Context, handle *transport.Handle, sched *scheduler.Scheduler, usbAvailable *atomic.Bool) bool {
	detected := (*mapper.Detected)(nil)
	m := mapper.New(s.cfg, detected, s.log)

	crcSampler := logging.NewSampler(errorLogSampleSize)
	parseSampler := logging.NewSampler(errorLogSampleSize)
	lastProfile := m.Profile()
	var prevMute, muted bool
	firstReport := true

	for ctx.Err() == nil {
		data, err := handle.Read()
		if err != nil {
			if transport.IsDisconnect(err) {
				return false
			}
			time.Sleep(readIdleSleep)
			continue
		}
		if len(data) == 0 {
			if usbAvailable.Load() {
				s.log.Info("supervisor: usb controller available, hot-switching")
				return true
			}
			time.Sleep(readIdleSleep)
			continue
		}

		if firstReport {
			s.log.Info("supervisor: first report received", "bytes", len(data))
			firstReport = false
		}

		if handle.Connection() == controller.Bluetooth && !report.ValidateBTCRC(data) {
			if allow, n := crcSampler.Allow(); allow {
				s.log.Warn("supervisor: bluetooth CRC validation failed", "count", n)
			}
			continue
		}

		in, err := report.Parse(handle.Model(), handle.Connection(), data)
		if err != nil {
			if allow, n := parseSampler.Allow(); allow {
				s.log.Warn("supervisor: input parse failed", "count", n, "error", err)
			}
			continue
		}

		for _, action := range m.Update(in, time.Now()) {
			s.injector.Execute(action)
		}

		if in.Buttons.Mute && !prevMute {
			muted = !muted
			sched.SetMuteLED(muted)
			if s.mic != nil {
				s.mic()
			}
		}
		prevMute = in.Buttons.Mute

		if m.Profile() != lastProfile {
			lastProfile = m.Profile()
			sched.SetPlayerLEDs(playerLEDsForProfile(lastProfile))
			s.log.Debug("supervisor: profile changed", "profile", lastProfile.String())
		}
	}
	return false
}

// playerLEDsForProfile returns the player-LED bitmask that indicates the
// active mapper profile on the controller's own indicator dots.
func playerLEDsForProfile(p mapper.Profile) byte {
	if p == mapper.ProfileTmux {
		return playerLEDsProfileTmux
	}
	return playerLEDsProfileDefault
}

// sleepCtx sleeps for d or returns early (with ok=false) if ctx is
// cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
