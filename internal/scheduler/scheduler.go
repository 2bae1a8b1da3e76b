// Package scheduler drives the ~30fps output tick that writes lightbar and
// rumble reports to the controller. Only the tick goroutine ever calls
// transport.Write: a rumble pattern runs in its own goroutine but only ever
// updates a pair of atomics, so the tick is the single writer and two
// reports can never race each other onto the wire.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ds4cc/ds4cc-go/internal/agent"
	"github.com/ds4cc/ds4cc-go/internal/config"
	"github.com/ds4cc/ds4cc-go/internal/controller"
	"github.com/ds4cc/ds4cc-go/internal/lightbar"
	"github.com/ds4cc/ds4cc-go/internal/report"
	"github.com/ds4cc/ds4cc-go/internal/rumble"
	"github.com/ds4cc/ds4cc-go/internal/transport"
)

const tickInterval = 33 * time.Millisecond

// Writer is the subset of *transport.Handle the scheduler needs: writing
// reports and knowing which byte layout to build them in. Defined here so
// tests can substitute a fake rather than opening a real HID device.
type Writer interface {
	Model() controller.Model
	Connection() controller.Connection
	Write(report []byte) error
}

// Scheduler owns the output tick for one connected controller.
type Scheduler struct {
	handle Writer
	cfg    config.LightbarConfig
	log    *slog.Logger

	watch   *agent.Watch
	tracker *agent.Tracker

	// motorLeft/motorRight hold the current rumble motor levels as set by a
	// running pattern; the tick reads them every frame and the pattern
	// runner sets them back to zero when it finishes.
	motorLeft  atomic.Uint32
	motorRight atomic.Uint32

	// playerLEDs is set by the supervisor on a profile change and read back
	// every tick, the same hand-off shape as the rumble motors.
	playerLEDs atomic.Uint32

	// muteLED mirrors the system microphone-mute state, flipped by the
	// supervisor on the controller's mute-button rising edge.
	muteLED atomic.Uint32

	btSeq byte
}

// SetPlayerLEDs updates the player-LED bitmask the next tick will send.
func (s *Scheduler) SetPlayerLEDs(mask byte) {
	s.playerLEDs.Store(uint32(mask))
}

// SetMuteLED updates the mute-LED state the next tick will send.
func (s *Scheduler) SetMuteLED(on bool) {
	v := uint32(0)
	if on {
		v = 1
	}
	s.muteLED.Store(v)
}

// SetTracker attaches the per-agent Tracker whose idle-reminder and
// done-rumble signals drive haptics; they are the scheduler's only rumble
// source. Optional: a nil tracker just disables those signals.
func (s *Scheduler) SetTracker(t *agent.Tracker) {
	s.tracker = t
}

// New constructs a Scheduler for an already-open, already-activated handle.
func New(handle Writer, cfg config.LightbarConfig, w *agent.Watch, log *slog.Logger) *Scheduler {
	return &Scheduler{handle: handle, cfg: cfg, watch: w, log: log}
}

// Run drives the output tick, the lightbar's global-state level, and the
// tracker's edge-triggered rumble signals until ctx is cancelled (typically
// because the input loop detected a disconnect).
func (s *Scheduler) Run(ctx context.Context) {
	currentState := s.watch.Get()
	stateStart := time.Now()
	version := uint64(0)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	s.sendFrame(currentState, 0)

	stateChanged := make(chan agent.State, 1)
	go s.watchLoop(ctx, version, stateChanged)

	idleReminders, doneRumbles := s.trackerChannels()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := time.Since(stateStart)
			s.sendFrame(currentState, elapsed)
		case newState := <-stateChanged:
			if newState == currentState {
				continue
			}
			// Lightbar-only: the collapsed global state is a level, not an
			// edge. Rumble is driven solely by the per-agent tracker's
			// idleReminders/doneRumbles below, never by this transition.
			currentState = newState
			stateStart = time.Now()
		case <-idleReminders:
			go s.runPattern(ctx, rumble.IdleReminderPattern())
		case <-doneRumbles:
			// Tracker's own done-rumble is for a single agent crossing the
			// done threshold even when the collapsed global state never
			// reaches Done (e.g. a second agent is still Working).
			if pattern, ok := rumble.PatternForTransition(agent.Working, agent.Done); ok {
				go s.runPattern(ctx, pattern)
			}
		}
	}
}

// trackerChannels returns the tracker's signal channels, or nil channels
// (which block forever in a select) when no tracker is attached.
func (s *Scheduler) trackerChannels() (<-chan struct{}, <-chan struct{}) {
	if s.tracker == nil {
		return nil, nil
	}
	return s.tracker.IdleReminders(), s.tracker.DoneRumbles()
}

// watchLoop bridges the blocking Watch.Changed call into a channel select.
// On shutdown this may leave one goroutine parked until the watch's next
// Set call; acceptable since the watch is process-lifetime and this only
// happens once per disconnect, not per frame.
func (s *Scheduler) watchLoop(ctx context.Context, startVersion uint64, out chan<- agent.State) {
	version := startVersion
	for {
		state, v, ok := s.watch.ChangedCtx(ctx, version)
		if !ok {
			return
		}
		version = v
		select {
		case out <- state:
		case <-ctx.Done():
			return
		}
	}
}

// runPattern plays a rumble pattern by writing only to the motor atomics;
// it never touches the transport handle directly.
func (s *Scheduler) runPattern(ctx context.Context, pattern []rumble.Step) {
	rumble.PlayPattern(ctx, pattern, func(left, right byte) {
		s.motorLeft.Store(uint32(left))
		s.motorRight.Store(uint32(right))
	})
}

func (s *Scheduler) sendFrame(state agent.State, elapsed time.Duration) {
	r, g, b := lightbar.ComputeColor(s.cfg, state, elapsed.Milliseconds())
	out := report.Output{
		LightbarR:  r,
		LightbarG:  g,
		LightbarB:  b,
		RumbleLeft:  byte(s.motorLeft.Load()),
		RumbleRight: byte(s.motorRight.Load()),
		PlayerLEDs:  byte(s.playerLEDs.Load()),
		MuteLED:     byte(s.muteLED.Load()),
	}
	data := report.Build(s.handle.Model(), s.handle.Connection(), out, &s.btSeq)
	if err := s.handle.Write(data); err != nil {
		if transport.IsDisconnect(err) {
			s.log.Debug("scheduler: write failed, device appears disconnected", "error", err)
			return
		}
		s.log.Warn("scheduler: output write failed", "error", err)
	}
}
