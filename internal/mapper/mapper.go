package mapper

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ds4cc/ds4cc-go/internal/config"
	"github.com/ds4cc/ds4cc-go/internal/report"
)

// State is the mapper's frame-to-frame memory: previous button snapshot,
// active profile, D-pad repeat timers, scroll rate limiter, the sub-pixel
// accumulators for stick-mouse motion, and the touchpad's previous-contact
// baseline.
type State struct {
	cfg    config.Config
	tmux   TmuxState
	log    *slog.Logger

	profile Profile
	prev    report.ButtonState
	prevSet bool

	dpadUp, dpadDown, dpadLeft, dpadRight RepeatTimer
	scroll                                scrollState

	l2Held bool

	// stickModeActive is the shared mouse_stick_active toggle: the tray (or
	// any other external caller) may flip it at any time, so it is read via
	// an atomic, but the resulting cross-field bookkeeping (clearing the
	// touchpad baseline) only ever happens from Update on the input-loop
	// goroutine, on the edge where the flag's value changes.
	stickModeActive     atomic.Bool
	prevStickModeActive bool

	stickRemX, stickRemY float64
	touchActive          bool
	prevTouchX, prevTouchY int
}

// New constructs a mapper in the Default profile.
func New(cfg config.Config, detected *Detected, log *slog.Logger) *State {
	s := &State{
		cfg:     cfg,
		tmux:    newTmuxStateFromConfig(cfg.Tmux, detected, log),
		log:     log,
		profile: ProfileDefault,
	}
	s.stickModeActive.Store(cfg.Stick.Enabled)
	s.prevStickModeActive = cfg.Stick.Enabled
	return s
}

// Profile returns the currently active mapping profile.
func (s *State) Profile() Profile { return s.profile }

// SetStickModeActive flips the shared mouse_stick_active toggle: when on,
// the left stick drives mouse motion instead of the touchpad. Safe to call
// from any goroutine (the tray, typically); the corresponding touchpad
// baseline reset happens lazily on the next Update call.
func (s *State) SetStickModeActive(active bool) {
	s.stickModeActive.Store(active)
}

// StickModeActive reports the current mouse_stick_active toggle state.
func (s *State) StickModeActive() bool {
	return s.stickModeActive.Load()
}

// risingEdge reports whether cur is true and prev was false. The first
// observed frame has no prior state to compare against, so it is always
// treated as a baseline: a button already held on the very first frame does
// not fire.
func risingEdge(prev, cur bool, havePrev bool) bool {
	if !havePrev {
		return false
	}
	return cur && !prev
}

// Update consumes one input frame and returns the Actions it produces.
func (s *State) Update(in report.Input, now time.Time) []Action {
	var actions []Action
	b := in.Buttons
	p := s.prev
	havePrev := s.prevSet

	emit := func(a Action, ok bool) {
		if ok {
			actions = append(actions, a)
		}
	}

	// Always-active face buttons, regardless of profile.
	if risingEdge(p.Cross, b.Cross, havePrev) {
		emit(parseOrCustom(s.cfg.Buttons.Cross))
	}
	if risingEdge(p.Circle, b.Circle, havePrev) {
		emit(parseOrCustom(s.cfg.Buttons.Circle))
	}
	if risingEdge(p.Triangle, b.Triangle, havePrev) {
		emit(parseOrCustom(s.cfg.Buttons.Triangle))
	}

	// PS cycles the profile.
	if risingEdge(p.PS, b.PS, havePrev) {
		if s.profile == ProfileDefault {
			s.profile = ProfileTmux
		} else {
			s.profile = ProfileDefault
		}
		s.log.Debug("mapper: profile switched", "profile", s.profile.String())
	}

	// r2/l3/r3 are hardcoded and profile-independent.
	if risingEdge(p.R2, b.R2, havePrev) {
		actions = append(actions, keyCombo(Control, C))
	}
	if risingEdge(p.L3, b.L3, havePrev) {
		actions = append(actions, keyCombo(Control, T))
	}
	if risingEdge(p.R3, b.R3, havePrev) {
		actions = append(actions, keyCombo(Control, P))
	}

	switch s.profile {
	case ProfileTmux:
		actions = append(actions, s.updateTmux(p, b, havePrev)...)
	default:
		actions = append(actions, s.updateDefault(p, b, havePrev)...)
	}

	// D-pad: four independent repeat timers, one per compass direction that
	// participates in D-pad (not diagonals).
	actions = append(actions, s.updateDpad(b.DPad, now)...)

	// L2 hold: edge-triggered KeyDown/KeyUp rather than a single combo,
	// since held-modifier semantics need explicit up/down (spec supplement;
	// no original_source precedent).
	if risingEdge(p.L2, b.L2, havePrev) {
		s.l2Held = true
		actions = append(actions, keyDown(Control))
	} else if havePrev && p.L2 && !b.L2 {
		s.l2Held = false
		actions = append(actions, keyUp(Control))
	}

	// Right-stick scroll.
	if a, ok := s.scroll.process(s.cfg.Scroll, in.RightStick[0], in.RightStick[1], now); ok {
		actions = append(actions, a)
	}

	// mouse_stick_active mutually excludes stick-mouse and touchpad motion:
	// only one source ever drives the cursor at a time. Entering stick mode
	// clears the touchpad's baseline so a lingering finger doesn't cause a
	// jump once touchpad gating resumes.
	stickActive := s.stickModeActive.Load()
	if stickActive && !s.prevStickModeActive {
		s.touchActive = false
		s.prevTouchX, s.prevTouchY = 0, 0
		s.stickRemX, s.stickRemY = 0, 0
	}
	s.prevStickModeActive = stickActive

	// Left-stick relative mouse motion (supplement; sub-pixel accumulator
	// avoids losing slow, sub-1px-per-frame motion to integer truncation).
	if stickActive {
		if a, ok := s.processStickMouse(in.LeftStick[0], in.LeftStick[1]); ok {
			actions = append(actions, a)
		}
	}

	// Touchpad relative mouse motion + click (supplement).
	if !stickActive && s.cfg.Touchpad.Enabled {
		actions = append(actions, s.processTouchpad(in.Touch[0])...)
	}
	if risingEdge(p.Touchpad, b.Touchpad, havePrev) && !stickActive && s.cfg.Touchpad.Enabled {
		actions = append(actions, mouseClick())
	}

	s.prev = b
	s.prevSet = true
	return actions
}

func parseOrCustom(value string) (Action, bool) {
	if value == "" {
		return Action{}, false
	}
	if keys, ok := ParseKeyCombo(value); ok {
		return keyCombo(keys...), true
	}
	return custom(value), true
}

func (s *State) updateDefault(p, b report.ButtonState, havePrev bool) []Action {
	var out []Action
	if risingEdge(p.Square, b.Square, havePrev) {
		if a, ok := parseOrCustom(s.cfg.Buttons.Square); ok {
			out = append(out, a)
		}
	}
	if risingEdge(p.L1, b.L1, havePrev) {
		out = append(out, keyCombo(Shift, Alt, Tab))
	}
	if risingEdge(p.R1, b.R1, havePrev) {
		out = append(out, keyCombo(Alt, Tab))
	}
	return out
}

func (s *State) updateTmux(p, b report.ButtonState, havePrev bool) []Action {
	var out []Action
	fire := func(edge bool, keys []VKey, has bool) {
		if edge && has {
			out = append(out, keySequence([][]VKey{s.tmux.prefix, keys}))
		}
	}
	fire(risingEdge(p.L1, b.L1, havePrev), s.tmux.l1, s.tmux.hasL1)
	fire(risingEdge(p.R1, b.R1, havePrev), s.tmux.r1, s.tmux.hasR1)
	fire(risingEdge(p.Square, b.Square, havePrev), s.tmux.square, s.tmux.hasSquare)
	fire(risingEdge(p.L2, b.L2, havePrev), s.tmux.l2, s.tmux.hasL2)
	fire(risingEdge(p.R2, b.R2, havePrev), s.tmux.r2, s.tmux.hasR2)
	fire(risingEdge(p.Share, b.Share, havePrev), s.tmux.share, s.tmux.hasShare)
	fire(risingEdge(p.Options, b.Options, havePrev), s.tmux.options, s.tmux.hasOptions)
	fire(risingEdge(p.Touchpad, b.Touchpad, havePrev), s.tmux.touchpad, s.tmux.hasTouch)
	return out
}

// compassTimer returns the RepeatTimer for a given D-pad direction, or nil
// for directions that don't participate (diagonals are ignored for repeat).
func (s *State) compassTimer(d report.DPad) *RepeatTimer {
	switch d {
	case report.DPadUp:
		return &s.dpadUp
	case report.DPadDown:
		return &s.dpadDown
	case report.DPadLeft:
		return &s.dpadLeft
	case report.DPadRight:
		return &s.dpadRight
	default:
		return nil
	}
}

func (s *State) dpadAction(d report.DPad) (Action, bool) {
	var value string
	switch d {
	case report.DPadUp:
		value = s.cfg.Buttons.DpadUp
	case report.DPadDown:
		value = s.cfg.Buttons.DpadDown
	case report.DPadLeft:
		value = s.cfg.Buttons.DpadLeft
	case report.DPadRight:
		value = s.cfg.Buttons.DpadRight
	default:
		return Action{}, false
	}
	return parseOrCustom(value)
}

func (s *State) updateDpad(cur report.DPad, now time.Time) []Action {
	var out []Action
	directions := [4]report.DPad{report.DPadUp, report.DPadDown, report.DPadLeft, report.DPadRight}
	for _, d := range directions {
		timer := s.compassTimer(d)
		if timer == nil {
			continue
		}
		if cur == d {
			if timer.pendingSince == nil && timer.pressedAt == nil {
				timer.OnPress(now)
				continue
			}
			if timer.OnHold(now) {
				if a, ok := s.dpadAction(d); ok {
					out = append(out, a)
				}
			}
		} else {
			timer.OnRelease()
		}
	}
	return out
}

// processStickMouse converts left-stick deflection beyond the dead zone
// into fractional mouse motion, carrying the truncated remainder forward so
// slow, sub-1px-per-frame motion isn't lost to integer rounding.
func (s *State) processStickMouse(x, y byte) (Action, bool) {
	dx := int(x) - 128
	dy := int(y) - 128
	deadZone := int(s.cfg.Stick.DeadZone)
	if dx > -deadZone && dx < deadZone {
		dx = 0
	}
	if dy > -deadZone && dy < deadZone {
		dy = 0
	}
	if dx == 0 && dy == 0 {
		s.stickRemX, s.stickRemY = 0, 0
		return Action{}, false
	}

	sensitivity := float64(s.cfg.Stick.Sensitivity)
	fx := clampF(float64(dx)/127, -1, 1)*sensitivity + s.stickRemX
	fy := clampF(float64(dy)/127, -1, 1)*sensitivity + s.stickRemY

	ix, iy := int32(fx), int32(fy)
	s.stickRemX = fx - float64(ix)
	s.stickRemY = fy - float64(iy)
	if ix == 0 && iy == 0 {
		return Action{}, false
	}
	return mouseMove(ix, iy), true
}

// processTouchpad drives relative mouse motion from consecutive active
// touch contact 0. A contact transitioning from inactive to active (or the
// first observed frame) establishes a new baseline without motion, so the
// finger landing somewhere new never causes a jump.
func (s *State) processTouchpad(contact report.TouchPoint) []Action {
	if !contact.Active {
		s.touchActive = false
		return nil
	}
	if !s.touchActive {
		s.touchActive = true
		s.prevTouchX, s.prevTouchY = contact.X, contact.Y
		return nil
	}
	dx := contact.X - s.prevTouchX
	dy := contact.Y - s.prevTouchY
	s.prevTouchX, s.prevTouchY = contact.X, contact.Y
	if dx == 0 && dy == 0 {
		return nil
	}
	sensitivity := float64(s.cfg.Touchpad.Sensitivity)
	return []Action{mouseMove(int32(float64(dx)*sensitivity), int32(float64(dy)*sensitivity))}
}
