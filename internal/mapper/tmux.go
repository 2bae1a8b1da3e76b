package mapper

import (
	"log/slog"

	"github.com/ds4cc/ds4cc-go/internal/config"
)

// Profile is the active button-mapping set, cycled by the PS button.
type Profile int

const (
	ProfileDefault Profile = iota
	ProfileTmux
)

func (p Profile) String() string {
	if p == ProfileTmux {
		return "tmux"
	}
	return "default"
}

// Detected holds tmux bindings resolved by an external auto-detector
// (querying a running tmux server via WSL). Only the resolved map crosses
// into the mapper; the detection itself is out of scope for the core.
type Detected struct {
	Prefix        []VKey
	ActionToKeys  map[string][]VKey
}

func (d *Detected) keyForAction(action string) ([]VKey, bool) {
	if d == nil || d.ActionToKeys == nil {
		return nil, false
	}
	keys, ok := d.ActionToKeys[action]
	return keys, ok
}

// defaultKeyForAction is the hardcoded fallback table for well-known tmux
// action names, used when auto-detection is unavailable or doesn't cover
// a given action.
func defaultKeyForAction(action string) ([]VKey, bool) {
	switch action {
	case "previous-window":
		return []VKey{P}, true
	case "next-window":
		return []VKey{N}, true
	case "new-window":
		return []VKey{C}, true
	case "kill-window":
		return []VKey{Shift, D7}, true // &
	case "copy-mode":
		return []VKey{LeftBracket}, true
	case "resize-pane -Z":
		return []VKey{Z}, true
	case "last-pane":
		return []VKey{Semicolon}, true
	case "select-pane":
		return []VKey{O}, true
	case "last-window":
		return []VKey{L}, true
	case "detach-client":
		return []VKey{D}, true
	case "split-window -h":
		return []VKey{Shift, D5}, true // %
	case "split-window -v":
		return []VKey{Shift, Quote}, true // "
	default:
		return nil, false
	}
}

// resolveButton resolves a button's configured value to a key combo per
// spec: empty is unmapped; then detected bindings; then hardcoded
// defaults; finally a direct combo-string parse.
func resolveButton(value string, detected *Detected, log *slog.Logger) ([]VKey, bool) {
	if value == "" {
		return nil, false
	}
	if keys, ok := detected.keyForAction(value); ok {
		log.Debug("mapper: resolved tmux action from detected bindings", "action", value)
		return keys, true
	}
	if keys, ok := defaultKeyForAction(value); ok {
		log.Debug("mapper: resolved tmux action from hardcoded defaults", "action", value)
		return keys, true
	}
	return ParseKeyCombo(value)
}

// TmuxState holds resolved tmux button mappings, parsed once at
// construction time.
type TmuxState struct {
	prefix                                   []VKey
	l1, r1, l2, r2, l3, r3                    []VKey
	square, share, options, touchpad         []VKey
	hasL1, hasR1, hasL2, hasR2, hasL3, hasR3  bool
	hasSquare, hasShare, hasOptions, hasTouch bool
}

// newTmuxStateFromConfig resolves every tmux button binding once at
// construction time: auto-detected tmux bindings take priority over the
// hardcoded defaults, which take priority over a direct combo-string parse.
// detected should be nil when cfg.AutoDetect is false.
func newTmuxStateFromConfig(cfg config.TmuxConfig, detected *Detected, log *slog.Logger) TmuxState {
	resolve := func(s string) ([]VKey, bool) { return resolveButton(s, detected, log) }

	var prefix []VKey
	if cfg.AutoDetect && detected != nil && len(detected.Prefix) > 0 {
		prefix = detected.Prefix
	} else if keys, ok := ParseKeyCombo(cfg.Prefix); ok {
		prefix = keys
	} else {
		prefix = []VKey{Control, B}
	}

	ts := TmuxState{prefix: prefix}
	ts.l1, ts.hasL1 = resolve(cfg.L1)
	ts.r1, ts.hasR1 = resolve(cfg.R1)
	ts.l2, ts.hasL2 = resolve(cfg.L2)
	ts.r2, ts.hasR2 = resolve(cfg.R2)
	ts.l3, ts.hasL3 = resolve(cfg.L3)
	ts.r3, ts.hasR3 = resolve(cfg.R3)
	ts.square, ts.hasSquare = resolve(cfg.Square)
	ts.share, ts.hasShare = resolve(cfg.Share)
	ts.options, ts.hasOptions = resolve(cfg.Options)
	ts.touchpad, ts.hasTouch = resolve(cfg.Touchpad)
	return ts
}
