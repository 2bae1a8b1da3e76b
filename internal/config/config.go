// Package config defines the resolved configuration shapes consumed by the
// core. Loading these values from a TOML file on disk is an external
// collaborator's responsibility; this package only defines the struct
// shapes and their defaults.
package config

// Config is the top-level resolved configuration.
type Config struct {
	Lightbar LightbarConfig
	Buttons  ButtonConfig
	Scroll   ScrollConfig
	Stick    StickMouseConfig
	Touchpad TouchpadConfig
	Tmux     TmuxConfig
	Codex    CodexConfig

	// StateDir is where agent state files (<prefix>_agent_<id>) live.
	StateDir string
	// AgentPrefix is the <prefix> token in the agent file naming scheme.
	AgentPrefix string

	PollIntervalMs uint64
	// IdleTimeoutS is the number of seconds a Done global state must persist
	// before the aggregator sweeps it to Idle. 0 disables auto-idle.
	IdleTimeoutS uint64
	// StaleTimeoutS is how old a Working agent file's mtime may get before
	// it is considered an abandoned/crashed session and evicted.
	StaleTimeoutS uint64
	// IdleReminderS is how long a single agent may sit Idle before it
	// contributes an idle-reminder rumble signal. 0 disables reminders.
	IdleReminderS uint64
	// SubagentFilterS: an agent that transitions Working -> evicted-as-Idle
	// within this many seconds is assumed to be a short-lived subagent
	// invocation and never contributes an idle reminder. Kept configurable
	// since the right threshold is workload-dependent, defaulted short
	// relative to IdleReminderS/StaleTimeoutS.
	SubagentFilterS uint64
}

// ColorConfig is an RGB triple.
type ColorConfig struct {
	R, G, B byte
}

// LightbarConfig carries per-state solid colors and the Working pulse period.
type LightbarConfig struct {
	Idle, Working, Done, Error ColorConfig
	PulsePeriodMs              uint64
}

// ScrollConfig configures right-stick wheel scrolling.
type ScrollConfig struct {
	DeadZone    byte
	Sensitivity float32
	Horizontal  bool
}

// StickMouseConfig configures left-stick relative mouse motion.
type StickMouseConfig struct {
	Enabled     bool
	DeadZone    byte
	Sensitivity float32
}

// TouchpadConfig configures touchpad relative mouse motion.
type TouchpadConfig struct {
	Enabled     bool
	Sensitivity float32
}

// TmuxConfig configures the Tmux mapper profile. Button fields hold either
// a tmux action name (resolved via auto-detection or hardcoded defaults) or
// a direct key-combo string; empty means unmapped.
type TmuxConfig struct {
	Enabled    bool
	AutoDetect bool
	Prefix     string
	L1, R1     string
	L2, R2     string
	L3, R3     string
	Square     string
	Share      string
	Options    string
	Touchpad   string
}

// CodexConfig configures the (external) Codex JSONL bridge's done threshold,
// consumed here only as the Working->Done minimum duration for rumble gating.
type CodexConfig struct {
	Enabled         bool
	DoneThresholdS  uint64
}

// ButtonConfig configures Default-profile button-to-action bindings.
type ButtonConfig struct {
	Cross, Circle, Square, Triangle string
	L1, R1                          string
	DpadUp, DpadDown                string
	DpadLeft, DpadRight             string
}

// Default returns the baseline configuration, matching the original
// implementation's defaults.
func Default() Config {
	return Config{
		Lightbar: LightbarConfig{
			Idle:          ColorConfig{R: 255, G: 140, B: 0},
			Working:       ColorConfig{R: 0, G: 100, B: 255},
			Done:          ColorConfig{R: 0, G: 255, B: 0},
			Error:         ColorConfig{R: 0, G: 0, B: 0},
			PulsePeriodMs: 2000,
		},
		Buttons: ButtonConfig{
			Cross:     "Enter",
			Circle:    "Escape",
			Square:    "new_session",
			Triangle:  "Tab",
			L1:        "Shift+Alt+Tab",
			R1:        "Alt+Tab",
			DpadUp:    "Up",
			DpadDown:  "Down",
			DpadLeft:  "Left",
			DpadRight: "Right",
		},
		Scroll: ScrollConfig{
			DeadZone:    20,
			Sensitivity: 1.0,
			Horizontal:  true,
		},
		Stick: StickMouseConfig{
			Enabled:     false,
			DeadZone:    20,
			Sensitivity: 1.0,
		},
		Touchpad: TouchpadConfig{
			Enabled:     true,
			Sensitivity: 1.0,
		},
		Tmux: TmuxConfig{
			Enabled:    true,
			AutoDetect: true,
			Prefix:     "Ctrl+B",
			L1:         "previous-window",
			R1:         "next-window",
			L2:         "",
			R2:         "kill-window",
			L3:         "",
			R3:         "",
			Square:     "new-window",
			Share:      "",
			Options:    "",
			Touchpad:   "",
		},
		Codex: CodexConfig{
			Enabled:        true,
			DoneThresholdS: 600,
		},
		StateDir:        defaultStateDir(),
		AgentPrefix:     "ds4cc",
		PollIntervalMs:  500,
		IdleTimeoutS:    30,
		StaleTimeoutS:   600,
		IdleReminderS:   480,
		SubagentFilterS: 10,
	}
}
