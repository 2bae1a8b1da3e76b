// Package mapper turns a report.Input frame into a list of Actions:
// keyboard combos, held modifiers, scroll/mouse motion, and profile
// switches. It never executes actions itself — that is the job of a
// platform injection sink (internal/inject).
package mapper

import "strings"

// VKey is a platform-independent key identifier; internal/inject maps
// these to Windows virtual-key codes.
type VKey int

const (
	Return VKey = iota
	Escape
	Tab
	Up
	Down
	Left
	Right
	Alt
	Shift
	Control
	Win
	Space
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	D0
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	D8
	D9
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	Semicolon
	LeftBracket
	RightBracket
	Backslash
	Quote
	Slash
	Minus
	Equals
	Comma
	Period
	Backtick
)

var namesToKey = map[string]VKey{
	"return": Return, "enter": Return,
	"escape": Escape, "esc": Escape,
	"tab":     Tab,
	"up":      Up,
	"down":    Down,
	"left":    Left,
	"right":   Right,
	"alt":     Alt,
	"shift":   Shift,
	"ctrl":    Control, "control": Control,
	"win": Win, "meta": Win, "super": Win,
	"space": Space,
	"a": A, "b": B, "c": C, "d": D, "e": E, "f": F, "g": G, "h": H,
	"i": I, "j": J, "k": K, "l": L, "m": M, "n": N, "o": O, "p": P,
	"q": Q, "r": R, "s": S, "t": T, "u": U, "v": V, "w": W, "x": X,
	"y": Y, "z": Z,
	"0": D0, "1": D1, "2": D2, "3": D3, "4": D4,
	"5": D5, "6": D6, "7": D7, "8": D8, "9": D9,
	"f1": F1, "f2": F2, "f3": F3, "f4": F4, "f5": F5, "f6": F6,
	"f7": F7, "f8": F8, "f9": F9, "f10": F10, "f11": F11, "f12": F12,
	";": Semicolon, "semicolon": Semicolon,
	"[": LeftBracket, "leftbracket": LeftBracket,
	"]": RightBracket, "rightbracket": RightBracket,
	"\\": Backslash, "backslash": Backslash,
	"'": Quote, "quote": Quote,
	"/": Slash, "slash": Slash,
	"-": Minus, "minus": Minus,
	"=": Equals, "equals": Equals,
	",": Comma, "comma": Comma,
	".": Period, "period": Period,
	"`": Backtick, "backtick": Backtick,
}

// VKeyFromName parses a single key-name token, case-insensitive.
func VKeyFromName(s string) (VKey, bool) {
	k, ok := namesToKey[strings.ToLower(s)]
	return k, ok
}

// ParseKeyCombo parses a '+'-separated combo string like "Ctrl+B" or "p"
// into an ordered list of VKeys. An unknown token fails the whole parse.
func ParseKeyCombo(s string) ([]VKey, bool) {
	parts := strings.Split(s, "+")
	keys := make([]VKey, 0, len(parts))
	for _, part := range parts {
		k, ok := VKeyFromName(strings.TrimSpace(part))
		if !ok {
			return nil, false
		}
		keys = append(keys, k)
	}
	return keys, true
}
