// Package inject executes mapper.Actions as real OS keyboard/mouse events.
// The Windows implementation calls user32.SendInput directly; non-Windows
// builds log what would have been sent and no-op, so the core can be built
// and tested on any platform.
package inject

import "github.com/ds4cc/ds4cc-go/internal/mapper"

// vkCode maps a platform-independent VKey to its Windows virtual-key code.
func vkCode(k mapper.VKey) uint16 {
	switch k {
	case mapper.Return:
		return 0x0D
	case mapper.Escape:
		return 0x1B
	case mapper.Tab:
		return 0x09
	case mapper.Up:
		return 0x26
	case mapper.Down:
		return 0x28
	case mapper.Left:
		return 0x25
	case mapper.Right:
		return 0x27
	case mapper.Alt:
		return 0x12 // VK_MENU
	case mapper.Shift:
		return 0x10
	case mapper.Control:
		return 0x11
	case mapper.Win:
		return 0x5B // VK_LWIN
	case mapper.Space:
		return 0x20
	case mapper.A:
		return 0x41
	case mapper.B:
		return 0x42
	case mapper.C:
		return 0x43
	case mapper.D:
		return 0x44
	case mapper.E:
		return 0x45
	case mapper.F:
		return 0x46
	case mapper.G:
		return 0x47
	case mapper.H:
		return 0x48
	case mapper.I:
		return 0x49
	case mapper.J:
		return 0x4A
	case mapper.K:
		return 0x4B
	case mapper.L:
		return 0x4C
	case mapper.M:
		return 0x4D
	case mapper.N:
		return 0x4E
	case mapper.O:
		return 0x4F
	case mapper.P:
		return 0x50
	case mapper.Q:
		return 0x51
	case mapper.R:
		return 0x52
	case mapper.S:
		return 0x53
	case mapper.T:
		return 0x54
	case mapper.U:
		return 0x55
	case mapper.V:
		return 0x56
	case mapper.W:
		return 0x57
	case mapper.X:
		return 0x58
	case mapper.Y:
		return 0x59
	case mapper.Z:
		return 0x5A
	case mapper.D0:
		return 0x30
	case mapper.D1:
		return 0x31
	case mapper.D2:
		return 0x32
	case mapper.D3:
		return 0x33
	case mapper.D4:
		return 0x34
	case mapper.D5:
		return 0x35
	case mapper.D6:
		return 0x36
	case mapper.D7:
		return 0x37
	case mapper.D8:
		return 0x38
	case mapper.D9:
		return 0x39
	case mapper.F1:
		return 0x70
	case mapper.F2:
		return 0x71
	case mapper.F3:
		return 0x72
	case mapper.F4:
		return 0x73
	case mapper.F5:
		return 0x74
	case mapper.F6:
		return 0x75
	case mapper.F7:
		return 0x76
	case mapper.F8:
		return 0x77
	case mapper.F9:
		return 0x78
	case mapper.F10:
		return 0x79
	case mapper.F11:
		return 0x7A
	case mapper.F12:
		return 0x7B
	case mapper.Semicolon:
		return 0xBA // VK_OEM_1
	case mapper.LeftBracket:
		return 0xDB // VK_OEM_4
	case mapper.RightBracket:
		return 0xDD // VK_OEM_6
	case mapper.Backslash:
		return 0xDC // VK_OEM_5
	case mapper.Quote:
		return 0xDE // VK_OEM_7
	case mapper.Slash:
		return 0xBF // VK_OEM_2
	case mapper.Minus:
		return 0xBD // VK_OEM_MINUS
	case mapper.Equals:
		return 0xBB // VK_OEM_PLUS
	case mapper.Comma:
		return 0xBC // VK_OEM_COMMA
	case mapper.Period:
		return 0xBE // VK_OEM_PERIOD
	case mapper.Backtick:
		return 0xC0 // VK_OEM_3
	default:
		return 0
	}
}
