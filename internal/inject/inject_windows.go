//go:build windows

package inject

import (
	"log/slog"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ds4cc/ds4cc-go/internal/mapper"
)

const (
	inputKeyboard = 1
	inputMouse    = 0

	keyEventFKeyUp    = 0x0002
	mouseEventFWheel  = 0x0800
	mouseEventFHWheel = 0x01000
	mouseEventFMove   = 0x0001
	mouseEventFLeftDown = 0x0002
	mouseEventFLeftUp   = 0x0004
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

// keybdInput mirrors Win32 KEYBDINPUT, padded to the union size SendInput
// expects inside INPUT.
type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// mouseInput mirrors Win32 MOUSEINPUT.
type mouseInput struct {
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// input mirrors Win32 INPUT: a type tag followed by the largest union
// member's storage, padded to accommodate either payload on both 32- and
// 64-bit builds.
type input struct {
	kind    uint32
	padding uint32
	payload [24]byte
}

func makeKeyInput(vk uint16, flags uint32) input {
	var in input
	in.kind = inputKeyboard
	ki := keybdInput{wVk: vk, dwFlags: flags}
	*(*keybdInput)(unsafe.Pointer(&in.payload[0])) = ki
	return in
}

func makeMouseInput(flags uint32, wheelDelta int32) input {
	var in input
	in.kind = inputMouse
	mi := mouseInput{mouseData: uint32(wheelDelta), dwFlags: flags}
	*(*mouseInput)(unsafe.Pointer(&in.payload[0])) = mi
	return in
}

func makeMouseMoveInput(dx, dy int32) input {
	var in input
	in.kind = inputMouse
	mi := mouseInput{dx: dx, dy: dy, dwFlags: mouseEventFMove}
	*(*mouseInput)(unsafe.Pointer(&in.payload[0])) = mi
	return in
}

func makeMouseClickInput(flags uint32) input {
	var in input
	in.kind = inputMouse
	mi := mouseInput{dwFlags: flags}
	*(*mouseInput)(unsafe.Pointer(&in.payload[0])) = mi
	return in
}

func sendInputs(inputs []input) {
	if len(inputs) == 0 {
		return
	}
	size := unsafe.Sizeof(input{})
	procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		uintptr(size),
	)
}

// Sink executes Actions via Win32 SendInput.
type Sink struct {
	log *slog.Logger
}

// NewSink constructs a Windows injection sink.
func NewSink(log *slog.Logger) *Sink {
	return &Sink{log: log}
}

// sendKeyCombo presses modifiers in order, taps the main key, then releases
// modifiers in reverse order, as a single atomic SendInput call.
func (s *Sink) sendKeyCombo(keys []mapper.VKey) {
	if len(keys) == 0 {
		return
	}
	modifiers, mainKey := keys[:len(keys)-1], keys[len(keys)-1]
	inputs := make([]input, 0, len(keys)*2)
	for _, m := range modifiers {
		inputs = append(inputs, makeKeyInput(vkCode(m), 0))
	}
	inputs = append(inputs, makeKeyInput(vkCode(mainKey), 0))
	inputs = append(inputs, makeKeyInput(vkCode(mainKey), keyEventFKeyUp))
	for i := len(modifiers) - 1; i >= 0; i-- {
		inputs = append(inputs, makeKeyInput(vkCode(modifiers[i]), keyEventFKeyUp))
	}
	sendInputs(inputs)
}

func (s *Sink) sendKeyDown(keys []mapper.VKey) {
	inputs := make([]input, 0, len(keys))
	for _, k := range keys {
		inputs = append(inputs, makeKeyInput(vkCode(k), 0))
	}
	sendInputs(inputs)
}

func (s *Sink) sendKeyUp(keys []mapper.VKey) {
	inputs := make([]input, 0, len(keys))
	for _, k := range keys {
		inputs = append(inputs, makeKeyInput(vkCode(k), keyEventFKeyUp))
	}
	sendInputs(inputs)
}

// sendKeySequence sends each combo in turn with a short delay between them,
// so a tmux prefix combo reliably lands before the following action key.
func (s *Sink) sendKeySequence(combos [][]mapper.VKey, delay time.Duration) {
	for i, combo := range combos {
		s.sendKeyCombo(combo)
		if i < len(combos)-1 {
			time.Sleep(delay)
		}
	}
}

func (s *Sink) sendScroll(horizontal, vertical int32) {
	var inputs []input
	if vertical != 0 {
		inputs = append(inputs, makeMouseInput(mouseEventFWheel, vertical))
	}
	if horizontal != 0 {
		inputs = append(inputs, makeMouseInput(mouseEventFHWheel, horizontal))
	}
	sendInputs(inputs)
}

func (s *Sink) sendMouseMove(dx, dy int32) {
	if dx == 0 && dy == 0 {
		return
	}
	sendInputs([]input{makeMouseMoveInput(dx, dy)})
}

func (s *Sink) sendMouseClick() {
	sendInputs([]input{
		makeMouseClickInput(mouseEventFLeftDown),
		makeMouseClickInput(mouseEventFLeftUp),
	})
}

// Execute dispatches a single Action to the appropriate SendInput call.
func (s *Sink) Execute(a mapper.Action) {
	switch a.Kind {
	case mapper.ActionKeyCombo:
		s.sendKeyCombo(a.Keys)
	case mapper.ActionKeyDown:
		s.sendKeyDown(a.Keys)
	case mapper.ActionKeyUp:
		s.sendKeyUp(a.Keys)
	case mapper.ActionKeySequence:
		s.sendKeySequence(a.Sequence, 10*time.Millisecond)
	case mapper.ActionScroll:
		s.sendScroll(a.Horizontal, a.Vertical)
	case mapper.ActionMouseMove:
		s.sendMouseMove(a.DX, a.DY)
	case mapper.ActionMouseClick:
		s.sendMouseClick()
	case mapper.ActionCustom:
		s.log.Info("custom action triggered", "name", a.Name)
	}
}
