package mapper

// ActionKind tags which fields of Action are populated. Go has no sum
// types; this mirrors the kind-tag + payload convention used elsewhere in
// the retrieved example pack for heterogeneous event dispatch.
type ActionKind int

const (
	ActionKeyCombo ActionKind = iota
	ActionKeyDown
	ActionKeyUp
	ActionKeySequence
	ActionScroll
	ActionMouseMove
	ActionMouseClick
	ActionCustom
)

// Action is one unit of output work for the frame, to be executed by a
// platform injection sink.
type Action struct {
	Kind ActionKind

	// KeyCombo / KeyDown / KeyUp
	Keys []VKey
	// KeySequence
	Sequence [][]VKey
	// Scroll
	Horizontal, Vertical int32
	// MouseMove
	DX, DY int32
	// Custom
	Name string
}

func keyCombo(keys ...VKey) Action { return Action{Kind: ActionKeyCombo, Keys: keys} }
func keyDown(keys ...VKey) Action  { return Action{Kind: ActionKeyDown, Keys: keys} }
func keyUp(keys ...VKey) Action    { return Action{Kind: ActionKeyUp, Keys: keys} }
func keySequence(seq [][]VKey) Action {
	return Action{Kind: ActionKeySequence, Sequence: seq}
}
func scrollAction(h, v int32) Action { return Action{Kind: ActionScroll, Horizontal: h, Vertical: v} }
func mouseMove(dx, dy int32) Action  { return Action{Kind: ActionMouseMove, DX: dx, DY: dy} }
func mouseClick() Action             { return Action{Kind: ActionMouseClick} }
func custom(name string) Action      { return Action{Kind: ActionCustom, Name: name} }
