package mapper

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/ds4cc/ds4cc-go/internal/config"
	"github.com/ds4cc/ds4cc-go/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func neutralInput() report.Input {
	return report.Input{LeftStick: [2]byte{128, 128}, RightStick: [2]byte{128, 128}}
}

func TestParseKeyComboCtrlB(t *testing.T) {
	keys, ok := ParseKeyCombo("Ctrl+B")
	require.True(t, ok)
	assert.Equal(t, []VKey{Control, B}, keys)
}

func TestParseKeyComboSingleKey(t *testing.T) {
	keys, ok := ParseKeyCombo("p")
	require.True(t, ok)
	assert.Equal(t, []VKey{P}, keys)
}

func TestVKeyFromNameCoverage(t *testing.T) {
	for _, name := range []string{"a", "z", "0", "9", "f1", "f12", "enter", "esc", "ctrl", "shift", "alt"} {
		_, ok := VKeyFromName(name)
		assert.True(t, ok, "expected %q to resolve", name)
	}
	_, ok := VKeyFromName("not-a-key")
	assert.False(t, ok)
}

func TestRisingEdgeIgnoresFirstFrame(t *testing.T) {
	assert.False(t, risingEdge(false, true, false))
	assert.True(t, risingEdge(false, true, true))
	assert.False(t, risingEdge(true, true, true))
}

func TestDetectsRisingEdgeCrossFiresEnter(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.Buttons.Cross = true
	actions := m.Update(in, time.Now())
	require.Len(t, actions, 1)
	assert.Equal(t, ActionKeyCombo, actions[0].Kind)
	assert.Equal(t, []VKey{Return}, actions[0].Keys)
}

func TestL1ProducesShiftAltTab(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.Buttons.L1 = true
	actions := m.Update(in, time.Now())
	require.Len(t, actions, 1)
	assert.Equal(t, []VKey{Shift, Alt, Tab}, actions[0].Keys)
}

func TestSquareProducesCustomNewSession(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.Buttons.Square = true
	actions := m.Update(in, time.Now())
	require.Len(t, actions, 1)
	assert.Equal(t, ActionCustom, actions[0].Kind)
	assert.Equal(t, "new_session", actions[0].Name)
}

func TestPSCyclesProfile(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())
	assert.Equal(t, ProfileDefault, m.Profile())

	in := neutralInput()
	in.Buttons.PS = true
	m.Update(in, time.Now())
	assert.Equal(t, ProfileTmux, m.Profile())

	m.Update(neutralInput(), time.Now())
	in2 := neutralInput()
	in2.Buttons.PS = true
	m.Update(in2, time.Now())
	assert.Equal(t, ProfileDefault, m.Profile())
}

func TestDefaultProfileL2DoesNothingBesidesHold(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.Buttons.L2 = true
	actions := m.Update(in, time.Now())
	require.Len(t, actions, 1)
	assert.Equal(t, ActionKeyDown, actions[0].Kind)
}

func TestR3CtrlPBothProfiles(t *testing.T) {
	for _, startTmux := range []bool{false, true} {
		m := New(config.Default(), nil, testLogger())
		m.Update(neutralInput(), time.Now())
		if startTmux {
			in := neutralInput()
			in.Buttons.PS = true
			m.Update(in, time.Now())
			m.Update(neutralInput(), time.Now())
		}
		in := neutralInput()
		in.Buttons.R3 = true
		actions := m.Update(in, time.Now())
		require.Len(t, actions, 1)
		assert.Equal(t, []VKey{Control, P}, actions[0].Keys)
	}
}

func TestTmuxMappedButtonFiresPrefixedSequence(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())
	in := neutralInput()
	in.Buttons.PS = true
	m.Update(in, time.Now())
	m.Update(neutralInput(), time.Now())

	in2 := neutralInput()
	in2.Buttons.L1 = true
	actions := m.Update(in2, time.Now())
	require.Len(t, actions, 1)
	assert.Equal(t, ActionKeySequence, actions[0].Kind)
	require.Len(t, actions[0].Sequence, 2)
	assert.Equal(t, []VKey{Control, B}, actions[0].Sequence[0])
	assert.Equal(t, []VKey{P}, actions[0].Sequence[1])
}

func TestTmuxUnmappedButtonDoesNothing(t *testing.T) {
	cfg := config.Default()
	cfg.Tmux.L3 = ""
	m := New(cfg, nil, testLogger())
	m.Update(neutralInput(), time.Now())
	in := neutralInput()
	in.Buttons.PS = true
	m.Update(in, time.Now())
	m.Update(neutralInput(), time.Now())

	in2 := neutralInput()
	in2.Buttons.Share = true
	actions := m.Update(in2, time.Now())
	assert.Len(t, actions, 0)
}

func TestDpadTwoFrameConfirm(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	base := time.Now()
	m.Update(neutralInput(), base)

	in := neutralInput()
	in.Buttons.DPad = report.DPadUp

	actions := m.Update(in, base.Add(1*time.Millisecond))
	assert.Len(t, actions, 0, "first frame is pending, not confirmed")

	actions = m.Update(in, base.Add(2*time.Millisecond))
	require.Len(t, actions, 1, "second consecutive frame confirms")
	assert.Equal(t, []VKey{Up}, actions[0].Keys)
}

func TestDpadSingleFrameGlitchFiltered(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	base := time.Now()
	m.Update(neutralInput(), base)

	in := neutralInput()
	in.Buttons.DPad = report.DPadUp
	m.Update(in, base.Add(1*time.Millisecond))

	actions := m.Update(neutralInput(), base.Add(2*time.Millisecond))
	assert.Len(t, actions, 0)
}

func TestDpadHoldRepeats(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	base := time.Now()
	m.Update(neutralInput(), base)

	in := neutralInput()
	in.Buttons.DPad = report.DPadDown

	m.Update(in, base.Add(1*time.Millisecond))       // pending
	m.Update(in, base.Add(2*time.Millisecond))        // confirm, fires
	noRepeatYet := m.Update(in, base.Add(50*time.Millisecond))
	assert.Len(t, noRepeatYet, 0, "before repeatDelay elapses, no repeat")

	repeated := m.Update(in, base.Add(310*time.Millisecond))
	require.Len(t, repeated, 1)
	assert.Equal(t, []VKey{Down}, repeated[0].Keys)
}

func TestScrollDeadZoneNoAction(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.RightStick = [2]byte{128 + 5, 128}
	actions := m.Update(in, time.Now())
	assert.Len(t, actions, 0)
}

func TestScrollBeyondDeadZoneFires(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.RightStick = [2]byte{128, 0} // full deflection up
	actions := m.Update(in, time.Now())
	require.Len(t, actions, 1)
	assert.Equal(t, ActionScroll, actions[0].Kind)
	assert.Greater(t, actions[0].Vertical, int32(0))
}

func TestScrollDownNegativeVertical(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.RightStick = [2]byte{128, 255} // full deflection down
	actions := m.Update(in, time.Now())
	require.Len(t, actions, 1)
	assert.Less(t, actions[0].Vertical, int32(0))
}

func TestScrollRateLimited(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.RightStick = [2]byte{128, 0}
	now := time.Now()
	first := m.Update(in, now)
	require.Len(t, first, 1)

	second := m.Update(in, now.Add(1*time.Millisecond))
	assert.Len(t, second, 0, "well within min interval")
}

func TestStickMouseDisabledByDefault(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.LeftStick = [2]byte{255, 255}
	actions := m.Update(in, time.Now())
	for _, a := range actions {
		assert.NotEqual(t, ActionMouseMove, a.Kind)
	}
}

func TestTouchpadMotionProducesMouseMove(t *testing.T) {
	cfg := config.Default()
	m := New(cfg, nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.Touch[0] = report.TouchPoint{Active: true, X: 100, Y: 100}
	first := m.Update(in, time.Now())
	for _, a := range first {
		assert.NotEqual(t, ActionMouseMove, a.Kind, "first contact frame only sets baseline")
	}

	in2 := neutralInput()
	in2.Touch[0] = report.TouchPoint{Active: true, X: 110, Y: 105}
	second := m.Update(in2, time.Now())
	require.Len(t, second, 1)
	assert.Equal(t, ActionMouseMove, second[0].Kind)
	assert.Equal(t, int32(10), second[0].DX)
	assert.Equal(t, int32(5), second[0].DY)
}

func TestTouchpadClickOnRisingEdge(t *testing.T) {
	m := New(config.Default(), nil, testLogger())
	m.Update(neutralInput(), time.Now())

	in := neutralInput()
	in.Buttons.Touchpad = true
	actions := m.Update(in, time.Now())
	var sawClick bool
	for _, a := range actions {
		if a.Kind == ActionMouseClick {
			sawClick = true
		}
	}
	assert.True(t, sawClick)
}

// TestStickMouseSubPixelAccumulation checks the testable property: with
// sensitivity 0.3 and constant deflection 64/127, cumulative dx after N
// frames is within +/-1 of round(N * 0.3 * 64/127).
func TestStickMouseSubPixelAccumulation(t *testing.T) {
	cfg := config.Default()
	cfg.Stick.Enabled = true
	cfg.Stick.DeadZone = 0
	cfg.Stick.Sensitivity = 0.3
	m := New(cfg, nil, testLogger())
	m.Update(neutralInput(), time.Now())

	const n = 50
	var cumulative int32
	for i := 0; i < n; i++ {
		in := neutralInput()
		in.LeftStick = [2]byte{128 + 64, 128}
		actions := m.Update(in, time.Now())
		for _, a := range actions {
			if a.Kind == ActionMouseMove {
				cumulative += a.DX
			}
		}
	}

	expected := int32(math.Round(float64(n) * 0.3 * 64 / 127))
	diff := cumulative - expected
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, int32(1))
}

func TestStickModeActiveExcludesTouchpadAndClearsBaseline(t *testing.T) {
	cfg := config.Default()
	cfg.Stick.Enabled = false
	cfg.Stick.DeadZone = 0
	cfg.Touchpad.Enabled = true
	m := New(cfg, nil, testLogger())
	m.Update(neutralInput(), time.Now())

	// Establish a touchpad baseline.
	in := neutralInput()
	in.Touch[0] = report.TouchPoint{Active: true, X: 100, Y: 100}
	m.Update(in, time.Now())

	// Entering stick mode should clear that baseline and stop touchpad
	// motion from reaching actions even though Touchpad.Enabled is true.
	m.SetStickModeActive(true)
	in2 := neutralInput()
	in2.Touch[0] = report.TouchPoint{Active: true, X: 150, Y: 140}
	actions := m.Update(in2, time.Now())
	for _, a := range actions {
		assert.NotEqual(t, ActionMouseMove, a.Kind, "touchpad motion must be suppressed while stick mode is active")
	}

	// Leaving stick mode and touching again should start a fresh baseline
	// too (no jump from the pre-stick-mode position).
	m.SetStickModeActive(false)
	in3 := neutralInput()
	in3.Touch[0] = report.TouchPoint{Active: true, X: 150, Y: 140}
	actions3 := m.Update(in3, time.Now())
	for _, a := range actions3 {
		assert.NotEqual(t, ActionMouseMove, a.Kind, "re-entering touchpad mode should rebaseline, not jump")
	}
}
