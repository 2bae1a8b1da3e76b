// Package rumble plays haptic patterns as a sequence of motor-level steps,
// handing each step to a caller-provided sink rather than writing HID
// reports directly — the output scheduler is the sole report writer.
package rumble

import (
	"context"
	"time"

	"github.com/ds4cc/ds4cc-go/internal/agent"
)

// Step is one motor-level hold in a pattern.
type Step struct {
	Left, Right byte
	Duration    time.Duration
}

// PatternForTransition returns the rumble pattern for a global-state
// transition, or ok=false if the transition has no haptic treatment.
// Only Working->Done has a pattern; notably Error produces no rumble at
// all — the agent keeps resolving, it isn't worth alarming over.
func PatternForTransition(from, to agent.State) ([]Step, bool) {
	if from == agent.Working && to == agent.Done {
		return []Step{
			{Left: 180, Right: 180, Duration: 120 * time.Millisecond},
			{Left: 0, Right: 0, Duration: 100 * time.Millisecond},
			{Left: 180, Right: 180, Duration: 120 * time.Millisecond},
		}, true
	}
	return nil, false
}

// IdleReminderPattern returns the single-buzz attention pattern used when
// an agent has sat idle past its reminder threshold.
func IdleReminderPattern() []Step {
	return []Step{
		{Left: 255, Right: 255, Duration: 300 * time.Millisecond},
	}
}

// PlayPattern iterates pattern's steps, invoking setMotors and sleeping for
// each step's duration, and always finishes by clearing the motors with a
// final setMotors(0, 0) — whether the pattern ran to completion or ctx was
// cancelled mid-pattern (e.g. a reconnect or a mute-triggered cancellation),
// so a runner never leaves the atomics stuck at a nonzero level.
func PlayPattern(ctx context.Context, pattern []Step, setMotors func(left, right byte)) {
	defer setMotors(0, 0)
	for _, step := range pattern {
		setMotors(step.Left, step.Right)
		select {
		case <-time.After(step.Duration):
		case <-ctx.Done():
			return
		}
	}
}
