package rumble

import (
	"context"
	"testing"
	"time"

	"github.com/ds4cc/ds4cc-go/internal/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternForWorkingToDone(t *testing.T) {
	steps, ok := PatternForTransition(agent.Working, agent.Done)
	require.True(t, ok)
	require.Len(t, steps, 3)
	assert.Equal(t, byte(180), steps[0].Left)
}

func TestNoPatternForErrorTransitions(t *testing.T) {
	_, ok := PatternForTransition(agent.Working, agent.Error)
	assert.False(t, ok)
	_, ok = PatternForTransition(agent.Idle, agent.Error)
	assert.False(t, ok)
}

func TestNoPatternForIdleToWorking(t *testing.T) {
	_, ok := PatternForTransition(agent.Idle, agent.Working)
	assert.False(t, ok)
}

func TestPlayPatternEndsWithZero(t *testing.T) {
	var calls [][2]byte
	pattern := []Step{{Left: 100, Right: 100, Duration: time.Millisecond}}
	PlayPattern(context.Background(), pattern, func(l, r byte) {
		calls = append(calls, [2]byte{l, r})
	})
	require.Len(t, calls, 2)
	assert.Equal(t, [2]byte{100, 100}, calls[0])
	assert.Equal(t, [2]byte{0, 0}, calls[1])
}
