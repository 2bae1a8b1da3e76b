package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchGetReturnsInitialValue(t *testing.T) {
	w := NewWatch(Idle)
	assert.Equal(t, Idle, w.Get())
}

func TestWatchSetIgnoresNoOpChange(t *testing.T) {
	w := NewWatch(Idle)
	done := make(chan struct{})
	go func() {
		w.Changed(0)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	w.Set(Idle) // no-op, must not wake the waiter
	select {
	case <-done:
		t.Fatal("Changed returned on a no-op Set")
	case <-time.After(20 * time.Millisecond):
	}
	w.Set(Working)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Changed never returned after a real Set")
	}
}

func TestWatchChangedCtxReturnsOnChange(t *testing.T) {
	w := NewWatch(Idle)
	go func() {
		time.Sleep(5 * time.Millisecond)
		w.Set(Working)
	}()
	state, _, ok := w.ChangedCtx(context.Background(), 0)
	require.True(t, ok)
	assert.Equal(t, Working, state)
}

func TestWatchChangedCtxCancelled(t *testing.T) {
	w := NewWatch(Idle)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, ok := w.ChangedCtx(ctx, 0)
	assert.False(t, ok)
}
