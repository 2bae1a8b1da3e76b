package inject

import (
	"testing"

	"github.com/ds4cc/ds4cc-go/internal/mapper"
	"github.com/stretchr/testify/assert"
)

func TestVKCodeKnownKeysAreNonZero(t *testing.T) {
	keys := []mapper.VKey{
		mapper.Return, mapper.Escape, mapper.Tab, mapper.Control, mapper.Shift,
		mapper.Alt, mapper.A, mapper.Z, mapper.D0, mapper.D9, mapper.F1, mapper.F12,
		mapper.Semicolon, mapper.Backtick,
	}
	for _, k := range keys {
		assert.NotZero(t, vkCode(k), "key %v should map to a nonzero VK code", k)
	}
}

func TestVKCodeMatchesWindowsConstants(t *testing.T) {
	assert.Equal(t, uint16(0x0D), vkCode(mapper.Return))
	assert.Equal(t, uint16(0x41), vkCode(mapper.A))
	assert.Equal(t, uint16(0x30), vkCode(mapper.D0))
	assert.Equal(t, uint16(0x11), vkCode(mapper.Control))
}
