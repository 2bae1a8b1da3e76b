package mapper

import (
	"time"

	"github.com/ds4cc/ds4cc-go/internal/config"
)

const wheelDelta = 120

// scrollState tracks the rate limiter for wheel-scroll output derived from
// right-stick deflection: the fire interval shrinks linearly from
// scrollMaxIntervalMs at the dead zone edge down to scrollMinIntervalMs at
// full deflection.
type scrollState struct {
	lastFired *time.Time
}

const (
	scrollMinIntervalMs = 30
	scrollMaxIntervalMs = 200
)

func clampF(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// process converts right-stick deflection into a scroll Action, rate
// limited by deflection magnitude. Both axes centered within the dead zone
// reset the rate limiter (so the next deflection fires immediately) and
// produce no action.
func (s *scrollState) process(cfg config.ScrollConfig, stickX, stickY byte, now time.Time) (Action, bool) {
	dx := int(stickX) - 128
	dy := int(stickY) - 128

	deadZone := int(cfg.DeadZone)
	if dx > -deadZone && dx < deadZone {
		dx = 0
	}
	if dy > -deadZone && dy < deadZone {
		dy = 0
	}
	if !cfg.Horizontal {
		dx = 0
	}

	if dx == 0 && dy == 0 {
		s.lastFired = nil
		return Action{}, false
	}

	absDx, absDy := dx, dy
	if absDx < 0 {
		absDx = -absDx
	}
	if absDy < 0 {
		absDy = -absDy
	}
	maxDeflection := absDx
	if absDy > maxDeflection {
		maxDeflection = absDy
	}

	deflectionRange := 127 - deadZone
	if deflectionRange <= 0 {
		deflectionRange = 1
	}
	fraction := clampF(float64(maxDeflection-deadZone)/float64(deflectionRange), 0, 1)
	intervalMs := scrollMaxIntervalMs - fraction*(scrollMaxIntervalMs-scrollMinIntervalMs)
	interval := time.Duration(intervalMs * float64(time.Millisecond))

	if s.lastFired != nil && now.Sub(*s.lastFired) < interval {
		return Action{}, false
	}

	vertical := clampF(float64(dy)/-127, -1, 1) * float64(cfg.Sensitivity) * wheelDelta
	horizontal := clampF(float64(dx)/127, -1, 1) * float64(cfg.Sensitivity) * wheelDelta

	t := now
	s.lastFired = &t
	return scrollAction(int32(horizontal), int32(vertical)), true
}
