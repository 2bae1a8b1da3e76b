// Package lightbar computes the controller lightbar color from the current
// aggregate agent state and time spent in that state.
package lightbar

import (
	"math"

	"github.com/ds4cc/ds4cc-go/internal/agent"
	"github.com/ds4cc/ds4cc-go/internal/config"
)

// ComputeColor returns the RGB triple for state at elapsedMs since the
// state was entered. Idle/Done/Error are solid colors from cfg; Working
// pulses sinusoidally between 30% and 100% brightness of its base color.
func ComputeColor(cfg config.LightbarConfig, state agent.State, elapsedMs int64) (r, g, b byte) {
	switch state {
	case agent.Working:
		phase := float64(elapsedMs) / float64(cfg.PulsePeriodMs) * 2 * math.Pi
		brightness := 0.65 + 0.35*math.Sin(phase)
		return scale(cfg.Working, brightness)
	case agent.Done:
		return cfg.Done.R, cfg.Done.G, cfg.Done.B
	case agent.Error:
		return cfg.Error.R, cfg.Error.G, cfg.Error.B
	default:
		return cfg.Idle.R, cfg.Idle.G, cfg.Idle.B
	}
}

func scale(c config.ColorConfig, brightness float64) (byte, byte, byte) {
	return byte(float64(c.R) * brightness), byte(float64(c.G) * brightness), byte(float64(c.B) * brightness)
}
