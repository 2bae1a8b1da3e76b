package config

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	c := Default()
	if c.PollIntervalMs != 500 {
		t.Errorf("PollIntervalMs = %d, want 500", c.PollIntervalMs)
	}
	if c.Lightbar.Idle.R != 255 || c.Lightbar.Idle.G != 140 {
		t.Errorf("unexpected idle color: %+v", c.Lightbar.Idle)
	}
	if c.Buttons.Cross != "Enter" {
		t.Errorf("Buttons.Cross = %q, want Enter", c.Buttons.Cross)
	}
	if c.AgentPrefix != "ds4cc" {
		t.Errorf("AgentPrefix = %q, want ds4cc", c.AgentPrefix)
	}
}
