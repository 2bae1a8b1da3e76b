//go:build !windows

package inject

import (
	"log/slog"

	"github.com/ds4cc/ds4cc-go/internal/mapper"
)

// Sink is a no-op stand-in on non-Windows builds: OS key/mouse injection is
// a Windows-only concern, but the rest of the core still needs to build and
// test elsewhere.
type Sink struct {
	log *slog.Logger
}

// NewSink constructs a no-op injection sink.
func NewSink(log *slog.Logger) *Sink {
	return &Sink{log: log}
}

// Execute logs what would have been sent instead of calling into the OS.
func (s *Sink) Execute(a mapper.Action) {
	s.log.Debug("inject: action suppressed on non-windows build", "kind", a.Kind)
}
