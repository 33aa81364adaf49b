package actuator

import (
	"context"

	"github.com/autobot/roboplane/internal/command"
	"github.com/autobot/roboplane/internal/logger"
)

// PinSink asserts a pin pattern on hardware. LoggingPinSink is the stand-in
// a real GPIO driver replaces.
type PinSink interface {
	Assert(ctx context.Context, p command.PinState) error
}

type LoggingPinSink struct {
	log *logger.Logger
}

func NewLoggingPinSink(log *logger.Logger) *LoggingPinSink {
	return &LoggingPinSink{log: log.With("component", "PinSink")}
}

func (s *LoggingPinSink) Assert(_ context.Context, p command.PinState) error {
	s.log.Debug("pin assert", "pin0", p[0], "pin1", p[1], "pin2", p[2])
	return nil
}
