package remotehub

import (
	"github.com/rs/zerolog"

	"rvolution-bridge/internal/ports"
)

// LogSink is the attribute sink used until a hub session is attached: it
// records every update and drops it. Apply never blocks.
type LogSink struct {
	log zerolog.Logger
}

var _ ports.AttributeSink = (*LogSink)(nil)

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{log: logger.With().Str("component", "attributes").Logger()}
}

func (s *LogSink) Apply(deviceID string, changed map[string]any) {
	s.log.Info().Str("device", deviceID).Fields(changed).Msg("attributes updated")
}
