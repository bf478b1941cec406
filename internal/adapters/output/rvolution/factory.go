package rvolution

import (
	"github.com/rs/zerolog"

	"rvolution-bridge/internal/domain/model"
	"rvolution-bridge/internal/ports"
)

// Factory builds the per-device connection stack for the bridge service.
type Factory struct {
	log    zerolog.Logger
	tuning Tuning
}

var _ ports.DeviceFactory = (*Factory)(nil)

func NewFactory(logger zerolog.Logger) *Factory {
	return &Factory{log: logger}
}

func NewTunedFactory(logger zerolog.Logger, tuning Tuning) *Factory {
	return &Factory{log: logger, tuning: tuning}
}

func (f *Factory) NewTransport(profile model.DeviceProfile) ports.Transport {
	return NewTunedClient(profile, f.log, f.tuning)
}

func (f *Factory) NewMonitor(t ports.Transport) ports.LivenessMonitor {
	return NewMonitor(t, f.log)
}
