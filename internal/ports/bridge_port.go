package ports

import (
	"context"

	"rvolution-bridge/internal/domain/model"
)

type BridgePort interface {
	Devices(ctx context.Context) []model.DeviceProfile
	Device(ctx context.Context, id string) (model.DeviceProfile, bool)
	SendNamedCommand(ctx context.Context, deviceID, command string) (bool, error)
	Available(deviceID string) bool

	AddDevice(ctx context.Context, profile model.DeviceProfile) error
	RemoveDevice(ctx context.Context, deviceID string) error
}
