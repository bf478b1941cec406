package ports

import (
	"context"
	"errors"

	"rvolution-bridge/internal/domain/model"
)

var (
	// ErrUnknownCommand marks a caller usage error: the logical name is not
	// in the device family's command table. Never retried.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDeviceUnreachable marks a transport failure that survived the
	// retry policy.
	ErrDeviceUnreachable = errors.New("device unreachable")
)

// Transport executes logical commands and status fetches against one
// device. Implementations own pacing, retries and connection lifecycle.
type Transport interface {
	// SendCommand returns (false, ErrUnknownCommand) for names missing from
	// the family table, (false, ErrDeviceUnreachable) once retries are
	// exhausted, and the device's accept/reject verdict otherwise.
	SendCommand(ctx context.Context, name string) (bool, error)

	// FetchStatus returns a canonical JSON status body, or nil when no
	// endpoint answered. It never fails loudly.
	FetchStatus(ctx context.Context) []byte

	// TestConnection issues the non-mutating liveness probe.
	TestConnection(ctx context.Context) bool

	State() model.ConnectionState
	Profile() model.DeviceProfile
	Close() error
}

// LivenessMonitor watches a transport's connectivity in the background and
// drives recovery after loss.
type LivenessMonitor interface {
	Start(ctx context.Context)
	Stop()
}

// DeviceFactory builds the per-device connection stack. It keeps the
// domain services free of adapter constructors.
type DeviceFactory interface {
	NewTransport(profile model.DeviceProfile) Transport
	NewMonitor(t Transport) LivenessMonitor
}
