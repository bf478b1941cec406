package ports

// AttributeSink receives partial attribute updates for one entity. Apply is
// idempotent and must not block the command or polling paths.
type AttributeSink interface {
	Apply(deviceID string, changed map[string]any)
}
