package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rvolution-bridge/internal/domain/catalog"
	"rvolution-bridge/internal/domain/model"
	"rvolution-bridge/internal/ports"
)

// deviceUnit bundles everything the bridge runs for one device. The
// transport, monitor and reconciler of a unit never touch another unit's.
type deviceUnit struct {
	profile    model.DeviceProfile
	transport  ports.Transport
	monitor    ports.LivenessMonitor
	reconciler *Reconciler

	powerOn bool
	muted   bool
}

// BridgeService owns the device registry and dispatches logical commands.
// It replaces what would otherwise be process-wide client maps with an
// object bound to the integration's lifecycle.
type BridgeService struct {
	factory ports.DeviceFactory
	repo    ports.ConfigRepository
	sink    ports.AttributeSink
	log     zerolog.Logger

	mu    sync.RWMutex
	units map[string]*deviceUnit
}

var _ ports.BridgePort = (*BridgeService)(nil)

func NewBridgeService(factory ports.DeviceFactory, repo ports.ConfigRepository, sink ports.AttributeSink, logger zerolog.Logger) *BridgeService {
	return &BridgeService{
		factory: factory,
		repo:    repo,
		sink:    sink,
		log:     logger.With().Str("component", "bridge").Logger(),
		units:   make(map[string]*deviceUnit),
	}
}

// Initialize loads the configured devices and brings up one connection
// stack per enabled profile. A device that fails its first connection test
// is still registered; the health monitor recovers it unattended.
func (s *BridgeService) Initialize(ctx context.Context) error {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	for _, profile := range cfg.EnabledDevices() {
		s.startUnit(ctx, *profile)
	}
	s.log.Info().Int("devices", len(cfg.EnabledDevices())).Msg("bridge initialized")
	return nil
}

func (s *BridgeService) startUnit(ctx context.Context, profile model.DeviceProfile) {
	transport := s.factory.NewTransport(profile)
	unit := &deviceUnit{
		profile:    profile,
		transport:  transport,
		monitor:    s.factory.NewMonitor(transport),
		reconciler: NewReconciler(profile.ID, transport, s.sink, s.log),
	}

	if transport.TestConnection(ctx) {
		unit.powerOn = true
		s.sink.Apply(profile.ID, map[string]any{model.AttrState: model.StateOn})
		s.log.Info().Str("device", profile.ID).Msg("device connected")
	} else {
		s.sink.Apply(profile.ID, map[string]any{model.AttrState: model.StateUnavailable})
		s.log.Warn().Str("device", profile.ID).Msg("device not reachable yet, monitor will retry")
	}

	unit.monitor.Start(ctx)
	unit.reconciler.Start(ctx)

	s.mu.Lock()
	s.units[profile.ID] = unit
	s.mu.Unlock()
}

func (s *BridgeService) Devices(ctx context.Context) []model.DeviceProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.DeviceProfile, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, u.profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *BridgeService) Device(ctx context.Context, id string) (model.DeviceProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.units[id]
	if !ok {
		return model.DeviceProfile{}, false
	}
	return u.profile, true
}

// Available reports entity availability, driven only by transport
// connectivity.
func (s *BridgeService) Available(deviceID string) bool {
	s.mu.RLock()
	u, ok := s.units[deviceID]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return u.transport.State().Established
}

// SendNamedCommand dispatches one logical command and applies its local
// attribute effect on success.
func (s *BridgeService) SendNamedCommand(ctx context.Context, deviceID, command string) (bool, error) {
	s.mu.RLock()
	unit, ok := s.units[deviceID]
	s.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("device %s not registered", deviceID)
	}

	accepted, err := unit.transport.SendCommand(ctx, command)
	if err != nil {
		if errors.Is(err, ports.ErrDeviceUnreachable) {
			s.sink.Apply(deviceID, map[string]any{model.AttrState: model.StateUnavailable})
		}
		return false, err
	}
	if accepted {
		s.applyEffect(unit, command)
	}
	return accepted, nil
}

func (s *BridgeService) applyEffect(unit *deviceUnit, command string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch catalog.EffectOf(command) {
	case catalog.EffectPowerOn:
		unit.powerOn = true
		unit.reconciler.SetActive(true)
		s.sink.Apply(unit.profile.ID, map[string]any{model.AttrState: model.StateOn})
	case catalog.EffectPowerOff:
		unit.powerOn = false
		unit.reconciler.SetActive(false)
		s.sink.Apply(unit.profile.ID, powerOffAttributes())
	case catalog.EffectPowerToggle:
		unit.powerOn = !unit.powerOn
		unit.reconciler.SetActive(unit.powerOn)
		if unit.powerOn {
			s.sink.Apply(unit.profile.ID, map[string]any{model.AttrState: model.StateOn})
		} else {
			s.sink.Apply(unit.profile.ID, powerOffAttributes())
		}
	case catalog.EffectStop:
		s.sink.Apply(unit.profile.ID, map[string]any{
			model.AttrState:         model.StateOn,
			model.AttrMediaTitle:    "",
			model.AttrMediaArtist:   "",
			model.AttrMediaAlbum:    "",
			model.AttrMediaImageURL: "",
		})
	case catalog.EffectMuteToggle:
		unit.muted = !unit.muted
		s.sink.Apply(unit.profile.ID, map[string]any{model.AttrMuted: unit.muted})
	case catalog.EffectPlayPause:
		// next status poll refreshes the phase
	}
}

func powerOffAttributes() map[string]any {
	return map[string]any{
		model.AttrState:         string(model.PhaseOff),
		model.AttrMediaTitle:    "",
		model.AttrMediaArtist:   "",
		model.AttrMediaAlbum:    "",
		model.AttrMediaImageURL: "",
	}
}

// AddDevice validates and persists a profile, then brings its stack up.
func (s *BridgeService) AddDevice(ctx context.Context, profile model.DeviceProfile) error {
	if profile.ID == "" {
		profile.ID = deriveDeviceID(profile.Address)
	}
	if errs := profile.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid device profile: %s", strings.Join(errs, "; "))
	}

	s.mu.RLock()
	_, exists := s.units[profile.ID]
	s.mu.RUnlock()
	if exists {
		return fmt.Errorf("device %s already exists", profile.ID)
	}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	if cfg.Device(profile.ID) != nil {
		return fmt.Errorf("device %s already configured", profile.ID)
	}
	cfg.Devices = append(cfg.Devices, &profile)
	if err := s.repo.Save(ctx, cfg); err != nil {
		return err
	}

	if profile.Enabled {
		s.startUnit(ctx, profile)
	}
	return nil
}

// RemoveDevice stops a device's stack and drops it from configuration.
func (s *BridgeService) RemoveDevice(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	unit, ok := s.units[deviceID]
	delete(s.units, deviceID)
	s.mu.Unlock()

	if ok {
		stopUnit(unit)
	}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	kept := cfg.Devices[:0]
	for _, d := range cfg.Devices {
		if d.ID != deviceID {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(cfg.Devices) && !ok {
		return fmt.Errorf("device %s not found", deviceID)
	}
	cfg.Devices = kept
	return s.repo.Save(ctx, cfg)
}

// Close stops every background task before closing its transport, so no
// monitor or reconciler touches a closed connection.
func (s *BridgeService) Close() error {
	s.mu.Lock()
	units := s.units
	s.units = make(map[string]*deviceUnit)
	s.mu.Unlock()

	var firstErr error
	for _, unit := range units {
		if err := stopUnit(unit); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func stopUnit(unit *deviceUnit) error {
	unit.monitor.Stop()
	unit.reconciler.Stop()
	return unit.transport.Close()
}

func deriveDeviceID(address string) string {
	if address != "" {
		return "rvolution_" + strings.ReplaceAll(address, ".", "_")
	}
	return "rvolution_" + uuid.NewString()[:8]
}
