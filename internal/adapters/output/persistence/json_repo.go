package persistence

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"rvolution-bridge/internal/domain/model"
)

type JSONConfigRepository struct {
	filepath string
	mu       sync.RWMutex
}

// Internal structure for migration: the schema written by earlier releases
// of this integration.
type legacyConfig struct {
	Devices []*legacyDevice `json:"devices"`
	Version string          `json:"version"`
}

type legacyDevice struct {
	DeviceID   string `json:"device_id"`
	Name       string `json:"name"`
	IPAddress  string `json:"ip_address"`
	DeviceType string `json:"device_type"`
	Port       int    `json:"port"`
	Timeout    int    `json:"timeout"`
	Enabled    *bool  `json:"enabled"`
}

func NewJSONConfigRepository(filepath string) *JSONConfigRepository {
	return &JSONConfigRepository{filepath: filepath}
}

func (r *JSONConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Config{Devices: []*model.DeviceProfile{}}, nil
		}
		return nil, err
	}

	var cfg model.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Migration check: legacy entries carry device_id/ip_address keys, so a
	// current-schema decode leaves their IDs empty.
	if len(cfg.Devices) > 0 && cfg.Devices[0].ID == "" {
		return r.migrate(data)
	}
	if cfg.Devices == nil {
		cfg.Devices = []*model.DeviceProfile{}
	}

	return &cfg, nil
}

func (r *JSONConfigRepository) migrate(data []byte) (*model.Config, error) {
	var legacy legacyConfig
	if err := json.Unmarshal(data, &legacy); err != nil {
		return &model.Config{Devices: []*model.DeviceProfile{}}, nil
	}

	cfg := &model.Config{
		Version: legacy.Version,
		Devices: make([]*model.DeviceProfile, 0, len(legacy.Devices)),
	}

	for _, d := range legacy.Devices {
		if d.DeviceID == "" {
			continue
		}
		family, err := model.ParseDeviceFamily(d.DeviceType)
		if err != nil {
			family = model.FamilyAmlogic
		}
		enabled := true
		if d.Enabled != nil {
			enabled = *d.Enabled
		}
		cfg.Devices = append(cfg.Devices, &model.DeviceProfile{
			ID:      d.DeviceID,
			Name:    d.Name,
			Address: d.IPAddress,
			Family:  family,
			Port:    d.Port,
			Timeout: d.Timeout,
			Enabled: enabled,
		})
	}

	return cfg, nil
}

func (r *JSONConfigRepository) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if config.Version == "" {
		config.Version = "1.0.0"
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.filepath, data, 0644)
}
