package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvolution-bridge/internal/domain/model"
)

func repoWithContent(t *testing.T, content string) *JSONConfigRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return NewJSONConfigRepository(path)
}

func TestGet_MissingFileYieldsEmptyConfig(t *testing.T) {
	repo := NewJSONConfigRepository(filepath.Join(t.TempDir(), "nope.json"))

	cfg, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cfg.Devices)
	assert.Empty(t, cfg.Devices)
}

func TestGet_CorruptFile(t *testing.T) {
	repo := repoWithContent(t, `{broken`)
	_, err := repo.Get(context.Background())
	assert.Error(t, err)
}

func TestGet_CurrentSchema(t *testing.T) {
	repo := repoWithContent(t, `{
		"version": "1.2.0",
		"devices": [
			{"id": "dev1", "name": "Salon", "address": "192.168.1.10", "family": "player", "port": 80, "timeout": 5, "enabled": true}
		]
	}`)

	cfg, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, cfg.Devices, 1)
	assert.Equal(t, "dev1", cfg.Devices[0].ID)
	assert.Equal(t, model.FamilyPlayer, cfg.Devices[0].Family)
	assert.Equal(t, "1.2.0", cfg.Version)
}

func TestGet_MigratesLegacySchema(t *testing.T) {
	repo := repoWithContent(t, `{
		"version": "0.9.0",
		"devices": [
			{"device_id": "rvolution_192_168_1_20", "name": "Cinema", "ip_address": "192.168.1.20", "device_type": "player", "port": 80, "timeout": 10},
			{"device_id": "rvolution_192_168_1_21", "name": "Bedroom", "ip_address": "192.168.1.21", "device_type": "weird", "enabled": false},
			{"name": "no id, dropped", "ip_address": "192.168.1.22"}
		]
	}`)

	cfg, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, cfg.Devices, 2)

	first := cfg.Devices[0]
	assert.Equal(t, "rvolution_192_168_1_20", first.ID)
	assert.Equal(t, "192.168.1.20", first.Address)
	assert.Equal(t, model.FamilyPlayer, first.Family)
	assert.True(t, first.Enabled, "legacy entries without enabled default to true")

	second := cfg.Devices[1]
	assert.Equal(t, model.FamilyAmlogic, second.Family, "unknown legacy type falls back to amlogic")
	assert.False(t, second.Enabled)
}

func TestSaveThenGet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	repo := NewJSONConfigRepository(path)

	in := &model.Config{Devices: []*model.DeviceProfile{
		{ID: "dev1", Name: "Salon", Address: "192.168.1.10", Family: model.FamilyAmlogic, Timeout: 5, Enabled: true},
	}}
	require.NoError(t, repo.Save(context.Background(), in))

	out, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Devices, 1)
	assert.Equal(t, *in.Devices[0], *out.Devices[0])
	assert.Equal(t, "1.0.0", out.Version, "missing version is stamped on save")
}
