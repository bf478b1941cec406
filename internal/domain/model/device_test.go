package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeviceFamily(t *testing.T) {
	family, err := ParseDeviceFamily("  Player ")
	require.NoError(t, err)
	assert.Equal(t, FamilyPlayer, family)

	family, err = ParseDeviceFamily("AMLOGIC")
	require.NoError(t, err)
	assert.Equal(t, FamilyAmlogic, family)

	_, err = ParseDeviceFamily("toaster")
	assert.Error(t, err)
}

func TestBaseURL_DefaultPort(t *testing.T) {
	p := DeviceProfile{Address: "192.168.1.10"}
	assert.Equal(t, "http://192.168.1.10:80", p.BaseURL())

	p.Port = 8080
	assert.Equal(t, "http://192.168.1.10:8080", p.BaseURL())
}

func TestRequestTimeout_Default(t *testing.T) {
	assert.Equal(t, 10*time.Second, DeviceProfile{}.RequestTimeout())
	assert.Equal(t, 3*time.Second, DeviceProfile{Timeout: 3}.RequestTimeout())
}

func TestValidate(t *testing.T) {
	valid := DeviceProfile{
		ID: "dev1", Name: "Salon", Address: "192.168.1.10", Family: FamilyAmlogic,
	}
	assert.Empty(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*DeviceProfile)
	}{
		{"empty id", func(p *DeviceProfile) { p.ID = " " }},
		{"empty name", func(p *DeviceProfile) { p.Name = "" }},
		{"empty address", func(p *DeviceProfile) { p.Address = "" }},
		{"not an ip", func(p *DeviceProfile) { p.Address = "example.com" }},
		{"octet out of range", func(p *DeviceProfile) { p.Address = "192.168.1.999" }},
		{"bad family", func(p *DeviceProfile) { p.Family = "toaster" }},
		{"bad port", func(p *DeviceProfile) { p.Port = 70000 }},
		{"bad timeout", func(p *DeviceProfile) { p.Timeout = 120 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			assert.NotEmpty(t, p.Validate())
		})
	}
}

func TestActiveMedia(t *testing.T) {
	assert.True(t, PhasePlaying.ActiveMedia())
	assert.True(t, PhasePaused.ActiveMedia())
	assert.True(t, PhaseBuffering.ActiveMedia())
	assert.False(t, PhaseStopped.ActiveMedia())
	assert.False(t, PhaseOff.ActiveMedia())
	assert.False(t, PhaseUnknown.ActiveMedia())
}

func TestConfigLookups(t *testing.T) {
	cfg := Config{Devices: []*DeviceProfile{
		{ID: "dev1", Enabled: true},
		{ID: "dev2", Enabled: false},
	}}

	enabled := cfg.EnabledDevices()
	require.Len(t, enabled, 1)
	assert.Equal(t, "dev1", enabled[0].ID)

	assert.NotNil(t, cfg.Device("dev2"))
	assert.Nil(t, cfg.Device("ghost"))
}
