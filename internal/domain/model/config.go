package model

type Config struct {
	Version string           `json:"version,omitempty"`
	Devices []*DeviceProfile `json:"devices"`
}

func (c *Config) EnabledDevices() []*DeviceProfile {
	var out []*DeviceProfile
	for _, d := range c.Devices {
		if d.Enabled {
			out = append(out, d)
		}
	}
	return out
}

func (c *Config) Device(id string) *DeviceProfile {
	for _, d := range c.Devices {
		if d.ID == id {
			return d
		}
	}
	return nil
}
