package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type DeviceFamily string

const (
	FamilyAmlogic DeviceFamily = "amlogic"
	FamilyPlayer  DeviceFamily = "player"
)

func ParseDeviceFamily(s string) (DeviceFamily, error) {
	switch DeviceFamily(strings.ToLower(strings.TrimSpace(s))) {
	case FamilyAmlogic:
		return FamilyAmlogic, nil
	case FamilyPlayer:
		return FamilyPlayer, nil
	}
	return "", fmt.Errorf("unknown device family %q", s)
}

// DeviceProfile is the immutable identity and connection configuration of
// one physical device. It is created at configuration time and never
// mutated afterwards.
type DeviceProfile struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Address string       `json:"address"`
	Family  DeviceFamily `json:"family"`
	Port    int          `json:"port"`
	Timeout int          `json:"timeout"` // seconds
	Enabled bool         `json:"enabled"`
}

func (p DeviceProfile) BaseURL() string {
	port := p.Port
	if port == 0 {
		port = 80
	}
	return fmt.Sprintf("http://%s:%d", p.Address, port)
}

func (p DeviceProfile) RequestTimeout() time.Duration {
	if p.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.Timeout) * time.Second
}

// Validate returns a list of human-readable problems, empty when the
// profile is usable.
func (p DeviceProfile) Validate() []string {
	var errs []string

	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, "device ID cannot be empty")
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "device name cannot be empty")
	}
	if strings.TrimSpace(p.Address) == "" {
		errs = append(errs, "IP address cannot be empty")
	} else if !validIPv4(p.Address) {
		errs = append(errs, "invalid IP address format")
	}
	if p.Family != FamilyAmlogic && p.Family != FamilyPlayer {
		errs = append(errs, "device family must be amlogic or player")
	}
	if p.Port != 0 && (p.Port < 1 || p.Port > 65535) {
		errs = append(errs, "port must be between 1 and 65535")
	}
	if p.Timeout != 0 && (p.Timeout < 1 || p.Timeout > 60) {
		errs = append(errs, "timeout must be between 1 and 60 seconds")
	}

	return errs
}

func validIPv4(addr string) bool {
	parts := strings.Split(addr, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// ConnectionState is a point-in-time copy of a transport client's
// connectivity bookkeeping.
type ConnectionState struct {
	Established         bool
	LastRequest         time.Time
	LastSuccess         time.Time
	ConsecutiveFailures int
}
