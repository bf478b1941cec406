package remotehub

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"rvolution-bridge/internal/domain/model"
)

// deviceForm is one device's slice of the setup wizard's flat string map.
type deviceForm struct {
	IP      string `mapstructure:"ip"`
	Name    string `mapstructure:"name"`
	Type    string `mapstructure:"type"`
	Port    int    `mapstructure:"port"`
	Timeout int    `mapstructure:"timeout"`
}

var deviceFieldRe = regexp.MustCompile(`^device_(\d+)_([a-z]+)$`)

// DecodeSetupData turns the setup wizard's input values into device
// profiles. Two shapes arrive here: a single "host" field from the quick
// path, or grouped device_<i>_<field> keys from the multi-device form.
func DecodeSetupData(values map[string]string) ([]model.DeviceProfile, error) {
	if host, ok := values["host"]; ok && strings.TrimSpace(host) != "" {
		profile, err := singleHostProfile(values)
		if err != nil {
			return nil, err
		}
		return []model.DeviceProfile{profile}, nil
	}

	grouped := map[string]map[string]any{}
	for key, value := range values {
		m := deviceFieldRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		idx, field := m[1], m[2]
		if grouped[idx] == nil {
			grouped[idx] = map[string]any{}
		}
		grouped[idx][field] = value
	}
	if len(grouped) == 0 {
		return nil, fmt.Errorf("setup data contains no device entries")
	}

	indexes := make([]string, 0, len(grouped))
	for idx := range grouped {
		indexes = append(indexes, idx)
	}
	sort.Strings(indexes)

	profiles := make([]model.DeviceProfile, 0, len(grouped))
	for _, idx := range indexes {
		form, err := decodeForm(grouped[idx])
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", idx, err)
		}
		profile, err := profileFromForm(form)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", idx, err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func singleHostProfile(values map[string]string) (model.DeviceProfile, error) {
	input := map[string]any{
		"ip":   values["host"],
		"name": values["name"],
		"type": values["type"],
	}
	if v := values["port"]; v != "" {
		input["port"] = v
	}
	if v := values["timeout"]; v != "" {
		input["timeout"] = v
	}

	form, err := decodeForm(input)
	if err != nil {
		return model.DeviceProfile{}, err
	}
	return profileFromForm(form)
}

// decodeForm goes through mapstructure with weak typing so the wizard's
// string values land in the numeric fields.
func decodeForm(input map[string]any) (deviceForm, error) {
	var form deviceForm
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &form,
	})
	if err != nil {
		return form, err
	}
	if err := dec.Decode(input); err != nil {
		return form, err
	}
	return form, nil
}

func profileFromForm(form deviceForm) (model.DeviceProfile, error) {
	host := strings.TrimSpace(form.IP)
	if host == "" {
		return model.DeviceProfile{}, fmt.Errorf("missing device address")
	}

	family := model.FamilyAmlogic
	if form.Type != "" {
		parsed, err := model.ParseDeviceFamily(form.Type)
		if err != nil {
			return model.DeviceProfile{}, err
		}
		family = parsed
	}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		name = fmt.Sprintf("R_volution Device (%s)", host)
	}

	profile := model.DeviceProfile{
		ID:      "rvolution_" + strings.ReplaceAll(host, ".", "_"),
		Name:    name,
		Address: host,
		Family:  family,
		Port:    form.Port,
		Timeout: form.Timeout,
		Enabled: true,
	}
	if errs := profile.Validate(); len(errs) > 0 {
		return model.DeviceProfile{}, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return profile, nil
}
