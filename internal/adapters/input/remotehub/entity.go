package remotehub

import (
	"fmt"

	"rvolution-bridge/internal/domain/catalog"
	"rvolution-bridge/internal/domain/model"
)

// EntityDefinition describes one controllable entity registered with the
// hub for a managed device.
type EntityDefinition struct {
	EntityID       string
	Name           string
	DeviceID       string
	SimpleCommands []string
}

func familyLabel(family model.DeviceFamily) string {
	if family == model.FamilyAmlogic {
		return "Amlogic"
	}
	return "R_volution"
}

func MediaPlayerEntity(profile model.DeviceProfile) EntityDefinition {
	return EntityDefinition{
		EntityID: "mp_" + profile.ID,
		Name:     fmt.Sprintf("%s (%s Player)", profile.Name, familyLabel(profile.Family)),
		DeviceID: profile.ID,
	}
}

func RemoteEntity(profile model.DeviceProfile) EntityDefinition {
	return EntityDefinition{
		EntityID:       "remote_" + profile.ID,
		Name:           fmt.Sprintf("%s Remote (%s Remote)", profile.Name, familyLabel(profile.Family)),
		DeviceID:       profile.ID,
		SimpleCommands: catalog.SimpleCommands(profile.Family),
	}
}
