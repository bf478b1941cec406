// Package catalog holds the static IR command tables for the two device
// families. Codes are 8 hex characters encoding one 32-bit IR packet; the
// same code may back several logical names (e.g. Stop and Return), lookups
// go by name only.
package catalog

import (
	"sort"

	"rvolution-bridge/internal/domain/model"
)

var amlogicCodes = map[string]string{
	"3D":              "ED124040",
	"Audio":           "E6194040",
	"Cursor Down":     "F10E4040",
	"Cursor Enter":    "F20D4040",
	"Cursor Left":     "EF104040",
	"Cursor Right":    "EE114040",
	"Cursor Up":       "F40B4040",
	"Delete":          "F30C4040",
	"Digit 0":         "FF004040",
	"Digit 1":         "FE014040",
	"Digit 2":         "FD024040",
	"Digit 3":         "FC034040",
	"Digit 4":         "FB044040",
	"Digit 5":         "FA054040",
	"Digit 6":         "F9064040",
	"Digit 7":         "F8074040",
	"Digit 8":         "F7084040",
	"Digit 9":         "F6094040",
	"Dimmer":          "A45B4040",
	"Explorer":        "EA164040",
	"Format Scroll":   "EB144040",
	"Function Green":  "F50A4040",
	"Function Yellow": "BE414040",
	"Function Red":    "A68E4040",
	"Function Blue":   "AB544040",
	"Home":            "E51A4040",
	"Info":            "BB444040",
	"Menu":            "BA454040",
	"Mouse":           "B98F4040",
	"Mute":            "BC434040",
	"Page Down":       "DB204040",
	"Page Up":         "BF404040",
	"Play/Pause":      "AC534040",
	"Power Toggle":    "B24D4040",
	"Power Off":       "4AB54040",
	"Power On":        "4CB34040",
	"Repeat":          "B9464040",
	"Return":          "BD424040",
	"R_video":         "EC134040",
	"Subtitle":        "E41B4040",
	"Volume Down":     "E8174040",
	"Volume Up":       "E7184040",
	"Zoom":            "E21D4040",
	"Next":            "E11E4040",
	"Previous":        "E01F4040",
	"Fast Forward":    "E41BBF00",
	"Fast Reverse":    "E31CBF00",
	"Stop":            "BD424040",
	"60 sec forward":  "EE114040",
	"60 sec rewind":   "EF104040",
	"10 sec forward":  "BF404040",
	"10 sec rewind":   "DF204040",
}

var playerCodes = map[string]string{
	"3D":                     "EC124040",
	"Audio":                  "EC194040",
	"Cursor Down":            "EC0E4040",
	"Cursor Enter":           "EC0D4040",
	"Cursor Left":            "EC104040",
	"Cursor Right":           "EC114040",
	"Cursor Up":              "EC0B4040",
	"Delete":                 "EC0C4040",
	"Digit 0":                "EC004040",
	"Digit 1":                "EC014040",
	"Digit 2":                "EC024040",
	"Digit 3":                "EC034040",
	"Digit 4":                "EC044040",
	"Digit 5":                "EC054040",
	"Digit 6":                "EC064040",
	"Digit 7":                "EC074040",
	"Digit 8":                "EC084040",
	"Digit 9":                "EC094040",
	"Dimmer":                 "EC5B4040",
	"Explorer":               "EC164040",
	"Fast Forward":           "E41BBF00",
	"Fast Reverse":           "E31CBF00",
	"Format Scroll":          "EC144040",
	"Function Green":         "EC0A4040",
	"Function Yellow":        "EC414040",
	"Function Red":           "EC574040",
	"Function Blue":          "EC544040",
	"Home":                   "EC1A4040",
	"Info":                   "EC444040",
	"Menu":                   "EC454040",
	"Mouse":                  "EC474040",
	"Mute":                   "EC434040",
	"Page Down":              "EC204040",
	"Page Up":                "EC404040",
	"Next":                   "EC1E4040",
	"Previous":               "EC1F4040",
	"Play/Pause":             "EC534040",
	"Power Toggle":           "EC4D4040",
	"Power Off":              "ECB54040",
	"Power On":               "ECB34040",
	"Repeat":                 "EC464040",
	"Return":                 "EC424040",
	"R_video":                "EC134040",
	"Subtitle":               "EC1B4040",
	"Volume Down":            "EC174040",
	"Volume Up":              "EC184040",
	"Zoom":                   "EC1D4040",
	"Stop":                   "EC424040",
	"60 sec forward":         "EC114040",
	"60 sec rewind":          "EC104040",
	"10 sec forward":         "EC404040",
	"10 sec rewind":          "EC204040",
	"HDMI/XMOS Audio Toggle": "BA45BF00",
}

func table(family model.DeviceFamily) map[string]string {
	if family == model.FamilyAmlogic {
		return amlogicCodes
	}
	return playerCodes
}

// Lookup resolves a logical command name to its IR code for one family.
func Lookup(family model.DeviceFamily, name string) (string, bool) {
	code, ok := table(family)[name]
	return code, ok
}

// Commands lists all logical command names of a family, sorted.
func Commands(family model.DeviceFamily) []string {
	t := table(family)
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimpleCommands lists the names exposed as raw remote commands. Power
// commands are excluded; the hub drives those through the on/off surface.
func SimpleCommands(family model.DeviceFamily) []string {
	var out []string
	for _, name := range Commands(family) {
		if name == "Power On" || name == "Power Off" {
			continue
		}
		out = append(out, name)
	}
	return out
}
