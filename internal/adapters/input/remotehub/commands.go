// Package remotehub maps the remote-control hub's entity command
// vocabulary onto the bridge's logical device commands. The hub's wire
// plumbing (websocket, setup wizard UI) lives outside this process; this
// adapter only speaks its command ids and status codes.
package remotehub

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"rvolution-bridge/internal/ports"
)

type StatusCode int

const (
	StatusOK                 StatusCode = 200
	StatusBadRequest         StatusCode = 400
	StatusServerError        StatusCode = 500
	StatusNotImplemented     StatusCode = 501
	StatusServiceUnavailable StatusCode = 503
)

// hubCommands maps entity command ids onto catalog names. Mute and unmute
// share one IR code on this hardware; the bridge tracks the resulting
// toggle state locally.
var hubCommands = map[string]string{
	"on":     "Power On",
	"off":    "Power Off",
	"toggle": "Power Toggle",

	"play_pause":   "Play/Pause",
	"stop":         "Stop",
	"next":         "Next",
	"previous":     "Previous",
	"fast_forward": "Fast Forward",
	"rewind":       "Fast Reverse",
	"repeat":       "Repeat",

	"volume_up":   "Volume Up",
	"volume_down": "Volume Down",
	"mute_toggle": "Mute",
	"mute":        "Mute",
	"unmute":      "Mute",

	"cursor_up":    "Cursor Up",
	"cursor_down":  "Cursor Down",
	"cursor_left":  "Cursor Left",
	"cursor_right": "Cursor Right",
	"cursor_enter": "Cursor Enter",
	"back":         "Return",
	"home":         "Home",
	"menu":         "Menu",
	"info":         "Info",

	"channel_up":   "Page Up",
	"channel_down": "Page Down",

	"function_red":    "Function Red",
	"function_green":  "Function Green",
	"function_yellow": "Function Yellow",
	"function_blue":   "Function Blue",

	"digit_0": "Digit 0",
	"digit_1": "Digit 1",
	"digit_2": "Digit 2",
	"digit_3": "Digit 3",
	"digit_4": "Digit 4",
	"digit_5": "Digit 5",
	"digit_6": "Digit 6",
	"digit_7": "Digit 7",
	"digit_8": "Digit 8",
	"digit_9": "Digit 9",
}

type Adapter struct {
	bridge ports.BridgePort
	log    zerolog.Logger
}

func NewAdapter(bridge ports.BridgePort, logger zerolog.Logger) *Adapter {
	return &Adapter{
		bridge: bridge,
		log:    logger.With().Str("component", "remotehub").Logger(),
	}
}

// HandleCommand executes one hub entity command against a device and
// translates the outcome into the hub's status-code vocabulary.
func (a *Adapter) HandleCommand(ctx context.Context, deviceID, cmdID string, params map[string]any) StatusCode {
	name, ok := resolveCommand(cmdID, params)
	if !ok {
		a.log.Warn().Str("cmd", cmdID).Msg("unsupported hub command")
		return StatusNotImplemented
	}

	accepted, err := a.bridge.SendNamedCommand(ctx, deviceID, name)
	switch {
	case errors.Is(err, ports.ErrUnknownCommand):
		return StatusBadRequest
	case errors.Is(err, ports.ErrDeviceUnreachable):
		return StatusServiceUnavailable
	case err != nil:
		return StatusServerError
	case !accepted:
		return StatusServerError
	}
	return StatusOK
}

// resolveCommand maps a hub command id to a catalog name. "send_cmd" is the
// raw escape hatch: any name in the device's table is accepted verbatim.
func resolveCommand(cmdID string, params map[string]any) (string, bool) {
	if cmdID == "send_cmd" {
		name, _ := params["command"].(string)
		return name, name != ""
	}
	name, ok := hubCommands[cmdID]
	return name, ok
}
