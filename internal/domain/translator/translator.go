// Package translator normalizes heterogeneous device status payloads into
// a canonical playback snapshot. Field parsing is defensive throughout: a
// missing or malformed value leaves the corresponding snapshot field nil so
// the previous attribute survives.
package translator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"

	"rvolution-bridge/internal/domain/model"
)

// Strategy extracts a media descriptor for one media kind.
type Strategy interface {
	Describe(body []byte) *model.MediaDescriptor
}

// Normalize converts a raw JSON status body into a snapshot. It returns an
// error only for bodies that are not JSON at all; individual bad fields are
// simply skipped.
func Normalize(body []byte) (*model.PlaybackSnapshot, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("status body is not valid JSON")
	}

	snap := &model.PlaybackSnapshot{Phase: parsePhase(body)}

	snap.Position = intField(body, "position", "playback_position")
	snap.Duration = intField(body, "duration", "playback_duration")
	if v := intField(body, "volume"); v != nil && *v >= 0 && *v <= 100 {
		snap.Volume = v
	}
	snap.Muted = boolField(body)

	if snap.Phase.ActiveMedia() {
		kind := parseKind(body)
		snap.Media = NewFactory().Strategy(kind).Describe(body)
		if snap.Media != nil {
			snap.Media.Kind = kind
		}
	}

	return snap, nil
}

func parsePhase(body []byte) model.PlaybackPhase {
	raw := stringField(body, "player_state", "state", "playback_state")
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "playing", "file_playback", "dvd_playback", "bluray_playback":
		return model.PhasePlaying
	case "paused", "pause":
		return model.PhasePaused
	case "stopped", "stop", "navigator", "idle":
		return model.PhaseStopped
	case "buffering", "loading":
		return model.PhaseBuffering
	case "standby", "off":
		return model.PhaseOff
	}
	return model.PhaseUnknown
}

func parseKind(body []byte) model.MediaKind {
	raw := stringField(body, "media_type", "kind", "type")
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "movie", "film":
		return model.MediaKindMovie
	case "episode", "tv", "show", "series":
		return model.MediaKindEpisode
	}
	return model.MediaKindOther
}

func stringField(body []byte, keys ...string) string {
	for _, key := range keys {
		if v, err := jsonparser.GetString(body, key); err == nil {
			return v
		}
	}
	return ""
}

func intField(body []byte, keys ...string) *int {
	for _, key := range keys {
		if v, err := jsonparser.GetInt(body, key); err == nil {
			n := int(v)
			return &n
		}
		// tolerate numbers sent as strings
		if s, err := jsonparser.GetString(body, key); err == nil {
			var n int
			if _, convErr := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); convErr == nil {
				return &n
			}
		}
	}
	return nil
}

func boolField(body []byte) *bool {
	if v, err := jsonparser.GetBoolean(body, "muted"); err == nil {
		return &v
	}
	if v, err := jsonparser.GetInt(body, "mute"); err == nil {
		b := v != 0
		return &b
	}
	return nil
}
