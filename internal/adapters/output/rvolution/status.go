package rvolution

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/buger/jsonparser"

	"rvolution-bridge/internal/domain/model"
)

const enhancedStatusPort = 8990

// Candidate status endpoints, tried in order. The first body starting with
// '{' wins; firmware without a status API 404s them all.
var statusEndpoints = []string{
	"/device/status",
	"/device/info",
	"/as/system/information",
}

// Player-family firmware exposes a richer status service on a fixed port.
var enhancedEndpoints = []string{
	"/PlaybackInformation",
	"/LastMedia",
}

// FetchStatus polls the secondary status API and returns a JSON body, or
// nil when nothing answered. Failures never propagate; the reconciler's
// circuit breaker counts them.
func (c *Client) FetchStatus(ctx context.Context) []byte {
	for _, endpoint := range statusEndpoints {
		body, err := c.fetchBody(ctx, http.MethodGet, c.profile.BaseURL()+endpoint)
		if err != nil {
			c.log.Debug().Err(err).Str("endpoint", endpoint).Msg("status endpoint unavailable")
			continue
		}
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return trimmed
		}
	}

	if c.profile.Family == model.FamilyPlayer {
		return c.fetchEnhancedStatus(ctx)
	}
	return nil
}

func (c *Client) fetchEnhancedStatus(ctx context.Context) []byte {
	base := fmt.Sprintf("http://%s:%d", c.profile.Address, enhancedStatusPort)
	for _, endpoint := range enhancedEndpoints {
		body, err := c.fetchBody(ctx, http.MethodPost, base+endpoint)
		if err != nil {
			c.log.Debug().Err(err).Str("endpoint", endpoint).Msg("enhanced status unavailable")
			continue
		}
		if unwrapped := unwrapEnhanced(body); unwrapped != nil {
			return unwrapped
		}
	}
	return nil
}

// unwrapEnhanced digs the real payload out of the enhanced status reply:
// a "data" field holding either a nested object or an XML string.
func unwrapEnhanced(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	value, dataType, _, err := jsonparser.Get(trimmed, "data")
	if err != nil {
		return nil
	}

	switch dataType {
	case jsonparser.Object:
		return value
	case jsonparser.String:
		text, err := jsonparser.GetString(trimmed, "data")
		if err != nil {
			return nil
		}
		if strings.HasPrefix(strings.TrimSpace(text), "<") {
			return playbackXMLToJSON([]byte(text))
		}
	}
	return nil
}

// fetchBody issues one paced request for the status path, without the
// command path's retry policy. Status fetches never touch the connection
// failure bookkeeping: a 404 here is a completed HTTP exchange proving the
// device reachable, it only means this firmware has no status API. Entity
// availability stays driven by the command and probe paths alone.
func (c *Client) fetchBody(ctx context.Context, method, rawURL string) ([]byte, error) {
	status, body, err := c.doRequest(ctx, method, rawURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", status)
	}
	return body, nil
}

type playbackInformation struct {
	XMLName  xml.Name `xml:"PlaybackInformation"`
	State    string   `xml:"State"`
	Title    string   `xml:"Title"`
	Position *int     `xml:"Position"`
	Duration *int     `xml:"Duration"`
	Volume   *int     `xml:"Volume"`
	Mute     *int     `xml:"Mute"`
}

func playbackXMLToJSON(raw []byte) []byte {
	var info playbackInformation
	if err := xml.Unmarshal(raw, &info); err != nil {
		return nil
	}

	payload := map[string]any{}
	if info.State != "" {
		payload["player_state"] = info.State
	}
	if info.Title != "" {
		payload["title"] = info.Title
	}
	if info.Position != nil {
		payload["position"] = *info.Position
	}
	if info.Duration != nil {
		payload["duration"] = *info.Duration
	}
	if info.Volume != nil {
		payload["volume"] = *info.Volume
	}
	if info.Mute != nil {
		payload["muted"] = *info.Mute != 0
	}
	if len(payload) == 0 {
		return nil
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return out
}
