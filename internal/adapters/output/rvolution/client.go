// Package rvolution talks to R_volution media players over their IR-over-HTTP
// gateway. The embedded HTTP server on these devices handles one connection
// at a time and misbehaves on kept-open sockets, so every request runs on a
// fresh connection, paced and retried.
package rvolution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"

	"rvolution-bridge/internal/domain/catalog"
	"rvolution-bridge/internal/domain/model"
	"rvolution-bridge/internal/ports"
)

const (
	commandPath               = "/cgi-bin/do"
	liveProbeCommand          = "Info" // never a power command: a probe must not mutate device state
	maxResponseBytes          = 1 << 20
	defaultMinRequestInterval = 500 * time.Millisecond
)

var (
	defaultTimeoutRetryDelays   = []time.Duration{2 * time.Second, 4 * time.Second}
	defaultConnectorRetryDelays = []time.Duration{5 * time.Second, 10 * time.Second}
)

// The command endpoint answers with a keyed-text/XML hybrid. Accept and
// reject are detected by literal substring; a 200 with no marker at all
// still counts as accepted because the device demonstrably answered.
var failureMarkers = []string{
	`command_status="failed"`,
	`command_status="timeout"`,
	`"status":"error"`,
	`"status": "error"`,
}

var successMarkers = []string{
	`command_status="ok"`,
	`"status":"ok"`,
	`"status": "ok"`,
}

// Tuning overrides pacing and retry parameters. Zero values keep defaults.
type Tuning struct {
	MinRequestInterval   time.Duration
	TimeoutRetryDelays   []time.Duration
	ConnectorRetryDelays []time.Duration
}

func (t Tuning) withDefaults() Tuning {
	if t.MinRequestInterval <= 0 {
		t.MinRequestInterval = defaultMinRequestInterval
	}
	if t.TimeoutRetryDelays == nil {
		t.TimeoutRetryDelays = defaultTimeoutRetryDelays
	}
	if t.ConnectorRetryDelays == nil {
		t.ConnectorRetryDelays = defaultConnectorRetryDelays
	}
	return t
}

type Client struct {
	profile model.DeviceProfile
	tuning  Tuning
	log     zerolog.Logger

	paceMu   sync.Mutex
	lastSend time.Time

	mu         sync.Mutex
	httpClient *http.Client
	state      model.ConnectionState
	closed     bool
}

var _ ports.Transport = (*Client)(nil)

func NewClient(profile model.DeviceProfile, logger zerolog.Logger) *Client {
	return NewTunedClient(profile, logger, Tuning{})
}

func NewTunedClient(profile model.DeviceProfile, logger zerolog.Logger, tuning Tuning) *Client {
	return &Client{
		profile:    profile,
		tuning:     tuning.withDefaults(),
		log:        logger.With().Str("device", profile.ID).Logger(),
		httpClient: newHTTPClient(profile.RequestTimeout()),
	}
}

// newHTTPClient builds a client suitable for the device's single-connection
// server: keep-alives off, one connection max, plain HTTP only.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := cleanhttp.DefaultTransport()
	transport.MaxConnsPerHost = 1
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func (c *Client) Profile() model.DeviceProfile {
	return c.profile
}

func (c *Client) State() model.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SendCommand resolves the logical name against the family table, issues
// the throttled IR request and interprets the reply markers.
func (c *Client) SendCommand(ctx context.Context, name string) (bool, error) {
	code, ok := catalog.Lookup(c.profile.Family, name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ports.ErrUnknownCommand, name)
	}

	body, err := c.execute(ctx, http.MethodGet, c.commandURL(code))
	if err != nil {
		c.log.Warn().Err(err).Str("command", name).Msg("command send failed")
		return false, err
	}

	accepted := interpretCommandReply(body)
	if accepted {
		c.log.Debug().
			Str("command", name).
			Str("ir_code", code).
			Bool("marker", hasSuccessMarker(body)).
			Msg("command accepted")
	} else {
		c.log.Warn().Str("command", name).Str("ir_code", code).Msg("command rejected by device")
	}
	return accepted, nil
}

// TestConnection sends the liveness probe once, without retries; the health
// monitor supplies its own retry ladder.
func (c *Client) TestConnection(ctx context.Context) bool {
	code, _ := catalog.Lookup(c.profile.Family, liveProbeCommand)
	status, _, err := c.doRequest(ctx, http.MethodGet, c.commandURL(code))
	ok := err == nil && status == http.StatusOK
	if !ok {
		c.markFailure()
		c.log.Debug().Err(err).Int("status", status).Msg("connection test failed")
	}
	return ok
}

// Close releases the underlying connection resources. Safe to call more
// than once. Background tasks must already be stopped.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
	c.state.Established = false
	return nil
}

func (c *Client) commandURL(code string) string {
	params := url.Values{}
	params.Set("cmd", "ir_code")
	params.Set("ir_code", code)
	return c.profile.BaseURL() + commandPath + "?" + params.Encode()
}

// execute runs one request through the retry policy. Timeouts and non-200
// replies retry after a short delay; connector-level failures get a longer
// delay and a full transport rebuild, since reusing a connection after a
// refusal is a known failure mode of this device.
func (c *Client) execute(ctx context.Context, method, rawURL string) ([]byte, error) {
	timeoutDelays := &delaySchedule{delays: c.tuning.TimeoutRetryDelays}
	connectorDelays := &delaySchedule{delays: c.tuning.ConnectorRetryDelays}
	attempts := len(c.tuning.TimeoutRetryDelays) + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		status, body, err := c.doRequest(ctx, method, rawURL)
		if err == nil && status == http.StatusOK {
			return body, nil
		}
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		var delay time.Duration
		switch {
		case err != nil && isConnectorError(err):
			lastErr = err
			c.rebuildTransport()
			delay = connectorDelays.NextBackOff()
		case err != nil:
			lastErr = err
			delay = timeoutDelays.NextBackOff()
		default:
			lastErr = fmt.Errorf("unexpected status %d", status)
			delay = timeoutDelays.NextBackOff()
		}

		if attempt == attempts-1 || delay < 0 {
			break
		}
		c.log.Warn().Err(lastErr).Dur("retry_in", delay).Msg("request failed, retrying")
		if err := sleepCtx(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	c.markFailure()
	return nil, fmt.Errorf("%w: %v", ports.ErrDeviceUnreachable, lastErr)
}

// doRequest issues exactly one paced request.
func (c *Client) doRequest(ctx context.Context, method, rawURL string) (int, []byte, error) {
	if err := c.pace(ctx); err != nil {
		return 0, nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, nil, fmt.Errorf("client closed")
	}
	client := c.httpClient
	c.state.LastRequest = time.Now()
	c.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, c.profile.RequestTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Close = true

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if resp.StatusCode == http.StatusOK {
		c.markSuccess()
	}
	return resp.StatusCode, body, nil
}

// pace blocks until the minimum interval since the previous send has
// elapsed, measured from send time. Holding paceMu across the wait also
// guarantees at most one in-flight request per device.
func (c *Client) pace(ctx context.Context) error {
	c.paceMu.Lock()
	defer c.paceMu.Unlock()

	wait := c.tuning.MinRequestInterval - time.Since(c.lastSend)
	if wait > 0 {
		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}
	c.lastSend = time.Now()
	return nil
}

func (c *Client) markSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Established = true
	c.state.LastSuccess = time.Now()
	c.state.ConsecutiveFailures = 0
}

func (c *Client) markFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Established = false
	c.state.ConsecutiveFailures++
}

func (c *Client) rebuildTransport() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.httpClient.CloseIdleConnections()
	c.httpClient = newHTTPClient(c.profile.RequestTimeout())
}

func interpretCommandReply(body []byte) bool {
	text := string(body)
	for _, marker := range failureMarkers {
		if strings.Contains(text, marker) {
			return false
		}
	}
	return true
}

func hasSuccessMarker(body []byte) bool {
	text := string(body)
	for _, marker := range successMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func isConnectorError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial" || opErr.Op == "read"
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
