package service

import (
	"context"
	"sync"

	"rvolution-bridge/internal/domain/model"
	"rvolution-bridge/internal/ports"
)

// fakeTransport scripts device behavior for service tests. Status bodies
// are consumed in order; once exhausted every fetch returns nil.
type fakeTransport struct {
	profile model.DeviceProfile

	mu           sync.Mutex
	established  bool
	testOK       bool
	sendAccepted bool
	sendErr      error
	statuses     [][]byte
	statusIdx    int
	fetches      int
	sent         []string
	closed       bool
}

var _ ports.Transport = (*fakeTransport)(nil)

func newFakeTransport(id string) *fakeTransport {
	return &fakeTransport{
		profile: model.DeviceProfile{
			ID: id, Name: id, Address: "10.0.0.2", Family: model.FamilyAmlogic, Enabled: true,
		},
		established:  true,
		testOK:       true,
		sendAccepted: true,
	}
}

func (f *fakeTransport) SendCommand(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, name)
	if f.sendErr != nil {
		return false, f.sendErr
	}
	return f.sendAccepted, nil
}

func (f *fakeTransport) FetchStatus(ctx context.Context) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.statusIdx < len(f.statuses) {
		body := f.statuses[f.statusIdx]
		f.statusIdx++
		return body
	}
	return nil
}

func (f *fakeTransport) TestConnection(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.testOK
}

func (f *fakeTransport) State() model.ConnectionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.ConnectionState{Established: f.established}
}

func (f *fakeTransport) Profile() model.DeviceProfile { return f.profile }

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeTransport) sentCommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeMonitor struct {
	mu     sync.Mutex
	starts int
	stops  int
}

var _ ports.LivenessMonitor = (*fakeMonitor)(nil)

func (m *fakeMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
}

func (m *fakeMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

func (m *fakeMonitor) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts, m.stops
}

// fakeFactory hands out pre-scripted transports by device ID and creates
// plain reachable ones for IDs it has no script for.
type fakeFactory struct {
	mu         sync.Mutex
	transports map[string]*fakeTransport
	monitors   map[string]*fakeMonitor
}

var _ ports.DeviceFactory = (*fakeFactory)(nil)

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		transports: make(map[string]*fakeTransport),
		monitors:   make(map[string]*fakeMonitor),
	}
}

func (f *fakeFactory) NewTransport(profile model.DeviceProfile) ports.Transport {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.transports[profile.ID]; ok {
		t.profile = profile
		return t
	}
	t := newFakeTransport(profile.ID)
	t.profile = profile
	f.transports[profile.ID] = t
	return t
}

func (f *fakeFactory) NewMonitor(t ports.Transport) ports.LivenessMonitor {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &fakeMonitor{}
	f.monitors[t.Profile().ID] = m
	return m
}

type applyCall struct {
	deviceID string
	attrs    map[string]any
}

type recordingSink struct {
	mu    sync.Mutex
	calls []applyCall
}

var _ ports.AttributeSink = (*recordingSink)(nil)

func (s *recordingSink) Apply(deviceID string, changed map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]any, len(changed))
	for k, v := range changed {
		copied[k] = v
	}
	s.calls = append(s.calls, applyCall{deviceID: deviceID, attrs: copied})
}

func (s *recordingSink) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *recordingSink) last() (applyCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return applyCall{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// lastValue returns the most recent value applied for one attribute key.
func (s *recordingSink) lastValue(deviceID, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].deviceID != deviceID {
			continue
		}
		if v, ok := s.calls[i].attrs[key]; ok {
			return v, true
		}
	}
	return nil, false
}

type memRepo struct {
	mu    sync.Mutex
	cfg   *model.Config
	saves int
}

var _ ports.ConfigRepository = (*memRepo)(nil)

func newMemRepo(devices ...*model.DeviceProfile) *memRepo {
	return &memRepo{cfg: &model.Config{Version: "1.0.0", Devices: devices}}
}

func (r *memRepo) Get(ctx context.Context) (*model.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg, nil
}

func (r *memRepo) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = config
	r.saves++
	return nil
}

func (r *memRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *memRepo) deviceIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.cfg.Devices))
	for _, d := range r.cfg.Devices {
		out = append(out, d.ID)
	}
	return out
}
