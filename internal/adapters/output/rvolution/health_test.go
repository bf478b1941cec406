package rvolution

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvolution-bridge/internal/domain/model"
)

// probeTransport fails its liveness probe a fixed number of times before
// recovering.
type probeTransport struct {
	mu           sync.Mutex
	failuresLeft int
	established  bool
	probes       int
}

func (p *probeTransport) SendCommand(ctx context.Context, name string) (bool, error) {
	return true, nil
}

func (p *probeTransport) FetchStatus(ctx context.Context) []byte { return nil }

func (p *probeTransport) TestConnection(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes++
	if p.failuresLeft > 0 {
		p.failuresLeft--
		return false
	}
	p.established = true
	return true
}

func (p *probeTransport) State() model.ConnectionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return model.ConnectionState{Established: p.established}
}

func (p *probeTransport) Profile() model.DeviceProfile {
	return model.DeviceProfile{ID: "probe1", Name: "Probe", Address: "127.0.0.1", Family: model.FamilyAmlogic}
}

func (p *probeTransport) Close() error { return nil }

func (p *probeTransport) probeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.probes
}

func fastMonitor(transport *probeTransport) *Monitor {
	m := NewMonitor(transport, zerolog.Nop())
	m.interval = 5 * time.Millisecond
	m.recoveryDelays = []time.Duration{
		time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond,
	}
	return m
}

func TestMonitor_RecoversAfterTransientFailures(t *testing.T) {
	transport := &probeTransport{failuresLeft: 2}
	m := fastMonitor(transport)

	m.Start(context.Background())
	defer m.Stop()

	require.Eventually(t, func() bool {
		return transport.State().Established
	}, 2*time.Second, 5*time.Millisecond)

	// two failed probes plus the successful one
	assert.GreaterOrEqual(t, transport.probeCount(), 3)
}

func TestMonitor_ExhaustsLadderAndRetriesNextCycle(t *testing.T) {
	transport := &probeTransport{failuresLeft: 7}
	m := fastMonitor(transport)

	m.Start(context.Background())
	defer m.Stop()

	// 5 attempts in the first cycle are not enough; the next cycle finishes
	// the job.
	require.Eventually(t, func() bool {
		return transport.State().Established
	}, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, transport.probeCount(), 8)
}

func TestMonitor_StartTwiceIsNoOp(t *testing.T) {
	transport := &probeTransport{established: true}
	m := fastMonitor(transport)

	m.Start(context.Background())
	m.Start(context.Background())
	m.Stop()

	// a second Stop must not block or panic
	m.Stop()
}

func TestMonitor_StopHaltsProbing(t *testing.T) {
	transport := &probeTransport{failuresLeft: 1 << 30}
	m := fastMonitor(transport)

	m.Start(context.Background())
	require.Eventually(t, func() bool {
		return transport.probeCount() > 0
	}, 2*time.Second, 5*time.Millisecond)

	m.Stop()
	settled := transport.probeCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, transport.probeCount())
}

func TestMonitor_SkipsProbingWhileHealthy(t *testing.T) {
	transport := &probeTransport{established: true}
	m := fastMonitor(transport)

	m.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	m.Stop()

	assert.Equal(t, 0, transport.probeCount())
}
