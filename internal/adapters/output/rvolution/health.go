package rvolution

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"rvolution-bridge/internal/ports"
)

const defaultMonitorInterval = 60 * time.Second

var defaultRecoveryDelays = []time.Duration{
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
	60 * time.Second,
	300 * time.Second,
}

var errProbeFailed = errors.New("liveness probe failed")

// Monitor periodically verifies a transport's connectivity and runs a
// bounded recovery sequence after loss.
type Monitor struct {
	transport      ports.Transport
	log            zerolog.Logger
	interval       time.Duration
	recoveryDelays []time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ ports.LivenessMonitor = (*Monitor)(nil)

func NewMonitor(transport ports.Transport, logger zerolog.Logger) *Monitor {
	return &Monitor{
		transport:      transport,
		log:            logger.With().Str("device", transport.Profile().ID).Str("task", "health").Logger(),
		interval:       defaultMonitorInterval,
		recoveryDelays: defaultRecoveryDelays,
	}
}

// Start launches the polling task. Starting a running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(runCtx, m.done)
}

// Stop cancels the polling task and waits for it to finish, so no recovery
// attempt outlives the client it probes.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if m.transport.State().Established {
			m.log.Debug().Msg("connection healthy")
			continue
		}
		m.runRecovery(ctx)
	}
}

func (m *Monitor) runRecovery(ctx context.Context) {
	m.log.Info().Msg("connection lost, starting recovery")

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if m.transport.TestConnection(ctx) {
			return struct{}{}, nil
		}
		return struct{}{}, errProbeFailed
	},
		backoff.WithBackOff(&delaySchedule{delays: m.recoveryDelays}),
		backoff.WithMaxTries(uint(len(m.recoveryDelays))),
	)

	if err != nil {
		m.log.Warn().Int("attempts", attempt).Msg("recovery exhausted, will retry next cycle")
		return
	}
	m.log.Info().Int("attempts", attempt).Msg("connection recovered")
}
