package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"rvolution-bridge/internal/domain/model"
	"rvolution-bridge/internal/domain/translator"
	"rvolution-bridge/internal/ports"
)

const (
	defaultPollInterval     = 5 * time.Second
	defaultFailureThreshold = 3
)

// Reconciler polls a device's status API and pushes normalized attribute
// updates to the sink. Status availability is a one-way latch: the first
// success makes it permanent, N consecutive failures while still unknown
// disable status polling for the rest of the session. Entity availability
// is never derived from status fetches; that belongs to the transport.
type Reconciler struct {
	deviceID  string
	transport ports.Transport
	sink      ports.AttributeSink
	log       zerolog.Logger
	interval  time.Duration
	threshold int

	mu           sync.Mutex
	availability model.StatusAvailability
	failures     int
	active       bool
	cancel       context.CancelFunc
	done         chan struct{}
}

func NewReconciler(deviceID string, transport ports.Transport, sink ports.AttributeSink, logger zerolog.Logger) *Reconciler {
	return NewTunedReconciler(deviceID, transport, sink, logger, defaultPollInterval)
}

// NewTunedReconciler overrides the poll interval. A non-positive interval
// keeps the default.
func NewTunedReconciler(deviceID string, transport ports.Transport, sink ports.AttributeSink, logger zerolog.Logger, pollInterval time.Duration) *Reconciler {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Reconciler{
		deviceID:  deviceID,
		transport: transport,
		sink:      sink,
		log:       logger.With().Str("device", deviceID).Str("task", "status").Logger(),
		interval:  pollInterval,
		threshold: defaultFailureThreshold,
		active:    true,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(runCtx, r.done)
}

func (r *Reconciler) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// SetActive gates polling on the device's power state. A powered-off
// device is not polled; its status API answers nothing useful anyway.
func (r *Reconciler) SetActive(on bool) {
	r.mu.Lock()
	r.active = on
	r.mu.Unlock()
}

func (r *Reconciler) Availability() model.StatusAvailability {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.availability
}

func (r *Reconciler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if r.Availability() == model.StatusUnavailable {
			// breaker tripped, end the task for good
			return
		}
		if !r.pollable() {
			continue
		}
		r.pollOnce(ctx)
	}
}

// pollable requires the connection to have been established and the device
// not known to be powered off.
func (r *Reconciler) pollable() bool {
	r.mu.Lock()
	active := r.active
	r.mu.Unlock()
	return active && r.transport.State().Established
}

func (r *Reconciler) pollOnce(ctx context.Context) {
	body := r.transport.FetchStatus(ctx)
	if body == nil {
		r.recordFailure()
		return
	}

	snap, err := r.normalize(body)
	if err != nil {
		r.log.Debug().Err(err).Msg("status payload rejected")
		r.recordFailure()
		return
	}

	r.recordSuccess()
	if attrs := attributesFrom(snap); len(attrs) > 0 {
		r.sink.Apply(r.deviceID, attrs)
	}
}

// normalize shields the poll loop from parser panics; they count as plain
// fetch failures.
func (r *Reconciler) normalize(body []byte) (snap *model.PlaybackSnapshot, err error) {
	defer func() {
		if p := recover(); p != nil {
			snap = nil
			err = fmt.Errorf("status parse panic: %v", p)
		}
	}()
	return translator.Normalize(body)
}

func (r *Reconciler) recordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.availability != model.StatusUnknown {
		return
	}
	r.failures++
	if r.failures >= r.threshold {
		r.availability = model.StatusUnavailable
		r.log.Info().
			Int("failures", r.failures).
			Msg("status API absent, disabling status polling for this session")
	}
}

func (r *Reconciler) recordSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.availability == model.StatusUnknown {
		r.log.Info().Msg("status API detected")
	}
	r.availability = model.StatusAvailable
	r.failures = 0
}

// attributesFrom flattens a snapshot into the partial attribute map pushed
// upstream. A not-playing phase forces the media descriptor fields clear;
// fields the poll said nothing about are simply omitted.
func attributesFrom(s *model.PlaybackSnapshot) map[string]any {
	attrs := map[string]any{}

	if s.Volume != nil {
		attrs[model.AttrVolume] = *s.Volume
	}
	if s.Muted != nil {
		attrs[model.AttrMuted] = *s.Muted
	}
	if s.Position != nil {
		attrs[model.AttrMediaPosition] = *s.Position
	}
	if s.Duration != nil {
		attrs[model.AttrMediaDuration] = *s.Duration
	}

	switch {
	case s.Phase == model.PhaseUnknown:
		// phase unreported: touch nothing else
	case s.Phase.ActiveMedia():
		attrs[model.AttrState] = string(s.Phase)
		if s.Media != nil {
			attrs[model.AttrMediaTitle] = s.Media.Title
			attrs[model.AttrMediaType] = string(s.Media.Kind)
			if s.Media.Series != "" {
				attrs[model.AttrMediaArtist] = s.Media.Series
			}
			if s.Media.SeasonEpisode != "" {
				attrs[model.AttrMediaAlbum] = s.Media.SeasonEpisode
			}
			if s.Media.ImageURL != "" {
				attrs[model.AttrMediaImageURL] = s.Media.ImageURL
			}
		}
	default:
		state := string(s.Phase)
		if s.Phase == model.PhaseStopped {
			// stopped device is still on, just idle
			state = model.StateOn
		}
		attrs[model.AttrState] = state
		attrs[model.AttrMediaTitle] = ""
		attrs[model.AttrMediaArtist] = ""
		attrs[model.AttrMediaAlbum] = ""
		attrs[model.AttrMediaImageURL] = ""
		attrs[model.AttrMediaDuration] = 0
		attrs[model.AttrMediaPosition] = 0
	}

	return attrs
}
