package rvolution

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// delaySchedule is a backoff.BackOff over a fixed delay table. The device
// wants known, escalating pauses, not jittered exponential growth.
type delaySchedule struct {
	delays []time.Duration
	next   int
}

func (s *delaySchedule) NextBackOff() time.Duration {
	if s.next >= len(s.delays) {
		return backoff.Stop
	}
	d := s.delays[s.next]
	s.next++
	return d
}

func (s *delaySchedule) Reset() {
	s.next = 0
}
