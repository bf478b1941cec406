package model

type PlaybackPhase string

const (
	PhasePlaying   PlaybackPhase = "playing"
	PhasePaused    PlaybackPhase = "paused"
	PhaseStopped   PlaybackPhase = "stopped"
	PhaseBuffering PlaybackPhase = "buffering"
	PhaseOff       PlaybackPhase = "off"
	PhaseUnknown   PlaybackPhase = "unknown"
)

// ActiveMedia reports whether the phase implies a media descriptor may be
// populated. Any other phase forces the descriptor fields to clear.
func (p PlaybackPhase) ActiveMedia() bool {
	switch p {
	case PhasePlaying, PhasePaused, PhaseBuffering:
		return true
	}
	return false
}

type MediaKind string

const (
	MediaKindMovie   MediaKind = "movie"
	MediaKindEpisode MediaKind = "episode"
	MediaKindOther   MediaKind = "other"
)

type MediaDescriptor struct {
	Kind          MediaKind
	Title         string
	Series        string
	SeasonEpisode string
	ImageURL      string
}

// PlaybackSnapshot is the replace-wholesale view produced by one successful
// status poll. Nil pointer fields mean the poll said nothing about them, so
// the previous attribute value stays untouched.
type PlaybackSnapshot struct {
	Phase    PlaybackPhase
	Position *int // seconds
	Duration *int // seconds
	Volume   *int // 0-100
	Muted    *bool
	Media    *MediaDescriptor
}

type StatusAvailability int

const (
	StatusUnknown StatusAvailability = iota
	StatusAvailable
	StatusUnavailable
)

func (s StatusAvailability) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}
