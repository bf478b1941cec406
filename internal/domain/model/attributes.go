package model

// Attribute keys pushed to the remote-hub entity through the attribute sink.
const (
	AttrState         = "state"
	AttrVolume        = "volume"
	AttrMuted         = "muted"
	AttrMediaTitle    = "media_title"
	AttrMediaArtist   = "media_artist"
	AttrMediaAlbum    = "media_album"
	AttrMediaImageURL = "media_image_url"
	AttrMediaDuration = "media_duration"
	AttrMediaPosition = "media_position"
	AttrMediaType     = "media_type"
)

// Entity state values. Playback phases map onto these directly; the two
// extra values are driven by connectivity, never by the status API.
const (
	StateOn          = "on"
	StateUnavailable = "unavailable"
)
