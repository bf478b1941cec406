package translator

import (
	"fmt"

	"rvolution-bridge/internal/domain/model"
)

type EpisodeStrategy struct{}

func (s *EpisodeStrategy) Describe(body []byte) *model.MediaDescriptor {
	title := stringField(body, "title", "media_title", "name")
	if title == "" {
		return nil
	}

	desc := &model.MediaDescriptor{
		Title:    title,
		Series:   stringField(body, "series", "show", "series_name"),
		ImageURL: stringField(body, "artwork", "image_url", "cover_url"),
	}

	season := intField(body, "season")
	episode := intField(body, "episode")
	if season != nil && episode != nil {
		desc.SeasonEpisode = fmt.Sprintf("Season %d Episode %d", *season, *episode)
	}

	return desc
}
