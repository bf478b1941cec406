package translator

import (
	"rvolution-bridge/internal/domain/model"
)

// MovieStrategy populates title and artwork. Series fields stay empty so a
// previous episode's show name never bleeds into a movie.
type MovieStrategy struct{}

func (s *MovieStrategy) Describe(body []byte) *model.MediaDescriptor {
	title := stringField(body, "title", "media_title", "name")
	if title == "" {
		return nil
	}
	return &model.MediaDescriptor{
		Title:    title,
		ImageURL: stringField(body, "artwork", "image_url", "cover_url"),
	}
}
