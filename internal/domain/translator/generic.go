package translator

import (
	"rvolution-bridge/internal/domain/model"
)

// GenericStrategy handles unrecognized media kinds: title only.
type GenericStrategy struct{}

func (s *GenericStrategy) Describe(body []byte) *model.MediaDescriptor {
	title := stringField(body, "title", "media_title", "name")
	if title == "" {
		return nil
	}
	return &model.MediaDescriptor{Title: title}
}
