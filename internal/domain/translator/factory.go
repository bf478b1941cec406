package translator

import (
	"rvolution-bridge/internal/domain/model"
)

type Factory struct {
	strategies map[model.MediaKind]Strategy
}

func NewFactory() *Factory {
	return &Factory{
		strategies: map[model.MediaKind]Strategy{
			model.MediaKindMovie:   &MovieStrategy{},
			model.MediaKindEpisode: &EpisodeStrategy{},
			model.MediaKindOther:   &GenericStrategy{},
		},
	}
}

func (f *Factory) Strategy(kind model.MediaKind) Strategy {
	if s, ok := f.strategies[kind]; ok {
		return s
	}
	return f.strategies[model.MediaKindOther]
}
