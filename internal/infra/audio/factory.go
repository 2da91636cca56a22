package audio

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunebox/tunebox/internal/app/playback"
	"github.com/tunebox/tunebox/internal/domain/track"
	"github.com/tunebox/tunebox/internal/infra/config"
)

// NewSourceFactory builds a source constructor from audio configuration.
func NewSourceFactory(cfg config.AudioConfig) (playback.NewSourceFunc, error) {
	switch cfg.Type {
	case "stream", "":
		sc, err := decodeStreamConfig(cfg.Settings)
		if err != nil {
			return nil, errors.Wrap(err, "invalid stream source settings")
		}
		return func(t track.Track) (playback.Source, error) {
			return NewStreamSource(t, *sc), nil
		}, nil

	default:
		return nil, errors.Newf("unsupported audio source type: %s", cfg.Type)
	}
}

func decodeStreamConfig(settings map[string]any) (*StreamConfig, error) {
	var sc StreamConfig
	if err := mapstructure.Decode(settings, &sc); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&sc); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("audio: stream source config: %+v", sc)
	if err := validator.New().Struct(sc); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &sc, nil
}
