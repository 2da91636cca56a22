package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebox/tunebox/internal/domain/track"
	"github.com/tunebox/tunebox/internal/infra/config"
)

func TestSourceFactoryDefaults(t *testing.T) {
	factory, err := NewSourceFactory(config.AudioConfig{})
	require.NoError(t, err)

	src, err := factory(track.Track{ID: "t1", PreviewURL: "http://example.com/p.mp3"})
	require.NoError(t, err)
	require.IsType(t, &StreamSource{}, src)
}

func TestSourceFactoryDecodesSettings(t *testing.T) {
	factory, err := NewSourceFactory(config.AudioConfig{
		Type: "stream",
		Settings: map[string]any{
			"tick_ms":         100,
			"preview_seconds": 10,
		},
	})
	require.NoError(t, err)

	src, err := factory(track.Track{ID: "t1", PreviewURL: "http://example.com/p.mp3"})
	require.NoError(t, err)

	stream, ok := src.(*StreamSource)
	require.True(t, ok)
	assert.Equal(t, 10.0, stream.duration.Seconds())
}

func TestSourceFactoryRejectsBadSettings(t *testing.T) {
	_, err := NewSourceFactory(config.AudioConfig{
		Type:     "stream",
		Settings: map[string]any{"tick_ms": 5},
	})
	assert.Error(t, err)
}

func TestSourceFactoryUnknownType(t *testing.T) {
	_, err := NewSourceFactory(config.AudioConfig{Type: "midi"})
	assert.Error(t, err)
}
