package playback

import (
	"context"

	"github.com/tunebox/tunebox/internal/domain/track"
)

// Callbacks carries the observers a controller registers on a source.
// A source must never invoke them after Detach returns.
type Callbacks struct {
	OnReady    func(durationSeconds float64) // Metadata available; playback may start
	OnProgress func(elapsedSeconds float64)  // Position update while playing
	OnEnd      func()                        // Preview finished
	OnError    func(err error)               // Asynchronous acquisition or playback failure
}

// Source is a playable resource bound to one track's preview URL.
// Exactly one source is live at a time; the controller detaches the
// previous source before acquiring the next.
type Source interface {
	// Load begins acquiring the resource. Acquisition is lazy: readiness is
	// reported asynchronously through cb.OnReady.
	Load(ctx context.Context, cb Callbacks) error

	// Play requests playback start. Safe to call before OnReady has fired;
	// playback then begins as soon as the source is ready.
	Play() error

	// Pause stops playback, keeping the position.
	Pause()

	// SeekTo moves the position to the given offset in seconds.
	SeekTo(seconds float64)

	// Detach releases the resource and silences all callbacks.
	Detach()
}

// NewSourceFunc acquires a fresh source for a track.
type NewSourceFunc func(t track.Track) (Source, error)
