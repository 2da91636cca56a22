package playback

import (
	"context"
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunebox/tunebox/internal/domain/track"
)

// Errors
var (
	ErrNoTrack        = errors.New("no track loaded")
	ErrPlaybackFailed = errors.New("playback start failed")
)

// Config holds controller configuration.
type Config struct {
	Autoplay bool // Start playback as soon as a loaded source reports ready
}

// Controller owns at most one live audio source and its transport state.
// It is re-entrant for the process lifetime; loading a new track replaces
// the previous source wholesale.
type Controller struct {
	mu sync.Mutex

	newSource NewSourceFunc
	config    Config

	// Current session state
	current *track.Track
	source  Source
	state   State

	// Source generation. Callbacks from a source captured under an older
	// generation are dropped, so a stale progress tick can never mutate
	// the state of a newer track.
	gen int

	durationSeconds float64
	elapsedSeconds  float64
	sliderPercent   float64

	// Events
	eventCh chan Event
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
}

// Snapshot is a consistent read view of the playback session.
type Snapshot struct {
	State           State
	Track           *track.Track
	DurationSeconds float64
	ElapsedSeconds  float64
	SliderPercent   float64
}

// NewController creates a new playback controller.
func NewController(newSource NewSourceFunc, config Config) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		newSource: newSource,
		config:    config,
		state:     StateIdle,
		eventCh:   make(chan Event, 16),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Events returns the event channel.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Load replaces the current track. The previous source, if any, is paused
// and detached before the new one is acquired, so no overlapping audio and
// no dangling observers survive the switch. The track's preview URL is not
// validated here; a missing preview surfaces later as a playback failure.
func (c *Controller) Load(t track.Track) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source != nil {
		c.source.Pause()
		c.source.Detach()
		c.source = nil
	}
	c.gen++
	gen := c.gen

	src, err := c.newSource(t)
	if err != nil {
		c.current = nil
		c.state = StateIdle
		c.durationSeconds = 0
		c.elapsedSeconds = 0
		c.sliderPercent = 0
		return errors.Wrapf(err, "failed to acquire source for track %s", t.ID)
	}

	c.source = src
	c.current = &t
	c.state = StateLoading
	c.durationSeconds = 0
	c.elapsedSeconds = 0
	c.sliderPercent = 0

	cb := Callbacks{
		OnReady:    func(duration float64) { c.onReady(gen, duration) },
		OnProgress: func(elapsed float64) { c.onProgress(gen, elapsed) },
		OnEnd:      func() { c.onEnd(gen) },
		OnError:    func(err error) { c.onError(gen, err) },
	}
	if err := src.Load(c.ctx, cb); err != nil {
		src.Detach()
		c.source = nil
		c.current = nil
		c.state = StateIdle
		return errors.Wrapf(err, "failed to load track %s", t.ID)
	}

	zlog.Debug().Msgf("playback: loaded track: id=%s name=%s preview=%q", t.ID, t.Name, t.PreviewURL)

	c.sendEventLocked(Event{Type: EventTrackLoaded, Track: c.current, State: c.state})
	return nil
}

// Play requests playback start on the held source. No-op without a source.
// A rejected play request leaves the state Paused and emits
// EventPlaybackFailed.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playLocked()
}

func (c *Controller) playLocked() error {
	if c.source == nil {
		return nil
	}
	if c.state == StatePlaying {
		return nil
	}

	if err := c.source.Play(); err != nil {
		c.state = StatePaused
		wrapped := errors.Mark(errors.Wrapf(err, "track %s", trackID(c.current)), ErrPlaybackFailed)
		zlog.Warn().Msgf("playback: play request rejected: %v", err)
		c.sendEventLocked(Event{Type: EventPlaybackFailed, Track: c.current, State: c.state, Err: wrapped})
		return wrapped
	}

	c.state = StatePlaying
	c.sendEventLocked(Event{Type: EventTrackStarted, Track: c.current, State: c.state})
	return nil
}

// Pause stops playback, keeping the position. No-op without a source.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil {
		return
	}
	c.source.Pause()
	if c.state == StatePlaying || c.state == StateLoading {
		c.state = StatePaused
		c.sendEventLocked(Event{Type: EventStateChanged, Track: c.current, State: c.state})
	}
}

// Toggle pauses when playing, otherwise requests play.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StatePlaying {
		if c.source != nil {
			c.source.Pause()
		}
		c.state = StatePaused
		c.sendEventLocked(Event{Type: EventStateChanged, Track: c.current, State: c.state})
		return nil
	}
	return c.playLocked()
}

// Seek moves the position to percent (0-100) of the track duration.
// The slider reflects the requested percent immediately, ahead of the next
// progress tick. No-op without a live source.
func (c *Controller) Seek(percent float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil {
		return
	}
	percent = math.Max(0, math.Min(100, percent))
	target := math.Round(percent / 100 * c.durationSeconds)

	c.source.SeekTo(target)
	c.elapsedSeconds = target
	c.sliderPercent = percent
	c.sendEventLocked(Event{Type: EventProgress, Track: c.current, State: c.state})
}

// Snapshot returns a consistent view of the current session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:           c.state,
		Track:           c.current,
		DurationSeconds: c.durationSeconds,
		ElapsedSeconds:  c.elapsedSeconds,
		SliderPercent:   c.sliderPercent,
	}
}

// Close releases the live source and closes the event channel. Idempotent.
// A source may still be mid-callback when Detach returns; bumping the
// generation drops those stragglers the same way Load does, and the closed
// flag keeps any late sender off the closed channel.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	if c.source != nil {
		c.source.Pause()
		c.source.Detach()
		c.source = nil
	}
	c.current = nil
	c.state = StateIdle
	c.mu.Unlock()

	c.cancel()
	close(c.eventCh)
}

// onReady handles the source's metadata-ready signal.
func (c *Controller) onReady(gen int, duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}

	c.durationSeconds = duration
	c.elapsedSeconds = 0
	c.sliderPercent = 0

	zlog.Debug().Msgf("playback: source ready: track=%s duration=%.1fs", trackID(c.current), duration)

	// Autoplay is keyed to readiness: the transition to Playing happens
	// here, never on a clock.
	if c.config.Autoplay && c.state == StateLoading {
		_ = c.playLocked()
	} else if c.state == StateLoading {
		c.state = StatePaused
		c.sendEventLocked(Event{Type: EventStateChanged, Track: c.current, State: c.state})
	}
}

// onProgress handles a position update from the live source.
func (c *Controller) onProgress(gen int, elapsed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}

	c.elapsedSeconds = elapsed
	c.sliderPercent = sliderPercent(elapsed, c.durationSeconds)
	c.sendEventLocked(Event{Type: EventProgress, Track: c.current, State: c.state})
}

// onEnd handles the source reaching the end of the preview.
func (c *Controller) onEnd(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}

	c.elapsedSeconds = c.durationSeconds
	c.sliderPercent = sliderPercent(c.elapsedSeconds, c.durationSeconds)
	c.state = StatePaused
	c.sendEventLocked(Event{Type: EventTrackEnded, Track: c.current, State: c.state})
}

// onError handles an asynchronous failure from the live source.
// The session stays loaded but paused; the failure is surfaced as an event.
func (c *Controller) onError(gen int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}

	c.state = StatePaused
	wrapped := errors.Mark(errors.Wrapf(err, "track %s", trackID(c.current)), ErrPlaybackFailed)
	zlog.Warn().Msgf("playback: source failed: %v", err)
	c.sendEventLocked(Event{Type: EventPlaybackFailed, Track: c.current, State: c.state, Err: wrapped})
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(e Event) {
	if c.closed {
		return
	}
	select {
	case c.eventCh <- e:
	case <-c.ctx.Done():
	default:
		// Channel full, drop event
	}
}

// sliderPercent derives the slider position from elapsed/duration,
// rounded to one decimal. Zero or unknown duration yields 0.
func sliderPercent(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return math.Round(elapsed/duration*1000) / 10
}

func trackID(t *track.Track) string {
	if t == nil {
		return ""
	}
	return t.ID
}
