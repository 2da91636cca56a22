// Package audio provides playable sources for track preview URLs.
package audio

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunebox/tunebox/internal/app/playback"
	"github.com/tunebox/tunebox/internal/domain/track"
)

// StreamConfig represents stream source settings.
type StreamConfig struct {
	TickMS         int `yaml:"tick_ms" mapstructure:"tick_ms" default:"250" validate:"gte=50,lte=2000"`
	PreviewSeconds int `yaml:"preview_seconds" mapstructure:"preview_seconds" default:"30" validate:"gte=1,lte=300"`
	TimeoutMS      int `yaml:"timeout_ms" mapstructure:"timeout_ms" default:"15000" validate:"gte=100,lte=120000"`
}

// StreamSource is a playback.Source backed by an HTTP preview URL.
//
// Acquisition is lazy: Load starts the fetch in the background and readiness
// is reported when response headers arrive. Position is paced by a wall-clock
// ticker; the preview bytes themselves are streamed in the background for
// the lifetime of the source.
type StreamSource struct {
	mu sync.Mutex

	url        string
	duration   time.Duration
	tick       time.Duration
	httpClient *http.Client

	cb     playback.Callbacks
	ctx    context.Context
	cancel context.CancelFunc

	ready    bool
	playing  bool
	wantPlay bool
	detached bool
	loadErr  error

	elapsed   time.Duration // accumulated play time up to the last pause/seek
	startedAt time.Time     // wall time the clock last started
	clockStop func()
}

// NewStreamSource creates a source for the track's preview URL.
// The effective duration is the preview length capped by the track duration.
func NewStreamSource(t track.Track, cfg StreamConfig) *StreamSource {
	duration := time.Duration(cfg.PreviewSeconds) * time.Second
	if d := t.Duration(); d > 0 && d < duration {
		duration = d
	}
	return &StreamSource{
		url:      t.PreviewURL,
		duration: duration,
		tick:     time.Duration(cfg.TickMS) * time.Millisecond,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Load begins fetching the preview. Readiness fires on response headers.
func (s *StreamSource) Load(ctx context.Context, cb playback.Callbacks) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detached {
		return errors.New("source already detached")
	}
	s.cb = cb
	s.ctx, s.cancel = context.WithCancel(ctx)

	if s.url == "" {
		// No preview URL. The fetch is skipped; Play will reject.
		return nil
	}

	go s.fetch()
	return nil
}

func (s *StreamSource) fetch() {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.url, nil)
	if err != nil {
		s.failLoad(errors.Wrap(err, "invalid preview URL"))
		return
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.failLoad(errors.Wrap(err, "preview fetch failed"))
		return
	}
	if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		s.failLoad(errors.Newf("preview fetch failed: status %d", resp.StatusCode))
		return
	}

	// Drain the preview bytes in the background; the position clock is
	// wall-time paced, not byte paced.
	go func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return
	}
	s.ready = true
	onReady := s.cb.OnReady
	s.mu.Unlock()

	// Readiness is delivered before the clock starts, so the listener has
	// the duration before the first progress tick.
	zlog.Debug().Msgf("audio: stream ready: url=%s duration=%v", s.url, s.duration)
	if onReady != nil {
		onReady(s.duration.Seconds())
	}

	s.mu.Lock()
	if !s.detached && s.wantPlay && !s.playing {
		s.startClockLocked()
	}
	s.mu.Unlock()
}

func (s *StreamSource) failLoad(err error) {
	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return
	}
	s.loadErr = err
	onError := s.cb.OnError
	s.mu.Unlock()

	if onError != nil {
		onError(err)
	}
}

// Play requests playback. Before readiness the request is remembered and
// playback starts on the ready signal.
func (s *StreamSource) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detached {
		return errors.New("source already detached")
	}
	if s.url == "" {
		return errors.New("track has no preview")
	}
	if s.loadErr != nil {
		return s.loadErr
	}

	s.wantPlay = true
	if s.ready && !s.playing {
		s.startClockLocked()
	}
	return nil
}

// Pause stops the position clock, keeping the position.
func (s *StreamSource) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wantPlay = false
	if !s.playing {
		return
	}
	s.elapsed += time.Since(s.startedAt)
	s.playing = false
	s.stopClockLocked()
}

// SeekTo moves the position to the given offset in seconds.
func (s *StreamSource) SeekTo(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := time.Duration(seconds * float64(time.Second))
	if target < 0 {
		target = 0
	}
	if target > s.duration {
		target = s.duration
	}
	s.elapsed = target
	if s.playing {
		s.startedAt = time.Now()
	}
}

// Detach releases the resource. Callbacks are silenced from here on;
// the controller additionally drops any straggler by generation.
func (s *StreamSource) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detached {
		return
	}
	s.detached = true
	s.playing = false
	s.wantPlay = false
	s.stopClockLocked()
	if s.cancel != nil {
		s.cancel()
	}
	s.cb = playback.Callbacks{}
}

// startClockLocked starts the position ticker. Must be called with lock held.
func (s *StreamSource) startClockLocked() {
	s.playing = true
	s.startedAt = time.Now()

	ctx, cancel := context.WithCancel(s.ctx)
	s.clockStop = cancel

	go func() {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.onTick()
			}
		}
	}()
}

func (s *StreamSource) stopClockLocked() {
	if s.clockStop != nil {
		s.clockStop()
		s.clockStop = nil
	}
}

func (s *StreamSource) onTick() {
	s.mu.Lock()
	if s.detached || !s.playing {
		s.mu.Unlock()
		return
	}

	elapsed := s.elapsed + time.Since(s.startedAt)
	ended := elapsed >= s.duration
	if ended {
		elapsed = s.duration
		s.elapsed = elapsed
		s.playing = false
		s.wantPlay = false
		s.stopClockLocked()
	}
	onProgress := s.cb.OnProgress
	onEnd := s.cb.OnEnd
	s.mu.Unlock()

	if onProgress != nil {
		onProgress(elapsed.Seconds())
	}
	if ended && onEnd != nil {
		onEnd()
	}
}

// Ensure StreamSource implements playback.Source
var _ playback.Source = (*StreamSource)(nil)
