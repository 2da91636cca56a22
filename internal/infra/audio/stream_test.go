package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebox/tunebox/internal/app/playback"
	"github.com/tunebox/tunebox/internal/domain/track"
)

const waitFor = 5 * time.Second

func previewServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(make([]byte, 4096))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func previewTrack(url string, durationMS int64) track.Track {
	return track.Track{ID: "t1", Name: "Preview", DurationMS: durationMS, PreviewURL: url}
}

func testStreamConfig() StreamConfig {
	return StreamConfig{TickMS: 50, PreviewSeconds: 30, TimeoutMS: 15000}
}

func TestReadyReportsCappedDuration(t *testing.T) {
	srv := previewServer(t)

	cfg := testStreamConfig()
	cfg.PreviewSeconds = 2

	// Track longer than the preview window: the window wins.
	s := NewStreamSource(previewTrack(srv.URL, 5000), cfg)
	defer s.Detach()

	ready := make(chan float64, 1)
	require.NoError(t, s.Load(context.Background(), playback.Callbacks{
		OnReady: func(d float64) { ready <- d },
	}))

	select {
	case d := <-ready:
		assert.InDelta(t, 2.0, d, 0.001)
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for ready")
	}
}

func TestTrackShorterThanPreviewWindow(t *testing.T) {
	srv := previewServer(t)

	s := NewStreamSource(previewTrack(srv.URL, 1500), testStreamConfig())
	defer s.Detach()

	ready := make(chan float64, 1)
	require.NoError(t, s.Load(context.Background(), playback.Callbacks{
		OnReady: func(d float64) { ready <- d },
	}))

	select {
	case d := <-ready:
		assert.InDelta(t, 1.5, d, 0.001)
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for ready")
	}
}

func TestPlayBeforeReadyStartsOnReady(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write(make([]byte, 1024))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() {
		select {
		case <-release:
		default:
			close(release)
		}
	})

	s := NewStreamSource(previewTrack(srv.URL, 0), testStreamConfig())
	defer s.Detach()

	progress := make(chan float64, 16)
	require.NoError(t, s.Load(context.Background(), playback.Callbacks{
		OnProgress: func(e float64) { progress <- e },
	}))

	// Requested before headers arrive; remembered until ready.
	require.NoError(t, s.Play())
	select {
	case e := <-progress:
		t.Fatalf("progress before ready: %v", e)
	case <-time.After(200 * time.Millisecond):
	}

	close(release)

	select {
	case e := <-progress:
		assert.Greater(t, e, 0.0)
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for progress")
	}
}

func TestReadyPrecedesFirstProgress(t *testing.T) {
	srv := previewServer(t)

	s := NewStreamSource(previewTrack(srv.URL, 0), testStreamConfig())
	defer s.Detach()

	events := make(chan string, 64)
	require.NoError(t, s.Load(context.Background(), playback.Callbacks{
		OnReady:    func(float64) { events <- "ready" },
		OnProgress: func(float64) { events <- "progress" },
	}))

	// Requested before readiness: the duration must still reach the
	// listener before the first position tick.
	require.NoError(t, s.Play())

	select {
	case first := <-events:
		assert.Equal(t, "ready", first)
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for ready")
	}
	select {
	case next := <-events:
		assert.Equal(t, "progress", next)
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for progress")
	}
}

func TestProgressRunsToEnd(t *testing.T) {
	srv := previewServer(t)

	// 300ms track against a 50ms tick.
	s := NewStreamSource(previewTrack(srv.URL, 300), testStreamConfig())
	defer s.Detach()

	var last float64
	progress := make(chan float64, 64)
	ended := make(chan struct{})
	require.NoError(t, s.Load(context.Background(), playback.Callbacks{
		OnProgress: func(e float64) { progress <- e },
		OnEnd:      func() { close(ended) },
	}))
	require.NoError(t, s.Play())

	select {
	case <-ended:
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for end")
	}

	for {
		select {
		case e := <-progress:
			last = e
			continue
		default:
		}
		break
	}
	assert.InDelta(t, 0.3, last, 0.001)
}

func TestPauseFreezesPosition(t *testing.T) {
	srv := previewServer(t)

	s := NewStreamSource(previewTrack(srv.URL, 0), testStreamConfig())
	defer s.Detach()

	progress := make(chan float64, 64)
	require.NoError(t, s.Load(context.Background(), playback.Callbacks{
		OnProgress: func(e float64) { progress <- e },
	}))
	require.NoError(t, s.Play())

	select {
	case <-progress:
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for progress")
	}

	s.Pause()
	drainFloats(progress)

	select {
	case e := <-progress:
		t.Fatalf("progress after pause: %v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSeekPastEndFinishesOnNextTick(t *testing.T) {
	srv := previewServer(t)

	cfg := testStreamConfig()
	cfg.PreviewSeconds = 30

	s := NewStreamSource(previewTrack(srv.URL, 0), cfg)
	defer s.Detach()

	ended := make(chan struct{})
	require.NoError(t, s.Load(context.Background(), playback.Callbacks{
		OnEnd: func() { close(ended) },
	}))
	require.NoError(t, s.Play())

	s.SeekTo(10_000) // clamped to the preview window
	select {
	case <-ended:
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for end after seek")
	}
}

func TestPlayWithoutPreviewURLFails(t *testing.T) {
	s := NewStreamSource(previewTrack("", 0), testStreamConfig())
	defer s.Detach()

	require.NoError(t, s.Load(context.Background(), playback.Callbacks{}))
	assert.Error(t, s.Play())
}

func TestFetchFailureReportsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	s := NewStreamSource(previewTrack(srv.URL, 0), testStreamConfig())
	defer s.Detach()

	errCh := make(chan error, 1)
	require.NoError(t, s.Load(context.Background(), playback.Callbacks{
		OnError: func(err error) { errCh <- err },
	}))

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for load error")
	}

	assert.Error(t, s.Play())
}

func TestDetachSilencesCallbacks(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	s := NewStreamSource(previewTrack(srv.URL, 0), testStreamConfig())

	ready := make(chan float64, 1)
	require.NoError(t, s.Load(context.Background(), playback.Callbacks{
		OnReady: func(d float64) { ready <- d },
	}))

	s.Detach()

	select {
	case d := <-ready:
		t.Fatalf("ready after detach: %v", d)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Error(t, s.Play())
}

func drainFloats(ch chan float64) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
