package library

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGate bool

func (g fakeGate) IsAuthenticated() bool { return bool(g) }

// fakeAPI implements API with scriptable results. When entered is non-nil,
// each mutating call signals entered and blocks on release, so tests can
// observe in-flight state.
type fakeAPI struct {
	mu sync.Mutex

	inLibrary bool
	checkErr  error
	addErr    error
	removeErr error

	checkCalls  int
	addCalls    int
	removeCalls int

	entered chan struct{}
	release chan struct{}

	checkEntered chan struct{}
	checkRelease chan struct{}
}

func (f *fakeAPI) hold() {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
}

func (f *fakeAPI) AlbumInLibrary(context.Context, string) (bool, error) {
	f.mu.Lock()
	f.checkCalls++
	f.mu.Unlock()
	if f.checkEntered != nil {
		f.checkEntered <- struct{}{}
		<-f.checkRelease
	}
	return f.inLibrary, f.checkErr
}

func (f *fakeAPI) AddAlbumToLibrary(context.Context, string) error {
	f.mu.Lock()
	f.addCalls++
	f.mu.Unlock()
	f.hold()
	return f.addErr
}

func (f *fakeAPI) RemoveAlbumFromLibrary(context.Context, string) error {
	f.mu.Lock()
	f.removeCalls++
	f.mu.Unlock()
	f.hold()
	return f.removeErr
}

func (f *fakeAPI) PlaylistInLibrary(ctx context.Context, id string) (bool, error) {
	return f.AlbumInLibrary(ctx, id)
}

func (f *fakeAPI) AddPlaylistToLibrary(ctx context.Context, id string) error {
	return f.AddAlbumToLibrary(ctx, id)
}

func (f *fakeAPI) RemovePlaylistFromLibrary(ctx context.Context, id string) error {
	return f.RemoveAlbumFromLibrary(ctx, id)
}

func (f *fakeAPI) calls() (check, add, remove int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checkCalls, f.addCalls, f.removeCalls
}

func TestRefreshSkippedWhenUnauthenticated(t *testing.T) {
	api := &fakeAPI{inLibrary: true}
	m := New(api, fakeGate(false), ItemTypePlaylist, "p1")

	m.Refresh(context.Background())

	check, _, _ := api.calls()
	assert.Zero(t, check, "mount check must be skipped entirely")
	assert.False(t, m.IsMember())
}

func TestToggleDroppedWhenUnauthenticated(t *testing.T) {
	api := &fakeAPI{}
	m := New(api, fakeGate(false), ItemTypeAlbum, "a1")

	assert.False(t, m.Toggle(context.Background()))

	_, add, remove := api.calls()
	assert.Zero(t, add)
	assert.Zero(t, remove)
	assert.False(t, m.IsMember())
}

func TestRefreshSetsMembership(t *testing.T) {
	api := &fakeAPI{inLibrary: true}
	m := New(api, fakeGate(true), ItemTypeAlbum, "a1")

	m.Refresh(context.Background())
	assert.True(t, m.IsMember())
	assert.False(t, m.Pending())
}

func TestRefreshFailureLeavesDefault(t *testing.T) {
	api := &fakeAPI{checkErr: errors.New("boom")}
	m := New(api, fakeGate(true), ItemTypePlaylist, "p1")

	m.Refresh(context.Background())

	// Best-effort presence data: failures are invisible.
	assert.False(t, m.IsMember())
	assert.False(t, m.Pending())
}

func TestToggleRemovesWhenMember(t *testing.T) {
	api := &fakeAPI{inLibrary: true, entered: make(chan struct{}), release: make(chan struct{})}
	m := New(api, fakeGate(true), ItemTypePlaylist, "p1")
	m.Refresh(context.Background())
	require.True(t, m.IsMember())

	done := make(chan bool)
	go func() { done <- m.Toggle(context.Background()) }()

	// The optimistic flip is visible before the remote call returns.
	<-api.entered
	assert.False(t, m.IsMember())
	assert.True(t, m.Pending())

	close(api.release)
	assert.True(t, <-done)

	assert.False(t, m.IsMember())
	assert.False(t, m.Pending())
	_, add, remove := api.calls()
	assert.Zero(t, add, "member toggle must issue a remove, not an add")
	assert.Equal(t, 1, remove)
}

func TestToggleAtMostOneInFlight(t *testing.T) {
	api := &fakeAPI{entered: make(chan struct{}), release: make(chan struct{})}
	m := New(api, fakeGate(true), ItemTypeAlbum, "a1")

	done := make(chan bool)
	go func() { done <- m.Toggle(context.Background()) }()
	<-api.entered

	// A second toggle while the first is in flight is dropped, not queued.
	assert.False(t, m.Toggle(context.Background()))

	close(api.release)
	assert.True(t, <-done)

	_, add, remove := api.calls()
	assert.Equal(t, 1, add+remove, "exactly one network call issued")

	select {
	case <-api.entered:
		t.Fatal("dropped toggle must not reach the network")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestToggleRollsBackOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		member    bool
		addErr    error
		removeErr error
	}{
		{
			name:   "Failed add reverts to non-member",
			member: false,
			addErr: errors.New("add failed"),
		},
		{
			name:      "Failed remove reverts to member",
			member:    true,
			removeErr: errors.New("remove failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{inLibrary: tt.member, addErr: tt.addErr, removeErr: tt.removeErr}
			m := New(api, fakeGate(true), ItemTypeAlbum, "a1")
			m.Refresh(context.Background())
			require.Equal(t, tt.member, m.IsMember())

			assert.True(t, m.Toggle(context.Background()))

			assert.Equal(t, tt.member, m.IsMember(), "state reverted to pre-flip value")
			assert.False(t, m.Pending())
		})
	}
}

func TestRefreshResultStaleAfterToggle(t *testing.T) {
	api := &fakeAPI{
		inLibrary:    false,
		checkEntered: make(chan struct{}),
		checkRelease: make(chan struct{}),
	}
	m := New(api, fakeGate(true), ItemTypeAlbum, "a1")

	done := make(chan struct{})
	go func() {
		m.Refresh(context.Background())
		close(done)
	}()
	<-api.checkEntered

	// A toggle completes while the check is still in flight.
	require.True(t, m.Toggle(context.Background()))
	require.True(t, m.IsMember())

	close(api.checkRelease)
	<-done

	// The check's not-a-member answer predates the toggle and must not
	// overwrite the fresher confirmed value.
	assert.True(t, m.IsMember())
	assert.False(t, m.Pending())
}

func TestToggleSuccessKeepsOptimisticValue(t *testing.T) {
	api := &fakeAPI{}
	m := New(api, fakeGate(true), ItemTypeAlbum, "a1")

	assert.True(t, m.Toggle(context.Background()))
	assert.True(t, m.IsMember())

	assert.True(t, m.Toggle(context.Background()))
	assert.False(t, m.IsMember())

	_, add, remove := api.calls()
	assert.Equal(t, 1, add)
	assert.Equal(t, 1, remove)
}

func TestRegistrySharesInstances(t *testing.T) {
	api := &fakeAPI{}
	r := NewRegistry(api, fakeGate(true))

	a := r.Membership(ItemTypeAlbum, "x")
	b := r.Membership(ItemTypeAlbum, "x")
	c := r.Membership(ItemTypePlaylist, "x")

	assert.Same(t, a, b, "same item resolves to the same tracker")
	assert.NotSame(t, a, c, "album and playlist with the same ID are distinct")
}
