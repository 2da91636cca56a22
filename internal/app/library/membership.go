// Package library provides optimistic library-membership state for albums
// and playlists.
package library

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"
)

// ItemType identifies the kind of library item.
type ItemType string

const (
	ItemTypeAlbum    ItemType = "album"
	ItemTypePlaylist ItemType = "playlist"
)

// API is the slice of the backend client that membership needs.
type API interface {
	AlbumInLibrary(ctx context.Context, id string) (bool, error)
	AddAlbumToLibrary(ctx context.Context, id string) error
	RemoveAlbumFromLibrary(ctx context.Context, id string) error
	PlaylistInLibrary(ctx context.Context, id string) (bool, error)
	AddPlaylistToLibrary(ctx context.Context, id string) error
	RemovePlaylistFromLibrary(ctx context.Context, id string) error
}

// AuthGate reports whether library operations are allowed at all.
type AuthGate interface {
	IsAuthenticated() bool
}

// memberState tags the membership value. While a toggle is in flight the
// value is pending and remembers the pre-flip state, so rollback is a pure
// function of the tag instead of an ad hoc boolean flip.
type memberState int

const (
	confirmedOut memberState = iota // Confirmed not in library
	confirmedIn                     // Confirmed in library
	togglePending                   // Toggle in flight, optimistic value shown
)

type memberValue struct {
	kind     memberState
	previous bool // pre-flip membership, valid while pending
}

// isMember returns the externally visible membership: the optimistic
// post-flip value while pending, otherwise the confirmed value.
func (v memberValue) isMember() bool {
	switch v.kind {
	case confirmedIn:
		return true
	case togglePending:
		return !v.previous
	default:
		return false
	}
}

func confirmed(in bool) memberValue {
	if in {
		return memberValue{kind: confirmedIn}
	}
	return memberValue{kind: confirmedOut}
}

// Membership tracks whether one album or playlist is saved in the user's
// library, with optimistic toggling and rollback on remote failure.
type Membership struct {
	mu sync.Mutex

	itemType ItemType
	itemID   string
	value    memberValue
	toggles  int // completed toggle count; stale refresh results are discarded

	api  API
	gate AuthGate
}

// New creates a membership tracker for one item. The initial state is
// not-a-member until Refresh confirms otherwise.
func New(api API, gate AuthGate, itemType ItemType, itemID string) *Membership {
	return &Membership{
		itemType: itemType,
		itemID:   itemID,
		api:      api,
		gate:     gate,
	}
}

// ItemType returns the item kind.
func (m *Membership) ItemType() ItemType { return m.itemType }

// ItemID returns the item ID.
func (m *Membership) ItemID() string { return m.itemID }

// IsMember returns the visible membership state.
func (m *Membership) IsMember() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value.isMember()
}

// Pending reports whether a toggle is in flight.
func (m *Membership) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value.kind == togglePending
}

// Refresh checks the remote membership state. Skipped entirely when
// unauthenticated or while a toggle is in flight. Failures are logged and
// leave the current value untouched; this is best-effort presence data.
func (m *Membership) Refresh(ctx context.Context) {
	if !m.gate.IsAuthenticated() {
		return
	}

	m.mu.Lock()
	if m.value.kind == togglePending {
		m.mu.Unlock()
		return
	}
	seen := m.toggles
	m.mu.Unlock()

	in, err := m.check(ctx)
	if err != nil {
		zlog.Debug().Msgf("library: membership check failed: type=%s id=%s err=%v", m.itemType, m.itemID, err)
		return
	}

	// A toggle that started or finished while the check was in flight holds
	// a fresher value than the check's answer.
	m.mu.Lock()
	if m.value.kind != togglePending && m.toggles == seen {
		m.value = confirmed(in)
	}
	m.mu.Unlock()
}

// Toggle flips membership optimistically and reconciles with the remote
// result, rolling back on failure. The returned bool reports whether the
// toggle was issued: a toggle while unauthenticated or while another toggle
// is in flight is dropped, not queued. Remote errors never propagate; the
// only caller-visible effect of a failure is the reverted state.
func (m *Membership) Toggle(ctx context.Context) bool {
	if !m.gate.IsAuthenticated() {
		return false
	}

	m.mu.Lock()
	if m.value.kind == togglePending {
		m.mu.Unlock()
		return false
	}
	was := m.value.isMember()
	m.value = memberValue{kind: togglePending, previous: was}
	m.mu.Unlock()

	// The remote call matches the pre-flip state: member -> remove,
	// non-member -> add.
	var err error
	if was {
		err = m.remove(ctx)
	} else {
		err = m.add(ctx)
	}

	m.mu.Lock()
	m.toggles++
	if err != nil {
		zlog.Warn().Msgf("library: toggle failed, reverting: type=%s id=%s err=%v", m.itemType, m.itemID, err)
		m.value = confirmed(was)
	} else {
		m.value = confirmed(!was)
	}
	m.mu.Unlock()

	return true
}

func (m *Membership) check(ctx context.Context) (bool, error) {
	if m.itemType == ItemTypePlaylist {
		return m.api.PlaylistInLibrary(ctx, m.itemID)
	}
	return m.api.AlbumInLibrary(ctx, m.itemID)
}

func (m *Membership) add(ctx context.Context) error {
	if m.itemType == ItemTypePlaylist {
		return m.api.AddPlaylistToLibrary(ctx, m.itemID)
	}
	return m.api.AddAlbumToLibrary(ctx, m.itemID)
}

func (m *Membership) remove(ctx context.Context) error {
	if m.itemType == ItemTypePlaylist {
		return m.api.RemovePlaylistFromLibrary(ctx, m.itemID)
	}
	return m.api.RemoveAlbumFromLibrary(ctx, m.itemID)
}
