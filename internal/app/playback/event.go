package playback

import "github.com/tunebox/tunebox/internal/domain/track"

// EventType represents a playback event type.
type EventType int

const (
	EventTrackLoaded    EventType = iota // New track loaded, source acquiring
	EventTrackStarted                    // Playback started
	EventStateChanged                    // Playback state changed (pause/resume)
	EventProgress                        // Elapsed time updated
	EventTrackEnded                      // Source reached the end of the preview
	EventPlaybackFailed                  // Source rejected the play request
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackLoaded:
		return "track_loaded"
	case EventTrackStarted:
		return "track_started"
	case EventStateChanged:
		return "state_changed"
	case EventProgress:
		return "progress"
	case EventTrackEnded:
		return "track_ended"
	case EventPlaybackFailed:
		return "playback_failed"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type  EventType
	Track *track.Track // Current track (nil for some events)
	State State        // Current playback state
	Err   error        // Set for EventPlaybackFailed
}
